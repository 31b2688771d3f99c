package process

import (
	"context"
	"fmt"
	"time"

	"github.com/pmlens/pmlens/internal/config"
	"github.com/pmlens/pmlens/internal/types"
)

// CheckItem is the compliance result for one required document type.
type CheckItem struct {
	DocumentType types.DocumentType `json:"document_type"`
	Present      bool               `json:"present"`
	Files        []string           `json:"files,omitempty"`
	BestQuality  float64            `json:"best_quality"`
	FormatOK     bool               `json:"format_ok"`
}

// CheckReport is the document-check payload.
type CheckReport struct {
	Items            []CheckItem          `json:"items"`
	MissingDocuments []types.DocumentType `json:"missing_documents"`
	ComplianceScore  float64              `json:"compliance_score"`
	ComplianceStatus string               `json:"compliance_status"`
	Recommendations  []string             `json:"recommendations"`
}

// DocumentCheck verifies presence, format, and quality of the required
// documents.
type DocumentCheck struct{}

func NewDocumentCheck() *DocumentCheck {
	return &DocumentCheck{}
}

func (p *DocumentCheck) Name() string              { return "document-check" }
func (p *DocumentCheck) Mode() types.OperationMode { return types.ModeDocumentCheck }

// CanProcess always holds: an empty catalog still yields a useful
// everything-is-missing report.
func (p *DocumentCheck) CanProcess([]*types.FileInfo) bool { return true }

func (p *DocumentCheck) Process(ctx context.Context, files []*types.FileInfo, cfg *config.Config) *types.ProcessingResult {
	start := time.Now()
	result := types.NewProcessingResult(p.Name())
	defer func() { result.Duration = time.Since(start) }()

	detector := detectorFor(cfg)
	grouped := filesByType(files)

	report := &CheckReport{}
	presentCount := 0
	for _, dt := range detector.RequiredTypes() {
		select {
		case <-ctx.Done():
			result.AddError(ctx.Err().Error())
			return result
		default:
		}

		item := CheckItem{DocumentType: dt}
		for _, f := range grouped[dt] {
			item.Present = true
			item.Files = append(item.Files, f.Path)
			if q := detector.FileQuality(f); q > item.BestQuality {
				item.BestQuality = q
			}
			if f.IsReadable && f.SizeBytes > 0 {
				item.FormatOK = true
			}
			f.MarkProcessed()
		}
		if item.Present {
			presentCount++
		} else {
			report.MissingDocuments = append(report.MissingDocuments, dt)
		}
		report.Items = append(report.Items, item)
	}

	if n := len(detector.RequiredTypes()); n > 0 {
		report.ComplianceScore = float64(presentCount) / float64(n)
	}
	report.ComplianceStatus = complianceStatus(report.ComplianceScore)
	report.Recommendations = checkRecommendations(report)

	result.Data[ReportKey] = report
	result.Data["compliance_score"] = report.ComplianceScore
	if len(report.MissingDocuments) > 0 {
		result.AddWarning(fmt.Sprintf("%d required documents are missing", len(report.MissingDocuments)))
	}
	return result
}

func complianceStatus(score float64) string {
	switch {
	case score >= 0.9:
		return "Excellent"
	case score >= 0.8:
		return "Good"
	case score >= 0.6:
		return "Fair"
	case score >= 0.4:
		return "Poor"
	default:
		return "Critical"
	}
}

func checkRecommendations(report *CheckReport) []string {
	var recs []string
	if n := len(report.MissingDocuments); n > 0 {
		recs = append(recs, fmt.Sprintf(
			"Create %d missing required documents to improve project compliance", n))
	}
	for _, item := range report.Items {
		if item.Present && item.BestQuality < 0.5 {
			recs = append(recs, fmt.Sprintf(
				"Improve the %s: its best file scores below 50%% quality", item.DocumentType.Display()))
		}
	}
	switch {
	case report.ComplianceScore < 0.5:
		recs = append(recs, "URGENT: documentation compliance is critically low; prioritize the missing documents")
	case report.ComplianceScore < 0.8:
		recs = append(recs, "Close the remaining documentation gaps to reach full compliance")
	}
	if recs == nil {
		recs = append(recs, "All required documents are present; keep them current")
	}
	return recs
}
