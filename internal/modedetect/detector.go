package modedetect

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pmlens/pmlens/internal/types"
)

// Document importance weights for completeness scoring (higher = more
// important). Required types without an entry fall back to defaultWeight.
var documentWeights = map[types.DocumentType]float64{
	types.DocCharter:             0.15,
	types.DocRiskRegister:        0.20,
	types.DocStakeholderRegister: 0.15,
	types.DocWBS:                 0.20,
	types.DocRoadmap:             0.15,
	types.DocProjectSchedule:     0.15,
}

const defaultWeight = 0.1

// Completeness thresholds for the mode decision.
const (
	statusAnalysisThreshold = 0.60
	documentCheckThreshold  = 0.20
)

// Quality factor weights. The four factors sum to 1.0.
const (
	factorFileSize = 0.25
	factorRecency  = 0.25
	factorFormat   = 0.30
	factorReadable = 0.20
)

// preferredFormats maps each document type to the formats that suit it.
// A matching format scores 1.0, a known type with another format 0.6, and
// types without an entry 0.8.
var preferredFormats = map[types.DocumentType][]string{
	types.DocCharter:             {"md", "docx"},
	types.DocRiskRegister:        {"xlsx", "csv", "md"},
	types.DocStakeholderRegister: {"xlsx", "csv"},
	types.DocWBS:                 {"md", "docx", "xlsx"},
	types.DocRoadmap:             {"md", "docx", "mpp"},
	types.DocProjectSchedule:     {"mpp", "xlsx"},
}

// defaultRequiredTypes is used when configuration supplies no recognizable
// required documents.
var defaultRequiredTypes = []types.DocumentType{
	types.DocCharter,
	types.DocRiskRegister,
	types.DocStakeholderRegister,
	types.DocWBS,
	types.DocRoadmap,
}

// requiredNameKeywords maps config document names (matched as lowercase
// substrings) to document types. Longer, more specific keywords are listed
// alongside their short forms; first match wins.
var requiredNameKeywords = []struct {
	keyword string
	docType types.DocumentType
}{
	{"project charter", types.DocCharter},
	{"charter", types.DocCharter},
	{"risk management plan", types.DocRiskRegister},
	{"risk register", types.DocRiskRegister},
	{"risk", types.DocRiskRegister},
	{"stakeholder register", types.DocStakeholderRegister},
	{"stakeholder", types.DocStakeholderRegister},
	{"work breakdown structure", types.DocWBS},
	{"wbs", types.DocWBS},
	{"roadmap", types.DocRoadmap},
	{"timeline", types.DocRoadmap},
	{"project schedule", types.DocProjectSchedule},
	{"schedule", types.DocProjectSchedule},
}

// RequiredDocument is one entry of the configuration's required-document
// list, as much of it as mode detection needs.
type RequiredDocument struct {
	Name     string
	Required bool
}

// Detector analyzes discovered files and recommends the operation mode
// that best fits the project's documentation state.
//
// The scoring model combines a weighted document-completeness score with
// per-file quality scores (size, recency, format fit, readability) and
// fixed decision thresholds. Each Analyze call is independent; the only
// non-input dependency is the clock used for recency scoring.
type Detector struct {
	requiredTypes []types.DocumentType

	// Now returns the current time for recency scoring. Tests override it
	// to pin file ages.
	Now func() time.Time
}

// New creates a detector from the configured required-document entries.
// Entries are matched by name against a fixed keyword table; when the list
// is empty or yields no recognized types, the default five-type set is used.
func New(required []RequiredDocument) *Detector {
	return &Detector{
		requiredTypes: resolveRequiredTypes(required),
		Now:           time.Now,
	}
}

// RequiredTypes returns the required document types in canonical order.
func (d *Detector) RequiredTypes() []types.DocumentType {
	out := make([]types.DocumentType, len(d.requiredTypes))
	copy(out, d.requiredTypes)
	return out
}

// Analyze scores the discovered files and builds a mode recommendation.
// projectPath is informational only and does not influence scoring.
//
// A malformed descriptor fails the whole call with a ValidationError before
// any scoring happens. Any internal failure mid-analysis is likewise
// surfaced as a ValidationError; callers own the fallback policy.
func (d *Detector) Analyze(files []*types.FileInfo, projectPath string) (rec *types.Recommendation, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec = nil
			err = types.NewValidationError(
				fmt.Sprintf("failed to analyze files for mode detection (project %q)", projectPath),
				fmt.Errorf("%v", r))
		}
	}()

	if len(files) == 0 {
		return d.recommendLearningMode("No project files found in the specified directory"), nil
	}

	if err := validateFiles(files); err != nil {
		return nil, err
	}

	completeness := d.CompletenessScore(files)
	quality := d.QualityScores(files)
	available, missing := d.documentAvailability(files)

	return d.buildRecommendation(completeness, quality, available, missing), nil
}

// CompletenessScore computes the weighted share of required documents that
// are present, each discounted by the quality of its best file. The result
// is clamped to [0, 1].
func (d *Detector) CompletenessScore(files []*types.FileInfo) float64 {
	totalWeight := 0.0
	achievedWeight := 0.0

	for _, docType := range d.requiredTypes {
		weight, ok := documentWeights[docType]
		if !ok {
			weight = defaultWeight
		}
		totalWeight += weight

		best := -1.0
		for _, f := range files {
			if f.DocumentType != docType {
				continue
			}
			if q := d.FileQuality(f); q > best {
				best = q
			}
		}
		if best >= 0 {
			achievedWeight += weight * best
		}
	}

	if totalWeight <= 0 {
		return 0.0
	}
	return types.Clamp01(achievedWeight / totalWeight)
}

// FileQuality scores a single file in [0, 1]. Four weighted factors are
// summed, then multiplicative penalties are applied for empty (×0.3) and
// unreadable (×0.5) files. The penalties stack, so an empty unreadable
// file lands near zero even though its factor sub-scores look moderate.
func (d *Detector) FileQuality(f *types.FileInfo) float64 {
	score := 0.0

	// Non-empty size, diminishing-returns curve saturating near 1.0.
	sizeScore := 0.0
	if f.SizeBytes > 0 {
		kb := float64(f.SizeBytes) / 1024.0
		sizeScore = math.Min(1.0, 0.3+0.2*math.Pow(kb, 0.3))
	}
	score += factorFileSize * sizeScore

	// Recency, bucketed by whole days since last modification.
	ageDays := int(d.Now().Sub(f.LastModified).Hours() / 24)
	recencyScore := 0.4
	switch {
	case ageDays <= 7:
		recencyScore = 1.0
	case ageDays <= 30:
		recencyScore = 0.8
	case ageDays <= 90:
		recencyScore = 0.6
	}
	score += factorRecency * recencyScore

	score += factorFormat * formatAppropriateness(f)

	if f.IsReadable {
		score += factorReadable
	}

	if f.SizeBytes == 0 {
		score *= 0.3
	}
	if !f.IsReadable {
		score *= 0.5
	}

	return types.Clamp01(score)
}

// QualityScores aggregates per-file quality to one score per document type,
// taking the maximum among same-type files: one excellent file offsets
// several poor ones. Unknown-typed files are excluded.
func (d *Detector) QualityScores(files []*types.FileInfo) map[types.DocumentType]float64 {
	scores := make(map[types.DocumentType]float64)
	for _, f := range files {
		if f.DocumentType == types.DocUnknown {
			continue
		}
		q := d.FileQuality(f)
		if best, ok := scores[f.DocumentType]; !ok || q > best {
			scores[f.DocumentType] = q
		}
	}
	return scores
}

// formatAppropriateness scores how well the file's format suits its
// document type.
func formatAppropriateness(f *types.FileInfo) float64 {
	preferred, ok := preferredFormats[f.DocumentType]
	if !ok {
		return 0.8
	}
	for _, format := range preferred {
		if string(f.Format) == format {
			return 1.0
		}
	}
	return 0.6
}

// documentAvailability partitions document types into those present among
// the files and those required but absent. Both lists are sorted into
// canonical order so output is deterministic for a fixed input.
func (d *Detector) documentAvailability(files []*types.FileInfo) (available, missing []types.DocumentType) {
	present := make(map[types.DocumentType]bool)
	for _, f := range files {
		if f.DocumentType != types.DocUnknown {
			present[f.DocumentType] = true
		}
	}

	for docType := range present {
		available = append(available, docType)
	}
	types.SortDocumentTypes(available)

	for _, docType := range d.requiredTypes {
		if !present[docType] {
			missing = append(missing, docType)
		}
	}
	types.SortDocumentTypes(missing)

	return available, missing
}

// buildRecommendation applies the threshold decision, adjusts confidence by
// average quality, and assembles reasoning and alternatives.
func (d *Detector) buildRecommendation(completeness float64,
	quality map[types.DocumentType]float64,
	available, missing []types.DocumentType) *types.Recommendation {

	var mode types.OperationMode
	var confidence float64
	switch {
	case completeness >= statusAnalysisThreshold:
		mode = types.ModeStatusAnalysis
		confidence = completeness
	case completeness >= documentCheckThreshold:
		mode = types.ModeDocumentCheck
		// Fixed base: some files exist, so a check is almost always right.
		confidence = 0.8
	default:
		mode = types.ModeLearningModule
		confidence = 0.9
	}

	// ±10% swing depending on whether average quality sits above or below
	// the 0.5 midpoint.
	if len(quality) > 0 {
		confidence += (averageQuality(quality) - 0.5) * 0.2
	}

	reasoning := d.buildReasoning(mode, completeness, available, missing, quality)
	alternatives := alternativeModes(mode, completeness)

	return types.NewRecommendation(mode, confidence, reasoning, available, missing, quality, alternatives)
}

// alternativeModes lists secondary suggestions for the chosen mode. The
// DocumentCheck branch intentionally adds nothing at exactly 0.4: both
// comparisons are strict.
func alternativeModes(primary types.OperationMode, completeness float64) []types.OperationMode {
	var alts []types.OperationMode
	switch primary {
	case types.ModeStatusAnalysis:
		alts = append(alts, types.ModeDocumentCheck)
		if completeness < 0.8 {
			alts = append(alts, types.ModeLearningModule)
		}
	case types.ModeDocumentCheck:
		if completeness < 0.4 {
			alts = append(alts, types.ModeLearningModule)
		}
		if completeness > 0.4 {
			alts = append(alts, types.ModeStatusAnalysis)
		}
	default: // learning module
		alts = append(alts, types.ModeDocumentCheck)
		if completeness > 0.3 {
			alts = append(alts, types.ModeStatusAnalysis)
		}
	}
	return alts
}

// buildReasoning assembles the human-readable explanation for the chosen
// mode, naming key available or critically missing documents and closing
// with an overall quality note when quality is notably high or low.
func (d *Detector) buildReasoning(mode types.OperationMode, completeness float64,
	available, missing []types.DocumentType,
	quality map[types.DocumentType]float64) string {

	var sb strings.Builder

	switch mode {
	case types.ModeStatusAnalysis:
		fmt.Fprintf(&sb, "Status Analysis mode recommended due to %.0f%% project completeness. "+
			"Found %d of %d required document types.",
			completeness*100, len(available), len(d.requiredTypes))

		var keyDocs []string
		for _, doc := range available {
			if doc == types.DocRiskRegister || doc == types.DocWBS || doc == types.DocStakeholderRegister {
				keyDocs = append(keyDocs, doc.Display())
			}
		}
		if len(keyDocs) > 0 {
			fmt.Fprintf(&sb, " Key documents available: %s.", strings.Join(keyDocs, ", "))
		}

	case types.ModeDocumentCheck:
		fmt.Fprintf(&sb, "Document Check mode recommended due to %.0f%% project completeness. "+
			"Missing %d required document types.",
			completeness*100, len(missing))

		var critical []string
		for _, doc := range missing {
			if doc == types.DocCharter || doc == types.DocRiskRegister || doc == types.DocWBS {
				critical = append(critical, doc.Display())
				if len(critical) == 3 {
					break
				}
			}
		}
		if len(critical) > 0 {
			fmt.Fprintf(&sb, " Critical missing documents: %s.", strings.Join(critical, ", "))
		}

	default:
		fmt.Fprintf(&sb, "Learning Module mode recommended due to %.0f%% project completeness. "+
			"Only %d document types found.",
			completeness*100, len(available))
		sb.WriteString(" Consider using learning modules to understand project management documentation requirements.")
	}

	if len(quality) > 0 {
		avg := averageQuality(quality)
		if avg > 0.8 {
			sb.WriteString(" Document quality is excellent for reliable analysis.")
		} else if avg < 0.5 {
			sb.WriteString(" Document quality concerns may affect analysis reliability.")
		}
	}

	return sb.String()
}

// recommendLearningMode is the empty-input path: full confidence, the whole
// required set missing, and a document check as the only alternative.
func (d *Detector) recommendLearningMode(reason string) *types.Recommendation {
	missing := make([]types.DocumentType, len(d.requiredTypes))
	copy(missing, d.requiredTypes)

	return types.NewRecommendation(
		types.ModeLearningModule,
		1.0,
		reason+". Learning Module mode will provide guidance on project management documentation and best practices.",
		[]types.DocumentType{},
		missing,
		map[types.DocumentType]float64{},
		[]types.OperationMode{types.ModeDocumentCheck},
	)
}

// validateFiles rejects the batch when any descriptor is malformed.
func validateFiles(files []*types.FileInfo) error {
	for i, f := range files {
		if f == nil {
			return types.NewValidationError(fmt.Sprintf("file %d is nil", i), nil)
		}
		if err := f.Validate(); err != nil {
			return types.NewValidationError(fmt.Sprintf("file %d is not a valid descriptor", i), err)
		}
	}
	return nil
}

func averageQuality(quality map[types.DocumentType]float64) float64 {
	sum := 0.0
	for _, q := range quality {
		sum += q
	}
	return sum / float64(len(quality))
}

// resolveRequiredTypes maps config entries to document types via the
// keyword table. Entries with required=false are ignored. Duplicates
// collapse; result keeps canonical order.
func resolveRequiredTypes(required []RequiredDocument) []types.DocumentType {
	if len(required) == 0 {
		return append([]types.DocumentType(nil), defaultRequiredTypes...)
	}

	seen := make(map[types.DocumentType]bool)
	var resolved []types.DocumentType
	for _, doc := range required {
		if !doc.Required {
			continue
		}
		name := strings.ToLower(doc.Name)
		for _, entry := range requiredNameKeywords {
			if strings.Contains(name, entry.keyword) {
				if !seen[entry.docType] {
					seen[entry.docType] = true
					resolved = append(resolved, entry.docType)
				}
				break
			}
		}
	}

	if len(resolved) == 0 {
		return append([]types.DocumentType(nil), defaultRequiredTypes...)
	}
	return types.SortDocumentTypes(resolved)
}
