package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pmlens/pmlens/internal/mdparse"
	"github.com/pmlens/pmlens/internal/sheet"
	"github.com/pmlens/pmlens/internal/types"
)

var riskKeywords = []string{
	"risk", "threat", "opportunity", "hazard", "issue",
	"probability", "impact", "mitigation", "contingency",
}

var riskColumnRules = []columnRule{
	{"id", []string{"id", "number", "#"}},
	{"title", []string{"title", "name", "summary"}},
	{"description", []string{"description", "detail", "desc"}},
	{"category", []string{"category", "type", "class"}},
	{"probability", []string{"probability", "prob", "likelihood"}},
	{"impact", []string{"impact", "severity", "consequence"}},
	{"priority", []string{"priority", "level"}},
	{"status", []string{"status", "state"}},
	{"owner", []string{"owner", "assigned", "responsible"}},
	{"mitigation", []string{"mitigation", "response", "action"}},
	{"identified", []string{"date", "identified", "created"}},
	{"target", []string{"due", "target", "deadline"}},
}

var (
	riskIDRe     = regexp.MustCompile(`(?i)(?:risk\s*(?:id|#)?:?\s*)?([A-Z]{1,3}[-_]?\d{1,4})`)
	riskProbRe   = regexp.MustCompile(`(?i)(?:probability|prob|likelihood)[:=\s]*([^\n\r]+)`)
	riskImpactRe = regexp.MustCompile(`(?i)(?:impact|severity)[:=\s]*([^\n\r]+)`)
	riskStatusRe = regexp.MustCompile(`(?i)(?:status|state)[:=\s]*(open|closed|mitigated|in[_\s]progress|accepted)`)
	riskOwnerRe  = regexp.MustCompile(`(?i)(?:owner|assigned\s*to|responsible)[:=\s]*([A-Za-z ]+)`)
)

// RiskExtractor pulls risks out of risk registers in Markdown, Excel, or
// CSV form.
type RiskExtractor struct {
	// Now supplies the default identified date.
	Now func() time.Time
}

func NewRiskExtractor() *RiskExtractor {
	return &RiskExtractor{Now: time.Now}
}

// Extract reads the file described by fi and returns every risk it can
// recognize.
func (e *RiskExtractor) Extract(fi *types.FileInfo) ([]types.Risk, error) {
	var risks []types.Risk
	var err error

	switch fi.Format {
	case types.FormatMarkdown:
		risks, err = e.fromMarkdown(fi.Path)
	case types.FormatExcel, types.FormatCSV:
		risks, err = e.fromWorkbook(fi.Path, fi.Format)
	default:
		return nil, types.NewExtractionError(
			fmt.Sprintf("cannot extract risks from %s files", fi.Format), nil)
	}
	if err != nil {
		return nil, err
	}

	for i := range risks {
		risks[i].SourceFile = fi.Path
	}
	return risks, nil
}

func (e *RiskExtractor) fromMarkdown(path string) ([]types.Risk, error) {
	doc, err := mdparse.ParseFile(path)
	if err != nil {
		return nil, types.NewExtractionError("parsing risk document", err)
	}

	var risks []types.Risk
	for _, table := range doc.TablesWithColumns(riskKeywords...) {
		risks = append(risks, e.fromTable(table.Headers, table.Rows)...)
	}
	if len(risks) > 0 {
		return risks, nil
	}

	for _, section := range doc.Sections {
		if containsAny(strings.ToLower(section.Title+" "+section.Content), riskKeywords) {
			for _, entry := range textEntries(section.Content, riskKeywords) {
				if r, ok := e.fromTextEntry(entry); ok {
					risks = append(risks, r)
				}
			}
		}
	}
	if len(risks) > 0 {
		return risks, nil
	}

	for _, entry := range textEntries(doc.RawContent, riskKeywords) {
		if r, ok := e.fromTextEntry(entry); ok {
			risks = append(risks, r)
		}
	}
	return risks, nil
}

func (e *RiskExtractor) fromWorkbook(path string, format types.FileFormat) ([]types.Risk, error) {
	wb, err := sheet.ReadFile(path, format)
	if err != nil {
		return nil, err
	}

	var risks []types.Risk
	for _, s := range wb.Sheets {
		if isRiskSheet(s) {
			risks = append(risks, e.fromTable(s.Headers, s.Rows)...)
		}
	}
	return risks, nil
}

func isRiskSheet(s sheet.Sheet) bool {
	if containsAny(strings.ToLower(s.Name), riskKeywords) {
		return true
	}
	return containsAny(strings.ToLower(strings.Join(s.Headers, " ")), riskKeywords)
}

func (e *RiskExtractor) fromTable(headers []string, rows []map[string]string) []types.Risk {
	mapping := mapColumns(headers, riskColumnRules)

	var risks []types.Risk
	for i, row := range rows {
		probability := parseScale(fieldValue(row, mapping, "probability"),
			[]string{"high", "likely", "probable"},
			[]string{"medium", "moderate", "possible"},
			[]string{"low", "unlikely", "rare"})
		impact := parseScale(fieldValue(row, mapping, "impact"),
			[]string{"high", "severe", "critical", "major"},
			[]string{"medium", "moderate", "significant"},
			[]string{"low", "minor", "negligible"})

		id := fieldValue(row, mapping, "id")
		if id == "" {
			id = fmt.Sprintf("RISK-%03d", i+1)
		}
		title := fieldValue(row, mapping, "title")
		if title == "" {
			title = "Untitled Risk"
		}
		category := fieldValue(row, mapping, "category")
		if category == "" {
			category = "General"
		}
		owner := fieldValue(row, mapping, "owner")
		if owner == "" {
			owner = "Unassigned"
		}
		identified := parseDate(fieldValue(row, mapping, "identified"))
		if identified.IsZero() {
			identified = e.Now()
		}

		risks = append(risks, types.Risk{
			ID:                 id,
			Title:              title,
			Description:        fieldValue(row, mapping, "description"),
			Category:           category,
			Probability:        probability,
			Impact:             impact,
			Priority:           derivePriority(fieldValue(row, mapping, "priority"), probability, impact),
			Status:             parseRiskStatus(fieldValue(row, mapping, "status")),
			Owner:              owner,
			MitigationStrategy: fieldValue(row, mapping, "mitigation"),
			IdentifiedDate:     identified,
			TargetResolution:   parseDate(fieldValue(row, mapping, "target")),
		})
	}
	return risks
}

func (e *RiskExtractor) fromTextEntry(entry string) (types.Risk, bool) {
	title := firstLine(entry, 100)
	if title == "" {
		return types.Risk{}, false
	}
	if lower := strings.ToLower(title); strings.HasPrefix(lower, "risk") {
		if _, rest, found := strings.Cut(title, ":"); found {
			title = strings.TrimSpace(rest)
		}
	}

	id := fmt.Sprintf("RISK-%d", len(strings.Fields(entry)))
	if m := riskIDRe.FindStringSubmatch(entry); m != nil {
		id = m[1]
	}

	probability, impact := 0.5, 0.5
	if m := riskProbRe.FindStringSubmatch(entry); m != nil {
		probability = parseScale(m[1],
			[]string{"high", "likely", "probable"},
			[]string{"medium", "moderate", "possible"},
			[]string{"low", "unlikely", "rare"})
	}
	if m := riskImpactRe.FindStringSubmatch(entry); m != nil {
		impact = parseScale(m[1],
			[]string{"high", "severe", "critical", "major"},
			[]string{"medium", "moderate", "significant"},
			[]string{"low", "minor", "negligible"})
	}

	status := types.RiskOpen
	if m := riskStatusRe.FindStringSubmatch(entry); m != nil {
		status = parseRiskStatus(m[1])
	}

	owner := "Unassigned"
	if m := riskOwnerRe.FindStringSubmatch(entry); m != nil {
		owner = strings.TrimSpace(strings.SplitN(m[1], "\n", 2)[0])
	}

	return types.Risk{
		ID:             id,
		Title:          title,
		Description:    strings.TrimSpace(entry),
		Category:       "General",
		Probability:    probability,
		Impact:         impact,
		Priority:       derivePriority("", probability, impact),
		Status:         status,
		Owner:          owner,
		IdentifiedDate: e.Now(),
	}, true
}

// derivePriority honors an explicit priority word, otherwise buckets the
// exposure score.
func derivePriority(value string, probability, impact float64) types.RiskPriority {
	if value != "" {
		lower := strings.ToLower(value)
		switch {
		case containsAny(lower, []string{"critical", "very high", "urgent"}):
			return types.RiskCritical
		case containsAny(lower, []string{"high", "important"}):
			return types.RiskHigh
		case containsAny(lower, []string{"medium", "moderate"}):
			return types.RiskMedium
		case containsAny(lower, []string{"low", "minor"}):
			return types.RiskLow
		}
	}

	score := probability * impact
	switch {
	case score >= 0.64:
		return types.RiskCritical
	case score >= 0.36:
		return types.RiskHigh
	case score >= 0.16:
		return types.RiskMedium
	default:
		return types.RiskLow
	}
}

func parseRiskStatus(value string) types.RiskStatus {
	v := normalizeStatus(value)
	switch {
	case v == "":
		return types.RiskOpen
	case containsAny(v, []string{"closed", "resolved", "complete"}):
		return types.RiskClosed
	case containsAny(v, []string{"mitigated", "controlled"}):
		return types.RiskMitigated
	case containsAny(v, []string{"in progress", "active", "working"}):
		return types.RiskInProgress
	case containsAny(v, []string{"accepted", "acknowledged"}):
		return types.RiskAccepted
	default:
		return types.RiskOpen
	}
}
