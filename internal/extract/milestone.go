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

var milestoneKeywords = []string{
	"milestone", "target", "deadline", "phase", "gate", "release",
}

var milestoneColumnRules = []columnRule{
	{"id", []string{"id", "milestone id"}},
	{"name", []string{"name", "title", "milestone"}},
	{"description", []string{"description", "detail", "desc"}},
	{"target", []string{"target", "due", "deadline"}},
	{"actual", []string{"actual", "completion date"}},
	{"status", []string{"status", "state"}},
	{"owner", []string{"owner", "responsible", "assigned"}},
}

// milestoneLineRe matches roadmap bullets like
// "- Beta release: 2026-03-01" or "- 2026-03-01 Beta release".
var milestoneLineRe = regexp.MustCompile(
	`(?m)^\s*[-*+]\s+(?:(.+?)[:–-]\s*)?(\d{4}[-/]\d{1,2}[-/]\d{1,2}|\d{1,2}[-/]\d{1,2}[-/]\d{4})(?:\s*[:–-]?\s*(.+))?$`)

// MilestoneExtractor pulls milestones out of roadmaps and schedules.
type MilestoneExtractor struct {
	// Now drives overdue detection for undated statuses.
	Now func() time.Time
}

func NewMilestoneExtractor() *MilestoneExtractor {
	return &MilestoneExtractor{Now: time.Now}
}

func (e *MilestoneExtractor) Extract(fi *types.FileInfo) ([]types.Milestone, error) {
	var milestones []types.Milestone
	var err error

	switch fi.Format {
	case types.FormatMarkdown:
		milestones, err = e.fromMarkdown(fi.Path)
	case types.FormatExcel, types.FormatCSV:
		milestones, err = e.fromWorkbook(fi.Path, fi.Format)
	default:
		return nil, types.NewExtractionError(
			fmt.Sprintf("cannot extract milestones from %s files", fi.Format), nil)
	}
	if err != nil {
		return nil, err
	}

	for i := range milestones {
		milestones[i].SourceFile = fi.Path
	}
	return milestones, nil
}

func (e *MilestoneExtractor) fromMarkdown(path string) ([]types.Milestone, error) {
	doc, err := mdparse.ParseFile(path)
	if err != nil {
		return nil, types.NewExtractionError("parsing roadmap document", err)
	}

	var out []types.Milestone
	for _, table := range doc.TablesWithColumns(milestoneKeywords...) {
		out = append(out, e.fromTable(table.Headers, table.Rows)...)
	}
	if len(out) > 0 {
		return out, nil
	}

	for _, m := range milestoneLineRe.FindAllStringSubmatch(doc.RawContent, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" {
			name = strings.TrimSpace(m[3])
		}
		if name == "" {
			continue
		}
		target := parseDate(strings.ReplaceAll(m[2], "/", "-"))
		if target.IsZero() {
			target = parseDate(m[2])
		}
		out = append(out, types.Milestone{
			ID:         fmt.Sprintf("MS-%03d", len(out)+1),
			Name:       name,
			TargetDate: target,
			Status:     e.statusForDate(target),
		})
	}
	return out, nil
}

func (e *MilestoneExtractor) fromWorkbook(path string, format types.FileFormat) ([]types.Milestone, error) {
	wb, err := sheet.ReadFile(path, format)
	if err != nil {
		return nil, err
	}

	var out []types.Milestone
	for _, s := range wb.Sheets {
		headerText := strings.ToLower(strings.Join(s.Headers, " "))
		if containsAny(strings.ToLower(s.Name), milestoneKeywords) ||
			containsAny(headerText, milestoneKeywords) {
			out = append(out, e.fromTable(s.Headers, s.Rows)...)
		}
	}
	return out, nil
}

func (e *MilestoneExtractor) fromTable(headers []string, rows []map[string]string) []types.Milestone {
	mapping := mapColumns(headers, milestoneColumnRules)

	var out []types.Milestone
	for i, row := range rows {
		name := fieldValue(row, mapping, "name")
		if name == "" {
			continue
		}
		id := fieldValue(row, mapping, "id")
		if id == "" {
			id = fmt.Sprintf("MS-%03d", i+1)
		}
		target := parseDate(fieldValue(row, mapping, "target"))

		status := parseMilestoneStatus(fieldValue(row, mapping, "status"))
		if status == types.MilestoneUpcoming {
			status = e.statusForDate(target)
		}

		out = append(out, types.Milestone{
			ID:          id,
			Name:        name,
			Description: fieldValue(row, mapping, "description"),
			TargetDate:  target,
			ActualDate:  parseDate(fieldValue(row, mapping, "actual")),
			Status:      status,
			Owner:       fieldValue(row, mapping, "owner"),
		})
	}
	return out
}

// statusForDate marks past-target undated-status milestones overdue.
func (e *MilestoneExtractor) statusForDate(target time.Time) types.MilestoneStatus {
	if !target.IsZero() && target.Before(e.Now()) {
		return types.MilestoneOverdue
	}
	return types.MilestoneUpcoming
}

func parseMilestoneStatus(value string) types.MilestoneStatus {
	v := normalizeStatus(value)
	switch {
	case v == "":
		return types.MilestoneUpcoming
	case containsAny(v, []string{"completed", "done", "finished"}):
		return types.MilestoneCompleted
	case containsAny(v, []string{"in progress", "active", "working"}):
		return types.MilestoneInProgress
	case containsAny(v, []string{"overdue", "late", "delayed"}):
		return types.MilestoneOverdue
	case containsAny(v, []string{"cancelled", "canceled", "dropped"}):
		return types.MilestoneCancelled
	default:
		return types.MilestoneUpcoming
	}
}
