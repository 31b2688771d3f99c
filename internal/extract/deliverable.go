package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pmlens/pmlens/internal/mdparse"
	"github.com/pmlens/pmlens/internal/sheet"
	"github.com/pmlens/pmlens/internal/types"
)

var deliverableKeywords = []string{
	"deliverable", "task", "work package", "wbs", "activity", "milestone",
}

var deliverableColumnRules = []columnRule{
	{"id", []string{"id", "deliverable id", "item id"}},
	{"name", []string{"name", "title", "deliverable name"}},
	{"description", []string{"description", "detail", "desc"}},
	{"wbs", []string{"wbs", "code"}},
	{"status", []string{"status", "state"}},
	{"assigned", []string{"assigned", "owner", "responsible"}},
	{"start", []string{"start"}},
	{"due", []string{"due", "end date", "finish"}},
	{"completion", []string{"completion", "complete", "progress"}},
	{"dependencies", []string{"dependencies", "depends on", "prereq"}},
}

// wbsItemRe matches outline-numbered WBS lines like "1.2.3 Design review".
var wbsItemRe = regexp.MustCompile(`(?m)^\s*(\d+(?:\.\d+)*)\.?\s+(.+)$`)

// DeliverableExtractor pulls deliverables out of WBS documents.
type DeliverableExtractor struct{}

func NewDeliverableExtractor() *DeliverableExtractor {
	return &DeliverableExtractor{}
}

func (e *DeliverableExtractor) Extract(fi *types.FileInfo) ([]types.Deliverable, error) {
	var deliverables []types.Deliverable
	var err error

	switch fi.Format {
	case types.FormatMarkdown:
		deliverables, err = e.fromMarkdown(fi.Path)
	case types.FormatExcel, types.FormatCSV:
		deliverables, err = e.fromWorkbook(fi.Path, fi.Format)
	default:
		return nil, types.NewExtractionError(
			fmt.Sprintf("cannot extract deliverables from %s files", fi.Format), nil)
	}
	if err != nil {
		return nil, err
	}

	for i := range deliverables {
		deliverables[i].SourceFile = fi.Path
	}
	return deliverables, nil
}

func (e *DeliverableExtractor) fromMarkdown(path string) ([]types.Deliverable, error) {
	doc, err := mdparse.ParseFile(path)
	if err != nil {
		return nil, types.NewExtractionError("parsing WBS document", err)
	}

	var out []types.Deliverable
	for _, table := range doc.TablesWithColumns(deliverableKeywords...) {
		out = append(out, e.fromTable(table.Headers, table.Rows)...)
	}
	if len(out) > 0 {
		return out, nil
	}

	// Fall back to outline-numbered lines, the common WBS text form.
	for _, m := range wbsItemRe.FindAllStringSubmatch(doc.RawContent, -1) {
		name := strings.TrimSpace(m[2])
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		out = append(out, types.Deliverable{
			ID:      fmt.Sprintf("DEL-%03d", len(out)+1),
			Name:    name,
			WBSCode: m[1],
			Status:  types.DeliverableNotStarted,
		})
	}
	return out, nil
}

func (e *DeliverableExtractor) fromWorkbook(path string, format types.FileFormat) ([]types.Deliverable, error) {
	wb, err := sheet.ReadFile(path, format)
	if err != nil {
		return nil, err
	}

	var out []types.Deliverable
	for _, s := range wb.Sheets {
		headerText := strings.ToLower(strings.Join(s.Headers, " "))
		if containsAny(strings.ToLower(s.Name), deliverableKeywords) ||
			containsAny(headerText, deliverableKeywords) {
			out = append(out, e.fromTable(s.Headers, s.Rows)...)
		}
	}
	return out, nil
}

func (e *DeliverableExtractor) fromTable(headers []string, rows []map[string]string) []types.Deliverable {
	mapping := mapColumns(headers, deliverableColumnRules)

	var out []types.Deliverable
	for i, row := range rows {
		name := fieldValue(row, mapping, "name")
		if name == "" {
			continue
		}
		id := fieldValue(row, mapping, "id")
		if id == "" {
			id = fmt.Sprintf("DEL-%03d", i+1)
		}

		out = append(out, types.Deliverable{
			ID:                   id,
			Name:                 name,
			Description:          fieldValue(row, mapping, "description"),
			WBSCode:              fieldValue(row, mapping, "wbs"),
			Status:               parseDeliverableStatus(fieldValue(row, mapping, "status")),
			AssignedTo:           fieldValue(row, mapping, "assigned"),
			StartDate:            parseDate(fieldValue(row, mapping, "start")),
			DueDate:              parseDate(fieldValue(row, mapping, "due")),
			CompletionPercentage: parseCompletion(fieldValue(row, mapping, "completion")),
			Dependencies:         parseList(fieldValue(row, mapping, "dependencies")),
		})
	}
	return out
}

func parseDeliverableStatus(value string) types.DeliverableStatus {
	v := normalizeStatus(value)
	switch {
	case v == "":
		return types.DeliverableNotStarted
	case containsAny(v, []string{"completed", "done", "finished"}):
		return types.DeliverableCompleted
	case containsAny(v, []string{"in progress", "active", "working"}):
		return types.DeliverableInProgress
	case containsAny(v, []string{"on hold", "paused", "suspended"}):
		return types.DeliverableOnHold
	case containsAny(v, []string{"cancelled", "canceled", "dropped"}):
		return types.DeliverableCancelled
	default:
		return types.DeliverableNotStarted
	}
}

// parseCompletion accepts "75%", "75", or "0.75" and returns 0..100.
func parseCompletion(value string) float64 {
	value = strings.TrimSuffix(strings.TrimSpace(value), "%")
	if value == "" {
		return 0
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	if n <= 1 {
		n *= 100
	}
	return min(max(n, 0), 100)
}
