package extract

import (
	"fmt"
	"strings"

	"github.com/pmlens/pmlens/internal/mdparse"
	"github.com/pmlens/pmlens/internal/sheet"
	"github.com/pmlens/pmlens/internal/types"
)

var stakeholderKeywords = []string{
	"stakeholder", "influence", "interest", "sponsor", "role", "engagement",
}

var stakeholderColumnRules = []columnRule{
	{"id", []string{"id", "stakeholder id"}},
	{"name", []string{"name", "stakeholder", "contact"}},
	{"role", []string{"role", "position", "title"}},
	{"organization", []string{"organization", "company", "org"}},
	{"email", []string{"email", "e-mail", "mail"}},
	{"influence", []string{"influence", "power"}},
	{"interest", []string{"interest", "engagement"}},
	{"sentiment", []string{"sentiment", "attitude"}},
}

// StakeholderExtractor pulls stakeholders out of stakeholder registers.
type StakeholderExtractor struct{}

func NewStakeholderExtractor() *StakeholderExtractor {
	return &StakeholderExtractor{}
}

func (e *StakeholderExtractor) Extract(fi *types.FileInfo) ([]types.Stakeholder, error) {
	var stakeholders []types.Stakeholder
	var err error

	switch fi.Format {
	case types.FormatMarkdown:
		stakeholders, err = e.fromMarkdown(fi.Path)
	case types.FormatExcel, types.FormatCSV:
		stakeholders, err = e.fromWorkbook(fi.Path, fi.Format)
	default:
		return nil, types.NewExtractionError(
			fmt.Sprintf("cannot extract stakeholders from %s files", fi.Format), nil)
	}
	if err != nil {
		return nil, err
	}

	for i := range stakeholders {
		stakeholders[i].SourceFile = fi.Path
	}
	return stakeholders, nil
}

func (e *StakeholderExtractor) fromMarkdown(path string) ([]types.Stakeholder, error) {
	doc, err := mdparse.ParseFile(path)
	if err != nil {
		return nil, types.NewExtractionError("parsing stakeholder document", err)
	}

	var out []types.Stakeholder
	for _, table := range doc.TablesWithColumns(stakeholderKeywords...) {
		out = append(out, e.fromTable(table.Headers, table.Rows)...)
	}
	return out, nil
}

func (e *StakeholderExtractor) fromWorkbook(path string, format types.FileFormat) ([]types.Stakeholder, error) {
	wb, err := sheet.ReadFile(path, format)
	if err != nil {
		return nil, err
	}

	var out []types.Stakeholder
	for _, s := range wb.Sheets {
		headerText := strings.ToLower(strings.Join(s.Headers, " "))
		if containsAny(strings.ToLower(s.Name), stakeholderKeywords) ||
			containsAny(headerText, stakeholderKeywords) {
			out = append(out, e.fromTable(s.Headers, s.Rows)...)
		}
	}
	return out, nil
}

func (e *StakeholderExtractor) fromTable(headers []string, rows []map[string]string) []types.Stakeholder {
	mapping := mapColumns(headers, stakeholderColumnRules)

	var out []types.Stakeholder
	for i, row := range rows {
		name := fieldValue(row, mapping, "name")
		if name == "" {
			continue
		}
		id := fieldValue(row, mapping, "id")
		if id == "" {
			id = fmt.Sprintf("STK-%03d", i+1)
		}
		role := fieldValue(row, mapping, "role")
		roleLower := strings.ToLower(role)

		out = append(out, types.Stakeholder{
			ID:            id,
			Name:          name,
			Role:          role,
			Organization:  fieldValue(row, mapping, "organization"),
			Email:         fieldValue(row, mapping, "email"),
			Influence:     parseLevel(fieldValue(row, mapping, "influence")),
			Interest:      parseLevel(fieldValue(row, mapping, "interest")),
			Sentiment:     fieldValue(row, mapping, "sentiment"),
			IsDecisionMkr: containsAny(roleLower, []string{"sponsor", "director", "executive", "manager"}),
			IsSponsor:     strings.Contains(roleLower, "sponsor"),
		})
	}
	return out
}
