package sheet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pmlens/pmlens/internal/types"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestReadCSV(t *testing.T) {
	p := writeCSV(t, "ID,Risk,Probability\nR-1,Vendor delay,High\nR-2,Scope creep,Medium\n")

	wb, err := ReadFile(p, types.FormatCSV)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 1)

	s := wb.Sheets[0]
	assert.Equal(t, []string{"ID", "Risk", "Probability"}, s.Headers)
	require.Len(t, s.Rows, 2)
	assert.Equal(t, "Vendor delay", s.Rows[0]["Risk"])
	assert.Equal(t, "Medium", s.Rows[1]["Probability"])
}

func TestReadCSVRaggedRows(t *testing.T) {
	p := writeCSV(t, "A,B,C\n1,2\n4,5,6,7\n")

	wb, err := ReadFile(p, types.FormatCSV)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 1)

	rows := wb.Sheets[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[0]["C"])
	assert.Equal(t, "6", rows[1]["C"])
}

func TestReadCSVEmpty(t *testing.T) {
	p := writeCSV(t, "")

	wb, err := ReadFile(p, types.FormatCSV)
	require.NoError(t, err)
	assert.Empty(t, wb.Sheets)
}

func TestReadExcel(t *testing.T) {
	p := filepath.Join(t.TempDir(), "risks.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]string{"ID", "Risk", "Impact"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]string{"R-1", "Vendor delay", "High"}))
	require.NoError(t, f.SaveAs(p))

	wb, err := ReadFile(p, types.FormatExcel)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 1)
	assert.Equal(t, "Sheet1", wb.Sheets[0].Name)
	require.Len(t, wb.Sheets[0].Rows, 1)
	assert.Equal(t, "Vendor delay", wb.Sheets[0].Rows[0]["Risk"])
}

func TestReadExcelMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.xlsx"), types.FormatExcel)
	require.Error(t, err)

	var extractErr *types.ExtractionError
	assert.ErrorAs(t, err, &extractErr)
}

func TestUnsupportedFormats(t *testing.T) {
	for _, format := range []types.FileFormat{
		types.FormatExcelLegacy,
		types.FormatMicrosoftProject,
		types.FormatMarkdown,
	} {
		_, err := ReadFile("whatever", format)
		require.Error(t, err, "format %s", format)

		var extractErr *types.ExtractionError
		assert.ErrorAs(t, err, &extractErr)
	}
}

func TestBestSheet(t *testing.T) {
	wb := &Workbook{Sheets: []Sheet{
		{Name: "Notes", Headers: []string{"Date", "Comment"}},
		{Name: "Risks", Headers: []string{"ID", "Risk", "Probability", "Impact"}},
	}}

	s, ok := wb.BestSheet("risk", "probability", "impact")
	require.True(t, ok)
	assert.Equal(t, "Risks", s.Name)

	_, ok = wb.BestSheet("stakeholder")
	assert.False(t, ok)
}

func TestBuildSheetSkipsLeadingBlankRows(t *testing.T) {
	s, ok := buildSheet("x", [][]string{
		{"", ""},
		{"Name", "Role"},
		{"Dana", "Sponsor"},
	})
	require.True(t, ok)
	assert.Equal(t, []string{"Name", "Role"}, s.Headers)
	require.Len(t, s.Rows, 1)
	assert.Equal(t, "Dana", s.Rows[0]["Name"])
}
