package extract

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmlens/pmlens/internal/types"
)

var extractNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func writeDoc(t *testing.T, name, content string) *types.FileInfo {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))

	format := types.FormatMarkdown
	if filepath.Ext(name) == ".csv" {
		format = types.FormatCSV
	}
	return &types.FileInfo{
		Path:         p,
		Format:       format,
		DocumentType: types.DocRiskRegister,
		SizeBytes:    int64(len(content)),
		LastModified: extractNow,
		IsReadable:   true,
	}
}

func newTestRiskExtractor() *RiskExtractor {
	e := NewRiskExtractor()
	e.Now = func() time.Time { return extractNow }
	return e
}

func TestRiskExtractFromMarkdownTable(t *testing.T) {
	fi := writeDoc(t, "risks.md", `# Risk Register

| ID | Title | Probability | Impact | Status | Owner | Mitigation |
|----|-------|-------------|--------|--------|-------|------------|
| R-1 | Vendor delay | High | High | Open | Dana | Weekly check-ins |
| R-2 | Scope creep | 0.3 | Medium | Mitigated | | |
`)

	risks, err := newTestRiskExtractor().Extract(fi)
	require.NoError(t, err)
	require.Len(t, risks, 2)

	r := risks[0]
	assert.Equal(t, "R-1", r.ID)
	assert.Equal(t, "Vendor delay", r.Title)
	assert.InDelta(t, 0.8, r.Probability, 1e-9)
	assert.InDelta(t, 0.8, r.Impact, 1e-9)
	assert.Equal(t, types.RiskCritical, r.Priority)
	assert.Equal(t, types.RiskOpen, r.Status)
	assert.Equal(t, "Dana", r.Owner)
	assert.Equal(t, "Weekly check-ins", r.MitigationStrategy)
	assert.Equal(t, fi.Path, r.SourceFile)

	assert.InDelta(t, 0.3, risks[1].Probability, 1e-9)
	assert.Equal(t, types.RiskMitigated, risks[1].Status)
	assert.Equal(t, "Unassigned", risks[1].Owner)
}

func TestRiskExtractFromText(t *testing.T) {
	fi := writeDoc(t, "risks.md", `Known concerns for the rollout.

Risk: API rate limits
Probability: high
Impact: medium
Status: open
Owner: Sam
`)

	risks, err := newTestRiskExtractor().Extract(fi)
	require.NoError(t, err)
	require.Len(t, risks, 1)

	r := risks[0]
	assert.Equal(t, "API rate limits", r.Title)
	assert.InDelta(t, 0.8, r.Probability, 1e-9)
	assert.InDelta(t, 0.5, r.Impact, 1e-9)
	assert.Equal(t, "Sam", r.Owner)
	assert.Equal(t, extractNow, r.IdentifiedDate)
}

func TestRiskExtractFromCSV(t *testing.T) {
	fi := writeDoc(t, "risks.csv", "ID,Risk Title,Probability,Impact,Priority\nR-9,Key person leaves,low,high,High\n")

	risks, err := newTestRiskExtractor().Extract(fi)
	require.NoError(t, err)
	require.Len(t, risks, 1)
	assert.Equal(t, "R-9", risks[0].ID)
	assert.Equal(t, types.RiskHigh, risks[0].Priority)
}

func TestRiskExtractUnsupportedFormat(t *testing.T) {
	fi := &types.FileInfo{Path: "x.mpp", Format: types.FormatMicrosoftProject}
	_, err := newTestRiskExtractor().Extract(fi)
	require.Error(t, err)
}

func TestDerivePriority(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		prob, impct float64
		want        types.RiskPriority
	}{
		{"explicit critical", "Critical", 0.1, 0.1, types.RiskCritical},
		{"explicit low", "low", 0.9, 0.9, types.RiskLow},
		{"score critical", "", 0.8, 0.8, types.RiskCritical},
		{"score high", "", 0.6, 0.6, types.RiskHigh},
		{"score medium", "", 0.4, 0.4, types.RiskMedium},
		{"score low", "", 0.2, 0.2, types.RiskLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, derivePriority(tt.value, tt.prob, tt.impct))
		})
	}
}

func TestParseRiskStatus(t *testing.T) {
	assert.Equal(t, types.RiskOpen, parseRiskStatus(""))
	assert.Equal(t, types.RiskClosed, parseRiskStatus("Resolved"))
	assert.Equal(t, types.RiskInProgress, parseRiskStatus("in_progress"))
	assert.Equal(t, types.RiskAccepted, parseRiskStatus("Accepted"))
	assert.Equal(t, types.RiskOpen, parseRiskStatus("mystery"))
}
