package modedetect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmlens/pmlens/internal/types"
)

// fixedNow pins the clock so recency scoring is deterministic.
var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestDetector() *Detector {
	d := New(nil)
	d.Now = func() time.Time { return fixedNow }
	return d
}

func testFile(docType types.DocumentType, format types.FileFormat, size int64, age time.Duration, readable bool) *types.FileInfo {
	return &types.FileInfo{
		Path:         "project/" + string(docType) + "." + string(format),
		Format:       format,
		DocumentType: docType,
		SizeBytes:    size,
		LastModified: fixedNow.Add(-age),
		IsReadable:   readable,
	}
}

func goodFile(docType types.DocumentType, format types.FileFormat) *types.FileInfo {
	return testFile(docType, format, 10*1024, time.Hour, true)
}

func TestAnalyzeEmptyFileList(t *testing.T) {
	d := newTestDetector()

	rec, err := d.Analyze(nil, "/tmp/project")
	require.NoError(t, err)

	assert.Equal(t, types.ModeLearningModule, rec.RecommendedMode)
	assert.Equal(t, 1.0, rec.ConfidenceScore)
	assert.Empty(t, rec.AvailableDocuments)
	assert.Len(t, rec.MissingDocuments, 5)
	assert.Equal(t, []types.OperationMode{types.ModeDocumentCheck}, rec.AlternativeModes)
	assert.Contains(t, rec.Reasoning, "No project files found")
}

func TestAnalyzeCompleteProject(t *testing.T) {
	d := newTestDetector()

	files := []*types.FileInfo{
		goodFile(types.DocCharter, types.FormatMarkdown),
		goodFile(types.DocRiskRegister, types.FormatExcel),
		goodFile(types.DocStakeholderRegister, types.FormatExcel),
		goodFile(types.DocWBS, types.FormatMarkdown),
		goodFile(types.DocRoadmap, types.FormatMarkdown),
	}

	rec, err := d.Analyze(files, "")
	require.NoError(t, err)

	assert.Equal(t, types.ModeStatusAnalysis, rec.RecommendedMode)
	assert.GreaterOrEqual(t, d.CompletenessScore(files), 0.9)
	assert.Empty(t, rec.MissingDocuments)
	assert.Len(t, rec.AvailableDocuments, 5)
	assert.Contains(t, rec.Reasoning, "Status Analysis mode recommended")
	assert.Contains(t, rec.Reasoning, "Key documents available:")
	assert.Contains(t, rec.Reasoning, "Risk Register")
}

func TestAnalyzeCharterOnly(t *testing.T) {
	d := newTestDetector()

	files := []*types.FileInfo{goodFile(types.DocCharter, types.FormatMarkdown)}

	rec, err := d.Analyze(files, "")
	require.NoError(t, err)

	score := d.CompletenessScore(files)
	assert.Greater(t, score, 0.1)
	assert.Less(t, score, 0.3)
	assert.NotEqual(t, types.ModeStatusAnalysis, rec.RecommendedMode)
}

func TestFileQualityEmptyFile(t *testing.T) {
	d := newTestDetector()

	f := testFile(types.DocRiskRegister, types.FormatMarkdown, 0, time.Hour, true)
	q := d.FileQuality(f)

	// Size factor zeroed, then the whole sum is multiplied by 0.3.
	assert.Less(t, q, 0.3)
	assert.Greater(t, q, 0.0)
}

func TestFileQualityPenaltiesStack(t *testing.T) {
	d := newTestDetector()

	f := testFile(types.DocRiskRegister, types.FormatMarkdown, 0, time.Hour, false)
	q := d.FileQuality(f)

	// Empty and unreadable: ×0.3 then ×0.5 on an already reduced sum.
	assert.Less(t, q, 0.1)
}

func TestFileQualityReadabilityMonotonic(t *testing.T) {
	d := newTestDetector()

	readable := testFile(types.DocWBS, types.FormatMarkdown, 4096, 48*time.Hour, true)
	unreadable := testFile(types.DocWBS, types.FormatMarkdown, 4096, 48*time.Hour, false)

	assert.GreaterOrEqual(t, d.FileQuality(readable), d.FileQuality(unreadable))
}

func TestFileQualitySizeMonotonic(t *testing.T) {
	d := newTestDetector()

	empty := testFile(types.DocWBS, types.FormatMarkdown, 0, time.Hour, true)
	populated := testFile(types.DocWBS, types.FormatMarkdown, 1, time.Hour, true)

	assert.Less(t, d.FileQuality(empty), d.FileQuality(populated))
}

func TestFileQualityRecencyBuckets(t *testing.T) {
	d := newTestDetector()

	tests := []struct {
		name string
		age  time.Duration
	}{
		{"week old", 6 * 24 * time.Hour},
		{"month old", 25 * 24 * time.Hour},
		{"quarter old", 80 * 24 * time.Hour},
		{"ancient", 400 * 24 * time.Hour},
	}

	prev := 2.0
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := d.FileQuality(testFile(types.DocCharter, types.FormatMarkdown, 4096, tt.age, true))
			assert.Less(t, q, prev, "older files must not score higher")
			assert.GreaterOrEqual(t, q, 0.0)
			assert.LessOrEqual(t, q, 1.0)
			prev = q
		})
	}
}

func TestFormatAppropriateness(t *testing.T) {
	tests := []struct {
		name    string
		docType types.DocumentType
		format  types.FileFormat
		want    float64
	}{
		{"preferred match", types.DocRiskRegister, types.FormatExcel, 1.0},
		{"known type, wrong format", types.DocStakeholderRegister, types.FormatMarkdown, 0.6},
		{"unmapped type", types.DocStatusReport, types.FormatMarkdown, 0.8},
		{"schedule prefers mpp", types.DocProjectSchedule, types.FormatMicrosoftProject, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testFile(tt.docType, tt.format, 1024, time.Hour, true)
			assert.Equal(t, tt.want, formatAppropriateness(f))
		})
	}
}

func TestQualityScoresTakeMaxPerType(t *testing.T) {
	d := newTestDetector()

	low := testFile(types.DocWBS, types.FormatMarkdown, 0, 200*24*time.Hour, true)
	high := goodFile(types.DocWBS, types.FormatMarkdown)

	scores := d.QualityScores([]*types.FileInfo{low, high})
	require.Contains(t, scores, types.DocWBS)
	assert.Equal(t, d.FileQuality(high), scores[types.DocWBS])
}

func TestUnknownFilesIgnored(t *testing.T) {
	d := newTestDetector()

	base := []*types.FileInfo{
		goodFile(types.DocCharter, types.FormatMarkdown),
		goodFile(types.DocRiskRegister, types.FormatExcel),
		goodFile(types.DocWBS, types.FormatMarkdown),
		goodFile(types.DocRoadmap, types.FormatMarkdown),
	}
	withUnknown := append(append([]*types.FileInfo{}, base...),
		goodFile(types.DocUnknown, types.FormatExcel))

	assert.Equal(t, d.CompletenessScore(base), d.CompletenessScore(withUnknown))

	rec, err := d.Analyze(withUnknown, "")
	require.NoError(t, err)
	assert.NotContains(t, rec.AvailableDocuments, types.DocUnknown)
	assert.NotContains(t, rec.FileQualityScores, types.DocUnknown)
}

func TestAnalyzeIdempotent(t *testing.T) {
	d := newTestDetector()

	files := []*types.FileInfo{
		goodFile(types.DocCharter, types.FormatMarkdown),
		goodFile(types.DocRiskRegister, types.FormatExcel),
	}

	first, err := d.Analyze(files, "")
	require.NoError(t, err)
	second, err := d.Analyze(files, "")
	require.NoError(t, err)

	assert.Equal(t, first.RecommendedMode, second.RecommendedMode)
	assert.Equal(t, first.ConfidenceScore, second.ConfidenceScore)
	assert.Equal(t, first.AvailableDocuments, second.AvailableDocuments)
	assert.Equal(t, first.MissingDocuments, second.MissingDocuments)
}

func TestAnalyzeInvariants(t *testing.T) {
	d := newTestDetector()

	files := []*types.FileInfo{
		goodFile(types.DocCharter, types.FormatMarkdown),
		testFile(types.DocRiskRegister, types.FormatYAML, 0, 365*24*time.Hour, false),
		goodFile(types.DocStatusReport, types.FormatMarkdown),
	}

	rec, err := d.Analyze(files, "")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, rec.ConfidenceScore, 0.0)
	assert.LessOrEqual(t, rec.ConfidenceScore, 1.0)
	for docType, q := range rec.FileQualityScores {
		assert.GreaterOrEqual(t, q, 0.0, "quality for %s", docType)
		assert.LessOrEqual(t, q, 1.0, "quality for %s", docType)
	}

	// Available and missing never overlap, and together cover the
	// required set. Extra discovered types appear only in available.
	missing := make(map[types.DocumentType]bool)
	for _, docType := range rec.MissingDocuments {
		missing[docType] = true
	}
	covered := make(map[types.DocumentType]bool)
	for _, docType := range rec.AvailableDocuments {
		assert.False(t, missing[docType], "%s in both partitions", docType)
		covered[docType] = true
	}
	for docType := range missing {
		covered[docType] = true
	}
	for _, docType := range d.RequiredTypes() {
		assert.True(t, covered[docType], "required %s not covered", docType)
	}
	assert.Contains(t, rec.AvailableDocuments, types.DocStatusReport)
}

func TestAnalyzeRejectsMalformedDescriptors(t *testing.T) {
	d := newTestDetector()

	tests := []struct {
		name  string
		files []*types.FileInfo
	}{
		{"nil element", []*types.FileInfo{goodFile(types.DocCharter, types.FormatMarkdown), nil}},
		{"negative size", []*types.FileInfo{testFile(types.DocCharter, types.FormatMarkdown, -1, time.Hour, true)}},
		{"empty path", []*types.FileInfo{{Format: types.FormatMarkdown, DocumentType: types.DocCharter}}},
		{"bad format", []*types.FileInfo{{Path: "x", Format: "docx", DocumentType: types.DocCharter}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := d.Analyze(tt.files, "")
			assert.Nil(t, rec)
			require.Error(t, err)
			var verr *types.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestAlternativeModes(t *testing.T) {
	tests := []struct {
		name         string
		primary      types.OperationMode
		completeness float64
		want         []types.OperationMode
	}{
		{"status, very complete", types.ModeStatusAnalysis, 0.9,
			[]types.OperationMode{types.ModeDocumentCheck}},
		{"status, moderately complete", types.ModeStatusAnalysis, 0.65,
			[]types.OperationMode{types.ModeDocumentCheck, types.ModeLearningModule}},
		{"check, low completeness", types.ModeDocumentCheck, 0.25,
			[]types.OperationMode{types.ModeLearningModule}},
		{"check, higher completeness", types.ModeDocumentCheck, 0.5,
			[]types.OperationMode{types.ModeStatusAnalysis}},
		// Boundary: at exactly 0.4 both comparisons are strict and
		// neither alternative fires. Locked in deliberately.
		{"check, exactly 0.4", types.ModeDocumentCheck, 0.4, nil},
		{"learning, minimal files", types.ModeLearningModule, 0.1,
			[]types.OperationMode{types.ModeDocumentCheck}},
		{"learning, some files", types.ModeLearningModule, 0.35,
			[]types.OperationMode{types.ModeDocumentCheck, types.ModeStatusAnalysis}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, alternativeModes(tt.primary, tt.completeness))
		})
	}
}

func TestConfidenceBases(t *testing.T) {
	d := newTestDetector()

	// A lone stale, poorly formatted stakeholder register keeps
	// completeness in the document-check band.
	files := []*types.FileInfo{
		testFile(types.DocStakeholderRegister, types.FormatExcel, 50*1024, time.Hour, true),
		testFile(types.DocRiskRegister, types.FormatExcel, 50*1024, time.Hour, true),
	}
	score := d.CompletenessScore(files)
	require.GreaterOrEqual(t, score, documentCheckThreshold)
	require.Less(t, score, statusAnalysisThreshold)

	rec, err := d.Analyze(files, "")
	require.NoError(t, err)
	assert.Equal(t, types.ModeDocumentCheck, rec.RecommendedMode)

	// Base 0.8 plus the quality adjustment, never derived from the
	// completeness score itself.
	avg := averageQuality(rec.FileQualityScores)
	assert.InDelta(t, 0.8+(avg-0.5)*0.2, rec.ConfidenceScore, 1e-9)
}

func TestQualityClauseInReasoning(t *testing.T) {
	d := newTestDetector()

	excellent := []*types.FileInfo{
		goodFile(types.DocCharter, types.FormatMarkdown),
		goodFile(types.DocRiskRegister, types.FormatExcel),
		goodFile(types.DocStakeholderRegister, types.FormatExcel),
		goodFile(types.DocWBS, types.FormatMarkdown),
		goodFile(types.DocRoadmap, types.FormatMarkdown),
	}
	rec, err := d.Analyze(excellent, "")
	require.NoError(t, err)
	assert.Contains(t, rec.Reasoning, "Document quality is excellent")

	poor := []*types.FileInfo{
		testFile(types.DocCharter, types.FormatMarkdown, 0, 365*24*time.Hour, false),
		testFile(types.DocRiskRegister, types.FormatYAML, 0, 365*24*time.Hour, false),
	}
	rec, err = d.Analyze(poor, "")
	require.NoError(t, err)
	assert.Contains(t, rec.Reasoning, "quality concerns")
}

func TestResolveRequiredTypes(t *testing.T) {
	tests := []struct {
		name     string
		required []RequiredDocument
		want     []types.DocumentType
	}{
		{"nil falls back to defaults", nil, defaultRequiredTypes},
		{"unrecognized names fall back to defaults",
			[]RequiredDocument{{Name: "Budget Ledger", Required: true}},
			defaultRequiredTypes},
		{"optional entries ignored",
			[]RequiredDocument{{Name: "Risk Register", Required: false}},
			defaultRequiredTypes},
		{"keyword matching",
			[]RequiredDocument{
				{Name: "Project Charter", Required: true},
				{Name: "Risk Management Plan", Required: true},
				{Name: "Work Breakdown Structure", Required: true},
			},
			[]types.DocumentType{types.DocCharter, types.DocRiskRegister, types.DocWBS}},
		{"timeline maps to roadmap",
			[]RequiredDocument{{Name: "Delivery Timeline", Required: true}},
			[]types.DocumentType{types.DocRoadmap}},
		{"duplicates collapse",
			[]RequiredDocument{
				{Name: "risk register", Required: true},
				{Name: "Risk Log", Required: true},
			},
			[]types.DocumentType{types.DocRiskRegister}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveRequiredTypes(tt.required))
		})
	}
}

func TestCompletenessWeighting(t *testing.T) {
	d := newTestDetector()

	// Risk register and WBS carry more weight than the charter.
	charter := []*types.FileInfo{goodFile(types.DocCharter, types.FormatMarkdown)}
	riskReg := []*types.FileInfo{goodFile(types.DocRiskRegister, types.FormatExcel)}

	assert.Greater(t, d.CompletenessScore(riskReg), d.CompletenessScore(charter))
}
