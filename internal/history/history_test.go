package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmlens/pmlens/internal/types"
)

func testRecommendation(mode types.OperationMode, confidence float64) *types.Recommendation {
	return &types.Recommendation{
		RecommendedMode:    mode,
		ConfidenceScore:    confidence,
		Reasoning:          "test run",
		AvailableDocuments: []types.DocumentType{types.DocCharter, types.DocRiskRegister},
		MissingDocuments:   []types.DocumentType{types.DocWBS},
		FileQualityScores:  map[types.DocumentType]float64{types.DocCharter: 0.75},
	}
}

func TestRecordAndGet(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	rec := testRecommendation(types.ModeStatusAnalysis, 0.85)

	run, err := store.Record(ctx, "/projects/alpha", rec, 0.7, 4)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())

	got, err := store.Get(ctx, run.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "/projects/alpha", got.ProjectPath)
	assert.Equal(t, types.ModeStatusAnalysis, got.Mode)
	assert.Equal(t, 0.85, got.Confidence)
	assert.Equal(t, 0.7, got.Completeness)
	assert.Equal(t, 4, got.FileCount)
	assert.Equal(t, 2, got.AvailableCount)
	assert.Equal(t, 1, got.MissingCount)
	assert.Equal(t, "test run", got.Reasoning)
	require.NotNil(t, got.Recommendation)
	assert.Equal(t, types.ModeStatusAnalysis, got.Recommendation.RecommendedMode)
	assert.Equal(t, 0.75, got.Recommendation.FileQualityScores[types.DocCharter])
}

func TestGetMissing(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Get(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListOrderingAndFilter(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	_, err = store.Record(ctx, "/projects/alpha", testRecommendation(types.ModeLearningModule, 0.5), 0.1, 1)
	require.NoError(t, err)
	_, err = store.Record(ctx, "/projects/beta", testRecommendation(types.ModeDocumentCheck, 0.4), 0.3, 2)
	require.NoError(t, err)
	_, err = store.Record(ctx, "/projects/alpha", testRecommendation(types.ModeStatusAnalysis, 0.9), 0.8, 5)
	require.NoError(t, err)

	all, err := store.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	alpha, err := store.List(ctx, "/projects/alpha", 0)
	require.NoError(t, err)
	require.Len(t, alpha, 2)
	for _, run := range alpha {
		assert.Equal(t, "/projects/alpha", run.ProjectPath)
	}

	limited, err := store.List(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestRecordRequiresRecommendation(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Record(context.Background(), "/projects/alpha", nil, 0, 0)
	assert.Error(t, err)
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Record(context.Background(), "/projects/alpha",
		testRecommendation(types.ModeDocumentCheck, 0.6), 0.4, 2)
	assert.NoError(t, err)
}
