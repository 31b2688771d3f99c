package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmlens/pmlens/internal/config"
	"github.com/pmlens/pmlens/internal/types"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want types.OperationMode
	}{
		{"", ""},
		{"document_check", types.ModeDocumentCheck},
		{"check", types.ModeDocumentCheck},
		{"status_analysis", types.ModeStatusAnalysis},
		{"status", types.ModeStatusAnalysis},
		{"learning_module", types.ModeLearningModule},
		{"learning", types.ModeLearningModule},
	}
	for _, tt := range tests {
		got, err := parseMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseMode("turbo")
	assert.Error(t, err)
}

func TestResolveProjectPath(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "./docs", resolveProjectPath([]string{"./docs"}, cfg))
	assert.Equal(t, cfg.Project.DefaultPath, resolveProjectPath(nil, cfg))

	cfg.Project.DefaultPath = ""
	assert.Equal(t, ".", resolveProjectPath(nil, cfg))
}
