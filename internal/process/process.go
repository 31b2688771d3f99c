// Package process runs the operation a mode selects: document compliance
// checking, full status analysis, or learning-content assembly.
package process

import (
	"context"

	"github.com/pmlens/pmlens/internal/config"
	"github.com/pmlens/pmlens/internal/modedetect"
	"github.com/pmlens/pmlens/internal/types"
)

// ReportKey is the ProcessingResult.Data key holding the typed report.
const ReportKey = "report"

// Processor executes one operation mode over a scanned file catalog.
type Processor interface {
	// Name identifies the processor in results and logs.
	Name() string

	// Mode is the operation mode this processor serves.
	Mode() types.OperationMode

	// CanProcess reports whether the catalog has enough input to make the
	// operation worthwhile.
	CanProcess(files []*types.FileInfo) bool

	// Process runs the operation. Failures for individual files degrade
	// the result rather than abort it.
	Process(ctx context.Context, files []*types.FileInfo, cfg *config.Config) *types.ProcessingResult
}

// ForMode returns the processor serving a mode.
func ForMode(mode types.OperationMode) Processor {
	switch mode {
	case types.ModeDocumentCheck:
		return NewDocumentCheck()
	case types.ModeStatusAnalysis:
		return NewStatusAnalysis()
	default:
		return NewLearningModule()
	}
}

// detectorFor builds a mode detector honoring the config's required
// document list, for per-file quality scoring and required-set resolution.
func detectorFor(cfg *config.Config) *modedetect.Detector {
	if cfg == nil {
		return modedetect.New(nil)
	}
	var required []modedetect.RequiredDocument
	for _, rd := range cfg.RequiredDocuments {
		required = append(required, modedetect.RequiredDocument{
			Name:     rd.Name,
			Required: rd.Required,
		})
	}
	return modedetect.New(required)
}

// filesByType groups readable catalog entries by document type.
func filesByType(files []*types.FileInfo) map[types.DocumentType][]*types.FileInfo {
	grouped := make(map[types.DocumentType][]*types.FileInfo)
	for _, f := range files {
		grouped[f.DocumentType] = append(grouped[f.DocumentType], f)
	}
	return grouped
}
