// Package engine wires the analysis pipeline together: scan the project
// directory, detect the operation mode, run its processor, render reports,
// and record the run.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pmlens/pmlens/internal/config"
	"github.com/pmlens/pmlens/internal/history"
	"github.com/pmlens/pmlens/internal/modedetect"
	"github.com/pmlens/pmlens/internal/process"
	"github.com/pmlens/pmlens/internal/report"
	"github.com/pmlens/pmlens/internal/scan"
	"github.com/pmlens/pmlens/internal/types"
)

// Engine runs the pmlens pipeline. Zero-value fields get sensible
// defaults from New.
type Engine struct {
	cfg    *config.Config
	logger *slog.Logger

	// History is optional; when set, Run records every analysis.
	History *history.Store

	// Now is the pipeline clock. Tests override it.
	Now func() time.Time
}

// Result is everything one pipeline run produced.
type Result struct {
	ProjectPath    string
	Files          []*types.FileInfo
	Recommendation *types.Recommendation
	Completeness   float64
	Mode           types.OperationMode
	Processing     *types.ProcessingResult
	ReportPaths    []string
	RunID          string
	Warnings       []string
}

// New creates an engine over a loaded configuration.
func New(cfg *config.Config, logger *slog.Logger) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{cfg: cfg, logger: logger, Now: time.Now}
}

// Config returns the engine's configuration.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Scan discovers the project's documents.
func (e *Engine) Scan(ctx context.Context, projectPath string) ([]*types.FileInfo, error) {
	scanner := scan.NewScanner()
	files, err := scanner.ScanDirectory(ctx, projectPath)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", projectPath, err)
	}
	e.logger.Info("scan complete", "path", projectPath, "files", len(files))
	return files, nil
}

// Detect scans the project and produces a mode recommendation. A detector
// failure does not abort the pipeline: the safe default is the learning
// module at 0.5 confidence, with the failure noted in the reasoning.
func (e *Engine) Detect(ctx context.Context, projectPath string) ([]*types.FileInfo, *types.Recommendation, float64, error) {
	files, err := e.Scan(ctx, projectPath)
	if err != nil {
		return nil, nil, 0, err
	}
	rec, completeness := e.detect(files, projectPath)
	return files, rec, completeness, nil
}

// detect runs the detector over a scanned catalog. Completeness is scored
// only after Analyze has validated every descriptor; a failed analysis
// reports zero completeness alongside the fallback recommendation.
func (e *Engine) detect(files []*types.FileInfo, projectPath string) (*types.Recommendation, float64) {
	detector := e.detector()
	rec, err := detector.Analyze(files, projectPath)
	if err != nil {
		e.logger.Warn("mode detection failed, defaulting to learning module", "error", err)
		return fallbackRecommendation(err), 0
	}
	return rec, detector.CompletenessScore(files)
}

// Run executes the full pipeline. modeOverride, when non-empty, replaces
// the detected mode.
func (e *Engine) Run(ctx context.Context, projectPath string, modeOverride types.OperationMode) (*Result, error) {
	files, rec, completeness, err := e.Detect(ctx, projectPath)
	if err != nil {
		return nil, err
	}

	res := &Result{
		ProjectPath:    projectPath,
		Files:          files,
		Recommendation: rec,
		Completeness:   completeness,
	}

	mode := rec.RecommendedMode
	if modeOverride != "" {
		mode = modeOverride
	}
	if !e.cfg.ModeEnabled(mode) && mode != types.ModeLearningModule {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("mode %s is disabled in configuration, running learning module instead", mode))
		mode = types.ModeLearningModule
	}
	res.Mode = mode

	processor := process.ForMode(mode)
	if !processor.CanProcess(files) {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("insufficient documents for %s, results will be limited", processor.Name()))
	}
	res.Processing = processor.Process(ctx, files, e.cfg)
	e.logger.Info("processing complete", "mode", mode,
		"success", res.Processing.Success, "duration", res.Processing.Duration)

	paths, warnings := e.render(res)
	res.ReportPaths = paths
	res.Warnings = append(res.Warnings, warnings...)

	if e.History != nil {
		run, err := e.History.Record(ctx, projectPath, rec, completeness, len(files))
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("failed to record run: %v", err))
		} else {
			res.RunID = run.ID
		}
	}
	return res, nil
}

// render drives every configured reporter for the executed mode.
func (e *Engine) render(res *Result) (paths []string, warnings []string) {
	payload := &report.Payload{
		ProjectPath:    res.ProjectPath,
		GeneratedAt:    e.Now(),
		Recommendation: res.Recommendation,
		Result:         res.Processing,
		Files:          res.Files,
	}
	opts := report.Options{
		Directory:      e.cfg.Output.Directory,
		TimestampFiles: e.cfg.Output.TimestampFiles,
		Overwrite:      e.cfg.Output.OverwriteExisting,
	}

	formats := e.cfg.ModeOutputFormats(res.Mode)
	if len(formats) == 0 {
		formats = []string{"console"}
	}
	for _, name := range formats {
		reporter := report.ForFormat(name)
		if reporter == nil {
			warnings = append(warnings, fmt.Sprintf("unknown output format %q", name))
			continue
		}
		path, err := reporter.Generate(payload, opts)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s report failed: %v", reporter.Format(), err))
			continue
		}
		if path != "" {
			paths = append(paths, path)
			e.logger.Info("report written", "format", reporter.Format(), "path", path)
		}
	}
	return paths, warnings
}

func (e *Engine) detector() *modedetect.Detector {
	var required []modedetect.RequiredDocument
	for _, rd := range e.cfg.RequiredDocuments {
		required = append(required, modedetect.RequiredDocument{
			Name:     rd.Name,
			Required: rd.Required,
		})
	}
	detector := modedetect.New(required)
	detector.Now = e.Now
	return detector
}

// fallbackRecommendation is the detector-failure default: the learning
// module at middling confidence.
func fallbackRecommendation(cause error) *types.Recommendation {
	return &types.Recommendation{
		RecommendedMode: types.ModeLearningModule,
		ConfidenceScore: 0.5,
		Reasoning:       fmt.Sprintf("Mode detection failed (%v); defaulting to the learning module.", cause),
	}
}
