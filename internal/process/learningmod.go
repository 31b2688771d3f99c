package process

import (
	"context"
	"time"

	"github.com/pmlens/pmlens/internal/config"
	"github.com/pmlens/pmlens/internal/learning"
	"github.com/pmlens/pmlens/internal/types"
)

// LearningReport is the learning-module payload: the curriculum derived
// from the documentation gaps.
type LearningReport struct {
	MissingDocuments []types.DocumentType `json:"missing_documents"`
	Topics           []learning.Topic     `json:"topics"`
	QuickTips        []string             `json:"quick_tips"`
}

// LearningModule assembles guidance for the documents the project lacks.
type LearningModule struct{}

func NewLearningModule() *LearningModule {
	return &LearningModule{}
}

func (p *LearningModule) Name() string              { return "learning-module" }
func (p *LearningModule) Mode() types.OperationMode { return types.ModeLearningModule }

// CanProcess always holds: the sparser the project, the more to teach.
func (p *LearningModule) CanProcess([]*types.FileInfo) bool { return true }

func (p *LearningModule) Process(ctx context.Context, files []*types.FileInfo, cfg *config.Config) *types.ProcessingResult {
	start := time.Now()
	result := types.NewProcessingResult(p.Name())
	defer func() { result.Duration = time.Since(start) }()

	select {
	case <-ctx.Done():
		result.AddError(ctx.Err().Error())
		return result
	default:
	}

	detector := detectorFor(cfg)
	present := filesByType(files)

	var missing []types.DocumentType
	for _, dt := range detector.RequiredTypes() {
		if len(present[dt]) == 0 {
			missing = append(missing, dt)
		}
	}

	contentDir := ""
	if cfg != nil {
		contentDir = cfg.Modes.LearningModule.ContentPath
	}
	loader := learning.NewLoader(contentDir)

	report := &LearningReport{
		MissingDocuments: missing,
		Topics:           loader.Load(learning.TopicsForMissing(missing)),
		QuickTips:        learning.QuickTips(),
	}

	result.Data[ReportKey] = report
	result.Data["topic_count"] = len(report.Topics)
	return result
}
