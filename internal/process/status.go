package process

import (
	"context"
	"fmt"
	"time"

	"github.com/pmlens/pmlens/internal/config"
	"github.com/pmlens/pmlens/internal/extract"
	"github.com/pmlens/pmlens/internal/types"
)

// StatusReport is the status-analysis payload: the compiled project
// status plus every extracted entity.
type StatusReport struct {
	Status       *types.ProjectStatus `json:"status"`
	Risks        []types.Risk         `json:"risks,omitempty"`
	Deliverables []types.Deliverable  `json:"deliverables,omitempty"`
	Milestones   []types.Milestone    `json:"milestones,omitempty"`
	Stakeholders []types.Stakeholder  `json:"stakeholders,omitempty"`
}

// StatusAnalysis runs every extractor over the catalog and compiles a
// consolidated project health view.
type StatusAnalysis struct {
	// Now drives overdue checks and the analysis timestamp.
	Now func() time.Time
}

func NewStatusAnalysis() *StatusAnalysis {
	return &StatusAnalysis{Now: time.Now}
}

func (p *StatusAnalysis) Name() string              { return "status-analysis" }
func (p *StatusAnalysis) Mode() types.OperationMode { return types.ModeStatusAnalysis }

// CanProcess needs at least one readable data document.
func (p *StatusAnalysis) CanProcess(files []*types.FileInfo) bool {
	for _, f := range files {
		if f.IsReadable && f.DocumentType != types.DocUnknown {
			return true
		}
	}
	return false
}

func (p *StatusAnalysis) Process(ctx context.Context, files []*types.FileInfo, cfg *config.Config) *types.ProcessingResult {
	start := time.Now()
	result := types.NewProcessingResult(p.Name())
	defer func() { result.Duration = time.Since(start) }()

	report := &StatusReport{}
	riskEx := extract.NewRiskExtractor()
	riskEx.Now = p.Now
	deliverableEx := extract.NewDeliverableExtractor()
	milestoneEx := extract.NewMilestoneExtractor()
	milestoneEx.Now = p.Now
	stakeholderEx := extract.NewStakeholderExtractor()

	var sources []string
	for _, f := range files {
		select {
		case <-ctx.Done():
			result.AddError(ctx.Err().Error())
			return result
		default:
		}
		if !f.IsReadable {
			result.AddWarning(fmt.Sprintf("skipping unreadable file %s", f.Filename()))
			continue
		}

		var err error
		switch f.DocumentType {
		case types.DocRiskRegister:
			var risks []types.Risk
			if risks, err = riskEx.Extract(f); err == nil {
				report.Risks = append(report.Risks, risks...)
			}
		case types.DocWBS:
			var deliverables []types.Deliverable
			if deliverables, err = deliverableEx.Extract(f); err == nil {
				report.Deliverables = append(report.Deliverables, deliverables...)
			}
		case types.DocRoadmap, types.DocProjectSchedule:
			var milestones []types.Milestone
			if milestones, err = milestoneEx.Extract(f); err == nil {
				report.Milestones = append(report.Milestones, milestones...)
			}
		case types.DocStakeholderRegister:
			var stakeholders []types.Stakeholder
			if stakeholders, err = stakeholderEx.Extract(f); err == nil {
				report.Stakeholders = append(report.Stakeholders, stakeholders...)
			}
		default:
			continue
		}

		if err != nil {
			f.MarkFailed(err.Error())
			result.AddWarning(fmt.Sprintf("extraction failed for %s: %v", f.Filename(), err))
			continue
		}
		f.MarkProcessed()
		sources = append(sources, f.Path)
	}

	projectName := ""
	if cfg != nil {
		projectName = cfg.Project.Name
	}
	report.Status = p.compileStatus(projectName, report, sources)

	result.Data[ReportKey] = report
	result.Data["health_score"] = report.Status.OverallHealthScore
	return result
}

func (p *StatusAnalysis) compileStatus(projectName string, report *StatusReport, sources []string) *types.ProjectStatus {
	now := p.Now()

	status := &types.ProjectStatus{
		ProjectName: projectName,
		AnalyzedAt:  now,
		TotalRisks:  len(report.Risks),
		DataSources: sources,
	}

	for _, r := range report.Risks {
		if r.Priority == types.RiskHigh || r.Priority == types.RiskCritical {
			status.HighPriorityRisks++
		}
	}
	status.TotalDeliverables = len(report.Deliverables)
	for i := range report.Deliverables {
		if report.Deliverables[i].IsCompleted() {
			status.CompletedDeliverable++
		}
	}
	status.TotalMilestones = len(report.Milestones)
	for i := range report.Milestones {
		m := &report.Milestones[i]
		if m.IsCompleted() {
			status.CompletedMilestones++
		}
		if m.IsOverdue(now) {
			status.OverdueMilestones++
		}
		status.ScheduleVarianceDays += m.ScheduleVarianceDays()
	}
	status.TotalStakeholders = len(report.Stakeholders)
	status.KeyEngagement = stakeholderEngagement(report.Stakeholders)

	status.OverallHealthScore = p.healthScore(report, now)
	status.CriticalIssues = p.criticalIssues(report, now)
	status.Recommendations = p.recommendations(report, now)
	return status
}

// healthScore averages the health of each dimension that has data,
// defaulting to 0.5 when nothing was extracted.
func (p *StatusAnalysis) healthScore(report *StatusReport, now time.Time) float64 {
	var scores []float64

	if n := len(report.Risks); n > 0 {
		high := 0
		for _, r := range report.Risks {
			if r.Priority == types.RiskHigh || r.Priority == types.RiskCritical {
				high++
			}
		}
		scores = append(scores, max(0, 1-float64(high)/float64(n)))
	}

	if n := len(report.Deliverables); n > 0 {
		completed, onTrack := 0, 0
		for i := range report.Deliverables {
			d := &report.Deliverables[i]
			if d.IsCompleted() {
				completed++
			}
			if d.IsOnTrack(now) {
				onTrack++
			}
		}
		scores = append(scores, (float64(completed)+float64(onTrack))/float64(2*n))
	}

	if n := len(report.Milestones); n > 0 {
		completed, overdue := 0, 0
		for i := range report.Milestones {
			m := &report.Milestones[i]
			if m.IsCompleted() {
				completed++
			}
			if m.IsOverdue(now) {
				overdue++
			}
		}
		score := float64(completed)/float64(n) - 0.5*float64(overdue)/float64(n)
		scores = append(scores, types.Clamp01(score))
	}

	if len(report.Stakeholders) > 0 {
		scores = append(scores, stakeholderEngagement(report.Stakeholders))
	}

	if len(scores) == 0 {
		return 0.5
	}
	total := 0.0
	for _, s := range scores {
		total += s
	}
	return total / float64(len(scores))
}

// stakeholderEngagement averages normalized influence/interest scores.
func stakeholderEngagement(stakeholders []types.Stakeholder) float64 {
	if len(stakeholders) == 0 {
		return 0
	}
	total := 0.0
	for i := range stakeholders {
		s := &stakeholders[i]
		influence := float64(s.Influence.Score()) / 4
		interest := float64(s.Interest.Score()) / 4
		total += (influence + interest) / 2
	}
	return total / float64(len(stakeholders))
}

func (p *StatusAnalysis) criticalIssues(report *StatusReport, now time.Time) []string {
	var issues []string

	critical := 0
	for _, r := range report.Risks {
		if r.Priority == types.RiskCritical {
			critical++
		}
	}
	if critical > 0 {
		issues = append(issues, fmt.Sprintf("%d critical risks require immediate attention", critical))
	}

	overdueMilestones := 0
	for i := range report.Milestones {
		if report.Milestones[i].IsOverdue(now) {
			overdueMilestones++
		}
	}
	if overdueMilestones > 0 {
		issues = append(issues, fmt.Sprintf("%d milestones are overdue", overdueMilestones))
	}

	overdueDeliverables := 0
	for i := range report.Deliverables {
		if report.Deliverables[i].IsOverdue(now) {
			overdueDeliverables++
		}
	}
	if overdueDeliverables > 0 {
		issues = append(issues, fmt.Sprintf("%d deliverables are overdue", overdueDeliverables))
	}

	disengaged := disengagedStakeholders(report.Stakeholders)
	if disengaged > 0 {
		issues = append(issues, fmt.Sprintf("%d high-influence stakeholders show low engagement", disengaged))
	}
	return issues
}

func (p *StatusAnalysis) recommendations(report *StatusReport, now time.Time) []string {
	var recs []string

	if n := len(report.Risks); n > 0 {
		open := 0
		for i := range report.Risks {
			if !report.Risks[i].IsResolved() {
				open++
			}
		}
		if float64(open) > float64(n)*0.7 {
			recs = append(recs, "Focus on risk mitigation: most risks remain unresolved")
		}
	}

	if n := len(report.Deliverables); n > 0 {
		completed := 0
		for i := range report.Deliverables {
			if report.Deliverables[i].IsCompleted() {
				completed++
			}
		}
		if float64(completed)/float64(n) < 0.5 {
			recs = append(recs, "Accelerate deliverable completion: the project is behind schedule")
		}
	}

	for i := range report.Milestones {
		if report.Milestones[i].IsOverdue(now) {
			recs = append(recs, "Address overdue milestones to get the project back on track")
			break
		}
	}

	if disengagedStakeholders(report.Stakeholders) > 0 {
		recs = append(recs, "Increase engagement with high-influence, low-interest stakeholders")
	}

	if recs == nil {
		recs = append(recs, "Continue current project management practices: the project appears healthy")
	}
	return recs
}

func disengagedStakeholders(stakeholders []types.Stakeholder) int {
	n := 0
	for i := range stakeholders {
		s := &stakeholders[i]
		if s.Influence.Score() >= 3 && s.Interest.Score() <= 2 {
			n++
		}
	}
	return n
}
