package types

import "time"

// RiskPriority grades how urgently a risk needs attention
type RiskPriority string

const (
	RiskLow      RiskPriority = "low"
	RiskMedium   RiskPriority = "medium"
	RiskHigh     RiskPriority = "high"
	RiskCritical RiskPriority = "critical"
)

// RiskStatus tracks where a risk is in its lifecycle
type RiskStatus string

const (
	RiskOpen       RiskStatus = "open"
	RiskInProgress RiskStatus = "in_progress"
	RiskMitigated  RiskStatus = "mitigated"
	RiskClosed     RiskStatus = "closed"
	RiskAccepted   RiskStatus = "accepted"
)

// Risk is a project risk extracted from a risk register
type Risk struct {
	ID                 string       `json:"id"`
	Title              string       `json:"title"`
	Description        string       `json:"description,omitempty"`
	Category           string       `json:"category,omitempty"`
	Probability        float64      `json:"probability"` // 0.0 to 1.0
	Impact             float64      `json:"impact"`      // 0.0 to 1.0
	Priority           RiskPriority `json:"priority"`
	Status             RiskStatus   `json:"status"`
	Owner              string       `json:"owner,omitempty"`
	MitigationStrategy string       `json:"mitigation_strategy,omitempty"`
	IdentifiedDate     time.Time    `json:"identified_date,omitempty"`
	TargetResolution   time.Time    `json:"target_resolution,omitempty"`
	SourceFile         string       `json:"source_file,omitempty"`
}

// Score is the overall exposure: probability times impact
func (r *Risk) Score() float64 {
	return r.Probability * r.Impact
}

// IsResolved checks whether the risk has been mitigated or closed
func (r *Risk) IsResolved() bool {
	return r.Status == RiskMitigated || r.Status == RiskClosed
}

// IsOverdue checks whether an open risk has passed its target resolution date
func (r *Risk) IsOverdue(now time.Time) bool {
	if r.TargetResolution.IsZero() {
		return false
	}
	if r.Status != RiskOpen && r.Status != RiskInProgress {
		return false
	}
	return now.After(r.TargetResolution)
}

// DeliverableStatus tracks completion of a WBS deliverable
type DeliverableStatus string

const (
	DeliverableNotStarted DeliverableStatus = "not_started"
	DeliverableInProgress DeliverableStatus = "in_progress"
	DeliverableCompleted  DeliverableStatus = "completed"
	DeliverableOnHold     DeliverableStatus = "on_hold"
	DeliverableCancelled  DeliverableStatus = "cancelled"
)

// Deliverable is a work item extracted from a WBS or scope document
type Deliverable struct {
	ID                   string            `json:"id"`
	Name                 string            `json:"name"`
	Description          string            `json:"description,omitempty"`
	WBSCode              string            `json:"wbs_code,omitempty"`
	Status               DeliverableStatus `json:"status"`
	AssignedTo           string            `json:"assigned_to,omitempty"`
	StartDate            time.Time         `json:"start_date,omitempty"`
	DueDate              time.Time         `json:"due_date,omitempty"`
	CompletionPercentage float64           `json:"completion_percentage"` // 0 to 100
	Dependencies         []string          `json:"dependencies,omitempty"`
	SourceFile           string            `json:"source_file,omitempty"`
}

// IsCompleted checks whether the deliverable is done
func (d *Deliverable) IsCompleted() bool {
	return d.Status == DeliverableCompleted
}

// IsOverdue checks whether an unfinished deliverable has passed its due date
func (d *Deliverable) IsOverdue(now time.Time) bool {
	if d.DueDate.IsZero() || d.IsCompleted() {
		return false
	}
	return now.After(d.DueDate)
}

// IsOnTrack compares completion against elapsed schedule with 10% tolerance
func (d *Deliverable) IsOnTrack(now time.Time) bool {
	if d.DueDate.IsZero() || d.StartDate.IsZero() {
		return true
	}
	if now.After(d.DueDate) {
		return d.IsCompleted()
	}
	total := d.DueDate.Sub(d.StartDate)
	if total <= 0 {
		return true
	}
	elapsed := now.Sub(d.StartDate)
	expected := float64(elapsed) / float64(total) * 100
	return d.CompletionPercentage >= expected-10
}

// MilestoneStatus tracks where a milestone is relative to its target date
type MilestoneStatus string

const (
	MilestoneUpcoming   MilestoneStatus = "upcoming"
	MilestoneInProgress MilestoneStatus = "in_progress"
	MilestoneCompleted  MilestoneStatus = "completed"
	MilestoneOverdue    MilestoneStatus = "overdue"
	MilestoneCancelled  MilestoneStatus = "cancelled"
)

// Milestone is a schedule marker extracted from a roadmap or schedule
type Milestone struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	TargetDate  time.Time       `json:"target_date"`
	ActualDate  time.Time       `json:"actual_date,omitempty"`
	Status      MilestoneStatus `json:"status"`
	Owner       string          `json:"owner,omitempty"`
	SourceFile  string          `json:"source_file,omitempty"`
}

// IsCompleted checks whether the milestone has been reached
func (m *Milestone) IsCompleted() bool {
	return m.Status == MilestoneCompleted
}

// IsOverdue checks whether an unreached milestone has passed its target date
func (m *Milestone) IsOverdue(now time.Time) bool {
	if m.IsCompleted() || m.TargetDate.IsZero() {
		return false
	}
	return now.After(m.TargetDate)
}

// ScheduleVarianceDays is actual minus target, in days. Zero when the
// milestone has not completed.
func (m *Milestone) ScheduleVarianceDays() int {
	if m.ActualDate.IsZero() || m.TargetDate.IsZero() {
		return 0
	}
	return int(m.ActualDate.Sub(m.TargetDate).Hours() / 24)
}

// StakeholderLevel grades influence or interest on a four-point scale
type StakeholderLevel string

const (
	LevelLow      StakeholderLevel = "low"
	LevelMedium   StakeholderLevel = "medium"
	LevelHigh     StakeholderLevel = "high"
	LevelVeryHigh StakeholderLevel = "very_high"
)

// Score returns the level on a 1-4 numeric scale
func (l StakeholderLevel) Score() int {
	switch l {
	case LevelLow:
		return 1
	case LevelMedium:
		return 2
	case LevelHigh:
		return 3
	case LevelVeryHigh:
		return 4
	}
	return 2
}

// Stakeholder is a person or group extracted from a stakeholder register
type Stakeholder struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Role          string           `json:"role,omitempty"`
	Organization  string           `json:"organization,omitempty"`
	Email         string           `json:"email,omitempty"`
	Influence     StakeholderLevel `json:"influence"`
	Interest      StakeholderLevel `json:"interest"`
	Sentiment     string           `json:"sentiment,omitempty"`
	IsDecisionMkr bool             `json:"is_decision_maker,omitempty"`
	IsSponsor     bool             `json:"is_sponsor,omitempty"`
	SourceFile    string           `json:"source_file,omitempty"`
}

// EngagementPriority places the stakeholder in the influence/interest grid
func (s *Stakeholder) EngagementPriority() string {
	inf, interest := s.Influence.Score(), s.Interest.Score()
	switch {
	case inf >= 3 && interest >= 3:
		return "Manage Closely"
	case inf >= 3:
		return "Keep Satisfied"
	case interest >= 3:
		return "Keep Informed"
	default:
		return "Monitor"
	}
}

// IsHighPriority checks whether the stakeholder needs active engagement
func (s *Stakeholder) IsHighPriority() bool {
	p := s.EngagementPriority()
	return p == "Manage Closely" || p == "Keep Satisfied"
}

// ProjectStatus is the consolidated health picture the status-analysis
// processor compiles from every extracted entity
type ProjectStatus struct {
	ProjectName          string    `json:"project_name"`
	AnalyzedAt           time.Time `json:"analyzed_at"`
	OverallHealthScore   float64   `json:"overall_health_score"` // 0.0 to 1.0
	TotalRisks           int       `json:"total_risks"`
	HighPriorityRisks    int       `json:"high_priority_risks"`
	TotalDeliverables    int       `json:"total_deliverables"`
	CompletedDeliverable int       `json:"completed_deliverables"`
	TotalMilestones      int       `json:"total_milestones"`
	CompletedMilestones  int       `json:"completed_milestones"`
	OverdueMilestones    int       `json:"overdue_milestones"`
	TotalStakeholders    int       `json:"total_stakeholders"`
	KeyEngagement        float64   `json:"key_stakeholder_engagement"` // 0.0 to 1.0
	ScheduleVarianceDays int       `json:"schedule_variance_days"`
	CriticalIssues       []string  `json:"critical_issues,omitempty"`
	Recommendations      []string  `json:"recommendations,omitempty"`
	DataSources          []string  `json:"data_sources,omitempty"`
}

// HealthPercentage returns the health score as a whole percentage
func (p *ProjectStatus) HealthPercentage() int {
	return int(p.OverallHealthScore * 100)
}

// DeliverableCompletionRate is completed over total, zero when none exist
func (p *ProjectStatus) DeliverableCompletionRate() float64 {
	if p.TotalDeliverables == 0 {
		return 0.0
	}
	return float64(p.CompletedDeliverable) / float64(p.TotalDeliverables)
}

// MilestoneCompletionRate is completed over total, zero when none exist
func (p *ProjectStatus) MilestoneCompletionRate() float64 {
	if p.TotalMilestones == 0 {
		return 0.0
	}
	return float64(p.CompletedMilestones) / float64(p.TotalMilestones)
}

// IsHealthy checks the health score against a threshold
func (p *ProjectStatus) IsHealthy(threshold float64) bool {
	return p.OverallHealthScore >= threshold
}

// StatusSummary returns a one-line description of project health
func (p *ProjectStatus) StatusSummary() string {
	desc := "At Risk"
	if p.IsHealthy(0.7) {
		desc = "Healthy"
	}
	return p.ProjectName + ": " + desc
}
