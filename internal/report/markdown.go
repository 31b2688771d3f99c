package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmlens/pmlens/internal/process"
	"github.com/pmlens/pmlens/internal/types"
)

// Markdown renders the analysis to a Markdown report file.
type Markdown struct{}

func NewMarkdown() *Markdown {
	return &Markdown{}
}

func (r *Markdown) Format() string { return "markdown" }

func (r *Markdown) Generate(payload *Payload, opts Options) (string, error) {
	path, err := outputPath(opts, "pm_analysis", ".md", payload.GeneratedAt)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(r.Render(payload)), 0644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

// Render produces the full report text.
func (r *Markdown) Render(payload *Payload) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# PM Analysis Report\n\n")
	fmt.Fprintf(&b, "- **Project:** %s\n", payload.ProjectPath)
	fmt.Fprintf(&b, "- **Generated:** %s\n", payload.GeneratedAt.Format("2006-01-02 15:04:05"))
	if payload.Result != nil {
		fmt.Fprintf(&b, "- **Operation:** %s\n", payload.Result.Operation)
	}
	b.WriteString("\n")

	if payload.Recommendation != nil {
		writeRecommendation(&b, payload.Recommendation)
	}

	if payload.Result != nil {
		switch report := payload.Result.Data[process.ReportKey].(type) {
		case *process.CheckReport:
			writeCheckReport(&b, report)
		case *process.StatusReport:
			writeStatusReport(&b, report)
		case *process.LearningReport:
			writeLearningReport(&b, report)
		}
		writeResultNotes(&b, payload.Result)
	}
	return b.String()
}

func writeRecommendation(b *strings.Builder, rec *types.Recommendation) {
	fmt.Fprintf(b, "## Mode Recommendation\n\n")
	fmt.Fprintf(b, "- **Mode:** %s\n", rec.RecommendedMode.Display())
	fmt.Fprintf(b, "- **Confidence:** %d%%\n", rec.ConfidencePercentage())
	fmt.Fprintf(b, "- **Reasoning:** %s\n\n", rec.Reasoning)

	if len(rec.AvailableDocuments) > 0 {
		b.WriteString("### Available Documents\n\n")
		quality := rec.QualitySummary()
		for _, dt := range rec.AvailableDocuments {
			if label, ok := quality[dt]; ok {
				fmt.Fprintf(b, "- %s (%s)\n", dt.Display(), label)
			} else {
				fmt.Fprintf(b, "- %s\n", dt.Display())
			}
		}
		b.WriteString("\n")
	}
	if len(rec.MissingDocuments) > 0 {
		b.WriteString("### Missing Documents\n\n")
		for _, dt := range rec.MissingDocuments {
			fmt.Fprintf(b, "- %s\n", dt.Display())
		}
		b.WriteString("\n")
	}
}

func writeCheckReport(b *strings.Builder, report *process.CheckReport) {
	fmt.Fprintf(b, "## Document Check Results\n\n")
	fmt.Fprintf(b, "Compliance: **%d%%** (%s)\n\n",
		int(report.ComplianceScore*100), report.ComplianceStatus)

	b.WriteString("| Document | Present | Quality | Files |\n")
	b.WriteString("|----------|---------|---------|-------|\n")
	for _, item := range report.Items {
		present := "yes"
		if !item.Present {
			present = "no"
		}
		names := make([]string, 0, len(item.Files))
		for _, f := range item.Files {
			names = append(names, baseName(f))
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			item.DocumentType.Display(), present,
			types.QualityLabel(item.BestQuality), strings.Join(names, ", "))
	}
	b.WriteString("\n")

	writeList(b, "Recommendations", report.Recommendations)
}

func writeStatusReport(b *strings.Builder, report *process.StatusReport) {
	status := report.Status
	fmt.Fprintf(b, "## Project Status Overview\n\n")
	fmt.Fprintf(b, "- **Health:** %d%% (%s)\n", status.HealthPercentage(), status.StatusSummary())
	fmt.Fprintf(b, "- **Risks:** %d total, %d high priority\n", status.TotalRisks, status.HighPriorityRisks)
	fmt.Fprintf(b, "- **Deliverables:** %d total, %d completed\n", status.TotalDeliverables, status.CompletedDeliverable)
	fmt.Fprintf(b, "- **Milestones:** %d total, %d completed, %d overdue\n",
		status.TotalMilestones, status.CompletedMilestones, status.OverdueMilestones)
	fmt.Fprintf(b, "- **Stakeholders:** %d\n\n", status.TotalStakeholders)

	writeList(b, "Critical Issues", status.CriticalIssues)
	writeList(b, "Recommendations", status.Recommendations)

	if len(report.Risks) > 0 {
		fmt.Fprintf(b, "## Risks (%d total)\n\n", len(report.Risks))
		b.WriteString("| ID | Title | Probability | Impact | Priority | Status | Owner |\n")
		b.WriteString("|----|-------|-------------|--------|----------|--------|-------|\n")
		for i := range report.Risks {
			r := &report.Risks[i]
			fmt.Fprintf(b, "| %s | %s | %.0f%% | %.0f%% | %s | %s | %s |\n",
				r.ID, r.Title, r.Probability*100, r.Impact*100, r.Priority, r.Status, r.Owner)
		}
		b.WriteString("\n")
	}

	if len(report.Deliverables) > 0 {
		fmt.Fprintf(b, "## Deliverables (%d total)\n\n", len(report.Deliverables))
		b.WriteString("| ID | Name | Status | Assigned | Complete |\n")
		b.WriteString("|----|------|--------|----------|----------|\n")
		for i := range report.Deliverables {
			d := &report.Deliverables[i]
			fmt.Fprintf(b, "| %s | %s | %s | %s | %.0f%% |\n",
				d.ID, d.Name, d.Status, d.AssignedTo, d.CompletionPercentage)
		}
		b.WriteString("\n")
	}

	if len(report.Milestones) > 0 {
		fmt.Fprintf(b, "## Milestones (%d total)\n\n", len(report.Milestones))
		b.WriteString("| ID | Name | Target | Status |\n")
		b.WriteString("|----|------|--------|--------|\n")
		for i := range report.Milestones {
			m := &report.Milestones[i]
			target := ""
			if !m.TargetDate.IsZero() {
				target = m.TargetDate.Format("2006-01-02")
			}
			fmt.Fprintf(b, "| %s | %s | %s | %s |\n", m.ID, m.Name, target, m.Status)
		}
		b.WriteString("\n")
	}

	if len(report.Stakeholders) > 0 {
		fmt.Fprintf(b, "## Stakeholders (%d total)\n\n", len(report.Stakeholders))
		b.WriteString("| Name | Role | Influence | Interest | Engagement |\n")
		b.WriteString("|------|------|-----------|----------|------------|\n")
		for i := range report.Stakeholders {
			s := &report.Stakeholders[i]
			fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n",
				s.Name, s.Role, s.Influence, s.Interest, s.EngagementPriority())
		}
		b.WriteString("\n")
	}
}

func writeLearningReport(b *strings.Builder, report *process.LearningReport) {
	fmt.Fprintf(b, "## Learning Modules\n\n")
	if len(report.MissingDocuments) > 0 {
		b.WriteString("Based on the gaps in your project documentation:\n\n")
		for _, dt := range report.MissingDocuments {
			fmt.Fprintf(b, "- %s\n", dt.Display())
		}
		b.WriteString("\n")
	}

	for _, topic := range report.Topics {
		fmt.Fprintf(b, "### %s\n\n%s\n\n", topic.Title, topic.Overview)
		writeSubList(b, "Key Concepts", topic.KeyConcepts)
		writeSubList(b, "Best Practices", topic.BestPractices)
		writeSubList(b, "Common Pitfalls", topic.CommonPitfalls)
	}

	writeList(b, "Quick Tips", report.QuickTips)
}

func writeResultNotes(b *strings.Builder, result *types.ProcessingResult) {
	writeList(b, "Warnings", result.Warnings)
	writeList(b, "Errors", result.Errors)
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func writeSubList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s**\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func baseName(path string) string {
	return filepath.Base(path)
}
