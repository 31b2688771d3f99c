package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/pmlens/pmlens/internal/process"
	"github.com/pmlens/pmlens/internal/types"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	goodColor   = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
	badColor    = color.New(color.FgRed)
	subtleColor = color.New(color.Faint)
	boldColor   = color.New(color.Bold)
)

// Console renders the analysis to a terminal with severity colors.
type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (r *Console) Format() string { return "console" }

func (r *Console) Generate(payload *Payload, _ Options) (string, error) {
	headerColor.Fprintln(r.w, "PM Analysis")
	subtleColor.Fprintf(r.w, "%s | %s\n\n", payload.ProjectPath,
		payload.GeneratedAt.Format("2006-01-02 15:04:05"))

	if rec := payload.Recommendation; rec != nil {
		boldColor.Fprintf(r.w, "Recommended mode: %s", rec.RecommendedMode.Display())
		fmt.Fprintf(r.w, " (%d%% confidence)\n", rec.ConfidencePercentage())
		fmt.Fprintf(r.w, "%s\n\n", rec.Reasoning)

		if len(rec.AvailableDocuments) > 0 {
			fmt.Fprintln(r.w, "Available documents:")
			quality := rec.QualitySummary()
			for _, dt := range rec.AvailableDocuments {
				goodColor.Fprintf(r.w, "  + %s", dt.Display())
				if label, ok := quality[dt]; ok {
					subtleColor.Fprintf(r.w, " (%s)", label)
				}
				fmt.Fprintln(r.w)
			}
		}
		if len(rec.MissingDocuments) > 0 {
			fmt.Fprintln(r.w, "Missing documents:")
			for _, dt := range rec.MissingDocuments {
				badColor.Fprintf(r.w, "  - %s\n", dt.Display())
			}
		}
		fmt.Fprintln(r.w)
	}

	if result := payload.Result; result != nil {
		switch report := result.Data[process.ReportKey].(type) {
		case *process.CheckReport:
			r.checkReport(report)
		case *process.StatusReport:
			r.statusReport(report)
		case *process.LearningReport:
			r.learningReport(report)
		}

		for _, w := range result.Warnings {
			warnColor.Fprintf(r.w, "warning: %s\n", w)
		}
		for _, e := range result.Errors {
			badColor.Fprintf(r.w, "error: %s\n", e)
		}
	}
	return "", nil
}

func (r *Console) checkReport(report *process.CheckReport) {
	headerColor.Fprintln(r.w, "Document Check")
	scoreColor := goodColor
	if report.ComplianceScore < 0.6 {
		scoreColor = badColor
	} else if report.ComplianceScore < 0.9 {
		scoreColor = warnColor
	}
	scoreColor.Fprintf(r.w, "Compliance: %d%% (%s)\n\n",
		int(report.ComplianceScore*100), report.ComplianceStatus)

	for _, item := range report.Items {
		if item.Present {
			goodColor.Fprintf(r.w, "  + %-22s %s\n",
				item.DocumentType.Display(), types.QualityLabel(item.BestQuality))
		} else {
			badColor.Fprintf(r.w, "  - %-22s missing\n", item.DocumentType.Display())
		}
	}
	fmt.Fprintln(r.w)
	r.list("Recommendations", report.Recommendations)
}

func (r *Console) statusReport(report *process.StatusReport) {
	status := report.Status
	headerColor.Fprintln(r.w, "Project Status")

	healthColor := goodColor
	if status.OverallHealthScore < 0.4 {
		healthColor = badColor
	} else if status.OverallHealthScore < 0.7 {
		healthColor = warnColor
	}
	healthColor.Fprintf(r.w, "Health: %d%% (%s)\n\n", status.HealthPercentage(), status.StatusSummary())

	fmt.Fprintf(r.w, "  Risks:        %d total, %d high priority\n", status.TotalRisks, status.HighPriorityRisks)
	fmt.Fprintf(r.w, "  Deliverables: %d total, %d completed\n", status.TotalDeliverables, status.CompletedDeliverable)
	fmt.Fprintf(r.w, "  Milestones:   %d total, %d completed, %d overdue\n",
		status.TotalMilestones, status.CompletedMilestones, status.OverdueMilestones)
	fmt.Fprintf(r.w, "  Stakeholders: %d\n\n", status.TotalStakeholders)

	if len(status.CriticalIssues) > 0 {
		headerColor.Fprintln(r.w, "Critical Issues")
		for _, issue := range status.CriticalIssues {
			badColor.Fprintf(r.w, "  ! %s\n", issue)
		}
		fmt.Fprintln(r.w)
	}
	r.list("Recommendations", status.Recommendations)
}

func (r *Console) learningReport(report *process.LearningReport) {
	headerColor.Fprintln(r.w, "Learning Modules")
	if len(report.MissingDocuments) > 0 {
		fmt.Fprintln(r.w, "Your project is missing:")
		for _, dt := range report.MissingDocuments {
			warnColor.Fprintf(r.w, "  - %s\n", dt.Display())
		}
		fmt.Fprintln(r.w)
	}

	for _, topic := range report.Topics {
		boldColor.Fprintf(r.w, "%s\n", topic.Title)
		fmt.Fprintf(r.w, "  %s\n", topic.Overview)
		for _, concept := range topic.KeyConcepts {
			subtleColor.Fprintf(r.w, "    • %s\n", concept)
		}
		fmt.Fprintln(r.w)
	}
	r.list("Quick Tips", report.QuickTips)
}

func (r *Console) list(title string, items []string) {
	if len(items) == 0 {
		return
	}
	headerColor.Fprintln(r.w, title)
	for _, item := range items {
		fmt.Fprintf(r.w, "  - %s\n", item)
	}
	fmt.Fprintln(r.w)
}
