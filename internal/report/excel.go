package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pmlens/pmlens/internal/process"
)

// Excel renders the analysis to a multi-sheet workbook: a summary sheet
// always, plus one sheet per extracted entity kind.
type Excel struct{}

func NewExcel() *Excel {
	return &Excel{}
}

func (r *Excel) Format() string { return "excel" }

func (r *Excel) Generate(payload *Payload, opts Options) (string, error) {
	path, err := outputPath(opts, "pm_analysis", ".xlsx", payload.GeneratedAt)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := r.summarySheet(f, payload); err != nil {
		return "", err
	}
	if payload.Result != nil {
		if status, ok := payload.Result.Data[process.ReportKey].(*process.StatusReport); ok {
			if err := r.entitySheets(f, status); err != nil {
				return "", err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("writing workbook: %w", err)
	}
	return path, nil
}

func (r *Excel) summarySheet(f *excelize.File, payload *Payload) error {
	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	rows := [][]any{
		{"PM Analysis Report"},
		{"Project", payload.ProjectPath},
		{"Generated", payload.GeneratedAt.Format("2006-01-02 15:04:05")},
	}
	if payload.Recommendation != nil {
		rows = append(rows,
			[]any{"Recommended Mode", payload.Recommendation.RecommendedMode.Display()},
			[]any{"Confidence", fmt.Sprintf("%d%%", payload.Recommendation.ConfidencePercentage())},
			[]any{"Reasoning", payload.Recommendation.Reasoning},
		)
	}
	if payload.Result != nil {
		rows = append(rows, []any{"Operation", payload.Result.Operation})
		if status, ok := payload.Result.Data[process.ReportKey].(*process.StatusReport); ok {
			rows = append(rows,
				[]any{"Health Score", fmt.Sprintf("%d%%", status.Status.HealthPercentage())},
				[]any{"Total Risks", status.Status.TotalRisks},
				[]any{"High Priority Risks", status.Status.HighPriorityRisks},
				[]any{"Overdue Milestones", status.Status.OverdueMilestones},
			)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", "A1", style)
}

func (r *Excel) entitySheets(f *excelize.File, report *process.StatusReport) error {
	if len(report.Risks) > 0 {
		rows := [][]any{{"ID", "Title", "Category", "Probability", "Impact", "Priority", "Status", "Owner"}}
		for i := range report.Risks {
			risk := &report.Risks[i]
			rows = append(rows, []any{
				risk.ID, risk.Title, risk.Category, risk.Probability, risk.Impact,
				string(risk.Priority), string(risk.Status), risk.Owner,
			})
		}
		if err := writeSheet(f, "Risks", rows); err != nil {
			return err
		}
	}

	if len(report.Deliverables) > 0 {
		rows := [][]any{{"ID", "Name", "WBS", "Status", "Assigned To", "Due", "Complete %"}}
		for i := range report.Deliverables {
			d := &report.Deliverables[i]
			due := ""
			if !d.DueDate.IsZero() {
				due = d.DueDate.Format("2006-01-02")
			}
			rows = append(rows, []any{
				d.ID, d.Name, d.WBSCode, string(d.Status), d.AssignedTo, due, d.CompletionPercentage,
			})
		}
		if err := writeSheet(f, "Deliverables", rows); err != nil {
			return err
		}
	}

	if len(report.Milestones) > 0 {
		rows := [][]any{{"ID", "Name", "Target Date", "Status", "Owner"}}
		for i := range report.Milestones {
			m := &report.Milestones[i]
			target := ""
			if !m.TargetDate.IsZero() {
				target = m.TargetDate.Format("2006-01-02")
			}
			rows = append(rows, []any{m.ID, m.Name, target, string(m.Status), m.Owner})
		}
		if err := writeSheet(f, "Milestones", rows); err != nil {
			return err
		}
	}

	if len(report.Stakeholders) > 0 {
		rows := [][]any{{"ID", "Name", "Role", "Influence", "Interest", "Engagement"}}
		for i := range report.Stakeholders {
			s := &report.Stakeholders[i]
			rows = append(rows, []any{
				s.ID, s.Name, s.Role, string(s.Influence), string(s.Interest), s.EngagementPriority(),
			})
		}
		if err := writeSheet(f, "Stakeholders", rows); err != nil {
			return err
		}
	}
	return nil
}

func writeSheet(f *excelize.File, name string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(name, "A1", end, style)
}
