package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmlens/pmlens/internal/types"
)

func TestDeliverableExtractFromTable(t *testing.T) {
	fi := writeDoc(t, "wbs.md", `# Work Breakdown

| WBS Code | Deliverable Name | Status | Assigned To | Due Date | % Complete |
|----------|------------------|--------|-------------|----------|------------|
| 1.1 | Requirements doc | Completed | Dana | 2026-01-15 | 100 |
| 1.2 | API design | In Progress | Sam | 2026-04-01 | 40 |
`)
	fi.DocumentType = types.DocWBS

	out, err := NewDeliverableExtractor().Extract(fi)
	require.NoError(t, err)
	require.Len(t, out, 2)

	d := out[0]
	assert.Equal(t, "Requirements doc", d.Name)
	assert.Equal(t, "1.1", d.WBSCode)
	assert.Equal(t, types.DeliverableCompleted, d.Status)
	assert.Equal(t, "Dana", d.AssignedTo)
	assert.InDelta(t, 100, d.CompletionPercentage, 1e-9)
	assert.Equal(t, fi.Path, d.SourceFile)

	assert.Equal(t, types.DeliverableInProgress, out[1].Status)
	assert.InDelta(t, 40, out[1].CompletionPercentage, 1e-9)
}

func TestDeliverableExtractFromOutline(t *testing.T) {
	fi := writeDoc(t, "wbs.md", `# WBS

1. Planning
1.1 Kickoff workshop
1.2 Charter sign-off
2. Execution
`)
	fi.DocumentType = types.DocWBS

	out, err := NewDeliverableExtractor().Extract(fi)
	require.NoError(t, err)
	require.Len(t, out, 4)
	assert.Equal(t, "1.1", out[1].WBSCode)
	assert.Equal(t, "Kickoff workshop", out[1].Name)
	assert.Equal(t, types.DeliverableNotStarted, out[1].Status)
}

func TestParseCompletion(t *testing.T) {
	assert.InDelta(t, 75, parseCompletion("75%"), 1e-9)
	assert.InDelta(t, 75, parseCompletion("0.75"), 1e-9)
	assert.InDelta(t, 0, parseCompletion(""), 1e-9)
	assert.InDelta(t, 100, parseCompletion("250"), 1e-9)
	assert.InDelta(t, 0, parseCompletion("done"), 1e-9)
}

func TestMilestoneExtractFromTable(t *testing.T) {
	fi := writeDoc(t, "roadmap.md", `# Roadmap

| Milestone | Target Date | Status | Owner |
|-----------|-------------|--------|-------|
| Beta release | 2026-02-01 | Completed | Dana |
| GA launch | 2026-06-01 | | Sam |
`)
	fi.DocumentType = types.DocRoadmap

	e := NewMilestoneExtractor()
	e.Now = func() time.Time { return extractNow }

	out, err := e.Extract(fi)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "Beta release", out[0].Name)
	assert.Equal(t, types.MilestoneCompleted, out[0].Status)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), out[0].TargetDate)

	// No status and a future target date reads as upcoming.
	assert.Equal(t, types.MilestoneUpcoming, out[1].Status)
}

func TestMilestoneExtractFromBullets(t *testing.T) {
	fi := writeDoc(t, "roadmap.md", `Key dates for the team.

- Beta release: 2026-02-01
- GA launch: 2026-06-01
`)
	fi.DocumentType = types.DocRoadmap

	e := NewMilestoneExtractor()
	e.Now = func() time.Time { return extractNow }

	out, err := e.Extract(fi)
	require.NoError(t, err)
	require.Len(t, out, 2)

	// Past target without an explicit status reads as overdue.
	assert.Equal(t, "Beta release", out[0].Name)
	assert.Equal(t, types.MilestoneOverdue, out[0].Status)
	assert.Equal(t, types.MilestoneUpcoming, out[1].Status)
}

func TestStakeholderExtractFromTable(t *testing.T) {
	fi := writeDoc(t, "stakeholders.md", `# Stakeholder Register

| Name | Role | Influence | Interest | Email |
|------|------|-----------|----------|-------|
| Dana Reyes | Project Sponsor | Very High | High | dana@example.com |
| Kim Patel | Developer | Low | High | kim@example.com |
`)
	fi.DocumentType = types.DocStakeholderRegister

	out, err := NewStakeholderExtractor().Extract(fi)
	require.NoError(t, err)
	require.Len(t, out, 2)

	s := out[0]
	assert.Equal(t, "Dana Reyes", s.Name)
	assert.Equal(t, types.LevelVeryHigh, s.Influence)
	assert.Equal(t, types.LevelHigh, s.Interest)
	assert.True(t, s.IsSponsor)
	assert.True(t, s.IsDecisionMkr)
	assert.Equal(t, "Manage Closely", s.EngagementPriority())

	assert.False(t, out[1].IsSponsor)
	assert.Equal(t, types.LevelLow, out[1].Influence)
}

func TestStakeholderExtractFromCSV(t *testing.T) {
	fi := writeDoc(t, "stakeholders.csv", "Name,Role,Influence,Interest\nDana,Sponsor,High,High\n")

	out, err := NewStakeholderExtractor().Extract(fi)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "STK-001", out[0].ID)
}
