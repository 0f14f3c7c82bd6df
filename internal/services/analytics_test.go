package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/services"
)

func TestAnalytics_ProjectProgress(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	p := seedProject(t, reg, services.ProjectDraft{Name: "P"})
	seedTask(t, reg, services.TaskDraft{ProjectID: p.ID, Title: "open unassigned"})
	done := seedTask(t, reg, services.TaskDraft{ProjectID: p.ID, Title: "done"})
	overdue := seedTask(t, reg, services.TaskDraft{
		ProjectID: p.ID,
		Title:     "late",
		DueDate:   "2020-01-01",
	})
	_ = overdue

	_, err := reg.Tasks.UpdateStatus(ctx, done.ID, services.TaskStatusDone, "u-1")
	require.NoError(t, err)

	progress, err := reg.Analytics.ProjectProgress(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, progress.TotalTasks)
	assert.InDelta(t, 1.0/3.0, progress.Completion, 1e-9)
	assert.Equal(t, 1, progress.OverdueTasks)
	assert.Equal(t, 2, progress.UnassignedOpen)

	_, err = reg.Analytics.ProjectProgress(ctx, "missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestAnalytics_TeamPerformance(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	p := seedProject(t, reg, services.ProjectDraft{Name: "P"})
	m := seedMember(t, reg, services.MemberDraft{Name: "Sam"})

	t1 := seedTask(t, reg, services.TaskDraft{ProjectID: p.ID, Title: "a"})
	t2 := seedTask(t, reg, services.TaskDraft{ProjectID: p.ID, Title: "b"})

	_, err := reg.Tasks.Assign(ctx, t1.ID, m.ID, "u-1")
	require.NoError(t, err)
	_, err = reg.Tasks.Assign(ctx, t2.ID, m.ID, "u-1")
	require.NoError(t, err)
	_, err = reg.Tasks.UpdateStatus(ctx, t1.ID, services.TaskStatusDone, "u-1")
	require.NoError(t, err)

	perf, err := reg.Analytics.TeamPerformance(ctx, services.Scope{})
	require.NoError(t, err)
	require.Len(t, perf, 1)
	assert.Equal(t, 1, perf[0].CompletedTasks)
	assert.Equal(t, 1, perf[0].OpenTasks)
	assert.InDelta(t, 0.5, perf[0].CompletionRate, 1e-9)
}

func TestAnalytics_DeadlineTracking(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	p := seedProject(t, reg, services.ProjectDraft{Name: "P"})
	soon := time.Now().AddDate(0, 0, 3).Format("2006-01-02")
	far := time.Now().AddDate(0, 0, 60).Format("2006-01-02")

	seedTask(t, reg, services.TaskDraft{ProjectID: p.ID, Title: "soon", DueDate: soon})
	seedTask(t, reg, services.TaskDraft{ProjectID: p.ID, Title: "far", DueDate: far})
	seedTask(t, reg, services.TaskDraft{ProjectID: p.ID, Title: "late", DueDate: "2020-06-01"})
	seedTask(t, reg, services.TaskDraft{ProjectID: p.ID, Title: "undated"})

	entries, err := reg.Analytics.DeadlineTracking(ctx, services.Scope{}, 7)
	require.NoError(t, err)
	require.Len(t, entries, 2, "far-future and undated tasks are excluded")

	assert.True(t, entries[0].Overdue, "overdue sorts first")
	assert.Equal(t, "late", entries[0].Title)
	assert.Equal(t, "soon", entries[1].Title)
}

func TestAnalytics_RiskAnalysis(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	healthy := seedProject(t, reg, services.ProjectDraft{Name: "Healthy"})
	report, err := reg.Analytics.RiskAnalysis(ctx, healthy.ID)
	require.NoError(t, err)
	assert.Equal(t, "low", report.RiskLevel)
	assert.Empty(t, report.Factors)

	risky := seedProject(t, reg, services.ProjectDraft{Name: "Risky", DueDate: "2020-01-01"})
	seedTask(t, reg, services.TaskDraft{ProjectID: risky.ID, Title: "late", DueDate: "2020-01-01"})

	report, err = reg.Analytics.RiskAnalysis(ctx, risky.ID)
	require.NoError(t, err)
	assert.Equal(t, "high", report.RiskLevel)
	assert.NotEmpty(t, report.Factors)
}
