package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/services"
)

func TestTeam_CreateDefaultsAvailable(t *testing.T) {
	reg := newRegistry(t)

	m := seedMember(t, reg, services.MemberDraft{Name: "Sam", Skills: []string{"go", "redis"}})
	assert.True(t, m.Available)

	got, err := reg.Team.Get(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "redis"}, got.Skills)
}

func TestTeam_GetAvailableFiltersBySkill(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	seedMember(t, reg, services.MemberDraft{Name: "Go dev", Skills: []string{"Go"}})
	seedMember(t, reg, services.MemberDraft{Name: "Designer", Skills: []string{"figma"}})
	busy := false
	seedMember(t, reg, services.MemberDraft{Name: "Off duty", Skills: []string{"go"}, Available: &busy})

	avail, err := reg.Team.GetAvailable(ctx, services.Scope{}, []string{"go"})
	require.NoError(t, err)
	require.Len(t, avail, 1, "skill match is case-insensitive and skips unavailable members")
	assert.Equal(t, "Go dev", avail[0].Name)
}

func TestTeam_UpdateSkills(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	m := seedMember(t, reg, services.MemberDraft{Name: "Sam", Skills: []string{"go"}})

	updated, err := reg.Team.UpdateSkills(ctx, m.ID, []string{"go", "kubernetes"}, "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "kubernetes"}, updated.Skills)
}

func TestTeam_GetWorkload(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	p := seedProject(t, reg, services.ProjectDraft{Name: "P"})
	m := seedMember(t, reg, services.MemberDraft{Name: "Sam", CapacityHours: 40})

	open := seedTask(t, reg, services.TaskDraft{ProjectID: p.ID, Title: "open", EstimateHours: 10})
	done := seedTask(t, reg, services.TaskDraft{ProjectID: p.ID, Title: "done", EstimateHours: 5})

	_, err := reg.Tasks.Assign(ctx, open.ID, m.ID, "u-1")
	require.NoError(t, err)
	_, err = reg.Tasks.Assign(ctx, done.ID, m.ID, "u-1")
	require.NoError(t, err)
	_, err = reg.Tasks.UpdateStatus(ctx, done.ID, services.TaskStatusDone, "u-1")
	require.NoError(t, err)

	w, err := reg.Team.GetWorkload(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, w.OpenTasks, "done tasks do not count against workload")
	assert.InDelta(t, 10.0, w.EstimateHours, 1e-9)
	assert.InDelta(t, 0.25, w.Utilization, 1e-9)
}
