package services_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/services"
)

// newRegistry spins up a miniredis instance and wires all six services to it.
func newRegistry(t *testing.T) services.Registry {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return services.NewRegistry(client)
}

// seedProject creates a project for tests that need one to hang tasks off.
func seedProject(t *testing.T, reg services.Registry, draft services.ProjectDraft) *services.Project {
	t.Helper()
	p, err := reg.Projects.Create(context.Background(), draft, "u-test")
	require.NoError(t, err)
	return p
}

func seedMember(t *testing.T, reg services.Registry, draft services.MemberDraft) *services.TeamMember {
	t.Helper()
	m, err := reg.Team.Create(context.Background(), draft, "u-test")
	require.NoError(t, err)
	return m
}

func seedTask(t *testing.T, reg services.Registry, draft services.TaskDraft) *services.Task {
	t.Helper()
	task, err := reg.Tasks.Create(context.Background(), draft, "u-test")
	require.NoError(t, err)
	return task
}

func strPtr(s string) *string { return &s }
