package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/services"
)

func TestSearch_CrossSearchAllTypes(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	p := seedProject(t, reg, services.ProjectDraft{Name: "Invoice revamp"})
	seedTask(t, reg, services.TaskDraft{ProjectID: p.ID, Title: "Fix invoice totals"})
	seedMember(t, reg, services.MemberDraft{Name: "Ines Voicera"})

	// No entity_types means every entity family is searched.
	hits, err := reg.Search.CrossSearch(ctx, "invoice", nil, services.Scope{})
	require.NoError(t, err)

	types := map[string]int{}
	for _, h := range hits {
		types[h.EntityType]++
	}
	assert.Equal(t, 1, types[services.EntityProject])
	assert.Equal(t, 1, types[services.EntityTask])
}

func TestSearch_CrossSearchScopedToType(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	p := seedProject(t, reg, services.ProjectDraft{Name: "Invoice revamp"})
	seedTask(t, reg, services.TaskDraft{ProjectID: p.ID, Title: "Fix invoice totals"})

	hits, err := reg.Search.CrossSearch(ctx, "invoice", []string{services.EntityTask}, services.Scope{})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, services.EntityTask, hits[0].EntityType)

	_, err = reg.Search.CrossSearch(ctx, "invoice", []string{"widget"}, services.Scope{})
	assert.Error(t, err, "unknown entity type is the service's error to raise")
}

func TestSearch_AdvancedFilter(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	p := seedProject(t, reg, services.ProjectDraft{Name: "P"})
	seedTask(t, reg, services.TaskDraft{ProjectID: p.ID, Title: "a", Priority: "high"})
	seedTask(t, reg, services.TaskDraft{ProjectID: p.ID, Title: "b", Priority: "low"})

	hits, err := reg.Search.AdvancedFilter(ctx, map[string]any{"priority": "high"}, services.Scope{})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].Title)
}

func TestSearch_RelatedItems(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	p := seedProject(t, reg, services.ProjectDraft{Name: "P"})
	m := seedMember(t, reg, services.MemberDraft{Name: "Sam"})
	task := seedTask(t, reg, services.TaskDraft{ProjectID: p.ID, Title: "T"})

	_, err := reg.Tasks.Assign(ctx, task.ID, m.ID, "u-1")
	require.NoError(t, err)

	related, err := reg.Search.RelatedItems(ctx, services.EntityTask, task.ID)
	require.NoError(t, err)

	types := map[string]bool{}
	for _, h := range related {
		types[h.EntityType] = true
	}
	assert.True(t, types[services.EntityProject], "task relates to its project")
	assert.True(t, types[services.EntityMember], "task relates to its assignee")

	_, err = reg.Search.RelatedItems(ctx, services.EntityProject, "missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
