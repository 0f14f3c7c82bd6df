package dispatch

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/services"
)

type healthStub bool

func (h healthStub) Healthy() bool { return bool(h) }

func newDispatcher(t *testing.T) *Dispatcher {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return New(services.NewRegistry(client), healthStub(true))
}

func call(t *testing.T, d *Dispatcher, tool string, args map[string]any) Response {
	t.Helper()
	return d.Dispatch(context.Background(), tool, args)
}

func TestDispatch_UnknownTool(t *testing.T) {
	d := newDispatcher(t)

	resp := call(t, d, "time_travel", map[string]any{"action": "create"})
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, KindUnknownTool, resp.ErrorKind)
	assert.Contains(t, resp.ErrorMessage, "time_travel")
}

func TestDispatch_ConnectionGateBeatsValidation(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	d := New(services.NewRegistry(client), healthStub(false))

	// Even a request with a bogus action gets the connection error: the
	// gate answers before validation ever runs.
	resp := call(t, d, ToolProjects, map[string]any{"action": "explode"})
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, KindConnectionUnavailable, resp.ErrorKind)
	assert.Equal(t, "connection not available", resp.ErrorMessage)
}

func TestDispatch_UnknownActionNeverReachesServices(t *testing.T) {
	d := newDispatcher(t)

	resp := call(t, d, ToolTasks, map[string]any{
		"action":  "teleport",
		"task_id": "t-1",
	})
	assert.Equal(t, KindUnknownAction, resp.ErrorKind)
	assert.Contains(t, resp.ErrorMessage, `"teleport"`)
}

func TestDispatch_NilArguments(t *testing.T) {
	d := newDispatcher(t)

	resp := d.Dispatch(context.Background(), ToolProjects, nil)
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, KindUnknownAction, resp.ErrorKind)
}

// Every mutating action must refuse to run without user_id, regardless of
// how complete the rest of the payload is.
func TestDispatch_MutatingActionsRequireUserID(t *testing.T) {
	d := newDispatcher(t)

	fill := func(field string) any {
		switch field {
		case "project_data", "task_data", "member_data", "updates", "filters":
			return map[string]any{"name": "x"}
		case "skills", "entity_types":
			return []string{"go"}
		case "status":
			return "todo"
		default:
			return "x"
		}
	}

	for tool, actions := range contracts {
		for action, required := range actions {
			needsUser := false
			args := map[string]any{"action": action}
			for _, field := range required {
				if field == "user_id" {
					needsUser = true
					continue
				}
				args[field] = fill(field)
			}
			if !needsUser {
				continue
			}

			resp := call(t, d, tool, args)
			assert.Equal(t, StatusError, resp.Status, "%s/%s", tool, action)
			assert.Equal(t, KindMissingFields, resp.ErrorKind, "%s/%s", tool, action)
			assert.Contains(t, resp.ErrorMessage, "user_id", "%s/%s", tool, action)
		}
	}
}

func TestDispatch_ProjectRoundTrip(t *testing.T) {
	d := newDispatcher(t)

	created := call(t, d, ToolProjects, map[string]any{
		"action": "create",
		"project_data": map[string]any{
			"name":            "Billing revamp",
			"organization_id": "org-1",
		},
		"user_id": "u-1",
	})
	require.Equal(t, StatusSuccess, created.Status, created.ErrorMessage)

	project, ok := created.Data.(*services.Project)
	require.True(t, ok, "unexpected data type %T", created.Data)
	require.NotEmpty(t, project.ID)
	assert.Equal(t, "Billing revamp", project.Name)

	fetched := call(t, d, ToolProjects, map[string]any{
		"action":     "get",
		"project_id": project.ID,
	})
	require.Equal(t, StatusSuccess, fetched.Status, fetched.ErrorMessage)
	got, ok := fetched.Data.(*services.Project)
	require.True(t, ok)
	assert.Equal(t, project.ID, got.ID)
}

func TestDispatch_DomainErrorPassesThrough(t *testing.T) {
	d := newDispatcher(t)

	resp := call(t, d, ToolProjects, map[string]any{
		"action":     "get",
		"project_id": "p-nope",
	})
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, KindDomain, resp.ErrorKind)
	assert.Contains(t, resp.ErrorMessage, "not found")
}

func TestDispatch_WeaklyTypedPagination(t *testing.T) {
	d := newDispatcher(t)

	// JSON decoders hand integers over as float64; the router must not
	// choke on that.
	resp := call(t, d, ToolProjects, map[string]any{
		"action": "list",
		"page":   float64(1),
		"limit":  float64(5),
	})
	assert.Equal(t, StatusSuccess, resp.Status, resp.ErrorMessage)
}

func TestDispatch_CrossSearchDefaultsToAllEntities(t *testing.T) {
	d := newDispatcher(t)

	created := call(t, d, ToolProjects, map[string]any{
		"action":       "create",
		"project_data": map[string]any{"name": "Apollo launch"},
		"user_id":      "u-1",
	})
	require.Equal(t, StatusSuccess, created.Status, created.ErrorMessage)
	project := created.Data.(*services.Project)

	made := call(t, d, ToolTasks, map[string]any{
		"action": "create",
		"task_data": map[string]any{
			"project_id": project.ID,
			"title":      "Apollo checklist",
		},
		"user_id": "u-1",
	})
	require.Equal(t, StatusSuccess, made.Status, made.ErrorMessage)

	// No entity_types at all: the search spans every entity family.
	resp := call(t, d, ToolSearch, map[string]any{
		"action":      "cross_search",
		"search_term": "apollo",
	})
	require.Equal(t, StatusSuccess, resp.Status, resp.ErrorMessage)

	hits, ok := resp.Data.([]services.SearchHit)
	require.True(t, ok, "unexpected data type %T", resp.Data)
	types := map[string]bool{}
	for _, h := range hits {
		types[h.EntityType] = true
	}
	assert.True(t, types[services.EntityProject])
	assert.True(t, types[services.EntityTask])
}

func TestDispatch_EnvelopeJSON(t *testing.T) {
	ok := Success(map[string]any{"id": "p-1"})
	raw, err := ok.JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","data":{"id":"p-1"}}`, string(raw))

	bad := Failure(errConnectionUnavailable())
	raw, err = bad.JSON()
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"status":"error","error_message":"connection not available","error_kind":"connection_unavailable"}`,
		string(raw))
}
