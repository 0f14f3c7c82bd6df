package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/dispatch"
	"github.com/taskdeck/taskdeck/internal/logging"
	"github.com/taskdeck/taskdeck/internal/services"
)

type healthStub bool

func (h healthStub) Healthy() bool { return bool(h) }

func newHandler(t *testing.T, healthy bool) http.Handler {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	d := dispatch.New(services.NewRegistry(client), healthStub(healthy))
	return NewHandler(d, healthStub(healthy), nil, logging.NewNop())
}

func TestListTools(t *testing.T) {
	h := newHandler(t, true)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tools", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Tools []struct {
			Name        string         `json:"name"`
			InputSchema map[string]any `json:"input_schema"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Tools, 6)
	assert.Equal(t, "project_operations", body.Tools[0].Name)
	assert.NotEmpty(t, body.Tools[0].InputSchema["properties"])
}

func TestCallTool_Success(t *testing.T) {
	h := newHandler(t, true)

	payload, _ := json.Marshal(map[string]any{
		"action":       "create",
		"project_data": map[string]any{"name": "Website"},
		"user_id":      "u-1",
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tools/project_operations", bytes.NewReader(payload)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dispatch.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, dispatch.StatusSuccess, resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestCallTool_StatusMapping(t *testing.T) {
	h := newHandler(t, true)

	cases := []struct {
		name     string
		path     string
		payload  map[string]any
		wantCode int
		wantKind dispatch.ErrorKind
	}{
		{
			name:     "unknown tool",
			path:     "/tools/nonsense",
			payload:  map[string]any{"action": "create"},
			wantCode: http.StatusNotFound,
			wantKind: dispatch.KindUnknownTool,
		},
		{
			name:     "unknown action",
			path:     "/tools/project_operations",
			payload:  map[string]any{"action": "explode"},
			wantCode: http.StatusBadRequest,
			wantKind: dispatch.KindUnknownAction,
		},
		{
			name:     "missing fields",
			path:     "/tools/project_operations",
			payload:  map[string]any{"action": "create"},
			wantCode: http.StatusBadRequest,
			wantKind: dispatch.KindMissingFields,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload, _ := json.Marshal(tc.payload)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tc.path, bytes.NewReader(payload)))

			require.Equal(t, tc.wantCode, rec.Code)
			var resp dispatch.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantKind, resp.ErrorKind)
		})
	}
}

func TestCallTool_InvalidBody(t *testing.T) {
	h := newHandler(t, true)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tools/project_operations", bytes.NewReader([]byte("{not json"))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCallTool_ConnectionDown(t *testing.T) {
	h := newHandler(t, false)

	payload, _ := json.Marshal(map[string]any{"action": "get", "project_id": "p-1"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tools/project_operations", bytes.NewReader(payload)))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp dispatch.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "connection not available", resp.ErrorMessage)
}

func TestHealthEndpoint(t *testing.T) {
	up := newHandler(t, true)
	rec := httptest.NewRecorder()
	up.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	down := newHandler(t, false)
	rec = httptest.NewRecorder()
	down.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
