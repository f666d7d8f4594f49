package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LENAX/step-scheduler/pkg/api/dto"
	"github.com/LENAX/step-scheduler/pkg/config"
	"github.com/LENAX/step-scheduler/pkg/core/engine"
	"github.com/LENAX/step-scheduler/pkg/core/events"
	"github.com/LENAX/step-scheduler/pkg/storage"
	"github.com/LENAX/step-scheduler/pkg/storage/sqlite"
)

const canonicalBody = `{
	"name": "canonical",
	"constraints": [
		{"before": "C", "after": "A"},
		{"before": "C", "after": "F"},
		{"before": "A", "after": "B"},
		{"before": "A", "after": "D"},
		{"before": "B", "after": "E"},
		{"before": "D", "after": "E"},
		{"before": "F", "after": "E"}
	]
}`

func setupRouter(t *testing.T, withStorage bool) *gin.Engine {
	t.Helper()
	builder := engine.NewEngineBuilder(config.Default())
	if withStorage {
		repo, err := sqlite.NewRunRepoFromDSN(filepath.Join(t.TempDir(), "api.db"), storage.PoolConfig{MaxOpenConns: 1})
		require.NoError(t, err)
		builder = builder.WithRepository(repo)
	}
	eng, err := builder.Build()
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })
	return SetupRouter(eng, "test")
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) dto.APIResponse[T] {
	t.Helper()
	var resp dto.APIResponse[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	router := setupRouter(t, false)

	w := doRequest(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.HealthResponse](t, w)
	assert.Equal(t, "healthy", resp.Data.Status)
	assert.Equal(t, "test", resp.Data.Version)

	w = doRequest(router, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSchedule_Canonical(t *testing.T) {
	router := setupRouter(t, true)

	w := doRequest(router, http.MethodPost, "/api/v1/schedules", canonicalBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[dto.ScheduleResponse](t, w)
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, "CABDFE", resp.Data.Sequence)
	assert.Equal(t, "complete", resp.Data.Status)

	w = doRequest(router, http.MethodGet, "/api/v1/runs/"+resp.Data.RunID, "")
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[dto.RunDetail](t, w)
	assert.Equal(t, []string{"C", "A", "B", "D", "F", "E"}, detail.Data.Order)

	w = doRequest(router, http.MethodGet, "/api/v1/runs?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[dto.ListResponse[dto.RunSummary]](t, w)
	assert.Equal(t, 1, list.Data.Total)
	assert.False(t, list.Data.HasMore)
}

func TestSchedule_RawText(t *testing.T) {
	router := setupRouter(t, false)

	input := "Step C must be finished before step A can begin.\nStep A must be finished before step B can begin.\n"
	body, err := json.Marshal(map[string]string{"format": "text", "input": input})
	require.NoError(t, err)

	w := doRequest(router, http.MethodPost, "/api/v1/schedules", string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[dto.ScheduleResponse](t, w)
	assert.Equal(t, "CAB", resp.Data.Sequence)
}

func TestSchedule_IsolatedSteps(t *testing.T) {
	router := setupRouter(t, false)

	w := doRequest(router, http.MethodPost, "/api/v1/schedules", `{"steps": ["Z", "A", "M"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[dto.ScheduleResponse](t, w)
	assert.Equal(t, []string{"A", "M", "Z"}, resp.Data.Order)
}

func TestSchedule_CycleReturns422(t *testing.T) {
	router := setupRouter(t, true)

	w := doRequest(router, http.MethodPost, "/api/v1/schedules",
		`{"constraints": [{"before": "A", "after": "B"}, {"before": "B", "after": "A"}]}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	resp := decode[dto.ScheduleResponse](t, w)
	assert.Equal(t, 422, resp.Code)
	assert.Equal(t, "stuck", resp.Data.Status)
	assert.Equal(t, []string{"A", "B"}, resp.Data.Stuck)
	assert.Empty(t, resp.Data.Order)

	w = doRequest(router, http.MethodGet, "/api/v1/runs/"+resp.Data.RunID, "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSchedule_BadRequests(t *testing.T) {
	router := setupRouter(t, false)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"constraints": [`},
		{"missing after", `{"constraints": [{"before": "A"}]}`},
		{"malformed text", `{"format": "text", "input": "A before B"}`},
		{"unknown format", `{"format": "xml", "input": "<a/>"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/api/v1/schedules", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestValidate(t *testing.T) {
	router := setupRouter(t, false)

	w := doRequest(router, http.MethodPost, "/api/v1/validate", canonicalBody)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.ValidateResponse](t, w)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, []string{"C"}, resp.Data.Roots)
	assert.Equal(t, 7, resp.Data.EdgeCount)

	w = doRequest(router, http.MethodPost, "/api/v1/validate",
		`{"constraints": [{"before": "A", "after": "B"}, {"before": "B", "after": "A"}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[dto.ValidateResponse](t, w)
	assert.False(t, resp.Data.Valid)
	assert.Equal(t, []string{"A", "B", "A"}, resp.Data.Cycle)
}

func TestRuns_Errors(t *testing.T) {
	router := setupRouter(t, true)
	w := doRequest(router, http.MethodGet, "/api/v1/runs/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/runs?limit=1000", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	noStorage := setupRouter(t, false)
	w = doRequest(noStorage, http.MethodGet, "/api/v1/runs", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestEvents_WebSocket(t *testing.T) {
	router := setupRouter(t, false)
	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/events?types=schedule.completed"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	resp, err := http.Post(server.URL+"/api/v1/schedules", "application/json", strings.NewReader(canonicalBody))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var ev events.ScheduleEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, events.EventScheduleCompleted, ev.Type)
	assert.Equal(t, []string{"C", "A", "B", "D", "F", "E"}, ev.Order)
}

func TestEvents_UnknownType(t *testing.T) {
	router := setupRouter(t, false)
	w := doRequest(router, http.MethodGet, "/api/v1/events?types=nope", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
