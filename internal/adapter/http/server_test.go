package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/pu9052473/shoreline-project/internal/adapter/backend"
	httpadapter "github.com/pu9052473/shoreline-project/internal/adapter/http"
	"github.com/pu9052473/shoreline-project/internal/adapter/memory"
	"github.com/pu9052473/shoreline-project/internal/domain"
	"github.com/pu9052473/shoreline-project/internal/geomap"
	"github.com/pu9052473/shoreline-project/internal/observability"
	"github.com/pu9052473/shoreline-project/internal/prediction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePredictor serves a fixed active result and canned errors.
type fakePredictor struct {
	active   *domain.PredictionResult
	runErr   error
	readyErr error
}

func (f *fakePredictor) RunPrediction(_ context.Context, modelID string) (domain.PredictionResult, error) {
	if f.runErr != nil {
		return domain.PredictionResult{}, f.runErr
	}
	return *f.active, nil
}

func (f *fakePredictor) State() prediction.State {
	return prediction.State{ShortTermLoading: true, AnyBusy: true}
}

func (f *fakePredictor) Active() (domain.PredictionResult, bool) {
	if f.active == nil {
		return domain.PredictionResult{}, false
	}
	return *f.active, true
}

func (f *fakePredictor) Result(id string) (domain.PredictionResult, bool) {
	if f.active != nil && f.active.ID == id {
		return *f.active, true
	}
	return domain.PredictionResult{}, false
}

func (f *fakePredictor) CheckReadiness(context.Context) error { return f.readyErr }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(p httpadapter.Predictor) *httpadapter.Server {
	return httpadapter.NewServer(":0", p, geomap.DefaultOptions(), 5*time.Second, discardLogger())
}

func do(t *testing.T, srv http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(method, path, rd))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func year(y int) *int { return &y }

func mapResult() *domain.PredictionResult {
	features := []domain.GeoFeature{
		{Year: year(2040), Coordinates: []orb.Point{{145.10, -38.10}, {145.11, -38.11}}},
		{Year: year(2060), Coordinates: []orb.Point{{145.12, -38.12}, {145.13, -38.13}}},
		{Year: year(2070), Coordinates: []orb.Point{{145.14, -38.14}, {145.15, -38.15}}},
	}
	return &domain.PredictionResult{
		ID:      "map-result",
		ModelID: domain.LongTerm,
		Payload: domain.FeaturePayload(features),
	}
}

func summaryResult() *domain.PredictionResult {
	return &domain.PredictionResult{
		ID:      "summary-result",
		ModelID: domain.ShortTerm,
		Payload: domain.SummaryPayload(domain.StructuredSummary{
			DailyTotals: []domain.DailyTotal{
				{Date: "2026-03-01", TotalMeters: 1.5},
				{Date: "2026-03-02", TotalMeters: -0.4},
				{Date: "2026-03-03", TotalMeters: 0.9},
			},
		}),
	}
}

type response struct {
	Result  domain.PredictionResult `json:"result"`
	View    string                  `json:"view"`
	Summary json.RawMessage         `json:"summary"`
	Grid    struct {
		Cards []json.RawMessage `json:"cards"`
	} `json:"grid"`
	Map *geomap.MapView `json:"map"`
}

// --- health ---

func TestHealthzReturns200(t *testing.T) {
	rec := do(t, newTestServer(&fakePredictor{}), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[map[string]string](t, rec)["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := do(t, newTestServer(&fakePredictor{}), http.MethodGet, "/readyz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", decode[map[string]string](t, rec)["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := do(t, newTestServer(&fakePredictor{readyErr: fmt.Errorf("backend down")}), http.MethodGet, "/readyz", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "backend down", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := do(t, newTestServer(&fakePredictor{}), http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

// --- prediction ---

func TestPredict_ErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unknown model", &domain.UnknownModelError{ModelID: "mid-term"}, http.StatusNotFound},
		{"busy", domain.ErrPredictionInFlight, http.StatusConflict},
		{"unexpected", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(&fakePredictor{runErr: tt.err}), http.MethodPost, "/api/predict/mid-term", "")

			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
		})
	}
}

func TestPredict_WrongMethod(t *testing.T) {
	srv := newTestServer(&fakePredictor{active: mapResult()})
	tests := []struct{ method, path string }{
		{http.MethodGet, "/api/predict/short-term"},
		{http.MethodPost, "/api/state"},
		{http.MethodGet, "/api/map/filter"},
		{http.MethodDelete, "/api/result"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := do(t, srv, tt.method, tt.path, "")

			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.Equal(t, "method not allowed", decode[map[string]string](t, rec)["error"])
		})
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	rec := do(t, newTestServer(&fakePredictor{}), http.MethodGet, "/api/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", decode[map[string]string](t, rec)["error"])
}

func TestPredict_EndToEndFallback(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	ctrl := prediction.New(
		backend.NewClient(upstream.URL, 5*time.Second, discardLogger()),
		memory.NewHistory(4),
		discardLogger(),
		observability.NewMetricsForTesting(),
	)
	srv := newTestServer(ctrl)

	rec := do(t, srv, http.MethodPost, "/api/predict/short-term", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[response](t, rec)
	assert.Equal(t, "grid", resp.View)
	assert.True(t, resp.Result.Degraded)
	assert.Equal(t, domain.MsgBackendUnavailable, resp.Result.StatusMessage)
	assert.Len(t, resp.Grid.Cards, 7)

	state := decode[prediction.State](t, do(t, srv, http.MethodGet, "/api/state", ""))
	assert.False(t, state.AnyBusy)
	assert.Equal(t, resp.Result.ID, state.ActiveResultID)

	rec = do(t, srv, http.MethodGet, "/api/results/"+resp.Result.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestState(t *testing.T) {
	rec := do(t, newTestServer(&fakePredictor{}), http.MethodGet, "/api/state", "")

	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[prediction.State](t, rec)
	assert.True(t, st.ShortTermLoading)
	assert.True(t, st.AnyBusy)
}

func TestModels(t *testing.T) {
	rec := do(t, newTestServer(&fakePredictor{}), http.MethodGet, "/api/models", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.Models(), decode[[]domain.ModelDescriptor](t, rec))
}

// --- result views ---

func TestActiveResult_NoneYet(t *testing.T) {
	srv := newTestServer(&fakePredictor{})
	for _, path := range []string{"/api/result", "/api/result/report.xlsx", "/api/result/chart.png", "/api/map.geojson"} {
		rec := do(t, srv, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestActiveResult_SummaryView(t *testing.T) {
	rec := do(t, newTestServer(&fakePredictor{active: summaryResult()}), http.MethodGet, "/api/result", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[response](t, rec)
	assert.Equal(t, "summary", resp.View)
	assert.Contains(t, string(resp.Summary), `"series"`)
	assert.Nil(t, resp.Map)
}

func TestActiveResult_MapView(t *testing.T) {
	rec := do(t, newTestServer(&fakePredictor{active: mapResult()}), http.MethodGet, "/api/result", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[response](t, rec)
	assert.Equal(t, "map", resp.View)
	require.NotNil(t, resp.Map)
	assert.Len(t, resp.Map.Transects, 3)
	assert.True(t, resp.Map.Fitted)
	assert.Equal(t, geomap.YearFilterRange{From: 2040, To: 2070}, resp.Map.Range)
}

func TestChart(t *testing.T) {
	rec := do(t, newTestServer(&fakePredictor{active: summaryResult()}), http.MethodGet, "/api/result/chart.png", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestChart_NotSummary(t *testing.T) {
	rec := do(t, newTestServer(&fakePredictor{active: mapResult()}), http.MethodGet, "/api/result/chart.png", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReport(t *testing.T) {
	rec := do(t, newTestServer(&fakePredictor{active: summaryResult()}), http.MethodGet, "/api/result/report.xlsx", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "shoreline-short-term-summary-")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

// --- map filter ---

func TestMapFilter_SetAndReset(t *testing.T) {
	srv := newTestServer(&fakePredictor{active: mapResult()})

	rec := do(t, srv, http.MethodPut, "/api/map/filter", `{"to": 2060}`)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[geomap.MapView](t, rec)
	assert.Len(t, view.Transects, 2)
	assert.Equal(t, 2060, view.Range.To)

	rec = do(t, srv, http.MethodGet, "/api/map.geojson", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))
	var fc struct {
		Features []json.RawMessage `json:"features"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fc))
	assert.Len(t, fc.Features, 2)

	rec = do(t, srv, http.MethodPost, "/api/map/filter/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[geomap.MapView](t, rec)
	assert.Len(t, view.Transects, 3)
}

func TestMapFilter_ClampsToDomain(t *testing.T) {
	srv := newTestServer(&fakePredictor{active: mapResult()})

	rec := do(t, srv, http.MethodPut, "/api/map/filter", `{"to": 1990}`)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[geomap.MapView](t, rec)
	assert.Equal(t, 2040, view.Range.To)
	assert.Len(t, view.Transects, 1)
}

func TestMapFilter_BadBody(t *testing.T) {
	srv := newTestServer(&fakePredictor{active: mapResult()})

	for _, body := range []string{`{}`, `not json`, `{"to": "2050"}`} {
		rec := do(t, srv, http.MethodPut, "/api/map/filter", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestMapFilter_NotAMap(t *testing.T) {
	srv := newTestServer(&fakePredictor{active: summaryResult()})

	rec := do(t, srv, http.MethodPut, "/api/map/filter", `{"to": 2060}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
