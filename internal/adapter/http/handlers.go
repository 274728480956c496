package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/mux"
	"github.com/pu9052473/shoreline-project/internal/domain"
	"github.com/pu9052473/shoreline-project/internal/geomap"
	"github.com/pu9052473/shoreline-project/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	chartWidth  = 960
	chartHeight = 400
)

// Views a result can be rendered into, selected by payload kind.
const (
	viewSummary = "summary"
	viewGrid    = "grid"
	viewMap     = "map"
)

// resultResponse pairs a result with the view its payload dispatches to.
type resultResponse struct {
	Result  domain.PredictionResult `json:"result"`
	View    string                  `json:"view"`
	Summary *report.SummaryView     `json:"summary,omitempty"`
	Grid    *report.GridView        `json:"grid,omitempty"`
	Map     *geomap.MapView         `json:"map,omitempty"`
}

type filterRequest struct {
	To *int `json:"to"`
}

func (s *Server) handleModels(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, domain.Models())
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	modelID := mux.Vars(r)["modelId"]

	result, err := s.predictor.RunPrediction(r.Context(), modelID)
	if err != nil {
		var unknown *domain.UnknownModelError
		switch {
		case errors.As(err, &unknown):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrPredictionInFlight):
			writeError(w, http.StatusConflict, err.Error())
		default:
			s.logger.Error("prediction failed", "model_id", modelID, "error", err)
			writeError(w, http.StatusInternalServerError, "prediction failed")
		}
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, s.render(result))
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.predictor.State())
}

func (s *Server) handleActiveResult(w http.ResponseWriter, _ *http.Request) {
	result, ok := s.predictor.Active()
	if !ok {
		writeError(w, http.StatusNotFound, "no prediction has been run")
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, s.render(result))
}

func (s *Server) handleResultByID(w http.ResponseWriter, r *http.Request) {
	result, ok := s.predictor.Result(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "result not found")
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	result, ok := s.predictor.Active()
	if !ok {
		writeError(w, http.StatusNotFound, "no prediction has been run")
		return
	}

	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, result); err != nil {
		s.logger.Error("build workbook failed", "result_id", result.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not build report")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="shoreline-%s-%s.xlsx"`, result.ModelID, shortID(result.ID)))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleChart(w http.ResponseWriter, _ *http.Request) {
	result, ok := s.predictor.Active()
	if !ok {
		writeError(w, http.StatusNotFound, "no prediction has been run")
		return
	}
	if result.Payload.Kind != domain.PayloadSummary || result.Payload.Summary == nil {
		writeError(w, http.StatusNotFound, "active result has no time series")
		return
	}

	view := report.Summarize(*result.Payload.Summary)
	var buf bytes.Buffer
	if err := report.RenderSeriesChart(&buf, view.Series, chartWidth, chartHeight); err != nil {
		if errors.Is(err, report.ErrSeriesTooShort) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.Error("render chart failed", "result_id", result.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	if !s.syncMap() {
		writeError(w, http.StatusNotFound, "active result has no map")
		return
	}

	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.To == nil {
		writeError(w, http.StatusBadRequest, `body must be {"to": <year>}`)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, s.maps.SetUpper(*req.To))
}

func (s *Server) handleResetFilter(w http.ResponseWriter, _ *http.Request) {
	if !s.syncMap() {
		writeError(w, http.StatusNotFound, "active result has no map")
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, s.maps.Reset())
}

func (s *Server) handleMapGeoJSON(w http.ResponseWriter, _ *http.Request) {
	if !s.syncMap() {
		writeError(w, http.StatusNotFound, "active result has no map")
		return
	}

	data, err := s.maps.VisibleCollection().MarshalJSON()
	if err != nil {
		s.logger.Error("encode geojson failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not encode map")
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(data)
}

// render dispatches a result to the view matching its payload kind.
func (s *Server) render(result domain.PredictionResult) resultResponse {
	resp := resultResponse{Result: result}
	switch result.Payload.Kind {
	case domain.PayloadSummary:
		resp.View = viewSummary
		if result.Payload.Summary != nil {
			v := report.Summarize(*result.Payload.Summary)
			resp.Summary = &v
		}
	case domain.PayloadFeatures:
		resp.View = viewMap
		s.maps.Load(result.ID, result.Payload.Features)
		v := s.maps.View()
		resp.Map = &v
	default:
		resp.View = viewGrid
		v := report.RenderGrid(result.Payload.Periods)
		resp.Grid = &v
	}
	return resp
}

// syncMap loads the active feature set into the map state. It reports false
// when the active result is not a map.
func (s *Server) syncMap() bool {
	result, ok := s.predictor.Active()
	if !ok || result.Payload.Kind != domain.PayloadFeatures {
		return false
	}
	if s.maps.Key() != result.ID {
		s.maps.Load(result.ID, result.Payload.Features)
	}
	return true
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
