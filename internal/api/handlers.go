package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/waterfall-cli/internal/intake"
	"github.com/sells-group/waterfall-cli/internal/report"
	"github.com/sells-group/waterfall-cli/internal/store"
	"github.com/sells-group/waterfall-cli/internal/waterfall"
)

// SweepRequest asks for the waterfall at a range of revenue levels.
type SweepRequest struct {
	Form  intake.Form       `json:"form"`
	Range report.SweepRange `json:"range"`
}

// SweepResponse carries sweep points in revenue order.
type SweepResponse struct {
	Points []report.SweepPoint `json:"points"`
}

// ScenarioRequest creates or replaces a saved scenario.
type ScenarioRequest struct {
	Name string      `json:"name"`
	Form intake.Form `json:"form"`
}

func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var form intake.Form
	if !decodeBody(w, r, &form) {
		return
	}
	cs, ok := s.build(w, r, form)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report.NewView(cs))
}

func (s *server) handleSweep(w http.ResponseWriter, r *http.Request) {
	var req SweepRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cs, ok := s.build(w, r, req.Form)
	if !ok {
		return
	}
	if _, err := req.Range.Levels(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	points, err := report.Sweep(r.Context(), cs, req.Range, s.sweepConcurrency)
	if err != nil {
		internalError(w, "api: sweep", err)
		return
	}
	writeJSON(w, http.StatusOK, SweepResponse{Points: points})
}

func (s *server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ScenarioFilter{Name: q.Get("name")}

	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	scenarios, err := s.store.ListScenarios(r.Context(), filter)
	if err != nil {
		internalError(w, "api: list scenarios", err)
		return
	}
	if scenarios == nil {
		scenarios = []store.Scenario{}
	}
	writeJSON(w, http.StatusOK, scenarios)
}

func (s *server) handleSaveScenario(w http.ResponseWriter, r *http.Request) {
	var req ScenarioRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	cs, ok := s.build(w, r, req.Form)
	if !ok {
		return
	}

	sc, err := s.store.SaveScenario(r.Context(), req.Name, cs)
	if err != nil {
		internalError(w, "api: save scenario", err)
		return
	}
	zap.L().Info("api: scenario saved", zap.String("scenario", sc.ID), zap.String("name", sc.Name))
	writeJSON(w, http.StatusCreated, sc)
}

func (s *server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.loadScenario(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (s *server) handleUpdateScenario(w http.ResponseWriter, r *http.Request) {
	var req ScenarioRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cs, ok := s.build(w, r, req.Form)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.store.UpdateScenario(r.Context(), id, cs); err != nil {
		storeError(w, "api: update scenario", err)
		return
	}
	s.handleGetScenario(w, r)
}

func (s *server) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteScenario(r.Context(), id); err != nil {
		storeError(w, "api: delete scenario", err)
		return
	}
	zap.L().Info("api: scenario deleted", zap.String("scenario", id))
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleScenarioResult(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.loadScenario(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report.NewView(sc.Structure))
}

func (s *server) loadScenario(w http.ResponseWriter, r *http.Request) (*store.Scenario, bool) {
	sc, err := s.store.GetScenario(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		storeError(w, "api: get scenario", err)
		return nil, false
	}
	return sc, true
}

// build applies defaults and, with ?strict=true, rejects out-of-range input with 422.
func (s *server) build(w http.ResponseWriter, r *http.Request, form intake.Form) (waterfall.CapitalStructure, bool) {
	strict, _ := strconv.ParseBool(r.URL.Query().Get("strict"))
	cs, err := form.Build(s.defaults, strict)
	if err != nil {
		var verr *intake.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":  verr.Error(),
				"fields": verr.Fields,
			})
			return waterfall.CapitalStructure{}, false
		}
		internalError(w, "api: build structure", err)
		return waterfall.CapitalStructure{}, false
	}
	return cs, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, eris.Errorf("api: invalid integer %q", raw)
	}
	return n, nil
}

func storeError(w http.ResponseWriter, msg string, err error) {
	if eris.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "scenario not found")
		return
	}
	internalError(w, msg, err)
}

func internalError(w http.ResponseWriter, msg string, err error) {
	zap.L().Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
