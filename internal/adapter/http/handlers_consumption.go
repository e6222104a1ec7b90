package adapthttp

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"quitplan/internal/app"
)

func (s *Server) handleConsumptionRecord(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OccurredAt *time.Time       `json:"occurredAt"`
		Trigger    string           `json:"trigger"`
		Price      *decimal.Decimal `json:"price"`
		NicotineMg float64          `json:"nicotineMg"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	e, err := s.consumption.Record(r.Context(), s.userID(r), app.ConsumptionInput{
		OccurredAt: body.OccurredAt,
		Trigger:    body.Trigger,
		Price:      body.Price,
		NicotineMg: body.NicotineMg,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"event": e})
}

func (s *Server) handleConsumptionRecent(w http.ResponseWriter, r *http.Request) {
	limit := min(intQuery(r, "limit", 20), 500)
	items, err := s.consumption.ListRecent(r.Context(), s.userID(r), limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleConsumptionUndoLast(w http.ResponseWriter, r *http.Request) {
	undone, id, err := s.consumption.UndoLast(r.Context(), s.userID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	resp := map[string]any{"undone": undone}
	if undone {
		resp["id"] = id
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConsumptionDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid event id"))
		return
	}
	if err := s.consumption.Delete(r.Context(), s.userID(r), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
