package adapthttp

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"quitplan/internal/app"
)

func (s *Server) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.Get(r.Context(), s.userID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": p})
}

func (s *Server) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DailyBaseline *int             `json:"dailyBaseline"`
		PricePerUnit  *decimal.Decimal `json:"pricePerUnit"`
		TimeZone      *string          `json:"timeZone"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := s.profiles.UpdateSettings(r.Context(), s.userID(r), app.SettingsInput{
		DailyBaseline: body.DailyBaseline,
		PricePerUnit:  body.PricePerUnit,
		TimeZone:      body.TimeZone,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": p})
}

func (s *Server) handleProgramSet(w http.ResponseWriter, r *http.Request) {
	var body struct {
		StartValue     int    `json:"startValue"`
		TargetValue    int    `json:"targetValue"`
		DurationMonths int    `json:"durationMonths"`
		StartDate      string `json:"startDate"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	in := app.ProgramInput{
		StartValue:     body.StartValue,
		TargetValue:    body.TargetValue,
		DurationMonths: body.DurationMonths,
	}
	if body.StartDate != "" {
		d, err := time.Parse(time.DateOnly, body.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("startDate must be YYYY-MM-DD: %w", err))
			return
		}
		in.StartDate = &d
	}
	p, err := s.profiles.SetProgram(r.Context(), s.userID(r), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": p})
}

func (s *Server) handleProgramClear(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.ClearProgram(r.Context(), s.userID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": p})
}
