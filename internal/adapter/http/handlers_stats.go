package adapthttp

import "net/http"

func (s *Server) handleStatsDaily(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", 30)
	points, err := s.stats.Daily(r.Context(), s.userID(r), days)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": days, "points": points})
}

func (s *Server) handleStatsTriggers(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", 30)
	items, err := s.stats.Triggers(r.Context(), s.userID(r), days)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": days, "items": items})
}
