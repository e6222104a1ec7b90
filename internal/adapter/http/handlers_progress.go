package adapthttp

import "net/http"

func (s *Server) handleProgressToday(w http.ResponseWriter, r *http.Request) {
	out, err := s.progress.Today(r.Context(), s.userID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleProgressWeek(w http.ResponseWriter, r *http.Request) {
	out, err := s.progress.Week(r.Context(), s.userID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleProgressProjection(w http.ResponseWriter, r *http.Request) {
	out, err := s.progress.Projection(r.Context(), s.userID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
