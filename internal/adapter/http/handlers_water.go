package adapthttp

import (
	"net/http"

	"vitals/internal/app"
)

func (s *Server) handleWaterToday(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	today := s.water.Today()
	total, err := s.water.GetTodayTotal(r.Context(), today)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"today": today, "totalLiters": total})
}

func (s *Server) handleWaterEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var body struct {
		DeltaLiters float64 `json:"deltaLiters"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := s.water.RecordEvent(r.Context(), body.DeltaLiters)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id})
}

func (s *Server) handleWaterRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	limit := intQuery(r, "limit", app.DefaultWaterLimit)
	items, err := s.water.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleWaterUndoLast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	undone, id, err := s.water.UndoLast(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !undone {
		writeJSON(w, http.StatusOK, map[string]any{"undone": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"undone": true, "id": id})
}
