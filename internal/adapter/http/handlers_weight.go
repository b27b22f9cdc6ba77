package adapthttp

import (
	"net/http"

	"vitals/internal/app"
	"vitals/internal/domain"
)

func (s *Server) handleWeightToday(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		today := s.weight.Today()
		entry, err := s.weight.GetTodayWeight(ctx, today)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"today": today, "entry": entry})

	case http.MethodPut:
		var body struct {
			Value float64     `json:"value"`
			Unit  domain.Unit `json:"unit"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, r, err)
			return
		}
		entry, today, err := s.weight.RecordWeight(ctx, body.Value, body.Unit)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"today": today, "entry": entry})

	default:
		methodNotAllowed(w, "GET, PUT")
	}
}

func (s *Server) handleWeightRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	limit := intQuery(r, "limit", app.DefaultWeightLimit)
	items, err := s.weight.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
