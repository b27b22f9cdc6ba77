package adapthttp

import (
	"net/http"

	"vitals/internal/app"
	"vitals/internal/domain"
)

func (s *Server) handleChartsDaily(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	days := intQuery(r, "days", app.DefaultChartDays)
	if days > app.MaxChartDays {
		days = app.MaxChartDays
	}
	unit := domain.Unit(r.URL.Query().Get("unit"))
	if unit == "" {
		unit = domain.Pounds
	}

	points, err := s.charts.GetDaily(r.Context(), days, unit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"days":  days,
		"unit":  unit,
		"today": s.charts.Today(),
		"items": points,
	})
}
