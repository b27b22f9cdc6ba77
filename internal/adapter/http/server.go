// Package adapthttp serves the JSON API and the web UI.
package adapthttp

import (
	"net/http"

	"vitals/internal/app"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	weight *app.WeightService
	water  *app.WaterService
	charts *app.ChartsService
	webDir string
}

// New creates a Server wired to the given application services.
func New(ws *app.WeightService, wa *app.WaterService, cs *app.ChartsService, webDir string) *Server {
	return &Server{weight: ws, water: wa, charts: cs, webDir: webDir}
}

type route struct {
	pattern string
	handler http.HandlerFunc
}

// apiRoutes lists the JSON endpoints, relative to /api.
func (s *Server) apiRoutes() []route {
	return []route{
		{"/health", s.handleHealth},
		{"/weight/today", s.handleWeightToday},
		{"/weight/recent", s.handleWeightRecent},
		{"/water/today", s.handleWaterToday},
		{"/water/event", s.handleWaterEvent},
		{"/water/recent", s.handleWaterRecent},
		{"/water/undo-last", s.handleWaterUndoLast},
		{"/charts/daily", s.handleChartsDaily},
	}
}

// Handler returns the root http.Handler: API under /api, the web UI
// everywhere else, wrapped in request-id, access-log and no-cache middleware.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	for _, r := range s.apiRoutes() {
		api.HandleFunc(r.pattern, r.handler)
	}

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("/", spaFromDisk(s.webDir))

	// Outermost first.
	return chain(root, s.requestIDMiddleware, s.loggingMiddleware, withNoCache)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// chain wraps h so that mws run in the order given.
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
