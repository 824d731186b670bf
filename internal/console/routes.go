package console

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vasamilk/admin-console/internal/guard"
)

// SetupRoutes mounts the list, report, action and drop-down passthroughs.
func SetupRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/lists/{name}", h.guarded(lists, h.List))
	r.Get("/reports/{name}", h.guarded(reports, h.Report))
	r.Post("/actions/{name}", h.guarded(actions, h.Action))
	r.With(h.enforcer.Require(guard.HomePrivateRoute)).Get("/dropdowns/{name}", h.Dropdown)

	return r
}

// RegisterScreens adds one GET route per screen, each behind its guard chain.
// Denied requests get the browser redirect, not a JSON error.
func RegisterScreens(r chi.Router, h *Handler, routes []guard.Route, g *guard.Enforcer) {
	for _, rt := range routes {
		r.With(g.Require(rt.Guards...)).Get(rt.Path, h.Screen(rt))
	}
}
