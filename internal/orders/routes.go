package orders

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vasamilk/admin-console/internal/guard"
)

// SetupRoutes mounts the order API. Like the order screens, it is for the
// owner only.
func SetupRoutes(h *Handler, g *guard.Enforcer) http.Handler {
	r := chi.NewRouter()
	r.Use(g.JSON().Require(guard.HomePrivateRoute, guard.AdminRoute))

	r.Get("/active-slot", h.ActiveSlot)
	r.Get("/customers", h.Customers)
	r.Get("/customers/{id}", h.Customer)
	r.Post("/quote", h.Quote)
	r.Post("/", h.Place)

	return r
}
