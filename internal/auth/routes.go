package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vasamilk/admin-console/internal/guard"
)

// SetupRoutes mounts the auth API. Pages of the reset flow are guarded the same
// way here as in the route table, so the API cannot skip a step either.
func SetupRoutes(h *Handler, g *guard.Enforcer) http.Handler {
	r := chi.NewRouter()
	api := g.JSON()

	anonymous := api.Require(guard.AuthRoute)
	withResetKey := api.Require(guard.AuthRoute, guard.FindResetKey)
	verified := api.Require(guard.AuthRoute, guard.FindResetKey, guard.VerifyOTPSent)

	r.With(anonymous).Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/me", h.Me)

	r.With(anonymous).Post("/forgot-password", h.ForgotPassword)
	r.With(withResetKey).Post("/verify-otp", h.VerifyOTP)
	r.With(withResetKey).Post("/resend-otp", h.ResendOTP)
	r.With(withResetKey).Get("/otp-status", h.OTPStatus)
	r.With(verified).Post("/reset-password", h.ResetPassword)

	return r
}
