package auth

import (
	"github.com/vasamilk/admin-console/internal/audit"
	"github.com/vasamilk/admin-console/internal/otp"
	"github.com/vasamilk/admin-console/internal/session"
)

// Deps wires the auth handlers.
type Deps struct {
	API      Backend
	Sessions *session.Manager
	Cooldown *otp.Cooldown
	Audit    audit.Recorder
	// Salt prefixes the user name in the login auth code.
	Salt string
}

type Handler struct {
	api      Backend
	sessions *session.Manager
	cooldown *otp.Cooldown
	audit    audit.Recorder
	salt     string
}

func NewHandler(d Deps) *Handler {
	rec := d.Audit
	if rec == nil {
		rec = audit.LogRecorder{}
	}
	return &Handler{
		api:      d.API,
		sessions: d.Sessions,
		cooldown: d.Cooldown,
		audit:    rec,
		salt:     d.Salt,
	}
}
