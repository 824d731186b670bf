package guard

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vasamilk/admin-console/internal/audit"
	"github.com/vasamilk/admin-console/internal/session"
)

// Enforcer applies guards to HTTP routes. Screen routes answer with a 302; API
// routes (see JSON) answer with a status code and a JSON body naming the redirect.
type Enforcer struct {
	sessions *session.Manager
	rec      audit.Recorder
	json     bool
}

func NewEnforcer(m *session.Manager, rec audit.Recorder) *Enforcer {
	if rec == nil {
		rec = audit.LogRecorder{}
	}
	return &Enforcer{sessions: m, rec: rec}
}

// JSON returns a copy of e for API routes.
func (e *Enforcer) JSON() *Enforcer {
	c := *e
	c.json = true
	return &c
}

// StateOf builds the guard input for r. The session comes from the request
// accessor; reset flow state is read from its cookies.
func (e *Enforcer) StateOf(r *http.Request) State {
	s := State{Session: session.FromContext(r.Context()).UserData()}
	if e.sessions != nil {
		_, s.HasResetKey = e.sessions.ResetKey(r)
		s.OTPVerified = e.sessions.OTPVerified(r)
	}
	return s
}

// Decide evaluates guards for r, degrading redirects that would bounce the
// browser straight back to the requested path into RenderNothing.
func (e *Enforcer) Decide(r *http.Request, guards ...Guard) (Decision, Guard) {
	st := e.StateOf(r)
	d, g := Chain(st, guards...)
	if d.Kind == Redirect && bounces(d.Location, r.URL.Path, st) {
		d = Decision{Kind: RenderNothing}
	}
	return d, g
}

// bounces reports whether following loc ends up back at path: either loc is
// path itself, or loc is the login page whose AuthRoute would send this user
// home to path again.
func bounces(loc, path string, st State) bool {
	if loc == path {
		return true
	}
	return loc == PathLogin && st.Session != nil && HomeFor(st.Session.UserType) == path
}

// Require returns middleware that lets a request through only when every guard
// allows it.
func (e *Enforcer) Require(guards ...Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d, g := e.Decide(r, guards...)
			if d.Kind == Allow {
				next.ServeHTTP(w, r)
				return
			}
			e.deny(w, r, d, g)
		})
	}
}

func (e *Enforcer) deny(w http.ResponseWriter, r *http.Request, d Decision, g Guard) {
	logger := zerolog.Ctx(r.Context())
	acc := session.FromContext(r.Context())

	logger.Info().
		Str("guard", g.Name).
		Str("decision", d.Kind.String()).
		Str("path", r.URL.Path).
		Str("location", d.Location).
		Msg("guard denied request")

	if d.Kind == Redirect {
		ev := audit.Event{
			Kind:   audit.KindGuardRedirect,
			Path:   r.URL.Path,
			Reason: g.Name + " -> " + d.Location,
		}
		if u := acc.UserData(); u != nil {
			ev.UserID = string(u.UserID)
			ev.Role = int(u.UserType)
		}
		e.rec.Record(r.Context(), ev)
	}

	if d.Kind == RenderNothing {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if !e.json {
		http.Redirect(w, r, d.Location, http.StatusFound)
		return
	}

	status := http.StatusForbidden
	msg := "You do not have access to this page."
	switch {
	case g.Name == FindResetKey.Name || g.Name == VerifyOTPSent.Name:
		msg = "Your password reset session has expired. Please start again."
	case !acc.Authenticated():
		status = http.StatusUnauthorized
		msg = "Please log in to continue."
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":   "error",
		"msg":      msg,
		"redirect": d.Location,
	}); err != nil {
		logger.Error().Err(err).Msg("failed to write guard response")
	}
}
