package session

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vasamilk/admin-console/internal/audit"
	"github.com/vasamilk/admin-console/internal/cookies"
	"github.com/vasamilk/admin-console/internal/utils"
	"github.com/vasamilk/admin-console/models"
)

// Accessor answers "who is logged in" for one request. It is computed once by
// Middleware and never touches the network.
type Accessor struct {
	read Read
}

func NewAccessor(read Read) Accessor {
	return Accessor{read: read}
}

// State reports whether the session cookie was absent, corrupt or valid.
func (a Accessor) State() cookies.State { return a.read.State }

func (a Accessor) Authenticated() bool {
	return a.read.State == cookies.Valid && a.read.Session != nil
}

func (a Accessor) Token() (string, bool) {
	if !a.Authenticated() {
		return "", false
	}
	return a.read.Session.Token, true
}

// UserData returns a copy of the session, or nil when unauthenticated.
func (a Accessor) UserData() *models.Session {
	if !a.Authenticated() {
		return nil
	}
	s := *a.read.Session
	return &s
}

func (a Accessor) CurrentRole() (models.Role, bool) {
	if !a.Authenticated() {
		return 0, false
	}
	return a.read.Session.UserType, true
}

func WithAccessor(ctx context.Context, a Accessor) context.Context {
	return context.WithValue(ctx, utils.ContextAccessorKey, a)
}

// FromContext never fails: without Middleware upstream the request is simply
// unauthenticated.
func FromContext(ctx context.Context) Accessor {
	a, ok := ctx.Value(utils.ContextAccessorKey).(Accessor)
	if !ok {
		return Accessor{read: Read{State: cookies.Absent}}
	}
	return a
}

// Middleware loads the session once per request and exposes it through
// FromContext. A corrupt cookie is cleared and audited, then treated as logged out.
func Middleware(m *Manager, rec audit.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			read := m.Load(r)
			if read.State == cookies.Corrupt {
				zerolog.Ctx(r.Context()).Warn().Err(read.Reason).Msg("discarding corrupt session cookie")
				m.Destroy(w)
				reason := ""
				if read.Reason != nil {
					reason = read.Reason.Error()
				}
				rec.Record(r.Context(), audit.Event{
					Kind:   audit.KindSessionCorrupt,
					Path:   r.URL.Path,
					Reason: reason,
				})
			}

			ctx := WithAccessor(r.Context(), NewAccessor(read))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
