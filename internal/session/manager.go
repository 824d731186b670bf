package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vasamilk/admin-console/internal/cookies"
	"github.com/vasamilk/admin-console/internal/utils"
	"github.com/vasamilk/admin-console/models"
)

// Cookie names used by the console.
const (
	UserTokenCookie   = "user_token"
	ResetKeyCookie    = "reset_key"
	OTPVerifiedCookie = "otp_verified"
	ResetFlowCookie   = "reset_flow"
)

const (
	SessionLifetime  = 365 * 24 * time.Hour
	ResetKeyLifetime = 5 * time.Minute
)

var (
	ErrNotJSON           = errors.New("session payload is not JSON")
	ErrIncompleteSession = errors.New("session is missing required fields")
)

// Read is the tagged outcome of loading the user_token cookie.
type Read struct {
	State   cookies.State
	Session *models.Session
	Reason  error
}

// Manager owns every console cookie: the session itself and the reset-flow state.
type Manager struct {
	store *cookies.Store
	now   func() time.Time
}

func NewManager(store *cookies.Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// Load decrypts user_token. Anything short of a complete session is Corrupt.
func (m *Manager) Load(r *http.Request) Read {
	res := m.store.GetDecrypted(r, UserTokenCookie)
	switch res.State {
	case cookies.Absent:
		return Read{State: cookies.Absent}
	case cookies.Corrupt:
		return Read{State: cookies.Corrupt, Reason: res.Reason}
	}

	if !res.JSON {
		return Read{State: cookies.Corrupt, Reason: ErrNotJSON}
	}
	var s models.Session
	if err := res.Decode(&s); err != nil {
		return Read{State: cookies.Corrupt, Reason: fmt.Errorf("decode session: %w", err)}
	}
	if !s.Complete() {
		return Read{State: cookies.Corrupt, Reason: ErrIncompleteSession}
	}
	return Read{State: cookies.Valid, Session: &s}
}

// Save writes the session cookie for a freshly logged in user.
func (m *Manager) Save(w http.ResponseWriter, r *http.Request, s models.Session) {
	m.store.SetEncrypted(w, r, UserTokenCookie, s, cookies.Options{Expires: m.now().Add(SessionLifetime)})
}

// Destroy removes the session cookie. Safe to call when there is none.
func (m *Manager) Destroy(w http.ResponseWriter) {
	m.store.Clear(w, UserTokenCookie)
}

// SetResetKey stores (or rotates) the backend-issued reset key for five minutes.
func (m *Manager) SetResetKey(w http.ResponseWriter, r *http.Request, key string) {
	m.store.SetEncrypted(w, r, ResetKeyCookie, key, cookies.Options{Expires: m.now().Add(ResetKeyLifetime)})
}

func (m *Manager) ResetKey(r *http.Request) (string, bool) {
	res := m.store.GetDecrypted(r, ResetKeyCookie)
	if !res.OK() || res.Raw == "" {
		return "", false
	}
	return res.Raw, true
}

func (m *Manager) ClearResetKey(w http.ResponseWriter) {
	m.store.Clear(w, ResetKeyCookie)
}

// MarkOTPVerified sets the browser-session scoped verification flag.
func (m *Manager) MarkOTPVerified(w http.ResponseWriter, r *http.Request) {
	m.store.SetEncrypted(w, r, OTPVerifiedCookie, "verified", cookies.Options{})
}

func (m *Manager) OTPVerified(r *http.Request) bool {
	res := m.store.GetDecrypted(r, OTPVerifiedCookie)
	return res.OK() && res.Raw == "verified"
}

func (m *Manager) ClearOTPVerified(w http.ResponseWriter) {
	m.store.Clear(w, OTPVerifiedCookie)
}

// EnsureFlowID returns the current reset flow id, starting a new flow when
// fresh is set or none exists. The id keys the OTP resend cooldown, which has to
// survive reset_key rotation.
func (m *Manager) EnsureFlowID(w http.ResponseWriter, r *http.Request, fresh bool) string {
	if !fresh {
		if id, ok := m.FlowID(r); ok {
			return id
		}
	}
	id := utils.GenerateUUID()
	m.store.SetEncrypted(w, r, ResetFlowCookie, id, cookies.Options{})
	return id
}

func (m *Manager) FlowID(r *http.Request) (string, bool) {
	res := m.store.GetDecrypted(r, ResetFlowCookie)
	if !res.OK() || res.Raw == "" {
		return "", false
	}
	return res.Raw, true
}

// ClearFlow drops every piece of reset-flow state.
func (m *Manager) ClearFlow(w http.ResponseWriter) {
	m.store.Clear(w, ResetKeyCookie)
	m.store.Clear(w, OTPVerifiedCookie)
	m.store.Clear(w, ResetFlowCookie)
}
