package guard_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasamilk/admin-console/internal/audit"
	"github.com/vasamilk/admin-console/internal/cookies"
	"github.com/vasamilk/admin-console/internal/guard"
	"github.com/vasamilk/admin-console/internal/session"
	"github.com/vasamilk/admin-console/models"
)

type fixture struct {
	sessions *session.Manager
	rec      *audit.MemoryRecorder
	enforcer *guard.Enforcer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	c, err := cookies.NewCipher("guard-secret", "guard-salt")
	require.NoError(t, err)
	m := session.NewManager(cookies.NewStore(c, false))
	rec := &audit.MemoryRecorder{}
	return fixture{sessions: m, rec: rec, enforcer: guard.NewEnforcer(m, rec)}
}

// serve runs path through session middleware and the guard chain. login, when
// set, is saved as the session cookie first.
func (f fixture) serve(t *testing.T, e *guard.Enforcer, path string, login *models.Session, guards ...guard.Guard) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if login != nil {
		w := httptest.NewRecorder()
		f.sessions.Save(w, req, *login)
		for _, c := range w.Result().Cookies() {
			req.AddCookie(c)
		}
	}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := session.Middleware(f.sessions, f.rec)(e.Require(guards...)(inner))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequireAllows(t *testing.T) {
	f := newFixture(t)
	rec := f.serve(t, f.enforcer, "/user", loggedIn(models.RoleOwner), guard.HomePrivateRoute, guard.AdminRoute)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, f.rec.Events())
}

func TestRequireRedirectsAnonymous(t *testing.T) {
	f := newFixture(t)
	rec := f.serve(t, f.enforcer, "/user", nil, guard.HomePrivateRoute, guard.AdminRoute)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	events := f.rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, audit.KindGuardRedirect, events[0].Kind)
	assert.Equal(t, "HomePrivateRoute -> /", events[0].Reason)
}

func TestRequireRecordsUserOnRedirect(t *testing.T) {
	f := newFixture(t)
	rec := f.serve(t, f.enforcer, "/distributor", loggedIn(models.RoleCustomer), guard.HomePrivateRoute, guard.DistributorRoute)

	assert.Equal(t, http.StatusFound, rec.Code)
	events := f.rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "1", events[0].UserID)
	assert.Equal(t, int(models.RoleCustomer), events[0].Role)
}

func TestRedirectToSelfRendersNothing(t *testing.T) {
	f := newFixture(t)
	// A customer on the login page is sent to "/" by AuthRoute, which is where it already is.
	rec := f.serve(t, f.enforcer, "/", loggedIn(models.RoleCustomer), guard.AuthRoute)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	assert.Empty(t, f.rec.Events())
}

func TestRedirectBackHomeRendersNothing(t *testing.T) {
	f := newFixture(t)
	// An admin (role 2) lands on /user but AdminRoute only admits owners; sending
	// them to "/" would bounce straight back here.
	rec := f.serve(t, f.enforcer, "/user", loggedIn(models.RoleAdmin), guard.HomePrivateRoute, guard.AdminRoute)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuthRouteRedirectsLoggedInOwner(t *testing.T) {
	f := newFixture(t)
	rec := f.serve(t, f.enforcer, "/forget-password", loggedIn(models.RoleOwner), guard.AuthRoute)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/user", rec.Header().Get("Location"))
}

func TestResetFlowCookiesFeedGuards(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/reset-password", nil)
	w := httptest.NewRecorder()
	f.sessions.SetResetKey(w, req, "rk")
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}

	st := f.enforcer.StateOf(req)
	assert.True(t, st.HasResetKey)
	assert.False(t, st.OTPVerified)
	assert.Nil(t, st.Session)

	d, _ := f.enforcer.Decide(req, guard.AuthRoute, guard.FindResetKey, guard.VerifyOTPSent)
	assert.Equal(t, guard.Decision{Kind: guard.Redirect, Location: "/otp-verfication"}, d)
}

func TestJSONModeAnonymous(t *testing.T) {
	f := newFixture(t)
	rec := f.serve(t, f.enforcer.JSON(), "/orders/active-slot", nil, guard.HomePrivateRoute, guard.AdminRoute)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "/", body["redirect"])
}

func TestJSONModeForbidden(t *testing.T) {
	f := newFixture(t)
	rec := f.serve(t, f.enforcer.JSON(), "/orders/active-slot", loggedIn(models.RoleDistributor), guard.HomePrivateRoute, guard.AdminRoute)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestJSONModeResetExpired(t *testing.T) {
	f := newFixture(t)
	rec := f.serve(t, f.enforcer.JSON(), "/auth/verify-otp", nil, guard.FindResetKey)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/forget-password", body["redirect"])
}
