package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vasamilk/admin-console/internal/guard"
	"github.com/vasamilk/admin-console/models"
)

func loggedIn(role models.Role) *models.Session {
	return &models.Session{Token: "tok", UserID: "1", UserName: "someone", UserType: role}
}

func TestGuardTable(t *testing.T) {
	allow := guard.Decision{Kind: guard.Allow}
	to := func(loc string) guard.Decision { return guard.Decision{Kind: guard.Redirect, Location: loc} }

	tests := []struct {
		name  string
		guard guard.Guard
		state guard.State
		want  guard.Decision
	}{
		{"auth anonymous", guard.AuthRoute, guard.State{}, allow},
		{"auth owner", guard.AuthRoute, guard.State{Session: loggedIn(models.RoleOwner)}, to("/user")},
		{"auth admin", guard.AuthRoute, guard.State{Session: loggedIn(models.RoleAdmin)}, to("/user")},
		{"auth vendor", guard.AuthRoute, guard.State{Session: loggedIn(models.RoleVendor)}, to("/user-dashboard")},
		{"auth distributor", guard.AuthRoute, guard.State{Session: loggedIn(models.RoleDistributor)}, to("/distributor")},
		{"auth customer", guard.AuthRoute, guard.State{Session: loggedIn(models.RoleCustomer)}, to("/")},

		{"home anonymous", guard.HomePrivateRoute, guard.State{}, to("/")},
		{"home customer", guard.HomePrivateRoute, guard.State{Session: loggedIn(models.RoleCustomer)}, allow},

		{"admin anonymous", guard.AdminRoute, guard.State{}, to("/")},
		{"admin owner", guard.AdminRoute, guard.State{Session: loggedIn(models.RoleOwner)}, allow},
		{"admin admin", guard.AdminRoute, guard.State{Session: loggedIn(models.RoleAdmin)}, to("/")},
		{"admin customer", guard.AdminRoute, guard.State{Session: loggedIn(models.RoleCustomer)}, to("/")},

		{"distributor anonymous", guard.DistributorRoute, guard.State{}, to("/")},
		{"distributor distributor", guard.DistributorRoute, guard.State{Session: loggedIn(models.RoleDistributor)}, allow},
		{"distributor owner", guard.DistributorRoute, guard.State{Session: loggedIn(models.RoleOwner)}, to("/")},

		{"reset key missing", guard.FindResetKey, guard.State{}, to("/forget-password")},
		{"reset key present", guard.FindResetKey, guard.State{HasResetKey: true}, allow},
		{"otp not verified", guard.VerifyOTPSent, guard.State{HasResetKey: true}, to("/otp-verfication")},
		{"otp verified", guard.VerifyOTPSent, guard.State{OTPVerified: true}, allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.guard.Evaluate(tt.state))
		})
	}
}

// Every main guard yields exactly allow or redirect for every role, including
// no session at all.
func TestGuardTotality(t *testing.T) {
	sessions := []*models.Session{nil}
	for role := models.RoleOwner; role <= models.RoleCustomer; role++ {
		sessions = append(sessions, loggedIn(role))
	}

	for _, g := range []guard.Guard{guard.AdminRoute, guard.DistributorRoute, guard.HomePrivateRoute, guard.AuthRoute} {
		for _, s := range sessions {
			var d guard.Decision
			assert.NotPanics(t, func() { d = g.Evaluate(guard.State{Session: s}) })
			switch d.Kind {
			case guard.Allow:
				assert.Empty(t, d.Location)
			case guard.Redirect:
				assert.NotEmpty(t, d.Location)
			default:
				t.Errorf("%s produced %s", g.Name, d.Kind)
			}
		}
	}
}

func TestResetFlowOrdering(t *testing.T) {
	resetChain := []guard.Guard{guard.AuthRoute, guard.FindResetKey, guard.VerifyOTPSent}
	otpChain := []guard.Guard{guard.AuthRoute, guard.FindResetKey}

	// Reset-password without OTP verification goes back to the OTP screen.
	d, g := guard.Chain(guard.State{HasResetKey: true}, resetChain...)
	assert.Equal(t, guard.Redirect, d.Kind)
	assert.Equal(t, guard.PathOTPVerification, d.Location)
	assert.Equal(t, "VerifyOTPSent", g.Name)

	// OTP screen without a reset key goes back to forgot-password.
	d, g = guard.Chain(guard.State{}, otpChain...)
	assert.Equal(t, guard.PathForgotPassword, d.Location)
	assert.Equal(t, "FindResetKey", g.Name)

	// Reset key alone is enough for the OTP screen.
	d, _ = guard.Chain(guard.State{HasResetKey: true}, otpChain...)
	assert.Equal(t, guard.Allow, d.Kind)

	d, _ = guard.Chain(guard.State{HasResetKey: true, OTPVerified: true}, resetChain...)
	assert.Equal(t, guard.Allow, d.Kind)
}

func TestHomeFor(t *testing.T) {
	assert.Equal(t, "/user", guard.HomeFor(models.RoleOwner))
	assert.Equal(t, "/user", guard.HomeFor(models.RoleAdmin))
	assert.Equal(t, "/user-dashboard", guard.HomeFor(models.RoleVendor))
	assert.Equal(t, "/distributor", guard.HomeFor(models.RoleDistributor))
	assert.Equal(t, "/", guard.HomeFor(models.RoleCustomer))
	assert.Equal(t, "/", guard.HomeFor(models.Role(42)))
}

func TestLookup(t *testing.T) {
	g, ok := guard.Lookup("AdminRoute")
	assert.True(t, ok)
	assert.Equal(t, "AdminRoute", g.Name)

	_, ok = guard.Lookup("SuperRoute")
	assert.False(t, ok)
}

func TestZeroGuardAllows(t *testing.T) {
	assert.Equal(t, guard.Allow, guard.Guard{}.Evaluate(guard.State{}).Kind)
}
