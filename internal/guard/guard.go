package guard

import (
	"fmt"

	"github.com/vasamilk/admin-console/models"
)

// Console paths the guards redirect to.
const (
	PathLogin           = "/"
	PathForgotPassword  = "/forget-password"
	PathOTPVerification = "/otp-verfication"
	PathResetPassword   = "/reset-password"
	PathAdminHome       = "/user"
	PathDistributorHome = "/distributor"
	PathVendorHome      = "/user-dashboard"
)

type Kind int

const (
	Allow Kind = iota
	Redirect
	RenderNothing
)

func (k Kind) String() string {
	switch k {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	case RenderNothing:
		return "render_nothing"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Decision is the outcome of evaluating a guard. Location is set only for Redirect.
type Decision struct {
	Kind     Kind
	Location string
}

func allow() Decision { return Decision{Kind: Allow} }

func redirect(to string) Decision { return Decision{Kind: Redirect, Location: to} }

// State is everything a guard may look at. Session is nil when unauthenticated.
type State struct {
	Session     *models.Session
	HasResetKey bool
	OTPVerified bool
}

// Guard is a named, pure predicate over State.
type Guard struct {
	Name  string
	Check func(State) Decision
}

func (g Guard) Evaluate(s State) Decision {
	if g.Check == nil {
		return allow()
	}
	return g.Check(s)
}

var (
	AuthRoute        = Guard{Name: "AuthRoute", Check: authRoute}
	HomePrivateRoute = Guard{Name: "HomePrivateRoute", Check: homePrivateRoute}
	AdminRoute       = Guard{Name: "AdminRoute", Check: adminRoute}
	DistributorRoute = Guard{Name: "DistributorRoute", Check: distributorRoute}
	FindResetKey     = Guard{Name: "FindResetKey", Check: findResetKey}
	VerifyOTPSent    = Guard{Name: "VerifyOTPSent", Check: verifyOTPSent}
)

var registry = map[string]Guard{
	AuthRoute.Name:        AuthRoute,
	HomePrivateRoute.Name: HomePrivateRoute,
	AdminRoute.Name:       AdminRoute,
	DistributorRoute.Name: DistributorRoute,
	FindResetKey.Name:     FindResetKey,
	VerifyOTPSent.Name:    VerifyOTPSent,
}

// Lookup finds a guard by the name used in the route table.
func Lookup(name string) (Guard, bool) {
	g, ok := registry[name]
	return g, ok
}

// HomeFor is where a logged in user of role lands.
func HomeFor(role models.Role) string {
	switch role {
	case models.RoleOwner, models.RoleAdmin:
		return PathAdminHome
	case models.RoleDistributor:
		return PathDistributorHome
	case models.RoleVendor:
		return PathVendorHome
	default:
		return PathLogin
	}
}

// Login and forgot-password pages are for anonymous users only.
func authRoute(s State) Decision {
	if s.Session == nil {
		return allow()
	}
	return redirect(HomeFor(s.Session.UserType))
}

func homePrivateRoute(s State) Decision {
	if s.Session == nil {
		return redirect(PathLogin)
	}
	return allow()
}

func adminRoute(s State) Decision {
	if s.Session != nil && s.Session.UserType == models.RoleOwner {
		return allow()
	}
	return redirect(PathLogin)
}

func distributorRoute(s State) Decision {
	if s.Session != nil && s.Session.UserType == models.RoleDistributor {
		return allow()
	}
	return redirect(PathLogin)
}

func findResetKey(s State) Decision {
	if s.HasResetKey {
		return allow()
	}
	return redirect(PathForgotPassword)
}

func verifyOTPSent(s State) Decision {
	if s.OTPVerified {
		return allow()
	}
	return redirect(PathOTPVerification)
}

// Chain evaluates guards outermost first and returns the first decision that is
// not Allow, along with the guard that made it.
func Chain(s State, guards ...Guard) (Decision, Guard) {
	for _, g := range guards {
		if d := g.Evaluate(s); d.Kind != Allow {
			return d, g
		}
	}
	return allow(), Guard{}
}
