package auth

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"unicode/utf8"

	"github.com/vasamilk/admin-console/internal/milkapi"
	"github.com/vasamilk/admin-console/models"
)

// Backend is the slice of the milk-api client the auth handlers use.
type Backend interface {
	Login(ctx context.Context, cr milkapi.Credentials) (models.Session, error)
	Logout(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, identifier string) (milkapi.ResetStep, error)
	VerifyOTP(ctx context.Context, resetKey, otp string) (milkapi.ResetStep, error)
	ResendOTP(ctx context.Context, resetKey string) (milkapi.ResetStep, error)
	ResetPassword(ctx context.Context, resetKey, newPassword string) (string, error)
}

var (
	userNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern    = regexp.MustCompile(`^\+?\d{10,14}$`)
	otpPattern      = regexp.MustCompile(`^\d{6}$`)

	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	digitPattern   = regexp.MustCompile(`[0-9]`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// AuthCode is the login proof the backend expects: hex sha1 of salt+user_name.
func AuthCode(salt, userName string) string {
	sum := sha1.Sum([]byte(salt + userName))
	return hex.EncodeToString(sum[:])
}

type LoginRequest struct {
	UserName string
	Password string
}

func (l LoginRequest) Validate() map[string]string {
	errs := map[string]string{}
	switch {
	case l.UserName == "":
		errs["user_name"] = "Username is required"
	case !userNamePattern.MatchString(l.UserName):
		errs["user_name"] = "Invalid username"
	}
	switch {
	case l.Password == "":
		errs["password"] = "Password is required"
	case utf8.RuneCountInString(l.Password) < 3:
		errs["password"] = "Password must be at least 3 characters"
	}
	return errs
}

// ValidateIdentifier checks a forgot-password email or phone number.
func ValidateIdentifier(id string) map[string]string {
	switch {
	case id == "":
		return map[string]string{"identifier": "Email or phone number is required"}
	case !emailPattern.MatchString(id) && !phonePattern.MatchString(id):
		return map[string]string{"identifier": "Enter a valid email or phone number"}
	}
	return map[string]string{}
}

func ValidateOTP(code string) map[string]string {
	if !otpPattern.MatchString(code) {
		return map[string]string{"otp": "Please enter all 6 digits"}
	}
	return map[string]string{}
}

type ResetRequest struct {
	Password        string
	ConfirmPassword string
}

func (r ResetRequest) Validate() map[string]string {
	errs := map[string]string{}
	switch {
	case r.Password == "":
		errs["password"] = "Password is required"
	case utf8.RuneCountInString(r.Password) < 8:
		errs["password"] = "Must be at least 8 characters"
	case !upperPattern.MatchString(r.Password):
		errs["password"] = "Must include at least one uppercase letter"
	case !lowerPattern.MatchString(r.Password):
		errs["password"] = "Must include at least one lowercase letter"
	case !digitPattern.MatchString(r.Password):
		errs["password"] = "Must include at least one number"
	case !specialPattern.MatchString(r.Password):
		errs["password"] = "Must include at least one special character"
	}
	switch {
	case r.ConfirmPassword == "":
		errs["confirm_password"] = "Please confirm your password"
	case r.ConfirmPassword != r.Password:
		errs["confirm_password"] = "Passwords must match"
	}
	return errs
}

// Me is what GET /auth/me exposes. The token never leaves the cookie.
type Me struct {
	UserID       models.ID   `json:"user_id"`
	UserName     string      `json:"user_name"`
	UserType     models.Role `json:"user_type"`
	Role         string      `json:"role"`
	IsDaily      bool        `json:"is_daily"`
	IsOccasional bool        `json:"is_occasional"`
	Home         string      `json:"home"`
}

// ResendStatus describes the OTP resend countdown.
type ResendStatus struct {
	CanResend bool   `json:"can_resend"`
	ResendIn  int    `json:"resend_in"`
	Countdown string `json:"countdown"`
}
