package auth

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/vasamilk/admin-console/internal/audit"
	"github.com/vasamilk/admin-console/internal/guard"
	"github.com/vasamilk/admin-console/internal/milkapi"
	"github.com/vasamilk/admin-console/internal/otp"
	"github.com/vasamilk/admin-console/internal/session"
	"github.com/vasamilk/admin-console/internal/utils"
	"github.com/vasamilk/admin-console/models"
)

const (
	msgLoginRejected = "Invalid credentials or missing token."
	msgLoginFailed   = "Login failed. Please try again."
	msgOTPFailed     = "Failed to send OTP. Please try again."
	msgResendFailed  = "Failed to resend OTP."
	msgGeneric       = "Something went wrong. Please try again."
	msgResetFailed   = "Failed to reset password. Please try again."
	msgResetExpired  = "Reset session expired. Please request a new OTP."
	msgResetMissing  = "Reset key is missing or expired."
)

func readFields(w http.ResponseWriter, r *http.Request) (map[string]string, bool) {
	f, err := utils.Fields(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	return f, true
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	f, ok := readFields(w, r)
	if !ok {
		return
	}
	req := LoginRequest{UserName: utils.Trimmed(f, "user_name"), Password: f["password"]}
	if errs := req.Validate(); len(errs) > 0 {
		utils.ValidationFailed(w, errs)
		return
	}

	s, err := h.api.Login(r.Context(), milkapi.Credentials{
		UserName: req.UserName,
		Password: req.Password,
		AuthCode: AuthCode(h.salt, req.UserName),
	})
	if err == nil && !s.Complete() {
		err = milkapi.ErrMissingToken
	}
	if err != nil {
		_, rejected := milkapi.IsAPIError(err)
		if rejected || errors.Is(err, milkapi.ErrMissingToken) {
			h.audit.Record(r.Context(), audit.Event{Kind: audit.KindLoginFailed, Path: r.URL.Path, Reason: err.Error(), Tags: []string{req.UserName}})
			utils.Error(w, http.StatusUnauthorized, msgLoginRejected)
			return
		}
		utils.BackendError(w, r, err, msgLoginFailed)
		return
	}

	h.sessions.Save(w, r, s)
	h.audit.Record(r.Context(), audit.Event{
		Kind:   audit.KindLogin,
		UserID: string(s.UserID),
		Role:   int(s.UserType),
		Path:   r.URL.Path,
	})
	zerolog.Ctx(r.Context()).Info().Str("user_id", string(s.UserID)).Stringer("role", s.UserType).Msg("user logged in")

	utils.WriteJSON(w, http.StatusOK, utils.Toast{
		Status:   "success",
		Msg:      "Logged in successfully!",
		Redirect: guard.HomeFor(s.UserType),
		Data:     meOf(s.UserID, s.UserName, s.UserType, s.IsDaily, s.IsOccasional),
	})
}

// Logout tells the backend, then drops the cookie whatever it said. Calling it
// without a session is fine.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	acc := session.FromContext(r.Context())
	if token, ok := acc.Token(); ok {
		if err := h.api.Logout(r.Context(), token); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("backend logout failed")
		}
		u := acc.UserData()
		h.audit.Record(r.Context(), audit.Event{
			Kind:   audit.KindLogout,
			UserID: string(u.UserID),
			Role:   int(u.UserType),
			Path:   r.URL.Path,
		})
	}
	h.sessions.Destroy(w)
	utils.WriteJSON(w, http.StatusOK, utils.Toast{Status: "success", Msg: "Logged out", Redirect: guard.PathLogin})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u := session.FromContext(r.Context()).UserData()
	if u == nil {
		utils.Error(w, http.StatusUnauthorized, "Not logged in")
		return
	}
	utils.WriteJSON(w, http.StatusOK, meOf(u.UserID, u.UserName, u.UserType, u.IsDaily, u.IsOccasional))
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	f, ok := readFields(w, r)
	if !ok {
		return
	}
	id := utils.Trimmed(f, "identifier")
	if id == "" {
		id = utils.Trimmed(f, "email")
	}
	if errs := ValidateIdentifier(id); len(errs) > 0 {
		utils.ValidationFailed(w, errs)
		return
	}

	step, err := h.api.ForgotPassword(r.Context(), id)
	if err != nil {
		utils.BackendError(w, r, err, msgOTPFailed)
		return
	}

	h.sessions.SetResetKey(w, r, step.ResetKey)
	h.sessions.ClearOTPVerified(w)
	flow := h.sessions.EnsureFlowID(w, r, true)
	status := h.startCooldown(r, flow)

	utils.WriteJSON(w, http.StatusOK, utils.Toast{
		Status:   "success",
		Msg:      "OTP sent!",
		Redirect: guard.PathOTPVerification,
		Data:     status,
	})
}

func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	f, ok := readFields(w, r)
	if !ok {
		return
	}
	resetKey, ok := h.sessions.ResetKey(r)
	if !ok {
		utils.WriteJSON(w, http.StatusForbidden, utils.Toast{Status: "error", Msg: msgResetMissing, Redirect: guard.PathForgotPassword})
		return
	}
	code := utils.Trimmed(f, "otp")
	if errs := ValidateOTP(code); len(errs) > 0 {
		utils.ValidationFailed(w, errs)
		return
	}

	step, err := h.api.VerifyOTP(r.Context(), resetKey, code)
	if err != nil {
		utils.BackendError(w, r, err, msgGeneric)
		return
	}

	h.sessions.SetResetKey(w, r, step.ResetKey)
	h.sessions.MarkOTPVerified(w, r)
	h.audit.Record(r.Context(), audit.Event{Kind: audit.KindOTPVerified, Path: r.URL.Path})

	utils.WriteJSON(w, http.StatusOK, utils.Toast{Status: "success", Msg: step.Msg, Redirect: guard.PathResetPassword})
}

func (h *Handler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	flow := h.sessions.EnsureFlowID(w, r, false)
	left, err := h.cooldown.Remaining(r.Context(), flow)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to read resend cooldown")
		utils.Error(w, http.StatusInternalServerError, msgGeneric)
		return
	}
	if left > 0 {
		st := statusOf(left)
		w.Header().Set("Retry-After", strconv.Itoa(st.ResendIn))
		utils.WriteJSON(w, http.StatusTooManyRequests, utils.Toast{
			Status: "error",
			Msg:    "Please wait " + st.Countdown + " before requesting a new OTP.",
			Data:   st,
		})
		return
	}

	resetKey, ok := h.sessions.ResetKey(r)
	if !ok {
		utils.WriteJSON(w, http.StatusForbidden, utils.Toast{Status: "error", Msg: msgResetMissing, Redirect: guard.PathForgotPassword})
		return
	}

	step, err := h.api.ResendOTP(r.Context(), resetKey)
	if err != nil {
		if _, rejected := milkapi.IsAPIError(err); rejected {
			utils.BackendError(w, r, err, msgResendFailed)
			return
		}
		utils.BackendError(w, r, err, msgGeneric)
		return
	}

	h.sessions.SetResetKey(w, r, step.ResetKey)
	status := h.startCooldown(r, flow)
	utils.WriteJSON(w, http.StatusOK, utils.Toast{Status: "success", Msg: "OTP resent successfully", Data: status})
}

func (h *Handler) OTPStatus(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.sessions.FlowID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusOK, statusOf(0))
		return
	}
	left, err := h.cooldown.Remaining(r.Context(), flow)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to read resend cooldown")
		utils.Error(w, http.StatusInternalServerError, msgGeneric)
		return
	}
	utils.WriteJSON(w, http.StatusOK, statusOf(left))
}

// ResetPassword clears the OTP verification on every submitted attempt, so a
// failed reset sends the user back through OTP verification.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	f, ok := readFields(w, r)
	if !ok {
		return
	}
	req := ResetRequest{Password: f["password"], ConfirmPassword: f["confirm_password"]}
	if errs := req.Validate(); len(errs) > 0 {
		utils.ValidationFailed(w, errs)
		return
	}

	h.sessions.ClearOTPVerified(w)
	resetKey, ok := h.sessions.ResetKey(r)
	if !ok {
		utils.WriteJSON(w, http.StatusForbidden, utils.Toast{Status: "error", Msg: msgResetExpired, Redirect: guard.PathForgotPassword})
		return
	}

	msg, err := h.api.ResetPassword(r.Context(), resetKey, req.Password)
	if err != nil {
		utils.BackendError(w, r, err, msgResetFailed)
		return
	}

	if flow, ok := h.sessions.FlowID(r); ok {
		if err := h.cooldown.Reset(r.Context(), flow); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("failed to clear resend cooldown")
		}
	}
	h.sessions.ClearFlow(w)
	h.audit.Record(r.Context(), audit.Event{Kind: audit.KindPasswordReset, Path: r.URL.Path})

	if msg == "" {
		msg = "Password reset successful!"
	}
	utils.WriteJSON(w, http.StatusOK, utils.Toast{Status: "success", Msg: msg, Redirect: guard.PathLogin})
}

// startCooldown starts the resend countdown. A store failure is logged and
// leaves resend enabled.
func (h *Handler) startCooldown(r *http.Request, flow string) ResendStatus {
	if _, err := h.cooldown.Start(r.Context(), flow); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to start resend cooldown")
		return statusOf(0)
	}
	return statusOf(h.cooldown.Period())
}

func meOf(id models.ID, name string, role models.Role, daily, occasional bool) Me {
	return Me{
		UserID:       id,
		UserName:     name,
		UserType:     role,
		Role:         role.String(),
		IsDaily:      daily,
		IsOccasional: occasional,
		Home:         guard.HomeFor(role),
	}
}

func statusOf(left time.Duration) ResendStatus {
	return ResendStatus{
		CanResend: left <= 0,
		ResendIn:  otp.Seconds(left),
		Countdown: otp.Countdown(left),
	}
}
