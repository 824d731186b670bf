package milkapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vasamilk/admin-console/models"
)

// DeviceTypeWeb identifies the admin console to the backend.
const DeviceTypeWeb = 3

var (
	ErrMissingToken    = errors.New("milk-api: login response has no token")
	ErrMissingResetKey = errors.New("milk-api: response has no reset key")
)

type Credentials struct {
	UserName string
	Password string
	AuthCode string
}

// Flag decodes the backend's booleans, which arrive as true, 1 or "1".
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	switch strings.ToLower(s) {
	case "", "null", "0", "false":
		*f = false
		return nil
	case "1", "true":
		*f = true
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid flag %s", b)
	}
	*f = n != 0
	return nil
}

type loginResponse struct {
	Token        string      `json:"token"`
	UserID       models.ID   `json:"user_id"`
	UserName     string      `json:"user_name"`
	UserType     models.Role `json:"user_type"`
	IsDaily      Flag        `json:"is_daily"`
	IsOccasional Flag        `json:"is_occasional"`
}

// Login authenticates and returns the session to persist. A response without a
// token yields ErrMissingToken even when status is success.
func (c *Client) Login(ctx context.Context, cr Credentials) (models.Session, error) {
	form := NewForm().
		Set("user_name", cr.UserName).
		Set("password", cr.Password).
		Set("auth_code", cr.AuthCode).
		SetInt("device_type", DeviceTypeWeb)

	env, err := c.Post(ctx, PathLogin, nil, form)
	if err != nil {
		return models.Session{}, err
	}

	var lr loginResponse
	if err := env.Decode(&lr); err != nil {
		return models.Session{}, fmt.Errorf("decode login: %w", err)
	}
	if lr.Token == "" {
		if apiErr := env.Err(); apiErr != nil {
			return models.Session{}, apiErr
		}
		return models.Session{}, ErrMissingToken
	}

	return models.Session{
		Token:        lr.Token,
		UserID:       lr.UserID,
		UserName:     lr.UserName,
		UserType:     lr.UserType,
		IsDaily:      bool(lr.IsDaily),
		IsOccasional: bool(lr.IsOccasional),
	}, nil
}

// Logout invalidates token on the backend.
func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.Call(ctx, token, PathLogout, nil)
	return err
}

// ResetStep is a successful reset-flow answer: the rotated key and the message
// to show.
type ResetStep struct {
	ResetKey string
	Msg      string
}

func (c *Client) resetStep(ctx context.Context, path string, form *Form) (ResetStep, error) {
	env, err := c.Post(ctx, path, nil, form)
	if err != nil {
		return ResetStep{}, err
	}
	if err := env.Err(); err != nil {
		return ResetStep{}, err
	}
	var body struct {
		ResetKey string `json:"reset_key"`
	}
	if err := env.Decode(&body); err != nil {
		return ResetStep{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if body.ResetKey == "" {
		return ResetStep{}, ErrMissingResetKey
	}
	return ResetStep{ResetKey: body.ResetKey, Msg: env.Msg}, nil
}

// ForgotPassword asks the backend to send an OTP to identifier (email or phone).
func (c *Client) ForgotPassword(ctx context.Context, identifier string) (ResetStep, error) {
	return c.resetStep(ctx, PathForgotPassword, NewForm().Set("email", identifier))
}

func (c *Client) VerifyOTP(ctx context.Context, resetKey, otp string) (ResetStep, error) {
	return c.resetStep(ctx, PathVerifyOTP, NewForm().Set("otp", otp).Set("reset_key", resetKey))
}

func (c *Client) ResendOTP(ctx context.Context, resetKey string) (ResetStep, error) {
	return c.resetStep(ctx, PathResendOTP, NewForm().Set("reset_key", resetKey))
}

// ResetPassword sets the new password and returns the backend message.
func (c *Client) ResetPassword(ctx context.Context, resetKey, newPassword string) (string, error) {
	env, err := c.Post(ctx, PathResetPassword, nil, NewForm().
		Set("reset_key", resetKey).
		Set("new_password", newPassword))
	if err != nil {
		return "", err
	}
	if err := env.Err(); err != nil {
		return "", err
	}
	return env.Msg, nil
}

// ViewUser returns the user record, including today_slot_data for customers.
func (c *Client) ViewUser(ctx context.Context, token, userID string) (json.RawMessage, error) {
	env, err := c.Call(ctx, token, PathViewUser, NewForm().Set("user_id", userID))
	if err != nil {
		return nil, err
	}
	if len(env.Data) == 0 {
		return nil, ErrNoData
	}
	return env.Data, nil
}
