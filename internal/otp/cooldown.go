package otp

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ResendCooldown is how long the console disables "resend OTP" after an OTP
// was sent.
const ResendCooldown = 120 * time.Second

var ErrEmptyFlow = errors.New("otp: empty flow id")

// Store keeps one cooldown deadline per reset flow. ttl bounds how long the
// entry is worth keeping; expiry is decided from the deadline itself.
type Store interface {
	SetDeadline(ctx context.Context, flowID string, deadline time.Time, ttl time.Duration) error
	Deadline(ctx context.Context, flowID string) (time.Time, bool, error)
	Delete(ctx context.Context, flowID string) error
}

// Cooldown tracks the resend countdown of each reset flow.
type Cooldown struct {
	store  Store
	period time.Duration
	now    func() time.Time
}

type Option func(*Cooldown)

// WithClock replaces time.Now, for simulated time.
func WithClock(now func() time.Time) Option {
	return func(c *Cooldown) { c.now = now }
}

func WithPeriod(d time.Duration) Option {
	return func(c *Cooldown) {
		if d > 0 {
			c.period = d
		}
	}
}

func NewCooldown(store Store, opts ...Option) *Cooldown {
	c := &Cooldown{store: store, period: ResendCooldown, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cooldown) Period() time.Duration { return c.period }

// Start begins a full cooldown for flowID and returns when it ends.
func (c *Cooldown) Start(ctx context.Context, flowID string) (time.Time, error) {
	if flowID == "" {
		return time.Time{}, ErrEmptyFlow
	}
	deadline := c.now().Add(c.period)
	if err := c.store.SetDeadline(ctx, flowID, deadline, c.period); err != nil {
		return time.Time{}, fmt.Errorf("start cooldown: %w", err)
	}
	return deadline, nil
}

// Remaining is the time left before flowID may resend; zero when it may.
func (c *Cooldown) Remaining(ctx context.Context, flowID string) (time.Duration, error) {
	if flowID == "" {
		return 0, nil
	}
	deadline, ok, err := c.store.Deadline(ctx, flowID)
	if err != nil {
		return 0, fmt.Errorf("read cooldown: %w", err)
	}
	if !ok {
		return 0, nil
	}
	left := deadline.Sub(c.now())
	if left < 0 {
		return 0, nil
	}
	return left, nil
}

func (c *Cooldown) CanResend(ctx context.Context, flowID string) (bool, error) {
	left, err := c.Remaining(ctx, flowID)
	if err != nil {
		return false, err
	}
	return left == 0, nil
}

// Reset forgets flowID's cooldown.
func (c *Cooldown) Reset(ctx context.Context, flowID string) error {
	if flowID == "" {
		return nil
	}
	return c.store.Delete(ctx, flowID)
}

// Seconds rounds d up to whole seconds, as the countdown displays it.
func Seconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// Countdown renders d as MM:SS.
func Countdown(d time.Duration) string {
	s := Seconds(d)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
