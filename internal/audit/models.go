package audit

import (
	"time"

	"github.com/lib/pq"
)

// Kind names what happened.
type Kind string

const (
	KindLogin          Kind = "login"
	KindLoginFailed    Kind = "login_failed"
	KindLogout         Kind = "logout"
	KindSessionCorrupt Kind = "session_corrupt"
	KindGuardRedirect  Kind = "guard_redirect"
	KindOTPVerified    Kind = "otp_verified"
	KindPasswordReset  Kind = "password_reset"
)

// Event is one row of the console audit trail.
type Event struct {
	ID        string         `gorm:"primaryKey;type:uuid" json:"id"`
	Kind      Kind           `gorm:"type:text;not null;index" json:"kind"`
	UserID    string         `gorm:"type:text;index" json:"user_id,omitempty"`
	Role      int            `json:"role,omitempty"`
	Path      string         `json:"path,omitempty"`
	Reason    string         `json:"reason,omitempty"`
	Tags      pq.StringArray `gorm:"type:text[]" json:"tags,omitempty"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
}

func (Event) TableName() string { return "console_audit.events" }
