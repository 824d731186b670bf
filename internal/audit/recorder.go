package audit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/vasamilk/admin-console/internal/utils"
)

// Recorder persists audit events. Recording is best effort: failures are
// logged and never reach the caller.
type Recorder interface {
	Record(ctx context.Context, e Event)
}

// prepare fills the generated fields.
func prepare(e Event, now time.Time) Event {
	if e.ID == "" {
		e.ID = utils.GenerateUUID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	return e
}

// LogRecorder writes events to the request logger only. It is used when no
// database is configured.
type LogRecorder struct{}

func (LogRecorder) Record(ctx context.Context, e Event) {
	e = prepare(e, time.Now())
	logEvent(zerolog.Ctx(ctx).Info(), e).Msg("audit")
}

// GormRecorder stores events in console_audit.events.
type GormRecorder struct {
	db *gorm.DB
}

func NewGormRecorder(db *gorm.DB) *GormRecorder {
	return &GormRecorder{db: db}
}

func (g *GormRecorder) Record(ctx context.Context, e Event) {
	e = prepare(e, time.Now())
	if err := g.db.WithContext(ctx).Create(&e).Error; err != nil {
		logEvent(zerolog.Ctx(ctx).Error().Err(err), e).Msg("failed to store audit event")
	}
}

// Recent returns the latest events, newest first, optionally filtered by kind.
func (g *GormRecorder) Recent(ctx context.Context, kind Kind, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := g.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var out []Event
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func logEvent(ev *zerolog.Event, e Event) *zerolog.Event {
	ev = ev.Str("audit_id", e.ID).Str("kind", string(e.Kind))
	if e.UserID != "" {
		ev = ev.Str("user_id", e.UserID).Int("role", e.Role)
	}
	if e.Path != "" {
		ev = ev.Str("path", e.Path)
	}
	if e.Reason != "" {
		ev = ev.Str("reason", e.Reason)
	}
	if len(e.Tags) > 0 {
		ev = ev.Strs("tags", e.Tags)
	}
	return ev
}

// MemoryRecorder keeps events in memory.
type MemoryRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (m *MemoryRecorder) Record(_ context.Context, e Event) {
	e = prepare(e, time.Now())
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

// Events returns a snapshot of what was recorded.
func (m *MemoryRecorder) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// Kinds lists recorded kinds in order.
func (m *MemoryRecorder) Kinds() []Kind {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Kind, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Kind)
	}
	return out
}
