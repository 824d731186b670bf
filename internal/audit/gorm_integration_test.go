package audit_test

import (
	"context"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasamilk/admin-console/internal/audit"
	"github.com/vasamilk/admin-console/internal/db"
)

// gormRecorder connects to DATABASE_URL, skipping the test when it is unset.
func gormRecorder(t *testing.T) *audit.GormRecorder {
	t.Helper()
	_ = godotenv.Load("../../.env.local")

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping database test")
	}

	d, err := db.Connect(dsn)
	require.NoError(t, err)
	rec, err := audit.Init(d)
	require.NoError(t, err)
	return rec
}

func TestGormRecorderStoresEvents(t *testing.T) {
	rec := gormRecorder(t)
	ctx := context.Background()

	rec.Record(ctx, audit.Event{
		Kind:   audit.KindGuardRedirect,
		UserID: "integration-user",
		Role:   4,
		Path:   "/sales",
		Reason: "AdminRoute -> /",
		Tags:   []string{"integration"},
	})

	events, err := rec.Recent(ctx, audit.KindGuardRedirect, 50)
	require.NoError(t, err)

	var found *audit.Event
	for i := range events {
		if events[i].UserID == "integration-user" && events[i].Path == "/sales" {
			found = &events[i]
			break
		}
	}
	require.NotNil(t, found, "stored event not returned by Recent")
	assert.NotEmpty(t, found.ID)
	assert.False(t, found.CreatedAt.IsZero())
	assert.Equal(t, []string{"integration"}, []string(found.Tags))

	for _, e := range events {
		assert.Equal(t, audit.KindGuardRedirect, e.Kind)
	}
}
