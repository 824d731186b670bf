package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/vasamilk/admin-console/internal/audit"
	"github.com/vasamilk/admin-console/internal/db"
)

// CLI flags
var (
	dsn       = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (default: env DATABASE_URL)")
	retention = flag.Duration("retention", 90*24*time.Hour, "Delete audit events older than this")
	kind      = flag.String("kind", "", "Only prune events of this kind (e.g. guard_redirect)")
	dryRun    = flag.Bool("dry-run", false, "Count matching events only; no DB writes")
	list      = flag.Int("list", 0, "Print the N most recent events (filtered by --kind) and exit")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}
	if *retention <= 0 {
		fatalf("--retention must be positive")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if *list > 0 {
		listRecent(ctx, *list)
		return
	}

	cutoff := time.Now().Add(-*retention).UTC()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		fatalf("ping: %v", err)
	}

	where, args := filter(cutoff, *kind)

	var n int64
	if err := db.QueryRowContext(ctx, `SELECT count(*) FROM console_audit.events WHERE `+where, args...).Scan(&n); err != nil {
		fatalf("count: %v", err)
	}
	fmt.Printf("%d audit events before %s\n", n, cutoff.Format(time.RFC3339))

	if *dryRun || n == 0 {
		fmt.Println("Nothing deleted.")
		return
	}

	res, err := db.ExecContext(ctx, `DELETE FROM console_audit.events WHERE `+where, args...)
	if err != nil {
		fatalf("delete: %v", err)
	}
	deleted, _ := res.RowsAffected()
	fmt.Printf("Deleted %d audit events.\n", deleted)
}

// filter builds the WHERE clause shared by the count and the delete.
func filter(cutoff time.Time, kind string) (string, []any) {
	if kind == "" {
		return `created_at < $1`, []any{cutoff}
	}
	return `created_at < $1 AND kind = $2`, []any{cutoff, kind}
}

// listRecent prints the latest events through the same gorm recorder the
// server writes with.
func listRecent(ctx context.Context, n int) {
	d, err := db.Connect(*dsn)
	if err != nil {
		fatalf("connect: %v", err)
	}
	events, err := audit.NewGormRecorder(d).Recent(ctx, audit.Kind(*kind), n)
	if err != nil {
		fatalf("list: %v", err)
	}
	printEvents(os.Stdout, events)
}

func printEvents(w io.Writer, events []audit.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No audit events.")
		return
	}
	for _, e := range events {
		fmt.Fprintf(w, "%s  %-16s user=%s role=%d path=%s", e.CreatedAt.UTC().Format(time.RFC3339), e.Kind, e.UserID, e.Role, e.Path)
		if e.Reason != "" {
			fmt.Fprintf(w, " reason=%q", e.Reason)
		}
		if len(e.Tags) > 0 {
			fmt.Fprintf(w, " tags=%s", strings.Join(e.Tags, ","))
		}
		fmt.Fprintln(w)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "audit-prune: "+format+"\n", args...)
	os.Exit(1)
}
