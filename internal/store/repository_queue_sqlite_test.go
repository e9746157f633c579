package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/keyfold/syncengine/internal/logger"
	"github.com/keyfold/syncengine/migrations"
	"github.com/keyfold/syncengine/models"
)

// openMigratedDB opens a throwaway SQLite database with the goose schema
// applied, so the queue ordering queries run against a real engine instead
// of sqlmock regexes.
func openMigratedDB(t *testing.T) *DB {
	t.Helper()

	conn, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "queue_test.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err = migrations.Migrate(conn); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return &DB{DB: conn, logger: logger.NewLogger("test")}
}

func enqueueOp(t *testing.T, repo QueueRepository, id, entityID string, priority int, enqueuedAt time.Time) {
	t.Helper()

	err := repo.Enqueue(context.Background(), models.QueuedOperation{
		ID:             id,
		EntityType:     models.EntityAccount,
		EntityID:       entityID,
		Kind:           models.EventUpdate,
		CollectionPath: "users/user-1/accounts",
		Payload:        []byte(`{}`),
		Priority:       priority,
		EnqueuedAt:     enqueuedAt,
	})
	if err != nil {
		t.Fatalf("failed to enqueue %s: %v", id, err)
	}
}

func readyIDs(t *testing.T, repo QueueRepository, now time.Time) []string {
	t.Helper()

	ops, err := repo.Ready(context.Background(), now, 10)
	if err != nil {
		t.Fatalf("failed to load ready operations: %v", err)
	}

	ids := make([]string, 0, len(ops))
	for _, op := range ops {
		ids = append(ids, op.ID)
	}
	return ids
}

func assertIDs(t *testing.T, got, want []string) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("expected ready ids %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected ready ids %v, got %v", want, got)
		}
	}
}

func TestQueueReady_PerEntityOrderOnSQLite(t *testing.T) {
	db := openMigratedDB(t)
	repo := NewQueueRepository(db, db.logger)
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	now := base.Add(time.Minute)

	// Entity A has two pending mutations. The later one carries a higher
	// priority but must stay behind its predecessor; priority only orders
	// operations across entities.
	enqueueOp(t, repo, "a-1", "acc-a", 1, base)
	enqueueOp(t, repo, "a-2", "acc-a", 9, base.Add(time.Second))
	enqueueOp(t, repo, "b-1", "acc-b", 5, base.Add(2*time.Second))

	// b-1 outranks a-1 on priority; a-2 is blocked behind a-1.
	assertIDs(t, readyIDs(t, repo, now), []string{"b-1", "a-1"})

	// An in-flight head keeps the rest of its entity blocked.
	if err := repo.MarkInFlight(ctx, "a-1"); err != nil {
		t.Fatalf("failed to mark a-1 in flight: %v", err)
	}
	assertIDs(t, readyIDs(t, repo, now), []string{"b-1"})

	// Once the head is delivered the successor becomes eligible and its
	// priority takes effect.
	if err := repo.MarkDone(ctx, "a-1"); err != nil {
		t.Fatalf("failed to mark a-1 done: %v", err)
	}
	assertIDs(t, readyIDs(t, repo, now), []string{"a-2", "b-1"})

	// A backoff in the future hides the operation until the retry time.
	if err := repo.Reschedule(ctx, "b-1", 1, now.Add(time.Hour)); err != nil {
		t.Fatalf("failed to reschedule b-1: %v", err)
	}
	assertIDs(t, readyIDs(t, repo, now), []string{"a-2"})
	assertIDs(t, readyIDs(t, repo, now.Add(2*time.Hour)), []string{"a-2", "b-1"})
}

func TestQueueReady_EqualPriorityIsFIFOOnSQLite(t *testing.T) {
	db := openMigratedDB(t)
	repo := NewQueueRepository(db, db.logger)

	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	enqueueOp(t, repo, "late", "acc-late", models.DefaultPriority, base.Add(time.Second))
	enqueueOp(t, repo, "early", "acc-early", models.DefaultPriority, base)

	// Priority ties break on enqueue time, not insertion order.
	assertIDs(t, readyIDs(t, repo, base.Add(time.Minute)), []string{"early", "late"})
}

func TestQueueReady_LimitAppliesAfterOrderingOnSQLite(t *testing.T) {
	db := openMigratedDB(t)
	repo := NewQueueRepository(db, db.logger)

	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	enqueueOp(t, repo, "low", "acc-1", 1, base)
	enqueueOp(t, repo, "high", "acc-2", 9, base.Add(time.Second))

	ops, err := repo.Ready(context.Background(), base.Add(time.Minute), 1)
	if err != nil {
		t.Fatalf("failed to load ready operations: %v", err)
	}
	if len(ops) != 1 || ops[0].ID != "high" {
		t.Fatalf("expected the highest-priority operation, got %v", ops)
	}
}
