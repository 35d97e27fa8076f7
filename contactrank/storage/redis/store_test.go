package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/nonibytes/contactrank/contactrank/storage"
)

// TestStore_RoundTrip requires a Redis instance on localhost:6379 and is
// skipped otherwise.
func TestStore_RoundTrip(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{Addr: "localhost:6379"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Redis not available, skipping integration test")
	}

	s := NewWithClient(client, "contactrank-test-"+strconv.FormatInt(time.Now().UnixNano(), 10))
	ctx = context.Background()
	if err := s.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer s.Close()
	defer s.Drop(ctx)

	rows := []storage.Row{
		{ID: "b", Fields: map[string]string{"name": "Bob"}, CreatedAtMS: 10, UpdatedAtMS: 10},
		{ID: "a", Fields: map[string]string{"name": "Ann"}, CreatedAtMS: 10, UpdatedAtMS: 10},
	}
	if _, err := s.Upsert(ctx, rows); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := s.Upsert(ctx, []storage.Row{{ID: "b", Fields: map[string]string{"name": "Bobby"}, CreatedAtMS: 50, UpdatedAtMS: 50}}); err != nil {
		t.Fatalf("Upsert update: %v", err)
	}

	got, err := s.Scan(ctx)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("scan not in insertion order: %+v", got)
	}
	if got[0].Fields["name"] != "Bobby" || got[0].CreatedAtMS != 10 || got[0].UpdatedAtMS != 50 {
		t.Fatalf("update did not keep created_at: %+v", got[0])
	}

	// duplicate ids in one batch: one seq, last contents win
	dup := []storage.Row{
		{ID: "c", Fields: map[string]string{"name": "Cy"}, CreatedAtMS: 60, UpdatedAtMS: 60},
		{ID: "c", Fields: map[string]string{"name": "Cyrus"}, CreatedAtMS: 60, UpdatedAtMS: 60},
	}
	if _, err := s.Upsert(ctx, dup); err != nil {
		t.Fatalf("Upsert duplicates: %v", err)
	}
	got, err = s.Scan(ctx)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(got) != 3 || got[2].ID != "c" || got[2].Fields["name"] != "Cyrus" {
		t.Fatalf("duplicate ids not coalesced: %+v", got)
	}
	if count, err := s.Count(ctx); err != nil || count != 3 {
		t.Fatalf("Count = %d, %v", count, err)
	}

	n, err := s.Delete(ctx, []string{"a", "missing"})
	if err != nil || n != 1 {
		t.Fatalf("Delete = %d, %v", n, err)
	}
	if _, err := s.Get(ctx, "a"); err != storage.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNewDefaultsPrefix(t *testing.T) {
	s := New(Options{Addr: "localhost:1"})
	if s.contactsKey() != "contactrank:contacts" || s.seqKey() != "contactrank:seq" {
		t.Fatalf("unexpected keys %q %q", s.contactsKey(), s.seqKey())
	}
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error pinging before Init")
	}
}

func TestCoalesceRows(t *testing.T) {
	rows := []storage.Row{
		{ID: "a", Fields: map[string]string{"name": "Ann"}},
		{ID: "b", Fields: map[string]string{"name": "Bob"}},
		{ID: "a", Fields: map[string]string{"name": "Anna"}},
	}
	got := coalesceRows(rows)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].ID != "a" || got[0].Fields["name"] != "Anna" || got[1].ID != "b" {
		t.Fatalf("unexpected rows: %+v", got)
	}
}
