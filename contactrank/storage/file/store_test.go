package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nonibytes/contactrank/contactrank"
	"github.com/nonibytes/contactrank/contactrank/storage"
)

func TestScanAssignsStableIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.jsonl")
	if err := os.WriteFile(path, []byte("{\"name\":\"Ann\"}\n{\"name\":\"Bob\"}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := New(path, contactrank.FormatAuto)
	ctx := context.Background()
	if err := s.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}

	first, err := s.Scan(ctx)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	second, _ := s.Scan(ctx)
	if len(first) != 2 || first[0].ID != second[0].ID || first[0].ID == first[1].ID {
		t.Fatalf("ids not stable/unique: %+v %+v", first, second)
	}
	if first[0].Seq != 1 || first[1].Seq != 2 {
		t.Fatalf("unexpected seq: %+v", first)
	}

	if _, err := s.Get(ctx, "nope"); err != storage.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Upsert(ctx, nil); err != storage.ErrReadOnly {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
	if _, err := s.Delete(ctx, []string{"x"}); err != storage.ErrReadOnly {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
}

func TestDefaultPathAndDirectory(t *testing.T) {
	if New("", contactrank.FormatAuto).Path != contactrank.DefaultContactsFile {
		t.Fatal("expected default contacts path")
	}
	if err := New(t.TempDir(), contactrank.FormatAuto).Init(context.Background()); err == nil {
		t.Fatal("expected error for a directory")
	}
}
