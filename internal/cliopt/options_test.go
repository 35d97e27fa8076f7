package cliopt

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func parse(t *testing.T, args ...string) (GlobalOptions, error) {
	t.Helper()
	fs := flag.NewFlagSet("contactrank", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	g := DefaultGlobalOptions()
	BindGlobalFlags(fs, &g)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse: %v", err)
	}
	err := Resolve(fs, &g)
	return g, err
}

func TestResolve_FlagsOverrideConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "contactrank.yaml")
	if err := os.WriteFile(cfgPath, []byte("backend: sqlite\nsqlite_path: from-file.db\nlog_level: info\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	g, err := parse(t, "--config", cfgPath, "--sqlite-path", "from-flag.db")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if g.Config.Backend != "sqlite" {
		t.Fatalf("expected backend from file, got %q", g.Config.Backend)
	}
	if g.Config.SQLitePath != "from-flag.db" {
		t.Fatalf("expected flag to win, got %q", g.Config.SQLitePath)
	}
	if g.Config.LogLevel != "info" {
		t.Fatalf("expected log level from file, got %q", g.Config.LogLevel)
	}
}

func TestResolve_UnsetFlagsKeepEnv(t *testing.T) {
	t.Setenv("CONTACTRANK_COLOR", "off")
	g, err := parse(t)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if g.Config.Color != "off" {
		t.Fatalf("default flag value must not override env, got %q", g.Config.Color)
	}
}

func TestResolve_InvalidBackend(t *testing.T) {
	if _, err := parse(t, "--backend", "mysql"); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestSQLiteFile(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"":                  "contacts.db",
		"book.db":           "book.db",
		dir:                 filepath.Join(dir, "contacts.db"),
		"/no/such/file.sql": "/no/such/file.sql",
	}
	for in, want := range cases {
		if got := SQLiteFile(in); got != want {
			t.Errorf("SQLiteFile(%q) = %q, want %q", in, got, want)
		}
	}
}
