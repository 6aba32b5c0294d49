package db

import (
	"database/sql"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"atmos-server/internal/config"
)

func TestBuildDSN_ExplicitDSNWins(t *testing.T) {
	cfg := config.Config{DSN: "file::memory:?cache=shared", Path: "ignored.db"}
	dsn, err := buildDSN(cfg)
	if err != nil {
		t.Fatalf("buildDSN: %v", err)
	}
	if dsn != "file::memory:?cache=shared" {
		t.Errorf("dsn = %q", dsn)
	}
}

func TestBuildDSN_PlainPathGetsParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atmos.db")
	cfg := config.Config{Path: path}
	dsn, err := buildDSN(cfg)
	if err != nil {
		t.Fatalf("buildDSN: %v", err)
	}
	if !strings.HasPrefix(dsn, "file:"+path+"?") {
		t.Errorf("dsn = %q, want file:%s?...", dsn, path)
	}
	for _, param := range []string{"_foreign_keys=on", "_busy_timeout=5000", "_journal_mode=WAL"} {
		if !strings.Contains(dsn, param) {
			t.Errorf("dsn = %q missing %q", dsn, param)
		}
	}
}

func TestBuildDSN_FilePrefixNotDoubleWrapped(t *testing.T) {
	cfg := config.Config{Path: "file:/data/atmos.db?cache=shared"}
	dsn, err := buildDSN(cfg)
	if err != nil {
		t.Fatalf("buildDSN: %v", err)
	}
	if !strings.HasPrefix(dsn, "file:/data/atmos.db?cache=shared&") {
		t.Errorf("dsn = %q", dsn)
	}
	if strings.Count(dsn, "file:") != 1 {
		t.Errorf("dsn double-wrapped: %q", dsn)
	}
}

func TestOpen_DebugLoggingIsSqliteOnly(t *testing.T) {
	t.Run("sqlite3 opens through the logging connector", func(t *testing.T) {
		cfg := config.Config{Driver: "sqlite3", DSN: "file::memory:?cache=private", LogLevel: slog.LevelDebug}
		conn, err := Open(cfg)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		defer func() { _ = conn.Close() }()
		if err := conn.Ping(); err != nil {
			t.Errorf("ping: %v", err)
		}
	})

	t.Run("other drivers are not silently replaced", func(t *testing.T) {
		cfg := config.Config{Driver: "postgres", DSN: "host=localhost", LogLevel: slog.LevelDebug}
		if _, err := Open(cfg); err == nil {
			t.Fatal("Open succeeded for an unregistered driver, want error")
		}
	})
}

func TestMigrate_Idempotent(t *testing.T) {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = conn.Close() }()

	if err := Migrate(conn); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := Migrate(conn); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM soundings`).Scan(&count); err != nil {
		t.Fatalf("soundings table missing: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}
