package store

import (
	"os"
	"path/filepath"
	"testing"
)

// setupTestXDG sets XDG env vars to a temp directory for isolated testing.
func setupTestXDG(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmpDir, "cache"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmpDir, "state"))
	return tmpDir
}

func TestOpenAndClose(t *testing.T) {
	tmpDir := setupTestXDG(t)

	db, err := Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if db.Conn() == nil {
		t.Fatal("Conn() returned nil")
	}

	dbPath := filepath.Join(tmpDir, "habit", "habit.db")
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("Database file not created at %s: %v", dbPath, err)
	}
}

func TestMigrationsCreateTables(t *testing.T) {
	setupTestXDG(t)

	db, err := Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"migrations", "habits", "habit_completions", "kv"} {
		var name string
		err := db.Conn().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("Table %q not found: %v", table, err)
		}
	}
}

func TestWALMode(t *testing.T) {
	setupTestXDG(t)

	db, err := Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	var journalMode string
	if err := db.Conn().QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("Querying journal_mode failed: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("Expected WAL mode, got %q", journalMode)
	}
}

func TestForeignKeysCascade(t *testing.T) {
	db, err := OpenPath(filepath.Join(t.TempDir(), "cascade.db"))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	defer db.Close()

	c := db.Conn()
	if _, err := c.Exec(`INSERT INTO habits (id, name, created_at) VALUES ('h1', 'Read', '2025-01-01')`); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Exec(`INSERT INTO habit_completions (habit_id, completion_date) VALUES ('h1', '2025-01-02')`); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Exec(`DELETE FROM habits WHERE id = 'h1'`); err != nil {
		t.Fatal(err)
	}

	var n int
	if err := c.QueryRow(`SELECT COUNT(*) FROM habit_completions`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("expected completions to cascade, %d left", n)
	}

	if _, err := c.Exec(`INSERT INTO habit_completions (habit_id, completion_date) VALUES ('ghost', '2025-01-02')`); err == nil {
		t.Fatal("expected foreign key violation for unknown habit")
	}
}

func TestTargetDaysCheck(t *testing.T) {
	db, err := OpenPath(filepath.Join(t.TempDir(), "check.db"))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	defer db.Close()

	_, err = db.Conn().Exec(`INSERT INTO habits (id, name, target_days, created_at) VALUES ('h1', 'Read', 0, '2025-01-01')`)
	if err == nil {
		t.Fatal("expected CHECK constraint to reject target_days = 0")
	}
}

func TestKV(t *testing.T) {
	db, err := OpenPath(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	defer db.Close()

	if _, ok, err := db.GetKV("missing"); err != nil || ok {
		t.Fatalf("GetKV(missing) = ok %v, err %v", ok, err)
	}
	if err := db.SetKV("backup.last_export", "2025-01-01"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetKV("backup.last_export", "2025-02-01"); err != nil {
		t.Fatal(err)
	}
	v, ok, err := db.GetKV("backup.last_export")
	if err != nil || !ok || v != "2025-02-01" {
		t.Fatalf("GetKV = %q %v %v", v, ok, err)
	}
}

func TestDoubleOpen(t *testing.T) {
	setupTestXDG(t)

	db1, err := Open()
	if err != nil {
		t.Fatalf("First Open failed: %v", err)
	}
	defer db1.Close()

	// Opening again should not fail (migrations are idempotent)
	db2, err := Open()
	if err != nil {
		t.Fatalf("Second Open failed: %v", err)
	}
	defer db2.Close()
}
