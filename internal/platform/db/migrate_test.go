package db

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMigrationFile(t *testing.T, dir, name, sql string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(sql), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadMigrations_SortedByVersion(t *testing.T) {
	dir := t.TempDir()
	writeMigrationFile(t, dir, "002_orders.sql", "CREATE TABLE b (id int);")
	writeMigrationFile(t, dir, "001_core.sql", "CREATE TABLE a (id int);")
	writeMigrationFile(t, dir, "010_indexes.sql", "CREATE INDEX i ON a (id);")

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}
	versions := []int{migrations[0].Version, migrations[1].Version, migrations[2].Version}
	if versions[0] != 1 || versions[1] != 2 || versions[2] != 10 {
		t.Errorf("expected versions [1 2 10], got %v", versions)
	}
	if migrations[0].Name != "001_core.sql" {
		t.Errorf("expected first migration 001_core.sql, got %s", migrations[0].Name)
	}
}

func TestLoadMigrations_SkipsNonNumeric(t *testing.T) {
	dir := t.TempDir()
	writeMigrationFile(t, dir, "001_core.sql", "SELECT 1;")
	writeMigrationFile(t, dir, "README.md", "not a migration")
	writeMigrationFile(t, dir, "notes_draft.sql", "SELECT 2;")

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migrations) != 1 {
		t.Fatalf("expected 1 migration, got %d", len(migrations))
	}
}

func TestLoadMigrations_MissingDir(t *testing.T) {
	m := NewMigrator(nil, "/nonexistent/migrations")
	_, err := m.LoadMigrations()
	if err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestLoadMigrations_ReadsContent(t *testing.T) {
	dir := t.TempDir()
	writeMigrationFile(t, dir, "001_core.sql", "CREATE TABLE bed (id uuid);")

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if migrations[0].SQL != "CREATE TABLE bed (id uuid);" {
		t.Errorf("unexpected SQL content: %q", migrations[0].SQL)
	}
}
