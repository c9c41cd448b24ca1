package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMigrations(t *testing.T) {
	dir := t.TempDir()

	// Create test SQL files
	files := map[string]string{
		"001_prescriptions.sql": "CREATE TABLE prescriptions (id VARCHAR(16) PRIMARY KEY);",
		"002_patient_index.sql": "CREATE INDEX idx_rx_patient ON prescriptions (lower(patient_name));",
		"003_diagnosis.sql":     "CREATE INDEX idx_rx_diagnosis ON prescriptions (diagnosis);",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write test file %s: %v", name, err)
		}
	}

	migrator := NewMigrator(nil, dir, "")
	migrations, err := migrator.LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}

	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}

	// Verify version parsing
	if migrations[0].Version != 1 {
		t.Errorf("expected version 1, got %d", migrations[0].Version)
	}
	if migrations[0].Name != "001_prescriptions.sql" {
		t.Errorf("expected name 001_prescriptions.sql, got %s", migrations[0].Name)
	}
	if migrations[0].SQL != "CREATE TABLE prescriptions (id VARCHAR(16) PRIMARY KEY);" {
		t.Errorf("unexpected SQL content: %s", migrations[0].SQL)
	}

	if migrations[1].Version != 2 {
		t.Errorf("expected version 2, got %d", migrations[1].Version)
	}
	if migrations[2].Version != 3 {
		t.Errorf("expected version 3, got %d", migrations[2].Version)
	}
}

func TestLoadMigrations_SortOrder(t *testing.T) {
	dir := t.TempDir()

	// Create files in reverse order to test sorting
	files := []struct {
		name    string
		content string
	}{
		{"010_tables.sql", "SELECT 10;"},
		{"002_second.sql", "SELECT 2;"},
		{"001_first.sql", "SELECT 1;"},
		{"005_middle.sql", "SELECT 5;"},
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.name), []byte(f.content), 0644); err != nil {
			t.Fatalf("failed to write test file %s: %v", f.name, err)
		}
	}

	migrator := NewMigrator(nil, dir, "")
	migrations, err := migrator.LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}

	if len(migrations) != 4 {
		t.Fatalf("expected 4 migrations, got %d", len(migrations))
	}

	expectedVersions := []int{1, 2, 5, 10}
	for i, expected := range expectedVersions {
		if migrations[i].Version != expected {
			t.Errorf("migration[%d]: expected version %d, got %d", i, expected, migrations[i].Version)
		}
	}
}

func TestLoadMigrations_InvalidFilename(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"001_valid.sql":      "SELECT 1;",
		"readme.sql":         "-- this has no version prefix",
		"notes.txt":          "not a sql file",
		"abc_invalid.sql":    "-- non-numeric prefix",
		"002_also_valid.sql": "SELECT 2;",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write test file %s: %v", name, err)
		}
	}

	migrator := NewMigrator(nil, dir, "")
	migrations, err := migrator.LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}

	if len(migrations) != 2 {
		t.Fatalf("expected 2 valid migrations, got %d", len(migrations))
	}

	if migrations[0].Version != 1 {
		t.Errorf("expected first migration version 1, got %d", migrations[0].Version)
	}
	if migrations[1].Version != 2 {
		t.Errorf("expected second migration version 2, got %d", migrations[1].Version)
	}
}

func TestLoadMigrations_EmptyDir(t *testing.T) {
	dir := t.TempDir()

	migrator := NewMigrator(nil, dir, "")
	migrations, err := migrator.LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}

	if len(migrations) != 0 {
		t.Errorf("expected 0 migrations from empty dir, got %d", len(migrations))
	}
}

type fakeLedger struct {
	done    map[int]time.Time
	ran     []int
	failOn  int
	ensured bool
}

func (f *fakeLedger) ensure(context.Context) error {
	f.ensured = true
	return nil
}

func (f *fakeLedger) applied(context.Context) (map[int]time.Time, error) {
	out := make(map[int]time.Time, len(f.done))
	for v, at := range f.done {
		out[v] = at
	}
	return out, nil
}

func (f *fakeLedger) apply(_ context.Context, mig Migration) error {
	if mig.Version == f.failOn {
		return errors.New("syntax error")
	}
	f.ran = append(f.ran, mig.Version)
	f.done[mig.Version] = time.Now()
	return nil
}

func writeMigrations(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write test file %s: %v", name, err)
		}
	}
	return dir
}

func TestMigrator_Status(t *testing.T) {
	dir := writeMigrations(t, map[string]string{
		"001_prescriptions.sql": "CREATE TABLE prescriptions (id VARCHAR(16) PRIMARY KEY);",
		"002_indexes.sql":       "CREATE INDEX idx ON prescriptions (id);",
		"003_audit.sql":         "ALTER TABLE prescriptions ADD COLUMN x INT;",
	})
	appliedAt := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	l := &fakeLedger{done: map[int]time.Time{1: appliedAt}}
	m := &Migrator{ledger: l, dir: dir}

	statuses, err := m.Status(context.Background())
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if !l.ensured {
		t.Error("expected migrations table to be ensured")
	}
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if !statuses[0].Applied || statuses[0].AppliedAt == nil || !statuses[0].AppliedAt.Equal(appliedAt) {
		t.Errorf("expected migration 001 applied at %v, got %+v", appliedAt, statuses[0])
	}
	if statuses[1].Applied || statuses[2].Applied {
		t.Error("expected migrations 002 and 003 to be pending")
	}
	if statuses[1].AppliedAt != nil {
		t.Error("expected nil AppliedAt for pending migration")
	}
	if statuses[2].Name != "003_audit.sql" {
		t.Errorf("expected name 003_audit.sql, got %s", statuses[2].Name)
	}
}

func TestMigrator_UpAppliesPendingInOrder(t *testing.T) {
	dir := writeMigrations(t, map[string]string{
		"001_a.sql": "SELECT 1;",
		"002_b.sql": "SELECT 2;",
		"003_c.sql": "SELECT 3;",
	})
	l := &fakeLedger{done: map[int]time.Time{2: time.Now()}}
	m := &Migrator{ledger: l, dir: dir}

	n, err := m.Up(context.Background())
	if err != nil {
		t.Fatalf("Up() error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 applied, got %d", n)
	}
	if len(l.ran) != 2 || l.ran[0] != 1 || l.ran[1] != 3 {
		t.Errorf("expected versions [1 3], got %v", l.ran)
	}

	n, err = m.Up(context.Background())
	if err != nil || n != 0 {
		t.Errorf("expected second Up to be a no-op, got %d, %v", n, err)
	}
}

func TestMigrator_UpToAndFailure(t *testing.T) {
	dir := writeMigrations(t, map[string]string{
		"001_a.sql": "SELECT 1;",
		"002_b.sql": "SELECT 2;",
		"003_c.sql": "SELECT 3;",
	})

	l := &fakeLedger{done: map[int]time.Time{}}
	n, err := (&Migrator{ledger: l, dir: dir}).UpTo(context.Background(), 2)
	if err != nil || n != 2 {
		t.Fatalf("UpTo(2) = %d, %v", n, err)
	}

	l = &fakeLedger{done: map[int]time.Time{}, failOn: 2}
	n, err = (&Migrator{ledger: l, dir: dir}).Up(context.Background())
	if err == nil {
		t.Fatal("expected error from failing migration")
	}
	if n != 1 {
		t.Errorf("expected 1 migration applied before the failure, got %d", n)
	}
	if !strings.Contains(err.Error(), "002_b.sql") {
		t.Errorf("expected error to name the migration, got %v", err)
	}
}

func TestSplitStatements(t *testing.T) {
	script := `-- prescriptions
CREATE TABLE t (
    id INT
);

CREATE INDEX i ON t (id);
INSERT INTO t VALUES (1)`
	got := splitStatements(script)
	if len(got) != 3 {
		t.Fatalf("expected 3 statements, got %d: %q", len(got), got)
	}
	if !strings.HasPrefix(got[0], "CREATE TABLE t (") || strings.HasSuffix(got[0], ";") {
		t.Errorf("unexpected first statement %q", got[0])
	}
	if got[2] != "INSERT INTO t VALUES (1)" {
		t.Errorf("unexpected trailing statement %q", got[2])
	}
}

func TestNewMigrator(t *testing.T) {
	m := NewMigrator(nil, "/some/path", "")
	if m == nil {
		t.Fatal("expected non-nil Migrator")
	}
	if m.dir != "/some/path" {
		t.Errorf("expected dir /some/path, got %s", m.dir)
	}
	l, ok := m.ledger.(*pgLedger)
	if !ok || l.schema != "public" {
		t.Errorf("expected postgres ledger on schema public, got %#v", m.ledger)
	}

	if _, ok := NewMySQLMigrator(nil, "/some/path").ledger.(*mysqlLedger); !ok {
		t.Error("expected mysql ledger")
	}
}

func TestLoadMigrations_NonExistentDir(t *testing.T) {
	migrator := NewMigrator(nil, "/nonexistent/path/that/does/not/exist", "")
	_, err := migrator.LoadMigrations()
	if err == nil {
		t.Error("expected error for non-existent directory")
	}
}
