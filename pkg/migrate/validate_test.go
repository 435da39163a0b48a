package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeMigration(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

const validMigration = `-- +goose Up
CREATE TABLE widgets (id uuid PRIMARY KEY);

-- +goose Down
DROP TABLE widgets;
`

func TestValidateDir_AcceptsWellFormedMigrations(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20260101120000_create_widgets.sql", validMigration)
	writeMigration(t, dir, "20260102120000_add_index.sql", validMigration)

	if err := ValidateDir(dir); err != nil {
		t.Fatalf("expected valid dir, got %v", err)
	}
}

func TestValidateDir_RejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "001_create_widgets.sql", validMigration)

	err := ValidateDir(dir)
	if err == nil || !strings.Contains(err.Error(), "invalid migration filename") {
		t.Fatalf("expected filename error, got %v", err)
	}
}

func TestValidateDir_RejectsDuplicateVersions(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20260101120000_create_widgets.sql", validMigration)
	writeMigration(t, dir, "20260101120000_other_change.sql", validMigration)

	err := ValidateDir(dir)
	if err == nil || !strings.Contains(err.Error(), "duplicate migration version") {
		t.Fatalf("expected duplicate version error, got %v", err)
	}
}

func TestValidateDir_RequiresGooseHeaders(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20260101120000_create_widgets.sql", "-- +goose Up\nCREATE TABLE widgets;\n")

	err := ValidateDir(dir)
	if err == nil || !strings.Contains(err.Error(), "+goose Down") {
		t.Fatalf("expected missing down header error, got %v", err)
	}
}

func TestValidateDir_IgnoresNonSQLFiles(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "README.md", "notes")
	writeMigration(t, dir, "20260101120000_create_widgets.sql", validMigration)

	if err := ValidateDir(dir); err != nil {
		t.Fatalf("expected non-sql files ignored, got %v", err)
	}
}

func TestValidateDir_ShippedMigrations(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations failed validation: %v", err)
	}
}
