package migrate

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var createdFileRe = regexp.MustCompile(`^\d{14}_add_leads_table\.sql$`)

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Leads Table")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !createdFileRe.MatchString(filepath.Base(path)) {
		t.Fatalf("unexpected filename %q", filepath.Base(path))
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	content := string(b)
	if !strings.Contains(content, "-- +goose Up") || !strings.Contains(content, "-- +goose Down") {
		t.Fatalf("expected goose section headers, got:\n%s", content)
	}
	if !strings.Contains(content, "-- +goose StatementBegin") {
		t.Fatalf("expected statement markers, got:\n%s", content)
	}
}

func TestCreateSQLMigration_SanitizesName(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "  Drop QR-tokens!! ")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	base := filepath.Base(path)
	if !strings.HasSuffix(base, "_drop_qr_tokens.sql") {
		t.Fatalf("expected sanitized name, got %q", base)
	}
}

func TestCreateSQLMigration_Validation(t *testing.T) {
	if _, err := CreateSQLMigration("", "name"); err == nil {
		t.Fatalf("expected error for empty dir")
	}
	if _, err := CreateSQLMigration(t.TempDir(), ""); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if _, err := CreateSQLMigration(t.TempDir(), "!!!"); err == nil {
		t.Fatalf("expected error when sanitized name is empty")
	}
}
