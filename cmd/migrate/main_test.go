package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDescriptionFromFilename(t *testing.T) {
	got := descriptionFromFilename("2026-09-28-007-create-coaching-recommendations.sql")
	if got != "create coaching recommendations" {
		t.Errorf("got %q", got)
	}
}

func TestMigrationFilesAndPending(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"2026-09-28-002-create-users.sql",
		"2026-09-28-001-create-migrations.sql",
		"2026-10-01-001-add-notes.sql",
		"README.md",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := migrationFiles(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	want := []string{
		"2026-09-28-001-create-migrations.sql",
		"2026-09-28-002-create-users.sql",
		"2026-10-01-001-add-notes.sql",
	}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("files = %v, want %v", names, want)
	}

	left := pending(files, map[string]bool{"2026-09-28-001-create-migrations.sql": true})
	if len(left) != 2 || filepath.Base(left[0]) != "2026-09-28-002-create-users.sql" {
		t.Errorf("pending = %v", left)
	}
}
