package db

import (
	"io"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
)

func TestMigrationSourcePairs(t *testing.T) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("migration source: %v", err)
	}
	defer source.Close()

	version, err := source.First()
	if err != nil {
		t.Fatalf("first migration: %v", err)
	}
	if version != 1 {
		t.Fatalf("expected first migration version 1, got %d", version)
	}

	up, _, err := source.ReadUp(version)
	if err != nil {
		t.Fatalf("read up migration: %v", err)
	}
	defer up.Close()

	upSQL, err := io.ReadAll(up)
	if err != nil {
		t.Fatalf("read up body: %v", err)
	}
	if !strings.Contains(string(upSQL), "uq_user_clubs_user_club") {
		t.Fatalf("expected membership unique constraint in schema")
	}

	down, _, err := source.ReadDown(version)
	if err != nil {
		t.Fatalf("read down migration: %v", err)
	}
	down.Close()
}
