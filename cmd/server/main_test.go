package main

import (
	"os"
	"testing"
)

func TestResolveMigrationsPath(t *testing.T) {
	orig := os.Getenv("MIGRATIONS_PATH")
	defer os.Setenv("MIGRATIONS_PATH", orig)

	os.Unsetenv("MIGRATIONS_PATH")
	if got := resolveMigrationsPath(); got != "file://migrations" {
		t.Fatalf("expected default migrations path, got %s", got)
	}

	os.Setenv("MIGRATIONS_PATH", "file:///opt/migrations")
	if got := resolveMigrationsPath(); got != "file:///opt/migrations" {
		t.Fatalf("expected overridden migrations path, got %s", got)
	}
}
