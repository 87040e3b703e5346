// Package migrate tests verify sequential migration application, version
// skipping, error propagation, [Registry.NeedsMigration] detection, and
// the dev-transform path.
package migrate

import (
	"fmt"
	"strings"
	"testing"
)

// ///////////////////////////////////////////////
// Run
// ///////////////////////////////////////////////

func TestRunSkipsOldVersions(t *testing.T) {
	called := false
	r := &Registry{CurrentVersion: 1, Migrations: []Migration{
		{Version: 1, Description: "already applied", Upgrade: func(d []byte) ([]byte, error) {
			called = true
			return d, nil
		}},
	}}
	out, version, err := r.Run([]byte("data"), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Fatal("migration should have been skipped")
	}
	if version != 1 {
		t.Fatalf("expected version 1, got %d", version)
	}
	if string(out) != "data" {
		t.Fatalf("expected data unchanged, got %q", out)
	}
}

func TestRunAppliesSequentially(t *testing.T) {
	r := &Registry{CurrentVersion: 3, Migrations: []Migration{
		{Version: 2, Description: "v1->v2", Upgrade: func(d []byte) ([]byte, error) {
			return append(d, []byte("-v2")...), nil
		}},
		{Version: 3, Description: "v2->v3", Upgrade: func(d []byte) ([]byte, error) {
			return append(d, []byte("-v3")...), nil
		}},
	}}
	out, version, err := r.Run([]byte("data"), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != 3 {
		t.Fatalf("expected version 3, got %d", version)
	}
	if string(out) != "data-v2-v3" {
		t.Fatalf("expected data-v2-v3, got %q", out)
	}
}

func TestRunSortsByVersion(t *testing.T) {
	// Registered out of order; application order must still be 2 then 3.
	r := &Registry{CurrentVersion: 3, Migrations: []Migration{
		{Version: 3, Description: "v2->v3", Upgrade: func(d []byte) ([]byte, error) {
			return append(d, []byte("-v3")...), nil
		}},
		{Version: 2, Description: "v1->v2", Upgrade: func(d []byte) ([]byte, error) {
			return append(d, []byte("-v2")...), nil
		}},
	}}
	out, _, err := r.Run([]byte("data"), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "data-v2-v3" {
		t.Fatalf("expected data-v2-v3, got %q", out)
	}
}

func TestRunStopsOnError(t *testing.T) {
	r := &Registry{CurrentVersion: 3, Migrations: []Migration{
		{Version: 2, Description: "v1->v2", Upgrade: func(d []byte) ([]byte, error) {
			return append(d, []byte("-v2")...), nil
		}},
		{Version: 3, Description: "v2->v3 fails", Upgrade: func(d []byte) ([]byte, error) {
			return nil, fmt.Errorf("boom")
		}},
	}}
	_, version, err := r.Run([]byte("data"), 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "migration to v3 failed") {
		t.Fatalf("expected migration error message, got %v", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if version != 2 {
		t.Fatalf("expected version 2 (stopped before v3), got %d", version)
	}
}

func TestRunNoMigrations(t *testing.T) {
	r := &Registry{CurrentVersion: 1}
	out, version, err := r.Run([]byte("original"), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != 1 {
		t.Fatalf("expected version 1, got %d", version)
	}
	if string(out) != "original" {
		t.Fatalf("expected original, got %q", out)
	}
}

// ///////////////////////////////////////////////
// NeedsMigration
// ///////////////////////////////////////////////

func TestNeedsMigrationVersionMismatch(t *testing.T) {
	r := &Registry{CurrentVersion: 1}
	if !r.NeedsMigration(0) {
		t.Fatal("expected true for version 0 vs current 1")
	}
	if !r.NeedsMigration(2) {
		t.Fatal("expected true for version 2 vs current 1")
	}
}

func TestNeedsMigrationUpToDate(t *testing.T) {
	r := &Registry{CurrentVersion: 1}
	if r.NeedsMigration(1) {
		t.Fatal("expected false when up to date")
	}
	r.Migrations = []Migration{}
	if r.NeedsMigration(1) {
		t.Fatal("expected false when up to date with empty migrations")
	}
}

func TestNeedsMigrationPendingUpgrade(t *testing.T) {
	r := &Registry{CurrentVersion: 1, Migrations: []Migration{{Version: 2, Description: "pending"}}}
	if !r.NeedsMigration(1) {
		t.Fatal("expected true when a migration targets a later version")
	}
}

// ///////////////////////////////////////////////
// Registration and Dev Transforms
// ///////////////////////////////////////////////

func TestRunDevTransforms(t *testing.T) {
	r := &Registry{CurrentVersion: 1}
	r.RegisterDev(Migration{Description: "add suffix", Upgrade: func(d []byte) ([]byte, error) {
		return append(d, []byte("-dev")...), nil
	}})
	if !r.HasDev() {
		t.Fatal("expected HasDev after RegisterDev")
	}
	out, err := r.RunDev([]byte("data"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "data-dev" {
		t.Fatalf("expected data-dev, got %q", out)
	}
}

func TestRunDevNoTransforms(t *testing.T) {
	r := &Registry{CurrentVersion: 1}
	if r.HasDev() {
		t.Fatal("expected no dev transforms on a fresh registry")
	}
	out, err := r.RunDev([]byte("data"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "data" {
		t.Fatalf("expected data unchanged, got %q", out)
	}
}

func TestRegisterRejectsDuplicateVersion(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate version")
		}
	}()
	r := &Registry{CurrentVersion: 2}
	r.Register(Migration{Version: 2, Description: "first"})
	r.Register(Migration{Version: 2, Description: "second"})
}

func TestRegisterDevRejectsDuplicateDescription(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate description")
		}
	}()
	r := &Registry{CurrentVersion: 1}
	r.RegisterDev(Migration{Description: "same"})
	r.RegisterDev(Migration{Description: "same"})
}

func TestManifestRegistry(t *testing.T) {
	if Manifest.CurrentVersion != 2 {
		t.Fatalf("expected Manifest.CurrentVersion=2, got %d", Manifest.CurrentVersion)
	}

	// Verify Migrations slice is exported and overridable
	orig := Manifest.Migrations
	Manifest.Migrations = []Migration{{Version: 99, Description: "test override"}}
	if len(Manifest.Migrations) != 1 || Manifest.Migrations[0].Version != 99 {
		t.Fatal("expected override to work")
	}
	Manifest.Migrations = orig
}
