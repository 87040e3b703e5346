// Package migrate applies sequential schema migrations to on-disk TOML
// data, upgrading from one version to the next.
package migrate

import (
	"fmt"
	"log/slog"
	"sort"
)

// ///////////////////////////////////////////////
// Types
// ///////////////////////////////////////////////

// Migration represents a schema migration that upgrades on-disk data
// from one version to the next.
type Migration struct {
	// Version is the schema version this migration produces.
	Version int
	// Description is a short human-readable label for log output.
	Description string
	// Upgrade transforms data from the prior version to [Migration.Version].
	Upgrade func(data []byte) ([]byte, error)
}

// Registry holds the migrations for one schema target and the version
// current files carry.
type Registry struct {
	// CurrentVersion is the latest schema version that this registry targets.
	CurrentVersion int
	// Migrations is the ordered list of versioned upgrades. Exported so
	// tests can override the migration list.
	Migrations []Migration
	// Dev holds development-only transforms that are applied without
	// advancing the schema version. See [Registry.RunDev].
	Dev []Migration
}

// ///////////////////////////////////////////////
// Engine
// ///////////////////////////////////////////////

// NeedsMigration reports whether a file at fileVersion would be
// rewritten: its version differs from the current one, or a registered
// migration targets a later version.
func (r *Registry) NeedsMigration(fileVersion int) bool {
	if fileVersion != r.CurrentVersion {
		return true
	}
	for _, m := range r.Migrations {
		if fileVersion < m.Version {
			return true
		}
	}
	return false
}

// Run applies registered migrations sequentially where fromVersion < m.Version.
// Returns the transformed data, the final version reached, and the error of
// the migration that failed, if any.
func (r *Registry) Run(data []byte, fromVersion int) ([]byte, int, error) {
	sorted := make([]Migration, len(r.Migrations))
	copy(sorted, r.Migrations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Version < sorted[j].Version
	})
	version := fromVersion
	for _, m := range sorted {
		if version < m.Version {
			slog.Info("applying migration", "version", m.Version, "description", m.Description)
			var err error
			data, err = m.Upgrade(data)
			if err != nil {
				return nil, version, fmt.Errorf("migration to v%d failed: %w", m.Version, err)
			}
			version = m.Version
		}
	}
	return data, version, nil
}

// RunDev applies dev transforms sequentially. No version tracking — the
// file version is left unchanged. Use for one-off local data fixes
// during development.
func (r *Registry) RunDev(data []byte) ([]byte, error) {
	for _, m := range r.Dev {
		var err error
		data, err = m.Upgrade(data)
		if err != nil {
			return nil, fmt.Errorf("dev transform %q: %w", m.Description, err)
		}
	}
	return data, nil
}

// HasDev reports whether any dev transforms are registered.
func (r *Registry) HasDev() bool {
	return len(r.Dev) > 0
}
