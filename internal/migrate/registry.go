// registry.go holds migration registration and the package's single
// registry instance. Migrations register themselves from the package
// that owns the schema, keeping the upgrade code next to the types it
// upgrades.

package migrate

import "fmt"

// Register appends a migration to the registry. It panics if a migration
// with the same version is already registered, preventing silent conflicts.
func (r *Registry) Register(m Migration) {
	for _, existing := range r.Migrations {
		if existing.Version == m.Version {
			panic(fmt.Sprintf("migrate: duplicate migration version %d (description: %q)", m.Version, m.Description))
		}
	}
	r.Migrations = append(r.Migrations, m)
}

// RegisterDev appends a dev transform to the registry. It panics if a dev
// transform with the same description is already registered.
func (r *Registry) RegisterDev(m Migration) {
	for _, existing := range r.Dev {
		if existing.Description == m.Description {
			panic(fmt.Sprintf("migrate: duplicate dev transform %q", m.Description))
		}
	}
	r.Dev = append(r.Dev, m)
}

// Manifest is the migration registry for tileforge.toml manifests.
// Version 2 renamed the reframe parameters inherited from the original
// one-off scripts (compression_factor, smoothing); the rename migration
// registers itself from the config package.
var Manifest = &Registry{CurrentVersion: 2}
