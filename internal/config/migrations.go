// migrations.go holds the manifest schema migrations. Version 1 manifests
// used the parameter names of the one-off scripts the reframe modes grew
// out of; version 2 unified them.

package config

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
	"tileforge/internal/migrate"
)

func init() {
	migrate.Manifest.Register(migrate.Migration{
		Version:     2,
		Description: "rename reframe compression_factor/smoothing to thickness_factor/edge_softness",
		Upgrade:     migrateReframeNames,
	})
}

// migrateReframeNames rewrites v1 reframe sections under their v2 key
// names. The rename happens on a generic TOML document so fields this
// version does not know about survive the round trip.
func migrateReframeNames(data []byte) ([]byte, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	for _, job := range tableArray(doc["jobs"]) {
		reframe, ok := job["reframe"].(map[string]any)
		if !ok {
			continue
		}
		renameKey(reframe, "compression_factor", "thickness_factor")
		renameKey(reframe, "smoothing", "edge_softness")
	}
	doc["version"] = 2

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// tableArray normalizes the decoded shape of a TOML array of tables.
func tableArray(v any) []map[string]any {
	switch t := v.(type) {
	case []map[string]any:
		return t
	case []any:
		tables := make([]map[string]any, 0, len(t))
		for _, e := range t {
			if m, ok := e.(map[string]any); ok {
				tables = append(tables, m)
			}
		}
		return tables
	}
	return nil
}

// renameKey moves m[from] to m[to] unless the new name is already set.
func renameKey(m map[string]any, from, to string) {
	v, ok := m[from]
	if !ok {
		return
	}
	delete(m, from)
	if _, exists := m[to]; !exists {
		m[to] = v
	}
}
