// Package tileforge provides embedded assets for the tileforge pipeline.
//
// The root package exists solely to embed [manifest.default.toml] via
// [DefaultManifestTOML]. The `tileforge init` command copies this file into
// the working directory as a starter manifest.
package tileforge

import _ "embed"

// DefaultManifestTOML holds the raw bytes of manifest.default.toml, embedded
// at build time. The file is generated by cmd/genmanifest; run `go generate`
// after changing the manifest schema or its field docs.
//
//go:embed manifest.default.toml
var DefaultManifestTOML []byte

//go:generate go run ./cmd/genmanifest
