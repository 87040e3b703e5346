// Package paths centralizes file and directory names used across the project.
// Manifest, cache, and output path construction are defined here as the
// single source of truth.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// ///////////////////////////////////////////////
// Constants
// ///////////////////////////////////////////////

const (
	// ManifestFile is the default manifest name, looked up in the
	// working directory when --manifest is not given.
	ManifestFile = "tileforge.toml"
	// CacheDirName is the download cache directory under the user cache root.
	CacheDirName = "tileforge"
	// OutputExt is the extension every written image gets.
	OutputExt = ".png"
	// BinaryName is the installed executable name.
	BinaryName = "tileforge"
)

// ///////////////////////////////////////////////
// Cache
// ///////////////////////////////////////////////

// CacheDir returns the directory for downloaded remote inputs,
// rooted at the OS user cache directory.
func CacheDir() (string, error) {
	root, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolving user cache dir: %w", err)
	}
	return filepath.Join(root, CacheDirName), nil
}

// ///////////////////////////////////////////////
// Outputs
// ///////////////////////////////////////////////

// OutputPath returns where a processed input is written: into outputDir
// under the input's base name, or the input path itself when outputDir
// is empty (in-place processing).
func OutputPath(outputDir, inputPath string) string {
	if outputDir == "" {
		return inputPath
	}
	return filepath.Join(outputDir, filepath.Base(inputPath))
}

// IconPath returns where a named sheet icon is written.
func IconPath(outputDir, name string) string {
	return filepath.Join(outputDir, name+OutputExt)
}
