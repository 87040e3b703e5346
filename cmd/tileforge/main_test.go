package main

import (
	"path/filepath"
	"strings"
	"testing"

	"tileforge/internal/config"
)

// ///////////////////////////////////////////////
// Version Resolution Tests
// ///////////////////////////////////////////////

func TestResolveVersionLdflags(t *testing.T) {
	old := version
	version = "v1.2.3"
	defer func() { version = old }()

	if got := resolveVersion(); got != "v1.2.3" {
		t.Errorf("resolveVersion() = %q, want %q", got, "v1.2.3")
	}
}

// ///////////////////////////////////////////////
// Worker Selection Tests
// ///////////////////////////////////////////////

func TestEffectiveWorkers(t *testing.T) {
	tests := []struct {
		name     string
		flag     int
		manifest int
		want     int
	}{
		{"flag unset uses manifest", -1, 4, 4},
		{"flag unset manifest auto", -1, 0, 0},
		{"flag zero forces auto", 0, 4, 0},
		{"flag overrides manifest", 2, 8, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := effectiveWorkers(tt.flag, tt.manifest); got != tt.want {
				t.Errorf("effectiveWorkers(%d, %d) = %d, want %d", tt.flag, tt.manifest, got, tt.want)
			}
		})
	}
}

// ///////////////////////////////////////////////
// Job Listing Tests
// ///////////////////////////////////////////////

func TestFormatJobs(t *testing.T) {
	m := config.ExampleManifest()
	out := formatJobs(m)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("formatJobs returned %d lines, want header plus 3 jobs:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "NAME") {
		t.Errorf("first line %q is not the header", lines[0])
	}
	for i, want := range []string{"frames", "icons", "textures"} {
		if !strings.HasPrefix(lines[i+1], want) {
			t.Errorf("line %d = %q, want job %q first", i+1, lines[i+1], want)
		}
	}
	if !strings.Contains(lines[1], "assets/frames/*.png") {
		t.Errorf("frames line missing input pattern: %q", lines[1])
	}
}

func TestFormatJobsInPlace(t *testing.T) {
	m := &config.Manifest{
		Jobs: []config.Job{{
			Name:   "touchup",
			Type:   "normalize",
			Inputs: []string{"art/*.png"},
		}},
	}
	out := formatJobs(m)
	if !strings.Contains(out, "(in place)") {
		t.Errorf("empty output_dir not rendered as in place:\n%s", out)
	}
}

// ///////////////////////////////////////////////
// init Tests
// ///////////////////////////////////////////////

func TestInitWritesLoadableManifest(t *testing.T) {
	old := cli.Manifest
	cli.Manifest = filepath.Join(t.TempDir(), "tileforge.toml")
	defer func() { cli.Manifest = old }()

	if err := (&initCmd{}).Run(); err != nil {
		t.Fatalf("init: %v", err)
	}

	m, err := config.Load(cli.Manifest)
	if err != nil {
		t.Fatalf("loading generated manifest: %v", err)
	}
	if len(m.Jobs) != 3 {
		t.Errorf("generated manifest has %d jobs, want 3", len(m.Jobs))
	}
	if err := m.Validate(); err != nil {
		t.Errorf("generated manifest invalid: %v", err)
	}

	// A second init must not clobber the user's manifest.
	if err := (&initCmd{}).Run(); err == nil {
		t.Error("second init should refuse to overwrite")
	}
}

// ///////////////////////////////////////////////
// Manifest Loading Tests
// ///////////////////////////////////////////////

func TestLoadManifestMissingSuggestsInit(t *testing.T) {
	old := cli.Manifest
	cli.Manifest = filepath.Join(t.TempDir(), "absent.toml")
	defer func() { cli.Manifest = old }()

	_, err := loadManifest()
	if err == nil {
		t.Fatal("expected error for missing manifest")
	}
	if !strings.Contains(err.Error(), "init") {
		t.Errorf("error %q does not point at the init command", err)
	}
}
