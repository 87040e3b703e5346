// Package config loads and validates the tileforge manifest.
//
// The manifest is a TOML file declaring pipeline jobs; each job names
// input images (filesystem globs or http(s) URLs) and one transform with
// its parameters. The package fills defaults tuned against the hex tile
// sets the transforms were built for.
package config

//go:generate go run ../../cmd/genmanifest

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"tileforge/internal/atomicfile"
	"tileforge/internal/migrate"
)

// ///////////////////////////////////////////////
// Manifest Types
// ///////////////////////////////////////////////

// Manifest represents the top-level pipeline manifest.
type Manifest struct {
	// Version is the manifest schema version used for migrations.
	Version int `toml:"version"`
	// Workers caps per-job parallelism; 0 uses one worker per CPU.
	Workers int `toml:"workers"`
	// Log holds logging settings.
	Log LogConfig `toml:"log"`
	// Jobs lists the pipeline jobs in execution order.
	Jobs []Job `toml:"jobs"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string `toml:"level"`
	// File is an optional rotating log file; empty logs to stderr only.
	File string `toml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation.
	MaxSizeMB int `toml:"max_size_mb"`
}

// Job declares one pipeline step: a set of inputs and the transform
// applied to each of them. At most one parameter section may be present,
// matching the job type; a missing section means the type's defaults.
type Job struct {
	// Name identifies the job for CLI selection and log output.
	Name string `toml:"name"`
	// Type selects the transform: "reframe", "slice", or "normalize".
	Type string `toml:"type"`
	// Inputs lists filesystem globs (doublestar syntax) and http(s) URLs.
	Inputs []string `toml:"inputs"`
	// OutputDir receives the processed images; empty writes in place.
	// Slice jobs and jobs with remote inputs always need one.
	OutputDir string `toml:"output_dir,omitempty"`
	// Reframe holds ring reshaping parameters for type "reframe".
	Reframe *ReframeConfig `toml:"reframe,omitempty"`
	// Slice holds sheet extraction parameters for type "slice".
	Slice *SliceConfig `toml:"slice,omitempty"`
	// Normalize holds texture normalization parameters for type "normalize".
	Normalize *NormalizeConfig `toml:"normalize,omitempty"`
}

// ReframeConfig holds ring reshaping parameters.
type ReframeConfig struct {
	// Mode selects the operation: "squash" (radial warp), "remask"
	// (alpha re-cut, no warp), or "erode" (morphological thinning).
	Mode string `toml:"mode"`
	// Orientation is the hex orientation: "pointy" or "flat".
	Orientation string `toml:"orientation"`
	// ThicknessFactor scales the ring band width, in (0, 1].
	ThicknessFactor float64 `toml:"thickness_factor"`
	// EdgeSoftness feathers the cut alpha edge, in pixels; 0 means the
	// default of 1.5.
	EdgeSoftness float64 `toml:"edge_softness"`
	// AlphaThreshold is the exclusive alpha floor for a pixel to count
	// as ring content during estimation, 0-255.
	AlphaThreshold int `toml:"alpha_threshold"`
	// InnerPercentile and OuterPercentile pick the band bounds from the
	// distance distribution of content pixels.
	InnerPercentile float64 `toml:"inner_percentile"`
	OuterPercentile float64 `toml:"outer_percentile"`
	// ShrinkPolicy picks which side of the band gives up the removed
	// width: "symmetric", "inner", or "outer".
	ShrinkPolicy string `toml:"shrink_policy"`
	// AlphaPolicy picks edge mask compositing: "sampled" or "geometric".
	AlphaPolicy string `toml:"alpha_policy"`
	// Margin widens the warped annulus, in pixels; 0 means the default of 2.
	Margin float64 `toml:"margin"`
	// ErodeIterations is the erosion step count for mode "erode".
	ErodeIterations int `toml:"erode_iterations,omitempty"`
}

// SliceConfig holds sheet extraction parameters.
type SliceConfig struct {
	// Mode selects cell detection: "columns" (alpha projection) or "grid".
	Mode string `toml:"mode"`
	// GridCols and GridRows shape the fixed grid for mode "grid".
	GridCols int `toml:"grid_cols,omitempty"`
	GridRows int `toml:"grid_rows,omitempty"`
	// Names label the extracted icons in order; blanks fall back to icon_NN.
	Names []string `toml:"names,omitempty"`
	// AlphaThreshold zeroes alpha at or below it before detection and
	// cropping, 0-255; 0 skips the cleanup.
	AlphaThreshold int `toml:"alpha_threshold"`
	// ProjectionThreshold is the exclusive minimum per-column alpha sum
	// for the column to count as occupied.
	ProjectionThreshold int `toml:"projection_threshold"`
	// MinWidth drops detected spans narrower than this, in pixels.
	MinWidth int `toml:"min_width"`
	// MergeGap merges spans separated by fewer than this many empty columns.
	MergeGap int `toml:"merge_gap"`
	// Padding surrounds each icon's content with transparent pixels.
	Padding int `toml:"padding"`
	// Uniform sizes every output to the largest content box plus padding.
	Uniform bool `toml:"uniform"`
	// MaxSize caps output dimensions, downscaling when exceeded; 0 disables.
	MaxSize int `toml:"max_size,omitempty"`
}

// NormalizeConfig holds texture normalization parameters.
type NormalizeConfig struct {
	// CanvasSize is the square output edge; 0 crops to content without
	// scaling.
	CanvasSize int `toml:"canvas_size"`
	// Margin is the canvas fraction kept clear around content, in [0, 1).
	Margin float64 `toml:"margin"`
	// WhiteThreshold keys out pixels with all color channels above it,
	// 0-255; 0 disables keying.
	WhiteThreshold int `toml:"white_threshold"`
	// AlphaThreshold is the exclusive content box floor, 0-255.
	AlphaThreshold int `toml:"alpha_threshold"`
}

// ///////////////////////////////////////////////
// Defaults
// ///////////////////////////////////////////////

// DefaultManifest returns a Manifest populated with global defaults and
// no jobs. Jobs come solely from the file; their per-type defaults are
// filled after parsing.
func DefaultManifest() *Manifest {
	return &Manifest{
		Version: migrate.Manifest.CurrentVersion,
		Workers: 0,
		Log: LogConfig{
			Level:     "info",
			MaxSizeMB: 10,
		},
	}
}

// DefaultReframe returns the reframe parameters the tile frame sets were
// tuned with: full thickness, 1.5 px feather, alpha floor 20, percentiles
// 0.5 and 99.5.
func DefaultReframe() *ReframeConfig {
	return &ReframeConfig{
		Mode:            "squash",
		Orientation:     "pointy",
		ThicknessFactor: 1.0,
		EdgeSoftness:    1.5,
		AlphaThreshold:  20,
		InnerPercentile: 0.5,
		OuterPercentile: 99.5,
		ShrinkPolicy:    "symmetric",
		AlphaPolicy:     "sampled",
		Margin:          2,
	}
}

// DefaultSlice returns the slice parameters: projection detection with no
// filtering, tight crops, auto-numbered names.
func DefaultSlice() *SliceConfig {
	return &SliceConfig{
		Mode:     "columns",
		GridRows: 1,
	}
}

// DefaultNormalize returns the normalize parameters the village texture
// set was produced with: 512 px canvas, 10% margin, white keying at 240.
func DefaultNormalize() *NormalizeConfig {
	return &NormalizeConfig{
		CanvasSize:     512,
		Margin:         0.1,
		WhiteThreshold: 240,
		AlphaThreshold: 10,
	}
}

// applyJobDefaults fills per-job defaults after unmarshal. TOML array
// tables decode into fresh elements, so job sections cannot be
// pre-populated the way the top-level defaults are: a nil section takes
// its type's full defaults, a present section only has fields filled
// whose zero value is not meaningful on its own.
func (m *Manifest) applyJobDefaults() {
	for i := range m.Jobs {
		j := &m.Jobs[i]
		switch j.Type {
		case "reframe":
			if j.Reframe == nil {
				j.Reframe = DefaultReframe()
			} else {
				j.Reframe.applyDefaults()
			}
		case "slice":
			if j.Slice == nil {
				j.Slice = DefaultSlice()
			} else {
				j.Slice.applyDefaults()
			}
		case "normalize":
			if j.Normalize == nil {
				j.Normalize = DefaultNormalize()
			}
		}
	}
}

func (r *ReframeConfig) applyDefaults() {
	if r.Mode == "" {
		r.Mode = "squash"
	}
	if r.Orientation == "" {
		r.Orientation = "pointy"
	}
	if r.ThicknessFactor == 0 {
		r.ThicknessFactor = 1.0
	}
	if r.EdgeSoftness == 0 {
		r.EdgeSoftness = 1.5
	}
	if r.OuterPercentile == 0 {
		r.OuterPercentile = 99.5
	}
	if r.ShrinkPolicy == "" {
		r.ShrinkPolicy = "symmetric"
	}
	if r.AlphaPolicy == "" {
		// remask keeps the original pixels in place; the hard geometric
		// cut is the useful default there.
		if r.Mode == "remask" {
			r.AlphaPolicy = "geometric"
		} else {
			r.AlphaPolicy = "sampled"
		}
	}
	if r.Margin == 0 {
		r.Margin = 2
	}
}

func (s *SliceConfig) applyDefaults() {
	if s.Mode == "" {
		s.Mode = "columns"
	}
	if s.GridRows == 0 {
		s.GridRows = 1
	}
}

// ///////////////////////////////////////////////
// Example Manifest
// ///////////////////////////////////////////////

// ExampleManifest returns a Manifest suitable for generating
// manifest.default.toml: global defaults plus one example job per type,
// carrying the parameter values the original tile sets were built with.
func ExampleManifest() *Manifest {
	frames := DefaultReframe()
	frames.ThicknessFactor = 0.5

	m := DefaultManifest()
	m.Jobs = []Job{
		{
			Name:      "frames",
			Type:      "reframe",
			Inputs:    []string{"assets/frames/*.png"},
			OutputDir: "build/frames",
			Reframe:   frames,
		},
		{
			Name:      "icons",
			Type:      "slice",
			Inputs:    []string{"assets/sheets/icons.png"},
			OutputDir: "build/icons",
			Slice: &SliceConfig{
				Mode:                "columns",
				Names:               []string{"sword", "shield", "potion"},
				AlphaThreshold:      10,
				ProjectionThreshold: 100,
				MinWidth:            50,
				MergeGap:            20,
				Padding:             4,
				Uniform:             true,
			},
		},
		{
			Name:      "textures",
			Type:      "normalize",
			Inputs:    []string{"assets/textures/**/*.png"},
			OutputDir: "build/textures",
			Normalize: DefaultNormalize(),
		},
	}
	return m
}

// ///////////////////////////////////////////////
// PeekVersion
// ///////////////////////////////////////////////

// PeekVersion reads just the version field from raw TOML bytes.
// Returns 1 if the version field is missing or zero.
func PeekVersion(data []byte) int {
	var v struct {
		Version int `toml:"version"`
	}
	if err := toml.Unmarshal(data, &v); err != nil {
		return 1
	}
	if v.Version == 0 {
		return 1
	}
	return v.Version
}

// ///////////////////////////////////////////////
// Loading and Saving
// ///////////////////////////////////////////////

// Load reads and parses the manifest at path. Unlike a daemon config, a
// missing manifest is an error; `tileforge init` writes a starter one.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	version := PeekVersion(data)

	// Apply migrations if needed
	shouldMigrate := migrate.Manifest.NeedsMigration(version)
	if shouldMigrate {
		// Write backup before migration
		if backupErr := os.WriteFile(path+".bak", data, 0o644); backupErr != nil {
			slog.Warn("failed to write manifest backup", "error", backupErr)
		}
		var migrateErr error
		data, _, migrateErr = migrate.Manifest.Run(data, version)
		if migrateErr != nil {
			return nil, fmt.Errorf("migrate manifest: %w", migrateErr)
		}
	}

	// Auto-apply dev transforms
	if migrate.Manifest.HasDev() {
		var devErr error
		data, devErr = migrate.Manifest.RunDev(data)
		if devErr != nil {
			return nil, fmt.Errorf("apply dev transforms: %w", devErr)
		}
		shouldMigrate = true
	}

	m := DefaultManifest()
	if err := toml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	m.Version = migrate.Manifest.CurrentVersion
	m.applyJobDefaults()

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("validate manifest: %w", err)
	}

	// Re-save after migration
	if shouldMigrate {
		if err := m.Save(path); err != nil {
			slog.Warn("failed to save migrated manifest", "error", err)
		}
	}

	return m, nil
}

// Save writes the manifest to disk as TOML using atomic file write.
func (m *Manifest) Save(path string) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	return atomicfile.Write(path, buf.Bytes(), 0o644)
}

// ///////////////////////////////////////////////
// Validation
// ///////////////////////////////////////////////

// validLogLevels is the set of accepted log level strings.
var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

// Validate checks that all manifest values are within acceptable ranges.
func (m *Manifest) Validate() error {
	if !validLogLevels[strings.ToLower(m.Log.Level)] {
		return fmt.Errorf("invalid log.level %q: must be trace, debug, info, warn, or error", m.Log.Level)
	}

	if m.Log.MaxSizeMB <= 0 {
		return fmt.Errorf("log.max_size_mb must be > 0, got %d", m.Log.MaxSizeMB)
	}

	if m.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", m.Workers)
	}

	if len(m.Jobs) == 0 {
		return fmt.Errorf("manifest declares no jobs")
	}

	seen := make(map[string]bool, len(m.Jobs))
	for i := range m.Jobs {
		j := &m.Jobs[i]
		if err := j.validate(); err != nil {
			return fmt.Errorf("job %q: %w", j.Name, err)
		}
		if seen[j.Name] {
			return fmt.Errorf("duplicate job name %q", j.Name)
		}
		seen[j.Name] = true
	}

	return nil
}

// validate checks one job's shape and delegates to its parameter section.
func (j *Job) validate() error {
	if j.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(j.Inputs) == 0 {
		return fmt.Errorf("inputs is required")
	}
	remote := false
	for _, in := range j.Inputs {
		if strings.HasPrefix(in, "http://") || strings.HasPrefix(in, "https://") {
			remote = true
			continue
		}
		if !doublestar.ValidatePattern(in) {
			return fmt.Errorf("invalid input pattern %q", in)
		}
	}
	// In-place output would overwrite the download cache.
	if remote && j.OutputDir == "" {
		return fmt.Errorf("remote inputs require output_dir")
	}

	switch j.Type {
	case "reframe":
		if j.Slice != nil || j.Normalize != nil {
			return fmt.Errorf("type reframe allows only a [jobs.reframe] section")
		}
		if j.Reframe == nil {
			return fmt.Errorf("missing reframe parameters")
		}
		return j.Reframe.validate()
	case "slice":
		if j.Reframe != nil || j.Normalize != nil {
			return fmt.Errorf("type slice allows only a [jobs.slice] section")
		}
		if j.OutputDir == "" {
			return fmt.Errorf("slice jobs require output_dir")
		}
		if j.Slice == nil {
			return fmt.Errorf("missing slice parameters")
		}
		return j.Slice.validate()
	case "normalize":
		if j.Reframe != nil || j.Slice != nil {
			return fmt.Errorf("type normalize allows only a [jobs.normalize] section")
		}
		if j.Normalize == nil {
			return fmt.Errorf("missing normalize parameters")
		}
		return j.Normalize.validate()
	default:
		return fmt.Errorf("invalid type %q: must be reframe, slice, or normalize", j.Type)
	}
}

func (r *ReframeConfig) validate() error {
	switch r.Mode {
	case "squash", "remask", "erode":
	default:
		return fmt.Errorf("invalid reframe.mode %q: must be squash, remask, or erode", r.Mode)
	}

	switch r.Orientation {
	case "pointy", "flat":
	default:
		return fmt.Errorf("invalid reframe.orientation %q: must be pointy or flat", r.Orientation)
	}

	switch r.ShrinkPolicy {
	case "symmetric", "inner", "outer":
	default:
		return fmt.Errorf("invalid reframe.shrink_policy %q: must be symmetric, inner, or outer", r.ShrinkPolicy)
	}

	switch r.AlphaPolicy {
	case "sampled", "geometric":
	default:
		return fmt.Errorf("invalid reframe.alpha_policy %q: must be sampled or geometric", r.AlphaPolicy)
	}

	if r.ThicknessFactor <= 0 || r.ThicknessFactor > 1 {
		return fmt.Errorf("reframe.thickness_factor must be in (0, 1], got %v", r.ThicknessFactor)
	}

	if r.EdgeSoftness < 0 {
		return fmt.Errorf("reframe.edge_softness must be >= 0, got %v", r.EdgeSoftness)
	}

	if r.AlphaThreshold < 0 || r.AlphaThreshold > 255 {
		return fmt.Errorf("reframe.alpha_threshold must be 0-255, got %d", r.AlphaThreshold)
	}

	if r.InnerPercentile < 0 || r.OuterPercentile > 100 || r.InnerPercentile >= r.OuterPercentile {
		return fmt.Errorf("reframe percentiles must satisfy 0 <= inner < outer <= 100, got %v and %v",
			r.InnerPercentile, r.OuterPercentile)
	}

	if r.Margin < 0 {
		return fmt.Errorf("reframe.margin must be >= 0, got %v", r.Margin)
	}

	if r.ErodeIterations < 0 {
		return fmt.Errorf("reframe.erode_iterations must be >= 0, got %d", r.ErodeIterations)
	}
	if r.Mode == "erode" && r.ErodeIterations < 1 {
		return fmt.Errorf("reframe.erode_iterations must be >= 1 for mode erode, got %d", r.ErodeIterations)
	}

	return nil
}

func (s *SliceConfig) validate() error {
	switch s.Mode {
	case "columns":
	case "grid":
		if s.GridCols < 1 {
			return fmt.Errorf("slice.grid_cols must be >= 1 for mode grid, got %d", s.GridCols)
		}
		if s.GridRows < 1 {
			return fmt.Errorf("slice.grid_rows must be >= 1, got %d", s.GridRows)
		}
	default:
		return fmt.Errorf("invalid slice.mode %q: must be columns or grid", s.Mode)
	}

	if s.AlphaThreshold < 0 || s.AlphaThreshold > 255 {
		return fmt.Errorf("slice.alpha_threshold must be 0-255, got %d", s.AlphaThreshold)
	}

	if s.ProjectionThreshold < 0 {
		return fmt.Errorf("slice.projection_threshold must be >= 0, got %d", s.ProjectionThreshold)
	}

	if s.MinWidth < 0 {
		return fmt.Errorf("slice.min_width must be >= 0, got %d", s.MinWidth)
	}

	if s.MergeGap < 0 {
		return fmt.Errorf("slice.merge_gap must be >= 0, got %d", s.MergeGap)
	}

	if s.Padding < 0 {
		return fmt.Errorf("slice.padding must be >= 0, got %d", s.Padding)
	}

	if s.MaxSize < 0 {
		return fmt.Errorf("slice.max_size must be >= 0, got %d", s.MaxSize)
	}

	return nil
}

func (n *NormalizeConfig) validate() error {
	if n.CanvasSize < 0 {
		return fmt.Errorf("normalize.canvas_size must be >= 0, got %d", n.CanvasSize)
	}

	if n.Margin < 0 || n.Margin >= 1 {
		return fmt.Errorf("normalize.margin must be in [0, 1), got %v", n.Margin)
	}

	if n.WhiteThreshold < 0 || n.WhiteThreshold > 255 {
		return fmt.Errorf("normalize.white_threshold must be 0-255, got %d", n.WhiteThreshold)
	}

	if n.AlphaThreshold < 0 || n.AlphaThreshold > 255 {
		return fmt.Errorf("normalize.alpha_threshold must be 0-255, got %d", n.AlphaThreshold)
	}

	return nil
}

// ///////////////////////////////////////////////
// Job Selection
// ///////////////////////////////////////////////

// FindJobs returns the named jobs in manifest order, or all jobs when
// names is empty. Unknown names are an error.
func (m *Manifest) FindJobs(names []string) ([]Job, error) {
	if len(names) == 0 {
		return m.Jobs, nil
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	var jobs []Job
	for _, j := range m.Jobs {
		if want[j.Name] {
			jobs = append(jobs, j)
			delete(want, j.Name)
		}
	}

	if len(want) > 0 {
		missing := make([]string, 0, len(want))
		for n := range want {
			missing = append(missing, n)
		}
		sort.Strings(missing)
		return nil, fmt.Errorf("unknown job(s): %s", strings.Join(missing, ", "))
	}

	return jobs, nil
}
