// Command tileforge processes hex-tile game art in batches. It reads a TOML
// manifest describing jobs, then reshapes hexagon ring frames, slices sprite
// sheets into named icons, and normalizes texture canvases.
//
// Usage:
//
//	tileforge [run] [jobs...]   process manifest jobs once
//	tileforge watch [jobs...]   process jobs, then re-run them as inputs change
//	tileforge jobs              list manifest jobs
//	tileforge init              write a starter manifest
//
// Exit status is 0 when every file processed or was skipped, and 1 when any
// file failed or the manifest could not be loaded.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"

	"tileforge"
	"tileforge/internal/config"
	"tileforge/internal/logger"
	"tileforge/internal/paths"
	"tileforge/internal/pipeline"
	"tileforge/internal/watch"
)

// ///////////////////////////////////////////////
// Version Resolution
// ///////////////////////////////////////////////

// version is overridden at build time via:
//
//	go build -ldflags "-X main.version=v1.2.3"
//
// When ldflags are not set (bare go build), resolveVersion reads the VCS info
// that Go embeds automatically, so dev builds get a useful version string
// without needing git at runtime.
var version = "dev"

func resolveVersion() string {
	if version != "dev" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version
	}
	var revision string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if revision == "" {
		return version
	}
	hash := revision[:min(7, len(revision))]
	if dirty {
		return "dev+" + hash + ".dirty"
	}
	return "dev+" + hash
}

// ///////////////////////////////////////////////
// CLI Definition
// ///////////////////////////////////////////////

const desc = `Batch art pipeline for hex-tile games.

Reads a TOML manifest describing jobs, then reshapes hexagon ring frames,
slices sprite sheets into named icons, and normalizes texture canvases.`

var cli struct {
	Manifest string           `short:"m" default:"${manifest}" help:"Manifest file path."`
	Workers  int              `short:"w" default:"-1" help:"Parallel files per job; 0 means one per CPU. Overrides the manifest."`
	Version  kong.VersionFlag `short:"V" help:"Print version and exit."`

	Run   runCmd   `cmd:"" default:"withargs" help:"Process manifest jobs once."`
	Watch watchCmd `cmd:"" help:"Process jobs, then re-run them as their inputs change."`
	Jobs  jobsCmd  `cmd:"" help:"List manifest jobs."`
	Init  initCmd  `cmd:"" help:"Write a starter manifest."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name(paths.BinaryName),
		kong.Description(desc),
		kong.Vars{
			"manifest": paths.ManifestFile,
			"version":  resolveVersion(),
		},
	)
	ctx.FatalIfErrorf(ctx.Run())
}

// ///////////////////////////////////////////////
// Shared Setup
// ///////////////////////////////////////////////

// loadManifest reads the manifest named by --manifest.
func loadManifest() (*config.Manifest, error) {
	m, err := config.Load(cli.Manifest)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("no manifest at %s; run `%s init` to create one", cli.Manifest, paths.BinaryName)
		}
		return nil, err
	}
	return m, nil
}

// installLogger installs the process-wide logger per the manifest's [log]
// section. The returned closer is nil when logging to stderr.
func installLogger(m *config.Manifest) (io.Closer, error) {
	level := logger.ParseLevel(m.Log.Level)
	if m.Log.File != "" {
		log, closer, err := logger.NewRotating(m.Log.File, level, m.Log.MaxSizeMB)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		slog.SetDefault(log)
		return closer, nil
	}
	slog.SetDefault(logger.NewStderr(level))
	return nil, nil
}

// effectiveWorkers picks the worker count: the -w flag when given, otherwise
// the manifest's global setting. Zero means one worker per CPU downstream.
func effectiveWorkers(flag, manifest int) int {
	if flag >= 0 {
		return flag
	}
	return manifest
}

// signalContext derives a context that is canceled on the first interrupt
// signal, letting in-flight files finish before the process exits.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	ch := signalChannel()
	go func() {
		select {
		case <-ch:
			slog.Info("interrupt received, finishing in-flight files")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// ///////////////////////////////////////////////
// run
// ///////////////////////////////////////////////

type runCmd struct {
	DryRun bool     `help:"List the files each job would process without writing anything."`
	Jobs   []string `arg:"" optional:"" help:"Job names from the manifest; all jobs when omitted."`
}

func (c *runCmd) Run() error {
	m, err := loadManifest()
	if err != nil {
		return err
	}
	closer, err := installLogger(m)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	jobs, err := m.FindJobs(c.Jobs)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(context.Background())
	defer cancel()

	r := pipeline.New(effectiveWorkers(cli.Workers, m.Workers), c.DryRun)
	rep, err := r.Run(ctx, jobs)
	rep.Log()
	if err != nil {
		return err
	}
	if rep.HasFailures() {
		return fmt.Errorf("%d file(s) failed", len(rep.Failed()))
	}
	return nil
}

// ///////////////////////////////////////////////
// watch
// ///////////////////////////////////////////////

type watchCmd struct {
	Jobs []string `arg:"" optional:"" help:"Job names from the manifest; all jobs when omitted."`
}

func (c *watchCmd) Run() error {
	m, err := loadManifest()
	if err != nil {
		return err
	}
	closer, err := installLogger(m)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	jobs, err := m.FindJobs(c.Jobs)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(context.Background())
	defer cancel()

	// Full pass first so every output exists before watching starts.
	r := pipeline.New(effectiveWorkers(cli.Workers, m.Workers), false)
	rep, err := r.Run(ctx, jobs)
	rep.Log()
	if err != nil {
		return err
	}

	w, err := watch.New(jobs)
	if err != nil {
		return err
	}
	defer w.Close()

	if w.Polling() {
		slog.Info("file events unavailable, polling for changes")
	}
	slog.Info("watching for changes", "jobs", len(jobs))

	for {
		select {
		case <-ctx.Done():
			slog.Info("shutting down")
			return nil
		case names := <-w.Triggers():
			changed, err := m.FindJobs(names)
			if err != nil {
				// Trigger names come from the manifest itself.
				slog.Error("matching changed jobs", "error", err)
				continue
			}
			slog.Info("inputs changed", "jobs", strings.Join(names, ","))
			rep, runErr := r.Run(ctx, changed)
			rep.Log()
			if runErr != nil {
				if ctx.Err() != nil {
					slog.Info("shutting down")
					return nil
				}
				slog.Error("run failed", "error", runErr)
			}
		}
	}
}

// ///////////////////////////////////////////////
// jobs
// ///////////////////////////////////////////////

type jobsCmd struct{}

func (c *jobsCmd) Run() error {
	m, err := loadManifest()
	if err != nil {
		return err
	}
	fmt.Print(formatJobs(m))
	return nil
}

// formatJobs renders the manifest's job table in declaration order.
func formatJobs(m *config.Manifest) string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tOUTPUT\tINPUTS")
	for _, j := range m.Jobs {
		dest := j.OutputDir
		if dest == "" {
			dest = "(in place)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", j.Name, j.Type, dest, strings.Join(j.Inputs, " "))
	}
	tw.Flush()
	return b.String()
}

// ///////////////////////////////////////////////
// init
// ///////////////////////////////////////////////

type initCmd struct{}

func (c *initCmd) Run() error {
	if _, err := os.Stat(cli.Manifest); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", cli.Manifest)
	}
	if err := os.WriteFile(cli.Manifest, tileforge.DefaultManifestTOML, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	fmt.Printf("wrote %s\n", cli.Manifest)
	return nil
}
