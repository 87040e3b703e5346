// Package pipeline executes manifest jobs over their matched inputs.
//
// Jobs run sequentially in manifest order so a later job can consume an
// earlier job's output directory; the files within a job fan out over a
// bounded worker pool. A file that cannot be processed never aborts the
// batch: its outcome lands in the run's [Report] and the pool moves on.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"tileforge/internal/config"
	"tileforge/internal/hexring"
	"tileforge/internal/imageio"
	"tileforge/internal/paths"
	"tileforge/internal/sheet"
)

// ///////////////////////////////////////////////
// Runner
// ///////////////////////////////////////////////

// Runner executes manifest jobs.
type Runner struct {
	// Workers caps per-job parallelism; <= 0 uses one worker per CPU.
	Workers int
	// DryRun logs the files each job would touch without reading or
	// writing any image.
	DryRun bool
	// Fetcher downloads remote inputs. Only needed when a job names
	// http(s) inputs.
	Fetcher *imageio.Fetcher
}

// New returns a Runner whose remote inputs download through the user
// cache dir. When that cannot be resolved the system temp dir stands in.
func New(workers int, dryRun bool) *Runner {
	cacheDir, err := paths.CacheDir()
	if err != nil {
		cacheDir = filepath.Join(os.TempDir(), paths.CacheDirName)
		slog.Warn("user cache dir unavailable, using temp dir", "dir", cacheDir, "error", err)
	}
	return &Runner{
		Workers: workers,
		DryRun:  dryRun,
		Fetcher: &imageio.Fetcher{CacheDir: cacheDir},
	}
}

// Run executes jobs in order and returns the aggregated report. The
// returned error covers run-level problems, bad globs, unwritable
// output dirs, cancellation; per-file outcomes land in the report.
func (r *Runner) Run(ctx context.Context, jobs []config.Job) (*Report, error) {
	rep := &Report{}
	for i := range jobs {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if err := r.runJob(ctx, &jobs[i], rep); err != nil {
			return rep, fmt.Errorf("job %q: %w", jobs[i].Name, err)
		}
	}
	return rep, ctx.Err()
}

// runJob expands the job's inputs and fans them out over the worker pool.
func (r *Runner) runJob(ctx context.Context, job *config.Job, rep *Report) error {
	inputs, err := expandInputs(job.Inputs)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		slog.Warn("no inputs matched", "job", job.Name, "patterns", strings.Join(job.Inputs, ", "))
		return nil
	}

	slog.Info("job started", "job", job.Name, "type", job.Type, "files", len(inputs))

	if r.DryRun {
		for _, in := range inputs {
			out := outputTarget(job, in)
			slog.Info("would process", "job", job.Name, "input", in, "output", out)
			rep.Add(FileResult{Job: job.Name, Input: in, Output: out})
		}
		return nil
	}

	if job.OutputDir != "" {
		if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	files := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for in := range files {
				if ctx.Err() != nil {
					continue
				}
				out, err := r.processFile(job, in)
				rep.Add(FileResult{Job: job.Name, Input: in, Output: out, Err: err})
				logOutcome(job.Name, in, out, err)
			}
		}()
	}

	// Workers drain the channel even after cancellation, so a plain
	// send cannot deadlock here.
	for _, in := range inputs {
		if ctx.Err() != nil {
			break
		}
		files <- in
	}
	close(files)
	wg.Wait()
	return nil
}

// logOutcome writes one line per finished file.
func logOutcome(jobName, input, output string, err error) {
	switch {
	case err == nil:
		slog.Info("processed", "job", jobName, "input", input, "output", output)
	case Skippable(err):
		slog.Warn("skipped", "job", jobName, "input", input, "reason", err)
	default:
		slog.Error("failed", "job", jobName, "input", input, "error", err)
	}
}

// ///////////////////////////////////////////////
// Per-File Processing
// ///////////////////////////////////////////////

// processFile runs one input through the job's transform and writes the
// result, returning the primary output path.
func (r *Runner) processFile(job *config.Job, input string) (string, error) {
	local := input
	if imageio.IsRemote(input) {
		var err error
		local, err = r.Fetcher.Fetch(input)
		if err != nil {
			return "", err
		}
	}

	img, err := imageio.Load(local)
	if err != nil {
		return "", err
	}

	if job.Type == "slice" {
		return r.sliceFile(job, img)
	}

	var res *image.NRGBA
	switch job.Type {
	case "reframe":
		res, err = applyReframe(img, job.Reframe)
	case "normalize":
		res, err = sheet.Normalize(img, normalizeOptions(job.Normalize))
	default:
		err = fmt.Errorf("unknown job type %q", job.Type)
	}
	if err != nil {
		return "", err
	}

	out := outputPathFor(job, input)
	if err := imageio.Save(out, res); err != nil {
		return "", fmt.Errorf("saving %s: %w", out, err)
	}
	return out, nil
}

// sliceFile explodes a sheet into its icons, one file each.
func (r *Runner) sliceFile(job *config.Job, img *image.NRGBA) (string, error) {
	icons, err := sheet.Slice(img, sliceOptions(job.Slice))
	if err != nil {
		return "", err
	}
	for _, ic := range icons {
		out := paths.IconPath(job.OutputDir, ic.Name)
		if err := imageio.Save(out, ic.Image); err != nil {
			return "", fmt.Errorf("saving %s: %w", out, err)
		}
	}
	return job.OutputDir, nil
}

// applyReframe dispatches to the ring operation the manifest selected.
func applyReframe(img *image.NRGBA, c *config.ReframeConfig) (*image.NRGBA, error) {
	if c.Mode == "erode" {
		return hexring.Thin(img, c.ErodeIterations), nil
	}
	opts, err := reframeOptions(c)
	if err != nil {
		return nil, err
	}
	switch c.Mode {
	case "squash":
		return hexring.Squash(img, opts)
	case "remask":
		return hexring.Remask(img, opts)
	}
	return nil, fmt.Errorf("unknown reframe mode %q", c.Mode)
}

// ///////////////////////////////////////////////
// Manifest to Library Options
// ///////////////////////////////////////////////

// reframeOptions translates a validated manifest section into hexring
// options.
func reframeOptions(c *config.ReframeConfig) (hexring.Options, error) {
	orientation, err := hexring.ParseOrientation(c.Orientation)
	if err != nil {
		return hexring.Options{}, err
	}
	shrink, err := hexring.ParseShrinkPolicy(c.ShrinkPolicy)
	if err != nil {
		return hexring.Options{}, err
	}
	alpha, err := hexring.ParseAlphaPolicy(c.AlphaPolicy)
	if err != nil {
		return hexring.Options{}, err
	}
	return hexring.Options{
		Orientation:     orientation,
		ThicknessFactor: c.ThicknessFactor,
		EdgeSoftness:    c.EdgeSoftness,
		AlphaThreshold:  uint8(c.AlphaThreshold),
		InnerPercentile: c.InnerPercentile,
		OuterPercentile: c.OuterPercentile,
		Shrink:          shrink,
		Alpha:           alpha,
		Margin:          c.Margin,
	}, nil
}

func sliceOptions(c *config.SliceConfig) sheet.SliceOptions {
	return sheet.SliceOptions{
		Grid:     c.Mode == "grid",
		GridCols: c.GridCols,
		GridRows: c.GridRows,
		Detect: sheet.DetectOptions{
			SumThreshold: c.ProjectionThreshold,
			MinWidth:     c.MinWidth,
			MergeGap:     c.MergeGap,
		},
		AlphaThreshold: uint8(c.AlphaThreshold),
		Names:          c.Names,
		Padding:        c.Padding,
		Uniform:        c.Uniform,
		MaxSize:        c.MaxSize,
	}
}

func normalizeOptions(c *config.NormalizeConfig) sheet.NormalizeOptions {
	return sheet.NormalizeOptions{
		CanvasSize:     c.CanvasSize,
		Margin:         c.Margin,
		WhiteThreshold: uint8(c.WhiteThreshold),
		AlphaThreshold: uint8(c.AlphaThreshold),
	}
}

// ///////////////////////////////////////////////
// Input and Output Paths
// ///////////////////////////////////////////////

// expandInputs resolves input patterns to concrete inputs: globs expand
// through doublestar in pattern order with duplicates removed, URLs pass
// through as-is. Matched directories are dropped so a stray folder named
// like an image cannot reach the decoder.
func expandInputs(patterns []string) ([]string, error) {
	var inputs []string
	seen := make(map[string]bool)
	for _, p := range patterns {
		if imageio.IsRemote(p) {
			if !seen[p] {
				seen[p] = true
				inputs = append(inputs, p)
			}
			continue
		}
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", p, err)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			if info, statErr := os.Stat(m); statErr != nil || info.IsDir() {
				continue
			}
			seen[m] = true
			inputs = append(inputs, m)
		}
	}
	return inputs, nil
}

// outputPathFor picks the destination for one processed input. Remote
// inputs name their output after the URL path's base, always with the
// PNG extension; validation guarantees they carry an output dir.
func outputPathFor(job *config.Job, input string) string {
	if imageio.IsRemote(input) {
		return filepath.Join(job.OutputDir, remoteName(input))
	}
	return paths.OutputPath(job.OutputDir, input)
}

// outputTarget is outputPathFor generalized over slice jobs, whose
// output names are unknown before detection runs.
func outputTarget(job *config.Job, input string) string {
	if job.Type == "slice" {
		return job.OutputDir
	}
	return outputPathFor(job, input)
}

// remoteName derives an output file name from a URL.
func remoteName(rawURL string) string {
	base := "download"
	if u, err := url.Parse(rawURL); err == nil {
		if b := path.Base(u.Path); b != "." && b != "/" && b != "" {
			base = b
		}
	}
	return strings.TrimSuffix(base, path.Ext(base)) + paths.OutputExt
}
