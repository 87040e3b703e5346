package pipeline

import (
	"errors"
	"log/slog"
	"sync"

	"tileforge/internal/hexring"
	"tileforge/internal/sheet"
)

// ///////////////////////////////////////////////
// Report
// ///////////////////////////////////////////////

// FileResult records the outcome of one input file within a job.
type FileResult struct {
	// Job is the name of the job the file ran under.
	Job string
	// Input is the input as the manifest matched it: a local path or URL.
	Input string
	// Output is the written path; for slice jobs the output directory.
	// Empty when processing never reached the write.
	Output string
	// Err is the failure, nil on success.
	Err error
}

// Report aggregates per-file outcomes across a run. Safe for concurrent
// use by the job worker pools.
type Report struct {
	mu        sync.Mutex
	processed int
	skipped   []FileResult
	failed    []FileResult
}

// Add records one file outcome. A nil error counts as processed, a
// skippable error as skipped, anything else as failed.
func (r *Report) Add(res FileResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case res.Err == nil:
		r.processed++
	case Skippable(res.Err):
		r.skipped = append(r.skipped, res)
	default:
		r.failed = append(r.failed, res)
	}
}

// Skippable reports whether err marks a file the batch moves past
// without counting it as a failure: inputs with no usable content or
// ring geometry.
func Skippable(err error) bool {
	return errors.Is(err, hexring.ErrEmptyImage) ||
		errors.Is(err, hexring.ErrDegenerateGeometry) ||
		errors.Is(err, sheet.ErrNoContent)
}

// Processed returns the count of successfully processed files.
func (r *Report) Processed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.processed
}

// Skipped returns the files skipped for lack of content.
func (r *Report) Skipped() []FileResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]FileResult, len(r.skipped))
	copy(out, r.skipped)
	return out
}

// Failed returns the files that failed outright.
func (r *Report) Failed() []FileResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]FileResult, len(r.failed))
	copy(out, r.failed)
	return out
}

// HasFailures reports whether any file failed. Skips do not count.
func (r *Report) HasFailures() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failed) > 0
}

// Log writes the run summary line.
func (r *Report) Log() {
	r.mu.Lock()
	defer r.mu.Unlock()
	slog.Info("run complete",
		"processed", r.processed,
		"skipped", len(r.skipped),
		"failed", len(r.failed))
}
