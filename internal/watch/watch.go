// Package watch re-runs manifest jobs when their input files change.
//
// The watcher covers the distinct parent directories of every job's
// local input globs with fsnotify, falling back to modification-time
// polling when the platform watcher is unavailable. Changed paths are
// debounced and matched back to jobs through their input patterns, so a
// burst of writes triggers each affected job once.
package watch

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"tileforge/internal/config"
	"tileforge/internal/imageio"
)

// ///////////////////////////////////////////////
// Watcher
// ///////////////////////////////////////////////

// Watcher monitors job input directories and delivers debounced batches
// of job names to re-run.
type Watcher struct {
	// jobs are the watchable jobs, in manifest order.
	jobs []config.Job
	// dirs are the watched directories.
	dirs []string
	// recursive lists glob bases with a ** component; directories
	// created under one are added to the watch as they appear.
	recursive []string
	// debounce is how long after the last change a trigger waits.
	debounce time.Duration
	// pollInterval is the duration between scans in polling mode.
	pollInterval time.Duration

	// events carries changed paths from the watch loops to the
	// debouncer. The empty path is the poll-mode sentinel matching
	// every job.
	events chan string
	// triggers delivers debounced job-name batches.
	triggers chan []string
	// done is closed by [Watcher.Close] to signal goroutines to exit.
	done chan struct{}
	// fsw is the underlying fsnotify watcher; nil when polling.
	fsw *fsnotify.Watcher
	// once ensures [Watcher.Close] is idempotent.
	once sync.Once
	// polling is true when the watcher has fallen back to polling.
	polling atomic.Bool
	// overflow is set when the events queue dropped a path; the next
	// trigger widens to every job so nothing is missed.
	overflow atomic.Bool
}

// New creates a Watcher over the jobs' input directories. Jobs that
// write in place are dropped with a warning: their outputs land inside
// the watched inputs and would retrigger forever.
func New(jobs []config.Job) (*Watcher, error) {
	var watchable []config.Job
	for _, j := range jobs {
		if j.OutputDir == "" {
			slog.Warn("watch skips in-place jobs, outputs would retrigger the watch", "job", j.Name)
			continue
		}
		watchable = append(watchable, j)
	}
	if len(watchable) == 0 {
		return nil, fmt.Errorf("no watchable jobs: every selected job writes in place")
	}

	w := &Watcher{
		jobs:         watchable,
		debounce:     500 * time.Millisecond,
		pollInterval: 2 * time.Second,
		events:       make(chan string, 256),
		triggers:     make(chan []string, 1),
		done:         make(chan struct{}),
	}
	w.dirs, w.recursive = inputDirs(watchable)

	go w.debounceLoop()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Info("fsnotify unavailable, falling back to polling", "error", err)
		w.polling.Store(true)
		go w.pollLoop()
		return w, nil
	}

	w.fsw = fsw
	added := 0
	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			slog.Warn("cannot watch directory", "path", dir, "error", err)
			continue
		}
		added++
	}
	if added == 0 {
		slog.Info("no directory watchable, falling back to polling")
		fsw.Close()
		w.fsw = nil
		w.polling.Store(true)
		go w.pollLoop()
		return w, nil
	}

	go w.watchLoop()
	return w, nil
}

// Triggers returns the channel delivering job-name batches to re-run.
func (w *Watcher) Triggers() <-chan []string {
	return w.triggers
}

// Polling reports whether the watcher is using polling instead of fsnotify.
func (w *Watcher) Polling() bool {
	return w.polling.Load()
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		if w.fsw != nil {
			if closeErr := w.fsw.Close(); closeErr != nil {
				err = fmt.Errorf("closing fsnotify watcher: %w", closeErr)
			}
		}
	})
	return err
}

// ///////////////////////////////////////////////
// Event Loops
// ///////////////////////////////////////////////

// watchLoop forwards fsnotify write/create events to the debouncer. If
// fsnotify fails mid-flight the loop closes it and falls back to polling.
func (w *Watcher) watchLoop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.addCreatedDir(event.Name)
					continue
				}
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.notify(event.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Info("fsnotify error, switching to polling", "error", err)
			w.fsw.Close()
			w.fsw = nil
			w.polling.Store(true)
			go w.pollLoop()
			return
		}
	}
}

// addCreatedDir starts watching a directory that appeared under a
// recursive glob base, so files deeper down keep triggering.
func (w *Watcher) addCreatedDir(dir string) {
	under := false
	for _, base := range w.recursive {
		if dir == base || strings.HasPrefix(dir, base+string(filepath.Separator)) {
			under = true
			break
		}
	}
	if !under {
		return
	}
	if err := w.fsw.Add(dir); err != nil {
		slog.Warn("cannot watch new directory", "path", dir, "error", err)
		return
	}
	w.dirs = append(w.dirs, dir)
	slog.Debug("watching new directory", "path", dir)
}

// pollLoop rescans the watched directories and emits the match-all
// sentinel whenever any file's modification time advances. Poll mode
// cannot tell which file changed.
func (w *Watcher) pollLoop() {
	last := w.latestMod()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			mod := w.latestMod()
			if mod.After(last) {
				last = mod
				w.notify("")
			}
		}
	}
}

// latestMod returns the most recent file modification time across the
// watched directories.
func (w *Watcher) latestMod() time.Time {
	var latest time.Time
	for _, dir := range w.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(latest) {
				latest = info.ModTime()
			}
		}
	}
	return latest
}

// notify queues one changed path. When the queue is full the overflow
// flag widens the next trigger to every job instead.
func (w *Watcher) notify(path string) {
	select {
	case w.events <- path:
	default:
		w.overflow.Store(true)
	}
}

// debounceLoop collects changed paths until the debounce window closes,
// then delivers the matching job names. When the consumer is still busy
// with the previous batch the window extends and changes keep
// accumulating.
func (w *Watcher) debounceLoop() {
	changed := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-w.done:
			return
		case p := <-w.events:
			changed[p] = true
			timer.Reset(w.debounce)
		case <-timer.C:
			if w.overflow.Swap(false) {
				changed[""] = true
			}
			names := w.matchJobs(changed)
			if len(names) == 0 {
				clear(changed)
				continue
			}
			select {
			case w.triggers <- names:
				clear(changed)
			default:
				timer.Reset(w.debounce)
			}
		}
	}
}

// ///////////////////////////////////////////////
// Job Matching
// ///////////////////////////////////////////////

// matchJobs maps a changed-path set to the jobs whose inputs cover any
// of the paths, in manifest order. The empty sentinel matches every job.
func (w *Watcher) matchJobs(changed map[string]bool) []string {
	var names []string
	for i := range w.jobs {
		j := &w.jobs[i]
		for p := range changed {
			if p == "" || jobMatches(j, p) {
				names = append(names, j.Name)
				break
			}
		}
	}
	return names
}

// jobMatches reports whether path matches any of the job's local input
// patterns.
func jobMatches(j *config.Job, path string) bool {
	for _, pat := range j.Inputs {
		if imageio.IsRemote(pat) {
			continue
		}
		if ok, err := doublestar.PathMatch(pat, path); err == nil && ok {
			return true
		}
	}
	return false
}

// inputDirs returns the distinct directories the jobs' local input
// patterns live under: each glob's static prefix, plus existing
// subdirectories for patterns with a recursive component. The second
// result lists the recursive bases themselves.
func inputDirs(jobs []config.Job) (dirs, recursive []string) {
	seen := make(map[string]bool)
	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	recursiveSeen := make(map[string]bool)
	for _, j := range jobs {
		for _, pat := range j.Inputs {
			if imageio.IsRemote(pat) {
				continue
			}
			base, rest := doublestar.SplitPattern(pat)
			add(base)
			if !strings.Contains(rest, "**") || recursiveSeen[base] {
				continue
			}
			recursiveSeen[base] = true
			recursive = append(recursive, base)
			filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					return nil
				}
				if d.IsDir() {
					add(p)
				}
				return nil
			})
		}
	}
	return dirs, recursive
}
