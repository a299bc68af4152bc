// Package watch recompiles a source file whenever it changes on disk and
// keeps the latest result for the preview server.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/scc/internal/compiler"
	"git.home.luguber.info/inful/scc/internal/config"
	"git.home.luguber.info/inful/scc/internal/foundation/errors"
	"git.home.luguber.info/inful/scc/internal/logfields"
	"git.home.luguber.info/inful/scc/internal/metrics"
	"git.home.luguber.info/inful/scc/internal/retry"
)

// Compiler is the part of *compiler.Compiler the watcher needs.
type Compiler interface {
	Target() string
	CompileFile(ctx context.Context, path string) (*compiler.Result, error)
}

// Options configures a Watcher.
type Options struct {
	// Debounce is how long the source must stay quiet before a rebuild.
	Debounce time.Duration
	// Output receives the result of every successful build. Empty keeps
	// results in memory only.
	Output string
	// Retry covers reads that race an editor's save. Zero uses
	// retry.DefaultPolicy.
	Retry    retry.Policy
	Recorder metrics.Recorder
	Logger   *slog.Logger
}

// Watcher rebuilds one source file on change. Builds run on a single worker
// goroutine; changes that arrive during a build queue exactly one more.
type Watcher struct {
	source   string
	compiler Compiler
	opts     Options
	status   buildStatus
}

// New validates source and returns a watcher for it.
func New(c Compiler, source string, opts Options) (*Watcher, error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "resolve source path").
			WithContext("path", source).
			Build()
	}
	st, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapError(err, errors.CategoryNotFound, "source file not found").
				WithContext("path", source).
				Build()
		}
		return nil, errors.FileSystemError("cannot stat source").WithContext("path", source).Build()
	}
	if st.IsDir() {
		return nil, errors.ValidationError("watch source must be a file").WithContext("path", source).Build()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = config.DefaultDebounce
	}
	if opts.Retry == (retry.Policy{}) {
		opts.Retry = retry.DefaultPolicy()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Watcher{source: abs, compiler: c, opts: opts}, nil
}

// Source returns the absolute path being watched.
func (w *Watcher) Source() string { return w.source }

// Latest returns the last successful result and the error of the most
// recent build, if it failed.
func (w *Watcher) Latest() (*compiler.Result, error) {
	s := w.status.snapshot()
	return s.result, s.err
}

// Build compiles the source once and records the outcome.
func (w *Watcher) Build(ctx context.Context) error {
	var res *compiler.Result
	err := w.opts.Retry.Do(ctx, transient, func() error {
		var err error
		res, err = w.compiler.CompileFile(ctx, w.source)
		return err
	})
	if err == nil && w.opts.Output != "" {
		err = writeOutput(w.opts.Output, res.Output)
	}
	w.opts.Recorder.IncWatchRebuild(metrics.Result(err))
	if err != nil {
		w.status.setError(err)
		return err
	}
	w.status.setSuccess(res)
	return nil
}

// Run builds once, then rebuilds on every change until ctx is done. A failed
// build is logged and kept for the preview server; it does not stop Run.
func (w *Watcher) Run(ctx context.Context) error {
	log := w.opts.Logger.With(logfields.Path(w.source), logfields.Target(w.compiler.Target()))

	if err := w.Build(ctx); err != nil {
		log.Error("initial build failed", logfields.Error(err))
	} else {
		log.Info("initial build complete")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "start file watcher").Build()
	}
	defer func() { _ = fw.Close() }()
	// Editors often replace files by rename, which drops a watch on the file
	// itself, so the parent directory is watched instead.
	if err := fw.Add(filepath.Dir(w.source)); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "watch source directory").
			WithContext("path", filepath.Dir(w.source)).
			Build()
	}

	log.Info("watching for changes", slog.Duration("debounce", w.opts.Debounce))
	w.loop(ctx, log, fw.Events, fw.Errors)
	return nil
}

// loop feeds relevant events to the rebuild worker until ctx is done or the
// event source closes. It returns only after the worker has exited.
func (w *Watcher) loop(ctx context.Context, log *slog.Logger, events <-chan fsnotify.Event, errs <-chan error) {
	workerCtx, cancel := context.WithCancel(ctx)
	rebuildReq, trigger, stop := newDebouncer(w.opts.Debounce)
	done := w.startWorker(workerCtx, log, rebuildReq)
	defer func() {
		stop()
		cancel()
		<-done
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info("watch stopped")
			return
		case ev, ok := <-events:
			if !ok {
				log.Warn("file watcher closed")
				return
			}
			if w.relevant(ev) {
				log.Debug("change detected", logfields.Event(ev.Op.String()))
				trigger()
			}
		case err, ok := <-errs:
			if !ok {
				log.Warn("file watcher closed")
				return
			}
			log.Warn("watcher error", logfields.Error(err))
		}
	}
}

// transient reports failures worth retrying: a file replaced by rename is
// briefly missing, and reads may fail mid-write.
func transient(err error) bool {
	if cl, ok := errors.AsClassified(err); ok {
		return cl.CanRetry() || errors.HasCategory(err, errors.CategoryNotFound)
	}
	return false
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if shouldIgnoreEvent(ev.Name) || filepath.Clean(ev.Name) != w.source {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// startWorker runs builds for rebuild requests until ctx is done. The
// returned channel closes when the worker exits.
func (w *Watcher) startWorker(ctx context.Context, log *slog.Logger, rebuildReq <-chan struct{}) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
				start := time.Now()
				if err := w.Build(ctx); err != nil {
					logBuildFailure(log, err)
					continue
				}
				log.Info("rebuilt", logfields.Since(start))
			}
		}
	}()
	return done
}

// logBuildFailure logs at warn level when the source needs fixing and at
// error level otherwise.
func logBuildFailure(log *slog.Logger, err error) {
	level := slog.LevelError
	if cl, ok := errors.AsClassified(err); ok && cl.NeedsUserAction() {
		level = slog.LevelWarn
	}
	log.Log(context.Background(), level, "rebuild failed",
		slog.String("category", string(errors.GetCategory(err))),
		logfields.Error(err))
}

// newDebouncer returns a channel that receives one value per quiet period
// after trigger calls. The buffer of one coalesces requests that arrive
// while a build is running.
func newDebouncer(d time.Duration) (<-chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return rebuildReq, trigger, stop
}

// shouldIgnoreEvent reports editor swap, backup and hidden files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return false
}

func writeOutput(path, out string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "create output directory").
				WithContext("path", dir).
				Immediate().
				Build()
		}
	}
	if err := os.WriteFile(path, []byte(out), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write output").
			WithContext("path", path).
			Immediate().
			Build()
	}
	return nil
}

// buildStatus tracks the latest build for the preview server.
type buildStatus struct {
	mu      sync.RWMutex
	result  *compiler.Result
	err     error
	builds  int
	updated time.Time
}

type statusSnapshot struct {
	result  *compiler.Result
	err     error
	builds  int
	updated time.Time
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.err = err
	bs.builds++
	bs.updated = time.Now()
}

func (bs *buildStatus) setSuccess(res *compiler.Result) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.result = res
	bs.err = nil
	bs.builds++
	bs.updated = time.Now()
}

func (bs *buildStatus) snapshot() statusSnapshot {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return statusSnapshot{result: bs.result, err: bs.err, builds: bs.builds, updated: bs.updated}
}
