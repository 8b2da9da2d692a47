package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aluiziolira/go-order-report/models"
	"github.com/fsnotify/fsnotify"
)

// Runner is the unit of work the watcher triggers.
type Runner interface {
	Run(ctx context.Context) (*models.RunResult, error)
}

// Watcher re-runs the pipeline when files land in the incoming directory.
// Events are debounced with a settle delay so a burst of drops (or a slow
// copy) triggers one run after the directory goes quiet. Runs stay
// sequential: the watcher itself executes them, one at a time.
type Watcher struct {
	dir    string
	settle time.Duration
	runner Runner
}

// NewWatcher builds a watcher over dir triggering runner after settle.
func NewWatcher(dir string, settle time.Duration, runner Runner) *Watcher {
	return &Watcher{dir: dir, settle: settle, runner: runner}
}

// Watch blocks until ctx is done, running the pipeline after each settled
// burst of file events. A failed run is logged and watching continues.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	slog.Info("watching incoming directory", slog.String("dir", w.dir))

	settle := time.NewTimer(w.settle)
	if !settle.Stop() {
		<-settle.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("file event", slog.String("event", event.String()))
			if !settle.Stop() {
				select {
				case <-settle.C:
				default:
				}
			}
			settle.Reset(w.settle)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watcher error", slog.Any("error", err))

		case <-settle.C:
			if _, err := w.runner.Run(ctx); err != nil {
				slog.Error("run failed", slog.Any("error", err))
			}
		}
	}
}
