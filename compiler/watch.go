package compiler

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/syssam/graphgen/compiler/gen"
)

// DebounceInterval is how long Watch waits for changes to settle before
// it runs the pipeline again.
var DebounceInterval = 100 * time.Millisecond

// Watch runs Generate, then runs it again each time an index document
// changes, until ctx is done. The parent directories of the documents
// are watched so that a document replaced by a rename is still seen.
// onResult receives the outcome of every run.
func Watch(ctx context.Context, cfg *gen.Config, onResult func(*Result, error)) error {
	if cfg == nil || len(cfg.Index) == 0 {
		return gen.NewConfigError("Index", nil, "at least one index document is required")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("compiler: create watcher: %w", err)
	}
	defer w.Close()

	log := logger(cfg)
	watched := make(map[string]bool, len(cfg.Index))
	dirs := make(map[string]bool)
	for _, p := range cfg.Index {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("compiler: watch %s: %w", dir, err)
		}
		dirs[dir] = true
		log.Debug("watch directory", zap.String("dir", dir))
	}

	run := func() {
		res, err := Generate(ctx, cfg)
		if onResult != nil {
			onResult(res, err)
		}
	}
	run()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !watched[abs] || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.Info("index changed", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
			if timer == nil {
				timer = time.NewTimer(DebounceInterval)
			} else {
				timer.Reset(DebounceInterval)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		case <-fire:
			fire = nil
			run()
		}
	}
}
