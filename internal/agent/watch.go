package agent

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watch monitors the inbox via fsnotify and runs a sweep whenever the
// directory has settled for the debounce interval. Sweeps are serialized;
// a failed commit is logged and the watch continues.
func (r *runner) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(r.cfg.InboxDir); err != nil {
		return err
	}
	r.log.Info().Str("inbox", r.cfg.InboxDir).Dur("debounce", r.cfg.Debounce).Msg("watching inbox")

	var (
		mu       sync.Mutex
		debounce *time.Timer
	)
	schedule := func() {
		mu.Lock()
		defer mu.Unlock()
		if debounce != nil {
			debounce.Stop()
		}
		debounce = time.AfterFunc(r.cfg.Debounce, func() {
			if ctx.Err() != nil {
				return
			}
			r.sweep(ctx)
		})
	}
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			schedule()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.log.Warn().Err(err).Msg("inbox watcher error")
		}
	}
}
