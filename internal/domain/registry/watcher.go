package registry

import (
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"kokorod/internal/domain/eventbus"
)

// watch reloads a variant's pool in place when its model file is
// rewritten. Downloaders replace the file with several write events
// in a burst, so reloads are debounced.
func (r *Registry) watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	r.watcher = watcher

	r.mu.Lock()
	for _, p := range r.pools {
		if err := watcher.Add(p.path); err != nil {
			r.logger.Warn("watch model file", "path", p.path, "error", err)
		}
	}
	r.mu.Unlock()

	go r.watchLoop()
	return nil
}

func (r *Registry) watchLoop() {
	const debounce = 2 * time.Second
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				pending[event.Name] = time.Now()
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.logger.Warn("model watcher error", "error", err)
		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < debounce {
					continue
				}
				delete(pending, path)
				r.reloadPath(path)
			}
		}
	}
}

func (r *Registry) reloadPath(path string) {
	r.mu.Lock()
	var variant Variant
	var old *pool
	for v, p := range r.pools {
		if p.path == path || strings.HasSuffix(path, p.path) {
			variant, old = v, p
			break
		}
	}
	r.mu.Unlock()
	if old == nil {
		return
	}

	fresh, err := r.loadPool(variant, old.path, len(old.sessions))
	if err != nil {
		r.logger.Error("model reload failed, keeping previous sessions", "variant", string(variant), "error", err)
		return
	}

	r.mu.Lock()
	r.pools[variant] = fresh
	r.mu.Unlock()

	// Old sessions close once in-flight leases drain.
	go func() {
		for _, s := range old.sessions {
			s.mu.Lock()
			s.runner.Close()
			s.mu.Unlock()
		}
	}()

	r.logger.Info("model variant reloaded", "variant", string(variant), "path", path)
	eventbus.PublishAsync(eventbus.EventModelSwapped, eventbus.ModelEventData{
		Variant:  string(variant),
		Path:     path,
		Replicas: len(old.sessions),
	})
}

// Close tears down the watcher and every session. Callers must have
// stopped scheduling work first.
func (r *Registry) Close() error {
	select {
	case <-r.done:
	default:
		close(r.done)
	}
	if r.watcher != nil {
		r.watcher.Close()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.pools {
		for _, s := range p.sessions {
			s.mu.Lock()
			s.runner.Close()
			s.mu.Unlock()
		}
	}
	r.pools = map[Variant]*pool{}
	return nil
}
