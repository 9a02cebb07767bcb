// Package registry owns the ONNX sessions. It keeps a small replica
// pool per model variant, hands out serialized leases, and supports
// atomic variant switching and hot reload on file change.
package registry

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"kokorod/internal/domain/eventbus"
	"kokorod/internal/platform/config"
	platformerrors "kokorod/internal/platform/errors"
)

// Variant names one of the interchangeable model checkpoints.
type Variant string

const (
	VariantStandard  Variant = "standard"
	VariantQuantized Variant = "quantized"
	// VariantChinese is the v1.1-zh checkpoint, registered only when a
	// path for it is configured.
	VariantChinese Variant = "chinese"
)

// ParseVariant maps a user-supplied name onto a known variant.
func ParseVariant(s string) (Variant, bool) {
	switch Variant(s) {
	case VariantStandard, VariantQuantized, VariantChinese:
		return Variant(s), true
	}
	return "", false
}

// Runner is one loaded inference session. Implementations are NOT
// assumed reentrant; the lease serializes calls.
type Runner interface {
	Run(tokens []int64, style []float32, speed float32) ([]float32, error)
	Close() error
}

// RunnerFactory loads a session from a model file. Swapped for a fake
// in tests; the default is the onnxruntime-backed loader.
type RunnerFactory func(path string) (Runner, error)

type session struct {
	mu      sync.Mutex
	runner  Runner
	variant Variant
	busy    int
}

type pool struct {
	path     string
	sessions []*session
}

// Registry tracks the variant pools and the active variant. The
// registry lock is always taken before any session mutex; sessions
// never call back into the registry.
type Registry struct {
	mu      sync.Mutex
	pools   map[Variant]*pool
	active  Variant
	factory RunnerFactory
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	done    chan struct{}
}

// Option configures a Registry before the sessions load.
type Option func(*Registry)

// WithRunnerFactory replaces the session loader.
func WithRunnerFactory(f RunnerFactory) Option {
	return func(r *Registry) { r.factory = f }
}

// New loads one pool per configured variant. Missing model files fail
// startup except for the optional Chinese variant, which is skipped
// when unconfigured.
func New(cfg config.ModelConfig, logger *slog.Logger, opts ...Option) (*Registry, error) {
	const op = "registry.New"

	r := &Registry{
		pools:   make(map[Variant]*pool),
		factory: newOnnxRunner(cfg.OrtLibrary),
		logger:  logger,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	replicas := cfg.Replicas
	if replicas < 1 {
		replicas = 1
	}

	variants := []struct {
		variant  Variant
		file     string
		optional bool
	}{
		{VariantStandard, cfg.Standard, false},
		{VariantQuantized, cfg.Quantized, true},
		{VariantChinese, cfg.Chinese, true},
	}
	for _, v := range variants {
		if v.file == "" {
			if v.optional {
				continue
			}
			return nil, platformerrors.Newf(platformerrors.KindConfig, op, "no model file configured for variant %s", v.variant)
		}
		path := v.file
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.Dir, path)
		}
		if _, err := os.Stat(path); err != nil {
			if v.optional {
				logger.Warn("model variant unavailable", "variant", string(v.variant), "path", path)
				continue
			}
			return nil, platformerrors.Wrap(platformerrors.KindResourceMissing, op, "model file "+path, err)
		}
		p, err := r.loadPool(v.variant, path, replicas)
		if err != nil {
			r.Close()
			return nil, err
		}
		r.pools[v.variant] = p
		logger.Info("model variant loaded", "variant", string(v.variant), "path", path, "replicas", replicas)
	}

	active, ok := ParseVariant(cfg.DefaultVariant)
	if !ok {
		active = VariantStandard
	}
	if _, loaded := r.pools[active]; !loaded {
		return nil, platformerrors.Newf(platformerrors.KindConfig, op, "default variant %s has no loaded pool", active)
	}
	r.active = active

	if cfg.HotReload {
		if err := r.watch(); err != nil {
			logger.Warn("model hot reload disabled", "error", err)
		}
	}
	return r, nil
}

func (r *Registry) loadPool(variant Variant, path string, replicas int) (*pool, error) {
	const op = "registry.loadPool"
	p := &pool{path: path}
	for i := 0; i < replicas; i++ {
		runner, err := r.factory(path)
		if err != nil {
			for _, s := range p.sessions {
				s.runner.Close()
			}
			return nil, platformerrors.Wrap(platformerrors.KindResourceMissing, op, "load model "+path, err)
		}
		p.sessions = append(p.sessions, &session{runner: runner, variant: variant})
	}
	return p, nil
}

// Active reports the variant new work is scheduled on.
func (r *Registry) Active() Variant {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Has reports whether a pool is loaded for the variant.
func (r *Registry) Has(variant Variant) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.pools[variant]
	return ok
}

// Variants lists the loaded variants.
func (r *Registry) Variants() []Variant {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Variant, 0, len(r.pools))
	for v := range r.pools {
		out = append(out, v)
	}
	return out
}

// Switch atomically changes the active variant. Work already holding
// a lease finishes on its original session.
func (r *Registry) Switch(variant Variant) error {
	const op = "registry.Switch"
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pools[variant]; !ok {
		return platformerrors.Newf(platformerrors.KindBadInput, op, "variant %s is not loaded", variant)
	}
	if r.active != variant {
		r.active = variant
		eventbus.PublishAsync(eventbus.EventModelSwapped, eventbus.ModelEventData{Variant: string(variant)})
	}
	return nil
}
