package registry

import (
	"context"

	platformerrors "kokorod/internal/platform/errors"
)

// Lease is exclusive access to one session replica. Release it as
// soon as the Run call returns.
type Lease struct {
	s *session
	r *Registry
}

// Acquire picks the least-loaded replica of the variant and locks it.
// An empty variant means the active one. Blocks until the replica's
// mutex is free or the context ends.
func (r *Registry) Acquire(ctx context.Context, variant Variant) (*Lease, error) {
	const op = "registry.Acquire"

	r.mu.Lock()
	if variant == "" {
		variant = r.active
	}
	p, ok := r.pools[variant]
	if !ok {
		r.mu.Unlock()
		return nil, platformerrors.Newf(platformerrors.KindBadInput, op, "variant %s is not loaded", variant)
	}
	best := p.sessions[0]
	for _, s := range p.sessions[1:] {
		if s.busy < best.busy {
			best = s
		}
	}
	best.busy++
	r.mu.Unlock()

	// The session mutex is only ever taken after the registry lock is
	// released, so lock order is fixed.
	locked := make(chan struct{})
	go func() {
		best.mu.Lock()
		close(locked)
	}()
	select {
	case <-locked:
		return &Lease{s: best, r: r}, nil
	case <-ctx.Done():
		go func() {
			<-locked
			best.mu.Unlock()
			r.release(best)
		}()
		return nil, platformerrors.Wrap(platformerrors.KindInferenceTimeout, op, "waiting for session lease", ctx.Err())
	}
}

func (r *Registry) release(s *session) {
	r.mu.Lock()
	if s.busy > 0 {
		s.busy--
	}
	r.mu.Unlock()
}

// Variant reports which checkpoint the lease runs on.
func (l *Lease) Variant() Variant {
	return l.s.variant
}

// Run invokes the session. Serialized by the lease; the call is
// CPU-bound and not interruptible.
func (l *Lease) Run(tokens []int64, style []float32, speed float32) ([]float32, error) {
	const op = "registry.Lease.Run"
	samples, err := l.s.runner.Run(tokens, style, speed)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindInferenceFailed, op, "session run", err)
	}
	return samples, nil
}

// Release unlocks the replica and returns it to the pool.
func (l *Lease) Release() {
	if l.s == nil {
		return
	}
	l.s.mu.Unlock()
	l.r.release(l.s)
	l.s = nil
}
