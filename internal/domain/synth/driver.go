package synth

import (
	"context"
	"time"

	"kokorod/internal/domain/registry"
	platformerrors "kokorod/internal/platform/errors"
)

// Driver runs one token sequence through a model session. The style
// slice is the single 256-float row matching the token count.
type Driver interface {
	Synthesize(ctx context.Context, variant registry.Variant, tokens []int64, style []float32, speed float32) ([]float32, error)
}

// sessionDriver is the production driver: it leases a session from the
// registry and runs inference on a separate goroutine so the soft
// deadline can abandon a stuck call. ONNX Run is not interruptible;
// an abandoned call finishes in the background and its lease is
// released there, its output discarded.
type sessionDriver struct {
	reg     *registry.Registry
	timeout time.Duration
}

// NewDriver wraps the registry in the per-sentence inference driver.
func NewDriver(reg *registry.Registry, timeout time.Duration) Driver {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &sessionDriver{reg: reg, timeout: timeout}
}

type runResult struct {
	samples []float32
	err     error
}

func (d *sessionDriver) Synthesize(ctx context.Context, variant registry.Variant, tokens []int64, style []float32, speed float32) ([]float32, error) {
	const op = "synth.Driver.Synthesize"

	if len(tokens) < 1 || len(tokens) > MaxTokens {
		return nil, platformerrors.Newf(platformerrors.KindInternal, op, "token count %d outside [1, %d]", len(tokens), MaxTokens)
	}
	if err := ctx.Err(); err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindInferenceFailed, op, "cancelled before inference", err)
	}

	lease, err := d.reg.Acquire(ctx, variant)
	if err != nil {
		return nil, err
	}

	done := make(chan runResult, 1)
	go func() {
		defer lease.Release()
		samples, err := lease.Run(tokens, style, speed)
		done <- runResult{samples: samples, err: err}
	}()

	timer := time.NewTimer(d.timeout)
	defer timer.Stop()
	select {
	case res := <-done:
		return res.samples, res.err
	case <-timer.C:
		return nil, platformerrors.Newf(platformerrors.KindInferenceTimeout, op, "inference exceeded %s", d.timeout)
	case <-ctx.Done():
		return nil, platformerrors.Wrap(platformerrors.KindInferenceFailed, op, "cancelled during inference", ctx.Err())
	}
}
