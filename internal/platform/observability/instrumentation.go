package observability

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

// Enabled reports whether observability has been toggled on.
func Enabled() bool {
	_, cfg := currentLogger()
	return cfg.Enabled
}

// StartSpan records a lightweight span lifecycle around an operation.
// The returned func finishes the span and logs its outcome.
func StartSpan(ctx context.Context, component, operation string) (context.Context, func(error)) {
	logger, _ := currentLogger()
	if logger == nil {
		return ctx, func(error) {}
	}

	start := time.Now()
	logger.LogAttrs(ctx, slog.LevelDebug, "span start",
		slog.String("component", component),
		slog.String("operation", operation),
	)

	return ctx, func(err error) {
		level := slog.LevelDebug
		if err != nil {
			level = slog.LevelError
		}

		attrs := []slog.Attr{
			slog.String("component", component),
			slog.String("operation", operation),
			slog.Duration("duration", time.Since(start)),
		}
		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
		}

		logger.LogAttrs(ctx, level, "span end", attrs...)
	}
}

type counter struct {
	count int64
	sum   float64
}

var (
	metricMu sync.Mutex
	metrics  = map[string]*counter{}
)

func metricKey(name string, labels map[string]string) string {
	if len(labels) == 0 {
		return name
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(name)
	for _, k := range keys {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(labels[k])
	}
	return b.String()
}

// RecordCount bumps a named counter by delta.
func RecordCount(ctx context.Context, name string, delta int64, labels map[string]string) {
	metricMu.Lock()
	c := metrics[metricKey(name, labels)]
	if c == nil {
		c = &counter{}
		metrics[metricKey(name, labels)] = c
	}
	c.count += delta
	metricMu.Unlock()

	if logger, cfg := currentLogger(); logger != nil && cfg.Enabled {
		attrs := []slog.Attr{
			slog.String("metric", name),
			slog.Int64("delta", delta),
		}
		for k, v := range labels {
			attrs = append(attrs, slog.String(k, v))
		}
		logger.LogAttrs(ctx, slog.LevelDebug, "metric count", attrs...)
	}
}

// RecordDuration accumulates a named duration metric.
func RecordDuration(ctx context.Context, name string, d time.Duration, labels map[string]string) {
	metricMu.Lock()
	c := metrics[metricKey(name, labels)]
	if c == nil {
		c = &counter{}
		metrics[metricKey(name, labels)] = c
	}
	c.count++
	c.sum += d.Seconds()
	metricMu.Unlock()

	if logger, cfg := currentLogger(); logger != nil && cfg.Enabled {
		attrs := []slog.Attr{
			slog.String("metric", name),
			slog.Duration("duration", d),
		}
		for k, v := range labels {
			attrs = append(attrs, slog.String(k, v))
		}
		logger.LogAttrs(ctx, slog.LevelDebug, "metric duration", attrs...)
	}
}

// MetricPoint is one aggregated metric series.
type MetricPoint struct {
	Name  string  `json:"name"`
	Count int64   `json:"count"`
	Sum   float64 `json:"sum,omitempty"`
}

// Snapshot returns the aggregated metrics sorted by series name.
func Snapshot() []MetricPoint {
	metricMu.Lock()
	defer metricMu.Unlock()

	points := make([]MetricPoint, 0, len(metrics))
	for key, c := range metrics {
		points = append(points, MetricPoint{Name: key, Count: c.count, Sum: c.sum})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Name < points[j].Name })
	return points
}

func resetMetrics() {
	metricMu.Lock()
	metrics = map[string]*counter{}
	metricMu.Unlock()
}
