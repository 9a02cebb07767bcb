package observability

import (
	"context"
	"testing"
	"time"
)

func TestRecordCount_Aggregates(t *testing.T) {
	resetMetrics()
	ctx := context.Background()

	RecordCount(ctx, "synthesis.requests", 1, map[string]string{"lang": "en-us"})
	RecordCount(ctx, "synthesis.requests", 2, map[string]string{"lang": "en-us"})
	RecordCount(ctx, "synthesis.requests", 1, map[string]string{"lang": "ja"})

	snap := Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 series, got %d", len(snap))
	}
	for _, p := range snap {
		switch p.Name {
		case "synthesis.requests|lang=en-us":
			if p.Count != 3 {
				t.Errorf("en-us count = %d, want 3", p.Count)
			}
		case "synthesis.requests|lang=ja":
			if p.Count != 1 {
				t.Errorf("ja count = %d, want 1", p.Count)
			}
		default:
			t.Errorf("unexpected series %q", p.Name)
		}
	}
}

func TestRecordDuration_Sums(t *testing.T) {
	resetMetrics()
	ctx := context.Background()

	RecordDuration(ctx, "synthesis.duration", 100*time.Millisecond, nil)
	RecordDuration(ctx, "synthesis.duration", 400*time.Millisecond, nil)

	snap := Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected 1 series, got %d", len(snap))
	}
	if snap[0].Count != 2 {
		t.Errorf("count = %d, want 2", snap[0].Count)
	}
	if snap[0].Sum < 0.49 || snap[0].Sum > 0.51 {
		t.Errorf("sum = %f, want about 0.5", snap[0].Sum)
	}
}

func TestStartSpan_NilLoggerSafe(t *testing.T) {
	stateMu.Lock()
	obsLog = nil
	stateMu.Unlock()

	_, finish := StartSpan(context.Background(), "test", "op")
	finish(nil)
}
