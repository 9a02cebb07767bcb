package eventbus

import (
	"context"
	"log/slog"
	"time"

	"kokorod/internal/platform/storage"
)

// UsageRecorder subscribes to synthesis lifecycle events and persists
// them as usage records.
type UsageRecorder struct {
	repo   *storage.UsageRepository
	logger *slog.Logger
}

func NewUsageRecorder(repo *storage.UsageRepository, logger *slog.Logger) *UsageRecorder {
	return &UsageRecorder{repo: repo, logger: logger}
}

// Register subscribes the recorder on the async bus so database writes
// stay off the synthesis path.
func (r *UsageRecorder) Register() error {
	if err := SubscribeAsync(EventSynthesisCompleted, r.onSynthesis); err != nil {
		return err
	}
	if err := SubscribeAsync(EventSynthesisFailed, r.onSynthesis); err != nil {
		return err
	}
	return SubscribeAsync(EventStreamClosed, r.onStreamClosed)
}

func (r *UsageRecorder) onSynthesis(data SynthesisEventData) {
	rec := &storage.UsageRecord{
		RequestID: data.RequestID,
		Surface:   data.Surface,
		Kind:      storage.KindSpeech,
		Voice:     data.Voice,
		Language:  data.Language,
		Variant:   data.Variant,
		TextChars: data.TextChars,
		Sentences: data.Sentences,
		AudioMs:   data.AudioMs,
		ElapsedMs: data.ElapsedMs,
		Status:    data.Status,
		ErrorKind: data.ErrorKind,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.repo.Record(ctx, rec); err != nil && r.logger != nil {
		r.logger.Warn("record usage", "request_id", data.RequestID, "error", err)
	}
}

func (r *UsageRecorder) onStreamClosed(data StreamEventData) {
	rec := &storage.UsageRecord{
		RequestID: data.SessionID,
		Surface:   storage.SurfaceWS,
		Kind:      storage.KindStream,
		Voice:     data.Voice,
		Language:  data.Language,
		Sentences: data.Chunks,
		AudioMs:   data.AudioMs,
		Status:    storage.StatusOK,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.repo.Record(ctx, rec); err != nil && r.logger != nil {
		r.logger.Warn("record stream usage", "session_id", data.SessionID, "error", err)
	}
}
