package stream

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"kokorod/internal/domain/audio"
	"kokorod/internal/domain/eventbus"
	"kokorod/internal/domain/synth"
	"kokorod/internal/domain/text"
	platformerrors "kokorod/internal/platform/errors"
)

// State is the session lifecycle phase.
type State int

const (
	StateOpen State = iota
	StateFlushing
	StateCancelled
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateFlushing:
		return "flushing"
	case StateCancelled:
		return "cancelled"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// streamTerminators marks where a buffered fragment run can be cut. A
// newline counts as a soft sentence end the same way the segmenter
// treats it.
const streamTerminators = ".!?。！？\n"

// pendingChunk is one scheduled sentence. The synthesis goroutine fills
// samples or err, then closes done; the delivery loop consumes them in
// queue order.
type pendingChunk struct {
	text    string
	done    chan struct{}
	samples []float32
	err     error
}

// Session buffers incoming text and emits ordered audio chunks.
//
// Two locks: mu guards state and the text buffer and is never held
// across a blocking operation; appendMu serializes Append/End so
// extracted sentences enter the queue in arrival order.
type Session struct {
	id      string
	manager *Manager
	cfg     SessionConfig

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	state  State
	buffer string

	appendMu sync.Mutex
	inflight chan *pendingChunk
	out      chan Chunk

	// owned by deliverLoop until delivered.Wait returns
	delivered    sync.WaitGroup
	emitted      int
	totalSamples int
}

// ID returns the session's identifier.
func (s *Session) ID() string { return s.id }

// Chunks is the ordered audio channel. It closes after End drains the
// session or after Cancel.
func (s *Session) Chunks() <-chan Chunk { return s.out }

// State reports the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Append adds a fragment, scheduling every sentence it completes.
// Blocks while the in-flight queue is full.
func (s *Session) Append(ctx context.Context, fragment string) error {
	const op = "stream.Session.Append"
	s.appendMu.Lock()
	defer s.appendMu.Unlock()

	ready, err := s.buffered(op, fragment)
	if err != nil {
		return err
	}
	for _, sentence := range ready {
		if err := s.enqueue(ctx, sentence); err != nil {
			return err
		}
	}
	return nil
}

// TryAppend is the non-blocking Append: when the queue is full the
// unscheduled sentences go back to the buffer and the caller gets a
// backpressure error to retry on.
func (s *Session) TryAppend(fragment string) error {
	const op = "stream.Session.TryAppend"
	s.appendMu.Lock()
	defer s.appendMu.Unlock()

	ready, err := s.buffered(op, fragment)
	if err != nil {
		return err
	}
	for i, sentence := range ready {
		p := &pendingChunk{text: sentence, done: make(chan struct{})}
		select {
		case s.inflight <- p:
			s.synthesize(p)
		default:
			s.restore(ready[i:])
			return platformerrors.Newf(platformerrors.KindBackpressure, op,
				"session %s has %d chunks in flight", s.id, cap(s.inflight))
		}
	}
	return nil
}

// End flushes the buffered tail, waits for every scheduled chunk to
// deliver, and closes the session.
func (s *Session) End(ctx context.Context) error {
	const op = "stream.Session.End"
	s.appendMu.Lock()
	defer s.appendMu.Unlock()

	s.mu.Lock()
	if s.state != StateOpen {
		state := s.state
		s.mu.Unlock()
		return platformerrors.Newf(platformerrors.KindSessionNotFound, op, "session %s is %s", s.id, state)
	}
	s.state = StateFlushing
	tail := s.buffer
	s.buffer = ""
	s.mu.Unlock()

	for _, sentence := range text.Sentences(tail) {
		if err := s.enqueue(ctx, sentence); err != nil {
			s.Cancel()
			return err
		}
	}
	close(s.inflight)

	drained := make(chan struct{})
	go func() {
		s.delivered.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-ctx.Done():
		s.Cancel()
		return platformerrors.Wrap(platformerrors.KindTransport, op, "abandoned while draining", ctx.Err())
	}

	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()
	s.manager.remove(s.id)

	s.manager.logger.Info("stream session closed",
		"session", s.id, "chunks", s.emitted, "audio_ms", audio.DurationMs(s.totalSamples))
	eventbus.PublishAsync(eventbus.EventStreamClosed, eventbus.StreamEventData{
		SessionID: s.id,
		Voice:     s.cfg.Voice,
		Chunks:    s.emitted,
		AudioMs:   audio.DurationMs(s.totalSamples),
	})
	return nil
}

// Cancel aborts the session immediately. In-flight sentences finish in
// the background but their audio is discarded. Idempotent.
func (s *Session) Cancel() {
	s.cancel()

	s.mu.Lock()
	if s.state == StateCancelled || s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.state = StateCancelled
	s.buffer = ""
	s.mu.Unlock()
	s.manager.remove(s.id)

	s.manager.logger.Info("stream session cancelled", "session", s.id)
	eventbus.PublishAsync(eventbus.EventStreamCancelled, eventbus.StreamEventData{
		SessionID: s.id,
		Voice:     s.cfg.Voice,
	})
}

// buffered appends the fragment under the state lock and extracts the
// sentences that are ready to schedule.
func (s *Session) buffered(op, fragment string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateOpen {
		return nil, platformerrors.Newf(platformerrors.KindSessionNotFound, op, "session %s is %s", s.id, s.state)
	}
	s.buffer += fragment
	return s.takeReadyLocked(), nil
}

// takeReadyLocked cuts the buffer at its last terminator and returns
// the completed sentences, holding back any run still shorter than the
// minimum so tiny fragments ride along with the next sentence.
func (s *Session) takeReadyLocked() []string {
	i := strings.LastIndexAny(s.buffer, streamTerminators)
	if i < 0 {
		return nil
	}
	_, size := utf8.DecodeRuneInString(s.buffer[i:])
	head, tail := s.buffer[:i+size], s.buffer[i+size:]

	min := s.manager.opts.MinSentenceChars
	var ready []string
	carry := ""
	for _, sentence := range text.Sentences(head) {
		if carry != "" {
			sentence = carry + " " + sentence
			carry = ""
		}
		if len([]rune(sentence)) < min {
			carry = sentence
			continue
		}
		ready = append(ready, sentence)
	}

	rest := strings.TrimLeft(tail, " ")
	if carry != "" {
		rest = strings.TrimSpace(carry + " " + rest)
	}
	s.buffer = rest
	return ready
}

// restore puts unscheduled sentences back at the front of the buffer.
func (s *Session) restore(sentences []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer = strings.TrimSpace(strings.Join(sentences, " ") + " " + s.buffer)
}

func (s *Session) enqueue(ctx context.Context, sentence string) error {
	const op = "stream.Session.enqueue"
	p := &pendingChunk{text: sentence, done: make(chan struct{})}
	select {
	case s.inflight <- p:
	case <-ctx.Done():
		return platformerrors.Wrap(platformerrors.KindBackpressure, op, "gave up waiting for queue space", ctx.Err())
	case <-s.ctx.Done():
		return platformerrors.Newf(platformerrors.KindSessionNotFound, op, "session %s cancelled", s.id)
	}
	s.synthesize(p)
	return nil
}

// synthesize runs one sentence on the shared worker pool and signals
// the delivery loop when the chunk is ready.
func (s *Session) synthesize(p *pendingChunk) {
	go func() {
		defer close(p.done)
		if err := s.manager.workers.Acquire(s.ctx, 1); err != nil {
			p.err = err
			return
		}
		defer s.manager.workers.Release(1)

		res, err := s.manager.engine.Synthesize(s.ctx, synth.Request{
			Text:       p.text,
			Voice:      s.cfg.Voice,
			Language:   s.cfg.Language,
			Speed:      s.cfg.Speed,
			AutoDetect: s.cfg.AutoDetect,
		})
		if err != nil {
			p.err = err
			return
		}
		p.samples = res.Samples
	}()
}

// deliverLoop emits chunks in queue order, waiting for each pending
// sentence to finish before touching the next. Chunk indices stay
// contiguous because a failed sentence is skipped before numbering.
func (s *Session) deliverLoop() {
	defer s.delivered.Done()
	defer close(s.out)

	for {
		var p *pendingChunk
		var ok bool
		select {
		case p, ok = <-s.inflight:
			if !ok {
				return
			}
		case <-s.ctx.Done():
			return
		}

		select {
		case <-p.done:
		case <-s.ctx.Done():
			return
		}
		if s.ctx.Err() != nil {
			return
		}
		if p.err != nil {
			s.manager.logger.Warn("stream chunk failed, skipping",
				"session", s.id, "chars", len([]rune(p.text)), "error", p.err)
			continue
		}

		chunk := Chunk{SessionID: s.id, Index: s.emitted, Samples: p.samples}
		select {
		case s.out <- chunk:
		case <-s.ctx.Done():
			return
		}
		s.emitted++
		s.totalSamples += len(p.samples)
		eventbus.PublishAsync(eventbus.EventStreamChunk, eventbus.StreamEventData{
			SessionID:  s.id,
			Voice:      s.cfg.Voice,
			ChunkIndex: chunk.Index,
			AudioMs:    audio.DurationMs(len(p.samples)),
		})
	}
}
