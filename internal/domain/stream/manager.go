// Package stream is the incremental synthesis manager: text fragments
// arrive per session, completed sentences are synthesized with bounded
// concurrency, and audio chunks are delivered strictly in submission
// order with per-session cancellation.
package stream

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"kokorod/internal/domain/eventbus"
	"kokorod/internal/domain/synth"
	platformerrors "kokorod/internal/platform/errors"
)

// Synthesizer is the one-shot engine the manager schedules sentences
// on. *synth.Engine implements it.
type Synthesizer interface {
	Synthesize(ctx context.Context, req synth.Request) (*synth.Result, error)
}

// Options bound the manager's resources.
type Options struct {
	// Inflight caps the pending-chunk queue per session and the number
	// of concurrent inference workers across sessions. Default 4.
	Inflight int
	// MinSentenceChars holds back completed sentences shorter than
	// this so punctuation-heavy input does not emit tiny chunks.
	// Default 8.
	MinSentenceChars int
}

// Chunk is one ordered piece of session audio.
type Chunk struct {
	SessionID string
	Index     int
	Samples   []float32
}

// Manager owns the live sessions. All session state is mutated under
// the per-session lock; the manager lock only guards the id table.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	engine   Synthesizer
	workers  *semaphore.Weighted
	opts     Options
	logger   *slog.Logger
}

func NewManager(engine Synthesizer, opts Options, logger *slog.Logger) *Manager {
	if opts.Inflight < 1 {
		opts.Inflight = 4
	}
	if opts.MinSentenceChars < 1 {
		opts.MinSentenceChars = 8
	}
	return &Manager{
		sessions: make(map[string]*Session),
		engine:   engine,
		workers:  semaphore.NewWeighted(int64(opts.Inflight)),
		opts:     opts,
		logger:   logger,
	}
}

// SessionConfig fixes a session's synthesis settings at open time.
type SessionConfig struct {
	Voice      string
	Speed      float64
	Language   string
	AutoDetect bool
}

// Open allocates a session and starts its ordered delivery loop.
func (m *Manager) Open(cfg SessionConfig) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:       uuid.NewString(),
		manager:  m,
		cfg:      cfg,
		state:    StateOpen,
		inflight: make(chan *pendingChunk, m.opts.Inflight),
		out:      make(chan Chunk, m.opts.Inflight),
		ctx:      ctx,
		cancel:   cancel,
	}
	s.delivered.Add(1)
	go s.deliverLoop()

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.logger.Info("stream session opened", "session", s.id, "voice", cfg.Voice)
	eventbus.PublishAsync(eventbus.EventStreamOpened, eventbus.StreamEventData{
		SessionID: s.id,
		Voice:     cfg.Voice,
		Language:  cfg.Language,
	})
	return s
}

// Get resolves a live session id.
func (m *Manager) Get(id string) (*Session, error) {
	const op = "stream.Manager.Get"
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, platformerrors.Newf(platformerrors.KindSessionNotFound, op, "session %s not found", id)
	}
	return s, nil
}

// Append adds a text fragment to the session, scheduling every
// completed sentence. Blocks under backpressure.
func (m *Manager) Append(ctx context.Context, id, fragment string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	return s.Append(ctx, fragment)
}

// TryAppend is Append with a backpressure signal instead of blocking.
func (m *Manager) TryAppend(id, fragment string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	return s.TryAppend(fragment)
}

// End flushes the session's tail, waits for in-flight work to drain,
// and closes the session. The chunk channel closes after the last
// chunk.
func (m *Manager) End(ctx context.Context, id string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	return s.End(ctx)
}

// Cancel aborts the session. No further chunks are emitted, including
// for sentences already in flight.
func (m *Manager) Cancel(id string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	s.Cancel()
	return nil
}

// Active reports the number of live sessions.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Shutdown cancels every live session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()
	for _, s := range sessions {
		s.Cancel()
	}
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
