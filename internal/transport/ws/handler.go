package ws

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"kokorod/internal/domain/audio"
	"kokorod/internal/domain/language"
	"kokorod/internal/domain/stream"
	"kokorod/internal/domain/synth"
	"kokorod/internal/platform/storage"
)

// wsChunkSamples sizes one audio_chunk for the one-shot synthesize
// command: one second of output.
const wsChunkSamples = audio.SampleRate

// Options carry the per-connection defaults.
type Options struct {
	DefaultVoice string
	DefaultSpeed float64
}

// Handler runs one client's command loop. Connection settings are
// only touched from the read loop; the stream table is shared with
// forwarding goroutines and locked.
type Handler struct {
	id     string
	conn   *Connection
	engine *synth.Engine
	mgr    *stream.Manager
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	voice      string
	language   string
	speed      float64
	autoDetect bool

	mu      sync.Mutex
	streams map[string]*clientStream
}

// clientStream pairs a manager session with its forwarding loop.
type clientStream struct {
	sess  *stream.Session
	done  chan struct{}
	count int // chunks forwarded; read after done closes
}

// NewHandlerBuilder returns the builder the router invokes per
// connection.
func NewHandlerBuilder(engine *synth.Engine, mgr *stream.Manager, opts Options, logger *slog.Logger) HandlerBuilder {
	if opts.DefaultSpeed <= 0 {
		opts.DefaultSpeed = 1.0
	}
	return func(conn *Connection, _ *http.Request) (SessionHandler, error) {
		ctx, cancel := context.WithCancel(context.Background())
		return &Handler{
			id:         uuid.NewString(),
			conn:       conn,
			engine:     engine,
			mgr:        mgr,
			logger:     logger,
			ctx:        ctx,
			cancel:     cancel,
			voice:      opts.DefaultVoice,
			speed:      opts.DefaultSpeed,
			autoDetect: true,
			streams:    make(map[string]*clientStream),
		}, nil
	}
}

func (h *Handler) SessionID() string { return h.id }

// Handle reads and dispatches commands until the connection drops.
func (h *Handler) Handle() {
	for {
		_, data, err := h.conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd command
		if err := sonic.Unmarshal(data, &cmd); err != nil {
			h.sendError("invalid message: " + err.Error())
			continue
		}
		h.dispatch(cmd)
	}
}

// Close cancels outstanding work. Called when the connection ends.
func (h *Handler) Close() {
	h.cancel()
	h.mu.Lock()
	active := make([]*clientStream, 0, len(h.streams))
	for _, cs := range h.streams {
		active = append(active, cs)
	}
	h.streams = make(map[string]*clientStream)
	h.mu.Unlock()
	for _, cs := range active {
		cs.sess.Cancel()
	}
}

func (h *Handler) dispatch(cmd command) {
	switch cmd.Command {
	case cmdListVoices:
		h.send(voicesEvent{Type: "voices", Voices: h.engine.Voices().List()})
	case cmdSetVoice:
		h.handleSetVoice(cmd)
	case cmdSetLanguage:
		h.handleSetLanguage(cmd)
	case cmdSetAutoDetect:
		enabled := cmd.AutoDetect != nil && *cmd.AutoDetect
		h.autoDetect = enabled
		h.send(autoDetectChangedEvent{Type: "auto_detect_changed", Enabled: enabled})
	case cmdSetSpeed:
		h.handleSetSpeed(cmd)
	case cmdSynthesize:
		h.handleSynthesize(cmd)
	case cmdStreamStart:
		h.handleStreamStart(cmd)
	case cmdStreamAppend:
		h.handleStreamAppend(cmd)
	case cmdStreamEnd:
		h.handleStreamEnd(cmd)
	case cmdStreamCancel:
		h.handleStreamCancel(cmd)
	default:
		h.sendError("unknown command " + cmd.Command)
	}
}

func (h *Handler) handleSetVoice(cmd command) {
	if cmd.Voice == "" {
		h.sendError("set_voice requires a voice")
		return
	}
	// Plain ids are checked against the pack; mix expressions are
	// validated when they resolve at synthesis time.
	if !strings.ContainsAny(cmd.Voice, "*+-") && !h.engine.Voices().Has(cmd.Voice) {
		h.sendError("unknown voice " + cmd.Voice)
		return
	}
	h.voice = cmd.Voice
	h.send(voiceChangedEvent{Type: "voice_changed", Voice: cmd.Voice})
}

func (h *Handler) handleSetLanguage(cmd command) {
	tag, ok := language.NormalizeTag(cmd.Language)
	if !ok {
		h.sendError("unknown language " + cmd.Language)
		return
	}
	h.language = tag
	h.send(languageChangedEvent{Type: "language_changed", Language: tag})
}

func (h *Handler) handleSetSpeed(cmd command) {
	if cmd.Speed == nil {
		h.sendError("set_speed requires a speed")
		return
	}
	h.speed = float64(synth.ClampSpeed(*cmd.Speed))
	h.send(speedChangedEvent{Type: "speed_changed", Speed: h.speed})
}

func (h *Handler) handleSynthesize(cmd command) {
	if strings.TrimSpace(cmd.Text) == "" {
		h.sendError("synthesize requires text")
		return
	}
	voice := h.voice
	if cmd.Voice != "" {
		voice = cmd.Voice
	}
	h.send(synthesisStartedEvent{Type: "synthesis_started", TextLength: len([]rune(cmd.Text))})

	res, err := h.engine.Synthesize(h.ctx, synth.Request{
		Text:       cmd.Text,
		Voice:      voice,
		Language:   h.language,
		Speed:      h.speed,
		AutoDetect: h.autoDetect,
		Surface:    storage.SurfaceWS,
	})
	if err != nil {
		h.sendError(err.Error())
		return
	}

	chunks := chunkSamples(res.Samples, wsChunkSamples)
	for i, samples := range chunks {
		h.send(audioChunkEvent{
			Type:       "audio_chunk",
			Chunk:      encodeChunk(samples),
			Index:      i,
			Total:      len(chunks),
			SampleRate: audio.SampleRate,
		})
	}
	h.send(synthesisCompletedEvent{Type: "synthesis_completed", Chunks: len(chunks)})
}

func (h *Handler) handleStreamStart(cmd command) {
	voice := h.voice
	if cmd.Voice != "" {
		voice = cmd.Voice
	}
	sess := h.mgr.Open(stream.SessionConfig{
		Voice:      voice,
		Speed:      h.speed,
		Language:   h.language,
		AutoDetect: h.autoDetect,
	})
	cs := &clientStream{sess: sess, done: make(chan struct{})}

	h.mu.Lock()
	h.streams[sess.ID()] = cs
	h.mu.Unlock()

	go h.forward(cs)
	h.send(streamStartedEvent{Type: "stream_started", StreamID: sess.ID()})
}

// forward relays a session's ordered chunks to the client.
func (h *Handler) forward(cs *clientStream) {
	defer close(cs.done)
	for c := range cs.sess.Chunks() {
		cs.count++
		h.send(streamChunkEvent{
			Type:       "stream_chunk",
			StreamID:   c.SessionID,
			Chunk:      encodeChunk(c.Samples),
			Index:      c.Index,
			SampleRate: audio.SampleRate,
		})
	}
}

func (h *Handler) lookupStream(id string) *clientStream {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.streams[id]
}

func (h *Handler) dropStream(id string) {
	h.mu.Lock()
	delete(h.streams, id)
	h.mu.Unlock()
}

func (h *Handler) handleStreamAppend(cmd command) {
	cs := h.lookupStream(cmd.StreamID)
	if cs == nil {
		h.sendError("unknown stream " + cmd.StreamID)
		return
	}
	if err := cs.sess.Append(h.ctx, cmd.Text); err != nil {
		h.sendError(err.Error())
	}
}

func (h *Handler) handleStreamEnd(cmd command) {
	cs := h.lookupStream(cmd.StreamID)
	if cs == nil {
		h.sendError("unknown stream " + cmd.StreamID)
		return
	}
	if err := cs.sess.End(h.ctx); err != nil {
		h.sendError(err.Error())
		h.dropStream(cmd.StreamID)
		return
	}
	<-cs.done
	h.dropStream(cmd.StreamID)
	h.send(streamEndedEvent{Type: "stream_ended", StreamID: cmd.StreamID, TotalChunks: cs.count})
}

func (h *Handler) handleStreamCancel(cmd command) {
	cs := h.lookupStream(cmd.StreamID)
	if cs == nil {
		h.sendError("unknown stream " + cmd.StreamID)
		return
	}
	cs.sess.Cancel()
	<-cs.done
	h.dropStream(cmd.StreamID)
	h.send(streamCancelledEvent{Type: "stream_cancelled", StreamID: cmd.StreamID})
}

func (h *Handler) send(event interface{}) {
	if err := h.conn.WriteJSON(event); err != nil && h.logger != nil && err != ErrConnectionClosed {
		h.logger.Debug("websocket write failed", "session", h.id, "error", err)
	}
}

func (h *Handler) sendError(message string) {
	h.send(errorEvent{Type: "error", Message: message})
}

func encodeChunk(samples []float32) string {
	return base64.StdEncoding.EncodeToString(audio.EncodeWAV(samples))
}

func chunkSamples(samples []float32, size int) [][]float32 {
	if len(samples) == 0 {
		return nil
	}
	chunks := make([][]float32, 0, len(samples)/size+1)
	for start := 0; start < len(samples); start += size {
		end := start + size
		if end > len(samples) {
			end = len(samples)
		}
		chunks = append(chunks, samples[start:end])
	}
	return chunks
}
