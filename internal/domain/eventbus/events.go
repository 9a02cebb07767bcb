package eventbus

// Event topics.
const (
	// Synthesis lifecycle.
	EventSynthesisStarted   = "synthesis:started"
	EventSynthesisCompleted = "synthesis:completed"
	EventSynthesisFailed    = "synthesis:failed"

	// Streaming session lifecycle.
	EventStreamOpened    = "stream:opened"
	EventStreamChunk     = "stream:chunk"
	EventStreamClosed    = "stream:closed"
	EventStreamCancelled = "stream:cancelled"

	// Model registry.
	EventModelSwapped = "model:swapped"
	EventPackLoaded   = "pack:loaded"

	// System.
	EventSystemError = "system:error"
)

// SynthesisEventData accompanies the synthesis lifecycle topics.
type SynthesisEventData struct {
	RequestID string `json:"request_id"`
	Surface   string `json:"surface"`
	Voice     string `json:"voice"`
	Language  string `json:"language"`
	Variant   string `json:"variant"`
	TextChars int    `json:"text_chars"`
	Sentences int    `json:"sentences"`
	AudioMs   int64  `json:"audio_ms"`
	ElapsedMs int64  `json:"elapsed_ms"`
	Status    string `json:"status"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// StreamEventData accompanies the stream lifecycle topics.
type StreamEventData struct {
	SessionID  string `json:"session_id"`
	Voice      string `json:"voice"`
	Language   string `json:"language"`
	ChunkIndex int    `json:"chunk_index,omitempty"`
	Chunks     int    `json:"chunks,omitempty"`
	AudioMs    int64  `json:"audio_ms,omitempty"`
}

// ModelEventData accompanies registry topics.
type ModelEventData struct {
	Variant  string `json:"variant"`
	Path     string `json:"path"`
	Replicas int    `json:"replicas,omitempty"`
	Voices   int    `json:"voices,omitempty"`
}

// SystemEventData carries error or informational notices.
type SystemEventData struct {
	Level   string      `json:"level"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
