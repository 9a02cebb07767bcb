package ws

// Inbound message. Command selects the action; the remaining fields
// are read per command.
type command struct {
	Command    string   `json:"command"`
	Text       string   `json:"text,omitempty"`
	Voice      string   `json:"voice,omitempty"`
	Language   string   `json:"language,omitempty"`
	Speed      *float64 `json:"speed,omitempty"`
	AutoDetect *bool    `json:"auto_detect,omitempty"`
	StreamID   string   `json:"stream_id,omitempty"`
}

// Supported commands.
const (
	cmdListVoices    = "list_voices"
	cmdSetVoice      = "set_voice"
	cmdSetLanguage   = "set_language"
	cmdSetAutoDetect = "set_auto_detect"
	cmdSetSpeed      = "set_speed"
	cmdSynthesize    = "synthesize"
	cmdStreamStart   = "stream_start"
	cmdStreamAppend  = "stream_append"
	cmdStreamEnd     = "stream_end"
	cmdStreamCancel  = "stream_cancel"
)

// Outbound events. Every message carries a type discriminator.

type voicesEvent struct {
	Type   string   `json:"type"`
	Voices []string `json:"voices"`
}

type voiceChangedEvent struct {
	Type  string `json:"type"`
	Voice string `json:"voice"`
}

type languageChangedEvent struct {
	Type     string `json:"type"`
	Language string `json:"language"`
}

type autoDetectChangedEvent struct {
	Type    string `json:"type"`
	Enabled bool   `json:"enabled"`
}

type speedChangedEvent struct {
	Type  string  `json:"type"`
	Speed float64 `json:"speed"`
}

type synthesisStartedEvent struct {
	Type       string `json:"type"`
	TextLength int    `json:"text_length"`
}

type audioChunkEvent struct {
	Type       string `json:"type"`
	Chunk      string `json:"chunk"` // base64 WAV
	Index      int    `json:"index"`
	Total      int    `json:"total"`
	SampleRate int    `json:"sample_rate"`
}

type synthesisCompletedEvent struct {
	Type   string `json:"type"`
	Chunks int    `json:"chunks"`
}

type streamStartedEvent struct {
	Type     string `json:"type"`
	StreamID string `json:"stream_id"`
}

type streamChunkEvent struct {
	Type       string `json:"type"`
	StreamID   string `json:"stream_id"`
	Chunk      string `json:"chunk"` // base64 WAV
	Index      int    `json:"index"`
	SampleRate int    `json:"sample_rate"`
}

type streamEndedEvent struct {
	Type        string `json:"type"`
	StreamID    string `json:"stream_id"`
	TotalChunks int    `json:"total_chunks"`
}

type streamCancelledEvent struct {
	Type     string `json:"type"`
	StreamID string `json:"stream_id"`
}

type errorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
