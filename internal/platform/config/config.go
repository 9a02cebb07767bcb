package config

import (
	"time"

	platformerrors "kokorod/internal/platform/errors"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Log           LogConfig           `yaml:"log"`
	Web           WebConfig           `yaml:"web"`
	Model         ModelConfig         `yaml:"model"`
	Voices        VoicesConfig        `yaml:"voices"`
	Engine        EngineConfig        `yaml:"engine"`
	Storage       StorageConfig       `yaml:"storage"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type ServerConfig struct {
	IP   string `yaml:"ip" env:"KOKO_SERVER_IP"`
	Port int    `yaml:"port" env:"KOKO_SERVER_PORT"`
}

type LogConfig struct {
	Level  string `yaml:"log_level" env:"KOKO_LOG_LEVEL"`
	Dir    string `yaml:"log_dir" env:"KOKO_LOG_DIR"`
	File   string `yaml:"log_file" env:"KOKO_LOG_FILE"`
	Format string `yaml:"log_format" env:"KOKO_LOG_FORMAT"`
}

type WebConfig struct {
	Enabled   bool   `yaml:"enabled" env:"KOKO_WEB_ENABLED"`
	StaticDir string `yaml:"static_dir" env:"KOKO_WEB_STATIC_DIR"`
}

// ModelConfig locates the ONNX model variants and controls how many
// replicas of each are kept warm.
type ModelConfig struct {
	Dir            string `yaml:"dir" env:"KOKO_MODEL_DIR"`
	Standard       string `yaml:"standard" env:"KOKO_MODEL_STANDARD"`
	Quantized      string `yaml:"quantized" env:"KOKO_MODEL_QUANTIZED"`
	Chinese        string `yaml:"chinese" env:"KOKO_MODEL_CHINESE"`
	DefaultVariant string `yaml:"default_variant" env:"KOKO_MODEL_VARIANT"`
	Replicas       int    `yaml:"replicas" env:"KOKO_MODEL_REPLICAS"`
	HotReload      bool   `yaml:"hot_reload" env:"KOKO_MODEL_HOT_RELOAD"`
	OrtLibrary     string `yaml:"ort_library" env:"KOKO_ORT_LIBRARY"`
}

type VoicesConfig struct {
	Pack         string `yaml:"pack" env:"KOKO_VOICES_PACK"`
	DefaultVoice string `yaml:"default_voice" env:"KOKO_DEFAULT_VOICE"`
	MixCacheSize int    `yaml:"mix_cache_size" env:"KOKO_MIX_CACHE_SIZE"`
}

type EngineConfig struct {
	DefaultSpeed   float64      `yaml:"default_speed" env:"KOKO_SPEED"`
	CrossfadeMs    int          `yaml:"crossfade_ms" env:"KOKO_CROSSFADE_MS"`
	StreamInflight int          `yaml:"stream_inflight" env:"KOKO_STREAM_INFLIGHT"`
	InferTimeout   string       `yaml:"infer_timeout" env:"KOKO_INFER_TIMEOUT"`
	Espeak         EspeakConfig `yaml:"espeak"`
}

// EspeakConfig locates the external espeak-ng binary used for
// non-CJK grapheme to phoneme conversion.
type EspeakConfig struct {
	Path    string `yaml:"path" env:"KOKO_ESPEAK_PATH"`
	DataDir string `yaml:"data_dir" env:"KOKO_ESPEAK_DATA"`
	Timeout string `yaml:"timeout" env:"KOKO_ESPEAK_TIMEOUT"`
}

type StorageConfig struct {
	Enabled bool   `yaml:"enabled" env:"KOKO_STORAGE_ENABLED"`
	DSN     string `yaml:"dsn" env:"KOKO_DB_DSN"`
}

type ObservabilityConfig struct {
	Enabled bool `yaml:"enabled" env:"KOKO_OBSERVABILITY"`
}

// InferTimeoutDuration parses Engine.InferTimeout, falling back to 30s.
func (c *Config) InferTimeoutDuration() time.Duration {
	if c.Engine.InferTimeout == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(c.Engine.InferTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// EspeakTimeoutDuration parses Engine.Espeak.Timeout; zero means the
// phonemizer's built-in default.
func (c *Config) EspeakTimeoutDuration() time.Duration {
	if c.Engine.Espeak.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Engine.Espeak.Timeout)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}

// Validate checks the invariants the rest of the system relies on.
func (c *Config) Validate() error {
	const op = "config.Validate"
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return platformerrors.Newf(platformerrors.KindConfig, op, "server port %d out of range", c.Server.Port)
	}
	if c.Model.Replicas < 1 {
		return platformerrors.Newf(platformerrors.KindConfig, op, "model replicas must be at least 1, got %d", c.Model.Replicas)
	}
	switch c.Model.DefaultVariant {
	case "standard", "quantized", "chinese":
	default:
		return platformerrors.Newf(platformerrors.KindConfig, op, "unknown model variant %q", c.Model.DefaultVariant)
	}
	if c.Engine.DefaultSpeed < 0.1 || c.Engine.DefaultSpeed > 3.0 {
		return platformerrors.Newf(platformerrors.KindConfig, op, "default speed %.2f outside [0.1, 3.0]", c.Engine.DefaultSpeed)
	}
	if c.Engine.StreamInflight < 1 {
		return platformerrors.Newf(platformerrors.KindConfig, op, "stream inflight must be at least 1, got %d", c.Engine.StreamInflight)
	}
	if c.Engine.InferTimeout != "" {
		if _, err := time.ParseDuration(c.Engine.InferTimeout); err != nil {
			return platformerrors.Wrap(platformerrors.KindConfig, op, "parse infer timeout", err)
		}
	}
	if c.Engine.Espeak.Timeout != "" {
		if _, err := time.ParseDuration(c.Engine.Espeak.Timeout); err != nil {
			return platformerrors.Wrap(platformerrors.KindConfig, op, "parse espeak timeout", err)
		}
	}
	if c.Voices.MixCacheSize < 1 {
		return platformerrors.Newf(platformerrors.KindConfig, op, "mix cache size must be at least 1, got %d", c.Voices.MixCacheSize)
	}
	return nil
}
