package config

// DefaultConfig returns the configuration used when no file or
// environment overrides are present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			IP:   "0.0.0.0",
			Port: 8880,
		},
		Log: LogConfig{
			Level:  "info",
			Dir:    "",
			File:   "kokorod.log",
			Format: "text",
		},
		Web: WebConfig{
			Enabled:   true,
			StaticDir: "web",
		},
		Model: ModelConfig{
			Dir:            "data/models",
			Standard:       "kokoro-v1.0.onnx",
			Quantized:      "kokoro-v1.0.int8.onnx",
			DefaultVariant: "standard",
			Replicas:       1,
			HotReload:      true,
			OrtLibrary:     "",
		},
		Voices: VoicesConfig{
			Pack:         "data/models/voices.bin",
			DefaultVoice: "af_heart",
			MixCacheSize: 64,
		},
		Engine: EngineConfig{
			DefaultSpeed:   1.0,
			CrossfadeMs:    10,
			StreamInflight: 4,
			InferTimeout:   "30s",
			Espeak: EspeakConfig{
				Path:    "espeak-ng",
				DataDir: "",
				Timeout: "10s",
			},
		},
		Storage: StorageConfig{
			Enabled: true,
			DSN:     "data/kokorod.db",
		},
		Observability: ObservabilityConfig{
			Enabled: false,
		},
	}
}
