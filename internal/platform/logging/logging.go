package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	platformerrors "kokorod/internal/platform/errors"
)

// Config controls where and how structured logs are written.
type Config struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string
	// Format is "text" or "json". Defaults to text.
	Format string
	// Dir, when set, enables file output alongside stderr.
	Dir string
	// Filename of the log file inside Dir. Defaults to kokorod.log.
	Filename string
}

// Logger wraps a slog.Logger together with the file handle it may own.
type Logger struct {
	base *slog.Logger
	file *os.File
}

// New builds a logger writing to stderr and, when cfg.Dir is set, to a
// log file under that directory.
func New(cfg Config) (*Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var out io.Writer = os.Stderr
	var file *os.File
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, platformerrors.Wrap(platformerrors.KindConfig, "logging.New", "create log directory", err)
		}
		name := cfg.Filename
		if name == "" {
			name = "kokorod.log"
		}
		file, err = os.OpenFile(filepath.Join(cfg.Dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, platformerrors.Wrap(platformerrors.KindConfig, "logging.New", "open log file", err)
		}
		out = io.MultiWriter(os.Stderr, file)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return &Logger{base: slog.New(handler), file: file}, nil
}

// Slog exposes the underlying slog.Logger.
func (l *Logger) Slog() *slog.Logger {
	return l.base
}

// Component returns a child logger tagged with the component name.
func (l *Logger) Component(name string) *slog.Logger {
	return l.base.With("component", name)
}

// Close releases the log file if one was opened.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, platformerrors.Newf(platformerrors.KindConfig, "logging.New", "unknown log level %q", s)
	}
}
