package log

import (
	"bytes"
	"fmt"
	stdlog "log"
	"os"
	"strings"
)

// Config is a declarative logger description, usually filled from
// configuration files or TABLO_LOG_* variables.
type Config struct {
	Level  string // debug|info|warn|error
	Format string // text|json
	Output string // stderr|stdout|null, or a file path
}

// ParseLevel converts a level name into a Level. An empty name is InfoLevel.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "", "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// ApplyConfig builds a Logger from cfg.
func ApplyConfig(cfg *Config) (Logger, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var formatter Formatter
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		formatter = &TextFormatter{}
	case "json":
		formatter = &JSONFormatter{}
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	var out Output
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		out = NewConsoleOutput()
	case "stdout":
		out = NewWriterOutput(os.Stdout)
	case "null", "none":
		out = NullOutput{}
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = NewWriterOutput(f)
	}

	return NewLogger(WithLevel(level), WithFormatter(formatter), WithOutput(out)), nil
}

// RedirectStdLog routes the stdlib log package (used by Pebble) through l.
func RedirectStdLog(l Logger) {
	stdlog.SetFlags(0)
	stdlog.SetPrefix("")
	stdlog.SetOutput(&stdWriter{logger: l.WithComponent("stdlib")})
}

// ResetStdLog points the stdlib log package back at stderr.
func ResetStdLog() {
	stdlog.SetFlags(stdlog.LstdFlags)
	stdlog.SetOutput(os.Stderr)
}

// ToStdLogger returns a *log.Logger whose lines are logged at Info on l.
func ToStdLogger(l Logger) *stdlog.Logger {
	return stdlog.New(&stdWriter{logger: l}, "", 0)
}

type stdWriter struct {
	logger Logger
}

func (w *stdWriter) Write(p []byte) (int, error) {
	msg := string(bytes.TrimRight(p, "\r\n"))
	if msg != "" {
		w.logger.Info(msg)
	}
	return len(p), nil
}
