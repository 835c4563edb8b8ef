package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"surveycharts/internal/config"
)

// Log destinations accepted in LoggingConfig.Output
const (
	OutputConsole = "console"
	OutputFile    = "file"
	OutputBoth    = "both"
)

// NewLogger builds the run logger. Records are always JSON; cfg.Output
// selects console, the file at cfg.FilePath, or both. The returned func
// closes the log file and is a no-op when none was opened.
func NewLogger(cfg config.LoggingConfig, console io.Writer) (*slog.Logger, func() error, error) {
	noClose := func() error { return nil }

	output := strings.ToLower(cfg.Output)
	if output != OutputFile && output != OutputBoth {
		return NewJSONLogger(console, cfg.Level), noClose, nil
	}

	file, err := openLogFile(cfg.FilePath)
	if err != nil {
		return nil, noClose, err
	}

	var w io.Writer = file
	if output == OutputBoth {
		w = io.MultiWriter(console, file)
	}
	return NewJSONLogger(w, cfg.Level), file.Close, nil
}

// NewJSONLogger builds a JSON logger writing to w that adds the context's
// trace_id to every record
func NewJSONLogger(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     parseLogLevel(level),
	})
	return slog.New(&traceHandler{Handler: handler})
}

type traceHandler struct {
	slog.Handler
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if traceID := GetTraceID(ctx); traceID != "" {
		r.AddAttrs(slog.String("trace_id", traceID))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithGroup(name)}
}

// parseLogLevel accepts slog level names plus "warning". Unknown levels log at info.
func parseLogLevel(level string) slog.Level {
	if strings.EqualFold(level, "warning") {
		level = "warn"
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return file, nil
}
