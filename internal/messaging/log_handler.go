package messaging

import (
	"context"
	"log/slog"
	"strings"
)

// LogHandler is a slog.Handler that sends every enabled record as a
// "log" envelope. It never returns an error: a failed send or a
// panicking attribute is dropped so that logging cannot take down the
// caller.
//
// Handlers derived via WithAttrs/WithGroup share the same Sender.
type LogHandler struct {
	level  slog.Leveler
	sender Sender
	attrs  []slog.Attr
	groups []string
}

// NewLogHandler creates a handler that sends records at or above level.
func NewLogHandler(sender Sender, level slog.Leveler) *LogHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &LogHandler{level: level, sender: sender}
}

// InstallLogger makes a LogHandler the process-wide default logger,
// which also captures output of the standard log package. Call it once
// during startup; there is no teardown.
func InstallLogger(sender Sender, level slog.Leveler) *slog.Logger {
	logger := slog.New(NewLogHandler(sender, level))
	slog.SetDefault(logger)
	return logger
}

func (h *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *LogHandler) Handle(_ context.Context, record slog.Record) (err error) {
	defer func() {
		if recover() != nil {
			err = nil
		}
	}()

	message := h.render(record)
	_ = h.sender.Send(NewLogEnvelope(message, wireLevel(record.Level)))
	return nil
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	qualified := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		attr.Key = h.qualify(attr.Key)
		qualified = append(qualified, attr)
	}
	return &LogHandler{
		level:  h.level,
		sender: h.sender,
		attrs:  append(sliceClone(h.attrs), qualified...),
		groups: sliceClone(h.groups),
	}
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &LogHandler{
		level:  h.level,
		sender: h.sender,
		attrs:  sliceClone(h.attrs),
		groups: append(sliceClone(h.groups), name),
	}
}

// render builds "message (key=value, ...)". Handler attrs come first,
// already qualified with the groups active when they were added.
func (h *LogHandler) render(record slog.Record) string {
	var parts []string
	for _, attr := range h.attrs {
		parts = appendAttr(parts, "", attr)
	}
	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	record.Attrs(func(attr slog.Attr) bool {
		parts = appendAttr(parts, prefix, attr)
		return true
	})

	if len(parts) == 0 {
		return record.Message
	}
	return record.Message + " (" + strings.Join(parts, ", ") + ")"
}

func (h *LogHandler) qualify(key string) string {
	if len(h.groups) == 0 {
		return key
	}
	return strings.Join(h.groups, ".") + "." + key
}

func appendAttr(parts []string, prefix string, attr slog.Attr) []string {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return parts
	}
	if attr.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if attr.Key != "" {
			groupPrefix = prefix + attr.Key + "."
		}
		for _, member := range attr.Value.Group() {
			parts = appendAttr(parts, groupPrefix, member)
		}
		return parts
	}
	return append(parts, prefix+attr.Key+"="+attr.Value.String())
}

// wireLevel folds slog's open-ended levels onto the four wire levels.
func wireLevel(level slog.Level) LogLevel {
	switch {
	case level >= slog.LevelError:
		return LogError
	case level >= slog.LevelWarn:
		return LogWarning
	case level >= slog.LevelInfo:
		return LogInfo
	default:
		return LogDebug
	}
}

func sliceClone[T any](source []T) []T {
	if source == nil {
		return nil
	}
	result := make([]T, len(source))
	copy(result, source)
	return result
}
