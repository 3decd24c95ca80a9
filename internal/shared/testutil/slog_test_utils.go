// Package testutil provides slog test helpers: a handler that buffers log
// records in memory plus assertions over the captured records, so tests can
// verify the operator-visible log stream without parsing JSON output.
package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

// LogRecord is one captured log record.
type LogRecord struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// BufferedSlogHandler is a slog.Handler that appends every record to an
// in-memory buffer. All levels are enabled; derived handlers created via
// WithAttrs or WithGroup share the same buffer.
type BufferedSlogHandler struct {
	mu      sync.Mutex
	records []LogRecord
	t       *testing.T
}

// NewBufferedSlogHandler creates an empty buffered handler. Records are also
// echoed to t.Logf so failing tests show the log stream they produced.
func NewBufferedSlogHandler(t *testing.T) *BufferedSlogHandler {
	return &BufferedSlogHandler{t: t}
}

// NewTestLogger returns a logger backed by a fresh buffered handler,
// together with the handler for assertions.
func NewTestLogger(t *testing.T) (*slog.Logger, *BufferedSlogHandler) {
	handler := NewBufferedSlogHandler(t)
	return slog.New(handler), handler
}

// Handle implements slog.Handler.
func (h *BufferedSlogHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.mu.Lock()
	h.records = append(h.records, LogRecord{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})
	h.mu.Unlock()

	if h.t != nil {
		h.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

// Enabled implements slog.Handler. Tests capture every level.
func (h *BufferedSlogHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

// WithAttrs implements slog.Handler. The derived handler records into the
// same buffer with the extra attributes applied to each record.
func (h *BufferedSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sharedBufferHandler{parent: h, bound: append([]slog.Attr{}, attrs...)}
}

// WithGroup implements slog.Handler. Groups are flattened; the captured
// attribute keys are the leaf keys, which is enough for test assertions.
func (h *BufferedSlogHandler) WithGroup(string) slog.Handler {
	return h
}

// sharedBufferHandler routes records from a WithAttrs-derived logger back
// into the parent buffer.
type sharedBufferHandler struct {
	parent *BufferedSlogHandler
	bound  []slog.Attr
}

func (s *sharedBufferHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(s.bound...)
	return s.parent.Handle(ctx, r)
}

func (s *sharedBufferHandler) Enabled(context.Context, slog.Level) bool { return true }

func (s *sharedBufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sharedBufferHandler{
		parent: s.parent,
		bound:  append(append([]slog.Attr{}, s.bound...), attrs...),
	}
}

func (s *sharedBufferHandler) WithGroup(string) slog.Handler { return s }

// GetRecords returns a copy of all captured records.
func (h *BufferedSlogHandler) GetRecords() []LogRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	records := make([]LogRecord, len(h.records))
	copy(records, h.records)
	return records
}

// GetRecordsByLevel returns the captured records at the given level.
func (h *BufferedSlogHandler) GetRecordsByLevel(level slog.Level) []LogRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	var filtered []LogRecord
	for _, r := range h.records {
		if r.Level == level {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// ContainsMessage reports whether any captured record's message contains
// the given substring.
func (h *BufferedSlogHandler) ContainsMessage(message string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, r := range h.records {
		if strings.Contains(r.Message, message) {
			return true
		}
	}
	return false
}

// ContainsAttr reports whether any captured record carries the attribute.
func (h *BufferedSlogHandler) ContainsAttr(key string, value any) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, r := range h.records {
		if v, ok := r.Attrs[key]; ok && v == value {
			return true
		}
	}
	return false
}

// Count returns the number of captured records.
func (h *BufferedSlogHandler) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}

// Clear discards all captured records.
func (h *BufferedSlogHandler) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = h.records[:0]
}

// AssertLogContains fails the test when no record at the given level
// contains the message.
func AssertLogContains(t *testing.T, handler *BufferedSlogHandler, level slog.Level, message string) {
	t.Helper()

	for _, r := range handler.GetRecordsByLevel(level) {
		if strings.Contains(r.Message, message) {
			return
		}
	}

	t.Errorf("expected a %s log containing %q", level, message)
	for _, r := range handler.GetRecordsByLevel(level) {
		t.Logf("  captured: %s", r.Message)
	}
}

// AssertNoErrors fails the test when any error-level record was captured.
func AssertNoErrors(t *testing.T, handler *BufferedSlogHandler) {
	t.Helper()

	for _, r := range handler.GetRecordsByLevel(slog.LevelError) {
		t.Errorf("unexpected error log: %s %v", r.Message, r.Attrs)
	}
}
