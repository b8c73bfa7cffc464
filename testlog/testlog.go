// Package testlog routes logger output to the unit test log and lets tests
// assert on emitted records.
package testlog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/log"
)

// Testing is the subset of testing.TB the logger needs.
type Testing interface {
	Logf(format string, args ...any)
	Helper()
}

// Logger returns a logger which writes to the unit test log of t.
func Logger(t Testing, level slog.Level) log.Logger {
	return log.NewLogger(&handler{t: t, level: level})
}

// CaptureLogger returns a logger which writes to the test log and records
// every emitted entry for later inspection.
func CaptureLogger(t Testing, level slog.Level) (log.Logger, *CapturedLogs) {
	capture := &CapturedLogs{}
	return log.NewLogger(&handler{t: t, level: level, capture: capture}), capture
}

// CapturedRecord is one log entry seen by a capturing handler.
type CapturedRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]string
}

// CapturedLogs accumulates records across goroutines.
type CapturedLogs struct {
	mu      sync.Mutex
	records []*CapturedRecord
}

// LogFilter discriminates captured records.
type LogFilter func(*CapturedRecord) bool

func NewLevelFilter(level slog.Level) LogFilter {
	return func(r *CapturedRecord) bool { return r.Level == level }
}

func NewMessageFilter(msg string) LogFilter {
	return func(r *CapturedRecord) bool { return r.Message == msg }
}

func NewMessageContainsFilter(substr string) LogFilter {
	return func(r *CapturedRecord) bool { return strings.Contains(r.Message, substr) }
}

func NewAttributesFilter(key, value string) LogFilter {
	return func(r *CapturedRecord) bool { return r.Attrs[key] == value }
}

// FindLog returns the first record matching all filters, or nil.
func (c *CapturedLogs) FindLog(filters ...LogFilter) *CapturedRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
outer:
	for _, r := range c.records {
		for _, f := range filters {
			if !f(r) {
				continue outer
			}
		}
		return r
	}
	return nil
}

func (c *CapturedLogs) add(r *CapturedRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, r)
}

type handler struct {
	t       Testing
	level   slog.Level
	capture *CapturedLogs
	attrs   []slog.Attr
}

var _ slog.Handler = (*handler)(nil)

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	h.t.Helper()
	attrs := make(map[string]string, r.NumAttrs()+len(h.attrs))
	var line strings.Builder
	fmt.Fprintf(&line, "%-5s %s", log.LevelString(r.Level), r.Message)
	appendAttr := func(a slog.Attr) {
		v := fmt.Sprint(a.Value.Any())
		attrs[a.Key] = v
		fmt.Fprintf(&line, " %s=%s", a.Key, v)
	}
	for _, a := range h.attrs {
		appendAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(a)
		return true
	})
	h.t.Logf("%s", line.String())
	if h.capture != nil {
		h.capture.add(&CapturedRecord{Level: r.Level, Message: r.Message, Attrs: attrs})
	}
	return nil
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *handler) WithGroup(_ string) slog.Handler {
	// Groups are not used by this codebase's loggers.
	return h
}
