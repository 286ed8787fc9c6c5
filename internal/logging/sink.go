package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const DefaultMaxEntries = 500

// Entry is a single captured log record.
type Entry struct {
	Timestamp time.Time
	Level     slog.Level
	Message   string
}

type ring struct {
	mu      sync.Mutex
	entries []Entry
	maxSize int
}

func (r *ring) add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	if len(r.entries) > r.maxSize {
		r.entries = r.entries[len(r.entries)-r.maxSize:]
	}
}

func (r *ring) snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// MemorySink is an slog.Handler that keeps recent records for the TUI log
// panel. Handlers derived with WithAttrs/WithGroup share the same buffer.
type MemorySink struct {
	buf    *ring
	level  slog.Leveler
	prefix string
	attrs  string
}

// NewMemorySink retains at most maxSize entries at or above level.
func NewMemorySink(maxSize int, level slog.Leveler) *MemorySink {
	if maxSize <= 0 {
		maxSize = DefaultMaxEntries
	}
	if level == nil {
		level = slog.LevelInfo
	}
	return &MemorySink{buf: &ring{maxSize: maxSize}, level: level}
}

func (s *MemorySink) Enabled(_ context.Context, level slog.Level) bool {
	return level >= s.level.Level()
}

func (s *MemorySink) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	b.WriteString(s.attrs)
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, s.prefix, a)
		return true
	})

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	s.buf.add(Entry{Timestamp: ts, Level: r.Level, Message: b.String()})
	return nil
}

func (s *MemorySink) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	b.WriteString(s.attrs)
	for _, a := range attrs {
		writeAttr(&b, s.prefix, a)
	}
	clone := *s
	clone.attrs = b.String()
	return &clone
}

func (s *MemorySink) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	clone := *s
	clone.prefix = s.prefix + name + "."
	return &clone
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			writeAttr(b, p, ga)
		}
		return
	}
	fmt.Fprintf(b, " %s%s=%v", prefix, a.Key, a.Value.Any())
}

// Entries returns a snapshot of all buffered entries.
func (s *MemorySink) Entries() []Entry {
	return s.buf.snapshot()
}

// Render formats the buffer for a viewport of the given width, truncating
// long lines.
func (s *MemorySink) Render(width int) string {
	entries := s.Entries()
	if len(entries) == 0 {
		return "(no log entries yet)"
	}
	var b strings.Builder
	for _, e := range entries {
		line := fmt.Sprintf("%s [%s] %s",
			e.Timestamp.Format("15:04:05"),
			levelLabel(e.Level),
			e.Message,
		)
		if width > 10 && len(line) > width-2 {
			line = line[:width-5] + "..."
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func levelLabel(l slog.Level) string {
	switch {
	case l < slog.LevelInfo:
		return "DBG"
	case l < slog.LevelWarn:
		return "INF"
	case l < slog.LevelError:
		return "WRN"
	default:
		return "ERR"
	}
}
