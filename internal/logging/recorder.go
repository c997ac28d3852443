package logging

import (
	"context"
	"log/slog"
	"sync"
)

type recordStore struct {
	mu      sync.Mutex
	records []slog.Record
}

// Recorder implements slog.Handler and keeps every record it is handed,
// at every level, so that the emitted records can be inspected afterwards.
type Recorder struct {
	store *recordStore
	attrs []slog.Attr
}

func NewRecorder() *Recorder {
	return &Recorder{store: &recordStore{}}
}

func (h *Recorder) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

func (h *Recorder) Handle(ctx context.Context, record slog.Record) error {
	r := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	r.AddAttrs(h.attrs...)
	record.Attrs(func(a slog.Attr) bool {
		r.AddAttrs(a)
		return true
	})
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	h.store.records = append(h.store.records, r)
	return nil
}

func (h *Recorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newAttrs = append(newAttrs, h.attrs...)
	newAttrs = append(newAttrs, attrs...)
	return &Recorder{store: h.store, attrs: newAttrs}
}

// WithGroup is not supported; attributes stay flat.
func (h *Recorder) WithGroup(name string) slog.Handler {
	return h
}

func (h *Recorder) Records() []slog.Record {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	retval := make([]slog.Record, len(h.store.records))
	copy(retval, h.store.records)
	return retval
}

func (h *Recorder) Reset() {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	h.store.records = nil
}

// Attrs flattens the attributes of a record into a map keyed by attribute name.
func Attrs(r slog.Record) map[string]slog.Value {
	retval := make(map[string]slog.Value, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		retval[a.Key] = a.Value.Resolve()
		return true
	})
	return retval
}
