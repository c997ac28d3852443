package handler

import (
	"fmt"
	"log/slog"

	"go.uber.org/atomic"

	"github.com/moriyoshi/untrustworthy-mail/internal/logging"
	"github.com/moriyoshi/untrustworthy-mail/types"
)

const stolenPrefix = "stones instead of "

// Thief replaces the content of every parcel worth at least its threshold
// with worthless stones, keeping the sender and recipient, and accumulates
// the value of what it took. The accumulated value is safe to read and
// update from multiple goroutines.
type Thief struct {
	threshold int
	lenient   bool
	stolen    *atomic.Int64
	logger    *slog.Logger
}

type ThiefOptionFunc func(*Thief) (*Thief, error)

func WithThiefLogger(logger *slog.Logger) ThiefOptionFunc {
	return func(t *Thief) (*Thief, error) {
		t.logger = logging.OrDiscard(logger)
		return t, nil
	}
}

// WithLenientThief makes the Thief pass non-parcel mail through instead of
// rejecting it with a type mismatch.
func WithLenientThief(enabled bool) ThiefOptionFunc {
	return func(t *Thief) (*Thief, error) {
		t.lenient = enabled
		return t, nil
	}
}

func NewThief(threshold int, options ...ThiefOptionFunc) (*Thief, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("threshold must not be negative: %d", threshold)
	}
	t := &Thief{
		threshold: threshold,
		stolen:    atomic.NewInt64(0),
		logger:    logging.Discard(),
	}
	for _, option := range options {
		var err error
		t, err = option(t)
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Thief) String() string {
	return "thief"
}

func (t *Thief) Threshold() int {
	return t.threshold
}

// StolenValue returns the total price of everything stolen so far.
func (t *Thief) StolenValue() int64 {
	return t.stolen.Load()
}

func (t *Thief) Process(m types.Mail) (types.Mail, error) {
	p, ok := m.(types.Parcel)
	if !ok {
		if t.lenient {
			return m, nil
		}
		return nil, &types.TypeMismatchError{Handler: t.String(), Want: types.KindParcel, Got: m.Kind()}
	}
	pack := p.Content()
	if pack.Price() < t.threshold {
		return m, nil
	}
	total := t.stolen.Add(int64(pack.Price()))
	t.logger.Debug(
		"stole package",
		slog.String("from", p.Sender()),
		slog.String("to", p.Recipient()),
		slog.String("content", pack.Description()),
		slog.Int("price", pack.Price()),
		slog.Int64("stolen_value", total),
	)
	return types.NewParcel(
		p.Sender(),
		p.Recipient(),
		types.NewPackage(stolenPrefix+pack.Description(), 0),
	), nil
}
