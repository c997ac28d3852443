package handler

import (
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/moriyoshi/untrustworthy-mail/internal/logging"
	"github.com/moriyoshi/untrustworthy-mail/types"
)

const AustinPowers = "Austin Powers"

// Spy logs every Mail passing through it and never changes it.
// Correspondence from or to a watched identity is logged at WARN together
// with its payload; anything else is logged at INFO with the addresses only.
// Both Message and Parcel are accepted.
type Spy struct {
	watched []string
	logger  *slog.Logger
}

type SpyOptionFunc func(*Spy) (*Spy, error)

func WithSpyLogger(logger *slog.Logger) SpyOptionFunc {
	return func(s *Spy) (*Spy, error) {
		s.logger = logging.OrDiscard(logger)
		return s, nil
	}
}

func WithWatchedIdentities(identities ...string) SpyOptionFunc {
	return func(s *Spy) (*Spy, error) {
		for i, identity := range identities {
			if identity == "" {
				return nil, fmt.Errorf("watched identity #%d is empty", i)
			}
		}
		s.watched = append([]string(nil), identities...)
		return s, nil
	}
}

func NewSpy(options ...SpyOptionFunc) (*Spy, error) {
	s := &Spy{
		watched: []string{AustinPowers},
		logger:  logging.Discard(),
	}
	for _, option := range options {
		var err error
		s, err = option(s)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Spy) String() string {
	return "spy"
}

func (s *Spy) WatchedIdentities() []string {
	return append([]string(nil), s.watched...)
}

func (s *Spy) isWatched(m types.Mail) bool {
	return lo.Contains(s.watched, m.Sender()) || lo.Contains(s.watched, m.Recipient())
}

func (s *Spy) Process(m types.Mail) (types.Mail, error) {
	attrs := []any{slog.String("from", m.Sender()), slog.String("to", m.Recipient())}
	if !s.isWatched(m) {
		s.logger.Info("Usual correspondence", attrs...)
		return m, nil
	}
	switch m := m.(type) {
	case types.Message:
		attrs = append(attrs, slog.String("message", m.Body()))
	case types.Parcel:
		attrs = append(attrs, slog.String("content", m.Content().Description()), slog.Int("price", m.Content().Price()))
	}
	s.logger.Warn("Detected target mail correspondence", attrs...)
	return m, nil
}
