package untrustworthy

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/moriyoshi/untrustworthy-mail/internal/logging"
	"github.com/moriyoshi/untrustworthy-mail/types"
)

var (
	// ErrNoTerminal is returned by NewWorker when no terminal handler is given.
	ErrNoTerminal = errors.New("no terminal handler")
	// ErrNilHandler is returned by NewWorker when a handler in the sequence is nil.
	ErrNilHandler = errors.New("nil handler")
	// ErrNilMail is reported for a nil Mail, whether given to Process or returned by a handler.
	ErrNilMail    = errors.New("nil mail")
)

// Worker passes a Mail through an ordered sequence of handlers and finally
// hands the result to a terminal handler. The first handler to return an
// error stops the traversal; neither the remaining handlers nor the
// terminal handler are invoked then.
//
// A Worker is itself a types.Handler.
type Worker struct {
	handlers []types.Handler
	terminal types.Handler
	logger   *slog.Logger
}

type OptionFunc func(w *Worker) error

func WithLogger(logger *slog.Logger) OptionFunc {
	return func(w *Worker) error {
		w.logger = logging.OrDiscard(logger)
		return nil
	}
}

func NewWorker(handlers []types.Handler, terminal types.Handler, options ...OptionFunc) (*Worker, error) {
	if terminal == nil {
		return nil, ErrNoTerminal
	}
	for i, h := range handlers {
		if h == nil {
			return nil, fmt.Errorf("handler #%d: %w", i, ErrNilHandler)
		}
	}
	w := &Worker{
		handlers: append([]types.Handler(nil), handlers...),
		terminal: terminal,
		logger:   logging.Discard(),
	}
	for _, option := range options {
		if err := option(w); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (w *Worker) Terminal() types.Handler {
	return w.terminal
}

func (w *Worker) Handlers() []types.Handler {
	return append([]types.Handler(nil), w.handlers...)
}

func handlerName(h types.Handler) string {
	if s, ok := h.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", h)
}

func newTraceID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (w *Worker) Process(m types.Mail) (types.Mail, error) {
	if m == nil {
		return nil, ErrNilMail
	}
	logger := w.logger.With(
		slog.String("trace_id", newTraceID()),
		slog.String("kind", m.Kind().String()),
		slog.String("from", m.Sender()),
		slog.String("to", m.Recipient()),
	)
	for i, h := range w.handlers {
		logger.Debug("processing", slog.Int("stage", i), slog.String("stage_handler", handlerName(h)))
		var err error
		m, err = h.Process(m)
		if err != nil {
			logger.Warn("mail rejected", slog.Int("stage", i), slog.String("stage_handler", handlerName(h)), slog.Any("error", err))
			return nil, err
		}
		if m == nil {
			return nil, fmt.Errorf("handler %s returned no mail: %w", handlerName(h), ErrNilMail)
		}
	}
	logger.Debug("handing over to terminal", slog.String("stage_handler", handlerName(w.terminal)))
	return w.terminal.Process(m)
}
