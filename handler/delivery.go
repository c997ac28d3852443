package handler

import (
	"log/slog"

	"github.com/moriyoshi/untrustworthy-mail/internal/logging"
	"github.com/moriyoshi/untrustworthy-mail/types"
)

// Delivery stands in for the real mail service at the end of a pipeline.
// It hands back whatever it is given.
type Delivery struct {
	logger *slog.Logger
}

type DeliveryOptionFunc func(*Delivery) (*Delivery, error)

func WithDeliveryLogger(logger *slog.Logger) DeliveryOptionFunc {
	return func(d *Delivery) (*Delivery, error) {
		d.logger = logging.OrDiscard(logger)
		return d, nil
	}
}

func NewDelivery(options ...DeliveryOptionFunc) (*Delivery, error) {
	d := &Delivery{logger: logging.Discard()}
	for _, option := range options {
		var err error
		d, err = option(d)
		if err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Delivery) String() string {
	return "delivery"
}

func (d *Delivery) Process(m types.Mail) (types.Mail, error) {
	d.logger.Debug(
		"delivered",
		slog.String("kind", m.Kind().String()),
		slog.String("from", m.Sender()),
		slog.String("to", m.Recipient()),
	)
	return m, nil
}
