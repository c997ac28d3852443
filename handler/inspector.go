package handler

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/moriyoshi/untrustworthy-mail/internal/logging"
	"github.com/moriyoshi/untrustworthy-mail/types"
)

const (
	Stones          = "stones"
	Weapons         = "weapons"
	BannedSubstance = "banned substance"
)

// Inspector rejects parcels whose description shows that the content was
// stolen, and then parcels carrying forbidden content. The stolen check
// always comes first. Mail other than parcels is passed through.
type Inspector struct {
	stolenMarker string
	forbidden    []string
	logger       *slog.Logger
}

type InspectorOptionFunc func(*Inspector) (*Inspector, error)

func WithInspectorLogger(logger *slog.Logger) InspectorOptionFunc {
	return func(i *Inspector) (*Inspector, error) {
		i.logger = logging.OrDiscard(logger)
		return i, nil
	}
}

func WithStolenMarker(marker string) InspectorOptionFunc {
	return func(i *Inspector) (*Inspector, error) {
		if marker == "" {
			return nil, fmt.Errorf("stolen marker must not be empty")
		}
		i.stolenMarker = marker
		return i, nil
	}
}

func WithForbiddenContents(contents ...string) InspectorOptionFunc {
	return func(i *Inspector) (*Inspector, error) {
		for n, content := range contents {
			if content == "" {
				return nil, fmt.Errorf("forbidden content #%d is empty", n)
			}
		}
		i.forbidden = append([]string(nil), contents...)
		return i, nil
	}
}

func NewInspector(options ...InspectorOptionFunc) (*Inspector, error) {
	i := &Inspector{
		stolenMarker: Stones,
		forbidden:    []string{Weapons, BannedSubstance},
		logger:       logging.Discard(),
	}
	for _, option := range options {
		var err error
		i, err = option(i)
		if err != nil {
			return nil, err
		}
	}
	return i, nil
}

func (i *Inspector) String() string {
	return "inspector"
}

func (i *Inspector) reject(p types.Parcel, kind error, term string) error {
	i.logger.Info(
		"rejected parcel",
		slog.String("from", p.Sender()),
		slog.String("to", p.Recipient()),
		slog.String("content", p.Content().Description()),
		slog.String("kind", kind.Error()),
	)
	return &types.RejectionError{
		Handler: i.String(),
		Mail:    p,
		Reason:  fmt.Sprintf("content contains %q", term),
		Err:     kind,
	}
}

func (i *Inspector) Process(m types.Mail) (types.Mail, error) {
	p, ok := m.(types.Parcel)
	if !ok {
		return m, nil
	}
	description := p.Content().Description()
	if strings.Contains(description, i.stolenMarker) {
		return nil, i.reject(p, types.ErrStolenPackage, i.stolenMarker)
	}
	term, found := lo.Find(i.forbidden, func(term string) bool {
		return strings.Contains(description, term)
	})
	if found {
		return nil, i.reject(p, types.ErrIllegalPackage, term)
	}
	return m, nil
}
