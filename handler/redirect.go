package handler

import (
	"fmt"
	"log/slog"
	"regexp"

	yaml "gopkg.in/yaml.v3"

	"github.com/moriyoshi/untrustworthy-mail/internal/expand"
	"github.com/moriyoshi/untrustworthy-mail/internal/logging"
	"github.com/moriyoshi/untrustworthy-mail/types"
)

type RegexpSubstitution struct {
	R *regexp.Regexp
	S string
}

func (rs RegexpSubstitution) Substitute(s string) string {
	return rs.R.ReplaceAllString(s, rs.S)
}

type RedirectionRule RegexpSubstitution

func newRedirectionRule(match, substitution string) (RedirectionRule, error) {
	r, err := regexp.Compile(expand.ExpandEnv(match))
	if err != nil {
		return RedirectionRule{}, err
	}
	return RedirectionRule{R: r, S: expand.ExpandEnv(substitution)}, nil
}

// RedirectionRules is an ordered list of recipient rewriting rules.
// In YAML it is written either as a list of {match, substitution} objects,
// which keeps the precedence, or as a match-to-substitution mapping.
type RedirectionRules []RedirectionRule

func (rrs *RedirectionRules) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.MappingNode:
		_rrs := make([]RedirectionRule, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			var match, substitution string
			if err := n.Content[i].Decode(&match); err != nil {
				return err
			}
			if err := n.Content[i+1].Decode(&substitution); err != nil {
				return fmt.Errorf("value for key %q is not a string", match)
			}
			rr, err := newRedirectionRule(match, substitution)
			if err != nil {
				return err
			}
			_rrs = append(_rrs, rr)
		}
		*rrs = _rrs
	case yaml.SequenceNode:
		var rules []struct {
			Match        *string `yaml:"match"`
			Substitution *string `yaml:"substitution"`
		}
		if err := n.Decode(&rules); err != nil {
			return err
		}
		_rrs := make([]RedirectionRule, 0, len(rules))
		for i, rule := range rules {
			if rule.Match == nil {
				return fmt.Errorf("rule #%d: key 'match' is missing", i)
			}
			if rule.Substitution == nil {
				return fmt.Errorf("rule #%d: key 'substitution' is missing", i)
			}
			rr, err := newRedirectionRule(*rule.Match, *rule.Substitution)
			if err != nil {
				return err
			}
			_rrs = append(_rrs, rr)
		}
		*rrs = _rrs
	default:
		return fmt.Errorf("rules is not an object or an array")
	}
	return nil
}

// Redirector rewrites the recipient of mail with the first rule that changes
// it. Everything else about the mail is kept as is.
type Redirector struct {
	rules  RedirectionRules
	logger *slog.Logger
}

type RedirectorOptionFunc func(*Redirector) (*Redirector, error)

func WithRedirectorLogger(logger *slog.Logger) RedirectorOptionFunc {
	return func(r *Redirector) (*Redirector, error) {
		r.logger = logging.OrDiscard(logger)
		return r, nil
	}
}

func NewRedirector(rules RedirectionRules, options ...RedirectorOptionFunc) (*Redirector, error) {
	r := &Redirector{
		rules:  rules,
		logger: logging.Discard(),
	}
	for _, option := range options {
		var err error
		r, err = option(r)
		if err != nil {
			return nil, err
		}
	}
	for i, rule := range rules {
		r.logger.Debug("rule", slog.Int("precedence", i), slog.String("match", rule.R.String()), slog.String("substitution", rule.S))
	}
	return r, nil
}

func (r *Redirector) String() string {
	return "redirector"
}

func (r *Redirector) Rules() RedirectionRules {
	return r.rules
}

func (r *Redirector) Process(m types.Mail) (types.Mail, error) {
	for i, rule := range r.rules {
		rcpt := RegexpSubstitution(rule).Substitute(m.Recipient())
		if rcpt == m.Recipient() {
			continue
		}
		r.logger.Info(
			"redirected",
			slog.Int("precedence", i),
			slog.String("old_recipient", m.Recipient()),
			slog.String("new_recipient", rcpt),
		)
		switch m := m.(type) {
		case types.Message:
			return types.NewMessage(m.Sender(), rcpt, m.Body()), nil
		case types.Parcel:
			return types.NewParcel(m.Sender(), rcpt, m.Content()), nil
		}
	}
	return m, nil
}
