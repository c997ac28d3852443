package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	yaml "gopkg.in/yaml.v3"

	"github.com/moriyoshi/untrustworthy-mail/internal/expand"
	"github.com/moriyoshi/untrustworthy-mail/internal/logging"
	"github.com/moriyoshi/untrustworthy-mail/types"
)

type ThiefConfig struct {
	Threshold int  `yaml:"threshold" validate:"gte=0"`
	Lenient   bool `yaml:"lenient"`
}

type InspectorConfig struct {
	StolenMarker      string   `yaml:"stolen_marker" validate:"required"`
	ForbiddenContents []string `yaml:"forbidden_contents" validate:"dive,required"`
}

// Config describes the handlers of a pipeline. String values may refer to
// environment variables as ${env.NAME}.
type Config struct {
	WatchedIdentities []string        `yaml:"watched_identities" validate:"dive,required"`
	Thief             ThiefConfig     `yaml:"thief"`
	Inspector         InspectorConfig `yaml:"inspector"`

	// Redirections rewrite recipients before any other handler sees the mail.
	Redirections RedirectionRules `yaml:"redirections"`
}

func DefaultConfig() Config {
	return Config{
		WatchedIdentities: []string{AustinPowers},
		Thief: ThiefConfig{
			Threshold: 1000,
		},
		Inspector: InspectorConfig{
			StolenMarker:      Stones,
			ForbiddenContents: []string{Weapons, BannedSubstance},
		},
	}
}

// ConfigValidationError maps the path of each offending field to a
// description of what is wrong with it.
type ConfigValidationError map[string]string

func (vs ConfigValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}
	b, err := json.Marshal(vs)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

func yamlFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(yamlFieldName)
	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return fmt.Errorf("translator for %q not found", "en")
	}
	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return err
	}
	if err := validate.Struct(c); err != nil {
		var validateErrs validator.ValidationErrors
		if !errors.As(err, &validateErrs) {
			return err
		}
		retval := make(ConfigValidationError)
		for _, fe := range validateErrs {
			_, path, _ := strings.Cut(fe.Namespace(), ".")
			retval[path] = fe.Translate(enTrans)
		}
		return retval
	}
	return nil
}

func (c *Config) expandEnv() {
	c.WatchedIdentities = expand.ExpandEnvAll(c.WatchedIdentities)
	c.Inspector.StolenMarker = expand.ExpandEnv(c.Inspector.StolenMarker)
	c.Inspector.ForbiddenContents = expand.ExpandEnvAll(c.Inspector.ForbiddenContents)
}

// ParseConfig reads a YAML document on top of DefaultConfig, so that keys
// missing from the document keep their default values.
func ParseConfig(b []byte) (Config, error) {
	c := DefaultConfig()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("failed to parse configuration: %w", err)
	}
	c.expandEnv()
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

func LoadConfigFile(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(b)
}

// Pipeline holds the handlers built from a Config.
type Pipeline struct {
	Redirector *Redirector // nil when no redirections are configured
	Spy        *Spy
	Thief      *Thief
	Inspector  *Inspector
	Delivery   *Delivery
}

// Stages returns the intercepting handlers in the order they are meant to run.
func (p *Pipeline) Stages() []types.Handler {
	stages := make([]types.Handler, 0, 4)
	if p.Redirector != nil {
		stages = append(stages, p.Redirector)
	}
	return append(stages, p.Spy, p.Thief, p.Inspector)
}

func (c Config) Build(logger *slog.Logger) (*Pipeline, error) {
	logger = logging.OrDiscard(logger)
	var redirector *Redirector
	if len(c.Redirections) > 0 {
		var err error
		redirector, err = NewRedirector(
			c.Redirections,
			WithRedirectorLogger(logger.With(slog.String("handler", "redirector"))),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create redirector: %w", err)
		}
	}
	spy, err := NewSpy(
		WithSpyLogger(logger.With(slog.String("handler", "spy"))),
		WithWatchedIdentities(c.WatchedIdentities...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create spy: %w", err)
	}
	thief, err := NewThief(
		c.Thief.Threshold,
		WithThiefLogger(logger.With(slog.String("handler", "thief"))),
		WithLenientThief(c.Thief.Lenient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create thief: %w", err)
	}
	inspector, err := NewInspector(
		WithInspectorLogger(logger.With(slog.String("handler", "inspector"))),
		WithStolenMarker(c.Inspector.StolenMarker),
		WithForbiddenContents(c.Inspector.ForbiddenContents...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create inspector: %w", err)
	}
	delivery, err := NewDelivery(
		WithDeliveryLogger(logger.With(slog.String("handler", "delivery"))),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create delivery: %w", err)
	}
	return &Pipeline{
		Redirector: redirector,
		Spy:        spy,
		Thief:      thief,
		Inspector:  inspector,
		Delivery:   delivery,
	}, nil
}
