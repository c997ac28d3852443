package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	untrustworthy "github.com/moriyoshi/untrustworthy-mail"
	"github.com/moriyoshi/untrustworthy-mail/handler"
	"github.com/moriyoshi/untrustworthy-mail/types"
)

type CLI struct {
	Config            string     `name:"config" help:"Path to the pipeline configuration file." env:"UNTRUSTWORTHY_CONFIG" optional:""`
	LogLevel          slog.Level `name:"log-level" help:"Log level." env:"UNTRUSTWORTHY_LOG_LEVEL" default:"INFO" enum:"DEBUG,INFO,WARN,ERROR"`
	Threshold         int        `name:"threshold" help:"Overrides the price from which the thief steals. Negative keeps the configured value." env:"UNTRUSTWORTHY_THRESHOLD" default:"-1"`
	WatchedIdentities []string   `name:"watch" help:"Overrides the identities the spy watches." env:"UNTRUSTWORTHY_WATCH" optional:""`
}

func (CLI *CLI) initLogger(*kong.Context) *slog.Logger {
	var handler slog.Handler
	if isatty.IsTerminal(os.Stdout.Fd()) {
		handler = tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{Level: CLI.LogLevel})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: CLI.LogLevel})
	}
	return slog.New(handler)
}

func (CLI *CLI) initConfig(kongCtx *kong.Context, logger *slog.Logger) handler.Config {
	config := handler.DefaultConfig()
	if CLI.Config != "" {
		var err error
		logger.Info("loading configuration", slog.String("path", CLI.Config))
		config, err = handler.LoadConfigFile(CLI.Config)
		if err != nil {
			kongCtx.FatalIfErrorf(err)
		}
	}
	if CLI.Threshold >= 0 {
		config.Thief.Threshold = CLI.Threshold
	}
	if len(CLI.WatchedIdentities) > 0 {
		config.WatchedIdentities = CLI.WatchedIdentities
	}
	if err := config.Validate(); err != nil {
		kongCtx.FatalIfErrorf(err)
	}
	return config
}

func (CLI *CLI) initPipeline(kongCtx *kong.Context, logger *slog.Logger, config handler.Config) (*handler.Pipeline, *untrustworthy.Worker) {
	pipeline, err := config.Build(logger)
	if err != nil {
		kongCtx.FatalIfErrorf(err)
	}
	worker, err := untrustworthy.NewWorker(
		pipeline.Stages(),
		pipeline.Delivery,
		untrustworthy.WithLogger(logger.With(slog.String("handler", "worker"))),
	)
	if err != nil {
		kongCtx.FatalIfErrorf(err)
	}
	return pipeline, worker
}

func main() {
	var CLI CLI
	kongCtx := kong.Parse(&CLI)
	logger := CLI.initLogger(kongCtx)
	config := CLI.initConfig(kongCtx, logger)
	pipeline, worker := CLI.initPipeline(kongCtx, logger, config)

	pack := types.NewPackage("Something valuable", 1000)
	message := types.NewMessage(handler.AustinPowers, "d", "Hi")
	parcel := types.NewParcel(handler.AustinPowers, "z", pack)

	if _, err := pipeline.Spy.Process(message); err != nil {
		kongCtx.FatalIfErrorf(err)
	}
	if _, err := pipeline.Thief.Process(parcel); err != nil {
		kongCtx.FatalIfErrorf(err)
	}
	kongCtx.Printf("stolen value: %d", pipeline.Thief.StolenValue())

	_, err := worker.Process(parcel)
	var rejection *types.RejectionError
	switch {
	case err == nil:
		kongCtx.Printf("parcel delivered")
	case errors.As(err, &rejection):
		kongCtx.Printf("parcel rejected by %s: %v", rejection.Handler, types.RejectionKind(err))
	default:
		kongCtx.Printf("parcel not delivered: %v", err)
	}
	kongCtx.Printf("stolen value: %d", pipeline.Thief.StolenValue())
}
