package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"go-studio-booking/internal/app"
	"go-studio-booking/internal/config"
	"go-studio-booking/internal/logger"
)

func main() {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "optional YAML configuration file",
		EnvVars: []string{"CONFIG_FILE"},
	}

	cliApp := &cli.App{
		Name:   "studio",
		Usage:  "studio session booking API",
		Flags:  []cli.Flag{configFlag},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply the database schema and exit",
				Action: migrate,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		slog.Error("studio failed", "error", err)
		os.Exit(1)
	}
}

func load(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger.New(os.Stdout, cfg.LogFormat, cfg.LogLevel))
	return cfg, nil
}

func serve(c *cli.Context) error {
	cfg, err := load(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	return application.Run(ctx)
}

func migrate(c *cli.Context) error {
	cfg, err := load(c)
	if err != nil {
		return err
	}
	return app.Migrate(c.Context, cfg)
}
