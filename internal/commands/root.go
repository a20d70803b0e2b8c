// Package commands wires the traceability engine into the command-line
// surface.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/starford/raido/internal"
	"github.com/starford/raido/internal/itemservice"
	"github.com/starford/raido/internal/storage"
	pkgconfig "github.com/starford/raido/pkg/config"
)

// Root builds the top-level command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name:  "raido",
		Usage: "Requirements traceability: document hierarchy, item links, and validation over plain YAML files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   "raido.yml",
				Sources: cli.EnvVars("RAIDO_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory (overrides config)",
			},
		},
		Commands: []*cli.Command{
			checkCommand(),
			docCommand(),
			itemCommand(),
			linkCommand(),
			reviewCommand(),
			watchCommand(),
		},
	}
}

// env bundles the per-invocation dependencies the subcommands share.
type env struct {
	cfg    *internal.Config
	logger *slog.Logger
	store  *storage.FS
	svc    *itemservice.Service
}

// setup loads configuration, initializes the logger, and opens the
// project root.
func setup(cmd *cli.Command) (*env, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfExists(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if root := cmd.String("root"); root != "" {
		cfg.Project.Root = root
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	store, err := storage.NewFS(cfg.Project.Root)
	if err != nil {
		return nil, fmt.Errorf("open project root: %w", err)
	}

	return &env{
		cfg:    cfg,
		logger: logger,
		store:  store,
		svc:    itemservice.NewService(store, logger),
	}, nil
}
