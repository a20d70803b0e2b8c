package commands

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/starford/raido/internal/watch"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Re-run validation whenever item or config files change",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "warn-all",
				Usage: "Promote info findings to warnings",
			},
			&cli.BoolFlag{
				Name:  "error-all",
				Usage: "Promote warnings to errors",
			},
		},
		Action: runWatch,
	}
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	revalidate := func() {
		issues, err := runValidation(e, nil, cmd.Bool("warn-all"), cmd.Bool("error-all"))
		if err != nil {
			e.logger.Error("watch: validation run failed", slog.String("error", err.Error()))
			return
		}
		printIssues(issues)
	}

	// One pass up front so the initial state is visible.
	revalidate()

	return watch.Run(ctx, e.store.Root(), e.logger, revalidate)
}
