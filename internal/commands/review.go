package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func reviewCommand() *cli.Command {
	return &cli.Command{
		Name:  "review",
		Usage: "Manage item reviews",
		Commands: []*cli.Command{
			{
				Name:      "mark",
				Usage:     "Mark items as reviewed (LABEL is a UID, a prefix, or 'all')",
				ArgsUsage: "LABEL",
				Action:    runReviewMark,
			},
			{
				Name:      "clear",
				Usage:     "Acknowledge suspect links by refreshing stored hashes",
				ArgsUsage: "LABEL [PARENT...]",
				Action:    runReviewClear,
			},
			{
				Name:      "reset",
				Usage:     "Reset items to unreviewed and strip link hashes",
				ArgsUsage: "LABEL",
				Action:    runReviewReset,
			},
		},
	}
}

func runReviewMark(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected LABEL argument")
	}
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	count, err := e.svc.MarkReviewed(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	fmt.Printf("Marked %d item(s) as reviewed\n", count)
	return nil
}

func runReviewClear(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 {
		return fmt.Errorf("expected LABEL argument")
	}
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	count, err := e.svc.ClearSuspect(cmd.Args().Get(0), cmd.Args().Slice()[1:]...)
	if err != nil {
		return err
	}
	fmt.Printf("Cleared suspect links on %d item(s)\n", count)
	return nil
}

func runReviewReset(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected LABEL argument")
	}
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	count, err := e.svc.ResetReview(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	fmt.Printf("Reset %d item(s) to unreviewed\n", count)
	return nil
}
