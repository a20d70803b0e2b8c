package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func linkCommand() *cli.Command {
	return &cli.Command{
		Name:  "link",
		Usage: "Manage links between items",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Link a child item to a parent item",
				ArgsUsage: "CHILD PARENT",
				Action:    runLinkAdd,
			},
			{
				Name:      "remove",
				Usage:     "Remove a link between items",
				ArgsUsage: "CHILD PARENT",
				Action:    runLinkRemove,
			},
		},
	}
}

func runLinkAdd(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("expected CHILD and PARENT arguments")
	}
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	child, parent := cmd.Args().Get(0), cmd.Args().Get(1)
	if err := e.svc.AddLink(child, parent); err != nil {
		return err
	}
	fmt.Printf("Linked: %s -> %s\n", child, parent)
	return nil
}

func runLinkRemove(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("expected CHILD and PARENT arguments")
	}
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	child, parent := cmd.Args().Get(0), cmd.Args().Get(1)
	if err := e.svc.RemoveLink(child, parent); err != nil {
		return err
	}
	fmt.Printf("Unlinked: %s -> %s\n", child, parent)
	return nil
}
