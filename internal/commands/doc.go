package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/starford/raido/internal/discovery"
	"github.com/starford/raido/internal/itemfile"
	"github.com/starford/raido/internal/models"
)

func docCommand() *cli.Command {
	return &cli.Command{
		Name:  "doc",
		Usage: "Manage documents",
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create a new document",
				ArgsUsage: "PREFIX PATH",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "parent",
						Aliases: []string{"p"},
						Usage:   "Parent document prefix (repeatable)",
					},
					&cli.IntFlag{
						Name:    "digits",
						Aliases: []string{"d"},
						Value:   3,
						Usage:   "Number of digits for item IDs",
					},
					&cli.StringFlag{
						Name:    "sep",
						Aliases: []string{"s"},
						Usage:   "Separator between prefix and number",
					},
				},
				Action: runDocCreate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a document and its items",
				ArgsUsage: "PREFIX",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Delete even when other documents still link into it",
					},
				},
				Action: runDocDelete,
			},
			{
				Name:   "list",
				Usage:  "List all documents in the tree",
				Action: runDocList,
			},
		},
	}
}

func runDocCreate(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("expected PREFIX and PATH arguments")
	}
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	cfg := models.DocumentConfig{
		Prefix:  cmd.Args().Get(0),
		Parents: cmd.StringSlice("parent"),
		Digits:  int(cmd.Int("digits")),
		Sep:     cmd.String("sep"),
	}
	if err := e.svc.CreateDocument(cfg, cmd.Args().Get(1)); err != nil {
		return err
	}
	fmt.Printf("Created document: %s at %s\n", cfg.Prefix, cmd.Args().Get(1))
	return nil
}

func runDocDelete(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected PREFIX argument")
	}
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	prefix := cmd.Args().Get(0)
	if err := e.svc.DeleteDocument(prefix, cmd.Bool("force")); err != nil {
		return err
	}
	fmt.Printf("Deleted document: %s\n", prefix)
	return nil
}

func runDocList(_ context.Context, cmd *cli.Command) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	d, _, err := discovery.Discover(e.store, e.logger)
	if err != nil {
		return err
	}
	for _, prefix := range d.Prefixes() {
		cfg := d.Documents[prefix]
		items, _, err := itemfile.ReadDocument(e.store, d.Paths[prefix], cfg, true)
		if err != nil {
			return err
		}
		parents := "(root)"
		if len(cfg.Parents) > 0 {
			parents = strings.Join(cfg.Parents, ", ")
		}
		fmt.Printf("%s  %s  parents: %s  items: %d\n", prefix, d.Paths[prefix], parents, len(items))
	}
	return nil
}
