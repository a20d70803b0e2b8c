package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/starford/raido/internal/discovery"
	"github.com/starford/raido/internal/itemfile"
	"github.com/starford/raido/internal/itemservice"
	"github.com/starford/raido/internal/models"
)

func itemCommand() *cli.Command {
	return &cli.Command{
		Name:  "item",
		Usage: "Manage items",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a new item to a document",
				ArgsUsage: "PREFIX",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "text", Usage: "Item body text"},
					&cli.StringFlag{Name: "header", Usage: "Item header"},
					&cli.StringFlag{Name: "type", Value: "requirement", Usage: "Item type (requirement, heading, info)"},
					&cli.StringSliceFlag{Name: "link", Usage: "Parent link UID (repeatable)"},
					&cli.BoolFlag{Name: "derived", Usage: "Mark the item derived (no parent links expected)"},
				},
				Action: runItemAdd,
			},
			{
				Name:      "edit",
				Usage:     "Edit an item's text, header, or type",
				ArgsUsage: "UID",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "text", Usage: "New body text"},
					&cli.StringFlag{Name: "header", Usage: "New header"},
					&cli.StringFlag{Name: "type", Usage: "New item type"},
				},
				Action: runItemEdit,
			},
			{
				Name:      "remove",
				Usage:     "Remove an item",
				ArgsUsage: "UID",
				Action:    runItemRemove,
			},
			{
				Name:      "show",
				Usage:     "Show a single item",
				ArgsUsage: "UID",
				Action:    runItemShow,
			},
			{
				Name:      "list",
				Usage:     "List items, optionally restricted to one document",
				ArgsUsage: "[PREFIX]",
				Action:    runItemList,
			},
		},
	}
}

func runItemAdd(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected PREFIX argument")
	}
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	item, err := e.svc.AddItem(cmd.Args().Get(0), itemservice.ItemDraft{
		Text:    cmd.String("text"),
		Header:  cmd.String("header"),
		Type:    models.ItemType(cmd.String("type")),
		Links:   cmd.StringSlice("link"),
		Derived: cmd.Bool("derived"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Added item: %s\n", item.UID)
	return nil
}

func runItemEdit(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected UID argument")
	}
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	var edit itemservice.ItemEdit
	if cmd.IsSet("text") {
		v := cmd.String("text")
		edit.Text = &v
	}
	if cmd.IsSet("header") {
		v := cmd.String("header")
		edit.Header = &v
	}
	if cmd.IsSet("type") {
		v := models.ItemType(cmd.String("type"))
		edit.Type = &v
	}

	item, err := e.svc.EditItem(cmd.Args().Get(0), edit)
	if err != nil {
		return err
	}
	fmt.Printf("Updated item: %s\n", item.UID)
	return nil
}

func runItemRemove(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected UID argument")
	}
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	uid := cmd.Args().Get(0)
	inbound, err := e.svc.RemoveItem(uid)
	if err != nil {
		return err
	}
	fmt.Printf("Removed item: %s\n", uid)
	if len(inbound) > 0 {
		fmt.Printf("Warning: %d item(s) still link to %s: %s\n", len(inbound), uid, strings.Join(inbound, ", "))
	}
	return nil
}

func runItemShow(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected UID argument")
	}
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	item, err := e.svc.GetItem(cmd.Args().Get(0))
	if err != nil {
		return err
	}

	fmt.Printf("uid: %s\ndocument: %s\ntype: %s\nactive: %v\n", item.UID, item.Document, item.Type, item.Active)
	if item.Header != "" {
		fmt.Printf("header: %s\n", item.Header)
	}
	fmt.Printf("text: %s\n", item.Text)
	for _, l := range item.Links {
		status := "unverified"
		if l.Hash != "" {
			status = "acknowledged"
		}
		fmt.Printf("link: %s (%s)\n", l.Parent, status)
	}
	if item.Reviewed != "" {
		fmt.Println("reviewed: yes")
	} else {
		fmt.Println("reviewed: no")
	}
	return nil
}

func runItemList(_ context.Context, cmd *cli.Command) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	d, _, err := discovery.Discover(e.store, e.logger)
	if err != nil {
		return err
	}

	prefixes := d.Prefixes()
	if cmd.Args().Len() > 0 {
		prefixes = []string{cmd.Args().Get(0)}
	}
	for _, prefix := range prefixes {
		cfg, ok := d.Documents[prefix]
		if !ok {
			return fmt.Errorf("document %s not found", prefix)
		}
		items, _, err := itemfile.ReadDocument(e.store, d.Paths[prefix], cfg, true)
		if err != nil {
			return err
		}
		for _, item := range items {
			fmt.Printf("%s  [%s]  %s\n", item.UID, item.Type, item.DisplayText())
		}
	}
	return nil
}
