package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/starford/raido/internal/dag"
	"github.com/starford/raido/internal/discovery"
	"github.com/starford/raido/internal/graph"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/validate"
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Build the traceability graph and run validation",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "warn-all",
				Usage: "Promote info findings to warnings",
			},
			&cli.BoolFlag{
				Name:  "error-all",
				Usage: "Promote warnings to errors for the exit code",
			},
			&cli.StringSliceFlag{
				Name:    "documents",
				Aliases: []string{"d"},
				Usage:   "Restrict the check to the given document prefixes",
			},
		},
		Action: runCheck,
	}
}

func runCheck(_ context.Context, cmd *cli.Command) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	issues, err := runValidation(e, cmd.StringSlice("documents"), cmd.Bool("warn-all"), cmd.Bool("error-all"))
	if err != nil {
		return err
	}
	printIssues(issues)
	if issues.HasErrors() {
		return cli.Exit("validation failed", 1)
	}
	return nil
}

// runValidation performs one discovery → build → validate pass.
func runValidation(e *env, documents []string, warnAll, errorAll bool) (models.Issues, error) {
	d, issues, err := discovery.Discover(e.store, e.logger)
	if err != nil {
		return nil, err
	}

	// Inactive items load too, so links to them are reported as
	// "inactive" rather than "missing".
	g, buildIssues, err := graph.Build(e.store, d, graph.BuildOptions{
		Prefixes:        documents,
		IncludeInactive: true,
	})
	if err != nil {
		return nil, err
	}
	issues = append(issues, buildIssues...)

	opts := e.cfg.Validation.Options()
	if warnAll {
		opts = append(opts, validate.WarnAll())
	}
	if errorAll {
		opts = append(opts, validate.ErrorAll())
	}
	if len(documents) > 0 {
		opts = append(opts, validate.SkipPrefixes(outsideSelection(d, documents)...))
	}

	return append(issues, validate.Run(d, g, opts...)...), nil
}

// outsideSelection returns the prefixes not named in the selection.
func outsideSelection(d *dag.DocumentDAG, documents []string) []string {
	selected := make(map[string]bool, len(documents))
	for _, p := range documents {
		selected[p] = true
	}
	var out []string
	for _, p := range d.Prefixes() {
		if !selected[p] {
			out = append(out, p)
		}
	}
	return out
}

func printIssues(issues models.Issues) {
	for _, issue := range issues {
		fmt.Println(issue.String())
	}
	fmt.Printf("%d errors, %d warnings, %d info\n",
		issues.Count(models.LevelError),
		issues.Count(models.LevelWarning),
		issues.Count(models.LevelInfo))
}
