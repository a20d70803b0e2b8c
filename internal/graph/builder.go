package graph

import (
	"log/slog"

	"github.com/starford/raido/internal/dag"
	"github.com/starford/raido/internal/discovery"
	"github.com/starford/raido/internal/itemfile"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/storage"
)

// BuildOptions controls graph assembly.
type BuildOptions struct {
	// Prefixes restricts loading to the given documents. Empty means all.
	Prefixes []string
	// IncludeInactive loads items with active=false as well.
	IncludeInactive bool
}

// Build assembles the traceability graph from an already-discovered
// document hierarchy. Documents load strictly in topological order so that
// every legitimate link target exists in the graph before its children are
// inserted; a cyclic hierarchy is therefore fatal before any item is read.
// Per-item parse failures accumulate as error-level issues and loading
// continues.
func Build(store storage.Provider, d *dag.DocumentDAG, opts BuildOptions) (*TraceabilityGraph, models.Issues, error) {
	order, err := d.TopologicalOrder()
	if err != nil {
		return nil, nil, err
	}

	wanted := make(map[string]bool, len(opts.Prefixes))
	for _, p := range opts.Prefixes {
		wanted[p] = true
	}

	g := New()
	var issues models.Issues

	for _, prefix := range order {
		if len(wanted) > 0 && !wanted[prefix] {
			continue
		}
		cfg := d.Documents[prefix]
		g.SetDocumentParents(prefix, cfg.Parents)

		items, docIssues, err := itemfile.ReadDocument(store, d.Paths[prefix], cfg, opts.IncludeInactive)
		if err != nil {
			return nil, nil, err
		}
		issues = append(issues, docIssues...)
		for _, item := range items {
			g.AddItem(item)
		}
	}

	return g, issues, nil
}

// BuildFromRoot discovers documents under root and builds the graph in one
// call. The returned issues combine discovery and per-item findings.
func BuildFromRoot(root string, logger *slog.Logger, opts BuildOptions) (*TraceabilityGraph, *dag.DocumentDAG, models.Issues, error) {
	store, err := storage.NewFS(root)
	if err != nil {
		return nil, nil, nil, err
	}
	d, issues, err := discovery.Discover(store, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	g, buildIssues, err := Build(store, d, opts)
	if err != nil {
		return nil, nil, nil, err
	}
	return g, d, append(issues, buildIssues...), nil
}
