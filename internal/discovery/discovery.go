// Package discovery locates document configuration files under a project
// root and assembles the document hierarchy.
package discovery

import (
	"log/slog"
	"path/filepath"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/dag"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/storage"
)

// Discover walks the project root for document configuration files and
// builds the document hierarchy. Config files are visited in sorted path
// order, so the result is deterministic.
//
// A malformed configuration aborts discovery for that document only; a
// warning-level issue records the skip. A duplicate prefix is fatal for
// the whole build, because UID generation assumes prefix uniqueness.
func Discover(store storage.Provider, logger *slog.Logger) (*dag.DocumentDAG, models.Issues, error) {
	paths, err := store.Walk(ConfigFileName)
	if err != nil {
		return nil, nil, err
	}

	d := dag.New()
	var issues models.Issues

	for _, path := range paths {
		data, err := store.Read(path)
		if err != nil {
			return nil, nil, err
		}
		cfg, err := ParseConfig(data)
		if err != nil {
			cerr := &apperr.ConfigError{Path: path, Err: err}
			logger.Warn("discovery: skipping document", slog.String("path", path), slog.String("error", err.Error()))
			issues = append(issues, models.Issue{
				Level:   models.LevelWarning,
				Code:    "config-invalid",
				Message: cerr.Error(),
			})
			continue
		}
		if existing, ok := d.Paths[cfg.Prefix]; ok {
			return nil, nil, &apperr.DiscoveryError{
				Prefixes: []string{cfg.Prefix},
				Reason:   "duplicate document prefix (also at " + existing + ")",
			}
		}
		d.Add(cfg, filepath.Dir(path))
	}

	return d, issues, nil
}
