package itemfile

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/storage"
)

// parseWorkers bounds concurrent item file parsing within one document.
const parseWorkers = 8

// UIDPattern returns a regexp matching UIDs of the given document and
// capturing the numeric suffix. Matching is case-insensitive, like the
// file lookups.
func UIDPattern(cfg models.DocumentConfig) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`(?i)^` + regexp.QuoteMeta(cfg.Prefix) + regexp.QuoteMeta(cfg.Sep) + `(\d+)$`)
	if err != nil {
		return nil, fmt.Errorf("invalid prefix pattern %q: %w", cfg.Prefix, err)
	}
	return re, nil
}

// ReadDocument loads every item file belonging to one document directory.
// Item files are parsed concurrently, then sorted by UID so callers see a
// deterministic order. A file that fails to parse becomes an error-level
// issue; the remaining items still load. Only I/O failures abort the read.
func ReadDocument(store storage.Provider, dir string, cfg models.DocumentConfig, includeInactive bool) ([]*models.Item, models.Issues, error) {
	pattern, err := UIDPattern(cfg)
	if err != nil {
		return nil, nil, err
	}

	files, err := store.List(dir, Extension)
	if err != nil {
		return nil, nil, err
	}

	var candidates []storage.FileInfo
	for _, f := range files {
		uid := f.Name[:len(f.Name)-len(Extension)]
		if pattern.MatchString(uid) {
			candidates = append(candidates, f)
		}
	}

	parsed := make([]*models.Item, len(candidates))
	parseErrs := make([]error, len(candidates))

	var g errgroup.Group
	g.SetLimit(parseWorkers)
	for i, f := range candidates {
		g.Go(func() error {
			data, err := store.Read(f.Path)
			if err != nil {
				return err // I/O failure: environment unreliable, abort
			}
			uid := f.Name[:len(f.Name)-len(Extension)]
			item, err := Parse(data, uid, cfg.Prefix)
			if err != nil {
				parseErrs[i] = &apperr.ItemParseError{Path: f.Path, UID: uid, Err: err}
				return nil
			}
			parsed[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var items []*models.Item
	var issues models.Issues
	for i, item := range parsed {
		if item == nil {
			perr := parseErrs[i].(*apperr.ItemParseError)
			issues = append(issues, models.Issue{
				Level:   models.LevelError,
				UID:     perr.UID,
				Prefix:  cfg.Prefix,
				Code:    "item-parse",
				Message: perr.Err.Error(),
			})
			continue
		}
		if !includeInactive && !item.Active {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].UID < items[j].UID })
	return items, issues, nil
}

// ItemPath returns the relative path of an item file within a document dir.
func ItemPath(dir, uid string) string {
	return filepath.Join(dir, FileName(uid))
}

// NextUID allocates the next sequence number for a document: the maximum
// numeric suffix among existing UIDs plus one, zero-padded to the
// configured digit width. Gaps are permitted and freed numbers are never
// reused.
func NextUID(cfg models.DocumentConfig, existing []string) (string, error) {
	if cfg.Digits < 1 {
		return "", fmt.Errorf("digits must be >= 1, got %d", cfg.Digits)
	}
	pattern, err := UIDPattern(cfg)
	if err != nil {
		return "", err
	}

	maxNum := 0
	for _, uid := range existing {
		m := pattern.FindStringSubmatch(uid)
		if m == nil {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(m[1], "%d", &n); err != nil {
			continue
		}
		if n > maxNum {
			maxNum = n
		}
	}
	return fmt.Sprintf("%s%s%0*d", cfg.Prefix, cfg.Sep, cfg.Digits, maxNum+1), nil
}
