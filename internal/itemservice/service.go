// Package itemservice implements the mutation operations over the item
// store: document lifecycle, item lifecycle, linking, and review. Every
// operation rewrites the affected item file atomically; a crash between
// two related files leaves a stale hash that suspect-link detection
// surfaces on the next validation run.
package itemservice

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/checksum"
	"github.com/starford/raido/internal/dag"
	"github.com/starford/raido/internal/discovery"
	"github.com/starford/raido/internal/graph"
	"github.com/starford/raido/internal/itemfile"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/storage"
)

// LabelAll addresses every item in every document.
const LabelAll = "all"

// Service coordinates storage, discovery, and the item codec for all
// mutating operations.
type Service struct {
	store  storage.Provider
	logger *slog.Logger
}

// NewService creates a new item service.
func NewService(store storage.Provider, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func (s *Service) discover() (*dag.DocumentDAG, error) {
	d, _, err := discovery.Discover(s.store, s.logger)
	return d, err
}

// CreateDocument writes a new document configuration into dir. The prefix
// must not collide with an existing document.
func (s *Service) CreateDocument(cfg models.DocumentConfig, dir string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("document %s: %w", cfg.Prefix, err)
	}
	d, err := s.discover()
	if err != nil {
		return err
	}
	if _, ok := d.Documents[cfg.Prefix]; ok {
		return fmt.Errorf("document %s: %w", cfg.Prefix, apperr.ErrAlreadyExists)
	}
	data, err := discovery.MarshalConfig(cfg)
	if err != nil {
		return err
	}
	return s.store.Write(filepath.Join(dir, discovery.ConfigFileName), data)
}

// DeleteDocument removes a document directory and everything in it. Unless
// force is set, deletion is refused while items in other documents still
// link into the document; the offending links are listed in the error.
func (s *Service) DeleteDocument(prefix string, force bool) error {
	d, err := s.discover()
	if err != nil {
		return err
	}
	dir, ok := d.Paths[prefix]
	if !ok {
		return fmt.Errorf("document %s: %w", prefix, apperr.ErrNotFound)
	}

	if !force {
		g, _, err := graph.Build(s.store, d, graph.BuildOptions{IncludeInactive: true})
		if err != nil {
			return err
		}
		var dangling []string
		for _, uid := range g.UIDs() {
			item := g.Item(uid)
			if item.Document == prefix {
				continue
			}
			for _, link := range item.Links {
				if target := g.Item(link.Parent); target != nil && target.Document == prefix {
					dangling = append(dangling, uid+" -> "+link.Parent)
				}
			}
		}
		if len(dangling) > 0 {
			sort.Strings(dangling)
			return fmt.Errorf("document %s is still referenced (%v): %w", prefix, dangling, apperr.ErrConflict)
		}
	}

	return s.store.DeleteTree(dir)
}

// ItemDraft holds the caller-supplied fields of a new item.
type ItemDraft struct {
	Text    string
	Header  string
	Type    models.ItemType
	Links   []string
	Derived bool
}

// AddItem allocates the next UID in the document and writes the new item.
func (s *Service) AddItem(prefix string, draft ItemDraft) (*models.Item, error) {
	d, err := s.discover()
	if err != nil {
		return nil, err
	}
	cfg, ok := d.Documents[prefix]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", prefix, apperr.ErrNotFound)
	}

	existing, _, err := itemfile.ReadDocument(s.store, d.Paths[prefix], cfg, true)
	if err != nil {
		return nil, err
	}
	uids := make([]string, len(existing))
	for i, it := range existing {
		uids[i] = it.UID
	}
	uid, err := itemfile.NextUID(cfg, uids)
	if err != nil {
		return nil, err
	}

	typ := draft.Type
	if typ == "" {
		typ = models.TypeRequirement
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("unknown item type %q", typ)
	}

	item := &models.Item{
		UID:      uid,
		Document: prefix,
		Text:     draft.Text,
		Header:   draft.Header,
		Type:     typ,
		Active:   true,
		Derived:  draft.Derived,
		Testable: true,
	}
	for _, parent := range draft.Links {
		item.Links = append(item.Links, models.Link{Parent: parent})
	}

	if err := s.writeItem(d, item); err != nil {
		return nil, err
	}
	return item, nil
}

// ItemEdit describes a partial item mutation. Nil fields are left alone.
type ItemEdit struct {
	Text   *string
	Header *string
	Type   *models.ItemType
	Active *bool
}

// EditItem applies an edit to an item. Changing text, header, or type
// invalidates the review marker.
func (s *Service) EditItem(uid string, edit ItemEdit) (*models.Item, error) {
	d, item, err := s.loadItem(uid)
	if err != nil {
		return nil, err
	}

	contentChanged := false
	if edit.Text != nil && *edit.Text != item.Text {
		item.Text = *edit.Text
		contentChanged = true
	}
	if edit.Header != nil && *edit.Header != item.Header {
		item.Header = *edit.Header
		contentChanged = true
	}
	if edit.Type != nil && *edit.Type != item.Type {
		if !edit.Type.Valid() {
			return nil, fmt.Errorf("unknown item type %q", *edit.Type)
		}
		item.Type = *edit.Type
		contentChanged = true
	}
	if edit.Active != nil {
		item.Active = *edit.Active
	}
	if contentChanged {
		item.Reviewed = ""
	}

	if err := s.writeItem(d, item); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem deletes an item file and returns the UIDs of items that still
// link to it, so the caller can warn about the dangling references.
func (s *Service) RemoveItem(uid string) ([]string, error) {
	d, err := s.discover()
	if err != nil {
		return nil, err
	}
	path, _, err := s.findItem(d, uid)
	if err != nil {
		return nil, err
	}

	g, _, err := graph.Build(s.store, d, graph.BuildOptions{IncludeInactive: true})
	if err != nil {
		return nil, err
	}
	var inbound []string
	for _, child := range g.ChildrenOf(uid) {
		if g.Item(child) != nil {
			inbound = append(inbound, child)
		}
	}
	sort.Strings(inbound)

	if err := s.store.Delete(path); err != nil {
		return nil, err
	}
	return inbound, nil
}

// AddLink adds a child→parent link. The link starts unverified (no stored
// hash); review clear acknowledges it later. Adding an existing link
// returns ErrAlreadyExists.
func (s *Service) AddLink(child, parent string) error {
	d, item, err := s.loadItem(child)
	if err != nil {
		return err
	}
	if _, _, err := s.findItem(d, parent); err != nil {
		return fmt.Errorf("parent %s: %w", parent, apperr.ErrNotFound)
	}
	if item.LinksTo(parent) {
		return fmt.Errorf("link %s -> %s: %w", child, parent, apperr.ErrAlreadyExists)
	}

	item.Links = append(item.Links, models.Link{Parent: parent})
	item.Reviewed = ""
	return s.writeItem(d, item)
}

// RemoveLink removes a child→parent link. A missing link returns
// ErrNotFound.
func (s *Service) RemoveLink(child, parent string) error {
	d, item, err := s.loadItem(child)
	if err != nil {
		return err
	}
	kept := item.Links[:0]
	removed := false
	for _, l := range item.Links {
		if l.Parent == parent {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	if !removed {
		return fmt.Errorf("link %s -> %s: %w", child, parent, apperr.ErrNotFound)
	}
	item.Links = kept
	item.Reviewed = ""
	return s.writeItem(d, item)
}

// MarkReviewed records the current content hash as the review marker on
// every item the label addresses (a UID, a document prefix, or "all").
// Returns the number of items marked.
func (s *Service) MarkReviewed(label string) (int, error) {
	d, items, err := s.resolveLabel(label)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, item := range items {
		item.Reviewed = checksum.Content(item.Text, item.Header, item.ParentUIDs(), string(item.Type))
		if err := s.writeItem(d, item); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// ClearSuspect re-acknowledges links by refreshing the stored hashes to
// the linked parents' current content hashes. When parent UIDs are given,
// only links to those parents are refreshed. Returns the number of items
// updated.
func (s *Service) ClearSuspect(label string, parents ...string) (int, error) {
	d, items, err := s.resolveLabel(label)
	if err != nil {
		return 0, err
	}
	g, _, err := graph.Build(s.store, d, graph.BuildOptions{IncludeInactive: true})
	if err != nil {
		return 0, err
	}

	only := make(map[string]bool, len(parents))
	for _, p := range parents {
		only[p] = true
	}

	count := 0
	for _, item := range items {
		changed := false
		for i, link := range item.Links {
			if len(only) > 0 && !only[link.Parent] {
				continue
			}
			target := g.Item(link.Parent)
			if target == nil {
				continue
			}
			current := checksum.Content(target.Text, target.Header, target.ParentUIDs(), string(target.Type))
			if item.Links[i].Hash != current {
				item.Links[i].Hash = current
				changed = true
			}
		}
		if !changed {
			continue
		}
		if err := s.writeItem(d, item); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// ResetReview drops the review marker and strips all stored link hashes on
// every item the label addresses. Returns the number of items reset.
func (s *Service) ResetReview(label string) (int, error) {
	d, items, err := s.resolveLabel(label)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, item := range items {
		changed := false
		if item.Reviewed != "" {
			item.Reviewed = ""
			changed = true
		}
		for i := range item.Links {
			if item.Links[i].Hash != "" {
				item.Links[i].Hash = ""
				changed = true
			}
		}
		if !changed {
			continue
		}
		if err := s.writeItem(d, item); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// GetItem loads a single item by UID.
func (s *Service) GetItem(uid string) (*models.Item, error) {
	_, item, err := s.loadItem(uid)
	return item, err
}

func (s *Service) loadItem(uid string) (*dag.DocumentDAG, *models.Item, error) {
	d, err := s.discover()
	if err != nil {
		return nil, nil, err
	}
	path, cfg, err := s.findItem(d, uid)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.store.Read(path)
	if err != nil {
		return nil, nil, err
	}
	item, err := itemfile.Parse(data, uid, cfg.Prefix)
	if err != nil {
		return nil, nil, &apperr.ItemParseError{Path: path, UID: uid, Err: err}
	}
	return d, item, nil
}

// findItem locates the file for a UID by matching it against each
// document's UID pattern.
func (s *Service) findItem(d *dag.DocumentDAG, uid string) (string, models.DocumentConfig, error) {
	for _, prefix := range d.Prefixes() {
		cfg := d.Documents[prefix]
		pattern, err := itemfile.UIDPattern(cfg)
		if err != nil {
			continue
		}
		if !pattern.MatchString(uid) {
			continue
		}
		path := itemfile.ItemPath(d.Paths[prefix], uid)
		if s.store.Exists(path) {
			return path, cfg, nil
		}
	}
	return "", models.DocumentConfig{}, fmt.Errorf("item %s: %w", uid, apperr.ErrNotFound)
}

// resolveLabel expands a UID, a document prefix, or "all" into items.
func (s *Service) resolveLabel(label string) (*dag.DocumentDAG, []*models.Item, error) {
	d, err := s.discover()
	if err != nil {
		return nil, nil, err
	}

	var prefixes []string
	switch {
	case label == LabelAll:
		prefixes = d.Prefixes()
	default:
		if _, ok := d.Documents[label]; ok {
			prefixes = []string{label}
			break
		}
		_, item, err := s.loadItem(label)
		if err != nil {
			return nil, nil, err
		}
		return d, []*models.Item{item}, nil
	}

	var items []*models.Item
	for _, prefix := range prefixes {
		docItems, _, err := itemfile.ReadDocument(s.store, d.Paths[prefix], d.Documents[prefix], true)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, docItems...)
	}
	return d, items, nil
}

func (s *Service) writeItem(d *dag.DocumentDAG, item *models.Item) error {
	data, err := itemfile.Marshal(item)
	if err != nil {
		return err
	}
	dir, ok := d.Paths[item.Document]
	if !ok {
		return fmt.Errorf("document %s: %w", item.Document, apperr.ErrNotFound)
	}
	return s.store.Write(itemfile.ItemPath(dir, item.UID), data)
}

// IsNotFound reports whether err is a missing-entity error.
func IsNotFound(err error) bool { return errors.Is(err, apperr.ErrNotFound) }
