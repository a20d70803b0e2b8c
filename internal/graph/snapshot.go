package graph

import "github.com/starford/raido/internal/models"

// Snapshot is a serializable copy of the graph, shaped for the coverage
// snapshot that external tooling persists alongside linked-test data. The
// engine does not implement the snapshot file format itself.
type Snapshot struct {
	Items           map[string]*models.Item `json:"items"`
	ItemParents     map[string][]string     `json:"item_parents"`
	ItemChildren    map[string][]string     `json:"item_children"`
	DocumentParents map[string][]string     `json:"document_parents"`
}

// Snapshot returns a serializable view of the graph. The maps are copies;
// the items are shared.
func (g *TraceabilityGraph) Snapshot() Snapshot {
	s := Snapshot{
		Items:           make(map[string]*models.Item, len(g.items)),
		ItemParents:     make(map[string][]string, len(g.parentsOf)),
		ItemChildren:    make(map[string][]string, len(g.childrenOf)),
		DocumentParents: make(map[string][]string, len(g.documentParents)),
	}
	for uid, item := range g.items {
		s.Items[uid] = item
	}
	for uid, parents := range g.parentsOf {
		s.ItemParents[uid] = append([]string(nil), parents...)
	}
	for uid, children := range g.childrenOf {
		s.ItemChildren[uid] = append([]string(nil), children...)
	}
	for prefix, parents := range g.documentParents {
		s.DocumentParents[prefix] = append([]string(nil), parents...)
	}
	return s
}
