// Package graph holds the in-memory traceability graph: items indexed by
// UID with bidirectional link adjacency and the document-level parent
// relation.
package graph

import (
	"sort"

	"github.com/starford/raido/internal/models"
)

// TraceabilityGraph is the assembled item/document graph. It is read-only
// after construction; validation never mutates it.
//
// Dangling links are kept as unresolved references in the adjacency maps
// rather than silently dropped, so validation can flag them explicitly.
type TraceabilityGraph struct {
	items           map[string]*models.Item
	parentsOf       map[string][]string
	childrenOf      map[string][]string
	documentParents map[string][]string
}

// New returns an empty graph.
func New() *TraceabilityGraph {
	return &TraceabilityGraph{
		items:           make(map[string]*models.Item),
		parentsOf:       make(map[string][]string),
		childrenOf:      make(map[string][]string),
		documentParents: make(map[string][]string),
	}
}

// SetDocumentParents records the document-level parent relation for a prefix.
func (g *TraceabilityGraph) SetDocumentParents(prefix string, parents []string) {
	g.documentParents[prefix] = append([]string(nil), parents...)
}

// DocumentParents returns the document-level parent relation.
func (g *TraceabilityGraph) DocumentParents() map[string][]string {
	return g.documentParents
}

// AddItem inserts an item, keeping both adjacency views consistent. Adding
// an item whose UID already exists replaces it and scrubs the stale
// reverse-index entries first.
func (g *TraceabilityGraph) AddItem(item *models.Item) {
	if _, exists := g.items[item.UID]; exists {
		for _, oldParent := range g.parentsOf[item.UID] {
			g.childrenOf[oldParent] = remove(g.childrenOf[oldParent], item.UID)
		}
	}

	g.items[item.UID] = item
	g.parentsOf[item.UID] = item.ParentUIDs()
	if _, ok := g.childrenOf[item.UID]; !ok {
		g.childrenOf[item.UID] = nil
	}
	for _, parent := range item.ParentUIDs() {
		if !contains(g.childrenOf[parent], item.UID) {
			g.childrenOf[parent] = append(g.childrenOf[parent], item.UID)
		}
	}
}

// Item returns the item with the given UID, or nil.
func (g *TraceabilityGraph) Item(uid string) *models.Item {
	return g.items[uid]
}

// Len returns the number of items in the graph.
func (g *TraceabilityGraph) Len() int { return len(g.items) }

// UIDs returns every item UID in ascending order.
func (g *TraceabilityGraph) UIDs() []string {
	out := make([]string, 0, len(g.items))
	for uid := range g.items {
		out = append(out, uid)
	}
	sort.Strings(out)
	return out
}

// ParentsOf returns the link targets of an item, including unresolved ones.
func (g *TraceabilityGraph) ParentsOf(uid string) []string {
	return g.parentsOf[uid]
}

// ChildrenOf returns the UIDs of items that link to the given UID.
func (g *TraceabilityGraph) ChildrenOf(uid string) []string {
	return g.childrenOf[uid]
}

// Ancestors returns all ancestor items reachable by following links
// upward, in BFS order from immediate parents. The traversal uses an
// explicit worklist with a visited set keyed by UID, so cyclic link
// structures terminate instead of recursing without bound.
func (g *TraceabilityGraph) Ancestors(uid string) []*models.Item {
	return g.traverse(uid, g.parentsOf)
}

// Descendants returns all descendant items reachable by following child
// edges downward, in BFS order from immediate children.
func (g *TraceabilityGraph) Descendants(uid string) []*models.Item {
	return g.traverse(uid, g.childrenOf)
}

func (g *TraceabilityGraph) traverse(uid string, edges map[string][]string) []*models.Item {
	var out []*models.Item
	visited := make(map[string]bool)
	work := append([]string(nil), edges[uid]...)
	for len(work) > 0 {
		next := work[0]
		work = work[1:]
		if visited[next] {
			continue
		}
		visited[next] = true
		if item, ok := g.items[next]; ok {
			out = append(out, item)
			work = append(work, edges[next]...)
		}
	}
	return out
}

// ItemsByDocument returns the items of one document in ascending UID order.
func (g *TraceabilityGraph) ItemsByDocument(prefix string) []*models.Item {
	var out []*models.Item
	for _, item := range g.items {
		if item.Document == prefix {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func remove(s []string, v string) []string {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
