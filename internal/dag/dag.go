// Package dag models the document hierarchy: a directed graph of
// parent/child relationships between documents with deterministic
// topological ordering and cycle detection.
package dag

import (
	"sort"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
)

// DocumentDAG holds every discovered document keyed by prefix, plus the
// directory each document lives in (relative to the project root).
type DocumentDAG struct {
	Documents map[string]models.DocumentConfig
	Paths     map[string]string
}

// New returns an empty DocumentDAG.
func New() *DocumentDAG {
	return &DocumentDAG{
		Documents: make(map[string]models.DocumentConfig),
		Paths:     make(map[string]string),
	}
}

// Add registers a document and its directory.
func (d *DocumentDAG) Add(cfg models.DocumentConfig, path string) {
	d.Documents[cfg.Prefix] = cfg
	d.Paths[cfg.Prefix] = path
}

// Prefixes returns all document prefixes in ascending order.
func (d *DocumentDAG) Prefixes() []string {
	out := make([]string, 0, len(d.Documents))
	for p := range d.Documents {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Parents returns the parent prefixes of a document.
func (d *DocumentDAG) Parents(prefix string) []string {
	cfg, ok := d.Documents[prefix]
	if !ok {
		return nil
	}
	return append([]string(nil), cfg.Parents...)
}

// Children returns the prefixes that list the given document as a parent,
// in ascending order.
func (d *DocumentDAG) Children(prefix string) []string {
	var out []string
	for p, cfg := range d.Documents {
		for _, parent := range cfg.Parents {
			if parent == prefix {
				out = append(out, p)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// Roots returns the documents with no parents, in ascending order.
func (d *DocumentDAG) Roots() []string {
	var out []string
	for p, cfg := range d.Documents {
		if len(cfg.Parents) == 0 {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Leaves returns the documents that no other document lists as a parent,
// in ascending order.
func (d *DocumentDAG) Leaves() []string {
	isParent := make(map[string]bool)
	for _, cfg := range d.Documents {
		for _, parent := range cfg.Parents {
			isParent[parent] = true
		}
	}
	var out []string
	for p := range d.Documents {
		if !isParent[p] {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Ancestors returns every document reachable by following parent edges
// from the given prefix. The walk uses an explicit worklist with a visited
// set, so cyclic input terminates.
func (d *DocumentDAG) Ancestors(prefix string) map[string]bool {
	seen := make(map[string]bool)
	work := append([]string(nil), d.Parents(prefix)...)
	for len(work) > 0 {
		p := work[0]
		work = work[1:]
		if seen[p] {
			continue
		}
		seen[p] = true
		work = append(work, d.Parents(p)...)
	}
	return seen
}

// TopologicalOrder returns the prefixes with every document strictly after
// all of its parents (Kahn's algorithm). Ties among simultaneously
// eligible documents break by ascending prefix, so the order is
// deterministic. A reference to an unknown parent or a cycle returns a
// DiscoveryError; in the cycle case the error names exactly the prefixes
// left unprocessed.
func (d *DocumentDAG) TopologicalOrder() ([]string, error) {
	inDegree := make(map[string]int, len(d.Documents))
	children := make(map[string][]string, len(d.Documents))
	var unknown []string

	for _, prefix := range d.Prefixes() {
		inDegree[prefix] += 0
		for _, parent := range d.Documents[prefix].Parents {
			if _, ok := d.Documents[parent]; !ok {
				unknown = append(unknown, prefix+" references unknown parent "+parent)
				continue
			}
			inDegree[prefix]++
			children[parent] = append(children[parent], prefix)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &apperr.DiscoveryError{Prefixes: unknown, Reason: "document hierarchy has missing parents"}
	}

	// ready is kept sorted; the smallest eligible prefix is taken first.
	var ready []string
	for prefix, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, prefix)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(d.Documents))
	for len(ready) > 0 {
		prefix := ready[0]
		ready = ready[1:]
		order = append(order, prefix)
		for _, child := range children[prefix] {
			inDegree[child]--
			if inDegree[child] == 0 {
				i := sort.SearchStrings(ready, child)
				ready = append(ready, "")
				copy(ready[i+1:], ready[i:])
				ready[i] = child
			}
		}
	}

	if len(order) < len(d.Documents) {
		return nil, &apperr.DiscoveryError{Prefixes: d.cycleRemainder(order), Reason: "cycle detected among documents"}
	}
	return order, nil
}

// CycleNodes returns the prefixes involved in document cycles, sorted.
// Empty when the hierarchy is acyclic.
func (d *DocumentDAG) CycleNodes() []string {
	order, err := d.TopologicalOrder()
	if err == nil {
		return nil
	}
	if _, ok := err.(*apperr.DiscoveryError); ok && order == nil {
		return d.cycleRemainder(d.partialOrder())
	}
	return nil
}

// cycleRemainder returns the sorted set of documents absent from a partial
// topological order. Exactly those nodes participate in cycles.
func (d *DocumentDAG) cycleRemainder(order []string) []string {
	ordered := make(map[string]bool, len(order))
	for _, p := range order {
		ordered[p] = true
	}
	var remaining []string
	for p := range d.Documents {
		if !ordered[p] {
			remaining = append(remaining, p)
		}
	}
	sort.Strings(remaining)
	return remaining
}

// partialOrder runs Kahn's algorithm ignoring unknown-parent errors and
// returns whatever order could be produced.
func (d *DocumentDAG) partialOrder() []string {
	inDegree := make(map[string]int, len(d.Documents))
	children := make(map[string][]string, len(d.Documents))
	for prefix, cfg := range d.Documents {
		inDegree[prefix] += 0
		for _, parent := range cfg.Parents {
			if _, ok := d.Documents[parent]; ok {
				inDegree[prefix]++
				children[parent] = append(children[parent], prefix)
			}
		}
	}
	var ready []string
	for prefix, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, prefix)
		}
	}
	sort.Strings(ready)
	var order []string
	for len(ready) > 0 {
		prefix := ready[0]
		ready = ready[1:]
		order = append(order, prefix)
		for _, child := range children[prefix] {
			inDegree[child]--
			if inDegree[child] == 0 {
				ready = append(ready, child)
			}
		}
		sort.Strings(ready)
	}
	return order
}
