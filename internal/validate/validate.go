// Package validate inspects an assembled traceability graph for
// structural, content, and completeness defects. Every check is a pure
// function from the graph (and the per-link stored hashes it carries) to a
// list of issues; the graph is never mutated.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/starford/raido/internal/checksum"
	"github.com/starford/raido/internal/dag"
	"github.com/starford/raido/internal/graph"
	"github.com/starford/raido/internal/models"
)

// Run executes the validation rule set over the graph. The checks are
// independent; the result is the union of their findings, leveled and then
// escalated per the options. For the inactive-target check to distinguish
// "inactive" from "missing", build the graph with inactive items included.
func Run(d *dag.DocumentDAG, g *graph.TraceabilityGraph, opts ...Option) models.Issues {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var issues models.Issues

	// Acyclicity always runs: every other check assumes a well-ordered
	// hierarchy.
	issues = append(issues, checkDocumentCycles(d)...)

	if o.itemCycles {
		issues = append(issues, checkItemCycles(g, o)...)
	}
	if o.linkValidity {
		issues = append(issues, checkLinkValidity(g, o)...)
	}
	if o.linkConformance {
		issues = append(issues, checkLinkConformance(d, g, o)...)
	}
	if o.suspect {
		issues = append(issues, checkSuspectLinks(g, o)...)
	}
	if o.review {
		issues = append(issues, checkReviewStatus(g, o)...)
	}
	if o.emptyText {
		issues = append(issues, checkEmptyText(g, o)...)
	}
	if o.childLinkage {
		issues = append(issues, checkChildLinkage(d, g, o)...)
	}
	if o.unlinked {
		issues = append(issues, checkUnlinked(d, g, o)...)
	}
	if o.emptyDocuments {
		issues = append(issues, checkEmptyDocuments(d, g, o)...)
	}

	return escalate(issues, o)
}

func escalate(issues models.Issues, o Options) models.Issues {
	for i := range issues {
		if o.warnAll && issues[i].Level == models.LevelInfo {
			issues[i].Level = models.LevelWarning
		}
		if o.errorAll && issues[i].Level == models.LevelWarning {
			issues[i].Level = models.LevelError
		}
	}
	return issues
}

func checkDocumentCycles(d *dag.DocumentDAG) models.Issues {
	nodes := d.CycleNodes()
	if len(nodes) == 0 {
		return nil
	}
	return models.Issues{{
		Level:   models.LevelError,
		Code:    "doc-cycle",
		Message: "cycle detected among documents: " + strings.Join(nodes, ", "),
	}}
}

// checkItemCycles runs a three-color depth-first traversal over the
// item-level link graph: a back-edge to an in-progress node closes a
// cycle, reported as the UID sequence forming the loop. Self-links are
// left to the validity check. The traversal is iterative, so malformed
// cyclic input cannot overflow the stack.
func checkItemCycles(g *graph.TraceabilityGraph, o Options) models.Issues {
	const (
		white = 0 // unvisited
		gray  = 1 // in progress
		black = 2 // done
	)
	color := make(map[string]int, g.Len())
	var issues models.Issues
	reported := make(map[string]bool)

	type frame struct {
		uid  string
		next int
	}

	for _, start := range g.UIDs() {
		if color[start] != white {
			continue
		}
		stack := []frame{{uid: start}}
		color[start] = gray
		path := []string{start}

		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			parents := g.ParentsOf(f.uid)
			if f.next < len(parents) {
				target := parents[f.next]
				f.next++
				if target == f.uid || g.Item(target) == nil {
					continue
				}
				switch color[target] {
				case white:
					color[target] = gray
					stack = append(stack, frame{uid: target})
					path = append(path, target)
				case gray:
					issues = append(issues, cycleIssue(g, path, target, o, reported)...)
				}
				continue
			}
			color[f.uid] = black
			stack = stack[:len(stack)-1]
			path = path[:len(path)-1]
		}
	}
	return issues
}

func cycleIssue(g *graph.TraceabilityGraph, path []string, target string, o Options, reported map[string]bool) models.Issues {
	start := 0
	for i, uid := range path {
		if uid == target {
			start = i
			break
		}
	}
	loop := append(append([]string(nil), path[start:]...), target)
	key := canonicalCycleKey(loop[:len(loop)-1])
	if reported[key] {
		return nil
	}
	reported[key] = true

	subject := loop[0]
	if o.skip[g.Item(subject).Document] {
		return nil
	}
	return models.Issues{{
		Level:   models.LevelError,
		UID:     subject,
		Prefix:  g.Item(subject).Document,
		Code:    "item-cycle",
		Message: "link cycle: " + strings.Join(loop, " -> "),
	}}
}

// canonicalCycleKey identifies a cycle independently of where the
// traversal entered it.
func canonicalCycleKey(loop []string) string {
	sorted := append([]string(nil), loop...)
	sort.Strings(sorted)
	return strings.Join(sorted, "|")
}

func checkLinkValidity(g *graph.TraceabilityGraph, o Options) models.Issues {
	var issues models.Issues
	for _, uid := range g.UIDs() {
		item := g.Item(uid)
		if !item.Active || o.skip[item.Document] {
			continue
		}

		// Heading and info items must carry no links at all.
		if item.Type != models.TypeRequirement {
			if len(item.Links) > 0 {
				issues = append(issues, models.Issue{
					Level:   models.LevelError,
					UID:     uid,
					Prefix:  item.Document,
					Code:    "link-forbidden",
					Message: fmt.Sprintf("%s item must not have links (found %d)", item.Type, len(item.Links)),
				})
			}
			continue
		}

		for _, link := range item.Links {
			switch target := g.Item(link.Parent); {
			case link.Parent == uid:
				issues = append(issues, models.Issue{
					Level:   models.LevelError,
					UID:     uid,
					Prefix:  item.Document,
					Code:    "link-self",
					Message: "links to itself",
				})
			case target == nil:
				issues = append(issues, models.Issue{
					Level:   models.LevelError,
					UID:     uid,
					Prefix:  item.Document,
					Code:    "link-missing",
					Message: "links to non-existent item: " + link.Parent,
				})
			case !target.Active:
				issues = append(issues, models.Issue{
					Level:   models.LevelError,
					UID:     uid,
					Prefix:  item.Document,
					Code:    "link-inactive",
					Message: "links to inactive item: " + link.Parent,
				})
			case target.Type != models.TypeRequirement:
				issues = append(issues, models.Issue{
					Level:   models.LevelError,
					UID:     uid,
					Prefix:  item.Document,
					Code:    "link-type",
					Message: fmt.Sprintf("links to %s item %s; requirements may only trace to requirements", target.Type, link.Parent),
				})
			}
		}
	}
	return issues
}

// checkLinkConformance verifies that every link points into an ancestor
// document of the child's document per the document hierarchy.
func checkLinkConformance(d *dag.DocumentDAG, g *graph.TraceabilityGraph, o Options) models.Issues {
	var issues models.Issues
	for _, uid := range g.UIDs() {
		item := g.Item(uid)
		if !item.Active || o.skip[item.Document] || len(item.Links) == 0 {
			continue
		}
		if _, known := d.Documents[item.Document]; !known {
			continue
		}
		ancestors := d.Ancestors(item.Document)

		for _, link := range item.Links {
			target := g.Item(link.Parent)
			if target == nil || ancestors[target.Document] {
				continue
			}
			expected := sortedKeys(ancestors)
			if len(expected) == 0 {
				expected = []string{"(none)"}
			}
			issues = append(issues, models.Issue{
				Level:  models.LevelWarning,
				UID:    uid,
				Prefix: item.Document,
				Code:   "link-conformance",
				Message: fmt.Sprintf("links to %s in document %s, which is not an ancestor of %s (expected: %s)",
					link.Parent, target.Document, item.Document, strings.Join(expected, ", ")),
			})
		}
	}
	return issues
}

// checkSuspectLinks recomputes the content hash of every linked parent and
// compares it against the hash stored on the link. A mismatch means the
// parent changed since the link was acknowledged; a link recorded with no
// hash at all is reported separately as unverified.
func checkSuspectLinks(g *graph.TraceabilityGraph, o Options) models.Issues {
	var issues models.Issues
	for _, uid := range g.UIDs() {
		item := g.Item(uid)
		if !item.Active || o.skip[item.Document] {
			continue
		}
		for _, link := range item.Links {
			target := g.Item(link.Parent)
			if target == nil {
				continue
			}
			if link.Hash == "" {
				issues = append(issues, models.Issue{
					Level:   models.LevelWarning,
					UID:     uid,
					Prefix:  item.Document,
					Code:    "link-unverified",
					Message: "link to " + link.Parent + " has no stored hash",
				})
				continue
			}
			current := checksum.Content(target.Text, target.Header, target.ParentUIDs(), string(target.Type))
			if link.Hash != current {
				issues = append(issues, models.Issue{
					Level:   models.LevelWarning,
					UID:     uid,
					Prefix:  item.Document,
					Code:    "link-suspect",
					Message: "suspect link to " + link.Parent + " (content has changed)",
				})
			}
		}
	}
	return issues
}

func checkReviewStatus(g *graph.TraceabilityGraph, o Options) models.Issues {
	var issues models.Issues
	for _, uid := range g.UIDs() {
		item := g.Item(uid)
		if !item.Normative() || o.skip[item.Document] {
			continue
		}
		if item.Reviewed == "" {
			issues = append(issues, models.Issue{
				Level:   models.LevelWarning,
				UID:     uid,
				Prefix:  item.Document,
				Code:    "review-missing",
				Message: "has never been reviewed",
			})
			continue
		}
		current := checksum.Content(item.Text, item.Header, item.ParentUIDs(), string(item.Type))
		if item.Reviewed != current {
			issues = append(issues, models.Issue{
				Level:   models.LevelWarning,
				UID:     uid,
				Prefix:  item.Document,
				Code:    "review-stale",
				Message: "has been modified since last review",
			})
		}
	}
	return issues
}

func checkEmptyText(g *graph.TraceabilityGraph, o Options) models.Issues {
	var issues models.Issues
	for _, uid := range g.UIDs() {
		item := g.Item(uid)
		if !item.Active || o.skip[item.Document] {
			continue
		}
		if item.DisplayText() == "" {
			issues = append(issues, models.Issue{
				Level:   models.LevelWarning,
				UID:     uid,
				Prefix:  item.Document,
				Code:    "empty-text",
				Message: "has no text",
			})
		}
	}
	return issues
}

// checkChildLinkage flags normative items in non-leaf documents that no
// child item links back to.
func checkChildLinkage(d *dag.DocumentDAG, g *graph.TraceabilityGraph, o Options) models.Issues {
	leaves := make(map[string]bool)
	for _, p := range d.Leaves() {
		leaves[p] = true
	}

	var issues models.Issues
	for _, uid := range g.UIDs() {
		item := g.Item(uid)
		if !item.Normative() || o.skip[item.Document] || leaves[item.Document] {
			continue
		}
		if _, known := d.Documents[item.Document]; !known {
			continue
		}
		linked := false
		for _, child := range g.ChildrenOf(uid) {
			if g.Item(child) != nil {
				linked = true
				break
			}
		}
		if !linked {
			issues = append(issues, models.Issue{
				Level:   o.childLinkageLevel,
				UID:     uid,
				Prefix:  item.Document,
				Code:    "child-linkage",
				Message: "has no children linking to it from child documents",
			})
		}
	}
	return issues
}

// checkUnlinked flags normative, non-derived items in non-root documents
// that carry no outbound links.
func checkUnlinked(d *dag.DocumentDAG, g *graph.TraceabilityGraph, o Options) models.Issues {
	var issues models.Issues
	for _, uid := range g.UIDs() {
		item := g.Item(uid)
		if !item.Normative() || item.Derived || o.skip[item.Document] {
			continue
		}
		if len(d.Parents(item.Document)) == 0 {
			continue
		}
		if len(item.Links) == 0 {
			issues = append(issues, models.Issue{
				Level:   models.LevelWarning,
				UID:     uid,
				Prefix:  item.Document,
				Code:    "unlinked",
				Message: "has no links to parent documents",
			})
		}
	}
	return issues
}

func checkEmptyDocuments(d *dag.DocumentDAG, g *graph.TraceabilityGraph, o Options) models.Issues {
	var issues models.Issues
	for _, prefix := range d.Prefixes() {
		if o.skip[prefix] {
			continue
		}
		if len(g.ItemsByDocument(prefix)) == 0 {
			issues = append(issues, models.Issue{
				Level:   models.LevelWarning,
				Prefix:  prefix,
				Code:    "empty-document",
				Message: "document has no items",
			})
		}
	}
	return issues
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
