package dag

import (
	"errors"
	"reflect"
	"testing"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
)

func doc(prefix string, parents ...string) models.DocumentConfig {
	return models.DocumentConfig{Prefix: prefix, Parents: parents, Digits: 3}
}

func TestTopologicalOrder_ParentsFirst(t *testing.T) {
	d := New()
	d.Add(doc("SRS", "SYS"), "reqs/srs")
	d.Add(doc("SYS", "PRJ"), "reqs/sys")
	d.Add(doc("PRJ"), "reqs/prj")

	order, err := d.TopologicalOrder()
	if err != nil {
		t.Fatalf("TopologicalOrder: %v", err)
	}
	want := []string{"PRJ", "SYS", "SRS"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestTopologicalOrder_DeterministicTieBreak(t *testing.T) {
	d := New()
	d.Add(doc("ZZZ"), "z")
	d.Add(doc("AAA"), "a")
	d.Add(doc("MMM"), "m")

	for range 5 {
		order, err := d.TopologicalOrder()
		if err != nil {
			t.Fatalf("TopologicalOrder: %v", err)
		}
		want := []string{"AAA", "MMM", "ZZZ"}
		if !reflect.DeepEqual(order, want) {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestTopologicalOrder_MultipleParents(t *testing.T) {
	d := New()
	d.Add(doc("SRS", "SYS", "RC"), "srs")
	d.Add(doc("SYS"), "sys")
	d.Add(doc("RC"), "rc")

	order, err := d.TopologicalOrder()
	if err != nil {
		t.Fatalf("TopologicalOrder: %v", err)
	}
	if order[2] != "SRS" {
		t.Errorf("child SRS must come last, got %v", order)
	}
}

func TestTopologicalOrder_CycleReported(t *testing.T) {
	d := New()
	d.Add(doc("AAA", "BBB"), "a")
	d.Add(doc("BBB", "AAA"), "b")
	d.Add(doc("OKA"), "ok")

	_, err := d.TopologicalOrder()
	var derr *apperr.DiscoveryError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DiscoveryError, got %v", err)
	}
	want := []string{"AAA", "BBB"}
	if !reflect.DeepEqual(derr.Prefixes, want) {
		t.Errorf("cycle prefixes = %v, want %v", derr.Prefixes, want)
	}
}

func TestTopologicalOrder_UnknownParent(t *testing.T) {
	d := New()
	d.Add(doc("SRS", "GHOST"), "srs")

	_, err := d.TopologicalOrder()
	var derr *apperr.DiscoveryError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DiscoveryError, got %v", err)
	}
}

func TestCycleNodes_EmptyWhenAcyclic(t *testing.T) {
	d := New()
	d.Add(doc("SYS"), "sys")
	d.Add(doc("SRS", "SYS"), "srs")
	if nodes := d.CycleNodes(); len(nodes) != 0 {
		t.Errorf("expected no cycle nodes, got %v", nodes)
	}
}

func TestAncestors_Transitive(t *testing.T) {
	d := New()
	d.Add(doc("PRJ"), "prj")
	d.Add(doc("SYS", "PRJ"), "sys")
	d.Add(doc("SRS", "SYS"), "srs")

	anc := d.Ancestors("SRS")
	if !anc["SYS"] || !anc["PRJ"] {
		t.Errorf("ancestors = %v, want SYS and PRJ", anc)
	}
	if anc["SRS"] {
		t.Error("a document is not its own ancestor")
	}
}

func TestAncestors_CycleSafe(t *testing.T) {
	d := New()
	d.Add(doc("AAA", "BBB"), "a")
	d.Add(doc("BBB", "AAA"), "b")

	anc := d.Ancestors("AAA")
	if !anc["BBB"] {
		t.Errorf("ancestors = %v, want BBB", anc)
	}
}

func TestRootsAndLeaves(t *testing.T) {
	d := New()
	d.Add(doc("PRJ"), "prj")
	d.Add(doc("SYS", "PRJ"), "sys")
	d.Add(doc("SRS", "SYS"), "srs")

	if got := d.Roots(); !reflect.DeepEqual(got, []string{"PRJ"}) {
		t.Errorf("roots = %v", got)
	}
	if got := d.Leaves(); !reflect.DeepEqual(got, []string{"SRS"}) {
		t.Errorf("leaves = %v", got)
	}
	if got := d.Children("PRJ"); !reflect.DeepEqual(got, []string{"SYS"}) {
		t.Errorf("children = %v", got)
	}
}
