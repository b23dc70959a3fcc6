package graph

import (
	"errors"
	"slices"
	"testing"
)

func buildDiamond(t *testing.T) *Graph {
	t.Helper()
	g := New(nil)
	for _, id := range []string{"app/1.0.0", "boost/1.84.0", "openssl/3.2.1", "zlib/1.3.1"} {
		if err := g.AddNode(Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	edges := []Edge{
		{From: "app/1.0.0", To: "boost/1.84.0"},
		{From: "app/1.0.0", To: "openssl/3.2.1"},
		{From: "boost/1.84.0", To: "zlib/1.3.1"},
		{From: "openssl/3.2.1", To: "zlib/1.3.1"},
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge(%s->%s): %v", e.From, e.To, err)
		}
	}
	return g
}

func TestAddNodeErrors(t *testing.T) {
	g := New(nil)
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty ID: got %v, want ErrInvalidNodeID", err)
	}
	if err := g.AddNode(Node{ID: "zlib/1.3.1"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.AddNode(Node{ID: "zlib/1.3.1"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate ID: got %v, want ErrDuplicateNodeID", err)
	}
}

func TestAddEdgeErrors(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a/1.0.0"})

	if err := g.AddEdge(Edge{From: "missing/1.0.0", To: "a/1.0.0"}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("unknown source: got %v, want ErrUnknownSourceNode", err)
	}
	if err := g.AddEdge(Edge{From: "a/1.0.0", To: "missing/1.0.0"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("unknown target: got %v, want ErrUnknownTargetNode", err)
	}
}

func TestMetaInitialized(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a/1.0.0"})
	n, ok := g.Node("a/1.0.0")
	if !ok {
		t.Fatal("node not found")
	}
	if n.Meta == nil {
		t.Error("node Meta should be initialized")
	}
	if g.Meta() == nil {
		t.Error("graph Meta should be initialized")
	}
}

func TestAdjacency(t *testing.T) {
	g := buildDiamond(t)

	if got := g.Children("app/1.0.0"); !slices.Equal(got, []string{"boost/1.84.0", "openssl/3.2.1"}) {
		t.Errorf("Children(app) = %v", got)
	}
	if got := g.Parents("zlib/1.3.1"); !slices.Equal(got, []string{"boost/1.84.0", "openssl/3.2.1"}) {
		t.Errorf("Parents(zlib) = %v", got)
	}
	if !g.HasEdge("boost/1.84.0", "zlib/1.3.1") {
		t.Error("HasEdge(boost, zlib) = false")
	}
	if g.HasEdge("zlib/1.3.1", "boost/1.84.0") {
		t.Error("HasEdge(zlib, boost) = true")
	}
}

func TestSourcesAndSinks(t *testing.T) {
	g := buildDiamond(t)

	sources := g.Sources()
	if len(sources) != 1 || sources[0].ID != "app/1.0.0" {
		t.Errorf("Sources = %v", ids(sources))
	}
	sinks := g.Sinks()
	if len(sinks) != 1 || sinks[0].ID != "zlib/1.3.1" {
		t.Errorf("Sinks = %v", ids(sinks))
	}
}

func TestValidate(t *testing.T) {
	g := buildDiamond(t)
	if err := g.Validate(); err != nil {
		t.Errorf("diamond should be acyclic: %v", err)
	}

	// a -> b -> a
	cyclic := New(nil)
	_ = cyclic.AddNode(Node{ID: "a/1.0.0"})
	_ = cyclic.AddNode(Node{ID: "b/1.0.0"})
	_ = cyclic.AddEdge(Edge{From: "a/1.0.0", To: "b/1.0.0"})
	_ = cyclic.AddEdge(Edge{From: "b/1.0.0", To: "a/1.0.0"})
	if err := cyclic.Validate(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("cycle: got %v, want ErrGraphHasCycle", err)
	}
}

func TestTopoSort(t *testing.T) {
	g := buildDiamond(t)
	order, err := g.TopoSort()
	if err != nil {
		t.Fatalf("TopoSort: %v", err)
	}
	want := []string{"app/1.0.0", "boost/1.84.0", "openssl/3.2.1", "zlib/1.3.1"}
	if !slices.Equal(order, want) {
		t.Errorf("TopoSort = %v, want %v", order, want)
	}

	cyclic := New(nil)
	_ = cyclic.AddNode(Node{ID: "a/1.0.0"})
	_ = cyclic.AddNode(Node{ID: "b/1.0.0"})
	_ = cyclic.AddEdge(Edge{From: "a/1.0.0", To: "b/1.0.0"})
	_ = cyclic.AddEdge(Edge{From: "b/1.0.0", To: "a/1.0.0"})
	if _, err := cyclic.TopoSort(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("cycle: got %v, want ErrGraphHasCycle", err)
	}
}

func TestRoot(t *testing.T) {
	g := New(nil)
	if g.Root() != "" {
		t.Error("Root should default to empty")
	}
	g.SetRoot("boost/1.84.0")
	if g.Root() != "boost/1.84.0" {
		t.Errorf("Root = %q", g.Root())
	}
}

func ids(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}
