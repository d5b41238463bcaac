package model

import (
	"fmt"
	"sort"
)

// EdgeKind is the sign of a regulatory interaction.
type EdgeKind int

const (
	Activates EdgeKind = iota
	Inhibits
)

func (k EdgeKind) String() string {
	switch k {
	case Activates:
		return "activates"
	case Inhibits:
		return "inhibits"
	default:
		return fmt.Sprintf("EdgeKind(%d)", int(k))
	}
}

// Sign is the value used for the third argument of edge/3 facts.
func (k EdgeKind) Sign() int {
	if k == Inhibits {
		return -1
	}
	return 1
}

// ParseEdgeKind maps a functor name to its kind.
func ParseEdgeKind(s string) (EdgeKind, bool) {
	switch s {
	case "activates":
		return Activates, true
	case "inhibits":
		return Inhibits, true
	}
	return 0, false
}

func (k EdgeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *EdgeKind) UnmarshalText(text []byte) error {
	kind, ok := ParseEdgeKind(string(text))
	if !ok {
		return fmt.Errorf("unknown edge kind %q", string(text))
	}
	*k = kind
	return nil
}

// Edge is a signed directed interaction From -> To. Edges compare by value.
type Edge struct {
	Kind EdgeKind `json:"kind" yaml:"kind"`
	From int      `json:"from" yaml:"from"`
	To   int      `json:"to" yaml:"to"`
}

func NewEdge(kind EdgeKind, from, to int) Edge {
	return Edge{Kind: kind, From: from, To: to}
}

// String renders the edge as the solver atom, e.g. activates(1,2).
func (e Edge) String() string {
	return fmt.Sprintf("%s(%d,%d)", e.Kind, e.From, e.To)
}

// EdgeSet is a de-duplicated collection of edges.
type EdgeSet map[Edge]struct{}

func NewEdgeSet(edges ...Edge) EdgeSet {
	s := make(EdgeSet, len(edges))
	for _, e := range edges {
		s[e] = struct{}{}
	}
	return s
}

func (s EdgeSet) Contains(e Edge) bool {
	_, ok := s[e]
	return ok
}

// Sorted returns the edges ordered by (From, To, Kind).
func (s EdgeSet) Sorted() []Edge {
	out := make([]Edge, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	SortEdges(out)
	return out
}

// SortEdges orders edges by (From, To, Kind) in place.
func SortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.Kind < b.Kind
	})
}
