package encoder

import (
	"fmt"
	"strings"

	"github.com/agenthands/netrepair/internal/core/model"
	apperrors "github.com/agenthands/netrepair/internal/errors"
)

// Encode compiles net into a repair program. The output only depends on net
// and opts, so encoding twice yields identical text.
func Encode(net *model.Network, opts Options) (string, error) {
	if net == nil {
		return "", apperrors.Encoding("nil network")
	}
	if net.Genes <= 0 || net.TimeSteps <= 0 {
		return "", apperrors.Encoding("network %q has %d genes and %d time steps", net.Name, net.Genes, net.TimeSteps)
	}
	if opts.RequireClean && net.IsCorrupted() {
		return "", apperrors.Encoding("network %q is already corrupted", net.Name)
	}
	if opts.Dialect == "" {
		opts.Dialect = Clingo
	}
	if err := opts.validate(); err != nil {
		return "", err
	}

	e := newEncoding(net, opts)
	e.facts()
	e.choices()
	e.observations()
	e.propagation()
	e.heuristics()
	if !opts.OmitObjective {
		e.objective()
	}
	e.blank()
	e.out.WriteString(Projection(opts.Dialect, opts.ShowCosts))
	return e.out.String(), nil
}

type encoding struct {
	net        *model.Network
	opts       Options
	d          Dialect
	baseline   []model.Edge
	corruption []model.Edge
	out        strings.Builder
}

func newEncoding(net *model.Network, opts Options) *encoding {
	seen := make(model.EdgeSet)
	return &encoding{
		net:        net,
		opts:       opts,
		d:          opts.Dialect,
		baseline:   distinct(net.Baseline, seen),
		corruption: distinct(net.Corruption, seen),
	}
}

// distinct keeps the first occurrence of every edge not yet in seen.
func distinct(edges []model.Edge, seen model.EdgeSet) []model.Edge {
	out := make([]model.Edge, 0, len(edges))
	for _, e := range edges {
		if seen.Contains(e) {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

// totalEdges is the size of the network as loaded, used to scale penalties.
func (e *encoding) totalEdges() int {
	return len(e.baseline) + len(e.corruption)
}

func (e *encoding) line(s string) {
	e.out.WriteString(s)
	e.out.WriteByte('\n')
}

func (e *encoding) linef(format string, args ...any) {
	fmt.Fprintf(&e.out, format, args...)
	e.out.WriteByte('\n')
}

func (e *encoding) comment(format string, args ...any) {
	e.out.WriteString("% ")
	e.linef(format, args...)
}

func (e *encoding) blank() {
	e.out.WriteByte('\n')
}

func (e *encoding) section(title string) {
	e.blank()
	e.comment("%s", title)
}

func (e *encoding) facts() {
	e.comment("genes of the %s network", e.net.Name)
	for g := 1; g <= e.net.Genes; g++ {
		e.linef("gene(%d).", g)
	}

	e.section("time steps")
	for t := 1; t <= e.net.TimeSteps; t++ {
		e.linef("time(%d).", t)
	}

	e.section("signed edges")
	e.comment("%d baseline edges", len(e.baseline))
	for _, edge := range e.baseline {
		e.linef("edge(%d,%d,%d).", edge.From, edge.To, edge.Kind.Sign())
	}
	e.blank()
	e.comment("%d corruption edges", len(e.corruption))
	for _, edge := range e.corruption {
		e.linef("edge(%d,%d,%d).", edge.From, edge.To, edge.Kind.Sign())
	}
	e.blank()
	e.line("edge(U,V) :- edge(U,V,S).")
}

func (e *encoding) choices() {
	e.section("add an activation, an inhibition or nothing between unconnected genes")
	e.line("addActEdge(U,V) :- gene(U), gene(V), not edge(U,V), not addInhEdge(U,V), not nAddActEdge(U,V).")
	e.line("nAddActEdge(U,V) :- gene(U), gene(V), not edge(U,V), not addInhEdge(U,V), not addActEdge(U,V).")
	e.line("addInhEdge(U,V) :- gene(U), gene(V), not edge(U,V), not addActEdge(U,V), not nAddInhEdge(U,V).")
	e.line("nAddInhEdge(U,V) :- gene(U), gene(V), not edge(U,V), not addActEdge(U,V), not addInhEdge(U,V).")

	e.section("keep or remove existing edges")
	e.line("removeEdge(U,V,S) :- edge(U,V,S), not nRemoveEdge(U,V,S).")
	e.line("nRemoveEdge(U,V,S) :- edge(U,V,S), not removeEdge(U,V,S).")

	e.section("candidate graph")
	e.line("activates(U,V) :- edge(U,V,1), not removeEdge(U,V,1).")
	e.line("activates(U,V) :- addActEdge(U,V).")
	e.line("inhibits(U,V) :- edge(U,V,-1), not removeEdge(U,V,-1).")
	e.line("inhibits(U,V) :- addInhEdge(U,V).")
	e.line(" :- activates(X,Y), inhibits(X,Y).")

	e.section("edit distance")
	e.line("addEdge(U,V,1) :- addActEdge(U,V).")
	e.line("addEdge(U,V,-1) :- addInhEdge(U,V).")
	e.linef("costAdding(X) :- X = %s.", e.d.count("U,V,S", "addEdge(U,V,S)"))
	e.linef("costRemoving(Y) :- Y = %s.", e.d.count("U,V,S", "removeEdge(U,V,S)"))
	e.line("repairCost(0,Z) :- costAdding(X), costRemoving(Y), Z=X+Y.")
}

func (e *encoding) observations() {
	e.section("observed time series")
	for _, o := range e.net.Observations {
		e.linef("%s(%d,%d).", o.State, o.Gene, o.Time)
	}
}

func (e *encoding) propagation() {
	e.section("signals received from genes active at T")
	e.line("receivesActivation(Y,T) :- activates(X,Y), active(X,T).")
	e.line("receivesInhibition(Y,T) :- inhibits(X,Y), active(X,T).")

	e.section("net effect at T of the signals received at T-1")
	e.line("activated(Y,T) :- receivesActivation(Y,T-1), not receivesInhibition(Y,T-1), time(T).")
	e.line("inhibited(Y,T) :- receivesInhibition(Y,T-1), not receivesActivation(Y,T-1), time(T).")
	e.line(" :- activated(Y,T), inhibited(Y,T).")

	e.section("state update")
	e.line("inactive(Y,T) :- active(Y,T-1), inhibited(Y,T), time(T).")
	e.line("active(Y,T) :- active(Y,T-1), not inhibited(Y,T), time(T).")
	e.line("active(Y,T) :- inactive(Y,T-1), activated(Y,T), time(T).")
	e.line("inactive(Y,T) :- inactive(Y,T-1), not activated(Y,T), time(T).")

	e.section("propagated states must agree with the observations")
	e.line(" :- active(Y,T), inactive(Y,T).")
}

func (e *encoding) objective() {
	e.blank()
	e.line(ObjectiveMarker)
	e.linef("totalCost(C) :- C = %s.", e.d.Sum("X", "R", "repairCost(R,X)"))
	e.line(Minimize(e.d))
}
