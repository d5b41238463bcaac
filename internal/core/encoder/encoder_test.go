package encoder

import (
	"strings"
	"testing"

	"github.com/agenthands/netrepair/internal/core/model"
	"github.com/agenthands/netrepair/internal/core/network"
	apperrors "github.com/agenthands/netrepair/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallNetwork() *model.Network {
	return &model.Network{
		Name:      "small",
		Genes:     3,
		TimeSteps: 2,
		Baseline: []model.Edge{
			model.NewEdge(model.Activates, 1, 2),
			model.NewEdge(model.Inhibits, 2, 3),
			model.NewEdge(model.Activates, 1, 2),
		},
		Corruption: []model.Edge{model.NewEdge(model.Activates, 3, 1)},
		Observations: []model.Observation{
			{State: model.Active, Gene: 1, Time: 1},
			{State: model.Inactive, Gene: 2, Time: 1},
			{State: model.Active, Gene: 3, Time: 1},
			{State: model.Active, Gene: 1, Time: 2},
			{State: model.Active, Gene: 2, Time: 2},
			{State: model.Inactive, Gene: 3, Time: 2},
		},
	}
}

func withHeuristics() Options {
	opts := DefaultOptions()
	opts.Heuristics = true
	return opts
}

func TestEncode_Deterministic(t *testing.T) {
	net, err := network.Load("budding", model.Corrupted)
	require.NoError(t, err)

	for _, dialect := range []Dialect{Clingo, Gringo3} {
		opts := withHeuristics()
		opts.Dialect = dialect
		opts.ShowCosts = true

		first, err := Encode(net, opts)
		require.NoError(t, err)
		second, err := Encode(net, opts)
		require.NoError(t, err)
		assert.Equal(t, first, second, string(dialect))
	}
}

func TestEncode_Sections(t *testing.T) {
	program, err := Encode(smallNetwork(), DefaultOptions())
	require.NoError(t, err)

	order := []string{
		"gene(1).",
		"time(2).",
		"% 2 baseline edges",
		"edge(1,2,1).",
		"edge(2,3,-1).",
		"% 1 corruption edges",
		"edge(3,1,1).",
		"addActEdge(U,V) :- gene(U), gene(V), not edge(U,V), not addInhEdge(U,V), not nAddActEdge(U,V).",
		" :- activates(X,Y), inhibits(X,Y).",
		"costAdding(X) :- X = #count{U,V,S : addEdge(U,V,S)}.",
		"repairCost(0,Z) :- costAdding(X), costRemoving(Y), Z=X+Y.",
		"active(1,1).",
		"inactive(3,2).",
		"activated(Y,T) :- receivesActivation(Y,T-1), not receivesInhibition(Y,T-1), time(T).",
		" :- active(Y,T), inactive(Y,T).",
		"repairCost(6,0).",
		ObjectiveMarker,
		"totalCost(C) :- C = #sum{X,R : repairCost(R,X)}.",
		"#minimize{C : totalCost(C)}.",
		ProjectionMarker,
		"#show activates/2.",
		"#show inhibits/2.",
	}
	pos := 0
	for _, want := range order {
		i := strings.Index(program[pos:], want)
		require.GreaterOrEqual(t, i, 0, "missing or out of order: %q", want)
		pos += i + len(want)
	}

	assert.Equal(t, 1, strings.Count(program, "edge(1,2,1)."), "duplicate edges are emitted once")
	assert.NotContains(t, program, "#show repairCost")
	assert.NotContains(t, program, "edgeAfterRepair")
	for rule := 1; rule <= 6; rule++ {
		assert.Contains(t, program, "repairCost("+string(rune('0'+rule))+",0).")
	}
}

func TestEncode_Heuristics(t *testing.T) {
	program, err := Encode(smallNetwork(), withHeuristics())
	require.NoError(t, err)

	// three distinct edges as loaded
	assert.Contains(t, program, "activePlus(1,3).")
	assert.Contains(t, program, "inactivePlus(3,3).")
	assert.Contains(t, program, "repairCost(1,3) :- penalty(1).")
	assert.Contains(t, program, "repairCost(2,Y) :- kBadGenes(X), Y=X*1.")
	assert.Contains(t, program, "kBadGene(C) :- kDegree(C,Z), Z < 4.")
	assert.Contains(t, program, "repairCost(3,3) :- nbOfEdges(X), X > 25.")
	assert.Contains(t, program, "likelyActivator(C) :- active(C,T), T <= 1.")
	assert.Contains(t, program, "dist(X,Y,1) :- link(X,Y), X != Y.")
	assert.Contains(t, program, "dist(X,Y,2) :- link(X,A0), link(A0,Y), X != Y.")
	assert.Contains(t, program, "dist(X,Y,3) :- link(X,B0), link(B0,C0), link(C0,Y), X != Y.")
	assert.Contains(t, program, "dist(X,Y,4) :- link(X,D0), link(D0,E0), link(E0,F0), link(F0,Y), X != Y.")
	assert.NotContains(t, program, "dist(X,Y,5)")
	assert.Contains(t, program, "smallestDist(X,Y,D) :- D = #min{C : dist(X,Y,C)}, dist(X,Y,_).")
	assert.Contains(t, program, "diameter(D) :- D = #max{C,X,Y : smallestDist(X,Y,C)}.")
	assert.Contains(t, program, "repairCost(5,0) :- diameter(D), D >= 3, D <= 4.")
	assert.Contains(t, program, "motif3(1,X,Y,Z) :- edgeAfterRepair(X,Y), not edgeAfterRepair(Y,X), edgeAfterRepair(X,Z), "+
		"not edgeAfterRepair(Z,X), not edgeAfterRepair(Y,Z), not edgeAfterRepair(Z,Y), X != Y, Y != Z, X != Z.")
	assert.Contains(t, program, "\n%motif3(8,X,Y,Z)")
	assert.Contains(t, program, "\n%motif3(13,X,Y,Z)")
	assert.Contains(t, program, "\nmotif3(12,X,Y,Z)")
	assert.Contains(t, program, "penaltyMotifs(C) :- dominantMotifs3(Z), C=3-Z.")
	assert.NotContains(t, program, "repairCost(3,0).")
}

func TestEncode_RuleSelection(t *testing.T) {
	opts := withHeuristics()
	opts.Rules = []int{RuleEdgeCount}
	opts.Bands.Edges = model.Band{Min: 2, Max: 3}

	program, err := Encode(smallNetwork(), opts)
	require.NoError(t, err)

	assert.Contains(t, program, "repairCost(3,0) :- nbOfEdges(X), X >= 2, X <= 3.")
	for _, rule := range []string{"1", "2", "4", "5", "6"} {
		assert.Contains(t, program, "repairCost("+rule+",0).")
	}
	assert.NotContains(t, program, "kDegree")
	assert.NotContains(t, program, "motif3")
}

func TestEncode_Gringo3(t *testing.T) {
	opts := withHeuristics()
	opts.Dialect = Gringo3
	opts.ShowCosts = true

	program, err := Encode(smallNetwork(), opts)
	require.NoError(t, err)

	assert.Contains(t, program, "costAdding(X) :- X = #count{addEdge(U,V,S)}.")
	assert.Contains(t, program, "smallestDist(X,Y,D) :- D = #min[dist(X,Y,C)=C], dist(X,Y,_).")
	assert.Contains(t, program, "totalCost(C) :- C = #sum[repairCost(R,X)=X].")
	assert.Contains(t, program, "#minimize[totalCost(C)=C].")
	assert.True(t, strings.HasSuffix(program, ProjectionMarker+"\n#hide.\n#show repairCost(R,X).\n#show activates(X,Y).\n#show inhibits(X,Y).\n"))
}

func TestEncode_OmitObjective(t *testing.T) {
	opts := DefaultOptions()
	opts.OmitObjective = true

	program, err := Encode(smallNetwork(), opts)
	require.NoError(t, err)
	assert.NotContains(t, program, "totalCost")
	assert.NotContains(t, program, "#minimize")
	assert.Contains(t, program, ProjectionMarker)
}

func TestEncode_Errors(t *testing.T) {
	net := smallNetwork()

	opts := DefaultOptions()
	opts.RequireClean = true
	_, err := Encode(net, opts)
	assert.ErrorIs(t, err, apperrors.ErrEncoding)

	empty := smallNetwork()
	empty.Genes = 0
	_, err = Encode(empty, DefaultOptions())
	assert.ErrorIs(t, err, apperrors.ErrEncoding)

	opts = withHeuristics()
	opts.Bands.Degree = model.Band{Min: 6, Max: 4}
	_, err = Encode(net, opts)
	assert.ErrorIs(t, err, apperrors.ErrEncoding)

	opts = withHeuristics()
	opts.Rules = []int{7}
	_, err = Encode(net, opts)
	assert.ErrorIs(t, err, apperrors.ErrEncoding)

	opts = DefaultOptions()
	opts.Dialect = "prolog"
	_, err = Encode(net, opts)
	assert.ErrorIs(t, err, apperrors.ErrEncoding)

	_, err = Encode(nil, DefaultOptions())
	assert.ErrorIs(t, err, apperrors.ErrEncoding)
}

func TestIntermediateName(t *testing.T) {
	assert.Equal(t, "A0", IntermediateName(0))
	assert.Equal(t, "B0", IntermediateName(1))
	assert.Equal(t, "Z0", IntermediateName(25))
	assert.Equal(t, "A1", IntermediateName(26))
	assert.Equal(t, "C3", IntermediateName(80))
	assert.Equal(t, IntermediateName(42), IntermediateName(42))
}
