package network

import (
	"testing"

	"github.com/agenthands/netrepair/internal/core/model"
	apperrors "github.com/agenthands/netrepair/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chain(name string, genes int) *model.Network {
	net := &model.Network{Name: name, Genes: genes, TimeSteps: 1}
	for g := 1; g < genes; g++ {
		net.Baseline = append(net.Baseline, model.NewEdge(model.Activates, g, g+1))
	}
	return net
}

func TestProperties(t *testing.T) {
	net, err := Load("elegans", model.Clean)
	require.NoError(t, err)

	p := Properties(net)
	assert.Equal(t, 8, p.Genes)
	assert.Equal(t, 21, p.Edges)
	assert.InDelta(t, 5.25, p.AverageDegree, 1e-9)
	assert.InDelta(t, 2.625, p.EdgeNodeRatio, 1e-9)
	assert.Equal(t, 3, p.Diameter)
}

func TestMeasureDiameter(t *testing.T) {
	net := chain("path", 4)
	assert.Equal(t, 3, MeasureDiameter(net))

	// a back edge and a self-loop do not change the undirected distances
	net.Baseline = append(net.Baseline, model.NewEdge(model.Inhibits, 2, 1), model.NewEdge(model.Inhibits, 3, 3))
	assert.Equal(t, 3, MeasureDiameter(net))

	// closing the cycle halves the longest distance
	net.Corruption = []model.Edge{model.NewEdge(model.Activates, 4, 1)}
	assert.Equal(t, 2, MeasureDiameter(net))
}

func TestComponents(t *testing.T) {
	net := chain("split", 3)
	net.Genes = 5
	net.Baseline = append(net.Baseline, model.NewEdge(model.Activates, 5, 5))

	assert.Equal(t, [][]int{{1, 2, 3}, {4}, {5}}, Components(net))
	assert.Equal(t, []int{4, 5}, Unreachable(net))

	assert.Nil(t, Unreachable(chain("connected", 3)))
}

func TestLearnBands(t *testing.T) {
	cycle := []model.Edge{
		model.NewEdge(model.Activates, 1, 2), model.NewEdge(model.Activates, 2, 3),
		model.NewEdge(model.Activates, 3, 4), model.NewEdge(model.Activates, 4, 1),
	}
	reverse := []model.Edge{
		model.NewEdge(model.Inhibits, 2, 1), model.NewEdge(model.Inhibits, 3, 2),
		model.NewEdge(model.Inhibits, 4, 3), model.NewEdge(model.Inhibits, 1, 4),
	}

	target := chain("target", 10)
	refs := []*model.Network{
		target,
		{Name: "sparse", Genes: 4, Diameter: 3, Baseline: cycle},
		{Name: "dense", Genes: 4, Diameter: 5, Baseline: append(append([]model.Edge{}, cycle...), reverse...)},
	}

	bands, err := LearnBands(target, refs)
	require.NoError(t, err)

	assert.Equal(t, model.Band{Min: 2, Max: 4}, bands.Degree)
	assert.Equal(t, model.Band{Min: 10, Max: 20}, bands.Edges)
	assert.Equal(t, model.Band{Min: 3, Max: 5}, bands.Diameter)
}

func TestLearnBands_NoReferences(t *testing.T) {
	target := chain("target", 3)
	_, err := LearnBands(target, []*model.Network{target})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientSignal)
}

func TestComponents_InterleavedGenes(t *testing.T) {
	net := &model.Network{
		Name:  "interleaved",
		Genes: 6,
		Baseline: []model.Edge{
			model.NewEdge(model.Inhibits, 6, 2),
			model.NewEdge(model.Activates, 4, 2),
			model.NewEdge(model.Activates, 3, 1),
			model.NewEdge(model.Activates, 1, 3),
		},
	}

	assert.Equal(t, [][]int{{1, 3}, {2, 4, 6}, {5}}, Components(net))
	assert.Equal(t, []int{2, 4, 5, 6}, Unreachable(net))
}
