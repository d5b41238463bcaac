package network

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/netrepair/internal/core/model"
)

func triangles(bridge bool) *model.Network {
	net := &model.Network{Name: "triangles", Genes: 7, TimeSteps: 1}
	for _, p := range [][2]int{{1, 2}, {2, 3}, {3, 1}, {4, 5}, {5, 6}, {6, 4}} {
		net.Baseline = append(net.Baseline, model.Edge{From: p[0], To: p[1], Kind: model.Activates})
	}
	if bridge {
		net.Baseline = append(net.Baseline, model.Edge{From: 3, To: 4, Kind: model.Inhibits})
	}
	return net
}

func TestModules_DisconnectedTriangles(t *testing.T) {
	modules := Modules(triangles(false), 0)
	assert.Equal(t, [][]int{{1, 2, 3}, {4, 5, 6}}, modules)
}

func TestModules_IsolatedGeneDropped(t *testing.T) {
	for _, m := range Modules(triangles(true), 0) {
		assert.NotContains(t, m, 7)
	}
}

func TestModules_CoversLinkedGenes(t *testing.T) {
	seen := map[int]bool{}
	for _, m := range Modules(triangles(true), 5) {
		for _, g := range m {
			assert.False(t, seen[g], "gene %d in two modules", g)
			seen[g] = true
		}
	}
	for g := 1; g <= 6; g++ {
		assert.True(t, seen[g])
	}
}

func TestModules_Empty(t *testing.T) {
	assert.Nil(t, Modules(nil, 0))
	assert.Nil(t, Modules(&model.Network{}, 0))
}
