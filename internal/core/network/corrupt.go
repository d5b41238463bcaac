package network

import (
	"math/rand/v2"

	"github.com/agenthands/netrepair/internal/core/model"
	apperrors "github.com/agenthands/netrepair/internal/errors"
)

// Corrupt derives a corrupted variant of a clean network: removeRatio of the
// baseline edges are dropped and addRatio * |baseline| random edges between
// previously unconnected ordered pairs become the corruption set. The same
// seed always yields the same variant.
func Corrupt(net *model.Network, addRatio, removeRatio float64, seed uint64) (*model.Network, error) {
	if net.IsCorrupted() {
		return nil, apperrors.Encoding("network %q is already corrupted", net.Name)
	}
	if addRatio < 0 || removeRatio < 0 || removeRatio > 1 {
		return nil, apperrors.Encoding("invalid corruption ratios add=%.2f remove=%.2f", addRatio, removeRatio)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	baseline := model.NewEdgeSet(net.Baseline...).Sorted()

	toRemove := int(float64(len(baseline)) * removeRatio)
	toAdd := int(float64(len(baseline)) * addRatio)

	rng.Shuffle(len(baseline), func(i, j int) { baseline[i], baseline[j] = baseline[j], baseline[i] })
	kept := append([]model.Edge(nil), baseline[toRemove:]...)
	model.SortEdges(kept)

	type pair struct{ from, to int }
	connected := make(map[pair]bool, len(baseline))
	for _, e := range baseline {
		connected[pair{e.From, e.To}] = true
	}
	var free []pair
	for u := 1; u <= net.Genes; u++ {
		for v := 1; v <= net.Genes; v++ {
			if !connected[pair{u, v}] {
				free = append(free, pair{u, v})
			}
		}
	}
	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
	toAdd = min(toAdd, len(free))

	added := make([]model.Edge, 0, toAdd)
	for _, p := range free[:toAdd] {
		kind := model.Activates
		if rng.IntN(2) == 1 {
			kind = model.Inhibits
		}
		added = append(added, model.NewEdge(kind, p.from, p.to))
	}
	model.SortEdges(added)

	return &model.Network{
		Name:         net.Name,
		Genes:        net.Genes,
		TimeSteps:    net.TimeSteps,
		Diameter:     net.Diameter,
		Baseline:     kept,
		Corruption:   added,
		Observations: append([]model.Observation(nil), net.Observations...),
	}, nil
}
