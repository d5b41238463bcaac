package network

import (
	"math"

	"github.com/agenthands/netrepair/internal/core/model"
	apperrors "github.com/agenthands/netrepair/internal/errors"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// Properties reports the structural measurements of net. The diameter is the
// precomputed value carried by the definition.
func Properties(net *model.Network) model.Properties {
	edges := net.TotalEdges()
	p := model.Properties{
		Genes:    net.Genes,
		Edges:    edges,
		Diameter: net.Diameter,
	}
	if net.Genes > 0 {
		// every edge contributes one in-degree and one out-degree
		p.AverageDegree = float64(2*edges) / float64(net.Genes)
		p.EdgeNodeRatio = float64(edges) / float64(net.Genes)
	}
	return p
}

// undirected builds the symmetric link graph the diameter rule reasons over.
// Self-loops are dropped.
func undirected(net *model.Network) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for id := 1; id <= net.Genes; id++ {
		g.AddNode(simple.Node(int64(id)))
	}
	for _, e := range net.Edges() {
		if e.From == e.To {
			continue
		}
		g.SetEdge(simple.Edge{F: simple.Node(int64(e.From)), T: simple.Node(int64(e.To))})
	}
	return g
}

// MeasureDiameter returns the largest finite shortest-path length between two
// distinct genes of the undirected link graph. Unreachable pairs are ignored.
func MeasureDiameter(net *model.Network) int {
	g := undirected(net)
	paths := path.DijkstraAllPaths(g)

	diameter := 0
	for u := 1; u <= net.Genes; u++ {
		for v := u + 1; v <= net.Genes; v++ {
			w := paths.Weight(int64(u), int64(v))
			if math.IsInf(w, 1) {
				continue
			}
			if d := int(w); d > diameter {
				diameter = d
			}
		}
	}
	return diameter
}

// LearnBands derives heuristic thresholds for target from the properties of
// the reference networks. Degree bounds come from the references' average
// degrees, edge bounds from their edge/node ratios scaled to target's gene
// count, and the diameter band from their diameters. The target itself is
// skipped when it appears among the references.
func LearnBands(target *model.Network, references []*model.Network) (model.Bands, error) {
	var (
		degrees   []float64
		ratios    []float64
		diameters []int
	)
	for _, ref := range references {
		if ref == nil || ref.Name == target.Name || ref.Genes == 0 || ref.TotalEdges() == 0 {
			continue
		}
		p := Properties(ref)
		degrees = append(degrees, p.AverageDegree)
		ratios = append(ratios, p.EdgeNodeRatio)
		d := p.Diameter
		if d == 0 {
			d = MeasureDiameter(ref)
		}
		if d > 0 {
			diameters = append(diameters, d)
		}
	}
	if len(degrees) == 0 {
		return model.Bands{}, apperrors.InsufficientSignal("no reference networks to learn from for %q", target.Name)
	}

	lo, hi := bounds(degrees)
	bands := model.Bands{
		Degree: model.Band{Min: int(math.Floor(lo)), Max: int(math.Ceil(hi))},
	}
	lo, hi = bounds(ratios)
	genes := float64(target.Genes)
	bands.Edges = model.Band{Min: int(math.Floor(lo * genes)), Max: int(math.Ceil(hi * genes))}

	if len(diameters) == 0 {
		bands.Diameter = model.DefaultBands().Diameter
	} else {
		bands.Diameter = model.Band{Min: diameters[0], Max: diameters[0]}
		for _, d := range diameters[1:] {
			bands.Diameter.Min = min(bands.Diameter.Min, d)
			bands.Diameter.Max = max(bands.Diameter.Max, d)
		}
	}
	return bands, nil
}

func bounds(values []float64) (float64, float64) {
	lo, _ := stats.Min(values)
	hi, _ := stats.Max(values)
	return lo, hi
}
