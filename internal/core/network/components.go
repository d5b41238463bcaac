package network

import (
	"sort"

	"github.com/agenthands/netrepair/internal/core/model"
	"gonum.org/v1/gonum/graph/topo"
)

// Components groups genes into connected components of the undirected link
// graph. Isolated genes form singleton components. Components are ordered by
// their smallest gene and genes inside a component are sorted.
func Components(net *model.Network) [][]int {
	var components [][]int
	for _, nodes := range topo.ConnectedComponents(undirected(net)) {
		component := make([]int, 0, len(nodes))
		for _, n := range nodes {
			component = append(component, int(n.ID()))
		}
		sort.Ints(component)
		components = append(components, component)
	}
	sort.Slice(components, func(i, j int) bool { return components[i][0] < components[j][0] })
	return components
}

// Unreachable returns the genes that cannot be reached from gene 1 ignoring
// edge direction. A repaired network with unreachable genes is rejected by the
// diameter rule.
func Unreachable(net *model.Network) []int {
	components := Components(net)
	if len(components) <= 1 {
		return nil
	}
	var out []int
	for _, c := range components[1:] {
		out = append(out, c...)
	}
	sort.Ints(out)
	return out
}
