package network

import (
	"sort"

	"github.com/agenthands/netrepair/internal/core/model"
)

// DefaultModuleIterations bounds label propagation when no limit is given.
const DefaultModuleIterations = 20

// Modules partitions genes into regulatory modules by label propagation on
// the undirected link graph. Parallel links between the same pair count as a
// stronger tie. Singleton modules are dropped. Modules are ordered by their
// smallest gene and genes inside a module are sorted.
func Modules(net *model.Network, maxIterations int) [][]int {
	if net == nil || net.Genes == 0 {
		return nil
	}
	if maxIterations <= 0 {
		maxIterations = DefaultModuleIterations
	}

	adj := make(map[int]map[int]int, net.Genes)
	for _, e := range net.Edges() {
		if e.From == e.To {
			continue
		}
		if adj[e.From] == nil {
			adj[e.From] = make(map[int]int)
		}
		if adj[e.To] == nil {
			adj[e.To] = make(map[int]int)
		}
		adj[e.From][e.To]++
		adj[e.To][e.From]++
	}

	labels := make([]int, net.Genes+1)
	for gene := 1; gene <= net.Genes; gene++ {
		labels[gene] = gene
	}

	for iter := 0; iter < maxIterations; iter++ {
		changed := 0
		for gene := 1; gene <= net.Genes; gene++ {
			neighbours := adj[gene]
			if len(neighbours) == 0 {
				continue
			}
			weights := make(map[int]int)
			best := 0
			for v, w := range neighbours {
				weights[labels[v]] += w
				if weights[labels[v]] > best {
					best = weights[labels[v]]
				}
			}
			// Ties go to the largest label so the result does not depend on
			// map order.
			next := 0
			for label, w := range weights {
				if w == best && label > next {
					next = label
				}
			}
			if labels[gene] != next {
				labels[gene] = next
				changed++
			}
		}
		if changed == 0 {
			break
		}
	}

	groups := make(map[int][]int)
	for gene := 1; gene <= net.Genes; gene++ {
		groups[labels[gene]] = append(groups[labels[gene]], gene)
	}
	var modules [][]int
	for _, g := range groups {
		if len(g) >= 2 {
			modules = append(modules, g)
		}
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i][0] < modules[j][0] })
	return modules
}
