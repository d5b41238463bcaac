package encoder

import (
	"fmt"
	"slices"
	"strings"
)

// motif is a three-node connectivity pattern over X, Y, Z. Each flag states
// whether the directed link is present, in the order XY YX XZ ZX YZ ZY.
type motif [6]bool

var motifLinks = [6][2]string{{"X", "Y"}, {"Y", "X"}, {"X", "Z"}, {"Z", "X"}, {"Y", "Z"}, {"Z", "Y"}}

// motifCatalogue holds the 13 connected three-node motifs, indexed from 1.
var motifCatalogue = []motif{
	{true, false, true, false, false, false},
	{false, true, true, false, false, false},
	{true, true, true, false, false, false},
	{false, false, true, false, true, false},
	{true, false, true, false, true, false},
	{true, true, true, false, true, false},
	{true, true, false, true, false, false},
	{true, true, true, true, false, false},
	{true, false, false, true, true, false},
	{true, false, true, true, true, false},
	{false, true, true, true, true, false},
	{true, true, true, true, true, false},
	{true, true, true, true, true, true},
}

// DefaultMotifs are the motifs expected in regulatory networks.
var DefaultMotifs = []int{1, 2, 3, 4, 5, 6, 7, 10, 11, 12}

// motifRule renders motif id over the edgeAfterRepair relation. Motifs outside
// the allowed set are emitted commented out.
func motifRule(id int, allowed []int) string {
	m := motifCatalogue[id-1]
	literals := make([]string, 0, 9)
	for i, present := range m {
		atom := "edgeAfterRepair(" + motifLinks[i][0] + "," + motifLinks[i][1] + ")"
		if !present {
			atom = "not " + atom
		}
		literals = append(literals, atom)
	}
	literals = append(literals, "X != Y", "Y != Z", "X != Z")

	prefix := ""
	if !slices.Contains(allowed, id) {
		prefix = "%"
	}
	return fmt.Sprintf("%smotif3(%d,X,Y,Z) :- %s.", prefix, id, strings.Join(literals, ", "))
}
