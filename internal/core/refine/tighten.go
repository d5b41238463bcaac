package refine

import (
	"fmt"
	"strings"

	"github.com/agenthands/netrepair/internal/core/encoder"
	"github.com/agenthands/netrepair/internal/core/model"
)

// Tighten rewrites program so that the next answer must beat costs on the
// aggregate signed comparison. Every line before the output projection is
// kept; block numbers the new predicates so repeated tightening accumulates
// constraints instead of redefining them.
func Tighten(program string, costs model.CostVector, block int, d encoder.Dialect) string {
	var b strings.Builder
	b.WriteString(encoder.Body(program))
	b.WriteString("\n")

	for slot, v := range costs {
		fmt.Fprintf(&b, "change%d(%d,-1) :- repairCost(%d,X), X < %d.\n", block, slot, slot, v)
	}
	b.WriteString("\n")
	for slot, v := range costs {
		fmt.Fprintf(&b, "change%d(%d,1) :- repairCost(%d,X), X > %d.\n", block, slot, slot, v)
	}
	b.WriteString("\n")

	change := fmt.Sprintf("change%d(X,Y)", block)
	fmt.Fprintf(&b, "totalChange%d(C) :- C = %s.\n\n", block, d.Sum("Y", "X", change))
	fmt.Fprintf(&b, " :- totalChange%d(C), C >= 0.\n\n", block)

	b.WriteString(encoder.Projection(d, true))
	return b.String()
}
