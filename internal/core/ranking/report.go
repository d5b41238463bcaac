package ranking

import (
	"fmt"
	"io"
	"strconv"

	"github.com/agenthands/netrepair/internal/core/encoder"
	"github.com/agenthands/netrepair/internal/core/model"
)

// WriteSummary renders the pool statistics followed by the winning candidate.
func WriteSummary(w io.Writer, s *Statistics, best int, pool []model.CostVector) error {
	if _, err := fmt.Fprintf(w, "Candidates: %d\n\nAVERAGES:\n", s.Count); err != nil {
		return err
	}
	for slot, v := range s.Means {
		fmt.Fprintf(w, "rule %d (%s): %s\n", slot, encoder.RuleName(slot), format(v))
	}
	fmt.Fprintf(w, "\nSTANDARD DEVIATIONS:\n")
	for slot, v := range s.StdDevs {
		fmt.Fprintf(w, "rule %d (%s): %s\n", slot, encoder.RuleName(slot), format(v))
	}
	if best < 0 || best >= len(pool) {
		return nil
	}
	_, err := fmt.Fprintf(w, "\nBEST REPAIR:\nRepair: %d\nCost of rules: %v\n", best, pool[best])
	return err
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
