package ranking

import (
	"fmt"
	"strings"

	"github.com/agenthands/netrepair/internal/core/encoder"
	"github.com/agenthands/netrepair/internal/core/model"
	apperrors "github.com/agenthands/netrepair/internal/errors"
)

// Objective is a weighted totalCost definition that replaces the plain sum
// of repair costs in an encoded program.
type Objective struct {
	// Rules are the slots that carried enough signal to be combined.
	Rules      []int       `json:"rules"`
	Statistics *Statistics `json:"statistics"`
	Program    string      `json:"program"`
}

// SynthesizeWeightedObjective z-normalises every informative rule of pool in
// integer arithmetic and chains the scores into a single totalCost to
// minimise. Rules whose mean or standard deviation is too small are dropped.
func SynthesizeWeightedObjective(pool []model.CostVector, opts Options) (*Objective, error) {
	s, err := Describe(pool)
	if err != nil {
		return nil, err
	}
	d := opts.Dialect
	if d == "" {
		d = encoder.Clingo
	}

	obj := &Objective{Statistics: s}
	var b strings.Builder
	b.WriteString(encoder.ObjectiveMarker + "\n")
	for slot := 0; slot < model.NumRules; slot++ {
		if s.Means[slot] < opts.MinMean || s.StdDevs[slot] < opts.MinStdDev {
			continue
		}
		obj.Rules = append(obj.Rules, slot)
		mean := int(s.Means[slot] * float64(opts.CostScale))
		sd := max(1, int(s.StdDevs[slot]*float64(opts.StdDevScale)))
		fmt.Fprintf(&b, "cost%d(X) :- repairCost(%d,C), X=%d*C.\n", slot, slot, opts.CostScale)
		fmt.Fprintf(&b, "diff%d(D) :- cost%d(X), D=X-%d.\n", slot, slot, mean)
		fmt.Fprintf(&b, "zScore%d(Z) :- diff%d(D), Z=D/%d.\n\n", slot, slot, sd)
	}
	if len(obj.Rules) < 2 {
		return nil, apperrors.InsufficientSignal("only %d informative rule(s), need at least 2", len(obj.Rules))
	}

	fmt.Fprintf(&b, "totalCost0(X) :- zScore%d(A), zScore%d(B), X=A+B.\n", obj.Rules[0], obj.Rules[1])
	last := 0
	for i, slot := range obj.Rules[2:] {
		last = i + 1
		fmt.Fprintf(&b, "totalCost%d(X) :- totalCost%d(A), zScore%d(B), X=A+B.\n", last, last-1, slot)
	}
	fmt.Fprintf(&b, "\ntotalCost(X) :- totalCost%d(X).\n\n", last)
	b.WriteString(encoder.Minimize(d) + "\n\n")
	b.WriteString(encoder.Projection(d, opts.ShowCosts))

	obj.Program = b.String()
	return obj, nil
}
