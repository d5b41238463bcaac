package encoder

import (
	"fmt"
	"slices"

	"github.com/agenthands/netrepair/internal/core/model"
	apperrors "github.com/agenthands/netrepair/internal/errors"
)

// Dialect selects the input language of the target grounder.
type Dialect string

const (
	// Clingo is the syntax accepted by gringo/clingo 4 and later.
	Clingo Dialect = "clingo"
	// Gringo3 is the legacy syntax with #hide and square-bracket aggregates.
	Gringo3 Dialect = "gringo3"
)

func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case Clingo, "":
		return Clingo, nil
	case Gringo3:
		return Gringo3, nil
	}
	return "", apperrors.Encoding("unknown dialect %q", s)
}

// Rule indices of the heuristic scoring rules.
const (
	RuleEditDistance = iota
	RuleFixedState
	RuleDegree
	RuleEdgeCount
	RuleSign
	RuleDiameter
	RuleMotifs
)

// AllRules lists every heuristic rule that can be toggled.
var AllRules = []int{RuleFixedState, RuleDegree, RuleEdgeCount, RuleSign, RuleDiameter, RuleMotifs}

// RuleName returns the human readable name of a cost slot.
func RuleName(rule int) string {
	switch rule {
	case RuleEditDistance:
		return "edit distance"
	case RuleFixedState:
		return "fixed final state"
	case RuleDegree:
		return "degree bounds"
	case RuleEdgeCount:
		return "edge-count bounds"
	case RuleSign:
		return "likely interaction sign"
	case RuleDiameter:
		return "diameter bounds"
	case RuleMotifs:
		return "motif profile"
	}
	return fmt.Sprintf("rule %d", rule)
}

type Options struct {
	Heuristics bool
	// Rules enabled when Heuristics is set. Nil enables all of them.
	Rules         []int
	Bands         model.Bands
	MaxPathLength int
	// Motifs is the allowed subset of the motif catalogue. Nil selects DefaultMotifs.
	Motifs        []int
	ShowCosts     bool
	OmitObjective bool
	Dialect       Dialect
	// RequireClean rejects networks that already carry corruption edges.
	RequireClean bool
}

func DefaultOptions() Options {
	return Options{
		Heuristics:    false,
		Bands:         model.DefaultBands(),
		MaxPathLength: 4,
		Dialect:       Clingo,
	}
}

func (o Options) enabled(rule int) bool {
	if !o.Heuristics {
		return false
	}
	if o.Rules == nil {
		return true
	}
	return slices.Contains(o.Rules, rule)
}

func (o Options) motifs() []int {
	if o.Motifs == nil {
		return DefaultMotifs
	}
	return o.Motifs
}

func (o Options) validate() error {
	if _, err := ParseDialect(string(o.Dialect)); err != nil {
		return err
	}
	for _, r := range o.Rules {
		if r < RuleFixedState || r > RuleMotifs {
			return apperrors.Encoding("heuristic rule %d out of range 1..6", r)
		}
	}
	if !o.Heuristics {
		return nil
	}
	bands := []struct {
		name string
		band model.Band
	}{
		{"degree", o.Bands.Degree},
		{"edges", o.Bands.Edges},
		{"diameter", o.Bands.Diameter},
	}
	for _, b := range bands {
		if !b.band.Valid() {
			return apperrors.Encoding("invalid %s band [%d,%d]", b.name, b.band.Min, b.band.Max)
		}
	}
	if o.enabled(RuleDiameter) && o.MaxPathLength < 1 {
		return apperrors.Encoding("max path length must be positive, got %d", o.MaxPathLength)
	}
	for _, m := range o.motifs() {
		if m < 1 || m > len(motifCatalogue) {
			return apperrors.Encoding("motif %d out of range 1..%d", m, len(motifCatalogue))
		}
	}
	return nil
}
