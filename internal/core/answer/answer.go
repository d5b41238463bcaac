package answer

import (
	"fmt"
	"strings"

	"github.com/agenthands/netrepair/internal/core/model"
	apperrors "github.com/agenthands/netrepair/internal/errors"
)

// ParseAnswer builds a candidate from one answer line. activates/inhibits
// atoms become edges, repairCost(R,C) fills slot R of the cost vector and any
// other well-formed atom is ignored.
func ParseAnswer(line string) (*model.Candidate, error) {
	atoms, err := Atoms(line)
	if err != nil {
		return nil, err
	}

	c := &model.Candidate{Edges: []model.Edge{}}
	for _, a := range atoms {
		switch a.Functor {
		case "activates", "inhibits":
			if len(a.Args) != 2 {
				return nil, arityError(a, 2)
			}
			kind, _ := model.ParseEdgeKind(a.Functor)
			c.Edges = append(c.Edges, model.NewEdge(kind, a.Args[0], a.Args[1]))
		case "repairCost":
			if len(a.Args) != 2 {
				return nil, arityError(a, 2)
			}
			rule := a.Args[0]
			if rule < 0 || rule >= model.NumRules {
				return nil, &apperrors.ParseError{
					Token:  a.Text,
					Offset: a.Offset,
					Reason: fmt.Sprintf("rule index %d outside 0..%d", rule, model.NumRules-1),
				}
			}
			c.Costs[rule] = a.Args[1]
		}
	}
	return c, nil
}

func arityError(a *Atom, want int) error {
	return &apperrors.ParseError{
		Token:  a.Text,
		Offset: a.Offset,
		Reason: fmt.Sprintf("%s expects %d arguments, got %d", a.Functor, want, len(a.Args)),
	}
}

// Format renders c as an answer line, edges first.
func Format(c *model.Candidate, withCosts bool) string {
	parts := make([]string, 0, len(c.Edges)+model.NumRules)
	for _, e := range c.Edges {
		parts = append(parts, e.String())
	}
	if withCosts {
		for i, v := range c.Costs {
			parts = append(parts, fmt.Sprintf("repairCost(%d,%d)", i, v))
		}
	}
	return strings.Join(parts, " ")
}
