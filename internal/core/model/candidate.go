package model

// NumRules is the length of every cost vector: slot 0 is the edit distance,
// slots 1..6 the heuristic rules.
const NumRules = 7

// CostVector holds one penalty per scoring rule.
type CostVector [NumRules]int

// Total sums all slots.
func (c CostVector) Total() int {
	sum := 0
	for _, v := range c {
		sum += v
	}
	return sum
}

// SignedDelta compares next against prev slot by slot (-1 below, +1 above,
// 0 equal) and returns the sum. A negative result means next is an
// improvement on the aggregate signed comparison.
func SignedDelta(prev, next CostVector) int {
	sum := 0
	for i := range prev {
		switch {
		case next[i] < prev[i]:
			sum--
		case next[i] > prev[i]:
			sum++
		}
	}
	return sum
}

// Candidate is one repair proposed by the solver.
type Candidate struct {
	// Answer is the solver's answer number, 0 when unknown.
	Answer int        `json:"answer,omitempty"`
	Edges  []Edge     `json:"edges"`
	Costs  CostVector `json:"costs"`
}

// EdgeSet returns the candidate's edges as a set.
func (c *Candidate) EdgeSet() EdgeSet {
	return NewEdgeSet(c.Edges...)
}
