package encoder

import "fmt"

// The helpers below render aggregates. terms is the tuple that keeps
// elements distinct in the clingo set semantics; gringo3 relies on the
// literal itself.

func (d Dialect) count(terms, atom string) string {
	if d == Gringo3 {
		return fmt.Sprintf("#count{%s}", atom)
	}
	return fmt.Sprintf("#count{%s : %s}", terms, atom)
}

func (d Dialect) aggregate(fn, weight, terms, atom string) string {
	if d == Gringo3 {
		return fmt.Sprintf("#%s[%s=%s]", fn, atom, weight)
	}
	tuple := weight
	if terms != "" {
		tuple += "," + terms
	}
	return fmt.Sprintf("#%s{%s : %s}", fn, tuple, atom)
}

// Sum renders a #sum aggregate of weight over atom.
func (d Dialect) Sum(weight, terms, atom string) string {
	return d.aggregate("sum", weight, terms, atom)
}

func (d Dialect) minimize(weight, atom string) string {
	if d == Gringo3 {
		return fmt.Sprintf("#minimize[%s=%s].", atom, weight)
	}
	return fmt.Sprintf("#minimize{%s : %s}.", weight, atom)
}

func (d Dialect) show(predicate string, arity int, vars string) string {
	if d == Gringo3 {
		return fmt.Sprintf("#show %s(%s).", predicate, vars)
	}
	return fmt.Sprintf("#show %s/%d.", predicate, arity)
}
