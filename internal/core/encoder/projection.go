package encoder

import (
	"fmt"
	"strings"
)

const (
	// ProjectionMarker introduces the output projection. Everything before it
	// is the program body that refinement keeps.
	ProjectionMarker = "% output projection"
	// ObjectiveMarker introduces the totalCost objective section.
	ObjectiveMarker = "% objective"

	legacyHide = "#hide."
)

// Projection renders the output projection block for dialect d.
func Projection(d Dialect, showCosts bool) string {
	var b strings.Builder
	b.WriteString(ProjectionMarker + "\n")
	if d == Gringo3 {
		b.WriteString(legacyHide + "\n")
	}
	if showCosts {
		b.WriteString(d.show("repairCost", 2, "R,X") + "\n")
	}
	b.WriteString(d.show("activates", 2, "X,Y") + "\n")
	b.WriteString(d.show("inhibits", 2, "X,Y") + "\n")
	return b.String()
}

// Body returns every line of program before the projection marker, or before
// a legacy #hide directive when the marker is absent.
func Body(program string) string {
	lines := strings.SplitAfter(program, "\n")
	var b strings.Builder
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == ProjectionMarker || strings.HasPrefix(trimmed, legacyHide) {
			break
		}
		b.WriteString(line)
	}
	out := b.String()
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

// WithObjective replaces the objective and projection of program with
// fragment. The fragment is expected to carry its own minimize directive and
// projection.
func WithObjective(program, fragment string) string {
	body := Body(program)
	if i := strings.Index(body, ObjectiveMarker+"\n"); i >= 0 {
		body = body[:i]
	}
	return body + "\n" + fragment
}

// IntermediateName returns the i-th path variable: A0..Z0, A1..Z1 and so on.
func IntermediateName(i int) string {
	return fmt.Sprintf("%c%d", 'A'+rune(i%26), i/26)
}

// Minimize renders the directive minimising totalCost/1.
func Minimize(d Dialect) string {
	return d.minimize("C", "totalCost(C)")
}
