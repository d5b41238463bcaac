package driver

import (
	"context"
)

// SolverDriver runs one answer-set program and returns the solver's raw
// output. The time budget of a call belongs to the driver.
type SolverDriver interface {
	Solve(ctx context.Context, program string) (string, error)
	Name() string
}
