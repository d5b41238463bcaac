package refine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agenthands/netrepair/internal/core/answer"
	"github.com/agenthands/netrepair/internal/core/encoder"
	"github.com/agenthands/netrepair/internal/core/model"
	"github.com/google/uuid"
)

// ErrNonImproving stops a run whose solver returned an answer that does not
// beat the current best. The previous best is kept.
var ErrNonImproving = errors.New("solver returned a non-improving answer")

type State int

const (
	Idle State = iota
	Invoking
	Inspecting
	Tightening
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Invoking:
		return "invoking"
	case Inspecting:
		return "inspecting"
	case Tightening:
		return "tightening"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Outcome explains why a run terminated.
type Outcome int

const (
	// Interrupted runs stopped on an error or a cancelled context.
	Interrupted Outcome = iota
	// TimedOut runs ended because the solver's time budget ran out first.
	TimedOut
	// Exhausted runs ended because no better answer exists.
	Exhausted
)

func (o Outcome) String() string {
	switch o {
	case TimedOut:
		return "timed out"
	case Exhausted:
		return "exhausted"
	}
	return "interrupted"
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Solver runs one program to completion within its own time budget and
// returns the raw output.
type Solver interface {
	Solve(ctx context.Context, program string) (string, error)
}

type Result struct {
	RunID   string `json:"run_id"`
	Outcome Outcome `json:"outcome"`
	// Best is nil when no answer was accepted, meaning the network is left
	// unrepaired.
	Best       *model.Candidate   `json:"best"`
	BestOutput string             `json:"-"`
	Iterations int                `json:"iterations"`
	History    []model.CostVector `json:"history"`
}

type Controller struct {
	solver  Solver
	store   Store
	dialect encoder.Dialect
	state   State
	// OnTransition, when set, observes every state change.
	OnTransition func(from, to State)
}

func NewController(solver Solver, store Store, dialect encoder.Dialect) *Controller {
	if dialect == "" {
		dialect = encoder.Clingo
	}
	return &Controller{solver: solver, store: store, dialect: dialect}
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) enter(s State) {
	if c.OnTransition != nil {
		c.OnTransition(c.state, s)
	}
	c.state = s
}

// Run drives the solver until it times out, runs out of better answers, or
// ctx is cancelled. The returned result always carries the best answer
// accepted so far, also when an error is returned.
func (c *Controller) Run(ctx context.Context) (*Result, error) {
	result := &Result{RunID: uuid.NewString(), Outcome: Interrupted}
	log := slog.With("run_id", result.RunID)
	c.state = Idle
	defer c.enter(Terminated)

	for block := 0; ; block++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		c.enter(Invoking)
		program, err := c.store.ReadProgram()
		if err != nil {
			return result, err
		}
		raw, err := c.solver.Solve(ctx, program)
		if err != nil {
			return result, err
		}
		result.Iterations++
		if err := c.store.WriteOutput(raw); err != nil {
			return result, err
		}

		c.enter(Inspecting)
		out, err := answer.ParseOutputString(raw)
		if err != nil {
			return result, err
		}
		if out.Status == answer.StatusUnknown {
			log.Info("Solver ran out of time", "iterations", result.Iterations)
			result.Outcome = TimedOut
			return result, nil
		}
		next := out.Last()
		if out.Status == answer.StatusUnsatisfiable || next == nil {
			log.Info("No better repair exists", "iterations", result.Iterations)
			result.Outcome = Exhausted
			return result, nil
		}
		if result.Best != nil {
			if delta := model.SignedDelta(result.Best.Costs, next.Costs); delta >= 0 {
				log.Warn("Rejecting non-improving answer", "best", result.Best.Costs, "answer", next.Costs, "delta", delta)
				return result, ErrNonImproving
			}
		}
		result.Best = next
		result.BestOutput = raw
		result.History = append(result.History, next.Costs)
		if err := c.store.WriteBest(raw); err != nil {
			return result, err
		}
		log.Info("Accepted repair", "iteration", result.Iterations, "costs", next.Costs, "edges", len(next.Edges))

		if err := ctx.Err(); err != nil {
			return result, err
		}

		c.enter(Tightening)
		if err := c.store.WriteProgram(Tighten(program, next.Costs, block, c.dialect)); err != nil {
			return result, err
		}
	}
}
