package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	apperrors "github.com/agenthands/netrepair/internal/errors"
)

// DefaultGrace is added to the time limit before a hung solver is killed.
const DefaultGrace = 5 * time.Second

type ClingoConfig struct {
	// Grounder, when set, is piped into Binary (gringo | clasp). When empty
	// Binary grounds and solves on its own (clingo).
	Grounder  string
	Binary    string
	TimeLimit time.Duration
	Grace     time.Duration
	Args      []string
	Dir       string
}

// ClingoDriver drives gringo/clasp or clingo as child processes.
type ClingoDriver struct {
	cfg ClingoConfig
}

func NewClingoDriver(cfg ClingoConfig) (*ClingoDriver, error) {
	if cfg.Binary == "" {
		return nil, apperrors.ConfigInvalid("solver binary is required")
	}
	if cfg.TimeLimit < time.Second {
		return nil, apperrors.ConfigInvalid("solver time limit must be at least 1s, got %s", cfg.TimeLimit)
	}
	if cfg.Grace <= 0 {
		cfg.Grace = DefaultGrace
	}
	return &ClingoDriver{cfg: cfg}, nil
}

func (d *ClingoDriver) Name() string {
	if d.cfg.Grounder != "" {
		return d.cfg.Grounder + "|" + d.cfg.Binary
	}
	return d.cfg.Binary
}

// Available reports whether the configured binaries are on PATH.
func (d *ClingoDriver) Available() error {
	for _, bin := range []string{d.cfg.Grounder, d.cfg.Binary} {
		if bin == "" {
			continue
		}
		if _, err := exec.LookPath(bin); err != nil {
			return apperrors.Solver(fmt.Sprintf("%s not found", bin), err)
		}
	}
	return nil
}

func (d *ClingoDriver) solverArgs() []string {
	args := []string{fmt.Sprintf("--time-limit=%d", int(d.cfg.TimeLimit/time.Second))}
	return append(args, d.cfg.Args...)
}

// Solve feeds program to the solver on stdin. Non-zero exit codes are
// expected since clasp reports its verdict through them; a call only fails
// when the grounder fails or the solver printed nothing.
func (d *ClingoDriver) Solve(ctx context.Context, program string) (string, error) {
	ctx, span := startSolveSpan(ctx, d.Name(), len(program))
	defer span.End()
	start := time.Now()

	out, err := d.run(ctx, program)
	setSolveSpanResult(span, out, err)
	recordSolveMetrics(ctx, d.Name(), time.Since(start), out, err)
	return out, err
}

func (d *ClingoDriver) run(ctx context.Context, program string) (string, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, d.cfg.TimeLimit+d.cfg.Grace)
	defer cancel()

	var stdout, stderr, groundErr bytes.Buffer
	solver := exec.CommandContext(cmdCtx, d.cfg.Binary, d.solverArgs()...)
	solver.Dir = d.cfg.Dir
	solver.Stdout = &stdout
	solver.Stderr = &stderr
	solver.WaitDelay = d.cfg.Grace

	var solveErr, groundFail error
	if d.cfg.Grounder == "" {
		solver.Stdin = strings.NewReader(program)
		solveErr = solver.Run()
	} else {
		grounder := exec.CommandContext(cmdCtx, d.cfg.Grounder)
		grounder.Dir = d.cfg.Dir
		grounder.Stdin = strings.NewReader(program)
		grounder.Stderr = &groundErr
		grounder.WaitDelay = d.cfg.Grace

		r, w, err := os.Pipe()
		if err != nil {
			return "", apperrors.Solver("failed to create pipe", err)
		}
		grounder.Stdout = w
		solver.Stdin = r

		if err := grounder.Start(); err != nil {
			r.Close()
			w.Close()
			return "", apperrors.Solver(fmt.Sprintf("failed to start %s", d.cfg.Grounder), err)
		}
		if err := solver.Start(); err != nil {
			r.Close()
			w.Close()
			_ = grounder.Wait()
			return "", apperrors.Solver(fmt.Sprintf("failed to start %s", d.cfg.Binary), err)
		}
		// The children hold their own copies of the pipe.
		r.Close()
		w.Close()

		groundFail = grounder.Wait()
		solveErr = solver.Wait()
	}

	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if errors.Is(cmdCtx.Err(), context.DeadlineExceeded) {
		return "", apperrors.Solver(fmt.Sprintf("%s did not stop within %s", d.Name(), d.cfg.TimeLimit+d.cfg.Grace), cmdCtx.Err())
	}
	if groundFail != nil {
		return "", apperrors.Solver(fmt.Sprintf("%s failed: %s", d.cfg.Grounder, strings.TrimSpace(groundErr.String())), groundFail)
	}
	if solveErr != nil && stdout.Len() == 0 {
		return "", apperrors.Solver(fmt.Sprintf("%s failed: %s", d.cfg.Binary, strings.TrimSpace(stderr.String())), solveErr)
	}
	if stderr.Len() > 0 {
		slog.Debug("Solver stderr", "solver", d.Name(), "stderr", strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
