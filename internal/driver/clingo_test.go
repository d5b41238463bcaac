package driver

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	apperrors "github.com/agenthands/netrepair/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// script writes an executable shell script standing in for a solver binary.
func script(t *testing.T, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts stand in for the solver")
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestNewClingoDriver_Validation(t *testing.T) {
	_, err := NewClingoDriver(ClingoConfig{TimeLimit: time.Second})
	require.ErrorIs(t, err, apperrors.ErrConfigInvalid)

	_, err = NewClingoDriver(ClingoConfig{Binary: "clingo", TimeLimit: 500 * time.Millisecond})
	require.ErrorIs(t, err, apperrors.ErrConfigInvalid)

	d, err := NewClingoDriver(ClingoConfig{Binary: "clingo", TimeLimit: 10 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, "clingo", d.Name())
	assert.Equal(t, []string{"--time-limit=10"}, d.solverArgs())

	d, err = NewClingoDriver(ClingoConfig{Grounder: "gringo", Binary: "clasp", TimeLimit: 3 * time.Second, Args: []string{"--stats"}})
	require.NoError(t, err)
	assert.Equal(t, "gringo|clasp", d.Name())
	assert.Equal(t, []string{"--time-limit=3", "--stats"}, d.solverArgs())
}

func TestClingoDriver_SingleBinaryNonZeroExit(t *testing.T) {
	// clingo exits with 30 after an optimum; that is not a failure.
	bin := script(t, "clingo", `cat > /dev/null
echo "Answer: 1"
echo "activates(1,2)"
echo "OPTIMUM FOUND"
exit 30`)
	d, err := NewClingoDriver(ClingoConfig{Binary: bin, TimeLimit: 5 * time.Second})
	require.NoError(t, err)

	out, err := d.Solve(context.Background(), "gene(1).\n")
	require.NoError(t, err)
	assert.Equal(t, "Answer: 1\nactivates(1,2)\nOPTIMUM FOUND\n", out)
}

func TestClingoDriver_PipesGrounderIntoSolver(t *testing.T) {
	grounder := script(t, "gringo", `sed 's/^/ground:/'`)
	solver := script(t, "clasp", `echo "args:$*"
cat`)
	d, err := NewClingoDriver(ClingoConfig{Grounder: grounder, Binary: solver, TimeLimit: 7 * time.Second})
	require.NoError(t, err)

	out, err := d.Solve(context.Background(), "gene(1).\ngene(2).\n")
	require.NoError(t, err)
	assert.Equal(t, "args:--time-limit=7\nground:gene(1).\nground:gene(2).\n", out)
}

func TestClingoDriver_GrounderFailure(t *testing.T) {
	grounder := script(t, "gringo", `cat > /dev/null
echo "syntax error" >&2
exit 1`)
	solver := script(t, "clasp", `cat > /dev/null
echo "UNKNOWN"`)
	d, err := NewClingoDriver(ClingoConfig{Grounder: grounder, Binary: solver, TimeLimit: time.Second})
	require.NoError(t, err)

	_, err = d.Solve(context.Background(), "broken(")
	require.ErrorIs(t, err, apperrors.ErrSolver)
	assert.Contains(t, err.Error(), "syntax error")
}

func TestClingoDriver_SilentFailure(t *testing.T) {
	bin := script(t, "clingo", `cat > /dev/null
echo "out of memory" >&2
exit 2`)
	d, err := NewClingoDriver(ClingoConfig{Binary: bin, TimeLimit: time.Second})
	require.NoError(t, err)

	_, err = d.Solve(context.Background(), "gene(1).\n")
	require.ErrorIs(t, err, apperrors.ErrSolver)
	assert.Contains(t, err.Error(), "out of memory")
}

func TestClingoDriver_KillsHungSolver(t *testing.T) {
	bin := script(t, "clingo", `exec sleep 30`)
	d, err := NewClingoDriver(ClingoConfig{Binary: bin, TimeLimit: time.Second, Grace: 100 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	_, err = d.Solve(context.Background(), "gene(1).\n")
	require.ErrorIs(t, err, apperrors.ErrSolver)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestClingoDriver_Cancelled(t *testing.T) {
	bin := script(t, "clingo", `exec sleep 30`)
	d, err := NewClingoDriver(ClingoConfig{Binary: bin, TimeLimit: 20 * time.Second})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = d.Solve(ctx, "gene(1).\n")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClingoDriver_Available(t *testing.T) {
	d, err := NewClingoDriver(ClingoConfig{Binary: "netrepair-no-such-solver", TimeLimit: time.Second})
	require.NoError(t, err)
	require.ErrorIs(t, d.Available(), apperrors.ErrSolver)
}

func TestLastStatus(t *testing.T) {
	assert.Equal(t, "none", lastStatus("Answer: 1\nx\n"))
	assert.Equal(t, "UNKNOWN", lastStatus("SATISFIABLE\nUNKNOWN\n"))
	assert.Equal(t, 2, countAnswers("Answer: 1\na\nAnswer: 2\nb\n"))
}
