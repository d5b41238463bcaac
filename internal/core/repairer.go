package core

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/agenthands/netrepair/internal/core/answer"
	"github.com/agenthands/netrepair/internal/core/encoder"
	"github.com/agenthands/netrepair/internal/core/evaluate"
	"github.com/agenthands/netrepair/internal/core/model"
	"github.com/agenthands/netrepair/internal/core/network"
	"github.com/agenthands/netrepair/internal/core/ranking"
	"github.com/agenthands/netrepair/internal/core/refine"
	"github.com/agenthands/netrepair/internal/driver"
	apperrors "github.com/agenthands/netrepair/internal/errors"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	Encoder encoder.Options
	Ranking ranking.Options
	Variant model.Variant
	// LearnBands replaces the configured heuristic bands with bands learnt
	// from the other catalogue networks.
	LearnBands bool
	// Workspace holds one directory of refinement files per network.
	Workspace string
	// Parallelism bounds how many networks RefineAll repairs at once.
	Parallelism int
}

func DefaultOptions() Options {
	return Options{
		Encoder:     encoder.DefaultOptions(),
		Ranking:     ranking.DefaultOptions(),
		Variant:     model.Corrupted,
		Workspace:   "workspace",
		Parallelism: 2,
	}
}

// Repairer wires the catalogue, the encoder, a solver driver and the
// post-processing of solver output together.
type Repairer struct {
	Driver  driver.SolverDriver
	Options Options
	// Load resolves network names, network.Load unless overridden.
	Load func(name string, variant model.Variant) (*model.Network, error)
}

func NewRepairer(d driver.SolverDriver, opts Options) *Repairer {
	if opts.Ranking.Dialect == "" {
		opts.Ranking.Dialect = opts.Encoder.Dialect
	}
	return &Repairer{
		Driver:  d,
		Options: opts,
		Load:    network.Load,
	}
}

func (r *Repairer) Network(name string) (*model.Network, error) {
	return r.Load(name, r.Options.Variant)
}

func (r *Repairer) Encode(net *model.Network) (string, error) {
	opts, err := r.encoderOptions(net)
	if err != nil {
		return "", err
	}
	return encoder.Encode(net, opts)
}

func (r *Repairer) encoderOptions(net *model.Network) (encoder.Options, error) {
	opts := r.Options.Encoder
	if !r.Options.LearnBands || net == nil {
		return opts, nil
	}
	var refs []*model.Network
	for _, name := range network.Names() {
		if name == net.Name {
			continue
		}
		ref, err := network.Load(name, model.Clean)
		if err != nil {
			return opts, err
		}
		refs = append(refs, ref)
	}
	bands, err := network.LearnBands(net, refs)
	if err != nil {
		return opts, err
	}
	slog.Debug("Learnt heuristic bands", "network", net.Name, "degree", bands.Degree, "edges", bands.Edges, "diameter", bands.Diameter)
	opts.Bands = bands
	return opts, nil
}

// SolveOnce encodes net and runs the solver a single time.
func (r *Repairer) SolveOnce(ctx context.Context, net *model.Network) (*answer.Output, string, error) {
	program, err := r.Encode(net)
	if err != nil {
		return nil, "", err
	}
	if r.Driver == nil {
		return nil, "", apperrors.Solver("no solver configured", nil)
	}
	raw, err := r.Driver.Solve(ctx, program)
	if err != nil {
		return nil, "", err
	}
	out, err := answer.ParseOutputString(raw)
	if err != nil {
		return nil, raw, err
	}
	slog.Info("Solved network", "network", net.Name, "solver", r.Driver.Name(), "answers", len(out.Candidates), "status", string(out.Status))
	return out, raw, nil
}

// Truth returns the edges a repair of net is scored against: the clean
// catalogue baseline, or the network's own baseline when it is not part of
// the catalogue.
func (r *Repairer) Truth(net *model.Network) ([]model.Edge, error) {
	truth, err := network.Truth(net.Name)
	if errors.Is(err, apperrors.ErrNotFound) {
		return net.Baseline, nil
	}
	return truth, err
}

// Analyze scores every answer in raw against the ground truth of net.
func (r *Repairer) Analyze(raw string, net *model.Network) ([]evaluate.Entry, error) {
	out, err := answer.ParseOutputString(raw)
	if err != nil {
		return nil, err
	}
	truth, err := r.Truth(net)
	if err != nil {
		return nil, err
	}
	return evaluate.Analyze(out, truth), nil
}

type Ranked struct {
	Best       int
	Candidate  *model.Candidate
	Scores     []model.Score
	Statistics *ranking.Statistics
	Pool       []model.CostVector
}

// Rank picks the candidate of raw whose cost profile is most favourable
// relative to the other candidates.
func (r *Repairer) Rank(raw string) (*Ranked, error) {
	out, err := answer.ParseOutputString(raw)
	if err != nil {
		return nil, err
	}
	pool := ranking.Costs(out.Candidates)
	best, scores, err := ranking.SelectBest(pool, r.Options.Ranking)
	if err != nil {
		return nil, err
	}
	stats, err := ranking.Describe(pool)
	if err != nil {
		return nil, err
	}
	return &Ranked{
		Best:       best,
		Candidate:  out.Candidates[best],
		Scores:     scores,
		Statistics: stats,
		Pool:       pool,
	}, nil
}

// WeightedProgram encodes net with the plain objective replaced by the
// z-normalised objective learnt from pool.
func (r *Repairer) WeightedProgram(net *model.Network, pool []model.CostVector) (string, *ranking.Objective, error) {
	obj, err := ranking.SynthesizeWeightedObjective(pool, r.Options.Ranking)
	if err != nil {
		return "", nil, err
	}
	program, err := r.Encode(net)
	if err != nil {
		return "", nil, err
	}
	return encoder.WithObjective(program, obj.Program), obj, nil
}

func (r *Repairer) store(name string) (*refine.FileStore, error) {
	return refine.NewFileStore(filepath.Join(r.Options.Workspace, name), name)
}

// Refine iteratively repairs net until the solver times out or no better
// answer exists. The network's workspace directory is locked for the run.
func (r *Repairer) Refine(ctx context.Context, net *model.Network) (*refine.Result, error) {
	opts, err := r.encoderOptions(net)
	if err != nil {
		return nil, err
	}
	opts.ShowCosts = true
	program, err := encoder.Encode(net, opts)
	if err != nil {
		return nil, err
	}
	if r.Driver == nil {
		return nil, apperrors.Solver("no solver configured", nil)
	}

	store, err := r.store(net.Name)
	if err != nil {
		return nil, err
	}
	if err := store.Lock(); err != nil {
		return nil, err
	}
	defer func() {
		if err := store.Unlock(); err != nil {
			slog.Warn("Failed to release workspace lock", "network", net.Name, "error", err)
		}
	}()
	if err := store.Init(program); err != nil {
		return nil, err
	}

	res, err := refine.NewController(r.Driver, store, opts.Dialect).Run(ctx)
	if res != nil {
		slog.Info("Refinement finished", "network", net.Name, "run_id", res.RunID, "outcome", res.Outcome.String(), "iterations", res.Iterations)
	}
	return res, err
}

// NetworkResult is the outcome of refining one network in RefineAll.
type NetworkResult struct {
	Name   string         `json:"name"`
	Result *refine.Result `json:"result,omitempty"`
	Err    error          `json:"-"`
}

// RefineAll refines the named networks concurrently. A network that fails is
// logged and reported in its result; the others carry on. Only cancellation
// of ctx is returned as an error.
func (r *Repairer) RefineAll(ctx context.Context, names []string) ([]NetworkResult, error) {
	results := make([]NetworkResult, len(names))

	var g errgroup.Group
	limit := r.Options.Parallelism
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, name := range names {
		g.Go(func() error {
			nr := NetworkResult{Name: name}
			net, err := r.Network(name)
			if err == nil {
				nr.Result, err = r.Refine(ctx, net)
			}
			if err != nil {
				nr.Err = err
				slog.Warn("Skipping network", "network", name, "error", err)
			}
			results[i] = nr
			return nil
		})
	}
	_ = g.Wait()
	return results, ctx.Err()
}
