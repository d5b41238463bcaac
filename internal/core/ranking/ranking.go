package ranking

import (
	"math"

	"github.com/agenthands/netrepair/internal/core/encoder"
	"github.com/agenthands/netrepair/internal/core/model"
	apperrors "github.com/agenthands/netrepair/internal/errors"
	"github.com/montanaflynn/stats"
)

type Options struct {
	// Epsilon is the standard deviation under which a slot's z-score is 0.
	Epsilon float64
	// MinMean and MinStdDev filter rules out of the weighted objective.
	MinMean   float64
	MinStdDev float64
	// CostScale and StdDevScale keep the objective in integer arithmetic.
	CostScale   int
	StdDevScale int
	Dialect     encoder.Dialect
	ShowCosts   bool
}

func DefaultOptions() Options {
	return Options{
		Epsilon:     1e-6,
		MinMean:     0.001,
		MinStdDev:   0.1,
		CostScale:   1000,
		StdDevScale: 10,
		Dialect:     encoder.Clingo,
	}
}

// Statistics are the per-slot mean and sample standard deviation of a pool.
type Statistics struct {
	Count   int                     `json:"count"`
	Means   [model.NumRules]float64 `json:"means"`
	StdDevs [model.NumRules]float64 `json:"std_devs"`
}

// Costs extracts the cost vectors of candidates.
func Costs(candidates []*model.Candidate) []model.CostVector {
	pool := make([]model.CostVector, 0, len(candidates))
	for _, c := range candidates {
		pool = append(pool, c.Costs)
	}
	return pool
}

// Describe computes the statistics of pool. A single-element pool has a
// standard deviation of 0.
func Describe(pool []model.CostVector) (*Statistics, error) {
	if len(pool) == 0 {
		return nil, apperrors.InsufficientSignal("empty candidate pool")
	}

	s := &Statistics{Count: len(pool)}
	column := make(stats.Float64Data, len(pool))
	for slot := 0; slot < model.NumRules; slot++ {
		for i, costs := range pool {
			column[i] = float64(costs[slot])
		}
		mean, err := stats.Mean(column)
		if err != nil {
			return nil, apperrors.Wrapf(err, "failed to compute mean of rule %d", slot)
		}
		sd, err := stats.StandardDeviationSample(column)
		if err != nil || math.IsNaN(sd) {
			sd = 0
		}
		s.Means[slot] = mean
		s.StdDevs[slot] = sd
	}
	return s, nil
}

// SelectBest returns the index of the candidate with the lowest sum of
// z-scores. Ties go to the first candidate.
func SelectBest(pool []model.CostVector, opts Options) (int, []model.Score, error) {
	s, err := Describe(pool)
	if err != nil {
		return -1, nil, err
	}

	scores := make([]model.Score, len(pool))
	best := 0
	for i, costs := range pool {
		score := model.Score{Index: i}
		for slot, v := range costs {
			sd := s.StdDevs[slot]
			if sd < opts.Epsilon {
				continue
			}
			z := (float64(v) - s.Means[slot]) / sd
			score.ZScores[slot] = z
			score.Total += z
		}
		scores[i] = score
		if score.Total < scores[best].Total {
			best = i
		}
	}
	return best, scores, nil
}
