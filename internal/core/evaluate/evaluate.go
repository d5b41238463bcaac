package evaluate

import (
	"math"

	"github.com/agenthands/netrepair/internal/core/model"
	"github.com/montanaflynn/stats"
)

// Evaluate compares candidate against truth with exact (kind, from, to)
// equality over de-duplicated sets. Metrics undefined for empty sets are NaN.
func Evaluate(candidate, truth []model.Edge) model.Evaluation {
	c := model.NewEdgeSet(candidate...)
	t := model.NewEdgeSet(truth...)

	matched := 0
	for e := range c {
		if t.Contains(e) {
			matched++
		}
	}

	ev := model.Evaluation{
		Matched:       matched,
		CandidateSize: len(c),
		TruthSize:     len(t),
	}
	m := float64(matched)
	ev.Precision = ratio(m, float64(len(c)))
	ev.Recall = ratio(m, float64(len(t)))
	// 2m/(|C|+|T|) equals 2PR/(P+R) and stays defined for disjoint sets
	ev.F1 = ratio(2*m, float64(len(c)+len(t)))
	ev.Jaccard = ratio(m, float64(len(c)+len(t)-matched))
	// F1 needs both precision and recall; Jaccard only needs a non-empty union
	if len(c) == 0 || len(t) == 0 {
		ev.F1 = math.NaN()
	}
	return ev
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return math.NaN()
	}
	return num / den
}

// Summary holds the mean of each metric over a run.
type Summary struct {
	Count     int     `json:"count"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Jaccard   float64 `json:"jaccard"`
}

// Summarize averages each metric across evaluations, ignoring NaN values.
// A metric with no defined value averages to NaN.
func Summarize(evaluations []model.Evaluation) Summary {
	var p, r, f, j []float64
	for _, ev := range evaluations {
		p = appendDefined(p, ev.Precision)
		r = appendDefined(r, ev.Recall)
		f = appendDefined(f, ev.F1)
		j = appendDefined(j, ev.Jaccard)
	}
	return Summary{
		Count:     len(evaluations),
		Precision: mean(p),
		Recall:    mean(r),
		F1:        mean(f),
		Jaccard:   mean(j),
	}
}

func appendDefined(values []float64, v float64) []float64 {
	if math.IsNaN(v) {
		return values
	}
	return append(values, v)
}

func mean(values []float64) float64 {
	m, err := stats.Mean(values)
	if err != nil {
		return math.NaN()
	}
	return m
}
