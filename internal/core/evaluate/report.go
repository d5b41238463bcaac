package evaluate

import (
	"fmt"
	"io"
	"strconv"

	"github.com/agenthands/netrepair/internal/core/answer"
	"github.com/agenthands/netrepair/internal/core/model"
)

// Entry is one evaluated answer of a report.
type Entry struct {
	Candidate  *model.Candidate
	Evaluation model.Evaluation
}

// Analyze evaluates every candidate of a solver output against truth.
func Analyze(out *answer.Output, truth []model.Edge) []Entry {
	entries := make([]Entry, 0, len(out.Candidates))
	for _, c := range out.Candidates {
		entries = append(entries, Entry{Candidate: c, Evaluation: Evaluate(c.Edges, truth)})
	}
	return entries
}

// WriteReport writes the per-answer text report.
func WriteReport(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		ev := e.Evaluation
		m, c, t := ev.Matched, ev.CandidateSize, ev.TruthSize
		_, err := fmt.Fprintf(w,
			"Answer: %d\n%s\n\n"+
				"Precision: %d / %d = %s (Nb. of edges in repaired network that are from original network)\n"+
				"Recall: %d / %d = %s (Nb. of edges in original network, found in repaired network)\n"+
				"F1-score: %d / (%d+%d) = %s (Harmonic mean of precision and recall)\n"+
				"Jaccard Index: %d / (%d+%d-%d) = %s (Intersection of original and repaired network divided by their union)\n\n",
			e.Candidate.Answer, answer.Format(e.Candidate, false),
			m, c, value(ev.Precision),
			m, t, value(ev.Recall),
			2*m, c, t, value(ev.F1),
			m, c, t, m, value(ev.Jaccard),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary writes the run averages.
func WriteSummary(w io.Writer, s Summary) error {
	_, err := fmt.Fprintf(w, "Answers: %d\nAverage precision: %s\nAverage recall: %s\nAverage F1-score: %s\nAverage Jaccard Index: %s\n",
		s.Count, value(s.Precision), value(s.Recall), value(s.F1), value(s.Jaccard))
	return err
}

func value(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
