package answer

import (
	"bufio"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/agenthands/netrepair/internal/core/model"
	apperrors "github.com/agenthands/netrepair/internal/errors"
)

// Status is the final verdict printed by the solver.
type Status string

const (
	StatusNone          Status = ""
	StatusSatisfiable   Status = "SATISFIABLE"
	StatusUnsatisfiable Status = "UNSATISFIABLE"
	StatusOptimum       Status = "OPTIMUM FOUND"
	// StatusUnknown means the time budget ran out before the search finished.
	StatusUnknown Status = "UNKNOWN"
)

// Skipped records an answer that could not be parsed.
type Skipped struct {
	Answer int
	Line   int
	Err    error
}

type Output struct {
	Candidates []*model.Candidate
	Status     Status
	Skipped    []Skipped
}

// Last returns the final candidate, which for an optimising run is the best
// one found.
func (o *Output) Last() *model.Candidate {
	if len(o.Candidates) == 0 {
		return nil
	}
	return o.Candidates[len(o.Candidates)-1]
}

const maxLine = 16 << 20

// ParseOutput scans raw solver output. Each "Answer:" line is followed by one
// candidate line; lines without a preceding header are not candidates.
// Malformed candidates are logged and recorded in Skipped.
func ParseOutput(r io.Reader) (*Output, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	out := &Output{}
	lineNo := 0
	pending := false
	answer := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if pending {
			pending = false
			c, err := ParseAnswer(line)
			if err != nil {
				slog.Warn("Skipping malformed answer", "answer", answer, "line", lineNo, "error", err)
				out.Skipped = append(out.Skipped, Skipped{Answer: answer, Line: lineNo, Err: err})
				continue
			}
			c.Answer = answer
			out.Candidates = append(out.Candidates, c)
			continue
		}

		if i := strings.Index(line, "Answer:"); i >= 0 {
			pending = true
			answer = 0
			if fields := strings.Fields(line[i+len("Answer:"):]); len(fields) > 0 {
				answer, _ = strconv.Atoi(fields[0])
			}
			continue
		}

		switch s := Status(strings.TrimSpace(line)); s {
		case StatusSatisfiable, StatusUnsatisfiable, StatusOptimum, StatusUnknown:
			out.Status = s
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.IO("read", "solver output", err)
	}
	return out, nil
}

// ParseOutputString is ParseOutput over an in-memory string.
func ParseOutputString(raw string) (*Output, error) {
	return ParseOutput(strings.NewReader(raw))
}
