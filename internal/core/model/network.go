package model

import "fmt"

// State is the observed activity of a gene at one time step.
type State int

const (
	Active State = iota
	Inactive
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Inactive:
		return "inactive"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "active":
		*s = Active
	case "inactive":
		*s = Inactive
	default:
		return fmt.Errorf("unknown state %q", string(text))
	}
	return nil
}

// Observation is one row of the time-series table.
type Observation struct {
	State State `json:"state" yaml:"state"`
	Gene  int   `json:"gene" yaml:"gene"`
	Time  int   `json:"time" yaml:"time"`
}

// Variant selects which edge set a catalogue load populates.
type Variant int

const (
	Clean Variant = iota
	Corrupted
)

func (v Variant) String() string {
	if v == Corrupted {
		return "corrupted"
	}
	return "clean"
}

// Network is a signed regulatory graph plus its observations. Networks are
// built once by the catalogue and treated as read-only afterwards.
type Network struct {
	Name      string `json:"name"`
	Genes     int    `json:"genes"`
	TimeSteps int    `json:"time_steps"`
	// Diameter is precomputed; zero when unknown.
	Diameter     int           `json:"diameter,omitempty"`
	Baseline     []Edge        `json:"baseline"`
	Corruption   []Edge        `json:"corruption,omitempty"`
	Observations []Observation `json:"observations"`
}

// IsCorrupted reports whether the network carries corruption edges.
func (n *Network) IsCorrupted() bool {
	return len(n.Corruption) > 0
}

// Edges returns baseline followed by corruption edges.
func (n *Network) Edges() []Edge {
	out := make([]Edge, 0, len(n.Baseline)+len(n.Corruption))
	out = append(out, n.Baseline...)
	return append(out, n.Corruption...)
}

// TotalEdges counts baseline and corruption edges as loaded.
func (n *Network) TotalEdges() int {
	return len(n.Baseline) + len(n.Corruption)
}

// ObservationsAt returns the rows recorded for time step t in table order.
func (n *Network) ObservationsAt(t int) []Observation {
	var out []Observation
	for _, o := range n.Observations {
		if o.Time == t {
			out = append(out, o)
		}
	}
	return out
}
