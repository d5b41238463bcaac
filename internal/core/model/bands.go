package model

// Band is an inclusive [Min, Max] range used by the structural heuristics.
type Band struct {
	Min int `json:"min" toml:"min"`
	Max int `json:"max" toml:"max"`
}

func (b Band) Contains(v int) bool {
	return v >= b.Min && v <= b.Max
}

// Valid reports whether the band is non-empty and non-negative.
func (b Band) Valid() bool {
	return b.Min >= 0 && b.Min <= b.Max
}

// Bands groups the thresholds of the degree, edge-count and diameter rules.
type Bands struct {
	Degree   Band `json:"degree"`
	Edges    Band `json:"edges"`
	Diameter Band `json:"diameter"`
}

// DefaultBands are the thresholds tuned on the yeast networks.
func DefaultBands() Bands {
	return Bands{
		Degree:   Band{Min: 4, Max: 6},
		Edges:    Band{Min: 21, Max: 25},
		Diameter: Band{Min: 3, Max: 4},
	}
}
