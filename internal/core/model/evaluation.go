package model

// Evaluation compares a candidate edge set against ground truth. Metrics that
// are undefined for empty sets are NaN.
type Evaluation struct {
	Matched       int     `json:"matched"`
	CandidateSize int     `json:"candidate_size"`
	TruthSize     int     `json:"truth_size"`
	Precision     float64 `json:"precision"`
	Recall        float64 `json:"recall"`
	F1            float64 `json:"f1"`
	Jaccard       float64 `json:"jaccard"`
}

// Score is the z-normalised ranking of one candidate in a pool.
type Score struct {
	Index   int               `json:"index"`
	ZScores [NumRules]float64 `json:"z_scores"`
	Total   float64           `json:"total"`
}

// Properties are structural measurements of a network.
type Properties struct {
	Genes         int     `json:"genes"`
	Edges         int     `json:"edges"`
	AverageDegree float64 `json:"average_degree"`
	EdgeNodeRatio float64 `json:"edge_node_ratio"`
	Diameter      int     `json:"diameter"`
}
