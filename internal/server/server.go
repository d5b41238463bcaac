package server

import (
	"errors"
	"log/slog"
	"math"
	"net/http"

	"github.com/agenthands/netrepair/internal/core"
	"github.com/agenthands/netrepair/internal/core/answer"
	"github.com/agenthands/netrepair/internal/core/encoder"
	"github.com/agenthands/netrepair/internal/core/evaluate"
	"github.com/agenthands/netrepair/internal/core/model"
	"github.com/agenthands/netrepair/internal/core/network"
	"github.com/agenthands/netrepair/internal/core/ranking"
	apperrors "github.com/agenthands/netrepair/internal/errors"
	"github.com/agenthands/netrepair/internal/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type Server struct {
	Repairer *core.Repairer
}

func NewServer(r *core.Repairer) *Server {
	return &Server{Repairer: r}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("netrepair"))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if h := telemetry.MetricsHandler(); h != nil {
		r.GET("/metrics", gin.WrapH(h))
	}

	r.GET("/networks", s.ListNetworks)
	r.GET("/networks/:name", s.GetNetwork)
	r.POST("/encode", s.Encode)
	r.POST("/evaluate", s.Evaluate)
	r.POST("/rank", s.Rank)
	r.POST("/objective", s.Objective)

	return r
}

// status maps error codes onto HTTP statuses.
func status(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeDataIntegrity, apperrors.CodeEncoding, apperrors.CodeParse, apperrors.CodeConfigInvalid:
		return http.StatusBadRequest
	case apperrors.CodeInsufficientSignal:
		return http.StatusUnprocessableEntity
	}
	var pe *apperrors.ParseError
	if errors.As(err, &pe) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	code := status(err)
	if code >= http.StatusInternalServerError {
		slog.Error("Request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(code, gin.H{"error": err.Error(), "code": apperrors.GetCode(err)})
}

func (s *Server) load(name, variant string) (*model.Network, error) {
	v := s.Repairer.Options.Variant
	switch variant {
	case "":
	case "clean":
		v = model.Clean
	case "corrupted":
		v = model.Corrupted
	default:
		return nil, apperrors.ConfigInvalid("variant must be clean or corrupted, got %q", variant)
	}
	return s.Repairer.Load(name, v)
}

type NetworkSummary struct {
	Name       string           `json:"name"`
	Properties model.Properties `json:"properties"`
}

func (s *Server) ListNetworks(c *gin.Context) {
	var out []NetworkSummary
	for _, name := range network.Names() {
		net, err := network.Load(name, model.Clean)
		if err != nil {
			fail(c, err)
			return
		}
		out = append(out, NetworkSummary{Name: name, Properties: network.Properties(net)})
	}
	c.JSON(http.StatusOK, gin.H{"networks": out})
}

func (s *Server) GetNetwork(c *gin.Context) {
	net, err := s.load(c.Param("name"), c.Query("variant"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"network":     net,
		"properties":  network.Properties(net),
		"components":  network.Components(net),
		"unreachable": network.Unreachable(net),
		"modules":     network.Modules(net, 0),
	})
}

type EncodeRequest struct {
	Network string `json:"network" binding:"required"`
	Variant string `json:"variant"`
	// Heuristics overrides the configured setting when present.
	Heuristics    *bool  `json:"heuristics"`
	Rules         []int  `json:"rules"`
	Dialect       string `json:"dialect"`
	ShowCosts     bool   `json:"show_costs"`
	OmitObjective bool   `json:"omit_objective"`
}

func (s *Server) Encode(c *gin.Context) {
	var req EncodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	net, err := s.load(req.Network, req.Variant)
	if err != nil {
		fail(c, err)
		return
	}

	opts := s.Repairer.Options.Encoder
	if req.Heuristics != nil {
		opts.Heuristics = *req.Heuristics
	}
	if len(req.Rules) > 0 {
		opts.Rules = req.Rules
	}
	if req.Dialect != "" {
		d, err := encoder.ParseDialect(req.Dialect)
		if err != nil {
			fail(c, err)
			return
		}
		opts.Dialect = d
	}
	opts.ShowCosts = opts.ShowCosts || req.ShowCosts
	opts.OmitObjective = req.OmitObjective

	program, err := encoder.Encode(net, opts)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"network": net.Name, "program": program})
}

// OutputRequest carries raw solver output for post-processing.
type OutputRequest struct {
	Network string `json:"network"`
	Variant string `json:"variant"`
	Output  string `json:"output" binding:"required"`
}

// Metrics mirrors model.Evaluation with undefined values as null.
type Metrics struct {
	Matched       int      `json:"matched"`
	CandidateSize int      `json:"candidate_size"`
	TruthSize     int      `json:"truth_size"`
	Precision     *float64 `json:"precision"`
	Recall        *float64 `json:"recall"`
	F1            *float64 `json:"f1"`
	Jaccard       *float64 `json:"jaccard"`
}

func defined(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func toMetrics(e model.Evaluation) Metrics {
	return Metrics{
		Matched:       e.Matched,
		CandidateSize: e.CandidateSize,
		TruthSize:     e.TruthSize,
		Precision:     defined(e.Precision),
		Recall:        defined(e.Recall),
		F1:            defined(e.F1),
		Jaccard:       defined(e.Jaccard),
	}
}

type EvaluatedAnswer struct {
	Answer  int          `json:"answer"`
	Edges   []model.Edge `json:"edges"`
	Metrics Metrics      `json:"metrics"`
}

func (s *Server) Evaluate(c *gin.Context) {
	var req OutputRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Network == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	net, err := s.load(req.Network, req.Variant)
	if err != nil {
		fail(c, err)
		return
	}
	entries, err := s.Repairer.Analyze(req.Output, net)
	if err != nil {
		fail(c, err)
		return
	}

	answers := make([]EvaluatedAnswer, 0, len(entries))
	evals := make([]model.Evaluation, 0, len(entries))
	for _, e := range entries {
		answers = append(answers, EvaluatedAnswer{
			Answer:  e.Candidate.Answer,
			Edges:   e.Candidate.Edges,
			Metrics: toMetrics(e.Evaluation),
		})
		evals = append(evals, e.Evaluation)
	}
	sum := evaluate.Summarize(evals)
	c.JSON(http.StatusOK, gin.H{
		"answers": answers,
		"summary": gin.H{
			"count":     sum.Count,
			"precision": defined(sum.Precision),
			"recall":    defined(sum.Recall),
			"f1":        defined(sum.F1),
			"jaccard":   defined(sum.Jaccard),
		},
	})
}

func (s *Server) Rank(c *gin.Context) {
	var req OutputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	ranked, err := s.Repairer.Rank(req.Output)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"best":       ranked.Best,
		"candidate":  ranked.Candidate,
		"scores":     ranked.Scores,
		"statistics": ranked.Statistics,
	})
}

func (s *Server) Objective(c *gin.Context) {
	var req OutputRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Network == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	net, err := s.load(req.Network, req.Variant)
	if err != nil {
		fail(c, err)
		return
	}
	out, err := answer.ParseOutputString(req.Output)
	if err != nil {
		fail(c, err)
		return
	}
	program, obj, err := s.Repairer.WeightedProgram(net, ranking.Costs(out.Candidates))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"network":    net.Name,
		"rules":      obj.Rules,
		"statistics": obj.Statistics,
		"program":    program,
	})
}
