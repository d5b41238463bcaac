package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agenthands/netrepair/internal/core"
	"github.com/agenthands/netrepair/internal/core/encoder"
	"github.com/agenthands/netrepair/internal/core/model"
	"github.com/agenthands/netrepair/internal/core/ranking"
	"github.com/agenthands/netrepair/internal/driver"
	apperrors "github.com/agenthands/netrepair/internal/errors"
	"github.com/agenthands/netrepair/internal/telemetry"
	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is used when NETREPAIR_CONFIG is unset.
const DefaultPath = "config/config.toml"

type SolverConfig struct {
	// Grounder is piped into Binary when set (gringo | clasp).
	Grounder string `toml:"grounder"`
	Binary   string `toml:"binary"`
	// TimeLimit and Grace are in seconds.
	TimeLimit int      `toml:"time_limit"`
	Grace     int      `toml:"grace"`
	Args      []string `toml:"args"`
}

type EncoderConfig struct {
	Dialect      string `toml:"dialect"`
	ShowCosts    bool   `toml:"show_costs"`
	RequireClean bool   `toml:"require_clean"`
}

type BandConfig struct {
	Min int `toml:"min"`
	Max int `toml:"max"`
}

type HeuristicsConfig struct {
	Enabled bool `toml:"enabled"`
	// Rules lists the enabled rules 1..6; empty enables all of them.
	Rules         []int      `toml:"rules"`
	MaxPathLength int        `toml:"max_path_length"`
	Motifs        []int      `toml:"motifs"`
	LearnBands    bool       `toml:"learn_bands"`
	Degree        BandConfig `toml:"degree"`
	Edges         BandConfig `toml:"edges"`
	Diameter      BandConfig `toml:"diameter"`
}

type RankingConfig struct {
	Epsilon     float64 `toml:"epsilon"`
	MinMean     float64 `toml:"min_mean"`
	MinStdDev   float64 `toml:"min_std_dev"`
	CostScale   int     `toml:"cost_scale"`
	StdDevScale int     `toml:"std_dev_scale"`
}

type WorkspaceConfig struct {
	Dir string `toml:"dir"`
	// Variant is "clean" or "corrupted".
	Variant string `toml:"variant"`
}

type ConcurrencyConfig struct {
	Networks int `toml:"networks"`
}

type ServerConfig struct {
	Port string `toml:"port"`
	// Mode is the gin mode: debug, release or test.
	Mode string `toml:"mode"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type TelemetryConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	// Traces is "otlp", "stdout" or "none"; Metrics is "prometheus",
	// "stdout" or "none".
	Traces       string `toml:"traces"`
	Metrics      string `toml:"metrics"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
	OTLPInsecure bool   `toml:"otlp_insecure"`
}

type Config struct {
	Solver      SolverConfig      `toml:"solver"`
	Encoder     EncoderConfig     `toml:"encoder"`
	Heuristics  HeuristicsConfig  `toml:"heuristics"`
	Ranking     RankingConfig     `toml:"ranking"`
	Workspace   WorkspaceConfig   `toml:"workspace"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`
	Telemetry   TelemetryConfig   `toml:"telemetry"`
}

func Default() *Config {
	bands := model.DefaultBands()
	rank := ranking.DefaultOptions()
	return &Config{
		Solver: SolverConfig{
			Binary:    "clingo",
			TimeLimit: 10,
			Grace:     5,
		},
		Encoder: EncoderConfig{Dialect: string(encoder.Clingo)},
		Heuristics: HeuristicsConfig{
			Enabled:       true,
			MaxPathLength: 4,
			Motifs:        append([]int(nil), encoder.DefaultMotifs...),
			Degree:        BandConfig{bands.Degree.Min, bands.Degree.Max},
			Edges:         BandConfig{bands.Edges.Min, bands.Edges.Max},
			Diameter:      BandConfig{bands.Diameter.Min, bands.Diameter.Max},
		},
		Ranking: RankingConfig{
			Epsilon:     rank.Epsilon,
			MinMean:     rank.MinMean,
			MinStdDev:   rank.MinStdDev,
			CostScale:   rank.CostScale,
			StdDevScale: rank.StdDevScale,
		},
		Workspace:   WorkspaceConfig{Dir: "workspace", Variant: "corrupted"},
		Concurrency: ConcurrencyConfig{Networks: 2},
		Server:      ServerConfig{Port: "8080", Mode: "release"},
		Log:         LogConfig{Level: "info", Format: "text"},
		Telemetry: TelemetryConfig{
			ServiceName: "netrepair",
			Traces:       "none",
			Metrics:      "prometheus",
			OTLPEndpoint: "localhost:4317",
			OTLPInsecure: true,
		},
	}
}

// Load reads path on top of the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.IO("read config file", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, apperrors.WithCode(apperrors.CodeConfigInvalid, err)
	}
	return cfg, nil
}

// Resolve loads the file named by NETREPAIR_CONFIG, or DefaultPath, applies
// environment overrides and validates the result. A missing default file is
// not an error.
func Resolve() (*Config, error) {
	path := os.Getenv("NETREPAIR_CONFIG")
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	cfg, err := Load(path)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = Default()
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides file values with the environment.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("SOLVER_GROUNDER"); v != "" {
		c.Solver.Grounder = v
		if v == "none" {
			c.Solver.Grounder = ""
		}
	}
	if v := os.Getenv("SOLVER_BINARY"); v != "" {
		c.Solver.Binary = v
	}
	if v := os.Getenv("SOLVER_TIME_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apperrors.ConfigInvalid("SOLVER_TIME_LIMIT must be an integer, got %q", v)
		}
		c.Solver.TimeLimit = n
	}
	if v := os.Getenv("WORKSPACE_DIR"); v != "" {
		c.Workspace.Dir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Solver.Binary == "" {
		return apperrors.ConfigInvalid("solver.binary is required")
	}
	if c.Solver.TimeLimit <= 0 {
		return apperrors.ConfigInvalid("solver.time_limit must be positive, got %d", c.Solver.TimeLimit)
	}
	if c.Solver.Grace < 0 {
		return apperrors.ConfigInvalid("solver.grace must not be negative, got %d", c.Solver.Grace)
	}
	if _, err := encoder.ParseDialect(c.Encoder.Dialect); err != nil {
		return apperrors.ConfigInvalid("encoder.dialect: %v", err)
	}
	for _, r := range c.Heuristics.Rules {
		if r < encoder.RuleFixedState || r > encoder.RuleMotifs {
			return apperrors.ConfigInvalid("heuristics.rules: rule %d out of range 1..6", r)
		}
	}
	bands := []struct {
		name string
		band BandConfig
	}{
		{"degree", c.Heuristics.Degree},
		{"edges", c.Heuristics.Edges},
		{"diameter", c.Heuristics.Diameter},
	}
	for _, b := range bands {
		if b.band.Min < 0 || b.band.Min > b.band.Max {
			return apperrors.ConfigInvalid("heuristics.%s band [%d,%d] is inverted", b.name, b.band.Min, b.band.Max)
		}
	}
	if _, err := c.Variant(); err != nil {
		return err
	}
	if c.Concurrency.Networks < 1 {
		return apperrors.ConfigInvalid("concurrency.networks must be at least 1, got %d", c.Concurrency.Networks)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return apperrors.ConfigInvalid("log.format must be text or json, got %q", c.Log.Format)
	}
	switch c.Telemetry.Traces {
	case "otlp", "stdout", "none":
	default:
		return apperrors.ConfigInvalid("telemetry.traces must be otlp, stdout or none, got %q", c.Telemetry.Traces)
	}
	switch c.Telemetry.Metrics {
	case "prometheus", "stdout", "none":
	default:
		return apperrors.ConfigInvalid("telemetry.metrics must be prometheus, stdout or none, got %q", c.Telemetry.Metrics)
	}
	return nil
}

func (c *Config) Variant() (model.Variant, error) {
	switch strings.ToLower(c.Workspace.Variant) {
	case "clean":
		return model.Clean, nil
	case "corrupted", "":
		return model.Corrupted, nil
	}
	return model.Clean, apperrors.ConfigInvalid("workspace.variant must be clean or corrupted, got %q", c.Workspace.Variant)
}

func (c *Config) EncoderOptions() encoder.Options {
	d, _ := encoder.ParseDialect(c.Encoder.Dialect)
	h := c.Heuristics
	opts := encoder.DefaultOptions()
	opts.Heuristics = h.Enabled
	opts.Dialect = d
	opts.ShowCosts = c.Encoder.ShowCosts
	opts.RequireClean = c.Encoder.RequireClean
	opts.MaxPathLength = h.MaxPathLength
	if len(h.Rules) > 0 {
		opts.Rules = append([]int(nil), h.Rules...)
	}
	if len(h.Motifs) > 0 {
		opts.Motifs = append([]int(nil), h.Motifs...)
	}
	opts.Bands = model.Bands{
		Degree:   model.Band{Min: h.Degree.Min, Max: h.Degree.Max},
		Edges:    model.Band{Min: h.Edges.Min, Max: h.Edges.Max},
		Diameter: model.Band{Min: h.Diameter.Min, Max: h.Diameter.Max},
	}
	return opts
}

// RepairerOptions assembles the orchestrator options. Call Validate first.
func (c *Config) RepairerOptions() core.Options {
	variant, _ := c.Variant()
	return core.Options{
		Encoder:     c.EncoderOptions(),
		Ranking:     c.RankingOptions(),
		Variant:     variant,
		LearnBands:  c.Heuristics.LearnBands,
		Workspace:   c.Workspace.Dir,
		Parallelism: c.Concurrency.Networks,
	}
}

func (c *Config) RankingOptions() ranking.Options {
	d, _ := encoder.ParseDialect(c.Encoder.Dialect)
	return ranking.Options{
		Epsilon:     c.Ranking.Epsilon,
		MinMean:     c.Ranking.MinMean,
		MinStdDev:   c.Ranking.MinStdDev,
		CostScale:   c.Ranking.CostScale,
		StdDevScale: c.Ranking.StdDevScale,
		Dialect:     d,
		ShowCosts:   c.Encoder.ShowCosts,
	}
}

func (c *Config) TelemetryConfig() telemetry.Config {
	cfg := telemetry.DefaultConfig()
	cfg.ServiceName = c.Telemetry.ServiceName
	cfg.TraceExporter = "none"
	cfg.MetricExporter = "none"
	if c.Telemetry.Enabled {
		cfg.TraceExporter = c.Telemetry.Traces
		cfg.MetricExporter = c.Telemetry.Metrics
	}
	cfg.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	cfg.OTLPInsecure = c.Telemetry.OTLPInsecure
	return cfg
}

func (c *Config) DriverConfig() driver.ClingoConfig {
	return driver.ClingoConfig{
		Grounder:  c.Solver.Grounder,
		Binary:    c.Solver.Binary,
		TimeLimit: time.Duration(c.Solver.TimeLimit) * time.Second,
		Grace:     time.Duration(c.Solver.Grace) * time.Second,
		Args:      append([]string(nil), c.Solver.Args...),
	}
}
