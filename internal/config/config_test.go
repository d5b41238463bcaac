package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agenthands/netrepair/internal/core/encoder"
	"github.com/agenthands/netrepair/internal/core/model"
	apperrors "github.com/agenthands/netrepair/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	opts := cfg.EncoderOptions()
	assert.True(t, opts.Heuristics)
	assert.Equal(t, encoder.Clingo, opts.Dialect)
	assert.Equal(t, model.DefaultBands(), opts.Bands)
	assert.Equal(t, 4, opts.MaxPathLength)
	assert.Nil(t, opts.Rules)

	v, err := cfg.Variant()
	require.NoError(t, err)
	assert.Equal(t, model.Corrupted, v)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
[solver]
grounder = "gringo"
binary = "clasp"

[heuristics]
rules = [2, 6]

[heuristics.degree]
min = 2
max = 3
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "gringo", cfg.Solver.Grounder)
	assert.Equal(t, "clasp", cfg.Solver.Binary)
	assert.Equal(t, 10, cfg.Solver.TimeLimit)
	assert.Equal(t, "workspace", cfg.Workspace.Dir)

	opts := cfg.EncoderOptions()
	assert.Equal(t, []int{2, 6}, opts.Rules)
	assert.Equal(t, model.Band{Min: 2, Max: 3}, opts.Bands.Degree)
	assert.Equal(t, model.Band{Min: 21, Max: 25}, opts.Bands.Edges)
}

func TestLoad_RepositoryConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", DefaultPath))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Encoder.ShowCosts)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, cfg.Heuristics.Rules)
	assert.Equal(t, encoder.DefaultMotifs, cfg.Heuristics.Motifs)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, apperrors.ErrIO)

	_, err = Load(writeConfig(t, "[solver\nbinary = "))
	require.ErrorIs(t, err, apperrors.ErrConfigInvalid)
}

func TestResolve_FallsBackToDefaults(t *testing.T) {
	t.Setenv("NETREPAIR_CONFIG", "")
	t.Setenv("SOLVER_BINARY", "")
	t.Setenv("PORT", "9090")

	cfg, err := Resolve()
	require.NoError(t, err)
	assert.Equal(t, "clingo", cfg.Solver.Binary)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestResolve_ExplicitPathMustExist(t *testing.T) {
	t.Setenv("NETREPAIR_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	_, err := Resolve()
	require.ErrorIs(t, err, apperrors.ErrIO)
}

func TestResolve_ValidatesAfterOverrides(t *testing.T) {
	t.Setenv("NETREPAIR_CONFIG", writeConfig(t, "[solver]\ntime_limit = 30\n"))
	t.Setenv("SOLVER_TIME_LIMIT", "0")
	_, err := Resolve()
	require.ErrorIs(t, err, apperrors.ErrConfigInvalid)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SOLVER_GROUNDER", "none")
	t.Setenv("SOLVER_BINARY", "/opt/clingo")
	t.Setenv("SOLVER_TIME_LIMIT", "42")
	t.Setenv("WORKSPACE_DIR", "/tmp/ws")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PORT", "1234")

	cfg := Default()
	cfg.Solver.Grounder = "gringo"
	require.NoError(t, cfg.ApplyEnv())
	assert.Empty(t, cfg.Solver.Grounder)
	assert.Equal(t, "/opt/clingo", cfg.Solver.Binary)
	assert.Equal(t, 42, cfg.Solver.TimeLimit)
	assert.Equal(t, "/tmp/ws", cfg.Workspace.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "1234", cfg.Server.Port)

	t.Setenv("SOLVER_TIME_LIMIT", "ten")
	require.ErrorIs(t, cfg.ApplyEnv(), apperrors.ErrConfigInvalid)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing binary", func(c *Config) { c.Solver.Binary = "" }},
		{"zero time limit", func(c *Config) { c.Solver.TimeLimit = 0 }},
		{"negative grace", func(c *Config) { c.Solver.Grace = -1 }},
		{"unknown dialect", func(c *Config) { c.Encoder.Dialect = "dlv" }},
		{"rule zero", func(c *Config) { c.Heuristics.Rules = []int{0} }},
		{"rule seven", func(c *Config) { c.Heuristics.Rules = []int{1, 7} }},
		{"inverted degree band", func(c *Config) { c.Heuristics.Degree = BandConfig{Min: 6, Max: 4} }},
		{"inverted diameter band", func(c *Config) { c.Heuristics.Diameter = BandConfig{Min: 5, Max: 1} }},
		{"unknown variant", func(c *Config) { c.Workspace.Variant = "noisy" }},
		{"no workers", func(c *Config) { c.Concurrency.Networks = 0 }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
		{"trace exporter", func(c *Config) { c.Telemetry.Traces = "jaeger" }},
		{"metrics exporter", func(c *Config) { c.Telemetry.Metrics = "statsd" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), apperrors.ErrConfigInvalid)
		})
	}
}

func TestDerivedOptions(t *testing.T) {
	cfg := Default()
	cfg.Encoder.Dialect = "gringo3"
	cfg.Encoder.ShowCosts = true
	cfg.Solver.Grounder = "gringo"
	cfg.Solver.Binary = "clasp"
	cfg.Solver.Args = []string{"--stats"}

	rank := cfg.RankingOptions()
	assert.Equal(t, encoder.Gringo3, rank.Dialect)
	assert.True(t, rank.ShowCosts)
	assert.Equal(t, 1000, rank.CostScale)

	tel := cfg.TelemetryConfig()
	assert.Equal(t, "none", tel.TraceExporter)
	assert.Equal(t, "none", tel.MetricExporter)
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.Traces = "otlp"
	tel = cfg.TelemetryConfig()
	assert.Equal(t, "otlp", tel.TraceExporter)
	assert.Equal(t, "prometheus", tel.MetricExporter)
	assert.Equal(t, "localhost:4317", tel.OTLPEndpoint)

	ropts := cfg.RepairerOptions()
	assert.Equal(t, "workspace", ropts.Workspace)
	assert.Equal(t, 2, ropts.Parallelism)
	assert.Equal(t, model.Corrupted, ropts.Variant)
	assert.Equal(t, encoder.Gringo3, ropts.Encoder.Dialect)

	d := cfg.DriverConfig()
	assert.Equal(t, "gringo", d.Grounder)
	assert.Equal(t, 10*time.Second, d.TimeLimit)
	assert.Equal(t, 5*time.Second, d.Grace)
	assert.Equal(t, []string{"--stats"}, d.Args)
}
