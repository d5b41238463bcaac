package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/agenthands/netrepair/internal/config"
	"github.com/agenthands/netrepair/internal/core"
	"github.com/agenthands/netrepair/internal/driver"
	"github.com/agenthands/netrepair/internal/logging"
	"github.com/agenthands/netrepair/internal/telemetry"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

// app is built once per invocation by the root command.
type app struct {
	cfg      *config.Config
	driver   *driver.ClingoDriver
	repairer *core.Repairer
	shutdown func(context.Context) error
}

var current *app

var rootCmd = &cobra.Command{
	Use:   "netrepair",
	Short: "Repair gene regulatory networks against time-series observations",
	Long: `netrepair compiles a Boolean gene regulatory network and its observed
time series into an answer-set program, drives gringo/clasp or clingo to
find minimal edge repairs, and scores and ranks the repairs it finds.

Examples:
  netrepair networks
  netrepair encode budding > budding.lp
  netrepair solve elegans --report
  netrepair refine --all`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		if configPath != "" {
			if err := os.Setenv("NETREPAIR_CONFIG", configPath); err != nil {
				return err
			}
		}
		cfg, err := config.Resolve()
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if _, err := logging.Setup(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format); err != nil {
			return err
		}
		shutdown, err := telemetry.Init(cmd.Context(), cfg.TelemetryConfig())
		if err != nil {
			return err
		}
		d, err := driver.NewClingoDriver(cfg.DriverConfig())
		if err != nil {
			return err
		}
		current = &app{
			cfg:      cfg,
			driver:   d,
			repairer: core.NewRepairer(d, cfg.RepairerOptions()),
			shutdown: shutdown,
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if current == nil || current.shutdown == nil {
			return nil
		}
		return current.shutdown(context.Background())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to the TOML configuration (default config/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override the configured log level")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
