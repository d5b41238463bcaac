package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/agenthands/netrepair/internal/core"
	"github.com/agenthands/netrepair/internal/core/answer"
	"github.com/agenthands/netrepair/internal/core/evaluate"
	"github.com/agenthands/netrepair/internal/core/model"
	"github.com/agenthands/netrepair/internal/core/network"
	"github.com/agenthands/netrepair/internal/core/ranking"
	"github.com/agenthands/netrepair/internal/server"
	"github.com/spf13/cobra"
)

var (
	rawFile     string
	solveReport bool
	refineAll   bool
)

// readRaw reads solver output from --raw, "-" meaning stdin.
func readRaw(cmd *cobra.Command) (string, error) {
	if rawFile == "" {
		return "", fmt.Errorf("--raw is required")
	}
	if rawFile == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(rawFile)
	return string(data), err
}

func writeAnalysis(w io.Writer, entries []evaluate.Entry) error {
	if err := evaluate.WriteReport(w, entries); err != nil {
		return err
	}
	evals := make([]model.Evaluation, len(entries))
	for i, e := range entries {
		evals[i] = e.Evaluation
	}
	return evaluate.WriteSummary(w, evaluate.Summarize(evals))
}

var solveCmd = &cobra.Command{
	Use:   "solve [network]",
	Short: "Run the solver once and print its raw output",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		net, err := loadNetwork(args, variant)
		if err != nil {
			return err
		}
		r := current.repairer
		out, raw, err := r.SolveOnce(cmd.Context(), net)
		if err != nil {
			return err
		}
		if err := writeOut(cmd, raw); err != nil {
			return err
		}
		if !solveReport {
			return nil
		}
		truth, err := r.Truth(net)
		if err != nil {
			return err
		}
		return writeAnalysis(cmd.OutOrStdout(), evaluate.Analyze(out, truth))
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [network]",
	Short: "Score every answer of a solver output against the ground truth",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		net, err := loadNetwork(args, variant)
		if err != nil {
			return err
		}
		raw, err := readRaw(cmd)
		if err != nil {
			return err
		}
		entries, err := current.repairer.Analyze(raw, net)
		if err != nil {
			return err
		}
		return writeAnalysis(cmd.OutOrStdout(), entries)
	},
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Pick the answer with the most favourable cost profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readRaw(cmd)
		if err != nil {
			return err
		}
		ranked, err := current.repairer.Rank(raw)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if err := ranking.WriteSummary(w, ranked.Statistics, ranked.Best, ranked.Pool); err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, answer.Format(ranked.Candidate, true))
		return err
	},
}

var objectiveCmd = &cobra.Command{
	Use:   "objective [network]",
	Short: "Encode a network with an objective weighted by a previous run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		net, err := loadNetwork(args, variant)
		if err != nil {
			return err
		}
		raw, err := readRaw(cmd)
		if err != nil {
			return err
		}
		out, err := answer.ParseOutputString(raw)
		if err != nil {
			return err
		}
		program, _, err := current.repairer.WeightedProgram(net, ranking.Costs(out.Candidates))
		if err != nil {
			return err
		}
		return writeOut(cmd, program)
	},
}

var refineCmd = &cobra.Command{
	Use:   "refine [network...]",
	Short: "Repair networks iteratively until the solver times out or runs dry",
	Long: `Refine repeats the solver, each time requiring an answer that beats the
previous best on more cost slots than it loses. Networks are named from the
catalogue, or a single one is read with --file. Files for each network are
kept under the workspace directory:

  <workspace>/<name>/<name>.lp              current program
  <workspace>/<name>/<name>.prev.lp         previous program
  <workspace>/<name>/<name>.out             last raw output
  <workspace>/<name>/bestRepair_<name>.txt  best raw output`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputFile != "" {
			return refineFile(cmd)
		}
		names := args
		if refineAll {
			names = network.Names()
		}
		if len(names) == 0 {
			return fmt.Errorf("name at least one network or pass --all")
		}
		if err := current.driver.Available(); err != nil {
			return err
		}

		results, err := current.repairer.RefineAll(cmd.Context(), names)
		if werr := writeRefineTable(cmd.OutOrStdout(), results); werr != nil {
			return werr
		}
		if err != nil {
			return err
		}
		var failed []string
		for _, r := range results {
			if r.Err != nil {
				failed = append(failed, r.Name)
			}
		}
		if len(failed) > 0 {
			return fmt.Errorf("refinement failed for %s", strings.Join(failed, ", "))
		}
		return nil
	},
}

// refineFile refines the single network defined by --file.
func refineFile(cmd *cobra.Command) error {
	net, err := loadNetwork(nil, variant)
	if err != nil {
		return err
	}
	if err := current.driver.Available(); err != nil {
		return err
	}
	res, err := current.repairer.Refine(cmd.Context(), net)
	if werr := writeRefineTable(cmd.OutOrStdout(), []core.NetworkResult{{Name: net.Name, Result: res, Err: err}}); werr != nil {
		return werr
	}
	return err
}

func writeRefineTable(out io.Writer, results []core.NetworkResult) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NETWORK\tOUTCOME\tITERATIONS\tBEST COST\tEDGES\tRUN")
	for _, nr := range results {
		if nr.Result == nil {
			fmt.Fprintf(w, "%s\terror: %v\t-\t-\t-\t-\n", nr.Name, nr.Err)
			continue
		}
		res := nr.Result
		outcome := res.Outcome.String()
		if nr.Err != nil {
			outcome = "error: " + nr.Err.Error()
		}
		cost, edges := "unrepaired", "-"
		if res.Best != nil {
			cost = fmt.Sprint(res.Best.Costs.Total())
			edges = fmt.Sprint(len(res.Best.Edges))
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n", nr.Name, outcome, res.Iterations, cost, edges, res.RunID)
	}
	return w.Flush()
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := server.NewServer(current.repairer)
		return server.ListenAndServe(cmd.Context(), ":"+current.cfg.Server.Port, srv.SetupRouter())
	},
}

func init() {
	for _, c := range []*cobra.Command{solveCmd, analyzeCmd, objectiveCmd, refineCmd} {
		c.Flags().StringVarP(&inputFile, "file", "f", "", "Load the network from a YAML document")
		c.Flags().StringVar(&variant, "variant", "", "clean or corrupted (default from config)")
	}
	for _, c := range []*cobra.Command{analyzeCmd, rankCmd, objectiveCmd} {
		c.Flags().StringVar(&rawFile, "raw", "", "Solver output to read, - for stdin")
	}
	for _, c := range []*cobra.Command{solveCmd, objectiveCmd} {
		c.Flags().StringVarP(&outFile, "out", "o", "", "Write to a file instead of stdout")
	}
	solveCmd.Flags().BoolVar(&solveReport, "report", false, "Print the evaluation report after the output")
	refineCmd.Flags().BoolVar(&refineAll, "all", false, "Refine every catalogue network")

	rootCmd.AddCommand(solveCmd, analyzeCmd, rankCmd, objectiveCmd, refineCmd, serveCmd)
}
