package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/agenthands/netrepair/internal/core/encoder"
	"github.com/agenthands/netrepair/internal/core/model"
	"github.com/agenthands/netrepair/internal/core/network"
	"github.com/spf13/cobra"
)

var (
	networksJSON bool

	inputFile string
	variant   string

	encodeNoHeuristics bool
	encodeRules        []int
	encodeDialect      string
	encodeShowCosts    bool
	encodeOmitObj      bool
	outFile            string

	corruptAdd    float64
	corruptRemove float64
	corruptSeed   uint64
)

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List the built-in networks and their properties",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		type row struct {
			Name       string           `json:"name"`
			Properties model.Properties `json:"properties"`
			Corrupted  int              `json:"corruption_edges"`
		}
		var rows []row
		for _, name := range network.Names() {
			clean, err := network.Load(name, model.Clean)
			if err != nil {
				return err
			}
			corrupted, err := network.Load(name, model.Corrupted)
			if err != nil {
				return err
			}
			rows = append(rows, row{Name: name, Properties: network.Properties(clean), Corrupted: len(corrupted.Corruption)})
		}

		if networksJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tGENES\tEDGES\tAVG DEGREE\tDIAMETER\tCORRUPTION")
		for _, r := range rows {
			p := r.Properties
			fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\t%d\t%d\n", r.Name, p.Genes, p.Edges, p.AverageDegree, p.Diameter, r.Corrupted)
		}
		return w.Flush()
	},
}

// loadNetwork resolves a catalogue name, or the --file document when set.
func loadNetwork(args []string, variant string) (*model.Network, error) {
	v := current.repairer.Options.Variant
	switch variant {
	case "":
	case "clean":
		v = model.Clean
	case "corrupted":
		v = model.Corrupted
	default:
		return nil, fmt.Errorf("--variant must be clean or corrupted, got %q", variant)
	}
	if inputFile != "" {
		return network.LoadFile(inputFile, v)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("a network name or --file is required")
	}
	return current.repairer.Load(args[0], v)
}

// writeOut writes content to --out, or to stdout when unset.
func writeOut(cmd *cobra.Command, content string) error {
	if outFile == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}
	return os.WriteFile(outFile, []byte(content), 0o644)
}

var encodeCmd = &cobra.Command{
	Use:   "encode [network]",
	Short: "Print the solver program for a network",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		net, err := loadNetwork(args, variant)
		if err != nil {
			return err
		}
		r := current.repairer
		if cmd.Flags().Changed("no-heuristics") {
			r.Options.Encoder.Heuristics = !encodeNoHeuristics
		}
		if len(encodeRules) > 0 {
			r.Options.Encoder.Rules = encodeRules
		}
		if encodeDialect != "" {
			d, err := encoder.ParseDialect(encodeDialect)
			if err != nil {
				return err
			}
			r.Options.Encoder.Dialect = d
		}
		r.Options.Encoder.ShowCosts = r.Options.Encoder.ShowCosts || encodeShowCosts
		r.Options.Encoder.OmitObjective = encodeOmitObj

		program, err := r.Encode(net)
		if err != nil {
			return err
		}
		return writeOut(cmd, program)
	},
}

var corruptCmd = &cobra.Command{
	Use:   "corrupt [network]",
	Short: "Derive a corrupted variant of a clean network as a YAML document",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clean, err := loadNetwork(args, "clean")
		if err != nil {
			return err
		}
		corrupted, err := network.Corrupt(clean, corruptAdd, corruptRemove, corruptSeed)
		if err != nil {
			return err
		}
		data, err := network.Marshal(clean, corrupted)
		if err != nil {
			return err
		}
		return writeOut(cmd, string(data))
	},
}

func init() {
	networksCmd.Flags().BoolVar(&networksJSON, "json", false, "Output as JSON")

	for _, c := range []*cobra.Command{encodeCmd, corruptCmd} {
		c.Flags().StringVarP(&inputFile, "file", "f", "", "Load the network from a YAML document")
		c.Flags().StringVarP(&outFile, "out", "o", "", "Write to a file instead of stdout")
	}
	encodeCmd.Flags().StringVar(&variant, "variant", "", "clean or corrupted (default from config)")
	encodeCmd.Flags().BoolVar(&encodeNoHeuristics, "no-heuristics", false, "Disable heuristic rules")
	encodeCmd.Flags().IntSliceVar(&encodeRules, "rules", nil, "Enabled heuristic rules (1..6)")
	encodeCmd.Flags().StringVar(&encodeDialect, "dialect", "", "clingo or gringo3")
	encodeCmd.Flags().BoolVar(&encodeShowCosts, "show-costs", false, "Project repairCost atoms")
	encodeCmd.Flags().BoolVar(&encodeOmitObj, "omit-objective", false, "Leave out totalCost and the minimize directive")

	corruptCmd.Flags().Float64Var(&corruptAdd, "add", 0.5, "Edges to add as a fraction of the baseline")
	corruptCmd.Flags().Float64Var(&corruptRemove, "remove", 0.25, "Fraction of baseline edges to remove")
	corruptCmd.Flags().Uint64Var(&corruptSeed, "seed", 1, "Random seed")

	rootCmd.AddCommand(networksCmd, encodeCmd, corruptCmd)
}
