package network

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/agenthands/netrepair/internal/core/model"
	apperrors "github.com/agenthands/netrepair/internal/errors"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var catalogueFS embed.FS

type edgeList struct {
	Edges []model.Edge `yaml:"edges"`
	Added []model.Edge `yaml:"added"`
}

// definition is the on-disk layout of a network document.
type definition struct {
	Name         string              `yaml:"name"`
	Genes        int                 `yaml:"genes"`
	TimeSteps    int                 `yaml:"time_steps"`
	Diameter     int                 `yaml:"diameter"`
	Clean        edgeList            `yaml:"clean"`
	Corrupted    edgeList            `yaml:"corrupted"`
	Observations []model.Observation `yaml:"observations"`
}

// Names lists the built-in networks in alphabetical order.
func Names() []string {
	entries, err := catalogueFS.ReadDir("data")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
		}
	}
	sort.Strings(names)
	return names
}

// Load builds a network from the built-in catalogue.
func Load(name string, variant model.Variant) (*model.Network, error) {
	data, err := catalogueFS.ReadFile(path.Join("data", name+".yaml"))
	if err != nil {
		return nil, apperrors.NotFound(fmt.Sprintf("network %q", name))
	}
	return decode(data, variant)
}

// LoadFile builds a network from a user supplied YAML document.
func LoadFile(file string, variant model.Variant) (*model.Network, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, apperrors.IO("read", file, err)
	}
	return decode(data, variant)
}

// Truth returns the clean baseline of a catalogue network, used as ground truth.
func Truth(name string) ([]model.Edge, error) {
	net, err := Load(name, model.Clean)
	if err != nil {
		return nil, err
	}
	return net.Baseline, nil
}

// Marshal renders a network document holding clean and, when given, the
// corrupted variant derived from it. The result loads with LoadFile.
func Marshal(clean, corrupted *model.Network) ([]byte, error) {
	if clean == nil || clean.IsCorrupted() {
		return nil, apperrors.Encoding("a clean network is required")
	}
	def := definition{
		Name:         clean.Name,
		Genes:        clean.Genes,
		TimeSteps:    clean.TimeSteps,
		Diameter:     clean.Diameter,
		Clean:        edgeList{Edges: clean.Baseline},
		Observations: clean.Observations,
	}
	if corrupted != nil {
		def.Corrupted = edgeList{Edges: corrupted.Baseline, Added: corrupted.Corruption}
	}
	data, err := yaml.Marshal(&def)
	if err != nil {
		return nil, apperrors.Encoding("failed to render network %q: %v", clean.Name, err)
	}
	return data, nil
}

func decode(data []byte, variant model.Variant) (*model.Network, error) {
	var def definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, apperrors.DataIntegrity("failed to parse network definition: %v", err)
	}

	net := &model.Network{
		Name:         def.Name,
		Genes:        def.Genes,
		TimeSteps:    def.TimeSteps,
		Diameter:     def.Diameter,
		Observations: def.Observations,
	}
	switch variant {
	case model.Clean:
		net.Baseline = def.Clean.Edges
	case model.Corrupted:
		if len(def.Corrupted.Edges) == 0 && len(def.Corrupted.Added) == 0 {
			return nil, apperrors.DataIntegrity("network %q has no corrupted variant", def.Name)
		}
		net.Baseline = def.Corrupted.Edges
		net.Corruption = def.Corrupted.Added
	default:
		return nil, apperrors.DataIntegrity("unknown variant %d", int(variant))
	}

	if err := Validate(net); err != nil {
		return nil, err
	}
	return net, nil
}

// Validate checks the structural invariants of a network: positive sizes, a
// complete observation table without contradictions, edge ids in range and
// disjoint baseline and corruption sets.
func Validate(net *model.Network) error {
	if net.Name == "" {
		return apperrors.DataIntegrity("network has no name")
	}
	if net.Genes <= 0 || net.TimeSteps <= 0 {
		return apperrors.DataIntegrity("network %q: genes (%d) and time steps (%d) must be positive", net.Name, net.Genes, net.TimeSteps)
	}
	if want := net.Genes * net.TimeSteps; len(net.Observations) != want {
		return apperrors.DataIntegrity("network %q: %d observation rows, expected %d genes x %d time steps = %d",
			net.Name, len(net.Observations), net.Genes, net.TimeSteps, want)
	}

	type cell struct{ gene, time int }
	seen := make(map[cell]model.State, len(net.Observations))
	for _, o := range net.Observations {
		if o.Gene < 1 || o.Gene > net.Genes || o.Time < 1 || o.Time > net.TimeSteps {
			return apperrors.DataIntegrity("network %q: observation (%d,%d) out of range", net.Name, o.Gene, o.Time)
		}
		c := cell{o.Gene, o.Time}
		if prev, ok := seen[c]; ok && prev != o.State {
			return apperrors.DataIntegrity("network %q: gene %d is both %s and %s at time %d", net.Name, o.Gene, prev, o.State, o.Time)
		}
		seen[c] = o.State
	}

	for _, e := range net.Edges() {
		if e.From < 1 || e.From > net.Genes || e.To < 1 || e.To > net.Genes {
			return apperrors.DataIntegrity("network %q: edge %s references an unknown gene", net.Name, e)
		}
	}

	baseline := model.NewEdgeSet(net.Baseline...)
	for _, e := range net.Corruption {
		if baseline.Contains(e) {
			return apperrors.DataIntegrity("network %q: edge %s is both baseline and corruption", net.Name, e)
		}
	}
	return nil
}
