// Package config implements the optional gomus.yaml defaults file
// (SPEC_FULL.md §6): a small YAML document that pre-fills the CLI's flag
// defaults before pflag parses argv, so a site or project can pin its own
// extraction policy once instead of repeating a long flag list. Grounded
// on cmd/operator-cli/bundle/generate.go's AnnotationMetadata/
// AnnotationType read via gopkg.in/yaml.v2.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Defaults mirrors the subset of spec.md §6's CLI flag table worth
// pinning in a project-wide config file: strategy choice, rotation/RR/trim
// policy, and output shape. Flags the user actually passes on argv always
// win over these (cmd/gomus wires file defaults in before pflag parses).
type Defaults struct {
	Verbosity int `yaml:"verbosity"`
	Deadline  int `yaml:"deadline_seconds"`

	// Strategy is parsed but not applied by cmd/gomus: the strategy comes
	// from the command-line flags, or from a nonzero chunk_size/subset_min.
	Strategy  string `yaml:"strategy"`   // "deletion", "insertion", "dichotomic", "progression", "chunked", "subset", "fbar"
	ChunkSize int    `yaml:"chunk_size"` // nonzero selects the chunked strategy in cmd/gomus

	SubsetMin  int `yaml:"subset_min"`
	SubsetStep int `yaml:"subset_step"`
	SubsetMax  int `yaml:"subset_max"`

	DisableRefinement bool   `yaml:"disable_refinement"`
	Rotation          string `yaml:"rotation"` // "none", "emr", "imr"; depth-bounded rotation is selected by a nonzero rotation_depth
	RotationDepth     int    `yaml:"rotation_depth"`

	RedundancyRemoval         bool `yaml:"redundancy_removal"`
	AdaptiveRedundancyRemoval bool `yaml:"adaptive_redundancy_removal"`

	TrimIterations  int     `yaml:"trim_iterations"`
	TrimPercent     float64 `yaml:"trim_percent"`
	TrimToFixpoint  bool    `yaml:"trim_to_fixpoint"`
	InitialSatCheck bool    `yaml:"initial_sat_check"`

	Order    string `yaml:"order"` // parsed but not applied by cmd/gomus
	Polarity int    `yaml:"polarity"`

	Competition bool   `yaml:"competition_output"`
	WriteFile   string `yaml:"write_file"`
	Verify      bool   `yaml:"verify"`

	Workers int `yaml:"workers"`
}

// Load reads and parses the YAML document at path. A missing file is not
// an error — it means no project defaults were pinned, and the caller's
// flag defaults apply unchanged.
func Load(path string) (*Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Defaults{}, nil
		}
		return nil, errors.Wrapf(err, "config: reading %s", path)
	}

	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrapf(err, "config: parsing %s", path)
	}
	return &d, nil
}
