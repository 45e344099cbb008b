// Package config holds the recognized options of spec §6
// (External Interfaces, Configuration) plus load/save helpers in the
// shape of the teacher's cmd/gedcom/internal/config.go: a plain
// struct, a JSON file on disk, and a documented default.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds initial-capacity block sizes and the Li-Stephens model
// parameters. The block sizes pre-size growable lists; they are not
// hard limits.
type Config struct {
	// SegmentBlockSize pre-sizes each per-site segment list (Ancestor
	// Store Builder and Traceback), in runs.
	SegmentBlockSize int `json:"segment_block_size" yaml:"segment_block_size"`
	// RecombinationRate is rho in [0, 1].
	RecombinationRate float64 `json:"recombination_rate" yaml:"recombination_rate"`
	// ErrorRate is mu in [0, 1], the per-site mismatch probability.
	ErrorRate float64 `json:"error_rate" yaml:"error_rate"`
	// NodeMappingBlockSize pre-sizes the Tree Sequence Builder's
	// live-segment and pending-edgeset maps.
	NodeMappingBlockSize int `json:"node_mapping_block_size" yaml:"node_mapping_block_size"`
	// EdgesetBlockSize pre-sizes the finalized edgeset list.
	EdgesetBlockSize int `json:"edgeset_block_size" yaml:"edgeset_block_size"`
	// MutationListNodeBlockSize pre-sizes the mutation list.
	MutationListNodeBlockSize int `json:"mutation_list_node_block_size" yaml:"mutation_list_node_block_size"`

	// Quiet suppresses progress narration (report package).
	Quiet bool `json:"quiet" yaml:"quiet"`
}

// Default returns the configuration genotree uses absent any override.
func Default() *Config {
	return &Config{
		SegmentBlockSize:          1024,
		RecombinationRate:         1e-8,
		ErrorRate:                 1e-4,
		NodeMappingBlockSize:      1024,
		EdgesetBlockSize:          1024,
		MutationListNodeBlockSize: 1024,
		Quiet:                     false,
	}
}

// Validate checks that the probabilities are within range and block
// sizes are usable, matching spec §7's "arena exhaustion ... fatal
// with hint to grow block size" by catching nonsensical sizes early.
func (c *Config) Validate() error {
	if c.RecombinationRate < 0 || c.RecombinationRate > 1 {
		return fmt.Errorf("genotree/config: recombination_rate %v out of [0,1]", c.RecombinationRate)
	}
	if c.ErrorRate < 0 || c.ErrorRate > 1 {
		return fmt.Errorf("genotree/config: error_rate %v out of [0,1]", c.ErrorRate)
	}
	for name, v := range map[string]int{
		"segment_block_size":            c.SegmentBlockSize,
		"node_mapping_block_size":       c.NodeMappingBlockSize,
		"edgeset_block_size":            c.EdgesetBlockSize,
		"mutation_list_node_block_size": c.MutationListNodeBlockSize,
	} {
		if v <= 0 {
			return fmt.Errorf("genotree/config: %s must be positive, got %d", name, v)
		}
	}
	return nil
}

// Load reads a JSON config file, falling back to Default if path is
// empty or the file does not exist — the same fallback chain as the
// teacher's LoadConfig, minus the XDG search (genotree is a library,
// not a CLI with a home directory convention).
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("genotree/config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("genotree/config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as indented JSON, creating parent directories as
// needed.
func Save(cfg *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("genotree/config: create directory %s: %w", dir, err)
		}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("genotree/config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("genotree/config: write %s: %w", path, err)
	}
	return nil
}

// ToYAML renders cfg for human-readable export, the config-side
// counterpart of the teacher's YAML output format.
func ToYAML(cfg *Config) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("genotree/config: marshal yaml: %w", err)
	}
	return string(data), nil
}

// FromYAML parses a YAML document into a Config seeded with defaults
// for any field it omits.
func FromYAML(doc string) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal([]byte(doc), cfg); err != nil {
		return nil, fmt.Errorf("genotree/config: parse yaml: %w", err)
	}
	return cfg, nil
}
