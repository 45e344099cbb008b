package config

import (
	"path/filepath"
	"testing"
)

func TestDefault_Validates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default() should validate, got %v", err)
	}
}

func TestValidate_RejectsOutOfRangeRates(t *testing.T) {
	cfg := Default()
	cfg.RecombinationRate = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for recombination_rate > 1")
	}

	cfg = Default()
	cfg.ErrorRate = -0.1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative error_rate")
	}
}

func TestValidate_RejectsNonPositiveBlockSize(t *testing.T) {
	cfg := Default()
	cfg.SegmentBlockSize = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero segment_block_size")
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := Default()
	cfg.RecombinationRate = 0.01
	cfg.ErrorRate = 0.001

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.RecombinationRate != cfg.RecombinationRate || loaded.ErrorRate != cfg.ErrorRate {
		t.Errorf("round trip mismatch: got %+v, want %+v", loaded, cfg)
	}
}

func TestLoad_MissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SegmentBlockSize != Default().SegmentBlockSize {
		t.Errorf("expected default config for missing file, got %+v", cfg)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.RecombinationRate = 0.02
	doc, err := ToYAML(cfg)
	if err != nil {
		t.Fatalf("ToYAML: %v", err)
	}
	parsed, err := FromYAML(doc)
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	if parsed.RecombinationRate != cfg.RecombinationRate {
		t.Errorf("YAML round trip mismatch: got %v, want %v", parsed.RecombinationRate, cfg.RecombinationRate)
	}
}
