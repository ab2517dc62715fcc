package scenario

import (
	"strings"
	"testing"

	"github.com/library-sim/library-sim/sim"
)

func TestDecode_PartialOverride(t *testing.T) {
	cfg := sim.DefaultConfig()
	yml := `
seed: 99
max_cycles: 3
b_w: 7
restore_prop: 0.25
`
	if err := Decode(strings.NewReader(yml), cfg); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if cfg.Seed != 99 {
		t.Errorf("seed = %d, want 99", cfg.Seed)
	}
	if cfg.MaxCycles != 3 {
		t.Errorf("max_cycles = %d, want 3", cfg.MaxCycles)
	}
	if cfg.Weights.Borrow != 7 {
		t.Errorf("b_w = %d, want 7", cfg.Weights.Borrow)
	}
	if cfg.RestorePropensity != 0.25 {
		t.Errorf("restore_prop = %v, want 0.25", cfg.RestorePropensity)
	}

	// Untouched keys keep their defaults.
	d := sim.DefaultConfig()
	if cfg.MaxTotalCommands != d.MaxTotalCommands {
		t.Errorf("max_total_commands = %d, want default %d", cfg.MaxTotalCommands, d.MaxTotalCommands)
	}
	if cfg.Weights.Order != d.Weights.Order {
		t.Errorf("o_w = %d, want default %d", cfg.Weights.Order, d.Weights.Order)
	}
}

func TestDecode_RejectsUnknownKey(t *testing.T) {
	cfg := sim.DefaultConfig()
	err := Decode(strings.NewReader("sede: 99\n"), cfg)
	if err == nil {
		t.Fatal("typo'd key accepted")
	}
}

func TestDecode_RoundTripIsLossless(t *testing.T) {
	cfg := sim.DefaultConfig()
	before := *cfg
	if err := Decode(strings.NewReader("{}\n"), cfg); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if *cfg != before {
		t.Error("empty preset changed the configuration")
	}
}
