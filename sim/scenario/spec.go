// Package scenario loads generator presets from YAML files. A preset
// only needs to name the options it overrides; everything else keeps the
// value already in the configuration.
package scenario

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/library-sim/library-sim/sim"
)

// Spec mirrors the configuration under the preset option names.
type Spec struct {
	Seed int64 `yaml:"seed"`

	InitTypes     int `yaml:"init_types"`
	InitMinCopies int `yaml:"init_min_cp"`
	InitMaxCopies int `yaml:"init_max_cp"`

	MaxCycles        int `yaml:"max_cycles"`
	MaxTotalCommands int `yaml:"max_total_commands"`

	MinRequestsPerDay int `yaml:"min_req_per_day"`
	MaxRequestsPerDay int `yaml:"max_req_per_day"`

	InitCloseProb float64 `yaml:"init_close_prob"`
	CloseProbInc  float64 `yaml:"close_prob_inc"`
	MaxCloseProb  float64 `yaml:"max_close_prob"`

	MinSkipDays int `yaml:"min_skip_post_close"`
	MaxSkipDays int `yaml:"max_skip_post_close"`

	BorrowWeight      int `yaml:"b_w"`
	OrderWeight       int `yaml:"o_w"`
	QueryWeight       int `yaml:"q_w"`
	PickWeight        int `yaml:"p_w"`
	FailedOrderWeight int `yaml:"fo_w"`
	ReadWeight        int `yaml:"read_w"`
	RestoreWeight     int `yaml:"restore_w"`

	BPriority     float64 `yaml:"b_prio"`
	CPriority     float64 `yaml:"c_prio"`
	AReadPriority float64 `yaml:"a_read_prio"`

	NewStudentRatio   float64 `yaml:"new_s_ratio"`
	ReturnPropensity  float64 `yaml:"ret_prop"`
	PickPropensity    float64 `yaml:"pick_prop"`
	RestorePropensity float64 `yaml:"restore_prop"`

	MaxHoldings      int `yaml:"max_holdings"`
	PickupWindowDays int `yaml:"pickup_window_days"`

	StartYear  int `yaml:"start_year"`
	StartMonth int `yaml:"start_month"`
	StartDay   int `yaml:"start_day"`
}

// FromConfig copies every option out of cfg, so a subsequent decode
// only disturbs the keys the preset actually names.
func FromConfig(cfg *sim.Config) Spec {
	return Spec{
		Seed:              cfg.Seed,
		InitTypes:         cfg.InitTypes,
		InitMinCopies:     cfg.InitMinCopies,
		InitMaxCopies:     cfg.InitMaxCopies,
		MaxCycles:         cfg.MaxCycles,
		MaxTotalCommands:  cfg.MaxTotalCommands,
		MinRequestsPerDay: cfg.MinRequestsPerDay,
		MaxRequestsPerDay: cfg.MaxRequestsPerDay,
		InitCloseProb:     cfg.InitCloseProb,
		CloseProbInc:      cfg.CloseProbInc,
		MaxCloseProb:      cfg.MaxCloseProb,
		MinSkipDays:       cfg.MinSkipDays,
		MaxSkipDays:       cfg.MaxSkipDays,
		BorrowWeight:      cfg.Weights.Borrow,
		OrderWeight:       cfg.Weights.Order,
		QueryWeight:       cfg.Weights.Query,
		PickWeight:        cfg.Weights.Pick,
		FailedOrderWeight: cfg.Weights.FailedOrder,
		ReadWeight:        cfg.Weights.Read,
		RestoreWeight:     cfg.Weights.Restore,
		BPriority:         cfg.BPriority,
		CPriority:         cfg.CPriority,
		AReadPriority:     cfg.AReadPriority,
		NewStudentRatio:   cfg.NewStudentRatio,
		ReturnPropensity:  cfg.ReturnPropensity,
		PickPropensity:    cfg.PickPropensity,
		RestorePropensity: cfg.RestorePropensity,
		MaxHoldings:       cfg.MaxHoldings,
		PickupWindowDays:  cfg.PickupWindowDays,
		StartYear:         cfg.StartYear,
		StartMonth:        cfg.StartMonth,
		StartDay:          cfg.StartDay,
	}
}

// Apply writes every option back into cfg.
func (s Spec) Apply(cfg *sim.Config) {
	cfg.Seed = s.Seed
	cfg.InitTypes = s.InitTypes
	cfg.InitMinCopies = s.InitMinCopies
	cfg.InitMaxCopies = s.InitMaxCopies
	cfg.MaxCycles = s.MaxCycles
	cfg.MaxTotalCommands = s.MaxTotalCommands
	cfg.MinRequestsPerDay = s.MinRequestsPerDay
	cfg.MaxRequestsPerDay = s.MaxRequestsPerDay
	cfg.InitCloseProb = s.InitCloseProb
	cfg.CloseProbInc = s.CloseProbInc
	cfg.MaxCloseProb = s.MaxCloseProb
	cfg.MinSkipDays = s.MinSkipDays
	cfg.MaxSkipDays = s.MaxSkipDays
	cfg.Weights = sim.ActionWeights{
		Borrow:      s.BorrowWeight,
		Order:       s.OrderWeight,
		Query:       s.QueryWeight,
		Pick:        s.PickWeight,
		FailedOrder: s.FailedOrderWeight,
		Read:        s.ReadWeight,
		Restore:     s.RestoreWeight,
	}
	cfg.BPriority = s.BPriority
	cfg.CPriority = s.CPriority
	cfg.AReadPriority = s.AReadPriority
	cfg.NewStudentRatio = s.NewStudentRatio
	cfg.ReturnPropensity = s.ReturnPropensity
	cfg.PickPropensity = s.PickPropensity
	cfg.RestorePropensity = s.RestorePropensity
	cfg.MaxHoldings = s.MaxHoldings
	cfg.PickupWindowDays = s.PickupWindowDays
	cfg.StartYear = s.StartYear
	cfg.StartMonth = s.StartMonth
	cfg.StartDay = s.StartDay
}

// Load merges the preset file at path into cfg. Unknown keys are
// rejected, so a typo'd option fails loudly instead of silently keeping
// its default.
func Load(path string, cfg *sim.Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open scenario file: %w", err)
	}
	defer f.Close()
	return Decode(f, cfg)
}

// Decode reads a preset from r and merges it into cfg.
func Decode(r io.Reader, cfg *sim.Config) error {
	spec := FromConfig(cfg)
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		return fmt.Errorf("parse scenario: %w", err)
	}
	spec.Apply(cfg)
	return nil
}
