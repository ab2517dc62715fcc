package sim

import (
	"fmt"
	"time"
)

// ActionWeights are the sampling weights for the per-step action-kind draw.
// A zero weight removes the kind from the draw entirely.
type ActionWeights struct {
	Borrow      int // b_w
	Order       int // o_w
	Query       int // q_w
	Pick        int // p_w
	FailedOrder int // fo_w / failed_o_weight
	Read        int // read_w
	Restore     int // restore_w
}

// Sum returns the total weight mass.
func (w ActionWeights) Sum() int {
	return w.Borrow + w.Order + w.Query + w.Pick + w.FailedOrder + w.Read + w.Restore
}

// Config carries every generator knob. Comments name the preset option
// each field maps to.
type Config struct {
	Seed int64

	InitTypes     int // init_types: distinct titles in the initial catalog
	InitMinCopies int // init_min_cp
	InitMaxCopies int // init_max_cp

	MaxCycles        int // max_cycles: OPEN-CLOSE cycles before the run ends
	MaxTotalCommands int // max_total_commands: global command budget

	MinRequestsPerDay int // min_req / min_req_per_day
	MaxRequestsPerDay int // max_req / max_req_per_day

	InitCloseProb float64 // init_close_prob
	CloseProbInc  float64 // close_prob_inc
	MaxCloseProb  float64 // max_close_prob

	MinSkipDays int // min_skip / min_skip_post_close
	MaxSkipDays int // max_skip / max_skip_post_close

	Weights ActionWeights

	BPriority     float64 // b_prio: category bias toward B titles
	CPriority     float64 // c_prio
	AReadPriority float64 // a_read_prio: A titles compete only in reads

	NewStudentRatio   float64 // new_s_ratio: daily new-student probability
	ReturnPropensity  float64 // ret_prop
	PickPropensity    float64 // pick_prop
	RestorePropensity float64 // restore_prop

	MaxHoldings      int // max_holdings: per-student borrow cap
	PickupWindowDays int // reservation retention at the appointment office

	StartYear  int // start_year
	StartMonth int // start_month
	StartDay   int // start_day
}

// DefaultConfig returns the stock configuration used when a preset leaves
// an option unset.
func DefaultConfig() *Config {
	return &Config{
		Seed:              42,
		InitTypes:         5,
		InitMinCopies:     1,
		InitMaxCopies:     10,
		MaxCycles:         5,
		MaxTotalCommands:  200,
		MinRequestsPerDay: 1,
		MaxRequestsPerDay: 5,
		InitCloseProb:     0.1,
		CloseProbInc:      0.15,
		MaxCloseProb:      0.9,
		MinSkipDays:       0,
		MaxSkipDays:       1,
		Weights: ActionWeights{
			Borrow:      3,
			Order:       2,
			Query:       3,
			Pick:        2,
			FailedOrder: 1,
			Read:        2,
			Restore:     1,
		},
		BPriority:         0.4,
		CPriority:         0.4,
		AReadPriority:     0.2,
		NewStudentRatio:   0.2,
		ReturnPropensity:  0.7,
		PickPropensity:    0.7,
		RestorePropensity: 0.6,
		MaxHoldings:       10,
		PickupWindowDays:  5,
		StartYear:         2025,
		StartMonth:        1,
		StartDay:          1,
	}
}

// StartDate returns the calendar origin of the run.
func (c *Config) StartDate() time.Time {
	return time.Date(c.StartYear, time.Month(c.StartMonth), c.StartDay, 0, 0, 0, 0, time.UTC)
}

// Validate checks the configuration before any simulation begins.
// Out-of-range or contradictory options are rejected here, never mid-run.
func (c *Config) Validate() error {
	if c.InitTypes <= 0 {
		return fmt.Errorf("init_types must be positive, got %d", c.InitTypes)
	}
	if c.InitMinCopies < 1 {
		return fmt.Errorf("init_min_cp must be at least 1, got %d", c.InitMinCopies)
	}
	if c.InitMinCopies > c.InitMaxCopies {
		return fmt.Errorf("init_min_cp (%d) must not exceed init_max_cp (%d)", c.InitMinCopies, c.InitMaxCopies)
	}
	if c.MaxCycles <= 0 {
		return fmt.Errorf("max_cycles must be positive, got %d", c.MaxCycles)
	}
	if c.MaxTotalCommands <= 0 {
		return fmt.Errorf("max_total_commands must be positive, got %d", c.MaxTotalCommands)
	}
	if c.MinRequestsPerDay < 1 {
		return fmt.Errorf("min_req_per_day must be at least 1, got %d", c.MinRequestsPerDay)
	}
	if c.MinRequestsPerDay > c.MaxRequestsPerDay {
		return fmt.Errorf("min_req_per_day (%d) must not exceed max_req_per_day (%d)",
			c.MinRequestsPerDay, c.MaxRequestsPerDay)
	}
	if c.MinSkipDays < 0 {
		return fmt.Errorf("min_skip_post_close must be non-negative, got %d", c.MinSkipDays)
	}
	if c.MinSkipDays > c.MaxSkipDays {
		return fmt.Errorf("min_skip_post_close (%d) must not exceed max_skip_post_close (%d)",
			c.MinSkipDays, c.MaxSkipDays)
	}
	for name, p := range map[string]float64{
		"init_close_prob": c.InitCloseProb,
		"max_close_prob":  c.MaxCloseProb,
		"new_s_ratio":     c.NewStudentRatio,
		"ret_prop":        c.ReturnPropensity,
		"pick_prop":       c.PickPropensity,
		"restore_prop":    c.RestorePropensity,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s must be in [0, 1], got %f", name, p)
		}
	}
	if c.CloseProbInc < 0 {
		return fmt.Errorf("close_prob_inc must be non-negative, got %f", c.CloseProbInc)
	}
	if c.InitCloseProb > c.MaxCloseProb {
		return fmt.Errorf("init_close_prob (%f) must not exceed max_close_prob (%f)",
			c.InitCloseProb, c.MaxCloseProb)
	}
	for name, w := range map[string]int{
		"b_w": c.Weights.Borrow, "o_w": c.Weights.Order, "q_w": c.Weights.Query,
		"p_w": c.Weights.Pick, "fo_w": c.Weights.FailedOrder,
		"read_w": c.Weights.Read, "restore_w": c.Weights.Restore,
	} {
		if w < 0 {
			return fmt.Errorf("%s must be non-negative, got %d", name, w)
		}
	}
	if c.Weights.Sum() == 0 {
		return fmt.Errorf("all action weights are zero; nothing to generate")
	}
	for name, p := range map[string]float64{
		"b_prio": c.BPriority, "c_prio": c.CPriority, "a_read_prio": c.AReadPriority,
	} {
		if p < 0 {
			return fmt.Errorf("%s must be non-negative, got %f", name, p)
		}
	}
	if c.MaxHoldings < 1 {
		return fmt.Errorf("max_holdings must be at least 1, got %d", c.MaxHoldings)
	}
	if c.PickupWindowDays < 1 {
		return fmt.Errorf("pickup window must be at least 1 day, got %d", c.PickupWindowDays)
	}
	if c.StartMonth < 1 || c.StartMonth > 12 {
		return fmt.Errorf("start_month must be in [1, 12], got %d", c.StartMonth)
	}
	// Reject dates time.Date would silently normalize (e.g. Feb 30).
	d := c.StartDate()
	if d.Day() != c.StartDay || int(d.Month()) != c.StartMonth || d.Year() != c.StartYear {
		return fmt.Errorf("start date %04d-%02d-%02d is not a valid calendar date",
			c.StartYear, c.StartMonth, c.StartDay)
	}
	return nil
}
