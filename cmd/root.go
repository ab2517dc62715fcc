package cmd

import (
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/library-sim/library-sim/sim"
	"github.com/library-sim/library-sim/sim/scenario"
)

var (
	// CLI flags for generation configs
	seed         int64  // Seed for the partitioned RNG
	logLevel     string // Log verbosity level
	scenarioFile string // Optional YAML preset merged before flag overrides

	initTypes  int // Distinct titles in the initial catalog
	initMinCp  int // Min copies per title
	initMaxCp  int // Max copies per title
	maxCycles  int // OPEN-CLOSE cycles before the run ends
	maxTotal   int // Global command budget
	minReq     int // Min weighted request slots per open day
	maxReq     int // Max weighted request slots per open day
	minSkip    int // Min calendar days skipped after a CLOSE
	maxSkip    int // Max calendar days skipped after a CLOSE
	maxHold    int // Per-student borrow cap
	pickWindow int // Reservation retention at the appointment office (days)

	initCloseProb float64 // Close probability on a cycle's first open day
	closeProbInc  float64 // Close probability growth per extra open day
	maxCloseProb  float64 // Close probability ceiling

	borrowWeight  int // Weight of borrow in the action draw
	orderWeight   int // Weight of order
	queryWeight   int // Weight of query
	pickWeight    int // Weight of pick
	failedOWeight int // Weight of rejection probes
	readWeight    int // Weight of read
	restoreWeight int // Weight of restore

	bPrio     float64 // Category bias toward B titles
	cPrio     float64 // Category bias toward C titles
	aReadPrio float64 // Category bias toward A titles in reads

	newStudentRatio float64 // Daily probability of registering a new student
	retProp         float64 // Propensity to return held copies
	pickProp        float64 // Propensity to pick up waiting reservations
	restoreProp     float64 // Propensity to restore a reading-room copy

	startYear  int // Calendar origin year
	startMonth int // Calendar origin month
	startDay   int // Calendar origin day
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "library-sim",
	Short: "Deterministic command-stream generator for library management systems",
}

// runCmd executes one generation run using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate a command stream",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
		logrus.SetOutput(os.Stderr)

		cfg := sim.DefaultConfig()
		if scenarioFile != "" {
			if err := scenario.Load(scenarioFile, cfg); err != nil {
				logrus.Fatalf("unable to read scenario file: %v", err)
			}
		}
		// Explicit flags win over the scenario file.
		applyFlagOverrides(cmd, cfg)

		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("invalid configuration: %v", err)
		}

		runID := uuid.New()
		logrus.Infof("Starting generation run %s with seed=%d, %d cycles, %d command budget",
			runID, cfg.Seed, cfg.MaxCycles, cfg.MaxTotalCommands)

		sched := sim.NewScheduler(cfg, sim.NewStreamEmitter(os.Stdout), runID)
		stats, err := sched.Run()
		if err != nil {
			logrus.Fatalf("generation aborted: %v", err)
		}
		stats.Log()

		logrus.Info("Generation complete.")
	},
}

// applyFlagOverrides copies every flag the user actually set into cfg,
// leaving scenario-file and default values alone otherwise.
func applyFlagOverrides(cmd *cobra.Command, cfg *sim.Config) {
	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("seed", func() { cfg.Seed = seed })
	set("init_types", func() { cfg.InitTypes = initTypes })
	set("init_min_cp", func() { cfg.InitMinCopies = initMinCp })
	set("init_max_cp", func() { cfg.InitMaxCopies = initMaxCp })
	set("max_cycles", func() { cfg.MaxCycles = maxCycles })
	set("max_total_commands", func() { cfg.MaxTotalCommands = maxTotal })
	set("min_req_per_day", func() { cfg.MinRequestsPerDay = minReq })
	set("max_req_per_day", func() { cfg.MaxRequestsPerDay = maxReq })
	set("min_skip_post_close", func() { cfg.MinSkipDays = minSkip })
	set("max_skip_post_close", func() { cfg.MaxSkipDays = maxSkip })
	set("init_close_prob", func() { cfg.InitCloseProb = initCloseProb })
	set("close_prob_inc", func() { cfg.CloseProbInc = closeProbInc })
	set("max_close_prob", func() { cfg.MaxCloseProb = maxCloseProb })
	set("b_w", func() { cfg.Weights.Borrow = borrowWeight })
	set("o_w", func() { cfg.Weights.Order = orderWeight })
	set("q_w", func() { cfg.Weights.Query = queryWeight })
	set("p_w", func() { cfg.Weights.Pick = pickWeight })
	set("fo_w", func() { cfg.Weights.FailedOrder = failedOWeight })
	set("read_w", func() { cfg.Weights.Read = readWeight })
	set("restore_w", func() { cfg.Weights.Restore = restoreWeight })
	set("b_prio", func() { cfg.BPriority = bPrio })
	set("c_prio", func() { cfg.CPriority = cPrio })
	set("a_read_prio", func() { cfg.AReadPriority = aReadPrio })
	set("new_s_ratio", func() { cfg.NewStudentRatio = newStudentRatio })
	set("ret_prop", func() { cfg.ReturnPropensity = retProp })
	set("pick_prop", func() { cfg.PickPropensity = pickProp })
	set("restore_prop", func() { cfg.RestorePropensity = restoreProp })
	set("max_holdings", func() { cfg.MaxHoldings = maxHold })
	set("pickup_window_days", func() { cfg.PickupWindowDays = pickWindow })
	set("start_year", func() { cfg.StartYear = startYear })
	set("start_month", func() { cfg.StartMonth = startMonth })
	set("start_day", func() { cfg.StartDay = startDay })
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	d := sim.DefaultConfig()

	runCmd.Flags().Int64Var(&seed, "seed", d.Seed, "Seed for deterministic generation")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&scenarioFile, "scenario", "", "YAML scenario preset (flags override it)")

	// Catalog and run shape
	runCmd.Flags().IntVar(&initTypes, "init_types", d.InitTypes, "Distinct titles in the initial catalog")
	runCmd.Flags().IntVar(&initMinCp, "init_min_cp", d.InitMinCopies, "Min copies per title")
	runCmd.Flags().IntVar(&initMaxCp, "init_max_cp", d.InitMaxCopies, "Max copies per title")
	runCmd.Flags().IntVar(&maxCycles, "max_cycles", d.MaxCycles, "OPEN-CLOSE cycles before the run ends")
	runCmd.Flags().IntVar(&maxTotal, "max_total_commands", d.MaxTotalCommands, "Global command budget")
	runCmd.Flags().IntVar(&minReq, "min_req_per_day", d.MinRequestsPerDay, "Min weighted requests per open day")
	runCmd.Flags().IntVar(&maxReq, "max_req_per_day", d.MaxRequestsPerDay, "Max weighted requests per open day")
	runCmd.Flags().IntVar(&minSkip, "min_skip_post_close", d.MinSkipDays, "Min days skipped after a CLOSE")
	runCmd.Flags().IntVar(&maxSkip, "max_skip_post_close", d.MaxSkipDays, "Max days skipped after a CLOSE")
	runCmd.Flags().IntVar(&maxHold, "max_holdings", d.MaxHoldings, "Per-student borrow cap")
	runCmd.Flags().IntVar(&pickWindow, "pickup_window_days", d.PickupWindowDays, "Reservation retention in days")

	// Close probability ramp
	runCmd.Flags().Float64Var(&initCloseProb, "init_close_prob", d.InitCloseProb, "Close probability on a cycle's first open day")
	runCmd.Flags().Float64Var(&closeProbInc, "close_prob_inc", d.CloseProbInc, "Close probability growth per extra open day")
	runCmd.Flags().Float64Var(&maxCloseProb, "max_close_prob", d.MaxCloseProb, "Close probability ceiling")

	// Action weights
	runCmd.Flags().IntVar(&borrowWeight, "b_w", d.Weights.Borrow, "Borrow weight")
	runCmd.Flags().IntVar(&orderWeight, "o_w", d.Weights.Order, "Order weight")
	runCmd.Flags().IntVar(&queryWeight, "q_w", d.Weights.Query, "Query weight")
	runCmd.Flags().IntVar(&pickWeight, "p_w", d.Weights.Pick, "Pick weight")
	runCmd.Flags().IntVar(&failedOWeight, "fo_w", d.Weights.FailedOrder, "Rejection probe weight")
	runCmd.Flags().IntVar(&readWeight, "read_w", d.Weights.Read, "Read weight")
	runCmd.Flags().IntVar(&restoreWeight, "restore_w", d.Weights.Restore, "Restore weight")

	// Category priorities and behavior ratios
	runCmd.Flags().Float64Var(&bPrio, "b_prio", d.BPriority, "Category bias toward B titles")
	runCmd.Flags().Float64Var(&cPrio, "c_prio", d.CPriority, "Category bias toward C titles")
	runCmd.Flags().Float64Var(&aReadPrio, "a_read_prio", d.AReadPriority, "Category bias toward A titles in reads")
	runCmd.Flags().Float64Var(&newStudentRatio, "new_s_ratio", d.NewStudentRatio, "Daily new-student probability")
	runCmd.Flags().Float64Var(&retProp, "ret_prop", d.ReturnPropensity, "Propensity to return held copies")
	runCmd.Flags().Float64Var(&pickProp, "pick_prop", d.PickPropensity, "Propensity to pick up reservations")
	runCmd.Flags().Float64Var(&restoreProp, "restore_prop", d.RestorePropensity, "Propensity to restore reading-room copies")

	// Calendar origin
	runCmd.Flags().IntVar(&startYear, "start_year", d.StartYear, "Calendar origin year")
	runCmd.Flags().IntVar(&startMonth, "start_month", d.StartMonth, "Calendar origin month")
	runCmd.Flags().IntVar(&startDay, "start_day", d.StartDay, "Calendar origin day")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
