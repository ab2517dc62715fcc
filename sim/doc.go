// Package sim provides the core library scenario generation engine.
//
// # Reading Guide
//
// Start with these three files to understand the generation kernel:
//   - library.go: the entity model and its atomic state transitions
//   - sampler.go: weighted action draws against the current state
//   - scheduler.go: the OPEN/CLOSE cycle state machine and run budgets
//
// # Architecture
//
// One generation run is a sequential discrete-event simulation of a
// library's day-by-day operation. The Scheduler alternates tidy sweeps
// (tidy.go) with open days; on each open day the Sampler draws weighted
// actions, the Library validates and applies them via the feasibility
// predicates (feasibility.go), and the accepted stream is rendered by an
// Emitter (emitter.go) for the system under test. A controlled fraction of
// deliberately infeasible commands is emitted unapplied to probe the
// consumer's rejection path.
//
// Sub-packages:
//   - sim/scenario/: YAML scenario files mapping onto Config
//   - sim/trace/: per-copy movement records backing query commands
//
// # Determinism
//
// Every random draw flows from a PartitionedRNG (rng.go) seeded by the
// master seed, and all iteration over map-backed state goes through sorted
// or insertion-ordered slices. Two runs with the same seed and
// configuration emit bit-for-bit identical streams.
package sim
