package sim

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Scheduler drives the day/cycle loop: it opens the library, runs the
// tidy pass, generates a day's worth of commands, and draws the close.
// One cycle is one OPEN..CLOSE span; the run ends after MaxCycles cycles
// or when the global command budget is spent, whichever comes first.
type Scheduler struct {
	cfg     *Config
	lib     *Library
	clock   *Clock
	factory *Factory
	sampler *Sampler
	emitter Emitter
	rng     *rand.Rand
	stats   *RunStats
}

// NewScheduler wires a complete generator for one run. All randomness is
// derived from cfg.Seed through the partitioned RNG, so two schedulers
// with the same configuration produce identical streams.
func NewScheduler(cfg *Config, em Emitter, runID uuid.UUID) *Scheduler {
	prng := NewPartitionedRNG(NewKey(cfg.Seed))
	lib := NewLibrary(cfg.MaxHoldings, cfg.PickupWindowDays)
	return &Scheduler{
		cfg:     cfg,
		lib:     lib,
		clock:   NewClock(cfg.StartDate(), cfg.InitCloseProb, cfg.CloseProbInc, cfg.MaxCloseProb),
		factory: NewFactory(cfg, lib, prng.ForSubsystem(SubsystemFactory)),
		sampler: NewSampler(cfg, lib, prng.ForSubsystem(SubsystemActions)),
		emitter: em,
		rng:     prng.ForSubsystem(SubsystemSchedule),
		stats:   NewRunStats(runID),
	}
}

// Library exposes the final model state, for post-run inspection.
func (sc *Scheduler) Library() *Library {
	return sc.lib
}

// Run executes the full generation loop and returns the run summary.
func (sc *Scheduler) Run() (*RunStats, error) {
	if err := sc.factory.SeedCatalog(); err != nil {
		return sc.stats, err
	}
	sc.factory.NewStudent()

	for sc.stats.Cycles < sc.cfg.MaxCycles && sc.budgetLeft() {
		// Tidy and the OPEN command belong to the Closed->Open transition
		// only; consecutive open days run without either.
		if !sc.clock.IsOpen {
			sc.clock.Open()
			if err := Tidy(sc.lib, sc.clock); err != nil {
				return sc.stats, err
			}
			sc.emit(Action{Kind: ActionOpen})
		}
		logrus.Debugf("day %d (%s) open, close probability %.2f",
			sc.clock.Day, sc.clock.DateString(), sc.clock.CloseProbability())
		sc.stats.OpenDays++

		if sc.rng.Float64() < sc.cfg.NewStudentRatio {
			sc.factory.NewStudent()
		}
		if err := sc.generateDay(); err != nil {
			return sc.stats, err
		}

		if !sc.budgetLeft() {
			break
		}
		if sc.rng.Float64() < sc.clock.CloseProbability() {
			sc.emit(Action{Kind: ActionClose})
			sc.clock.Close(randRange(sc.rng, sc.cfg.MinSkipDays, sc.cfg.MaxSkipDays))
			sc.stats.Cycles++
		} else {
			sc.clock.NextOpenDay()
		}
	}
	return sc.stats, nil
}

// generateDay emits one open day's commands: opportunistic returns and
// pickups first, then the weighted request slots.
func (sc *Scheduler) generateDay() error {
	n := randRange(sc.rng, sc.cfg.MinRequestsPerDay, sc.cfg.MaxRequestsPerDay)

	// Returns and pickups are not counted against the request slots, but
	// both are capped so long days cannot flood the stream with upkeep.
	upkeep := n / 3
	if upkeep > 3 {
		upkeep = 3
	}
	for i := 0; i < upkeep && sc.budgetLeft(); i++ {
		if sc.rng.Float64() >= sc.cfg.ReturnPropensity {
			continue
		}
		a, ok := sc.sampler.OpportunisticReturn()
		if !ok {
			break
		}
		if err := sc.apply(a); err != nil {
			return err
		}
	}
	for i := 0; i < upkeep && sc.budgetLeft(); i++ {
		if sc.rng.Float64() >= sc.cfg.PickPropensity {
			continue
		}
		a, ok := sc.sampler.OpportunisticPick(sc.clock)
		if !ok {
			break
		}
		if err := sc.apply(a); err != nil {
			return err
		}
	}

	for i := 0; i < n && sc.budgetLeft(); i++ {
		a, ok := sc.sampler.Next(sc.clock)
		if !ok {
			return fmt.Errorf("sampler produced no action on day %d with a non-empty catalog", sc.clock.Day)
		}
		if err := sc.apply(a); err != nil {
			return err
		}
	}
	return nil
}

// apply mutates the model for a feasible action, then emits it. Probes
// skip the mutation. A feasible draw the model refuses means the sampler
// and the feasibility rules disagree, which is fatal.
func (sc *Scheduler) apply(a Action) error {
	if a.Infeasible {
		logrus.Debugf("probe: %s orders %s (%s)", a.Student, a.Target, a.Reason)
		sc.emit(a)
		return nil
	}
	res, err := sc.transition(a)
	if err != nil {
		return err
	}
	if !res.Applied {
		return fmt.Errorf("sampled %s by %s on %s rejected by model: %s",
			a.Kind.Verb(), a.Student, a.Target, res.Reason)
	}
	sc.emit(a)
	return nil
}

func (sc *Scheduler) transition(a Action) (Result, error) {
	switch a.Kind {
	case ActionBorrow:
		return sc.lib.Borrow(a.Student, a.Target, sc.clock)
	case ActionOrder:
		return sc.lib.Order(a.Student, a.Target, sc.clock)
	case ActionPick:
		return sc.lib.Pick(a.Student, a.Target, sc.clock)
	case ActionReturn:
		return sc.lib.Return(a.Student, a.Target, sc.clock)
	case ActionRead:
		return sc.lib.Read(a.Student, a.Target, sc.clock)
	case ActionRestore:
		return sc.lib.Restore(a.Student, a.Target, sc.clock)
	case ActionQuery:
		// Queries never touch the model.
		return Result{Applied: true}, nil
	}
	return Result{}, fmt.Errorf("cannot apply action kind %d", a.Kind)
}

func (sc *Scheduler) emit(a Action) {
	sc.emitter.Emit(Command{
		Date:    sc.clock.DateString(),
		Kind:    a.Kind,
		Student: a.Student,
		Target:  a.Target,
	})
	sc.stats.Count(a)
}

func (sc *Scheduler) budgetLeft() bool {
	return sc.stats.Commands < sc.cfg.MaxTotalCommands
}
