package sim

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runScheduler(t *testing.T, cfg *Config) (*RecordingEmitter, *RunStats, *Scheduler) {
	t.Helper()
	require.NoError(t, cfg.Validate())
	rec := &RecordingEmitter{}
	sched := NewScheduler(cfg, rec, uuid.Nil)
	stats, err := sched.Run()
	require.NoError(t, err)
	return rec, stats, sched
}

// === Stream Shape Tests ===

func TestScheduler_StreamStartsWithOpen(t *testing.T) {
	cfg := DefaultConfig()
	rec, _, _ := runScheduler(t, cfg)

	require.NotEmpty(t, rec.Commands)
	assert.Equal(t, ActionOpen, rec.Commands[0].Kind)
}

func TestScheduler_OpenCloseAlternate(t *testing.T) {
	cfg := DefaultConfig()
	rec, _, _ := runScheduler(t, cfg)

	open := false
	for i, c := range rec.Commands {
		switch c.Kind {
		case ActionOpen:
			require.False(t, open, "OPEN at %d while already open", i)
			open = true
		case ActionClose:
			require.True(t, open, "CLOSE at %d while closed", i)
			open = false
		default:
			require.True(t, open, "command at %d outside an open day", i)
		}
	}
}

func TestScheduler_DatesNeverDecrease(t *testing.T) {
	cfg := DefaultConfig()
	rec, _, _ := runScheduler(t, cfg)

	prev := ""
	for i, c := range rec.Commands {
		if prev != "" && c.Date < prev {
			t.Fatalf("date went backwards at %d: %s after %s", i, c.Date, prev)
		}
		prev = c.Date
	}
}

func TestScheduler_BudgetStopsRunExactly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTotalCommands = 37
	cfg.MaxCycles = 1000
	rec, stats, _ := runScheduler(t, cfg)

	assert.Equal(t, 37, stats.Commands)
	assert.Len(t, rec.Commands, 37)
}

func TestScheduler_CycleCapStopsRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxCycles = 2
	cfg.MaxTotalCommands = 100000
	cfg.InitCloseProb = 1 // close after every open day
	cfg.MaxCloseProb = 1
	rec, stats, _ := runScheduler(t, cfg)

	assert.Equal(t, 2, stats.Cycles)
	closes := 0
	for _, c := range rec.Commands {
		if c.Kind == ActionClose {
			closes++
		}
	}
	assert.Equal(t, 2, closes)
}

func TestScheduler_OpenEmittedOnlyOnReopen(t *testing.T) {
	// With the close draw disabled the library opens once and then runs
	// day after day without another OPEN.
	cfg := DefaultConfig()
	cfg.InitCloseProb = 0
	cfg.CloseProbInc = 0
	cfg.MaxCloseProb = 0
	cfg.MaxTotalCommands = 80
	rec, stats, _ := runScheduler(t, cfg)

	opens := 0
	for _, c := range rec.Commands {
		if c.Kind == ActionOpen {
			opens++
		}
	}
	assert.Equal(t, 1, opens)
	assert.Greater(t, stats.OpenDays, 1)
}

// === Determinism Tests ===

func TestScheduler_SameSeedSameStream(t *testing.T) {
	rec1, _, _ := runScheduler(t, DefaultConfig())
	rec2, _, _ := runScheduler(t, DefaultConfig())
	assert.Equal(t, rec1.Lines(), rec2.Lines())
}

func TestScheduler_DifferentSeedDifferentStream(t *testing.T) {
	cfg2 := DefaultConfig()
	cfg2.Seed = 1337
	rec1, _, _ := runScheduler(t, DefaultConfig())
	rec2, _, _ := runScheduler(t, cfg2)
	assert.NotEqual(t, strings.Join(rec1.Lines(), "\n"), strings.Join(rec2.Lines(), "\n"))
}

// === Behavior Knob Tests ===

func TestScheduler_ZeroRestorePropensityEmitsNoRestores(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RestorePropensity = 0
	rec, _, _ := runScheduler(t, cfg)

	for _, c := range rec.Commands {
		assert.NotEqual(t, ActionRestore, c.Kind)
	}
}

func TestScheduler_PendingReadBlocksUntilReopen(t *testing.T) {
	// One student, reads only, zero restore propensity, close draw
	// disabled: the first read leaves the copy in the reading room and no
	// tidy sweep ever clears it, so no second read can be drawn.
	cfg := DefaultConfig()
	cfg.Weights = ActionWeights{Read: 1}
	cfg.RestorePropensity = 0
	cfg.NewStudentRatio = 0
	cfg.InitCloseProb = 0
	cfg.CloseProbInc = 0
	cfg.MaxCloseProb = 0
	cfg.MaxTotalCommands = 60
	rec, _, _ := runScheduler(t, cfg)

	reads, restores := 0, 0
	for _, c := range rec.Commands {
		switch c.Kind {
		case ActionRead:
			reads++
		case ActionRestore:
			restores++
		}
	}
	assert.Equal(t, 1, reads)
	assert.Zero(t, restores)
}

func TestScheduler_TidyReenablesReadsAfterReopen(t *testing.T) {
	// Same reader setup, but closing every day: each reopening
	// force-restores the reading room, so one read lands per cycle.
	cfg := DefaultConfig()
	cfg.Weights = ActionWeights{Read: 1}
	cfg.RestorePropensity = 0
	cfg.NewStudentRatio = 0
	cfg.InitCloseProb = 1
	cfg.MaxCloseProb = 1
	cfg.MaxCycles = 3
	rec, stats, _ := runScheduler(t, cfg)

	reads := 0
	for _, c := range rec.Commands {
		if c.Kind == ActionRead {
			reads++
		}
	}
	require.Equal(t, 3, stats.Cycles)
	assert.Equal(t, 3, reads)
}

func TestScheduler_ProbesAreCounted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights = ActionWeights{FailedOrder: 1, Query: 1}
	cfg.MaxTotalCommands = 400
	cfg.MaxCycles = 20
	_, stats, _ := runScheduler(t, cfg)

	assert.Equal(t, stats.Probes, stats.ByKind[ActionFailedOrder])
}

// === Model Invariant Tests ===

func TestScheduler_FinalStateExclusivity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTotalCommands = 2000
	cfg.MaxCycles = 30
	_, _, sched := runScheduler(t, cfg)

	lib := sched.Library()
	for _, s := range lib.Students() {
		// At most one B held or reserved, never both.
		if s.HeldB != "" && s.ReservedB != "" {
			t.Errorf("student %s holds %s and reserves %s", s.ID, s.HeldB, s.ReservedB)
		}
		for isbn, id := range s.HeldC {
			if other, ok := s.ReservedC[isbn]; ok {
				t.Errorf("student %s holds %s and reserves %s of the same ISBN", s.ID, id, other)
			}
		}
		if s.Holdings() > cfg.MaxHoldings {
			t.Errorf("student %s holds %d copies, cap is %d", s.ID, s.Holdings(), cfg.MaxHoldings)
		}
	}

	// Every held copy is indexed by exactly its holder.
	for _, id := range lib.BookIDs() {
		b := lib.Book(id)
		if b.Location == HeldByStudent {
			s := lib.Student(b.HolderID)
			require.NotNil(t, s, "copy %s held by unknown student %s", id, b.HolderID)
			if b.Type == TypeB {
				assert.Equal(t, id, s.HeldB)
			} else {
				assert.Equal(t, id, s.HeldC[b.ISBN])
			}
		}
		if b.Location == AppointmentOffice {
			require.NotNil(t, b.Reservation, "copy %s at appointment office unreserved", id)
		}
	}
}

func TestScheduler_StatsMatchStream(t *testing.T) {
	cfg := DefaultConfig()
	rec, stats, _ := runScheduler(t, cfg)

	assert.Equal(t, len(rec.Commands), stats.Commands)
	total := 0
	for _, n := range stats.ByKind {
		total += n
	}
	assert.Equal(t, stats.Commands, total)
	// OPEN marks reopenings, not open days; a multi-day open run has more
	// open days than OPEN commands.
	assert.GreaterOrEqual(t, stats.OpenDays, stats.ByKind[ActionOpen])
	balance := stats.ByKind[ActionOpen] - stats.ByKind[ActionClose]
	assert.Contains(t, []int{0, 1}, balance)
}
