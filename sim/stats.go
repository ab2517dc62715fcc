package sim

import (
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RunStats aggregates per-run counters for the end-of-run summary.
type RunStats struct {
	RunID    uuid.UUID
	Commands int
	Cycles   int
	OpenDays int
	Probes   int
	ByKind   map[ActionKind]int
}

// NewRunStats creates an empty stats collector for one run.
func NewRunStats(id uuid.UUID) *RunStats {
	return &RunStats{RunID: id, ByKind: make(map[ActionKind]int)}
}

// Count records one emitted action.
func (st *RunStats) Count(a Action) {
	st.Commands++
	st.ByKind[a.Kind]++
	if a.Infeasible {
		st.Probes++
	}
}

// Log writes the run summary at info level.
func (st *RunStats) Log() {
	logrus.Infof("run %s: %d commands over %d open days in %d cycles (%d rejection probes)",
		st.RunID, st.Commands, st.OpenDays, st.Cycles, st.Probes)
	kinds := make([]ActionKind, 0, len(st.ByKind))
	for k := range st.ByKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		logrus.Infof("  %-10s %d", k.Verb(), st.ByKind[k])
	}
}
