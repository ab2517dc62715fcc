// Package trace records per-copy movement history during a generation run.
// Query commands target copies whose history lives here, and the tidy
// postcondition tests read these records.
package trace

// MovementLog accumulates movements keyed by copy id.
type MovementLog struct {
	byBook map[string][]Movement
}

// NewMovementLog creates an empty MovementLog.
func NewMovementLog() *MovementLog {
	return &MovementLog{byBook: make(map[string][]Movement)}
}

// Record appends a movement for the given copy. Moves that do not change
// location are dropped.
func (ml *MovementLog) Record(bookID string, m Movement) {
	if m.From == m.To {
		return
	}
	ml.byBook[bookID] = append(ml.byBook[bookID], m)
}

// ForBook returns a copy of the movement history of one copy, oldest first.
func (ml *MovementLog) ForBook(bookID string) []Movement {
	moves := ml.byBook[bookID]
	if len(moves) == 0 {
		return nil
	}
	out := make([]Movement, len(moves))
	copy(out, moves)
	return out
}

// Len returns the number of recorded movements for one copy.
func (ml *MovementLog) Len(bookID string) int {
	return len(ml.byBook[bookID])
}
