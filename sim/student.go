package sim

// Student carries the per-student exclusivity indexes: at most one B copy
// (held or reserved) at any time, and at most one copy per distinct C ISBN
// (held or reserved). A-type books are only ever read in place.
type Student struct {
	ID string

	// HeldB is the copy id of the held B-type book, if any.
	HeldB string
	// HeldC maps ISBN to the held copy id of that C-type title.
	HeldC map[string]string

	// ReservedB is the copy id of the B-type book reserved at the
	// appointment office, if any.
	ReservedB string
	// ReservedC maps ISBN to the reserved copy id of that C-type title.
	ReservedC map[string]string

	// PendingRead is the copy this student took into the reading room and
	// has not yet restored. Set on Read, cleared by Restore or by the
	// reading-room clearing of the next tidy sweep. While set, further
	// reads by this student are denied.
	PendingRead string
}

// NewStudent creates a student with empty holdings.
func NewStudent(id string) *Student {
	return &Student{
		ID:        id,
		HeldC:     make(map[string]string),
		ReservedC: make(map[string]string),
	}
}

// Holdings returns how many copies the student currently holds.
func (s *Student) Holdings() int {
	n := len(s.HeldC)
	if s.HeldB != "" {
		n++
	}
	return n
}

// HasB reports whether the student holds or reserves any B-type copy.
func (s *Student) HasB() bool {
	return s.HeldB != "" || s.ReservedB != ""
}

// HasISBN reports whether the student holds or reserves a copy of the given
// C-type ISBN.
func (s *Student) HasISBN(isbn string) bool {
	if _, ok := s.HeldC[isbn]; ok {
		return true
	}
	_, ok := s.ReservedC[isbn]
	return ok
}
