package sim

// DenyReason is a stable, enumerable code explaining why an action is
// infeasible right now. Reasons feed the intentionally-failing sampling
// bucket and serve as test oracles; their string forms are part of the
// generator's observable behavior and must not change meaning.
type DenyReason int

const (
	DenyNone DenyReason = iota
	// DenyReadOnly: A-type books are never borrowable or orderable.
	DenyReadOnly
	// DenyNotOnShelf: no resting copy of the target is available.
	DenyNotOnShelf
	// DenyAlreadyHeld: the copy is in some student's hands.
	DenyAlreadyHeld
	// DenyReserved: the copy waits at the appointment office for someone.
	DenyReserved
	// DenyInTransit: the copy sits in the return office or reading room.
	DenyInTransit
	// DenyHoldsB: the student already holds or reserves a B-type book.
	DenyHoldsB
	// DenyHoldsISBN: the student already holds or reserves this C ISBN.
	DenyHoldsISBN
	// DenyHoldingCap: the student is at the per-student holding limit.
	DenyHoldingCap
	// DenyNoReservation: no matching reservation exists for this student.
	DenyNoReservation
	// DenyDeadlinePassed: the reservation's pickup window has lapsed.
	DenyDeadlinePassed
	// DenyNotHeld: the student does not hold this copy.
	DenyNotHeld
	// DenyUnrestoredRead: the student has an unrestored read pending.
	DenyUnrestoredRead
	// DenyNotReading: the student is not reading this copy.
	DenyNotReading
)

func (r DenyReason) String() string {
	switch r {
	case DenyNone:
		return "ok"
	case DenyReadOnly:
		return "read-only"
	case DenyNotOnShelf:
		return "not on shelf"
	case DenyAlreadyHeld:
		return "already held"
	case DenyReserved:
		return "reserved"
	case DenyInTransit:
		return "in transit"
	case DenyHoldsB:
		return "holds a B book"
	case DenyHoldsISBN:
		return "holds this ISBN"
	case DenyHoldingCap:
		return "holding cap reached"
	case DenyNoReservation:
		return "no reservation"
	case DenyDeadlinePassed:
		return "deadline passed"
	case DenyNotHeld:
		return "not held"
	case DenyUnrestoredRead:
		return "unrestored read pending"
	case DenyNotReading:
		return "not reading"
	}
	return "unknown"
}

// Verdict is the outcome of one feasibility predicate.
type Verdict struct {
	Reason DenyReason
}

// OK reports whether the action is allowed.
func (v Verdict) OK() bool {
	return v.Reason == DenyNone
}

func allow() Verdict { return Verdict{} }
func deny(r DenyReason) Verdict { return Verdict{Reason: r} }

// unavailableReason explains why a copy that is not resting on a shelf
// cannot be acquired.
func unavailableReason(b *Book) DenyReason {
	switch b.Location {
	case HeldByStudent:
		return DenyAlreadyHeld
	case AppointmentOffice:
		return DenyReserved
	case ReturnOffice, ReadingRoom:
		return DenyInTransit
	}
	return DenyNotOnShelf
}

// CanBorrow checks whether s may borrow copy b right now. Only B and C
// types circulate; the copy must rest on a shelf; category exclusivity and
// the per-student holding cap apply.
func CanBorrow(s *Student, b *Book, maxHoldings int) Verdict {
	if b.Type == TypeA {
		return deny(DenyReadOnly)
	}
	if !b.OnShelf() {
		return deny(unavailableReason(b))
	}
	if b.Type == TypeB && s.HasB() {
		return deny(DenyHoldsB)
	}
	if b.Type == TypeC && s.HasISBN(b.ISBN) {
		return deny(DenyHoldsISBN)
	}
	if s.Holdings() >= maxHoldings {
		return deny(DenyHoldingCap)
	}
	return allow()
}

// CanOrder checks whether s may order copy b. Same category exclusivity as
// CanBorrow, but checked against outstanding reservations as well as
// holdings; the copy must not already be held or reserved by anyone.
func CanOrder(s *Student, b *Book) Verdict {
	if b.Type == TypeA {
		return deny(DenyReadOnly)
	}
	if !b.OnShelf() {
		return deny(unavailableReason(b))
	}
	if b.Type == TypeB && s.HasB() {
		return deny(DenyHoldsB)
	}
	if b.Type == TypeC && s.HasISBN(b.ISBN) {
		return deny(DenyHoldsISBN)
	}
	return allow()
}

// CanPick checks whether s may pick up copy b from the appointment office
// on the given day.
func CanPick(s *Student, b *Book, day int) Verdict {
	if b.Reservation == nil || b.Reservation.StudentID != s.ID {
		return deny(DenyNoReservation)
	}
	if b.Reservation.Expired(day) {
		return deny(DenyDeadlinePassed)
	}
	return allow()
}

// CanReturn checks whether s currently holds copy b.
func CanReturn(s *Student, b *Book) Verdict {
	if b.Location != HeldByStudent || b.HolderID != s.ID {
		return deny(DenyNotHeld)
	}
	return allow()
}

// CanRead checks whether s may read copy b in the reading room. Any type
// may be read, but the copy must rest on a shelf and the student must have
// no unrestored read pending.
func CanRead(s *Student, b *Book) Verdict {
	if !b.OnShelf() {
		return deny(unavailableReason(b))
	}
	if s.PendingRead != "" {
		return deny(DenyUnrestoredRead)
	}
	return allow()
}

// CanRestore checks whether s may restore copy b from the reading room.
func CanRestore(s *Student, b *Book) Verdict {
	if s.PendingRead != b.ID || b.Location != ReadingRoom || b.HolderID != s.ID {
		return deny(DenyNotReading)
	}
	return allow()
}
