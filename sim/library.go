package sim

import (
	"fmt"
	"sort"

	"github.com/library-sim/library-sim/sim/trace"
)

// Result reports whether a state transition applied and, if not, why it was
// denied. A denied transition leaves the model untouched.
type Result struct {
	Applied bool
	Reason  DenyReason
}

func applied() Result { return Result{Applied: true} }
func denied(r DenyReason) Result { return Result{Reason: r} }

// Library is the single-writer entity model. It exclusively owns every
// Book, Student and Reservation record for the lifetime of one run. All
// mutation goes through the transition methods, each of which validates
// via the feasibility predicates, applies completely or not at all, and
// returns a Result. Errors are reserved for references to records that do
// not exist; those are internal consistency failures, never domain
// rejections.
//
// Thread-confined: a Library must only be touched from one goroutine.
type Library struct {
	books    map[string]*Book
	bookIDs  []string // sorted
	isbns    []string // sorted
	shelf    map[string][]string // ISBN -> resting copy ids, ordered by copy number
	students map[string]*Student
	// studentIDs is creation order; ids are assigned in increasing order so
	// this is also sorted.
	studentIDs []string

	maxHoldings  int
	pickupWindow int

	moves *trace.MovementLog
}

// NewLibrary creates an empty entity model.
func NewLibrary(maxHoldings, pickupWindowDays int) *Library {
	return &Library{
		books:        make(map[string]*Book),
		shelf:        make(map[string][]string),
		students:     make(map[string]*Student),
		maxHoldings:  maxHoldings,
		pickupWindow: pickupWindowDays,
		moves:        trace.NewMovementLog(),
	}
}

// AddBook registers a copy resting on the normal shelf.
func (l *Library) AddBook(b *Book) error {
	if _, ok := l.books[b.ID]; ok {
		return fmt.Errorf("duplicate copy id %s", b.ID)
	}
	b.Location = Shelf
	l.books[b.ID] = b
	l.bookIDs = insertSorted(l.bookIDs, b.ID)
	if _, ok := l.shelf[b.ISBN]; !ok {
		l.isbns = insertSorted(l.isbns, b.ISBN)
	}
	l.shelfInsert(b)
	return nil
}

// AddStudent registers a student with empty holdings. Re-adding an existing
// id returns the existing record.
func (l *Library) AddStudent(id string) *Student {
	if s, ok := l.students[id]; ok {
		return s
	}
	s := NewStudent(id)
	l.students[id] = s
	l.studentIDs = append(l.studentIDs, id)
	return s
}

// Book returns the copy with the given id, or nil.
func (l *Library) Book(id string) *Book {
	return l.books[id]
}

// Student returns the student with the given id, or nil.
func (l *Library) Student(id string) *Student {
	return l.students[id]
}

// Students returns all students in creation order.
func (l *Library) Students() []*Student {
	out := make([]*Student, len(l.studentIDs))
	for i, id := range l.studentIDs {
		out[i] = l.students[id]
	}
	return out
}

// BookIDs returns every copy id in sorted order.
func (l *Library) BookIDs() []string {
	return l.bookIDs
}

// ISBNs returns every title in sorted order.
func (l *Library) ISBNs() []string {
	return l.isbns
}

// ShelfISBNs returns the titles with at least one resting copy, sorted.
func (l *Library) ShelfISBNs() []string {
	out := make([]string, 0, len(l.isbns))
	for _, isbn := range l.isbns {
		if len(l.shelf[isbn]) > 0 {
			out = append(out, isbn)
		}
	}
	return out
}

// ShelfCopy returns the resting copy of a title with the lowest copy
// number, or nil when every copy is out.
func (l *Library) ShelfCopy(isbn string) *Book {
	ids := l.shelf[isbn]
	if len(ids) == 0 {
		return nil
	}
	return l.books[ids[0]]
}

// BooksAt returns the copies currently at the given location, in id order.
func (l *Library) BooksAt(loc Location) []*Book {
	var out []*Book
	for _, id := range l.bookIDs {
		if b := l.books[id]; b.Location == loc {
			out = append(out, b)
		}
	}
	return out
}

// Trace returns the movement history of one copy.
func (l *Library) Trace(bookID string) []trace.Movement {
	return l.moves.ForBook(bookID)
}

// === Transitions ===

// Borrow lends the lowest-numbered resting copy of isbn to the student.
// The copy becomes hot permanently.
func (l *Library) Borrow(studentID, isbn string, clock *Clock) (Result, error) {
	s, err := l.student(studentID)
	if err != nil {
		return Result{}, err
	}
	b := l.ShelfCopy(isbn)
	if b == nil {
		return l.titleUnavailable(isbn)
	}
	if v := CanBorrow(s, b, l.maxHoldings); !v.OK() {
		return denied(v.Reason), nil
	}
	if b.Type == TypeB {
		s.HeldB = b.ID
	} else {
		s.HeldC[b.ISBN] = b.ID
	}
	b.Hot = true
	l.move(b, HeldByStudent, s.ID, clock)
	return applied(), nil
}

// Order reserves the lowest-numbered resting copy of isbn for the student.
// The copy moves to the appointment office and must be picked within the
// pickup window.
func (l *Library) Order(studentID, isbn string, clock *Clock) (Result, error) {
	s, err := l.student(studentID)
	if err != nil {
		return Result{}, err
	}
	b := l.ShelfCopy(isbn)
	if b == nil {
		return l.titleUnavailable(isbn)
	}
	if v := CanOrder(s, b); !v.OK() {
		return denied(v.Reason), nil
	}
	res := &Reservation{
		BookID:      b.ID,
		StudentID:   s.ID,
		CreatedDay:  clock.Day,
		DeadlineDay: clock.Day + l.pickupWindow,
	}
	b.Reservation = res
	if b.Type == TypeB {
		s.ReservedB = b.ID
	} else {
		s.ReservedC[b.ISBN] = b.ID
	}
	l.move(b, AppointmentOffice, "", clock)
	return applied(), nil
}

// Pick hands the student the copy of isbn reserved for them at the
// appointment office, consuming the reservation.
func (l *Library) Pick(studentID, isbn string, clock *Clock) (Result, error) {
	s, err := l.student(studentID)
	if err != nil {
		return Result{}, err
	}
	b := l.reservedCopy(s, isbn)
	if b == nil {
		return denied(DenyNoReservation), nil
	}
	if v := CanPick(s, b, clock.Day); !v.OK() {
		return denied(v.Reason), nil
	}
	l.clearReservation(b)
	if b.Type == TypeB {
		s.HeldB = b.ID
	} else {
		s.HeldC[b.ISBN] = b.ID
	}
	l.move(b, HeldByStudent, s.ID, clock)
	return applied(), nil
}

// Return takes a held copy back; it waits in the return office until the
// next tidy sweep reshelves it.
func (l *Library) Return(studentID, bookID string, clock *Clock) (Result, error) {
	s, err := l.student(studentID)
	if err != nil {
		return Result{}, err
	}
	b, err := l.book(bookID)
	if err != nil {
		return Result{}, err
	}
	if v := CanReturn(s, b); !v.OK() {
		return denied(v.Reason), nil
	}
	if b.Type == TypeB && s.HeldB == b.ID {
		s.HeldB = ""
	} else if b.Type == TypeC && s.HeldC[b.ISBN] == b.ID {
		delete(s.HeldC, b.ISBN)
	}
	l.move(b, ReturnOffice, "", clock)
	return applied(), nil
}

// Read takes the lowest-numbered resting copy of isbn into the reading
// room for the student. The copy becomes hot permanently and the student
// may not read again until this copy is restored.
func (l *Library) Read(studentID, isbn string, clock *Clock) (Result, error) {
	s, err := l.student(studentID)
	if err != nil {
		return Result{}, err
	}
	b := l.ShelfCopy(isbn)
	if b == nil {
		return l.titleUnavailable(isbn)
	}
	if v := CanRead(s, b); !v.OK() {
		return denied(v.Reason), nil
	}
	s.PendingRead = b.ID
	b.Hot = true
	l.move(b, ReadingRoom, s.ID, clock)
	return applied(), nil
}

// Restore returns a copy from the reading room to the return office,
// clearing the student's pending read.
func (l *Library) Restore(studentID, bookID string, clock *Clock) (Result, error) {
	s, err := l.student(studentID)
	if err != nil {
		return Result{}, err
	}
	b, err := l.book(bookID)
	if err != nil {
		return Result{}, err
	}
	if v := CanRestore(s, b); !v.OK() {
		return denied(v.Reason), nil
	}
	s.PendingRead = ""
	l.move(b, ReturnOffice, "", clock)
	return applied(), nil
}

// OrderVerdict evaluates an order for its deny reason without mutating
// anything. Used to vet intentionally-failing probes.
func (l *Library) OrderVerdict(s *Student, isbn string) Verdict {
	if b := l.ShelfCopy(isbn); b != nil {
		return CanOrder(s, b)
	}
	if b := l.anyCopy(isbn); b != nil {
		if b.Type == TypeA {
			return deny(DenyReadOnly)
		}
		return deny(unavailableReason(b))
	}
	return deny(DenyNotOnShelf)
}

// === Internal helpers ===

func (l *Library) student(id string) (*Student, error) {
	s, ok := l.students[id]
	if !ok {
		return nil, fmt.Errorf("unknown student %s", id)
	}
	return s, nil
}

func (l *Library) book(id string) (*Book, error) {
	b, ok := l.books[id]
	if !ok {
		return nil, fmt.Errorf("unknown copy %s", id)
	}
	return b, nil
}

// titleUnavailable builds the deny result for a title with no resting copy.
// An unknown title is an internal error: the sampler only targets the
// catalog.
func (l *Library) titleUnavailable(isbn string) (Result, error) {
	b := l.anyCopy(isbn)
	if b == nil {
		return Result{}, fmt.Errorf("unknown title %s", isbn)
	}
	return denied(unavailableReason(b)), nil
}

// anyCopy returns the lowest-numbered copy of a title regardless of
// location. Copy ids are "ISBN-NN", so they sort directly after "ISBN-".
func (l *Library) anyCopy(isbn string) *Book {
	idx := sort.SearchStrings(l.bookIDs, isbn+"-")
	if idx < len(l.bookIDs) {
		if b := l.books[l.bookIDs[idx]]; b.ISBN == isbn {
			return b
		}
	}
	return nil
}

// reservedCopy resolves the copy of isbn reserved for this student, if any.
func (l *Library) reservedCopy(s *Student, isbn string) *Book {
	if s.ReservedB != "" {
		if b := l.books[s.ReservedB]; b != nil && b.ISBN == isbn {
			return b
		}
	}
	if id, ok := s.ReservedC[isbn]; ok {
		return l.books[id]
	}
	return nil
}

// clearReservation detaches a reservation from both the copy and the
// student index.
func (l *Library) clearReservation(b *Book) {
	res := b.Reservation
	if res == nil {
		return
	}
	if s := l.students[res.StudentID]; s != nil {
		if s.ReservedB == b.ID {
			s.ReservedB = ""
		}
		if s.ReservedC[b.ISBN] == b.ID {
			delete(s.ReservedC, b.ISBN)
		}
	}
	b.Reservation = nil
}

// move relocates a copy, maintaining the shelf index and the movement log.
func (l *Library) move(b *Book, to Location, holder string, clock *Clock) {
	from := b.Location
	if b.OnShelf() {
		l.shelfRemove(b)
	}
	b.Location = to
	b.HolderID = holder
	if b.OnShelf() {
		l.shelfInsert(b)
	}
	l.moves.Record(b.ID, trace.Movement{
		Date: clock.DateString(),
		From: from.String(),
		To:   to.String(),
	})
}

func (l *Library) shelfInsert(b *Book) {
	ids := l.shelf[b.ISBN]
	pos := sort.Search(len(ids), func(i int) bool {
		return l.books[ids[i]].CopyNum >= b.CopyNum
	})
	ids = append(ids, "")
	copy(ids[pos+1:], ids[pos:])
	ids[pos] = b.ID
	l.shelf[b.ISBN] = ids
}

func (l *Library) shelfRemove(b *Book) {
	ids := l.shelf[b.ISBN]
	for i, id := range ids {
		if id == b.ID {
			l.shelf[b.ISBN] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}

func insertSorted(list []string, v string) []string {
	pos := sort.SearchStrings(list, v)
	list = append(list, "")
	copy(list[pos+1:], list[pos:])
	list[pos] = v
	return list
}
