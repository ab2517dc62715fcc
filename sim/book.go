package sim

// BookType partitions the catalog. A-type titles are read-only and never
// leave the building. B-type titles carry single-copy-per-student semantics
// across the whole library. C-type titles are limited per ISBN per student.
type BookType byte

const (
	TypeA BookType = 'A'
	TypeB BookType = 'B'
	TypeC BookType = 'C'
)

// TypeOf derives the book type from an id or ISBN ("B-0001", "B-0001-02").
func TypeOf(idOrISBN string) BookType {
	if idOrISBN == "" {
		return 0
	}
	return BookType(idOrISBN[0])
}

// Location is where a copy currently rests.
type Location int

const (
	Shelf Location = iota
	HotShelf
	ReadingRoom
	AppointmentOffice
	ReturnOffice
	HeldByStudent
)

// String returns the short location code used on the wire and in traces.
func (l Location) String() string {
	switch l {
	case Shelf:
		return "bs"
	case HotShelf:
		return "hbs"
	case ReadingRoom:
		return "rr"
	case AppointmentOffice:
		return "ao"
	case ReturnOffice:
		return "bro"
	case HeldByStudent:
		return "user"
	}
	return "?"
}

// Reservation binds a copy at the appointment office to the student who
// ordered it. The copy must be picked by DeadlineDay or the next tidy sweep
// destroys the reservation.
type Reservation struct {
	BookID      string
	StudentID   string
	CreatedDay  int
	DeadlineDay int
}

// Expired reports whether the pickup window has lapsed by the given day.
func (r *Reservation) Expired(day int) bool {
	return day > r.DeadlineDay
}

// Book is a single physical copy. All copies of one title share the ISBN;
// the copy id is ISBN-NN.
type Book struct {
	ID      string
	ISBN    string
	Type    BookType
	CopyNum int

	Location Location
	// HolderID is the student holding (HeldByStudent) or reading
	// (ReadingRoom) this copy.
	HolderID string
	// Hot is set once the copy has ever been borrowed or read; never reset.
	Hot         bool
	Reservation *Reservation
}

// OnShelf reports whether the copy rests on either shelf.
func (b *Book) OnShelf() bool {
	return b.Location == Shelf || b.Location == HotShelf
}

// RestingShelf is the shelf this copy belongs on when it is not held,
// reserved or in transit.
func (b *Book) RestingShelf() Location {
	if b.Hot {
		return HotShelf
	}
	return Shelf
}
