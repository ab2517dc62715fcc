package sim

import "fmt"

// Tidy normalizes shelf state. It runs exactly once per Closed→Open
// transition, before any action generation, in this fixed order:
//
//  1. Return-office clearing: every copy in the return office is reshelved
//     (hot shelf if hot, normal shelf otherwise).
//  2. Reading-room clearing: every copy in the reading room is
//     force-restored; the reader's pending read is cleared.
//  3. Reservation expiry: every reservation whose pickup window lapsed is
//     destroyed and its copy reshelved.
//  4. Hot/normal partition check: no hot copy on the normal shelf, no cold
//     copy on the hot shelf.
//
// Copies at the appointment office under a still-valid reservation are
// untouched. Any violated postcondition is an internal consistency error;
// the run must abort rather than keep emitting against corrupted state.
func Tidy(lib *Library, clock *Clock) error {
	for _, b := range lib.BooksAt(ReturnOffice) {
		lib.reshelve(b, clock)
	}
	for _, b := range lib.BooksAt(ReadingRoom) {
		if s := lib.Student(b.HolderID); s != nil && s.PendingRead == b.ID {
			s.PendingRead = ""
		}
		lib.reshelve(b, clock)
	}
	for _, b := range lib.BooksAt(AppointmentOffice) {
		if b.Reservation == nil {
			return fmt.Errorf("tidy: copy %s at appointment office without reservation", b.ID)
		}
		if b.Reservation.Expired(clock.Day) {
			lib.clearReservation(b)
			lib.reshelve(b, clock)
		}
	}

	if n := len(lib.BooksAt(ReturnOffice)); n != 0 {
		return fmt.Errorf("tidy: return office not empty (%d copies)", n)
	}
	if n := len(lib.BooksAt(ReadingRoom)); n != 0 {
		return fmt.Errorf("tidy: reading room not empty (%d copies)", n)
	}
	for _, id := range lib.BookIDs() {
		b := lib.Book(id)
		if b.Location == Shelf && b.Hot {
			return fmt.Errorf("tidy: hot copy %s resting on normal shelf", b.ID)
		}
		if b.Location == HotShelf && !b.Hot {
			return fmt.Errorf("tidy: cold copy %s resting on hot shelf", b.ID)
		}
	}
	return nil
}

// reshelve moves a copy to the shelf its hot flag demands.
func (l *Library) reshelve(b *Book, clock *Clock) {
	l.move(b, b.RestingShelf(), "", clock)
}
