package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLibrary builds a small fixed catalog: one A title with one copy, one
// B title with two copies, one C title with two copies, plus one student.
func testLibrary(t *testing.T) (*Library, *Clock) {
	t.Helper()
	lib := NewLibrary(10, 5)
	for _, b := range []*Book{
		{ID: "A-0001-01", ISBN: "A-0001", Type: TypeA, CopyNum: 1},
		{ID: "B-0001-01", ISBN: "B-0001", Type: TypeB, CopyNum: 1},
		{ID: "B-0001-02", ISBN: "B-0001", Type: TypeB, CopyNum: 2},
		{ID: "C-0001-01", ISBN: "C-0001", Type: TypeC, CopyNum: 1},
		{ID: "C-0001-02", ISBN: "C-0001", Type: TypeC, CopyNum: 2},
	} {
		require.NoError(t, lib.AddBook(b))
	}
	lib.AddStudent("23370001")
	return lib, testClock()
}

// === Registration Tests ===

func TestLibrary_AddBookRejectsDuplicate(t *testing.T) {
	lib, _ := testLibrary(t)
	err := lib.AddBook(&Book{ID: "B-0001-01", ISBN: "B-0001", Type: TypeB, CopyNum: 1})
	assert.Error(t, err)
}

func TestLibrary_AddStudentIdempotent(t *testing.T) {
	lib, _ := testLibrary(t)
	s1 := lib.AddStudent("23370001")
	s2 := lib.AddStudent("23370001")
	assert.Same(t, s1, s2)
	assert.Len(t, lib.Students(), 1)
}

// === Borrow Tests ===

func TestLibrary_BorrowTakesLowestCopy(t *testing.T) {
	lib, clock := testLibrary(t)
	res, err := lib.Borrow("23370001", "B-0001", clock)
	require.NoError(t, err)
	require.True(t, res.Applied)

	b := lib.Book("B-0001-01")
	assert.Equal(t, HeldByStudent, b.Location)
	assert.Equal(t, "23370001", b.HolderID)
	assert.True(t, b.Hot)
	assert.Equal(t, "B-0001-01", lib.Student("23370001").HeldB)

	// The remaining copy is still shelved.
	assert.Equal(t, "B-0001-02", lib.ShelfCopy("B-0001").ID)
}

func TestLibrary_BorrowDeniedLeavesStateUntouched(t *testing.T) {
	lib, clock := testLibrary(t)
	res, err := lib.Borrow("23370001", "A-0001", clock)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, DenyReadOnly, res.Reason)

	b := lib.Book("A-0001-01")
	assert.Equal(t, Shelf, b.Location)
	assert.False(t, b.Hot)
	assert.Empty(t, lib.Trace("A-0001-01"))
}

func TestLibrary_BorrowUnknownStudentIsError(t *testing.T) {
	lib, clock := testLibrary(t)
	_, err := lib.Borrow("23379999", "B-0001", clock)
	assert.Error(t, err)
}

func TestLibrary_BorrowUnknownTitleIsError(t *testing.T) {
	lib, clock := testLibrary(t)
	_, err := lib.Borrow("23370001", "B-9999", clock)
	assert.Error(t, err)
}

func TestLibrary_BorrowAllCopiesOut(t *testing.T) {
	lib, clock := testLibrary(t)
	lib.AddStudent("23370002")
	_, err := lib.Borrow("23370001", "B-0001", clock)
	require.NoError(t, err)

	// Second copy to the second student; title now exhausted.
	res, err := lib.Borrow("23370002", "B-0001", clock)
	require.NoError(t, err)
	require.True(t, res.Applied)

	lib.AddStudent("23370003")
	res, err = lib.Borrow("23370003", "B-0001", clock)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, DenyAlreadyHeld, res.Reason)
}

// === Order and Pick Tests ===

func TestLibrary_OrderBindsCopyAndReserves(t *testing.T) {
	lib, clock := testLibrary(t)
	res, err := lib.Order("23370001", "C-0001", clock)
	require.NoError(t, err)
	require.True(t, res.Applied)

	b := lib.Book("C-0001-01")
	assert.Equal(t, AppointmentOffice, b.Location)
	require.NotNil(t, b.Reservation)
	assert.Equal(t, "23370001", b.Reservation.StudentID)
	assert.Equal(t, clock.Day+5, b.Reservation.DeadlineDay)
	assert.Equal(t, "C-0001-01", lib.Student("23370001").ReservedC["C-0001"])
}

func TestLibrary_PickConsumesReservation(t *testing.T) {
	lib, clock := testLibrary(t)
	_, err := lib.Order("23370001", "C-0001", clock)
	require.NoError(t, err)

	clock.NextOpenDay()
	res, err := lib.Pick("23370001", "C-0001", clock)
	require.NoError(t, err)
	require.True(t, res.Applied)

	b := lib.Book("C-0001-01")
	assert.Equal(t, HeldByStudent, b.Location)
	assert.Nil(t, b.Reservation)
	s := lib.Student("23370001")
	assert.Empty(t, s.ReservedC)
	assert.Equal(t, "C-0001-01", s.HeldC["C-0001"])
	// Picking does not heat the copy.
	assert.False(t, b.Hot)
}

func TestLibrary_PickWithoutReservation(t *testing.T) {
	lib, clock := testLibrary(t)
	res, err := lib.Pick("23370001", "C-0001", clock)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, DenyNoReservation, res.Reason)
}

func TestLibrary_PickAfterDeadline(t *testing.T) {
	lib, clock := testLibrary(t)
	_, err := lib.Order("23370001", "C-0001", clock)
	require.NoError(t, err)

	clock.Day += 6
	res, err := lib.Pick("23370001", "C-0001", clock)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, DenyDeadlinePassed, res.Reason)
}

func TestLibrary_ConcurrentBAndCReservations(t *testing.T) {
	lib, clock := testLibrary(t)
	res, err := lib.Order("23370001", "B-0001", clock)
	require.NoError(t, err)
	require.True(t, res.Applied)

	res, err = lib.Order("23370001", "C-0001", clock)
	require.NoError(t, err)
	assert.True(t, res.Applied, "C order alongside B reservation must apply")

	res, err = lib.Order("23370001", "B-0001", clock)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, DenyHoldsB, res.Reason)
}

// === Return Tests ===

func TestLibrary_ReturnMovesToReturnOffice(t *testing.T) {
	lib, clock := testLibrary(t)
	_, err := lib.Borrow("23370001", "C-0001", clock)
	require.NoError(t, err)

	res, err := lib.Return("23370001", "C-0001-01", clock)
	require.NoError(t, err)
	require.True(t, res.Applied)

	b := lib.Book("C-0001-01")
	assert.Equal(t, ReturnOffice, b.Location)
	assert.Empty(t, b.HolderID)
	assert.Empty(t, lib.Student("23370001").HeldC)
	// Still hot: the flag survives the return.
	assert.True(t, b.Hot)
}

func TestLibrary_ReturnNotHeld(t *testing.T) {
	lib, clock := testLibrary(t)
	res, err := lib.Return("23370001", "C-0001-01", clock)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, DenyNotHeld, res.Reason)
}

// === Read and Restore Tests ===

func TestLibrary_ReadAndRestore(t *testing.T) {
	lib, clock := testLibrary(t)
	res, err := lib.Read("23370001", "A-0001", clock)
	require.NoError(t, err)
	require.True(t, res.Applied)

	b := lib.Book("A-0001-01")
	assert.Equal(t, ReadingRoom, b.Location)
	assert.Equal(t, "23370001", b.HolderID)
	assert.True(t, b.Hot)
	assert.Equal(t, "A-0001-01", lib.Student("23370001").PendingRead)

	// A second read is blocked until the first restores.
	res, err = lib.Read("23370001", "C-0001", clock)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, DenyUnrestoredRead, res.Reason)

	res, err = lib.Restore("23370001", "A-0001-01", clock)
	require.NoError(t, err)
	require.True(t, res.Applied)
	assert.Equal(t, ReturnOffice, b.Location)
	assert.Empty(t, lib.Student("23370001").PendingRead)
}

// === Probe Vetting Tests ===

func TestLibrary_OrderVerdict(t *testing.T) {
	lib, clock := testLibrary(t)
	s := lib.Student("23370001")
	assert.Equal(t, DenyReadOnly, lib.OrderVerdict(s, "A-0001").Reason)
	assert.True(t, lib.OrderVerdict(s, "B-0001").OK())

	_, err := lib.Order("23370001", "B-0001", clock)
	require.NoError(t, err)
	assert.Equal(t, DenyHoldsB, lib.OrderVerdict(s, "B-0001").Reason)
}

// === Movement Trace Tests ===

func TestLibrary_TraceRecordsJourney(t *testing.T) {
	lib, clock := testLibrary(t)
	_, err := lib.Borrow("23370001", "C-0001", clock)
	require.NoError(t, err)
	_, err = lib.Return("23370001", "C-0001-01", clock)
	require.NoError(t, err)

	moves := lib.Trace("C-0001-01")
	require.Len(t, moves, 2)
	assert.Equal(t, "bs", moves[0].From)
	assert.Equal(t, "user", moves[0].To)
	assert.Equal(t, "user", moves[1].From)
	assert.Equal(t, "bro", moves[1].To)
	assert.Equal(t, clock.DateString(), moves[0].Date)
}
