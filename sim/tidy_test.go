package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTidy_ReshelvesReturnOffice(t *testing.T) {
	lib, clock := testLibrary(t)
	_, err := lib.Borrow("23370001", "C-0001", clock)
	require.NoError(t, err)
	_, err = lib.Return("23370001", "C-0001-01", clock)
	require.NoError(t, err)

	require.NoError(t, Tidy(lib, clock))

	b := lib.Book("C-0001-01")
	// Borrowed once, so it reshelves hot.
	assert.Equal(t, HotShelf, b.Location)
	assert.Empty(t, lib.BooksAt(ReturnOffice))
}

func TestTidy_ColdCopyReshelvesNormal(t *testing.T) {
	lib, clock := testLibrary(t)
	// Place a never-circulated copy in the return office directly.
	lib.move(lib.Book("C-0001-02"), ReturnOffice, "", clock)

	require.NoError(t, Tidy(lib, clock))
	assert.Equal(t, Shelf, lib.Book("C-0001-02").Location)
}

func TestTidy_ForceRestoresReadingRoom(t *testing.T) {
	lib, clock := testLibrary(t)
	_, err := lib.Read("23370001", "A-0001", clock)
	require.NoError(t, err)

	require.NoError(t, Tidy(lib, clock))

	assert.Equal(t, HotShelf, lib.Book("A-0001-01").Location)
	assert.Empty(t, lib.Student("23370001").PendingRead,
		"force-restore must clear the pending read")
	assert.Empty(t, lib.BooksAt(ReadingRoom))
}

func TestTidy_ExpiresLapsedReservations(t *testing.T) {
	lib, clock := testLibrary(t)
	_, err := lib.Order("23370001", "C-0001", clock)
	require.NoError(t, err)

	clock.Day += 6
	require.NoError(t, Tidy(lib, clock))

	b := lib.Book("C-0001-01")
	assert.Equal(t, Shelf, b.Location)
	assert.Nil(t, b.Reservation)
	assert.Empty(t, lib.Student("23370001").ReservedC)
}

func TestTidy_KeepsLiveReservations(t *testing.T) {
	lib, clock := testLibrary(t)
	_, err := lib.Order("23370001", "C-0001", clock)
	require.NoError(t, err)

	clock.Day += 5 // deadline day itself is still pickable
	require.NoError(t, Tidy(lib, clock))

	b := lib.Book("C-0001-01")
	assert.Equal(t, AppointmentOffice, b.Location)
	assert.NotNil(t, b.Reservation)
}

func TestTidy_DetectsCorruptAppointmentOffice(t *testing.T) {
	lib, clock := testLibrary(t)
	lib.move(lib.Book("C-0001-01"), AppointmentOffice, "", clock)

	err := Tidy(lib, clock)
	assert.Error(t, err, "copy at appointment office without reservation must fail tidy")
}

func TestTidy_DetectsShelfPartitionViolation(t *testing.T) {
	lib, clock := testLibrary(t)
	// Corrupt the partition: a hot copy resting on the normal shelf.
	lib.Book("C-0001-01").Hot = true

	err := Tidy(lib, clock)
	assert.Error(t, err)
}
