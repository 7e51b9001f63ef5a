package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booknblock/internal/domain/block"
	"booknblock/internal/domain/booking"
	"booknblock/internal/domain/shared/apperr"
	"booknblock/internal/domain/shared/daterange"
	"booknblock/internal/infra/storage/memory"
)

const propID = "prop-1"

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, start, end time.Time) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(start, end)
	require.NoError(t, err)
	return dr
}

func newValidator(t *testing.T) (Validator, *memory.BlockRepository, *memory.BookingRepository) {
	t.Helper()
	blockRepo := memory.NewBlockRepository()
	bookingRepo := memory.NewBookingRepository()
	return Validator{Blocks: blockRepo, Bookings: bookingRepo}, blockRepo, bookingRepo
}

func storeBlock(t *testing.T, repo *memory.BlockRepository, id string, start, end time.Time) {
	t.Helper()
	blk, err := block.NewBlock(block.CreateParams{
		ID:         block.ID(id),
		PropertyID: propID,
		Range:      mustRange(t, start, end),
		Reason:     "maintenance",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), blk))
}

func storeBooking(t *testing.T, repo *memory.BookingRepository, id string, status booking.Status, start, end time.Time) {
	t.Helper()
	b, err := booking.NewBooking(booking.CreateParams{
		ID:         booking.ID(id),
		PropertyID: propID,
		OwnerID:    "guest-1",
		Range:      mustRange(t, start, end),
		Guests:     []booking.Guest{{ID: id + "-g", Name: "Guest", Email: id + "@example.com"}},
	})
	require.NoError(t, err)
	if status == booking.StatusCanceled {
		require.NoError(t, b.Cancel(time.Now()))
	}
	require.NoError(t, repo.Save(context.Background(), b))
}

func TestValidateBlockDatesRejectsInvalidRange(t *testing.T) {
	v, _, _ := newValidator(t)
	err := v.ValidateBlockDates(context.Background(), BlockDatesQuery{
		PropertyID: propID,
		Range:      daterange.DateRange{Start: date(2030, 1, 10), End: date(2030, 1, 5)},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
}

func TestValidateBlockDatesAgainstBlocks(t *testing.T) {
	v, blockRepo, _ := newValidator(t)
	storeBlock(t, blockRepo, "blk-1", date(2030, 1, 10), date(2030, 1, 15))

	err := v.ValidateBlockDates(context.Background(), BlockDatesQuery{
		PropertyID: propID,
		Range:      mustRange(t, date(2030, 1, 15), date(2030, 1, 20)),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.Contains(t, err.Error(), "existing block")

	// excluding the block itself admits the same window
	err = v.ValidateBlockDates(context.Background(), BlockDatesQuery{
		PropertyID:     propID,
		Range:          mustRange(t, date(2030, 1, 12), date(2030, 1, 18)),
		ExcludeBlockID: "blk-1",
	})
	assert.NoError(t, err)
}

func TestValidateBlockDatesAgainstBookings(t *testing.T) {
	v, _, bookingRepo := newValidator(t)
	storeBooking(t, bookingRepo, "bkg-1", booking.StatusConfirmed, date(2030, 2, 1), date(2030, 2, 5))

	err := v.ValidateBlockDates(context.Background(), BlockDatesQuery{
		PropertyID: propID,
		Range:      mustRange(t, date(2030, 2, 4), date(2030, 2, 8)),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "existing booking")
}

func TestValidateBlockDatesIgnoresCanceledBookings(t *testing.T) {
	v, _, bookingRepo := newValidator(t)
	storeBooking(t, bookingRepo, "bkg-1", booking.StatusCanceled, date(2030, 2, 1), date(2030, 2, 5))

	err := v.ValidateBlockDates(context.Background(), BlockDatesQuery{
		PropertyID: propID,
		Range:      mustRange(t, date(2030, 2, 4), date(2030, 2, 8)),
	})
	assert.NoError(t, err)
}

func TestValidateBlockDatesBlockMessageWinsWhenBothConflict(t *testing.T) {
	v, blockRepo, bookingRepo := newValidator(t)
	storeBlock(t, blockRepo, "blk-1", date(2030, 3, 1), date(2030, 3, 10))
	storeBooking(t, bookingRepo, "bkg-1", booking.StatusConfirmed, date(2030, 3, 1), date(2030, 3, 10))

	err := v.ValidateBlockDates(context.Background(), BlockDatesQuery{
		PropertyID: propID,
		Range:      mustRange(t, date(2030, 3, 5), date(2030, 3, 6)),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "existing block")
}

func TestValidateBookingDatesAgainstBookingsAndBlocks(t *testing.T) {
	v, blockRepo, bookingRepo := newValidator(t)
	storeBooking(t, bookingRepo, "bkg-1", booking.StatusConfirmed, date(2030, 4, 1), date(2030, 4, 5))
	storeBlock(t, blockRepo, "blk-1", date(2030, 4, 20), date(2030, 4, 25))

	err := v.ValidateBookingDates(context.Background(), BookingDatesQuery{
		PropertyID: propID,
		Range:      mustRange(t, date(2030, 4, 5), date(2030, 4, 8)),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "existing booking")

	err = v.ValidateBookingDates(context.Background(), BookingDatesQuery{
		PropertyID: propID,
		Range:      mustRange(t, date(2030, 4, 24), date(2030, 4, 28)),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlapping with a block")

	err = v.ValidateBookingDates(context.Background(), BookingDatesQuery{
		PropertyID: propID,
		Range:      mustRange(t, date(2030, 4, 10), date(2030, 4, 15)),
	})
	assert.NoError(t, err)
}

func TestValidateBookingDatesBookingMessageWinsWhenBothConflict(t *testing.T) {
	v, blockRepo, bookingRepo := newValidator(t)
	storeBooking(t, bookingRepo, "bkg-1", booking.StatusConfirmed, date(2030, 5, 1), date(2030, 5, 10))
	storeBlock(t, blockRepo, "blk-1", date(2030, 5, 1), date(2030, 5, 10))

	err := v.ValidateBookingDates(context.Background(), BookingDatesQuery{
		PropertyID: propID,
		Range:      mustRange(t, date(2030, 5, 5), date(2030, 5, 6)),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "existing booking")
}

func TestValidateBookingDatesExcludesSelf(t *testing.T) {
	v, _, bookingRepo := newValidator(t)
	storeBooking(t, bookingRepo, "bkg-1", booking.StatusConfirmed, date(2030, 6, 1), date(2030, 6, 5))

	err := v.ValidateBookingDates(context.Background(), BookingDatesQuery{
		PropertyID:       propID,
		Range:            mustRange(t, date(2030, 6, 3), date(2030, 6, 7)),
		ExcludeBookingID: "bkg-1",
	})
	assert.NoError(t, err)
}

func TestValidateBookingDatesTemporalFloor(t *testing.T) {
	v, _, _ := newValidator(t)
	now := date(2030, 7, 10)

	err := v.ValidateBookingDates(context.Background(), BookingDatesQuery{
		PropertyID:          propID,
		Range:               mustRange(t, date(2030, 7, 9), date(2030, 7, 12)),
		EnforceStartNotPast: true,
		Now:                 now,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))

	// starting today is allowed
	err = v.ValidateBookingDates(context.Background(), BookingDatesQuery{
		PropertyID:          propID,
		Range:               mustRange(t, date(2030, 7, 10), date(2030, 7, 12)),
		EnforceStartNotPast: true,
		Now:                 now,
	})
	assert.NoError(t, err)

	// recomputation paths skip the floor
	err = v.ValidateBookingDates(context.Background(), BookingDatesQuery{
		PropertyID: propID,
		Range:      mustRange(t, date(2030, 7, 1), date(2030, 7, 5)),
		Now:        now,
	})
	assert.NoError(t, err)
}
