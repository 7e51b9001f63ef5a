package availability

import (
	"context"
	"time"

	"booknblock/internal/domain/block"
	"booknblock/internal/domain/booking"
	"booknblock/internal/domain/property"
	"booknblock/internal/domain/shared/apperr"
	"booknblock/internal/domain/shared/daterange"
)

// Validator runs the date-conflict checks shared by block and booking
// mutations. Checks read current state from the repositories on every call;
// callers must hold the property lock for the duration of validate+persist.
type Validator struct {
	Blocks   block.Repository
	Bookings booking.Repository
}

type BlockDatesQuery struct {
	PropertyID property.ID
	Range      daterange.DateRange
	// ExcludeBlockID removes the block being updated from the comparison set.
	ExcludeBlockID block.ID
}

// ValidateBlockDates checks a candidate block window against existing blocks,
// then against non-canceled bookings. The order matters: when both conflict,
// the block message must surface.
func (v Validator) ValidateBlockDates(ctx context.Context, q BlockDatesQuery) error {
	if err := q.Range.Validate(); err != nil {
		return apperr.Wrap(apperr.KindInvalidInput, "invalid block dates", err)
	}

	blocks, err := v.Blocks.ByProperty(ctx, q.PropertyID)
	if err != nil {
		return err
	}
	for _, existing := range blocks {
		if q.ExcludeBlockID != "" && existing.ID == q.ExcludeBlockID {
			continue
		}
		if q.Range.Overlaps(existing.Range) {
			return apperr.Conflict("the block dates are overlapping with an existing block")
		}
	}

	bookings, err := v.Bookings.ByPropertyExcludingStatus(ctx, q.PropertyID, booking.StatusCanceled)
	if err != nil {
		return err
	}
	for _, existing := range bookings {
		if q.Range.Overlaps(existing.Range) {
			return apperr.Conflict("the block dates are overlapping with an existing booking")
		}
	}
	return nil
}

type BookingDatesQuery struct {
	PropertyID property.ID
	Range      daterange.DateRange
	// ExcludeBookingID removes the booking being updated or rebooked from the
	// comparison set.
	ExcludeBookingID booking.ID
	// EnforceStartNotPast applies the creation-time floor: the stay may not
	// begin before today. Rebook and date updates recompute against existing
	// data and skip it.
	EnforceStartNotPast bool
	Now                 time.Time
}

// ValidateBookingDates checks a candidate booking window against non-canceled
// bookings, then against blocks. Mirrors ValidateBlockDates with the check
// order reversed; the first conflicting set determines the message.
func (v Validator) ValidateBookingDates(ctx context.Context, q BookingDatesQuery) error {
	if err := q.Range.Validate(); err != nil {
		return apperr.Wrap(apperr.KindInvalidInput, "invalid booking dates", err)
	}
	if q.EnforceStartNotPast {
		now := q.Now
		if now.IsZero() {
			now = time.Now()
		}
		if q.Range.StartsBefore(now) {
			return apperr.InvalidInput("start date must not be in the past")
		}
	}

	bookings, err := v.Bookings.ByPropertyExcludingStatus(ctx, q.PropertyID, booking.StatusCanceled)
	if err != nil {
		return err
	}
	for _, existing := range bookings {
		if q.ExcludeBookingID != "" && existing.ID == q.ExcludeBookingID {
			continue
		}
		if q.Range.Overlaps(existing.Range) {
			return apperr.Conflict("booking dates are overlapping with an existing booking")
		}
	}

	blocks, err := v.Blocks.ByProperty(ctx, q.PropertyID)
	if err != nil {
		return err
	}
	for _, existing := range blocks {
		if q.Range.Overlaps(existing.Range) {
			return apperr.Conflict("booking dates are overlapping with a block")
		}
	}
	return nil
}
