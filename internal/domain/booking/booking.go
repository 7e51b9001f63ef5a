package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"booknblock/internal/domain/property"
	"booknblock/internal/domain/shared/apperr"
	"booknblock/internal/domain/shared/daterange"
	"booknblock/internal/domain/user"
)

var (
	ErrIDRequired       = errors.New("booking: id is required")
	ErrPropertyRequired = errors.New("booking: property is required")
	ErrOwnerRequired    = errors.New("booking: owner is required")
	ErrNotFound         = errors.New("booking: not found")

	// ErrAlreadyCanceled fires on a repeated cancel. Cancel is deliberately
	// not idempotent: the second call is a conflict, not a no-op.
	ErrAlreadyCanceled = apperr.Conflict("the booking is already canceled")
	// ErrNotCanceled fires when rebooking anything but a canceled booking.
	ErrNotCanceled = apperr.InvalidInput("only cancelled bookings can be rebooked")
	// ErrNoGuests fires when a booking would be created without a single guest.
	ErrNoGuests = apperr.InvalidInput("if the requester is not a guest, at least one guest must be provided")
)

type ID string

type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCanceled  Status = "CANCELED"
)

// Guest is owned by its booking: replacing the booking's guest list discards
// the previous entries wholesale.
type Guest struct {
	ID    string
	Name  string
	Email string
}

// Booking is a guest-side reservation of a property. OwnerID is the user who
// made the booking, not the property owner; only that user may mutate it.
type Booking struct {
	ID         ID
	PropertyID property.ID
	OwnerID    user.ID
	Range      daterange.DateRange
	Status     Status
	Guests     []Guest
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Booking, error)
	ByProperty(ctx context.Context, propertyID property.ID) ([]*Booking, error)
	ByPropertyExcludingStatus(ctx context.Context, propertyID property.ID, excluded Status) ([]*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	Delete(ctx context.Context, id ID) error
}

type CreateParams struct {
	ID         ID
	PropertyID property.ID
	OwnerID    user.ID
	Range      daterange.DateRange
	Guests     []Guest
	CreatedAt  time.Time
}

// NewBooking builds a CONFIRMED booking. Conflict validation happens in the
// application layer before the aggregate is persisted; the aggregate itself
// only enforces structural rules and guest-list constraints.
func NewBooking(params CreateParams) (*Booking, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(string(params.PropertyID)) == "" {
		return nil, ErrPropertyRequired
	}
	if strings.TrimSpace(string(params.OwnerID)) == "" {
		return nil, ErrOwnerRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if len(params.Guests) == 0 {
		return nil, ErrNoGuests
	}
	if err := validateGuestEmails(params.Guests); err != nil {
		return nil, err
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	b := &Booking{
		ID:         params.ID,
		PropertyID: params.PropertyID,
		OwnerID:    params.OwnerID,
		Range:      params.Range,
		Status:     StatusConfirmed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	b.Guests = append(b.Guests, params.Guests...)
	return b, nil
}

// AuthorizeMutation succeeds only for the booking's own owner.
func (b *Booking) AuthorizeMutation(principal user.ID) error {
	if principal == "" || principal != b.OwnerID {
		return apperr.Unauthorized("you are not allowed to access this resource")
	}
	return nil
}

func (b *Booking) Cancel(now time.Time) error {
	if b.Status == StatusCanceled {
		return ErrAlreadyCanceled
	}
	b.Status = StatusCanceled
	b.UpdatedAt = now.UTC()
	return nil
}

// Rebook flips a canceled booking back to confirmed. The caller must re-run
// conflict validation against the booking's existing dates first.
func (b *Booking) Rebook(now time.Time) error {
	if b.Status != StatusCanceled {
		return ErrNotCanceled
	}
	b.Status = StatusConfirmed
	b.UpdatedAt = now.UTC()
	return nil
}

// SetDates moves the booking to a new window without touching status.
func (b *Booking) SetDates(r daterange.DateRange, now time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}
	b.Range = r
	b.UpdatedAt = now.UTC()
	return nil
}

// ReplaceGuests swaps the entire guest list: previous guests are discarded,
// then the new entries are attached. An empty list is accepted here; creation
// enforces non-emptiness at its own call site.
func (b *Booking) ReplaceGuests(guests []Guest, now time.Time) error {
	if err := validateGuestEmails(guests); err != nil {
		return err
	}
	b.Guests = b.Guests[:0]
	b.Guests = append(b.Guests, guests...)
	b.UpdatedAt = now.UTC()
	return nil
}

// validateGuestEmails enforces pairwise-distinct emails within one list.
// Comparison is case-sensitive, matching the behavior callers rely on.
func validateGuestEmails(guests []Guest) error {
	seen := make(map[string]struct{}, len(guests))
	for _, g := range guests {
		if _, dup := seen[g.Email]; dup {
			return apperr.Newf(apperr.KindInvalidInput, "duplicate email found: %s", g.Email)
		}
		seen[g.Email] = struct{}{}
	}
	return nil
}
