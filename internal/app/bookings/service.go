package bookings

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"booknblock/internal/app/availability"
	"booknblock/internal/app/policies"
	"booknblock/internal/domain/booking"
	"booknblock/internal/domain/property"
	"booknblock/internal/domain/shared/apperr"
	"booknblock/internal/domain/shared/daterange"
	"booknblock/internal/domain/user"
)

// Service implements the booking lifecycle. All operations are
// read-validate-write: state is loaded at the start of the call, validated in
// full, and persisted with a single save. The property lock closes the window
// between concurrent writers on the same property.
type Service struct {
	Users      user.Repository
	Properties property.Repository
	Bookings   booking.Repository
	Validator  availability.Validator
	Locker     policies.PropertyLocker
	Publisher  policies.EventPublisher
	Logger     *slog.Logger
	Clock      func() time.Time
}

type GuestInput struct {
	Name  string
	Email string
}

type CreateParams struct {
	PropertyID property.ID
	StartDate  time.Time
	EndDate    time.Time
	Guests     []GuestInput
	// IncludeRequesterAsGuest prepends the requesting user to the guest list.
	// When false, the explicit guest list must not be empty.
	IncludeRequesterAsGuest bool
}

func (s *Service) Create(ctx context.Context, principal user.ID, params CreateParams) (*booking.Booking, error) {
	if !params.IncludeRequesterAsGuest && len(params.Guests) == 0 {
		return nil, booking.ErrNoGuests
	}

	requester, err := s.Users.ByID(ctx, principal)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperr.Unauthorized("logged user not found")
		}
		return nil, err
	}
	prop, err := s.Properties.ByID(ctx, params.PropertyID)
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "property not found with id %s", params.PropertyID)
		}
		return nil, err
	}

	r, err := daterange.New(params.StartDate, params.EndDate)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidInput, "invalid booking dates", err)
	}

	guests := make([]booking.Guest, 0, len(params.Guests)+1)
	if params.IncludeRequesterAsGuest {
		guests = append(guests, booking.Guest{ID: uuid.NewString(), Name: requester.Name, Email: requester.Email})
	}
	for _, g := range params.Guests {
		guests = append(guests, booking.Guest{ID: uuid.NewString(), Name: g.Name, Email: g.Email})
	}

	unlock, err := s.lock(ctx, prop.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.Validator.ValidateBookingDates(ctx, availability.BookingDatesQuery{
		PropertyID:          prop.ID,
		Range:               r,
		EnforceStartNotPast: true,
		Now:                 s.now(),
	}); err != nil {
		return nil, err
	}

	b, err := booking.NewBooking(booking.CreateParams{
		ID:         booking.ID(uuid.NewString()),
		PropertyID: prop.ID,
		OwnerID:    requester.ID,
		Range:      r,
		Guests:     guests,
		CreatedAt:  s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	s.publish(ctx, "booking.confirmed", b)
	return b, nil
}

func (s *Service) Cancel(ctx context.Context, principal user.ID, id booking.ID) (*booking.Booking, error) {
	b, err := s.loadAuthorized(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if err := b.Cancel(s.now()); err != nil {
		return nil, err
	}
	if err := s.Bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	s.publish(ctx, "booking.canceled", b)
	return b, nil
}

func (s *Service) UpdateDates(ctx context.Context, principal user.ID, id booking.ID, startDate, endDate time.Time) (*booking.Booking, error) {
	b, err := s.loadAuthorized(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	r, err := daterange.New(startDate, endDate)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidInput, "invalid booking dates", err)
	}

	unlock, err := s.lock(ctx, b.PropertyID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.Validator.ValidateBookingDates(ctx, availability.BookingDatesQuery{
		PropertyID:       b.PropertyID,
		Range:            r,
		ExcludeBookingID: b.ID,
	}); err != nil {
		return nil, err
	}
	if err := b.SetDates(r, s.now()); err != nil {
		return nil, err
	}
	if err := s.Bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	s.publish(ctx, "booking.dates_updated", b)
	return b, nil
}

// UpdateGuests replaces the whole guest list. An empty list is accepted here;
// only creation insists on at least one guest.
func (s *Service) UpdateGuests(ctx context.Context, principal user.ID, id booking.ID, guests []GuestInput) (*booking.Booking, error) {
	b, err := s.loadAuthorized(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	replacement := make([]booking.Guest, 0, len(guests))
	for _, g := range guests {
		replacement = append(replacement, booking.Guest{ID: uuid.NewString(), Name: g.Name, Email: g.Email})
	}
	if err := b.ReplaceGuests(replacement, s.now()); err != nil {
		return nil, err
	}
	if err := s.Bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	s.publish(ctx, "booking.guests_updated", b)
	return b, nil
}

// Rebook flips a canceled booking back to confirmed after re-validating its
// existing dates against the property's current state.
func (s *Service) Rebook(ctx context.Context, principal user.ID, id booking.ID) (*booking.Booking, error) {
	b, err := s.loadAuthorized(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if b.Status != booking.StatusCanceled {
		return nil, booking.ErrNotCanceled
	}

	unlock, err := s.lock(ctx, b.PropertyID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.Validator.ValidateBookingDates(ctx, availability.BookingDatesQuery{
		PropertyID:       b.PropertyID,
		Range:            b.Range,
		ExcludeBookingID: b.ID,
	}); err != nil {
		return nil, err
	}
	if err := b.Rebook(s.now()); err != nil {
		return nil, err
	}
	if err := s.Bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	s.publish(ctx, "booking.rebooked", b)
	return b, nil
}

// Delete removes the booking together with its guests.
func (s *Service) Delete(ctx context.Context, principal user.ID, id booking.ID) error {
	b, err := s.loadAuthorized(ctx, principal, id)
	if err != nil {
		return err
	}
	if err := s.Bookings.Delete(ctx, b.ID); err != nil {
		return err
	}
	s.publish(ctx, "booking.deleted", b)
	return nil
}

func (s *Service) Get(ctx context.Context, id booking.ID) (*booking.Booking, error) {
	b, err := s.Bookings.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "booking not found with id %s", id)
		}
		return nil, err
	}
	return b, nil
}

// loadAuthorized fetches the booking and runs the owner gate before any
// further work.
func (s *Service) loadAuthorized(ctx context.Context, principal user.ID, id booking.ID) (*booking.Booking, error) {
	b, err := s.Bookings.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "booking not found with id %s", id)
		}
		return nil, err
	}
	if err := b.AuthorizeMutation(principal); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) lock(ctx context.Context, id property.ID) (func(), error) {
	if s.Locker == nil {
		return func() {}, nil
	}
	return s.Locker.Lock(ctx, string(id))
}

func (s *Service) publish(ctx context.Context, eventType string, b *booking.Booking) {
	if s.Publisher == nil {
		return
	}
	err := s.Publisher.Publish(ctx, policies.Event{
		Type:       eventType,
		PropertyID: string(b.PropertyID),
		EntityID:   string(b.ID),
		OccurredAt: s.now().UnixMilli(),
	})
	if err != nil && s.Logger != nil {
		s.Logger.Warn("event publish failed", "type", eventType, "booking_id", b.ID, "error", err)
	}
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}
