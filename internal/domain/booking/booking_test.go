package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booknblock/internal/domain/shared/apperr"
	"booknblock/internal/domain/shared/daterange"
)

func testRange(t *testing.T) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(
		time.Date(2030, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2030, 7, 5, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return dr
}

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	b, err := NewBooking(CreateParams{
		ID:         "b1",
		PropertyID: "p1",
		OwnerID:    "u1",
		Range:      testRange(t),
		Guests:     []Guest{{ID: "g1", Name: "Alice", Email: "alice@example.com"}},
	})
	require.NoError(t, err)
	return b
}

func TestNewBookingStartsConfirmed(t *testing.T) {
	b := newTestBooking(t)
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.Len(t, b.Guests, 1)
}

func TestNewBookingRequiresGuests(t *testing.T) {
	_, err := NewBooking(CreateParams{
		ID:         "b1",
		PropertyID: "p1",
		OwnerID:    "u1",
		Range:      testRange(t),
	})
	assert.ErrorIs(t, err, ErrNoGuests)
}

func TestNewBookingRejectsDuplicateGuestEmails(t *testing.T) {
	_, err := NewBooking(CreateParams{
		ID:         "b1",
		PropertyID: "p1",
		OwnerID:    "u1",
		Range:      testRange(t),
		Guests: []Guest{
			{ID: "g1", Name: "Alice", Email: "a@x.com"},
			{ID: "g2", Name: "Bob", Email: "a@x.com"},
		},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
	assert.Contains(t, err.Error(), "duplicate email found: a@x.com")
}

func TestCancelIsNotIdempotent(t *testing.T) {
	b := newTestBooking(t)
	now := time.Now()

	require.NoError(t, b.Cancel(now))
	assert.Equal(t, StatusCanceled, b.Status)

	err := b.Cancel(now)
	assert.ErrorIs(t, err, ErrAlreadyCanceled)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestRebookOnlyFromCanceled(t *testing.T) {
	b := newTestBooking(t)
	now := time.Now()

	err := b.Rebook(now)
	assert.ErrorIs(t, err, ErrNotCanceled)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))

	require.NoError(t, b.Cancel(now))
	require.NoError(t, b.Rebook(now))
	assert.Equal(t, StatusConfirmed, b.Status)
}

func TestReplaceGuests(t *testing.T) {
	b := newTestBooking(t)
	now := time.Now()

	err := b.ReplaceGuests([]Guest{
		{ID: "g2", Name: "Bob", Email: "b@x.com"},
		{ID: "g3", Name: "Cara", Email: "c@x.com"},
	}, now)
	require.NoError(t, err)
	require.Len(t, b.Guests, 2)
	assert.Equal(t, "b@x.com", b.Guests[0].Email)
	assert.Equal(t, "c@x.com", b.Guests[1].Email)
}

func TestReplaceGuestsAllowsEmptyList(t *testing.T) {
	b := newTestBooking(t)
	require.NoError(t, b.ReplaceGuests(nil, time.Now()))
	assert.Empty(t, b.Guests)
}

func TestReplaceGuestsEmailComparisonIsCaseSensitive(t *testing.T) {
	b := newTestBooking(t)
	err := b.ReplaceGuests([]Guest{
		{ID: "g2", Name: "Bob", Email: "A@x.com"},
		{ID: "g3", Name: "Cara", Email: "a@x.com"},
	}, time.Now())
	assert.NoError(t, err)
}

func TestReplaceGuestsRejectsDuplicatesAndKeepsList(t *testing.T) {
	b := newTestBooking(t)
	err := b.ReplaceGuests([]Guest{
		{ID: "g2", Name: "Bob", Email: "a@x.com"},
		{ID: "g3", Name: "Cara", Email: "a@x.com"},
	}, time.Now())
	require.Error(t, err)
	// the original single guest survives a failed replacement
	require.Len(t, b.Guests, 1)
	assert.Equal(t, "alice@example.com", b.Guests[0].Email)
}

func TestAuthorizeMutation(t *testing.T) {
	b := newTestBooking(t)
	assert.NoError(t, b.AuthorizeMutation("u1"))

	err := b.AuthorizeMutation("someone-else")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	err = b.AuthorizeMutation("")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}
