package ginserver

import (
	"fmt"
	"time"

	domainblock "booknblock/internal/domain/block"
	domainbooking "booknblock/internal/domain/booking"
	domainproperty "booknblock/internal/domain/property"
)

const dateLayout = "2006-01-02"

// parseDate accepts calendar dates as "YYYY-MM-DD". A zero time is returned
// for empty input so the domain layer can report the missing date itself.
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

type guestPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type guestResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type blockResponse struct {
	ID         string `json:"id"`
	PropertyID string `json:"property_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
}

func newBlockResponse(b *domainblock.Block) blockResponse {
	return blockResponse{
		ID:         string(b.ID),
		PropertyID: string(b.PropertyID),
		StartDate:  formatDate(b.Range.Start),
		EndDate:    formatDate(b.Range.End),
		Reason:     b.Reason,
	}
}

type bookingResponse struct {
	ID         string          `json:"id"`
	PropertyID string          `json:"property_id"`
	OwnerID    string          `json:"owner_id"`
	StartDate  string          `json:"start_date"`
	EndDate    string          `json:"end_date"`
	Status     string          `json:"status"`
	Guests     []guestResponse `json:"guests"`
}

func newBookingResponse(b *domainbooking.Booking) bookingResponse {
	guests := make([]guestResponse, 0, len(b.Guests))
	for _, g := range b.Guests {
		guests = append(guests, guestResponse{ID: g.ID, Name: g.Name, Email: g.Email})
	}
	return bookingResponse{
		ID:         string(b.ID),
		PropertyID: string(b.PropertyID),
		OwnerID:    string(b.OwnerID),
		StartDate:  formatDate(b.Range.Start),
		EndDate:    formatDate(b.Range.End),
		Status:     string(b.Status),
		Guests:     guests,
	}
}

type propertyResponse struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"owner_id"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Managers    []string `json:"managers"`
}

func newPropertyResponse(p *domainproperty.Property) propertyResponse {
	managers := make([]string, 0, len(p.Managers))
	for _, m := range p.Managers {
		managers = append(managers, string(m))
	}
	return propertyResponse{
		ID:          string(p.ID),
		OwnerID:     string(p.OwnerID),
		Name:        p.Name,
		Location:    p.Location,
		Description: p.Description,
		Managers:    managers,
	}
}
