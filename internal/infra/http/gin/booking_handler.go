package ginserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"booknblock/internal/app/bookings"
	domainbooking "booknblock/internal/domain/booking"
	domainproperty "booknblock/internal/domain/property"
)

type BookingHandler struct {
	Service *bookings.Service
}

type createBookingRequest struct {
	PropertyID              string         `json:"property_id"`
	StartDate               string         `json:"start_date"`
	EndDate                 string         `json:"end_date"`
	Guests                  []guestPayload `json:"guests"`
	IncludeRequesterAsGuest bool           `json:"include_requester_as_guest"`
}

func (h BookingHandler) Create(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	guests := make([]bookings.GuestInput, 0, len(req.Guests))
	for _, g := range req.Guests {
		guests = append(guests, bookings.GuestInput{Name: g.Name, Email: g.Email})
	}
	b, err := h.Service.Create(c.Request.Context(), principal, bookings.CreateParams{
		PropertyID:              domainproperty.ID(req.PropertyID),
		StartDate:               start,
		EndDate:                 end,
		Guests:                  guests,
		IncludeRequesterAsGuest: req.IncludeRequesterAsGuest,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newBookingResponse(b))
}

func (h BookingHandler) Cancel(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	b, err := h.Service.Cancel(c.Request.Context(), principal, domainbooking.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBookingResponse(b))
}

type updateDatesRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (h BookingHandler) UpdateDates(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req updateDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.Service.UpdateDates(c.Request.Context(), principal, domainbooking.ID(c.Param("id")), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBookingResponse(b))
}

type updateGuestsRequest struct {
	Guests []guestPayload `json:"guests"`
}

func (h BookingHandler) UpdateGuests(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req updateGuestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	guests := make([]bookings.GuestInput, 0, len(req.Guests))
	for _, g := range req.Guests {
		guests = append(guests, bookings.GuestInput{Name: g.Name, Email: g.Email})
	}
	b, err := h.Service.UpdateGuests(c.Request.Context(), principal, domainbooking.ID(c.Param("id")), guests)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBookingResponse(b))
}

func (h BookingHandler) Rebook(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	b, err := h.Service.Rebook(c.Request.Context(), principal, domainbooking.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBookingResponse(b))
}

func (h BookingHandler) Delete(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), principal, domainbooking.ID(c.Param("id"))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h BookingHandler) Get(c *gin.Context) {
	b, err := h.Service.Get(c.Request.Context(), domainbooking.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBookingResponse(b))
}
