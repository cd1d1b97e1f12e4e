package api

import (
	"errors"
	"net/http"

	"bookoro/internal/domain"
	"bookoro/internal/service/booking"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	FlightID string `json:"flightId" binding:"required"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("/me", h.listMine)
	router.DELETE("/:id", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), UserID(c), req.FlightID)
	if err != nil {
		// A missing flight is the caller's fault here, not a missing
		// resource: the URL exists, the referenced flight does not.
		if errors.Is(err, domain.ErrFlightNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *BookingHandler) listMine(c *gin.Context) {
	bookings, err := h.service.ListUserBookings(c.Request.Context(), UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	result, err := h.service.CancelBooking(c.Request.Context(), UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":      result.ID,
		"status":  result.Status,
		"message": "booking cancelled successfully",
	})
}
