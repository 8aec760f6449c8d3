package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Domenick1991/airline-reservation/internal/domain"
	"github.com/Domenick1991/airline-reservation/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type checkCancellationRequest struct {
	PNR      string `json:"pnr"`
	LastName string `json:"lastName"`
}

type bookingWithMessage struct {
	*domain.Booking
	Message string `json:"message"`
}

type reconcileResponse struct {
	Message      string `json:"message"`
	UpdatedCount int    `json:"updatedCount"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.create)
	router.GET("/check-cancellations", h.checkCancellations)
	router.POST("/check-cancellation", h.checkCancellation)
	router.GET("/:pnr", h.getByPNR)
	router.PATCH("/:id/cancel", h.cancel)
}

func (h *BookingHandler) list(c *gin.Context) {
	var userID *int64
	if raw := c.Query("userId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
			return
		}
		userID = &id
	}

	bookings, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "Failed to fetch bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "Failed to create booking")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *BookingHandler) getByPNR(c *gin.Context) {
	b, err := h.service.GetByPNR(c.Request.Context(), c.Param("pnr"))
	if err != nil {
		writeError(c, err, "Failed to fetch booking")
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	b, message, err := h.service.CancelBooking(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Failed to cancel booking")
		return
	}
	c.JSON(http.StatusOK, bookingWithMessage{Booking: b, Message: message})
}

func (h *BookingHandler) checkCancellations(c *gin.Context) {
	updated, err := h.service.CheckCancellations(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to check cancellations")
		return
	}
	c.JSON(http.StatusOK, reconcileResponse{
		Message:      fmt.Sprintf("Updated %d booking(s) to cancelled status.", updated),
		UpdatedCount: updated,
	})
}

func (h *BookingHandler) checkCancellation(c *gin.Context) {
	var req checkCancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "PNR and last name are required"})
		return
	}

	b, err := h.service.CheckCancellationStatus(c.Request.Context(), req.PNR, req.LastName)
	if err != nil {
		writeError(c, err, "Failed to check cancellation status")
		return
	}
	c.JSON(http.StatusOK, bookingWithMessage{Booking: b, Message: booking.CheckStatusMessage})
}
