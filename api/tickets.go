package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/airline-reservation/internal/service/support"
	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	service support.TicketUseCase
}

func NewTicketHandler(service support.TicketUseCase) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.create)
	router.GET("/:ticketNumber", h.get)
	router.PATCH("/:id/status", h.updateStatus)
}

func (h *TicketHandler) list(c *gin.Context) {
	raw := c.Query("userId")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
		return
	}

	tickets, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "Failed to fetch tickets")
		return
	}
	c.JSON(http.StatusOK, tickets)
}

func (h *TicketHandler) get(c *gin.Context) {
	ticket, err := h.service.GetByNumber(c.Request.Context(), c.Param("ticketNumber"))
	if err != nil {
		writeError(c, err, "Failed to fetch ticket")
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) create(c *gin.Context) {
	var req support.CreateTicketInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	ticket, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "Failed to create ticket")
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (h *TicketHandler) updateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}
	var req support.UpdateStatusInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.service.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err, "Failed to update ticket")
		return
	}
	c.JSON(http.StatusOK, ticket)
}
