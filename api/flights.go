package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/airline-reservation/internal/domain"
	"github.com/Domenick1991/airline-reservation/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.create)
	router.GET("/search", h.search)
	router.GET("/:id", h.get)
}

// RegisterTracking mounts the live tracking routes.
func (h *FlightHandler) RegisterTracking(router *gin.RouterGroup) {
	router.GET("/region", h.region)
	router.GET("/:flightNumber", h.track)
}

// list searches when any search parameter is present and returns the stored flights otherwise.
func (h *FlightHandler) list(c *gin.Context) {
	if c.Query("from") != "" || c.Query("to") != "" || c.Query("date") != "" {
		h.search(c)
		return
	}

	result, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to fetch flights")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FlightHandler) create(c *gin.Context) {
	var input flights.CreateFlightInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flight, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		writeError(c, err, "Failed to create flight")
		return
	}
	c.JSON(http.StatusCreated, flight)
}

func (h *FlightHandler) search(c *gin.Context) {
	var q domain.FlightSearch
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if q.TripType == domain.TripRound {
		trip, err := h.service.SearchRoundTrip(c.Request.Context(), q)
		if err != nil {
			writeError(c, err, "Failed to search flights")
			return
		}
		c.JSON(http.StatusOK, trip)
		return
	}

	result, err := h.service.Search(c.Request.Context(), q)
	if err != nil {
		writeError(c, err, "Failed to search flights")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Failed to fetch flight")
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) region(c *gin.Context) {
	var bounds domain.RegionBounds
	if err := c.ShouldBindQuery(&bounds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing region bounds"})
		return
	}

	statuses, err := h.service.Region(c.Request.Context(), bounds)
	if err != nil {
		writeError(c, err, "Failed to fetch flights in region")
		return
	}
	c.JSON(http.StatusOK, statuses)
}

func (h *FlightHandler) track(c *gin.Context) {
	status, err := h.service.Track(c.Request.Context(), c.Param("flightNumber"))
	if err != nil {
		writeError(c, err, "Failed to track flight")
		return
	}
	c.JSON(http.StatusOK, status)
}
