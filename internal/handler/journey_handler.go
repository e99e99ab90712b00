package handler

import (
	"strconv"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/application"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/response"
	"github.com/gin-gonic/gin"
)

// JourneyHandler handles HTTP requests for recorded journeys.
type JourneyHandler struct {
	service *application.JourneyService
}

// NewJourneyHandler creates a new JourneyHandler.
func NewJourneyHandler(service *application.JourneyService) *JourneyHandler {
	return &JourneyHandler{service: service}
}

// RegisterRoutes registers journey routes.
func (h *JourneyHandler) RegisterRoutes(r *gin.RouterGroup) {
	journeys := r.Group("/api/v1/journeys")
	{
		journeys.GET("", h.ListJourneys)
		journeys.GET("/stats", h.JourneyStats)
		journeys.GET("/:id", h.GetJourney)
	}
	r.GET("/api/v1/sessions/:id/journeys", h.SessionJourneys)
}

// ListJourneys handles GET /api/v1/journeys.
func (h *JourneyHandler) ListJourneys(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	result, err := h.service.ListJourneys(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// JourneyStats handles GET /api/v1/journeys/stats.
func (h *JourneyHandler) JourneyStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// GetJourney handles GET /api/v1/journeys/:id.
func (h *JourneyHandler) GetJourney(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.service.GetJourney(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SessionJourneys handles GET /api/v1/sessions/:id/journeys.
func (h *JourneyHandler) SessionJourneys(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.service.GetSessionJourneys(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
