package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/application"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionHandler handles HTTP requests for map sessions.
type SessionHandler struct {
	service *application.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(service *application.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// RegisterRoutes registers all session routes on the given router group.
func (h *SessionHandler) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/api/v1/sessions")
	{
		sessions.POST("", h.CreateSession)
		sessions.GET("/:id", h.GetSession)
		sessions.DELETE("/:id", h.DeleteSession)
		sessions.POST("/:id/route", h.RequestRoute)
		sessions.PUT("/:id/camera", h.SetCamera)
		sessions.POST("/:id/taps", h.Tap)
		sessions.POST("/:id/markers/:index/tap", h.TapMarker)
		sessions.GET("/:id/panel", h.Panel)
		sessions.GET("/:id/overlays", h.Overlays)
		sessions.GET("/:id/notifications", h.Notifications)
	}
}

// CreateSession handles POST /api/v1/sessions. The body is optional.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req application.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetSession handles GET /api/v1/sessions/:id.
func (h *SessionHandler) GetSession(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteSession handles DELETE /api/v1/sessions/:id.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "session closed"})
}

// RequestRoute handles POST /api/v1/sessions/:id/route. The route is
// rendered asynchronously; poll the session or watch its notifications.
func (h *SessionHandler) RequestRoute(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req application.RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.RequestRoute(c.Request.Context(), id, req); err != nil {
		response.Error(c, err)
		return
	}

	response.Accepted(c, gin.H{"session_id": id, "message": "route requested"})
}

// SetCamera handles PUT /api/v1/sessions/:id/camera.
func (h *SessionHandler) SetCamera(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req application.CameraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SetCamera(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Tap handles POST /api/v1/sessions/:id/taps.
func (h *SessionHandler) Tap(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req application.TapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Tap(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// TapMarker handles POST /api/v1/sessions/:id/markers/:index/tap.
func (h *SessionHandler) TapMarker(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "invalid marker index")
		return
	}

	result, err := h.service.TapMarker(c.Request.Context(), id, index)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Panel handles GET /api/v1/sessions/:id/panel and returns an HTML fragment.
func (h *SessionHandler) Panel(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	html, err := h.service.PanelHTML(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// Overlays handles GET /api/v1/sessions/:id/overlays and returns GeoJSON.
func (h *SessionHandler) Overlays(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	fc, err := h.service.Overlays(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, fc)
}

// Notifications handles GET /api/v1/sessions/:id/notifications.
func (h *SessionHandler) Notifications(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Notifications(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
