package handler

import (
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/application"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/auth"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/middleware"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/response"
	"github.com/gin-gonic/gin"
)

// AreaHandler handles HTTP requests for area ratings.
type AreaHandler struct {
	service *application.AreaService
}

// NewAreaHandler creates a new AreaHandler.
func NewAreaHandler(service *application.AreaService) *AreaHandler {
	return &AreaHandler{service: service}
}

// RegisterRoutes registers area routes. Rating requires authentication.
func (h *AreaHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	areas := r.Group("/api/v1/areas")
	{
		areas.POST("/ratings", authMW, middleware.RequireRole(auth.RoleUser, auth.RoleAdmin), h.RateArea)
		areas.GET("", h.ListAreas)
		areas.GET("/:name", h.GetArea)
	}
}

// RateArea handles POST /api/v1/areas/ratings.
func (h *AreaHandler) RateArea(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.RateAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RateArea(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListAreas handles GET /api/v1/areas.
func (h *AreaHandler) ListAreas(c *gin.Context) {
	result, err := h.service.ListAreas(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetArea handles GET /api/v1/areas/:name.
func (h *AreaHandler) GetArea(c *gin.Context) {
	result, err := h.service.GetArea(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
