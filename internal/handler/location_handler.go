package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/transit-planner/service-route/internal/application"
	"github.com/transit-planner/service-route/internal/common/auth"
	"github.com/transit-planner/service-route/internal/common/middleware"
	"github.com/transit-planner/service-route/internal/common/response"
)

// LocationHandler handles HTTP requests for location management.
type LocationHandler struct {
	service *application.LocationService
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(service *application.LocationService) *LocationHandler {
	return &LocationHandler{service: service}
}

// RegisterRoutes registers all location routes. Reads are public; writes need
// an operator or admin token and deletes an admin token.
func (h *LocationHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	editors := middleware.RequireRole(auth.RoleAdmin, auth.RoleOperator)
	admins := middleware.RequireRole(auth.RoleAdmin)

	locations := r.Group("/api/v1/locations")
	{
		locations.GET("", h.ListLocations)
		locations.GET("/codes", h.ListLocationCodes)
		locations.GET("/:id", h.GetLocation)
		locations.POST("", authMW, editors, h.CreateLocation)
		locations.PUT("/:id", authMW, editors, h.UpdateLocation)
		locations.DELETE("/:id", authMW, admins, h.DeleteLocation)
	}
}

// CreateLocation handles POST /api/v1/locations.
func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req application.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateLocation(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListLocations handles GET /api/v1/locations.
func (h *LocationHandler) ListLocations(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListLocations(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// ListLocationCodes handles GET /api/v1/locations/codes.
func (h *LocationHandler) ListLocationCodes(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListLocationCodes(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetLocation handles GET /api/v1/locations/:id.
func (h *LocationHandler) GetLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid location ID")
		return
	}

	result, err := h.service.GetLocation(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateLocation handles PUT /api/v1/locations/:id.
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid location ID")
		return
	}

	var req application.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateLocation(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteLocation handles DELETE /api/v1/locations/:id.
func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid location ID")
		return
	}

	if err := h.service.DeleteLocation(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
