package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/transit-planner/service-route/internal/application"
	"github.com/transit-planner/service-route/internal/common/auth"
	"github.com/transit-planner/service-route/internal/common/middleware"
	"github.com/transit-planner/service-route/internal/common/response"
)

// TransportationHandler handles HTTP requests for transportation legs.
type TransportationHandler struct {
	service *application.TransportationService
}

// NewTransportationHandler creates a new TransportationHandler.
func NewTransportationHandler(service *application.TransportationService) *TransportationHandler {
	return &TransportationHandler{service: service}
}

// RegisterRoutes registers all transportation routes.
func (h *TransportationHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	editors := middleware.RequireRole(auth.RoleAdmin, auth.RoleOperator)
	admins := middleware.RequireRole(auth.RoleAdmin)

	legs := r.Group("/api/v1/transportations")
	{
		legs.GET("", h.ListTransportations)
		legs.GET("/:id", h.GetTransportation)
		legs.POST("", authMW, editors, h.CreateTransportation)
		legs.PUT("/:id", authMW, editors, h.UpdateTransportation)
		legs.DELETE("/:id", authMW, admins, h.DeleteTransportation)
	}
}

// CreateTransportation handles POST /api/v1/transportations.
func (h *TransportationHandler) CreateTransportation(c *gin.Context) {
	var req application.TransportationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateTransportation(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListTransportations handles GET /api/v1/transportations.
func (h *TransportationHandler) ListTransportations(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListTransportations(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetTransportation handles GET /api/v1/transportations/:id.
func (h *TransportationHandler) GetTransportation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid transportation ID")
		return
	}

	result, err := h.service.GetTransportation(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateTransportation handles PUT /api/v1/transportations/:id.
func (h *TransportationHandler) UpdateTransportation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid transportation ID")
		return
	}

	var req application.TransportationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateTransportation(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteTransportation handles DELETE /api/v1/transportations/:id.
func (h *TransportationHandler) DeleteTransportation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid transportation ID")
		return
	}

	if err := h.service.DeleteTransportation(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
