package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/transit-planner/service-route/internal/application"
	"github.com/transit-planner/service-route/internal/common/response"
)

// RouteHandler serves itinerary searches.
type RouteHandler struct {
	service *application.RouteService
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(service *application.RouteService) *RouteHandler {
	return &RouteHandler{service: service}
}

// RegisterRoutes registers the public search route.
func (h *RouteHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/api/v1/routes/search", h.SearchRoutes)
}

// SearchRoutes handles POST /api/v1/routes/search.
// travel_instant is an RFC 3339 timestamp.
func (h *RouteHandler) SearchRoutes(c *gin.Context) {
	var req application.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	routes, err := h.service.SearchRoutes(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, routes)
}
