package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/transit-planner/service-route/internal/application"
	"github.com/transit-planner/service-route/internal/common/auth"
	"github.com/transit-planner/service-route/internal/common/middleware"
	"github.com/transit-planner/service-route/internal/common/response"
)

// AdminNetworkHandler handles admin HTTP requests for network maintenance.
type AdminNetworkHandler struct {
	service *application.AdminService
}

// NewAdminNetworkHandler creates a new AdminNetworkHandler.
func NewAdminNetworkHandler(service *application.AdminService) *AdminNetworkHandler {
	return &AdminNetworkHandler{service: service}
}

// RegisterRoutes registers admin network routes.
func (h *AdminNetworkHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW, adminRole)
	{
		admin.GET("/stats/network", h.NetworkStats)
		admin.POST("/cache/flush", h.FlushCache)
	}
}

// NetworkStats handles GET /api/v1/admin/stats/network.
func (h *AdminNetworkHandler) NetworkStats(c *gin.Context) {
	stats, err := h.service.GetNetworkStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// FlushCache handles POST /api/v1/admin/cache/flush.
func (h *AdminNetworkHandler) FlushCache(c *gin.Context) {
	h.service.FlushCaches(c.Request.Context())
	response.NoContent(c)
}
