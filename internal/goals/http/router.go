package http

import "github.com/gin-gonic/gin"

// Register attaches goal routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.merge)
	rg.DELETE("", h.delete)
	rg.PATCH("/metrics/:metric_id/months", h.updateMonth)
}
