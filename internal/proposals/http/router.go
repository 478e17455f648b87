package http

import "github.com/gin-gonic/gin"

// Register attaches proposal routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.getByID)
	rg.GET("/status/:status", h.listByStatus)
	rg.PUT("/:id/status", h.updateStatus)
}
