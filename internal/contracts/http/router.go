package http

import "github.com/gin-gonic/gin"

// Register attaches contract routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.issue)
	rg.GET("", h.list)
	rg.GET("/:id", h.getByID)
	rg.GET("/proposal/:proposalId", h.getByProposalID)
}
