package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/insurance-system/insurance-backend/internal/proposals/domain"
	"github.com/insurance-system/insurance-backend/internal/proposals/service"
	"github.com/insurance-system/insurance-backend/internal/shared/apperr"
)

type Handler struct {
	svc *service.ProposalService
}

func NewHandler(svc *service.ProposalService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) create(c *gin.Context) {
	var req createProposalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), service.CreateProposalInput{
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		InsuranceType:  req.InsuranceType,
		CoverageAmount: req.CoverageAmount,
		PremiumAmount:  req.PremiumAmount,
	})
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid proposal id"})
		return
	}

	p, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) listByStatus(c *gin.Context) {
	status := domain.ParseStatus(c.Param("status"))
	if status == domain.StatusUnknown {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	list, err := h.svc.GetByStatus(c.Request.Context(), status)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) updateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid proposal id"})
		return
	}

	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	p, err := h.svc.UpdateStatus(c.Request.Context(), id, domain.ParseStatus(req.Status), req.RejectionReason)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}
