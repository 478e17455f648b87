package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/insurance-system/insurance-backend/internal/contracts/service"
	"github.com/insurance-system/insurance-backend/internal/shared/apperr"
)

type Handler struct {
	svc *service.ContractService
}

func NewHandler(svc *service.ContractService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) issue(c *gin.Context) {
	var req issueContractReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	proposalID, err := uuid.Parse(req.ProposalID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid proposal id"})
		return
	}

	contract, err := h.svc.IssueContract(c.Request.Context(), proposalID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, contract)
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
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	contract, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) getByProposalID(c *gin.Context) {
	proposalID, err := uuid.Parse(c.Param("proposalId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid proposal id"})
		return
	}

	contract, err := h.svc.GetByProposalID(c.Request.Context(), proposalID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, contract)
}
