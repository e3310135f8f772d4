package handler

import (
	appledger "github.com/bizledger/backend/internal/application/ledger"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecalcHandler exposes the consistency repair endpoints
type RecalcHandler struct {
	BaseHandler
	service *appledger.RecalcService
}

// NewRecalcHandler creates a new RecalcHandler
func NewRecalcHandler(service *appledger.RecalcService) *RecalcHandler {
	return &RecalcHandler{service: service}
}

// RegisterRoutes registers recalculation routes
func (h *RecalcHandler) RegisterRoutes(rg *gin.RouterGroup) {
	recalc := rg.Group("/recalc")
	{
		recalc.POST("/run", h.RunAll)
		recalc.POST("/target", h.RunTarget)
		recalc.POST("/clients/:id", h.RunClient)
		recalc.POST("/vendors/:id", h.RunVendor)
	}
}

type recalcTargetRequest struct {
	TargetKind string `json:"target_kind" binding:"required"`
	TargetID   string `json:"target_id" binding:"required,uuid"`
}

type outstandingResponse struct {
	ID          uuid.UUID       `json:"id"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// RunAll recomputes derived payment fields for every target. A target_kind
// query parameter restricts the sweep to one kind.
func (h *RecalcHandler) RunAll(c *gin.Context) {
	var kinds []ledger.TargetKind
	if kind := c.Query("target_kind"); kind != "" {
		kinds = append(kinds, ledger.TargetKind(kind))
	}

	report, err := h.service.RecalculateAll(c.Request.Context(), kinds...)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

// RunTarget recomputes one target's derived payment fields
func (h *RecalcHandler) RunTarget(c *gin.Context) {
	var req recalcTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RecalculateTarget(c.Request.Context(), ledger.TargetRef{
		Kind: ledger.TargetKind(req.TargetKind),
		ID:   uuid.MustParse(req.TargetID),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// RunClient recomputes a client's outstanding receivable from its open sales
func (h *RecalcHandler) RunClient(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	clientID := uuid.MustParse(req.ID)
	outstanding, err := h.service.RecalculateClientOutstanding(c.Request.Context(), clientID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, outstandingResponse{ID: clientID, Outstanding: outstanding})
}

// RunVendor recomputes a vendor's outstanding payable from its open
// obligations
func (h *RecalcHandler) RunVendor(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid vendor ID")
		return
	}

	vendorID := uuid.MustParse(req.ID)
	outstanding, err := h.service.RecalculateVendorOutstanding(c.Request.Context(), vendorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, outstandingResponse{ID: vendorID, Outstanding: outstanding})
}
