package handler

import (
	"time"

	appledger "github.com/bizledger/backend/internal/application/ledger"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentHandler exposes the payment endpoints
type PaymentHandler struct {
	BaseHandler
	service *appledger.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(service *appledger.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterRoutes registers payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("", h.Create)
		payments.GET("", h.List)
		payments.GET("/:id", h.Get)
		payments.PUT("/:id", h.Update)
		payments.DELETE("/:id", h.Delete)
	}
}

type createPaymentRequest struct {
	TargetKind      string          `json:"target_kind" binding:"required"`
	TargetID        string          `json:"target_id" binding:"required,uuid"`
	PartyKind       string          `json:"party_kind"`
	PartyID         string          `json:"party_id" binding:"omitempty,uuid"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Method          string          `json:"method" binding:"required"`
	PaymentDate     time.Time       `json:"payment_date"`
	TrancheNumber   *int            `json:"tranche_number"`
	TotalTranches   *int            `json:"total_tranches"`
	ReferenceNumber string          `json:"reference_number"`
	Notes           string          `json:"notes"`
}

type updatePaymentRequest struct {
	Amount          *decimal.Decimal `json:"amount"`
	Method          *string          `json:"method"`
	PaymentDate     *time.Time       `json:"payment_date"`
	PartyKind       *string          `json:"party_kind"`
	PartyID         *string          `json:"party_id" binding:"omitempty,uuid"`
	ReferenceNumber *string          `json:"reference_number"`
	Notes           *string          `json:"notes"`
}

// Create records a payment against a target
func (h *PaymentHandler) Create(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		h.BadRequest(c, "Invalid target ID")
		return
	}

	cmd := appledger.CreatePaymentCommand{
		Target:          ledger.TargetRef{Kind: ledger.TargetKind(req.TargetKind), ID: targetID},
		Amount:          req.Amount,
		Method:          ledger.PaymentMethod(req.Method),
		PaymentDate:     req.PaymentDate,
		TrancheNumber:   req.TrancheNumber,
		TotalTranches:   req.TotalTranches,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
	}
	if req.PartyID != "" {
		partyID, err := uuid.Parse(req.PartyID)
		if err != nil {
			h.BadRequest(c, "Invalid party ID")
			return
		}
		cmd.Party = ledger.PartyRef{Kind: ledger.PartyKind(req.PartyKind), ID: partyID}
	}

	payment, err := h.service.CreatePayment(c.Request.Context(), cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, payment)
}

// Get returns a single payment
func (h *PaymentHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.service.GetPayment(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// List returns payments filtered by target or party. A target filter takes
// precedence when both are supplied.
func (h *PaymentHandler) List(c *gin.Context) {
	targetKind := c.Query("target_kind")
	targetID := c.Query("target_id")
	partyKind := c.Query("party_kind")
	partyID := c.Query("party_id")

	switch {
	case targetKind != "" && targetID != "":
		id, err := uuid.Parse(targetID)
		if err != nil {
			h.BadRequest(c, "Invalid target ID")
			return
		}
		payments, err := h.service.ListByTarget(c.Request.Context(), ledger.TargetRef{Kind: ledger.TargetKind(targetKind), ID: id})
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		h.Success(c, payments)

	case partyKind != "" && partyID != "":
		id, err := uuid.Parse(partyID)
		if err != nil {
			h.BadRequest(c, "Invalid party ID")
			return
		}
		var listReq dto.ListRequest
		if err := c.ShouldBindQuery(&listReq); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		payments, err := h.service.ListByParty(c.Request.Context(), ledger.PartyRef{Kind: ledger.PartyKind(partyKind), ID: id}, listReq.ToFilter())
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		h.Success(c, payments)

	default:
		h.BadRequest(c, "Either target_kind/target_id or party_kind/party_id is required")
	}
}

// Update modifies a payment; omitted fields are left untouched
func (h *PaymentHandler) Update(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	var req updatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := appledger.UpdatePaymentCommand{
		Amount:          req.Amount,
		PaymentDate:     req.PaymentDate,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
	}
	if req.Method != nil {
		method := ledger.PaymentMethod(*req.Method)
		cmd.Method = &method
	}
	if req.PartyID != nil {
		partyRef := ledger.PartyRef{}
		if *req.PartyID != "" {
			id, err := uuid.Parse(*req.PartyID)
			if err != nil {
				h.BadRequest(c, "Invalid party ID")
				return
			}
			kind := ""
			if req.PartyKind != nil {
				kind = *req.PartyKind
			}
			partyRef = ledger.PartyRef{Kind: ledger.PartyKind(kind), ID: id}
		}
		cmd.Party = &partyRef
	}

	payment, err := h.service.UpdatePayment(c.Request.Context(), uuid.MustParse(idReq.ID), cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// Delete removes a payment and reverses its balance impact
func (h *PaymentHandler) Delete(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	if err := h.service.DeletePayment(c.Request.Context(), uuid.MustParse(req.ID)); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
