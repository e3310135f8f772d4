package handler

import (
	"time"

	apploans "github.com/bizledger/backend/internal/application/loans"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanHandler exposes the loan and installment endpoints
type LoanHandler struct {
	BaseHandler
	service *apploans.Service
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(service *apploans.Service) *LoanHandler {
	return &LoanHandler{service: service}
}

// RegisterRoutes registers loan routes
func (h *LoanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	loans := rg.Group("/loans")
	{
		loans.POST("", h.Create)
		loans.GET("", h.List)
		loans.GET("/:id", h.Get)
		loans.GET("/:id/installments", h.ListInstallments)
		loans.POST("/:id/installments", h.RecordInstallment)
	}

	rg.PUT("/installments/:id", h.UpdateInstallment)
	rg.DELETE("/installments/:id", h.DeleteInstallment)
}

type createLoanRequest struct {
	LoanNumber         string          `json:"loan_number" binding:"required"`
	LenderName         string          `json:"lender_name" binding:"required"`
	PrincipalAmount    decimal.Decimal `json:"principal_amount" binding:"required"`
	AnnualInterestRate decimal.Decimal `json:"annual_interest_rate"`
	StartDate          time.Time       `json:"start_date"`
	Notes              string          `json:"notes"`
}

type installmentRequest struct {
	InterestPortion  decimal.Decimal `json:"interest_portion"`
	PrincipalPortion decimal.Decimal `json:"principal_portion"`
	Method           string          `json:"method" binding:"required"`
	PaidDate         time.Time       `json:"paid_date"`
	Reference        string          `json:"reference"`
}

// Create registers a new loan
func (h *LoanHandler) Create(c *gin.Context) {
	var req createLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	loan, err := h.service.CreateLoan(c.Request.Context(), apploans.CreateLoanCommand{
		LoanNumber:         req.LoanNumber,
		LenderName:         req.LenderName,
		PrincipalAmount:    req.PrincipalAmount,
		AnnualInterestRate: req.AnnualInterestRate,
		StartDate:          req.StartDate,
		Notes:              req.Notes,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, loan)
}

// Get returns a single loan
func (h *LoanHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid loan ID")
		return
	}

	loan, err := h.service.GetLoan(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, loan)
}

// List returns loans matching the filter
func (h *LoanHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	loans, err := h.service.ListLoans(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, loans)
}

// RecordInstallment records one loan installment, splitting interest from
// principal
func (h *LoanHandler) RecordInstallment(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid loan ID")
		return
	}

	var req installmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	installment, err := h.service.RecordInstallment(c.Request.Context(), apploans.InstallmentCommand{
		LoanID:           uuid.MustParse(idReq.ID),
		InterestPortion:  req.InterestPortion,
		PrincipalPortion: req.PrincipalPortion,
		Method:           ledger.PaymentMethod(req.Method),
		PaidDate:         req.PaidDate,
		Reference:        req.Reference,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, installment)
}

// ListInstallments returns a loan's installments in paid order
func (h *LoanHandler) ListInstallments(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid loan ID")
		return
	}

	installments, err := h.service.ListInstallments(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, installments)
}

type updateInstallmentRequest struct {
	InterestPortion  *decimal.Decimal `json:"interest_portion"`
	PrincipalPortion *decimal.Decimal `json:"principal_portion"`
	Method           *string          `json:"method"`
	PaidDate         *time.Time       `json:"paid_date"`
	Reference        *string          `json:"reference"`
}

// UpdateInstallment edits an installment; omitted fields are left untouched
func (h *LoanHandler) UpdateInstallment(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid installment ID")
		return
	}

	var req updateInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := apploans.UpdateInstallmentCommand{
		InterestPortion:  req.InterestPortion,
		PrincipalPortion: req.PrincipalPortion,
		PaidDate:         req.PaidDate,
		Reference:        req.Reference,
	}
	if req.Method != nil {
		method := ledger.PaymentMethod(*req.Method)
		cmd.Method = &method
	}

	installment, err := h.service.UpdateInstallment(c.Request.Context(), uuid.MustParse(idReq.ID), cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, installment)
}

// DeleteInstallment removes an installment, restoring the loan's principal
// and reopening the loan when it was closed
func (h *LoanHandler) DeleteInstallment(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid installment ID")
		return
	}

	if err := h.service.DeleteInstallment(c.Request.Context(), uuid.MustParse(req.ID)); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
