package handler

import (
	"time"

	appexpense "github.com/bizledger/backend/internal/application/expense"
	"github.com/bizledger/backend/internal/domain/expense"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseHandler exposes the expense endpoints
type ExpenseHandler struct {
	BaseHandler
	service *appexpense.Service
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(service *appexpense.Service) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// RegisterRoutes registers expense routes
func (h *ExpenseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.Create)
		expenses.GET("", h.List)
		expenses.GET("/:id", h.Get)
		expenses.DELETE("/:id", h.Delete)
	}
}

type createExpenseRequest struct {
	Description    string                 `json:"description" binding:"required"`
	Category       string                 `json:"category" binding:"required"`
	Amount         decimal.Decimal        `json:"amount" binding:"required"`
	ExpenseDate    time.Time              `json:"expense_date"`
	VendorID       *string                `json:"vendor_id" binding:"omitempty,uuid"`
	Notes          string                 `json:"notes"`
	InitialPayment *initialPaymentRequest `json:"initial_payment"`
}

// Create records an expense
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req createExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := appexpense.CreateExpenseCommand{
		Description: req.Description,
		Category:    expense.Category(req.Category),
		Amount:      req.Amount,
		ExpenseDate: req.ExpenseDate,
		Notes:       req.Notes,
	}
	if req.VendorID != nil && *req.VendorID != "" {
		vendorID, err := uuid.Parse(*req.VendorID)
		if err != nil {
			h.BadRequest(c, "Invalid vendor ID")
			return
		}
		cmd.VendorID = &vendorID
	}
	if req.InitialPayment != nil {
		cmd.InitialPayment = &appexpense.InitialPayment{
			Amount:      req.InitialPayment.Amount,
			Method:      ledger.PaymentMethod(req.InitialPayment.Method),
			PaymentDate: req.InitialPayment.PaymentDate,
			Reference:   req.InitialPayment.Reference,
		}
	}

	exp, err := h.service.CreateExpense(c.Request.Context(), cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, exp)
}

// Get returns a single expense
func (h *ExpenseHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid expense ID")
		return
	}

	exp, err := h.service.GetExpense(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, exp)
}

// List returns expenses matching the filter
func (h *ExpenseHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	expenses, err := h.service.ListExpenses(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expenses)
}

// Delete removes an expense, reversing its balance impact
func (h *ExpenseHandler) Delete(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid expense ID")
		return
	}

	if err := h.service.DeleteExpense(c.Request.Context(), uuid.MustParse(req.ID)); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
