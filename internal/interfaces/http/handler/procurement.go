package handler

import (
	"time"

	appprocurement "github.com/bizledger/backend/internal/application/procurement"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/procurement"
	"github.com/bizledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProcurementHandler exposes the procurement order endpoints
type ProcurementHandler struct {
	BaseHandler
	service *appprocurement.Service
}

// NewProcurementHandler creates a new ProcurementHandler
func NewProcurementHandler(service *appprocurement.Service) *ProcurementHandler {
	return &ProcurementHandler{service: service}
}

// RegisterRoutes registers procurement routes
func (h *ProcurementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/procurement")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.PUT("/:id", h.Update)
		orders.DELETE("/:id", h.Delete)
	}
}

type orderItemRequest struct {
	ItemID    string          `json:"item_id" binding:"required,uuid"`
	ItemName  string          `json:"item_name" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

type initialPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Method      string          `json:"method" binding:"required"`
	PaymentDate time.Time       `json:"payment_date"`
	Reference   string          `json:"reference"`
}

type createOrderRequest struct {
	OrderNumber    string                 `json:"order_number" binding:"required"`
	Type           string                 `json:"type" binding:"required"`
	VendorID       string                 `json:"vendor_id" binding:"required,uuid"`
	OrderDate      time.Time              `json:"order_date"`
	Items          []orderItemRequest     `json:"items" binding:"required,min=1,dive"`
	Notes          string                 `json:"notes"`
	InitialPayment *initialPaymentRequest `json:"initial_payment"`
}

// Create records a procurement order with its lines and an optional advance
func (h *ProcurementHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		h.BadRequest(c, "Invalid vendor ID")
		return
	}

	items := make([]appprocurement.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		itemID, err := uuid.Parse(it.ItemID)
		if err != nil {
			h.BadRequest(c, "Invalid item ID")
			return
		}
		items = append(items, appprocurement.ItemInput{
			ItemID:    itemID,
			ItemName:  it.ItemName,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	cmd := appprocurement.CreateOrderCommand{
		OrderNumber: req.OrderNumber,
		Type:        procurement.OrderType(req.Type),
		VendorID:    vendorID,
		OrderDate:   req.OrderDate,
		Items:       items,
		Notes:       req.Notes,
	}
	if req.InitialPayment != nil {
		cmd.InitialPayment = &appprocurement.InitialPayment{
			Amount:      req.InitialPayment.Amount,
			Method:      ledger.PaymentMethod(req.InitialPayment.Method),
			PaymentDate: req.InitialPayment.PaymentDate,
			Reference:   req.InitialPayment.Reference,
		}
	}

	order, err := h.service.CreateOrder(c.Request.Context(), cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}

// Get returns a single order with its lines
func (h *ProcurementHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

type updateOrderRequest struct {
	OrderDate *time.Time `json:"order_date"`
	Notes     *string    `json:"notes"`
}

// Update patches an order's header fields
func (h *ProcurementHandler) Update(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.service.UpdateOrder(c.Request.Context(), uuid.MustParse(idReq.ID), appprocurement.UpdateOrderCommand{
		OrderDate: req.OrderDate,
		Notes:     req.Notes,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// List returns orders matching the filter. Query parameters narrow by
// order type or vendor.
func (h *ProcurementHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if vendorID := c.Query("vendor_id"); vendorID != "" {
		id, err := uuid.Parse(vendorID)
		if err != nil {
			h.BadRequest(c, "Invalid vendor ID")
			return
		}
		orders, err := h.service.ListByVendor(c.Request.Context(), id, req.ToFilter())
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		h.Success(c, orders)
		return
	}

	orderType := procurement.OrderType(c.Query("type"))
	orders, err := h.service.ListOrders(c.Request.Context(), orderType, req.ToFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, orders)
}

// Delete removes an order, reversing its balance and stock impact
func (h *ProcurementHandler) Delete(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.service.DeleteOrder(c.Request.Context(), uuid.MustParse(req.ID)); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
