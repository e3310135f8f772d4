package handler

import (
	"time"

	appsales "github.com/bizledger/backend/internal/application/sales"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleHandler exposes the sale endpoints
type SaleHandler struct {
	BaseHandler
	service *appsales.Service
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(service *appsales.Service) *SaleHandler {
	return &SaleHandler{service: service}
}

// RegisterRoutes registers sale routes
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	{
		sales.POST("", h.Create)
		sales.GET("", h.List)
		sales.GET("/:id", h.Get)
		sales.PUT("/:id", h.Update)
		sales.DELETE("/:id", h.Delete)
		sales.POST("/:id/items", h.AddItem)
		sales.DELETE("/:id/items/:itemId", h.RemoveItem)
	}
}

type saleItemRequest struct {
	ItemID    string          `json:"item_id" binding:"required,uuid"`
	ItemName  string          `json:"item_name" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

type createSaleRequest struct {
	SaleNumber     string                 `json:"sale_number" binding:"required"`
	ClientID       string                 `json:"client_id" binding:"required,uuid"`
	SaleDate       time.Time              `json:"sale_date"`
	Items          []saleItemRequest      `json:"items" binding:"required,min=1,dive"`
	Notes          string                 `json:"notes"`
	InitialPayment *initialPaymentRequest `json:"initial_payment"`
}

func (r saleItemRequest) toInput() (appsales.ItemInput, error) {
	itemID, err := uuid.Parse(r.ItemID)
	if err != nil {
		return appsales.ItemInput{}, err
	}
	return appsales.ItemInput{
		ItemID:    itemID,
		ItemName:  r.ItemName,
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
	}, nil
}

// Create records a sale with its lines
func (h *SaleHandler) Create(c *gin.Context) {
	var req createSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	items := make([]appsales.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		input, err := it.toInput()
		if err != nil {
			h.BadRequest(c, "Invalid item ID")
			return
		}
		items = append(items, input)
	}

	cmd := appsales.CreateSaleCommand{
		SaleNumber: req.SaleNumber,
		ClientID:   clientID,
		SaleDate:   req.SaleDate,
		Items:      items,
		Notes:      req.Notes,
	}
	if req.InitialPayment != nil {
		cmd.InitialPayment = &appsales.InitialPayment{
			Amount:      req.InitialPayment.Amount,
			Method:      ledger.PaymentMethod(req.InitialPayment.Method),
			PaymentDate: req.InitialPayment.PaymentDate,
			Reference:   req.InitialPayment.Reference,
		}
	}

	sale, err := h.service.CreateSale(c.Request.Context(), cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, sale)
}

// Get returns a single sale with its lines
func (h *SaleHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.service.GetSale(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sale)
}

type updateSaleRequest struct {
	SaleDate *time.Time `json:"sale_date"`
	Notes    *string    `json:"notes"`
}

// Update patches a sale's header fields
func (h *SaleHandler) Update(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	var req updateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.service.UpdateSale(c.Request.Context(), uuid.MustParse(idReq.ID), appsales.UpdateSaleCommand{
		SaleDate: req.SaleDate,
		Notes:    req.Notes,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sale)
}

// List returns sales matching the filter. A client_id query parameter
// narrows the listing to one client.
func (h *SaleHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if clientID := c.Query("client_id"); clientID != "" {
		id, err := uuid.Parse(clientID)
		if err != nil {
			h.BadRequest(c, "Invalid client ID")
			return
		}
		sales, err := h.service.ListByClient(c.Request.Context(), id, req.ToFilter())
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		h.Success(c, sales)
		return
	}

	sales, err := h.service.ListSales(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sales)
}

// AddItem appends a line to an existing sale
func (h *SaleHandler) AddItem(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	var req saleItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	sale, err := h.service.AddItem(c.Request.Context(), uuid.MustParse(idReq.ID), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sale)
}

// RemoveItem removes a line from an existing sale
func (h *SaleHandler) RemoveItem(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	sale, err := h.service.RemoveItem(c.Request.Context(), uuid.MustParse(idReq.ID), itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sale)
}

// Delete removes a sale, reversing its balance and stock impact
func (h *SaleHandler) Delete(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	if err := h.service.DeleteSale(c.Request.Context(), uuid.MustParse(req.ID)); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
