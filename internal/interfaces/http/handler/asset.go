package handler

import (
	"time"

	appassets "github.com/bizledger/backend/internal/application/assets"
	"github.com/bizledger/backend/internal/domain/assets"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetHandler exposes the asset endpoints
type AssetHandler struct {
	BaseHandler
	service *appassets.Service
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(service *appassets.Service) *AssetHandler {
	return &AssetHandler{service: service}
}

// RegisterRoutes registers asset routes
func (h *AssetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	assets := rg.Group("/assets")
	{
		assets.POST("", h.Create)
		assets.GET("", h.List)
		assets.GET("/:id", h.Get)
		assets.PUT("/:id/vendor", h.ReassignVendor)
		assets.DELETE("/:id", h.Delete)
	}
}

type createAssetRequest struct {
	Name           string                 `json:"name" binding:"required"`
	Category       string                 `json:"category" binding:"required"`
	PurchasePrice  decimal.Decimal        `json:"purchase_price" binding:"required"`
	PurchaseDate   time.Time              `json:"purchase_date"`
	VendorID       *string                `json:"vendor_id" binding:"omitempty,uuid"`
	Notes          string                 `json:"notes"`
	InitialPayment *initialPaymentRequest `json:"initial_payment"`
}

type reassignVendorRequest struct {
	VendorID *string `json:"vendor_id" binding:"omitempty,uuid"`
}

// Create records an asset purchase
func (h *AssetHandler) Create(c *gin.Context) {
	var req createAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := appassets.CreateAssetCommand{
		Name:          req.Name,
		Category:      assets.Category(req.Category),
		PurchasePrice: req.PurchasePrice,
		PurchaseDate:  req.PurchaseDate,
		Notes:         req.Notes,
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
		cmd.InitialPayment = &appassets.InitialPayment{
			Amount:      req.InitialPayment.Amount,
			Method:      ledger.PaymentMethod(req.InitialPayment.Method),
			PaymentDate: req.InitialPayment.PaymentDate,
			Reference:   req.InitialPayment.Reference,
		}
	}

	asset, err := h.service.CreateAsset(c.Request.Context(), cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, asset)
}

// Get returns a single asset
func (h *AssetHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}

	asset, err := h.service.GetAsset(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, asset)
}

// List returns assets matching the filter
func (h *AssetHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	assets, err := h.service.ListAssets(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, assets)
}

// ReassignVendor moves an asset to a different vendor, shifting the unpaid
// remainder between vendor payables. A null vendor detaches the asset.
func (h *AssetHandler) ReassignVendor(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}

	var req reassignVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var newVendorID *uuid.UUID
	if req.VendorID != nil && *req.VendorID != "" {
		vendorID, err := uuid.Parse(*req.VendorID)
		if err != nil {
			h.BadRequest(c, "Invalid vendor ID")
			return
		}
		newVendorID = &vendorID
	}

	asset, err := h.service.ReassignVendor(c.Request.Context(), uuid.MustParse(idReq.ID), newVendorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, asset)
}

// Delete removes an asset, reversing its balance impact
func (h *AssetHandler) Delete(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}

	if err := h.service.DeleteAsset(c.Request.Context(), uuid.MustParse(req.ID)); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
