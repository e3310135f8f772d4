package handler

import (
	appparty "github.com/bizledger/backend/internal/application/party"
	"github.com/bizledger/backend/internal/domain/party"
	"github.com/bizledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PartyHandler exposes the client and vendor endpoints
type PartyHandler struct {
	BaseHandler
	service *appparty.Service
}

// NewPartyHandler creates a new PartyHandler
func NewPartyHandler(service *appparty.Service) *PartyHandler {
	return &PartyHandler{service: service}
}

// RegisterRoutes registers client and vendor routes
func (h *PartyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/clients")
	{
		clients.POST("", h.CreateClient)
		clients.GET("", h.ListClients)
		clients.GET("/:id", h.GetClient)
		clients.POST("/:id/deactivate", h.DeactivateClient)
	}

	vendors := rg.Group("/vendors")
	{
		vendors.POST("", h.CreateVendor)
		vendors.GET("", h.ListVendors)
		vendors.GET("/:id", h.GetVendor)
		vendors.POST("/:id/deactivate", h.DeactivateVendor)
	}
}

type createClientRequest struct {
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email" binding:"omitempty,email"`
	Address     string `json:"address"`
	GSTNumber   string `json:"gst_number"`
	Notes       string `json:"notes"`
}

type createVendorRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email" binding:"omitempty,email"`
	Address     string `json:"address"`
	GSTNumber   string `json:"gst_number"`
	Notes       string `json:"notes"`
}

// CreateClient registers a new client
func (h *PartyHandler) CreateClient(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	client, err := h.service.CreateClient(c.Request.Context(), appparty.CreateClientCommand{
		Name:        req.Name,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		GSTNumber:   req.GSTNumber,
		Notes:       req.Notes,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, client)
}

// CreateVendor registers a new vendor
func (h *PartyHandler) CreateVendor(c *gin.Context) {
	var req createVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	vendor, err := h.service.CreateVendor(c.Request.Context(), appparty.CreateVendorCommand{
		Name:        req.Name,
		Category:    party.VendorCategory(req.Category),
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		GSTNumber:   req.GSTNumber,
		Notes:       req.Notes,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, vendor)
}

// GetClient returns a single client
func (h *PartyHandler) GetClient(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	client, err := h.service.GetClient(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, client)
}

// GetVendor returns a single vendor
func (h *PartyHandler) GetVendor(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid vendor ID")
		return
	}

	vendor, err := h.service.GetVendor(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, vendor)
}

// ListClients returns clients matching the filter
func (h *PartyHandler) ListClients(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	clients, err := h.service.ListClients(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, clients)
}

// ListVendors returns vendors matching the filter
func (h *PartyHandler) ListVendors(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	vendors, err := h.service.ListVendors(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, vendors)
}

// DeactivateClient marks a client inactive
func (h *PartyHandler) DeactivateClient(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	if err := h.service.DeactivateClient(c.Request.Context(), uuid.MustParse(req.ID)); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// DeactivateVendor marks a vendor inactive
func (h *PartyHandler) DeactivateVendor(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid vendor ID")
		return
	}

	if err := h.service.DeactivateVendor(c.Request.Context(), uuid.MustParse(req.ID)); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
