package handler

import (
	identityapp "github.com/clickinvoice/backend/internal/application/identity"
	"github.com/clickinvoice/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TenantHandler handles workspace-related API endpoints
type TenantHandler struct {
	BaseHandler
	tenantService *identityapp.TenantService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *identityapp.TenantService) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
	}
}

// CreateTenantRequest represents a request to create a workspace
type CreateTenantRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Slug     string `json:"slug" binding:"required,min=1,max=63"`
	Currency string `json:"currency" binding:"required,len=3"`
}

// ChangeCurrencyRequest represents a request to change the workspace currency
type ChangeCurrencyRequest struct {
	Currency string `json:"currency" binding:"required,len=3"`
}

// Create provisions a new workspace owned by the authenticated user
func (h *TenantHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	tenant, err := h.tenantService.CreateTenant(c.Request.Context(), identityapp.CreateTenantCommand{
		Name:     req.Name,
		Slug:     req.Slug,
		Currency: req.Currency,
		OwnerID:  userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, tenant)
}

// List returns the workspaces owned by the authenticated user
func (h *TenantHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	tenants, err := h.tenantService.ListTenants(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenants)
}

// Get returns a single workspace
func (h *TenantHandler) Get(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid workspace ID")
		return
	}

	tenant, err := h.tenantService.GetTenant(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// ChangeCurrency switches a workspace's default invoicing currency
func (h *TenantHandler) ChangeCurrency(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid workspace ID")
		return
	}

	var req ChangeCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	tenant, err := h.tenantService.ChangeCurrency(c.Request.Context(), tenantID, req.Currency)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}
