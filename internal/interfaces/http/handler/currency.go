package handler

import (
	identityapp "github.com/clickinvoice/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// CurrencyHandler serves the public currency directory
type CurrencyHandler struct {
	BaseHandler
	tenantService *identityapp.TenantService
}

// NewCurrencyHandler creates a new CurrencyHandler
func NewCurrencyHandler(tenantService *identityapp.TenantService) *CurrencyHandler {
	return &CurrencyHandler{
		tenantService: tenantService,
	}
}

// List returns all supported currencies. This endpoint is public.
func (h *CurrencyHandler) List(c *gin.Context) {
	currencies, err := h.tenantService.ListCurrencies(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, currencies)
}
