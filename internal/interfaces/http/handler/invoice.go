package handler

import (
	"strconv"
	"time"

	invoicingapp "github.com/clickinvoice/backend/internal/application/invoicing"
	"github.com/clickinvoice/backend/internal/domain/invoicing"
	"github.com/clickinvoice/backend/internal/domain/shared"
	"github.com/clickinvoice/backend/internal/interfaces/http/dto"
	"github.com/clickinvoice/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceHandler handles invoice-related API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *invoicingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *invoicingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

// InvoiceItemRequest is a line item in an invoice creation request
type InvoiceItemRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Amount      decimal.Decimal `json:"amount"`
}

// CreateInvoiceRequest represents a request to create a new invoice
type CreateInvoiceRequest struct {
	InvoiceID     string               `json:"invoice_id" binding:"required,min=1,max=100"`
	UserInvoiceID string               `json:"user_invoice_id" binding:"max=100"`
	ProjectName   string               `json:"project_name" binding:"max=200"`
	InvoiceDate   *time.Time           `json:"invoice_date"`
	DueDate       *time.Time           `json:"due_date"`
	Notes         string               `json:"notes" binding:"max=2000"`
	Currency      string               `json:"currency" binding:"omitempty,len=3"`
	CustomerID    *string              `json:"customer_id" binding:"omitempty,uuid"`
	Items         []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	TaxPercentage decimal.Decimal      `json:"tax_percentage"`
	AmountPaid    decimal.Decimal      `json:"amount_paid"`
}

// UpdateInvoiceStatusRequest represents a request to transition an invoice's status
type UpdateInvoiceStatusRequest struct {
	Status     string           `json:"status" binding:"required"`
	AmountPaid *decimal.Decimal `json:"amount_paid"`
	Reason     string           `json:"reason" binding:"max=500"`
}

// Create creates a new invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	cmd := invoicingapp.CreateInvoiceCommand{
		TenantID:      tenantID,
		UserID:        userID,
		InvoiceID:     req.InvoiceID,
		UserInvoiceID: req.UserInvoiceID,
		ProjectName:   req.ProjectName,
		InvoiceDate:   req.InvoiceDate,
		DueDate:       req.DueDate,
		Notes:         req.Notes,
		Currency:      req.Currency,
		TaxPercentage: req.TaxPercentage,
		AmountPaid:    req.AmountPaid,
	}
	if req.CustomerID != nil {
		customerID, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID")
			return
		}
		cmd.CustomerID = &customerID
	}
	cmd.Items = make([]invoicingapp.ItemCommand, len(req.Items))
	for i, item := range req.Items {
		cmd.Items[i] = invoicingapp.ItemCommand{
			Description: item.Description,
			Amount:      item.Amount,
		}
	}

	result, err := h.invoiceService.CreateInvoice(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// List returns the authenticated user's invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	filter := bindListFilter(c)
	result, err := h.invoiceService.ListInvoices(c.Request.Context(), tenantID, userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Invoices, result.Total, result.Page, result.PageSize)
}

// Latest returns the user's most recent invoices
func (h *InvoiceHandler) Latest(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	limit := 5
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 50 {
			h.BadRequest(c, "limit must be between 1 and 50")
			return
		}
		limit = parsed
	}

	results, err := h.invoiceService.ListLatest(c.Request.Context(), tenantID, userID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// Summary returns collected and outstanding totals for the user
func (h *InvoiceHandler) Summary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.invoiceService.GetSummary(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Get returns a single invoice by its invoice number
func (h *InvoiceHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoiceID := c.Param("invoiceId")
	result, err := h.invoiceService.GetInvoice(c.Request.Context(), tenantID, userID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateStatus transitions an invoice to a new status
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	cmd := invoicingapp.UpdateStatusCommand{
		TenantID:   tenantID,
		UserID:     userID,
		InvoiceID:  c.Param("invoiceId"),
		Status:     invoicing.InvoiceStatus(req.Status),
		AmountPaid: req.AmountPaid,
		Reason:     req.Reason,
	}

	result, err := h.invoiceService.UpdateStatus(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Receipts returns invoices that carry a receipt, optionally filtered by status
func (h *InvoiceHandler) Receipts(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var status *invoicing.InvoiceStatus
	if raw := c.Query("status"); raw != "" {
		parsed := invoicing.InvoiceStatus(raw)
		status = &parsed
	}

	filter := bindListFilter(c)
	result, err := h.invoiceService.ListReceipts(c.Request.Context(), tenantID, userID, status, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Invoices, result.Total, result.Page, result.PageSize)
}

// GetReceipt returns the invoice carrying the given receipt ID
func (h *InvoiceHandler) GetReceipt(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	receiptID := c.Param("receiptId")
	result, err := h.invoiceService.GetByReceiptID(c.Request.Context(), tenantID, userID, receiptID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListByCustomer returns the user's invoices for a given customer
func (h *InvoiceHandler) ListByCustomer(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	filter := bindListFilter(c)
	result, err := h.invoiceService.ListByCustomer(c.Request.Context(), tenantID, userID, customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Invoices, result.Total, result.Page, result.PageSize)
}

// bindListFilter builds a repository filter from common query parameters
func bindListFilter(c *gin.Context) shared.Filter {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		return shared.DefaultFilter()
	}
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	filter.Search = req.Search
	return filter
}
