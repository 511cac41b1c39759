// internal/handlers/invoice_handler.go
package handlers

import (
	"net/http"
	"time"

	"zettalab-crm/config"
	"zettalab-crm/internal/billing"
	"zettalab-crm/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type InvoiceItemRequest struct {
	Description string           `json:"description" binding:"required"`
	Quantity    int              `json:"quantity" binding:"required"`
	Price       *decimal.Decimal `json:"price"`
	WorkItemID  *uint            `json:"workItemId"`
	OrderItemID *uint            `json:"orderItemId"`
}

type CreateInvoiceRequest struct {
	ClientID     uint                 `json:"clientId" binding:"required"`
	InvoiceDate  string               `json:"invoiceDate"`
	RequisitesID *uint                `json:"requisitesId"`
	Items        []InvoiceItemRequest `json:"items" binding:"required"`
}

// CreateInvoiceHandler выставляет счет клиенту. Номер и годовой порядковый
// номер назначаются внутри транзакции создания пакетом numbering.
func CreateInvoiceHandler(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	var invoiceDate time.Time
	if req.InvoiceDate != "" {
		t, err := time.Parse("2006-01-02", req.InvoiceDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат даты. Используйте YYYY-MM-DD."})
			return
		}
		invoiceDate = t
	}

	items := make([]billing.CreateInvoiceItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, billing.CreateInvoiceItemInput{
			Description: it.Description,
			Quantity:    it.Quantity,
			Price:       it.Price,
			WorkItemID:  it.WorkItemID,
			OrderItemID: it.OrderItemID,
		})
	}

	invoice, err := billing.CreateInvoice(config.DB, orgID(c), billing.CreateInvoiceInput{
		ClientID:     req.ClientID,
		InvoiceDate:  invoiceDate,
		RequisitesID: req.RequisitesID,
		Items:        items,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// ListInvoicesHandler возвращает пагинированный список счетов организации.
func ListInvoicesHandler(c *gin.Context) {
	query := config.DB.Model(&models.Invoice{}).Where("organization_id = ?", orgID(c))

	if clientID := c.Query("clientId"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if isPaid := c.Query("isPaid"); isPaid != "" {
		query = query.Where("is_paid = ?", isPaid == "true")
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось посчитать счета"})
		return
	}

	var invoices []models.Invoice
	err := query.Scopes(Paginate(c)).Preload("Client").
		Order("created_at DESC").Find(&invoices).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список счетов"})
		return
	}

	if invoices == nil {
		invoices = make([]models.Invoice, 0)
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, invoices, totalRows))
}

// GetInvoiceHandler возвращает счет со строками. В ответ добавляется сумма
// прописью — ее использует слой печати счетов.
func GetInvoiceHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var invoice models.Invoice
	err := config.DB.Preload("Client").Preload("Items").
		Where("id = ? AND organization_id = ?", id, orgID(c)).First(&invoice).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Счет не найден"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoice":      invoice,
		"totalInWords": billing.AmountInWords(invoice.Total),
	})
}

// MarkInvoicePaidHandler отмечает счет оплаченным. Повторный вызов — no-op.
func MarkInvoicePaidHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := billing.MarkPaid(config.DB, orgID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Счет отмечен как оплаченный", "invoice": invoice})
}

// DeleteInvoiceHandler удаляет неоплаченный счет вместе со строками.
// Для оплаченного счета вернется 400: оплаченные счета неудаляемы.
func DeleteInvoiceHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := billing.DeleteInvoice(config.DB, orgID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Счет удален"})
}
