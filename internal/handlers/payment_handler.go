package handlers

import (
	"net/http"
	"time"

	"zettalab-crm/config"
	"zettalab-crm/internal/ledger"
	"zettalab-crm/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest определяет структуру для входящих данных платежа.
type CreatePaymentRequest struct {
	ClientID    uint            `json:"clientId" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Method      string          `json:"method"`
	PaymentDate string          `json:"paymentDate" binding:"required"`
	AccountID   *uint           `json:"accountId"`
	OrderID     *uint           `json:"orderId"`
	Notes       string          `json:"notes"`
}

// CreatePaymentHandler регистрирует платеж от клиента. Запись платежа,
// увеличение баланса счета и пересчет статуса заказа выполняет пакет ledger
// в одной транзакции.
func CreatePaymentHandler(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат даты. Используйте YYYY-MM-DD."})
		return
	}

	payment, err := ledger.CreatePayment(config.DB, orgID(c), ledger.CreatePaymentInput{
		ClientID:    req.ClientID,
		Amount:      req.Amount,
		Method:      req.Method,
		PaymentDate: paymentDate,
		AccountID:   req.AccountID,
		OrderID:     req.OrderID,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// DeletePaymentHandler удаляет платеж с откатом его эффекта на балансе.
func DeletePaymentHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ledger.DeletePayment(config.DB, orgID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Платеж удален"})
}

// ListPaymentsHandler возвращает пагинированный список платежей организации
// с фильтрами по клиенту, заказу и периоду.
func ListPaymentsHandler(c *gin.Context) {
	query := config.DB.Model(&models.Payment{}).
		Where("payments.organization_id = ?", orgID(c))

	if clientID := c.Query("clientId"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if orderIDStr := c.Query("orderId"); orderIDStr != "" {
		query = query.Where("order_id = ?", orderIDStr)
	}
	if from := c.Query("from"); from != "" {
		query = query.Where("payment_date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("payment_date <= ?", to)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось посчитать платежи"})
		return
	}

	var payments []models.Payment
	err := query.Scopes(Paginate(c)).Preload("Client").
		Order("payment_date DESC, id DESC").Find(&payments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список платежей"})
		return
	}

	if payments == nil {
		payments = make([]models.Payment, 0)
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, payments, totalRows))
}
