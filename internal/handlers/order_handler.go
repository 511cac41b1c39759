package handlers

import (
	"net/http"
	"time"

	"zettalab-crm/config"
	"zettalab-crm/internal/pricing"
	"zettalab-crm/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderItemInput struct {
	WorkItemID   uint  `json:"workItemId" binding:"required"`
	Quantity     int   `json:"quantity" binding:"required"`
	TechnicianID *uint `json:"technicianId"`
}

type CreateOrderRequest struct {
	ClientID    uint             `json:"clientId" binding:"required"`
	PatientName string           `json:"patientName"`
	DueDate     string           `json:"dueDate"`
	Comment     string           `json:"comment"`
	Items       []OrderItemInput `json:"items" binding:"required"`
}

// CreateOrderHandler создает заказ-наряд. Цена каждой строки фиксируется
// в момент создания через каскад разрешения цен: дальнейшие изменения
// прайс-листов на заказ не влияют.
func CreateOrderHandler(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Заказ должен содержать хотя бы одну позицию"})
		return
	}

	var client models.Client
	if err := config.DB.Where("id = ? AND organization_id = ?", req.ClientID, orgID(c)).First(&client).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Клиент не найден"})
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		t, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат даты. Используйте YYYY-MM-DD."})
			return
		}
		dueDate = &t
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	total := decimal.Zero
	for _, it := range req.Items {
		if it.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Количество в позиции заказа должно быть не меньше 1"})
			return
		}
		resolution, err := pricing.Resolve(config.DB, orgID(c), req.ClientID, it.WorkItemID)
		if err != nil {
			respondError(c, err)
			return
		}
		lineTotal := resolution.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		items = append(items, models.OrderItem{
			WorkItemID:   it.WorkItemID,
			TechnicianID: it.TechnicianID,
			Quantity:     it.Quantity,
			Price:        resolution.Price,
			Total:        lineTotal,
		})
		total = total.Add(lineTotal)
	}

	order := models.Order{
		OrganizationID: orgID(c),
		ClientID:       req.ClientID,
		PatientName:    req.PatientName,
		TotalPrice:     total,
		Status:         models.OrderStatusNew,
		PaymentStatus:  models.PaymentStatusUnpaid,
		DueDate:        dueDate,
		Comment:        req.Comment,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать заказ"})
		return
	}

	order.Items = items
	c.JSON(http.StatusCreated, order)
}

// GetOrderHandler возвращает заказ со строками и клиентом.
func GetOrderHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var order models.Order
	err := config.DB.Preload("Client").Preload("Items").Preload("Items.WorkItem").
		Where("id = ? AND organization_id = ?", id, orgID(c)).First(&order).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Заказ не найден"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListOrdersHandler возвращает пагинированный список заказов с фильтрами
// по клиенту, статусу производства и статусу оплаты.
func ListOrdersHandler(c *gin.Context) {
	query := config.DB.Model(&models.Order{}).Where("organization_id = ?", orgID(c))

	if clientID := c.Query("clientId"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if paymentStatus := c.Query("paymentStatus"); paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось посчитать заказы"})
		return
	}

	var orders []models.Order
	err := query.Scopes(Paginate(c)).Preload("Client").
		Order("created_at DESC").Find(&orders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список заказов"})
		return
	}

	if orders == nil {
		orders = make([]models.Order, 0)
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, orders, totalRows))
}

type OrderStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatusHandler меняет производственный статус заказа.
// Статус оплаты этим эндпоинтом не меняется — им владеет пакет settlement.
func UpdateOrderStatusHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input OrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	switch input.Status {
	case models.OrderStatusNew, models.OrderStatusInProgress,
		models.OrderStatusCompleted, models.OrderStatusCancelled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Недопустимый статус заказа"})
		return
	}

	res := config.DB.Model(&models.Order{}).
		Where("id = ? AND organization_id = ?", id, orgID(c)).
		Update("status", input.Status)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить статус"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Заказ не найден"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Статус заказа обновлен"})
}
