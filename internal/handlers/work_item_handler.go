package handlers

import (
	"net/http"

	"zettalab-crm/config"
	"zettalab-crm/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WorkItemInput struct {
	Name      string          `json:"name" binding:"required"`
	Category  string          `json:"category"`
	Unit      string          `json:"unit"`
	BasePrice decimal.Decimal `json:"basePrice" binding:"required"`
}

// ListWorkItemsHandler возвращает каталог работ организации.
func ListWorkItemsHandler(c *gin.Context) {
	query := config.DB.Where("organization_id = ?", orgID(c))
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var items []models.WorkItem
	if err := query.Order("name").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить каталог работ"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateWorkItemHandler добавляет работу в каталог.
func CreateWorkItemHandler(c *gin.Context) {
	var input WorkItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}
	if input.BasePrice.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Базовая цена не может быть отрицательной"})
		return
	}

	unit := input.Unit
	if unit == "" {
		unit = "шт"
	}

	item := models.WorkItem{
		OrganizationID: orgID(c),
		Name:           input.Name,
		Category:       input.Category,
		Unit:           unit,
		BasePrice:      input.BasePrice,
		IsActive:       true,
	}

	if err := config.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать работу"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateWorkItemHandler изменяет работу каталога.
func UpdateWorkItemHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var item models.WorkItem
	if err := config.DB.Where("id = ? AND organization_id = ?", id, orgID(c)).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Работа не найдена"})
		return
	}

	var input WorkItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}
	if input.BasePrice.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Базовая цена не может быть отрицательной"})
		return
	}

	item.Name = input.Name
	item.Category = input.Category
	if input.Unit != "" {
		item.Unit = input.Unit
	}
	item.BasePrice = input.BasePrice

	if err := config.DB.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить работу"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteWorkItemHandler убирает работу из каталога (мягкое удаление:
// старые заказы и цены продолжают ссылаться на запись).
func DeleteWorkItemHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	res := config.DB.Where("id = ? AND organization_id = ?", id, orgID(c)).Delete(&models.WorkItem{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить работу"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Работа не найдена"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Работа удалена из каталога"})
}
