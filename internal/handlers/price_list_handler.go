package handlers

import (
	"net/http"

	"zettalab-crm/config"
	"zettalab-crm/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PriceListInput struct {
	Name      string `json:"name" binding:"required"`
	Type      string `json:"type"`
	IsActive  *bool  `json:"isActive"`
	IsDefault bool   `json:"isDefault"`
}

// ListPriceListsHandler возвращает прайс-листы организации.
func ListPriceListsHandler(c *gin.Context) {
	var lists []models.PriceList
	err := config.DB.Where("organization_id = ?", orgID(c)).Order("id").Find(&lists).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить прайс-листы"})
		return
	}
	c.JSON(http.StatusOK, lists)
}

// GetPriceListHandler возвращает прайс-лист вместе с позициями.
func GetPriceListHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var list models.PriceList
	err := config.DB.Preload("Items").
		Where("id = ? AND organization_id = ?", id, orgID(c)).First(&list).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Прайс-лист не найден"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreatePriceListHandler создает прайс-лист.
func CreatePriceListHandler(c *gin.Context) {
	var input PriceListInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	listType := input.Type
	if listType == "" {
		listType = models.PriceListTypeClient
	}

	list := models.PriceList{
		OrganizationID: orgID(c),
		Name:           input.Name,
		Type:           listType,
		IsActive:       true,
		IsDefault:      input.IsDefault,
	}
	if input.IsActive != nil {
		list.IsActive = *input.IsActive
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if list.IsDefault {
			if err := tx.Model(&models.PriceList{}).
				Where("organization_id = ?", list.OrganizationID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&list).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать прайс-лист"})
		return
	}
	c.JSON(http.StatusCreated, list)
}

// UpdatePriceListHandler изменяет атрибуты прайс-листа.
func UpdatePriceListHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var list models.PriceList
	if err := config.DB.Where("id = ? AND organization_id = ?", id, orgID(c)).First(&list).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Прайс-лист не найден"})
		return
	}

	var input PriceListInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	list.Name = input.Name
	if input.Type != "" {
		list.Type = input.Type
	}
	if input.IsActive != nil {
		list.IsActive = *input.IsActive
	}
	list.IsDefault = input.IsDefault

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if list.IsDefault {
			if err := tx.Model(&models.PriceList{}).
				Where("organization_id = ? AND id <> ?", list.OrganizationID, list.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(&list).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить прайс-лист"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// DeletePriceListHandler удаляет прайс-лист вместе с позициями и привязками
// к клиентам в одной транзакции.
func DeletePriceListHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var list models.PriceList
	if err := config.DB.Where("id = ? AND organization_id = ?", id, orgID(c)).First(&list).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Прайс-лист не найден"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("price_list_id = ?", list.ID).Delete(&models.PriceListItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("price_list_id = ?", list.ID).Delete(&models.ClientPriceList{}).Error; err != nil {
			return err
		}
		return tx.Delete(&list).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить прайс-лист"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Прайс-лист удален"})
}

type PriceListItemInput struct {
	WorkItemID uint            `json:"workItemId" binding:"required"`
	Price      decimal.Decimal `json:"price" binding:"required"`
}

// SetPriceListItemHandler задает цену работы в прайс-листе
// (upsert по паре прайс-лист+работа).
func SetPriceListItemHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input PriceListItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}
	if input.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Цена не может быть отрицательной"})
		return
	}

	var count int64
	config.DB.Model(&models.PriceList{}).
		Where("id = ? AND organization_id = ?", id, orgID(c)).Count(&count)
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Прайс-лист не найден"})
		return
	}

	item := models.PriceListItem{
		PriceListID: id,
		WorkItemID:  input.WorkItemID,
		Price:       input.Price,
	}

	err := config.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "price_list_id"}, {Name: "work_item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "updated_at", "deleted_at"}),
	}).Create(&item).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить позицию"})
		return
	}
	c.JSON(http.StatusOK, item)
}
