package handlers

import (
	"net/http"

	"zettalab-crm/config"
	"zettalab-crm/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AccountInput struct {
	Name      string `json:"name" binding:"required"`
	Type      string `json:"type"`
	IsDefault bool   `json:"isDefault"`
}

// ListAccountsHandler возвращает все счета организации с текущими балансами.
func ListAccountsHandler(c *gin.Context) {
	var accounts []models.Account
	err := config.DB.Where("organization_id = ?", orgID(c)).Order("id").Find(&accounts).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список счетов"})
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// CreateAccountHandler создает новый счет учета денежных средств.
// Баланс нового счета всегда 0: деньги на него попадают только платежами.
func CreateAccountHandler(c *gin.Context) {
	var input AccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	accountType := input.Type
	if accountType == "" {
		accountType = models.AccountTypeCash
	}

	account := models.Account{
		OrganizationID: orgID(c),
		Name:           input.Name,
		Type:           accountType,
		IsActive:       true,
		IsDefault:      input.IsDefault,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if account.IsDefault {
			// Счет по умолчанию может быть только один.
			if err := tx.Model(&models.Account{}).
				Where("organization_id = ?", account.OrganizationID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&account).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать счет"})
		return
	}

	c.JSON(http.StatusCreated, account)
}

type AccountUpdateInput struct {
	Name      string `json:"name" binding:"required"`
	Type      string `json:"type"`
	IsActive  *bool  `json:"isActive"`
	IsDefault *bool  `json:"isDefault"`
}

// UpdateAccountHandler изменяет атрибуты счета. Баланс через этот эндпоинт
// изменить нельзя — им владеет пакет ledger.
func UpdateAccountHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input AccountUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	var account models.Account
	if err := config.DB.Where("id = ? AND organization_id = ?", id, orgID(c)).First(&account).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Счет не найден"})
		return
	}

	account.Name = input.Name
	if input.Type != "" {
		account.Type = input.Type
	}
	if input.IsActive != nil {
		account.IsActive = *input.IsActive
	}
	if input.IsDefault != nil {
		account.IsDefault = *input.IsDefault
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if account.IsDefault {
			if err := tx.Model(&models.Account{}).
				Where("organization_id = ? AND id <> ?", account.OrganizationID, account.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(&account).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить счет"})
		return
	}

	c.JSON(http.StatusOK, account)
}

// DeleteAccountHandler удаляет счет, на который не ссылается ни один платеж
// или расход: иначе удаление разорвало бы восстановимость баланса.
func DeleteAccountHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var account models.Account
	if err := config.DB.Where("id = ? AND organization_id = ?", id, orgID(c)).First(&account).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Счет не найден"})
		return
	}

	var refs int64
	config.DB.Model(&models.Payment{}).Where("account_id = ?", account.ID).Count(&refs)
	if refs == 0 {
		config.DB.Model(&models.Expense{}).Where("account_id = ?", account.ID).Count(&refs)
	}
	if refs > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Нельзя удалить счет, по которому есть операции"})
		return
	}

	if err := config.DB.Delete(&account).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить счет"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Счет удален"})
}
