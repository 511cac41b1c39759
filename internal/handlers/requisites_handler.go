package handlers

import (
	"net/http"

	"zettalab-crm/config"
	"zettalab-crm/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RequisitesInput struct {
	LegalName   string `json:"legalName" binding:"required"`
	Inn         string `json:"inn"`
	Kpp         string `json:"kpp"`
	BankName    string `json:"bankName"`
	BankAccount string `json:"bankAccount"`
	Bik         string `json:"bik"`
	Address     string `json:"address"`
	IsDefault   bool   `json:"isDefault"`
}

// ListRequisitesHandler возвращает наборы реквизитов организации.
func ListRequisitesHandler(c *gin.Context) {
	var requisites []models.Requisites
	err := config.DB.Where("organization_id = ?", orgID(c)).Order("id").Find(&requisites).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить реквизиты"})
		return
	}
	c.JSON(http.StatusOK, requisites)
}

// CreateRequisitesHandler добавляет набор реквизитов.
func CreateRequisitesHandler(c *gin.Context) {
	var input RequisitesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	requisites := models.Requisites{
		OrganizationID: orgID(c),
		LegalName:      input.LegalName,
		Inn:            input.Inn,
		Kpp:            input.Kpp,
		BankName:       input.BankName,
		BankAccount:    input.BankAccount,
		Bik:            input.Bik,
		Address:        input.Address,
		IsDefault:      input.IsDefault,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if requisites.IsDefault {
			// Реквизиты по умолчанию могут быть только одни.
			if err := tx.Model(&models.Requisites{}).
				Where("organization_id = ?", requisites.OrganizationID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&requisites).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать реквизиты"})
		return
	}
	c.JSON(http.StatusCreated, requisites)
}

// UpdateRequisitesHandler изменяет набор реквизитов.
func UpdateRequisitesHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var requisites models.Requisites
	if err := config.DB.Where("id = ? AND organization_id = ?", id, orgID(c)).First(&requisites).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Реквизиты не найдены"})
		return
	}

	var input RequisitesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	requisites.LegalName = input.LegalName
	requisites.Inn = input.Inn
	requisites.Kpp = input.Kpp
	requisites.BankName = input.BankName
	requisites.BankAccount = input.BankAccount
	requisites.Bik = input.Bik
	requisites.Address = input.Address
	requisites.IsDefault = input.IsDefault

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if requisites.IsDefault {
			if err := tx.Model(&models.Requisites{}).
				Where("organization_id = ? AND id <> ?", requisites.OrganizationID, requisites.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(&requisites).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить реквизиты"})
		return
	}
	c.JSON(http.StatusOK, requisites)
}
