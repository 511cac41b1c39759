package handlers

import (
	"fmt"
	"net/http"
	"time"

	"zettalab-crm/config"
	"zettalab-crm/models"

	"github.com/Knetic/govaluate"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type TechnicianInput struct {
	FullName   string          `json:"fullName" binding:"required"`
	Phone      string          `json:"phone"`
	BaseSalary decimal.Decimal `json:"baseSalary"`
	PayFormula string          `json:"payFormula"`
	IsActive   *bool           `json:"isActive"`
}

// ListTechniciansHandler возвращает техников организации.
func ListTechniciansHandler(c *gin.Context) {
	var technicians []models.Technician
	err := config.DB.Where("organization_id = ?", orgID(c)).Order("full_name").Find(&technicians).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список техников"})
		return
	}
	c.JSON(http.StatusOK, technicians)
}

// CreateTechnicianHandler добавляет техника. Формула зарплаты проверяется
// на синтаксис сразу, чтобы ошибка не всплыла при первом расчете.
func CreateTechnicianHandler(c *gin.Context) {
	var input TechnicianInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	formula := input.PayFormula
	if formula == "" {
		formula = "amount * 0.3"
	}
	if _, err := govaluate.NewEvaluableExpression(formula); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Ошибка в формуле '%s': %v", formula, err)})
		return
	}

	technician := models.Technician{
		OrganizationID: orgID(c),
		FullName:       input.FullName,
		Phone:          input.Phone,
		BaseSalary:     input.BaseSalary,
		PayFormula:     formula,
		IsActive:       true,
	}

	if err := config.DB.Create(&technician).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать техника"})
		return
	}
	c.JSON(http.StatusCreated, technician)
}

// UpdateTechnicianHandler изменяет данные техника.
func UpdateTechnicianHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var technician models.Technician
	if err := config.DB.Where("id = ? AND organization_id = ?", id, orgID(c)).First(&technician).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Техник не найден"})
		return
	}

	var input TechnicianInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	if input.PayFormula != "" {
		if _, err := govaluate.NewEvaluableExpression(input.PayFormula); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Ошибка в формуле '%s': %v", input.PayFormula, err)})
			return
		}
		technician.PayFormula = input.PayFormula
	}

	technician.FullName = input.FullName
	technician.Phone = input.Phone
	technician.BaseSalary = input.BaseSalary
	if input.IsActive != nil {
		technician.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&technician).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить техника"})
		return
	}
	c.JSON(http.StatusOK, technician)
}

// PayrollEntry — строка расчета зарплаты за период.
type PayrollEntry struct {
	TechnicianID uint            `json:"technicianId"`
	FullName     string          `json:"fullName"`
	Units        int64           `json:"units"`
	Amount       decimal.Decimal `json:"amount"`
	Pay          decimal.Decimal `json:"pay"`
}

// CalculatePayrollHandler считает зарплату техников за месяц: для каждого
// активного техника собираются выполненные строки завершенных заказов,
// затем вычисляется его формула с параметрами units, amount и base.
func CalculatePayrollHandler(c *gin.Context) {
	monthStr := c.Query("month")
	month, err := time.Parse("2006-01", monthStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат месяца. Используйте YYYY-MM."})
		return
	}
	periodStart := month
	periodEnd := month.AddDate(0, 1, 0)

	var technicians []models.Technician
	err = config.DB.Where("organization_id = ? AND is_active = ?", orgID(c), true).
		Order("full_name").Find(&technicians).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список техников"})
		return
	}

	entries := make([]PayrollEntry, 0, len(technicians))
	for _, t := range technicians {
		var row struct {
			Units  int64
			Amount decimal.Decimal
		}
		err := config.DB.Model(&models.OrderItem{}).
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("order_items.technician_id = ? AND orders.status = ? AND orders.updated_at >= ? AND orders.updated_at < ?",
				t.ID, models.OrderStatusCompleted, periodStart, periodEnd).
			Select("COALESCE(SUM(order_items.quantity), 0) AS units, COALESCE(SUM(order_items.total), 0) AS amount").
			Scan(&row).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось собрать выработку техника"})
			return
		}

		expression, err := govaluate.NewEvaluableExpression(t.PayFormula)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Ошибка в формуле техника %s: %v", t.FullName, err)})
			return
		}

		amountF, _ := row.Amount.Float64()
		baseF, _ := t.BaseSalary.Float64()
		parameters := map[string]interface{}{
			"units":  float64(row.Units),
			"amount": amountF,
			"base":   baseF,
		}
		result, err := expression.Evaluate(parameters)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Не удалось вычислить формулу техника %s: %v", t.FullName, err)})
			return
		}
		payF, ok := result.(float64)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Формула техника %s вернула не число", t.FullName)})
			return
		}

		entries = append(entries, PayrollEntry{
			TechnicianID: t.ID,
			FullName:     t.FullName,
			Units:        row.Units,
			Amount:       row.Amount,
			Pay:          decimal.NewFromFloat(payF).Round(2),
		})
	}

	c.JSON(http.StatusOK, gin.H{"month": monthStr, "entries": entries})
}
