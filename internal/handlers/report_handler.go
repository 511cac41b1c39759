package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"zettalab-crm/config"
	"zettalab-crm/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportFinanceReportHandler выгружает платежи и расходы за период в xlsx:
// лист "Платежи" и лист "Расходы".
func ExportFinanceReportHandler(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")

	paymentsQuery := config.DB.Preload("Client").
		Where("organization_id = ?", orgID(c)).Order("payment_date")
	expensesQuery := config.DB.
		Where("organization_id = ?", orgID(c)).Order("expense_date")
	if from != "" {
		paymentsQuery = paymentsQuery.Where("payment_date >= ?", from)
		expensesQuery = expensesQuery.Where("expense_date >= ?", from)
	}
	if to != "" {
		paymentsQuery = paymentsQuery.Where("payment_date <= ?", to)
		expensesQuery = expensesQuery.Where("expense_date <= ?", to)
	}

	var payments []models.Payment
	if err := paymentsQuery.Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить платежи"})
		return
	}
	var expenses []models.Expense
	if err := expensesQuery.Find(&expenses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить расходы"})
		return
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("Не удалось закрыть xlsx файл", "error", err)
		}
	}()

	paymentsSheet := "Платежи"
	f.SetSheetName("Sheet1", paymentsSheet)
	paymentHeaders := []string{"ID", "Дата", "Клиент", "Сумма", "Способ", "Счет", "Заказ", "Примечание"}
	for i, h := range paymentHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(paymentsSheet, cell, h)
	}
	for rowIdx, p := range payments {
		accountID := ""
		if p.AccountID != nil {
			accountID = fmt.Sprintf("%d", *p.AccountID)
		}
		orderIDStr := ""
		if p.OrderID != nil {
			orderIDStr = fmt.Sprintf("%d", *p.OrderID)
		}
		values := []interface{}{
			p.ID, p.PaymentDate.Format("2006-01-02"), p.Client.Name,
			p.Amount.InexactFloat64(), p.Method, accountID, orderIDStr, p.Notes,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(paymentsSheet, cell, v)
		}
	}

	expensesSheet := "Расходы"
	f.NewSheet(expensesSheet)
	expenseHeaders := []string{"ID", "Дата", "Категория", "Описание", "Сумма", "Счет", "Регулярный"}
	for i, h := range expenseHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(expensesSheet, cell, h)
	}
	for rowIdx, e := range expenses {
		accountID := ""
		if e.AccountID != nil {
			accountID = fmt.Sprintf("%d", *e.AccountID)
		}
		recurring := "нет"
		if e.IsRecurring {
			recurring = "да"
		}
		values := []interface{}{
			e.ID, e.ExpenseDate.Format("2006-01-02"), e.Category, e.Description,
			e.Amount.InexactFloat64(), accountID, recurring,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(expensesSheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сформировать файл отчета"})
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename=finance_report.xlsx")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
