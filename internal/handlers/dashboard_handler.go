package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"zettalab-crm/config"
	"zettalab-crm/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// DashboardSummary — сводка для главной страницы.
type DashboardSummary struct {
	TotalBalance decimal.Decimal `json:"totalBalance"`
	MonthIncome  decimal.Decimal `json:"monthIncome"`
	MonthExpense decimal.Decimal `json:"monthExpense"`
	UnpaidOrders int64           `json:"unpaidOrders"`
	OpenInvoices int64           `json:"openInvoices"`
}

// GetDashboardHandler собирает сводку по организации. Результат кэшируется
// в Redis на минуту: дашборд опрашивается часто, а точность до секунды
// ему не нужна.
func GetDashboardHandler(c *gin.Context) {
	org := orgID(c)
	cacheKey := fmt.Sprintf("org:%d:dashboard", org)

	if config.RDB != nil {
		cached, err := config.RDB.Get(config.Ctx, cacheKey).Result()
		if err == nil {
			var summary DashboardSummary
			if json.Unmarshal([]byte(cached), &summary) == nil {
				c.JSON(http.StatusOK, summary)
				return
			}
		}
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var summary DashboardSummary

	row := config.DB.Model(&models.Account{}).
		Where("organization_id = ? AND is_active = ?", org, true).
		Select("COALESCE(SUM(balance), 0)").Row()
	if err := row.Scan(&summary.TotalBalance); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось посчитать балансы"})
		return
	}

	row = config.DB.Model(&models.Payment{}).
		Where("organization_id = ? AND payment_date >= ?", org, monthStart).
		Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&summary.MonthIncome); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось посчитать доход"})
		return
	}

	row = config.DB.Model(&models.Expense{}).
		Where("organization_id = ? AND expense_date >= ?", org, monthStart).
		Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&summary.MonthExpense); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось посчитать расходы"})
		return
	}

	config.DB.Model(&models.Order{}).
		Where("organization_id = ? AND payment_status <> ?", org, models.PaymentStatusPaid).
		Count(&summary.UnpaidOrders)
	config.DB.Model(&models.Invoice{}).
		Where("organization_id = ? AND is_paid = ?", org, false).
		Count(&summary.OpenInvoices)

	if config.RDB != nil {
		if data, err := json.Marshal(summary); err == nil {
			if err := config.RDB.Set(config.Ctx, cacheKey, data, time.Minute).Err(); err != nil {
				slog.Warn("Не удалось закэшировать сводку", "error", err)
			}
		}
	}

	c.JSON(http.StatusOK, summary)
}
