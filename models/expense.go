package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense представляет расход организации (материалы, аренда, зарплата и т.д.).
// В отличие от платежа, расход можно редактировать: пакет ledger при
// обновлении откатывает старый эффект на балансе и применяет новый в одной
// транзакции.
type Expense struct {
	gorm.Model
	OrganizationID uint            `json:"organizationId" gorm:"not null;index"`
	Category       string          `json:"category" gorm:"not null"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	ExpenseDate    time.Time       `json:"expenseDate" gorm:"not null"`
	AccountID      *uint           `json:"accountId" gorm:"index"` // nil — расход без привязки к счету
	IsRecurring    bool            `json:"isRecurring" gorm:"default:false"`
	ReceiptFileUrl string          `json:"receiptFileUrl"`
}
