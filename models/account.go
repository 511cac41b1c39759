package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Типы счетов учета денежных средств.
const (
	AccountTypeCash  = "cash"
	AccountTypeBank  = "bank"
	AccountTypeCard  = "card"
	AccountTypeOther = "other"
)

// Account представляет счет учета денежных средств организации (касса, банк, карта).
//
// Balance — материализованное значение: в любой момент оно равно
// алгебраической сумме эффектов всех существующих платежей и расходов,
// привязанных к этому счету. Изменять его напрямую запрещено — только через
// ledger.ApplyEffect в рамках транзакции.
type Account struct {
	gorm.Model
	OrganizationID uint            `json:"organizationId" gorm:"not null;index"`
	Name           string          `json:"name" gorm:"not null"`
	Type           string          `json:"type" gorm:"default:'cash'"`
	Balance        decimal.Decimal `json:"balance" gorm:"type:numeric(12,2);default:0"`
	IsActive       bool            `json:"isActive"`
	IsDefault      bool            `json:"isDefault" gorm:"default:false"`
}
