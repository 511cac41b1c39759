package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment представляет один платеж от клиента.
//
// Платеж неизменяем после создания: поддерживаются только создание и
// удаление, оба — строго через пакет ledger, который парно с записью
// корректирует баланс счета и пересчитывает статус оплаты заказа.
type Payment struct {
	gorm.Model
	OrganizationID uint            `json:"organizationId" gorm:"not null;index"`
	ClientID       uint            `json:"clientId" gorm:"not null;index"`
	Client         Client          `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Method         string          `json:"method" gorm:"default:'cash'"`
	PaymentDate    time.Time       `json:"paymentDate" gorm:"not null"`
	AccountID      *uint           `json:"accountId" gorm:"index"` // nil — платеж без привязки к счету
	OrderID        *uint           `json:"orderId" gorm:"index"`   // nil — платеж не по конкретному заказу
	Notes          string          `json:"notes"`
}
