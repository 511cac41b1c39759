package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice представляет счет на оплату, выставленный клиенту.
//
// Number уникален в рамках организации за все время ("С-0001", "С-0002", ...),
// SequenceNumber сбрасывается каждый календарный год. Оба назначаются один
// раз при создании пакетом numbering и никогда не переиспользуются.
// Оплаченный счет удалить нельзя.
type Invoice struct {
	gorm.Model
	OrganizationID uint            `json:"organizationId" gorm:"not null;uniqueIndex:idx_org_invoice_number"`
	ClientID       uint            `json:"clientId" gorm:"not null;index"`
	Client         Client          `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Number         string          `json:"number" gorm:"not null;uniqueIndex:idx_org_invoice_number"`
	SequenceNumber int             `json:"sequenceNumber" gorm:"not null"`
	InvoiceDate    time.Time       `json:"invoiceDate" gorm:"not null"`
	Total          decimal.Decimal `json:"total" gorm:"type:numeric(12,2);not null"`
	IsPaid         bool            `json:"isPaid" gorm:"default:false"`
	PaidAt         *time.Time      `json:"paidAt"`
	RequisitesID   *uint           `json:"requisitesId"` // от имени какого юрлица выставлен счет
	Items          []InvoiceItem   `json:"items,omitempty" gorm:"foreignKey:InvoiceID"`
}

// InvoiceItem — строка счета.
type InvoiceItem struct {
	gorm.Model
	InvoiceID   uint            `json:"invoiceId" gorm:"not null;index"`
	Description string          `json:"description" gorm:"not null"`
	Quantity    int             `json:"quantity" gorm:"not null;default:1"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Total       decimal.Decimal `json:"total" gorm:"type:numeric(12,2);not null"`
	OrderItemID *uint           `json:"orderItemId"` // связь со строкой заказа, если счет выставлен по заказу
}

// InvoiceSequence хранит счетчики нумерации счетов организации.
// Строка блокируется FOR UPDATE внутри транзакции создания счета, что
// сериализует одновременное выставление счетов одной организацией.
type InvoiceSequence struct {
	OrganizationID uint `json:"organizationId" gorm:"primaryKey"`
	LastNumber     int  `json:"lastNumber" gorm:"not null;default:0"` // сквозной счетчик за все время
	Year           int  `json:"year" gorm:"not null"`
	LastSeq        int  `json:"lastSeq" gorm:"not null;default:0"` // счетчик в рамках Year
}
