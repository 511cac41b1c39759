package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Статусы оплаты заказа. Значение всегда выводится из фактических платежей
// пакетом settlement, вручную оно не выставляется.
const (
	PaymentStatusUnpaid  = "UNPAID"
	PaymentStatusPartial = "PARTIAL"
	PaymentStatusPaid    = "PAID"
)

// Статусы производства заказа.
const (
	OrderStatusNew        = "NEW"
	OrderStatusInProgress = "IN_PROGRESS"
	OrderStatusCompleted  = "COMPLETED"
	OrderStatusCancelled  = "CANCELLED"
)

// Order представляет заказ-наряд на изготовление работ.
type Order struct {
	gorm.Model
	OrganizationID uint            `json:"organizationId" gorm:"not null;index"`
	ClientID       uint            `json:"clientId" gorm:"not null;index"`
	Client         Client          `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	PatientName    string          `json:"patientName"`
	TotalPrice     decimal.Decimal `json:"totalPrice" gorm:"type:numeric(12,2);not null"`
	Status         string          `json:"status" gorm:"default:'NEW'"`
	PaymentStatus  string          `json:"paymentStatus" gorm:"default:'UNPAID'"`
	DueDate        *time.Time      `json:"dueDate"`
	Comment        string          `json:"comment"`
	Items          []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem — строка заказа: работа из каталога, количество и цена,
// зафиксированная на момент создания заказа через каскад разрешения цен.
type OrderItem struct {
	gorm.Model
	OrderID      uint            `json:"orderId" gorm:"not null;index"`
	WorkItemID   uint            `json:"workItemId" gorm:"not null"`
	WorkItem     WorkItem        `json:"workItem,omitempty" gorm:"foreignKey:WorkItemID"`
	TechnicianID *uint           `json:"technicianId" gorm:"index"` // исполнитель, для расчета зарплаты
	Quantity     int             `json:"quantity" gorm:"not null;default:1"`
	Price        decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Total        decimal.Decimal `json:"total" gorm:"type:numeric(12,2);not null"`
}
