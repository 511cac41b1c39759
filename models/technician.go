package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Technician представляет зубного техника — исполнителя работ.
//
// PayFormula — формула расчета зарплаты за период, вычисляется библиотекой
// govaluate. Доступные переменные: units (количество выполненных единиц),
// amount (сумма по выполненным строкам заказов), base (фиксированный оклад).
// Пример: "base + amount * 0.3".
type Technician struct {
	gorm.Model
	OrganizationID uint            `json:"organizationId" gorm:"not null;index"`
	FullName       string          `json:"fullName" gorm:"not null"`
	Phone          string          `json:"phone"`
	BaseSalary     decimal.Decimal `json:"baseSalary" gorm:"type:numeric(12,2);default:0"`
	PayFormula     string          `json:"payFormula" gorm:"default:'amount * 0.3'"`
	IsActive       bool            `json:"isActive"`
}
