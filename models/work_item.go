package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WorkItem представляет позицию каталога работ лаборатории
// (коронка, протез, каркас и т.д.). BasePrice — нижний уровень каскада цен:
// используется, когда ни индивидуальная цена, ни прайс-лист не подошли.
type WorkItem struct {
	gorm.Model
	OrganizationID uint            `json:"organizationId" gorm:"not null;index"`
	Name           string          `json:"name" gorm:"not null"`
	Category       string          `json:"category"`
	Unit           string          `json:"unit" gorm:"default:'шт'"`
	BasePrice      decimal.Decimal `json:"basePrice" gorm:"type:numeric(12,2);not null"`
	IsActive       bool            `json:"isActive"`
}
