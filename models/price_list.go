package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Типы прайс-листов.
const (
	PriceListTypeClient        = "CLIENT"
	PriceListTypeSubcontractor = "SUBCONTRACTOR"
)

// PriceList представляет именованный прайс-лист организации.
type PriceList struct {
	gorm.Model
	OrganizationID uint            `json:"organizationId" gorm:"not null;index"`
	Name           string          `json:"name" gorm:"not null"`
	Type           string          `json:"type" gorm:"default:'CLIENT'"`
	IsActive       bool            `json:"isActive"`
	IsDefault      bool            `json:"isDefault" gorm:"default:false"`
	Items          []PriceListItem `json:"items,omitempty" gorm:"foreignKey:PriceListID"`
}

// PriceListItem — цена на работу в рамках прайс-листа.
type PriceListItem struct {
	gorm.Model
	PriceListID uint            `json:"priceListId" gorm:"not null;index:idx_list_work,unique"`
	WorkItemID  uint            `json:"workItemId" gorm:"not null;index:idx_list_work,unique"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
}
