package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Client представляет заказчика лаборатории (клиника или частный врач).
type Client struct {
	gorm.Model
	OrganizationID uint        `json:"organizationId" gorm:"not null;index"`
	Name           string      `json:"name" gorm:"not null"`
	Phone          string      `json:"phone"`
	Email          string      `json:"email"`
	Address        string      `json:"address"`
	RequisitesID   *uint       `json:"requisitesId"` // реквизиты для выставления счетов этому клиенту
	IsActive       bool        `json:"isActive"`
	PriceLists     []PriceList `json:"priceLists,omitempty" gorm:"many2many:client_price_lists;"`
}

// ClientPriceItem — индивидуальная цена клиента на конкретную работу.
// Имеет абсолютный приоритет над прайс-листами и базовой ценой.
type ClientPriceItem struct {
	gorm.Model
	OrganizationID uint            `json:"organizationId" gorm:"not null;index"`
	ClientID       uint            `json:"clientId" gorm:"not null;index:idx_client_work,unique"`
	WorkItemID     uint            `json:"workItemId" gorm:"not null;index:idx_client_work,unique"`
	Price          decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
}

// ClientPriceList — связь клиента с прайс-листом. Отдельная модель нужна,
// чтобы порядок перебора прайс-листов при разрешении цены был детерминирован
// (по времени привязки, самая старая связь — первая).
type ClientPriceList struct {
	ClientID    uint      `json:"clientId" gorm:"primaryKey"`
	PriceListID uint      `json:"priceListId" gorm:"primaryKey"`
	CreatedAt   time.Time `json:"createdAt"`
}
