package models

import "gorm.io/gorm"

// Organization представляет зуботехническую лабораторию (тенант системы).
// Все финансовые сущности принадлежат ровно одной организации.
type Organization struct {
	gorm.Model
	Name       string      `json:"name" gorm:"not null"`
	Phone      string      `json:"phone"`
	Email      string      `json:"email"`
	Address    string      `json:"address"`
	Requisites []Requisites `json:"requisites,omitempty" gorm:"foreignKey:OrganizationID"`
}

// Requisites представляет реквизиты юридического лица, от имени которого
// выставляются счета. У организации может быть несколько наборов реквизитов,
// один из них помечен как реквизиты по умолчанию.
type Requisites struct {
	gorm.Model
	OrganizationID uint   `json:"organizationId" gorm:"not null;index"`
	LegalName      string `json:"legalName" gorm:"not null"`
	Inn            string `json:"inn"`
	Kpp            string `json:"kpp"`
	BankName       string `json:"bankName"`
	BankAccount    string `json:"bankAccount"`
	Bik            string `json:"bik"`
	Address        string `json:"address"`
	IsDefault      bool   `json:"isDefault" gorm:"default:false"`
}
