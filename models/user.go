package models

import "gorm.io/gorm"

// User определяет модель сотрудника лаборатории в базе данных.
type User struct {
	gorm.Model
	OrganizationID uint         `json:"organizationId" gorm:"not null;index"`
	Organization   Organization `json:"-" gorm:"foreignKey:OrganizationID"`
	Login          string       `json:"login" gorm:"unique;not null"`
	Password       string       `json:"-" gorm:"not null"`
	FullName       string       `json:"fullName"`
	Role           string       `json:"role" gorm:"default:'manager'"` // admin, manager, technician
	IsActive       bool         `json:"isActive" gorm:"default:true"`
}
