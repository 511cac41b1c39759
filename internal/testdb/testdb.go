// Package testdb поднимает in-memory SQLite для тестов пакетов ядра.
package testdb

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"zettalab-crm/models"
)

// Open открывает чистую in-memory базу и накатывает все миграции.
// Одно соединение, чтобы :memory: не расползался по пулу.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("не удалось открыть тестовую базу: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("не удалось получить sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Organization{},
		&models.Requisites{},
		&models.User{},
		&models.Account{},
		&models.Client{},
		&models.ClientPriceItem{},
		&models.ClientPriceList{},
		&models.WorkItem{},
		&models.PriceList{},
		&models.PriceListItem{},
		&models.Technician{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.Expense{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.InvoiceSequence{},
	)
	if err != nil {
		t.Fatalf("миграция тестовой базы: %v", err)
	}

	return db
}
