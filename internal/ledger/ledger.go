// Пакет ledger — единственный код, которому разрешено менять баланс счетов.
//
// Каждая мутация платежа или расхода выполняется в одной транзакции вместе
// с парной корректировкой баланса (и, для платежей по заказу, пересчетом
// статуса оплаты заказа). Частично примененных эффектов не бывает: либо
// запись и баланс изменились вместе, либо не изменилось ничего.
package ledger

import (
	"errors"

	"zettalab-crm/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ApplyEffect атомарно прибавляет delta (может быть отрицательной) к балансу
// счета. Инкремент выполняется на стороне БД выражением balance = balance + ?,
// а не чтением-записью в приложении, поэтому одновременные операции по одному
// счету не теряют обновлений.
//
// Вызывается только внутри открытой транзакции, парно с записью платежа
// или расхода.
func ApplyEffect(tx *gorm.DB, accountID uint, delta decimal.Decimal) error {
	res := tx.Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Entity: "Счет"}
	}
	return nil
}

// checkAccount проверяет до открытия транзакции, что счет существует,
// принадлежит организации и активен.
func checkAccount(db *gorm.DB, orgID, accountID uint) error {
	var account models.Account
	err := db.Where("id = ? AND organization_id = ?", accountID, orgID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "Счет"}
		}
		return err
	}
	if !account.IsActive {
		return &ValidationError{Message: "счет неактивен"}
	}
	return nil
}

// checkClient проверяет, что клиент существует и принадлежит организации.
func checkClient(db *gorm.DB, orgID, clientID uint) error {
	var count int64
	if err := db.Model(&models.Client{}).
		Where("id = ? AND organization_id = ?", clientID, orgID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &NotFoundError{Entity: "Клиент"}
	}
	return nil
}

// checkOrder проверяет, что заказ существует и принадлежит организации.
func checkOrder(db *gorm.DB, orgID, orderID uint) error {
	var count int64
	if err := db.Model(&models.Order{}).
		Where("id = ? AND organization_id = ?", orderID, orgID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &NotFoundError{Entity: "Заказ"}
	}
	return nil
}
