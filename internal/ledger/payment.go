package ledger

import (
	"errors"
	"time"

	"zettalab-crm/internal/settlement"
	"zettalab-crm/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreatePaymentInput определяет данные нового платежа.
type CreatePaymentInput struct {
	ClientID    uint
	Amount      decimal.Decimal
	Method      string
	PaymentDate time.Time
	AccountID   *uint
	OrderID     *uint
	Notes       string
}

// CreatePayment создает платеж и в той же транзакции увеличивает баланс
// счета (если счет указан) и пересчитывает статус оплаты заказа (если платеж
// привязан к заказу).
//
// Все проверки выполняются до открытия транзакции: неуспешный вызов
// гарантированно не оставляет следов в журнале.
func CreatePayment(db *gorm.DB, orgID uint, in CreatePaymentInput) (*models.Payment, error) {
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, &ValidationError{Message: "сумма платежа должна быть больше нуля"}
	}
	if err := checkClient(db, orgID, in.ClientID); err != nil {
		return nil, err
	}
	if in.AccountID != nil {
		if err := checkAccount(db, orgID, *in.AccountID); err != nil {
			return nil, err
		}
	}
	if in.OrderID != nil {
		if err := checkOrder(db, orgID, *in.OrderID); err != nil {
			return nil, err
		}
	}

	method := in.Method
	if method == "" {
		method = "cash"
	}

	payment := models.Payment{
		OrganizationID: orgID,
		ClientID:       in.ClientID,
		Amount:         in.Amount,
		Method:         method,
		PaymentDate:    in.PaymentDate,
		AccountID:      in.AccountID,
		OrderID:        in.OrderID,
		Notes:          in.Notes,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		if payment.AccountID != nil {
			if err := ApplyEffect(tx, *payment.AccountID, payment.Amount); err != nil {
				return err
			}
		}
		if payment.OrderID != nil {
			if err := settlement.Recompute(tx, orgID, *payment.OrderID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

// DeletePayment удаляет платеж и в той же транзакции откатывает его эффект
// на балансе счета. Сумма отката берется из удаляемой записи, а не
// пересчитывается — ровно то, что когда-то прибавили, то и вычитаем.
func DeletePayment(db *gorm.DB, orgID, paymentID uint) error {
	var payment models.Payment
	err := db.Where("id = ? AND organization_id = ?", paymentID, orgID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "Платеж"}
		}
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&payment).Error; err != nil {
			return err
		}
		if payment.AccountID != nil {
			if err := ApplyEffect(tx, *payment.AccountID, payment.Amount.Neg()); err != nil {
				return err
			}
		}
		if payment.OrderID != nil {
			if err := settlement.Recompute(tx, orgID, *payment.OrderID); err != nil {
				return err
			}
		}
		return nil
	})
}
