// Пакет settlement выводит статус оплаты заказа из фактических платежей.
package settlement

import (
	"errors"

	"zettalab-crm/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Recompute заново выводит Order.PaymentStatus из суммы платежей по заказу
// и его стоимости. Статус всегда пересчитывается с нуля, а не инкрементально,
// поэтому он не может "уехать" даже после удаления платежей задним числом.
//
// Если заказ не найден (например, удален после платежа) — тихо выходит:
// висячая ссылка на заказ намеренно не считается ошибкой.
func Recompute(tx *gorm.DB, orgID, orderID uint) error {
	var order models.Order
	err := tx.Where("id = ? AND organization_id = ?", orderID, orgID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	var totalPaid decimal.Decimal
	row := tx.Model(&models.Payment{}).
		Where("order_id = ? AND organization_id = ?", orderID, orgID).
		Select("COALESCE(SUM(amount), 0)").
		Row()
	if err := row.Scan(&totalPaid); err != nil {
		return err
	}

	status := models.PaymentStatusUnpaid
	switch {
	case order.TotalPrice.GreaterThan(decimal.Zero) && totalPaid.GreaterThanOrEqual(order.TotalPrice):
		status = models.PaymentStatusPaid
	case totalPaid.GreaterThan(decimal.Zero):
		status = models.PaymentStatusPartial
	}

	return tx.Model(&models.Order{}).
		Where("id = ?", order.ID).
		UpdateColumn("payment_status", status).Error
}
