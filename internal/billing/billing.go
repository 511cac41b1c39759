// Пакет billing собирает счет целиком: цены строк через каскад pricing,
// номер через numbering, реквизиты через каскад резолюции реквизитов.
package billing

import (
	"errors"
	"time"

	"zettalab-crm/internal/ledger"
	"zettalab-crm/internal/numbering"
	"zettalab-crm/internal/pricing"
	"zettalab-crm/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateInvoiceItemInput — строка будущего счета. Если Price не задана,
// но указана работа из каталога, цена берется из каскада разрешения цен.
type CreateInvoiceItemInput struct {
	Description string
	Quantity    int
	Price       *decimal.Decimal
	WorkItemID  *uint
	OrderItemID *uint
}

// CreateInvoiceInput определяет данные нового счета.
type CreateInvoiceInput struct {
	ClientID     uint
	InvoiceDate  time.Time
	RequisitesID *uint
	Items        []CreateInvoiceItemInput
}

// CreateInvoice создает счет: валидирует вход, разрешает реквизиты и цены,
// затем в одной транзакции получает номер и пишет счет со строками.
func CreateInvoice(db *gorm.DB, orgID uint, in CreateInvoiceInput) (*models.Invoice, error) {
	if len(in.Items) == 0 {
		return nil, &ledger.ValidationError{Message: "счет должен содержать хотя бы одну позицию"}
	}

	var client models.Client
	err := db.Where("id = ? AND organization_id = ?", in.ClientID, orgID).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ledger.NotFoundError{Entity: "Клиент"}
		}
		return nil, err
	}

	requisitesID, err := resolveRequisites(db, orgID, &client, in.RequisitesID)
	if err != nil {
		return nil, err
	}

	invoiceDate := in.InvoiceDate
	if invoiceDate.IsZero() {
		invoiceDate = time.Now()
	}

	items := make([]models.InvoiceItem, 0, len(in.Items))
	total := decimal.Zero
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return nil, &ledger.ValidationError{Message: "количество в позиции счета должно быть не меньше 1"}
		}

		var price decimal.Decimal
		switch {
		case it.Price != nil:
			price = *it.Price
		case it.WorkItemID != nil:
			res, err := pricing.Resolve(db, orgID, in.ClientID, *it.WorkItemID)
			if err != nil {
				return nil, err
			}
			price = res.Price
		default:
			return nil, &ledger.ValidationError{Message: "в позиции счета не указана ни цена, ни работа из каталога"}
		}

		lineTotal := price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		items = append(items, models.InvoiceItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			Price:       price,
			Total:       lineTotal,
			OrderItemID: it.OrderItemID,
		})
		total = total.Add(lineTotal)
	}

	invoice := models.Invoice{
		OrganizationID: orgID,
		ClientID:       in.ClientID,
		InvoiceDate:    invoiceDate,
		Total:          total,
		RequisitesID:   requisitesID,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		// Номер привязан к моменту создания, а не к дате счета: счет задним
		// числом не влияет на годовой счетчик.
		number, seqNum, err := numbering.Next(tx, orgID, time.Now())
		if err != nil {
			return err
		}
		invoice.Number = number
		invoice.SequenceNumber = seqNum

		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].InvoiceID = invoice.ID
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return nil, err
	}

	invoice.Items = items
	return &invoice, nil
}

// resolveRequisites выбирает юрлицо, от имени которого выставляется счет:
// явный параметр запроса > реквизиты клиента > реквизиты организации
// по умолчанию (берется первая подходящая ступень).
func resolveRequisites(db *gorm.DB, orgID uint, client *models.Client, explicit *uint) (*uint, error) {
	if explicit != nil {
		var count int64
		if err := db.Model(&models.Requisites{}).
			Where("id = ? AND organization_id = ?", *explicit, orgID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, &ledger.NotFoundError{Entity: "Реквизиты"}
		}
		return explicit, nil
	}

	if client.RequisitesID != nil {
		return client.RequisitesID, nil
	}

	var def models.Requisites
	err := db.Where("organization_id = ? AND is_default = ?", orgID, true).First(&def).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // счет без реквизитов допустим
		}
		return nil, err
	}
	return &def.ID, nil
}

// DeleteInvoice удаляет неоплаченный счет вместе со строками в одной
// транзакции. Оплаченный счет — финансовый документ, удалять его нельзя.
func DeleteInvoice(db *gorm.DB, orgID, invoiceID uint) error {
	var invoice models.Invoice
	err := db.Where("id = ? AND organization_id = ?", invoiceID, orgID).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ledger.NotFoundError{Entity: "Счет"}
		}
		return err
	}

	if invoice.IsPaid {
		return &ledger.ValidationError{Message: "оплаченный счет удалить нельзя"}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&invoice).Error
	})
}

// MarkPaid переводит счет в оплаченные. Повторный вызов по уже оплаченному
// счету — no-op, дата оплаты не перезаписывается.
func MarkPaid(db *gorm.DB, orgID, invoiceID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := db.Where("id = ? AND organization_id = ?", invoiceID, orgID).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ledger.NotFoundError{Entity: "Счет"}
		}
		return nil, err
	}

	if invoice.IsPaid {
		return &invoice, nil
	}

	// Условие is_paid = false делает переход однократным: из двух
	// одновременных вызовов дату оплаты запишет только один.
	now := time.Now()
	res := db.Model(&models.Invoice{}).
		Where("id = ? AND is_paid = ?", invoice.ID, false).
		Updates(map[string]interface{}{"is_paid": true, "paid_at": now})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Параллельный вызов успел первым — возвращаем его результат.
		if err := db.First(&invoice, invoice.ID).Error; err != nil {
			return nil, err
		}
		return &invoice, nil
	}

	invoice.IsPaid = true
	invoice.PaidAt = &now
	return &invoice, nil
}
