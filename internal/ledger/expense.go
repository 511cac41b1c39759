package ledger

import (
	"errors"
	"time"

	"zettalab-crm/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateExpenseInput определяет данные нового расхода.
type CreateExpenseInput struct {
	Category    string
	Description string
	Amount      decimal.Decimal
	ExpenseDate time.Time
	AccountID   *uint
	IsRecurring bool
}

// UpdateExpenseInput определяет новые значения изменяемых полей расхода.
type UpdateExpenseInput struct {
	Category    string
	Description string
	Amount      decimal.Decimal
	ExpenseDate time.Time
	AccountID   *uint
	IsRecurring bool
}

// CreateExpense создает расход и в той же транзакции уменьшает баланс счета,
// если счет указан. Расход без счета — нормальная ситуация (неатрибуцированный
// расход), эффекта на балансах он не имеет.
func CreateExpense(db *gorm.DB, orgID uint, in CreateExpenseInput) (*models.Expense, error) {
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, &ValidationError{Message: "сумма расхода должна быть больше нуля"}
	}
	if in.Category == "" {
		return nil, &ValidationError{Message: "не указана категория расхода"}
	}
	if in.AccountID != nil {
		if err := checkAccount(db, orgID, *in.AccountID); err != nil {
			return nil, err
		}
	}

	expense := models.Expense{
		OrganizationID: orgID,
		Category:       in.Category,
		Description:    in.Description,
		Amount:         in.Amount,
		ExpenseDate:    in.ExpenseDate,
		AccountID:      in.AccountID,
		IsRecurring:    in.IsRecurring,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&expense).Error; err != nil {
			return err
		}
		if expense.AccountID != nil {
			return ApplyEffect(tx, *expense.AccountID, expense.Amount.Neg())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &expense, nil
}

// UpdateExpense изменяет расход по схеме "откатить старый эффект, применить
// новый": сначала баланс старого счета увеличивается на старую сумму, затем
// баланс нового счета уменьшается на новую. Оба дельта-апдейта атомарны и
// выполняются в одной транзакции, поэтому схема одинаково закрывает смену
// суммы, перенос на другой счет, отвязку от счета и привязку к счету.
func UpdateExpense(db *gorm.DB, orgID, expenseID uint, in UpdateExpenseInput) (*models.Expense, error) {
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, &ValidationError{Message: "сумма расхода должна быть больше нуля"}
	}
	if in.Category == "" {
		return nil, &ValidationError{Message: "не указана категория расхода"}
	}

	var expense models.Expense
	err := db.Where("id = ? AND organization_id = ?", expenseID, orgID).First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "Расход"}
		}
		return nil, err
	}

	if in.AccountID != nil {
		if err := checkAccount(db, orgID, *in.AccountID); err != nil {
			return nil, err
		}
	}

	oldAmount := expense.Amount
	oldAccountID := expense.AccountID

	expense.Category = in.Category
	expense.Description = in.Description
	expense.Amount = in.Amount
	expense.ExpenseDate = in.ExpenseDate
	expense.AccountID = in.AccountID
	expense.IsRecurring = in.IsRecurring

	err = db.Transaction(func(tx *gorm.DB) error {
		if oldAccountID != nil {
			if err := ApplyEffect(tx, *oldAccountID, oldAmount); err != nil {
				return err
			}
		}
		if err := tx.Save(&expense).Error; err != nil {
			return err
		}
		if expense.AccountID != nil {
			return ApplyEffect(tx, *expense.AccountID, expense.Amount.Neg())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &expense, nil
}

// DeleteExpense удаляет расход и возвращает его сумму на счет, если расход
// был привязан к счету.
func DeleteExpense(db *gorm.DB, orgID, expenseID uint) error {
	var expense models.Expense
	err := db.Where("id = ? AND organization_id = ?", expenseID, orgID).First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "Расход"}
		}
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&expense).Error; err != nil {
			return err
		}
		if expense.AccountID != nil {
			return ApplyEffect(tx, *expense.AccountID, expense.Amount)
		}
		return nil
	})
}
