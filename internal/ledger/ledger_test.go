package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"zettalab-crm/internal/testdb"
	"zettalab-crm/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func ptr(id uint) *uint { return &id }

type fixture struct {
	db      *gorm.DB
	org     models.Organization
	client  models.Client
	account models.Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t)

	f := &fixture{db: db}
	f.org = models.Organization{Name: "Зетта Лаб"}
	require.NoError(t, db.Create(&f.org).Error)

	f.client = models.Client{OrganizationID: f.org.ID, Name: "Клиника Улыбка", IsActive: true}
	require.NoError(t, db.Create(&f.client).Error)

	f.account = models.Account{OrganizationID: f.org.ID, Name: "Касса", Type: models.AccountTypeCash, IsActive: true}
	require.NoError(t, db.Create(&f.account).Error)

	return f
}

func (f *fixture) balance(t *testing.T, accountID uint) decimal.Decimal {
	t.Helper()
	var account models.Account
	require.NoError(t, f.db.First(&account, accountID).Error)
	return account.Balance
}

func TestCreateAndDeletePayment_BalanceRoundTrip(t *testing.T) {
	f := newFixture(t)

	payment, err := CreatePayment(f.db, f.org.ID, CreatePaymentInput{
		ClientID:    f.client.ID,
		Amount:      dec("500"),
		PaymentDate: time.Now(),
		AccountID:   &f.account.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "cash", payment.Method)
	assert.True(t, f.balance(t, f.account.ID).Equal(dec("500")))

	require.NoError(t, DeletePayment(f.db, f.org.ID, payment.ID))
	assert.True(t, f.balance(t, f.account.ID).Equal(dec("0")))
}

func TestCreatePayment_WithoutAccount(t *testing.T) {
	f := newFixture(t)

	// Платеж без счета допустим и не трогает балансы.
	payment, err := CreatePayment(f.db, f.org.ID, CreatePaymentInput{
		ClientID:    f.client.ID,
		Amount:      dec("300"),
		PaymentDate: time.Now(),
	})
	require.NoError(t, err)
	assert.Nil(t, payment.AccountID)
	assert.True(t, f.balance(t, f.account.ID).Equal(dec("0")))
}

func TestCreatePayment_RecomputesOrderStatus(t *testing.T) {
	f := newFixture(t)

	order := models.Order{OrganizationID: f.org.ID, ClientID: f.client.ID, TotalPrice: dec("1000")}
	require.NoError(t, f.db.Create(&order).Error)

	first, err := CreatePayment(f.db, f.org.ID, CreatePaymentInput{
		ClientID:    f.client.ID,
		Amount:      dec("400"),
		PaymentDate: time.Now(),
		OrderID:     &order.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPartial, orderStatus(t, f.db, order.ID))

	_, err = CreatePayment(f.db, f.org.ID, CreatePaymentInput{
		ClientID:    f.client.ID,
		Amount:      dec("600"),
		PaymentDate: time.Now(),
		OrderID:     &order.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, orderStatus(t, f.db, order.ID))

	// Удаление платежа задним числом возвращает статус к фактам.
	require.NoError(t, DeletePayment(f.db, f.org.ID, first.ID))
	assert.Equal(t, models.PaymentStatusPartial, orderStatus(t, f.db, order.ID))
}

func orderStatus(t *testing.T, db *gorm.DB, orderID uint) string {
	t.Helper()
	var order models.Order
	require.NoError(t, db.First(&order, orderID).Error)
	return order.PaymentStatus
}

func TestCreatePayment_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := CreatePayment(f.db, f.org.ID, CreatePaymentInput{
		ClientID:    f.client.ID,
		Amount:      dec("0"),
		PaymentDate: time.Now(),
	})
	assert.True(t, IsValidation(err))

	_, err = CreatePayment(f.db, f.org.ID, CreatePaymentInput{
		ClientID:    9999,
		Amount:      dec("100"),
		PaymentDate: time.Now(),
	})
	assert.True(t, IsNotFound(err))

	inactive := models.Account{OrganizationID: f.org.ID, Name: "Старая касса", IsActive: false}
	require.NoError(t, f.db.Create(&inactive).Error)
	var stored models.Account
	require.NoError(t, f.db.First(&stored, inactive.ID).Error)
	require.False(t, stored.IsActive, "is_active сохраняется как есть, без подмены значением по умолчанию")
	_, err = CreatePayment(f.db, f.org.ID, CreatePaymentInput{
		ClientID:    f.client.ID,
		Amount:      dec("100"),
		PaymentDate: time.Now(),
		AccountID:   &inactive.ID,
	})
	assert.True(t, IsValidation(err))
}

func TestCreatePayment_CrossOrgAccountNotFound(t *testing.T) {
	f := newFixture(t)

	other := models.Organization{Name: "Чужая лаборатория"}
	require.NoError(t, f.db.Create(&other).Error)
	foreign := models.Account{OrganizationID: other.ID, Name: "Чужой счет", IsActive: true}
	require.NoError(t, f.db.Create(&foreign).Error)

	_, err := CreatePayment(f.db, f.org.ID, CreatePaymentInput{
		ClientID:    f.client.ID,
		Amount:      dec("100"),
		PaymentDate: time.Now(),
		AccountID:   &foreign.ID,
	})
	assert.True(t, IsNotFound(err))
	assert.True(t, f.balance(t, foreign.ID).Equal(dec("0")))
}

func TestFailedCreate_LeavesNoPaymentRecord(t *testing.T) {
	f := newFixture(t)

	_, err := CreatePayment(f.db, f.org.ID, CreatePaymentInput{
		ClientID:    f.client.ID,
		Amount:      dec("100"),
		PaymentDate: time.Now(),
		OrderID:     ptr(9999),
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, f.db.Model(&models.Payment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestExpense_CreateUpdateDelete(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Model(&models.Account{}).
		Where("id = ?", f.account.ID).
		Update("balance", dec("1000")).Error)

	expense, err := CreateExpense(f.db, f.org.ID, CreateExpenseInput{
		Category:    "материалы",
		Amount:      dec("200"),
		ExpenseDate: time.Now(),
		AccountID:   &f.account.ID,
	})
	require.NoError(t, err)
	assert.True(t, f.balance(t, f.account.ID).Equal(dec("800")))

	// Смена суммы: старый эффект откатывается, новый применяется.
	_, err = UpdateExpense(f.db, f.org.ID, expense.ID, UpdateExpenseInput{
		Category:    "материалы",
		Amount:      dec("50"),
		ExpenseDate: time.Now(),
		AccountID:   &f.account.ID,
	})
	require.NoError(t, err)
	assert.True(t, f.balance(t, f.account.ID).Equal(dec("950")))

	require.NoError(t, DeleteExpense(f.db, f.org.ID, expense.ID))
	assert.True(t, f.balance(t, f.account.ID).Equal(dec("1000")))
}

func TestUpdateExpense_ReassignAccount(t *testing.T) {
	f := newFixture(t)
	second := models.Account{OrganizationID: f.org.ID, Name: "Банк", Type: models.AccountTypeBank, IsActive: true}
	require.NoError(t, f.db.Create(&second).Error)

	expense, err := CreateExpense(f.db, f.org.ID, CreateExpenseInput{
		Category:    "аренда",
		Amount:      dec("200"),
		ExpenseDate: time.Now(),
		AccountID:   &f.account.ID,
	})
	require.NoError(t, err)
	assert.True(t, f.balance(t, f.account.ID).Equal(dec("-200")))

	_, err = UpdateExpense(f.db, f.org.ID, expense.ID, UpdateExpenseInput{
		Category:    "аренда",
		Amount:      dec("200"),
		ExpenseDate: time.Now(),
		AccountID:   &second.ID,
	})
	require.NoError(t, err)
	assert.True(t, f.balance(t, f.account.ID).Equal(dec("0")))
	assert.True(t, f.balance(t, second.ID).Equal(dec("-200")))
}

func TestUpdateExpense_DetachAccount(t *testing.T) {
	f := newFixture(t)

	expense, err := CreateExpense(f.db, f.org.ID, CreateExpenseInput{
		Category:    "прочее",
		Amount:      dec("120"),
		ExpenseDate: time.Now(),
		AccountID:   &f.account.ID,
	})
	require.NoError(t, err)
	assert.True(t, f.balance(t, f.account.ID).Equal(dec("-120")))

	updated, err := UpdateExpense(f.db, f.org.ID, expense.ID, UpdateExpenseInput{
		Category:    "прочее",
		Amount:      dec("120"),
		ExpenseDate: time.Now(),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.AccountID)
	assert.True(t, f.balance(t, f.account.ID).Equal(dec("0")))
}

func TestApplyEffect_UnknownAccount(t *testing.T) {
	f := newFixture(t)
	err := f.db.Transaction(func(tx *gorm.DB) error {
		return ApplyEffect(tx, 9999, dec("10"))
	})
	assert.True(t, IsNotFound(err))
}
