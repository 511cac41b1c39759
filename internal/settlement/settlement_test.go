package settlement

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

func setup(t *testing.T) (*gorm.DB, models.Organization, models.Order) {
	t.Helper()
	db := testdb.Open(t)

	org := models.Organization{Name: "Зетта Лаб"}
	require.NoError(t, db.Create(&org).Error)
	client := models.Client{OrganizationID: org.ID, Name: "Клиника", IsActive: true}
	require.NoError(t, db.Create(&client).Error)
	order := models.Order{OrganizationID: org.ID, ClientID: client.ID, TotalPrice: dec("1000")}
	require.NoError(t, db.Create(&order).Error)

	return db, org, order
}

func addPayment(t *testing.T, db *gorm.DB, org models.Organization, order models.Order, amount string) models.Payment {
	t.Helper()
	payment := models.Payment{
		OrganizationID: org.ID,
		ClientID:       order.ClientID,
		Amount:         dec(amount),
		PaymentDate:    time.Now(),
		OrderID:        &order.ID,
	}
	require.NoError(t, db.Create(&payment).Error)
	return payment
}

func status(t *testing.T, db *gorm.DB, orderID uint) string {
	t.Helper()
	var order models.Order
	require.NoError(t, db.First(&order, orderID).Error)
	return order.PaymentStatus
}

func TestRecompute_Transitions(t *testing.T) {
	db, org, order := setup(t)

	require.NoError(t, Recompute(db, org.ID, order.ID))
	assert.Equal(t, models.PaymentStatusUnpaid, status(t, db, order.ID))

	addPayment(t, db, org, order, "400")
	require.NoError(t, Recompute(db, org.ID, order.ID))
	assert.Equal(t, models.PaymentStatusPartial, status(t, db, order.ID))

	addPayment(t, db, org, order, "600")
	require.NoError(t, Recompute(db, org.ID, order.ID))
	assert.Equal(t, models.PaymentStatusPaid, status(t, db, order.ID))
}

func TestRecompute_Overpayment(t *testing.T) {
	db, org, order := setup(t)

	addPayment(t, db, org, order, "1500")
	require.NoError(t, Recompute(db, org.ID, order.ID))
	assert.Equal(t, models.PaymentStatusPaid, status(t, db, order.ID))
}

func TestRecompute_BackToUnpaid(t *testing.T) {
	db, org, order := setup(t)

	payment := addPayment(t, db, org, order, "400")
	require.NoError(t, Recompute(db, org.ID, order.ID))
	assert.Equal(t, models.PaymentStatusPartial, status(t, db, order.ID))

	require.NoError(t, db.Delete(&payment).Error)
	require.NoError(t, Recompute(db, org.ID, order.ID))
	assert.Equal(t, models.PaymentStatusUnpaid, status(t, db, order.ID))
}

func TestRecompute_Idempotent(t *testing.T) {
	db, org, order := setup(t)

	addPayment(t, db, org, order, "400")
	require.NoError(t, Recompute(db, org.ID, order.ID))
	require.NoError(t, Recompute(db, org.ID, order.ID))
	assert.Equal(t, models.PaymentStatusPartial, status(t, db, order.ID))
}

func TestRecompute_ZeroPriceOrderStaysPartial(t *testing.T) {
	db, org, _ := setup(t)

	free := models.Order{OrganizationID: org.ID, ClientID: 1, TotalPrice: dec("0")}
	require.NoError(t, db.Create(&free).Error)
	addPayment(t, db, org, free, "100")

	require.NoError(t, Recompute(db, org.ID, free.ID))
	assert.Equal(t, models.PaymentStatusPartial, status(t, db, free.ID))
}

func TestRecompute_MissingOrderIsNoop(t *testing.T) {
	db, org, _ := setup(t)
	assert.NoError(t, Recompute(db, org.ID, 9999))
}

func TestRecompute_CrossOrgOrderUntouched(t *testing.T) {
	db, _, order := setup(t)

	other := models.Organization{Name: "Чужая лаборатория"}
	require.NoError(t, db.Create(&other).Error)

	// Заказ принадлежит другой организации — статус не меняется.
	require.NoError(t, Recompute(db, other.ID, order.ID))
	assert.Equal(t, models.PaymentStatusUnpaid, status(t, db, order.ID))
}
