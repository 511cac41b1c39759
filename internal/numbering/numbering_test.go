package numbering

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"zettalab-crm/internal/testdb"
	"zettalab-crm/models"
)

func setup(t *testing.T) (*gorm.DB, models.Organization) {
	t.Helper()
	db := testdb.Open(t)
	org := models.Organization{Name: "Зетта Лаб"}
	require.NoError(t, db.Create(&org).Error)
	return db, org
}

func next(t *testing.T, db *gorm.DB, orgID uint, now time.Time) (string, int) {
	t.Helper()
	var number string
	var seq int
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		number, seq, err = Next(tx, orgID, now)
		return err
	})
	require.NoError(t, err)
	return number, seq
}

func seedInvoice(t *testing.T, db *gorm.DB, orgID uint, n int, date time.Time) models.Invoice {
	t.Helper()
	invoice := models.Invoice{
		OrganizationID: orgID,
		ClientID:       1,
		Number:         fmt.Sprintf("С-%04d", n),
		SequenceNumber: n,
		InvoiceDate:    date,
		Total:          decimal.NewFromInt(100),
	}
	require.NoError(t, db.Create(&invoice).Error)
	return invoice
}

func TestNext_FirstInvoice(t *testing.T) {
	db, org := setup(t)

	number, seq := next(t, db, org.ID, time.Now())
	assert.Equal(t, "С-0001", number)
	assert.Equal(t, 1, seq)
}

func TestNext_SequentialWithinYear(t *testing.T) {
	db, org := setup(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 1; i <= 3; i++ {
		number, seq := next(t, db, org.ID, now)
		assert.Equal(t, fmt.Sprintf("С-%04d", i), number)
		assert.Equal(t, i, seq)
	}
}

func TestNext_SeedsFromExistingInvoices(t *testing.T) {
	db, org := setup(t)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	// Три счета уже существуют — нумерация продолжает схему count+1.
	for i := 1; i <= 3; i++ {
		seedInvoice(t, db, org.ID, i, now.AddDate(0, 0, -i))
	}

	number, seq := next(t, db, org.ID, now)
	assert.Equal(t, "С-0004", number)
	assert.Equal(t, 4, seq)
}

func TestNext_SeedCountsYearSeparately(t *testing.T) {
	db, org := setup(t)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	// Два счета прошлого года и один текущего.
	seedInvoice(t, db, org.ID, 1, now.AddDate(-1, 0, 0))
	seedInvoice(t, db, org.ID, 2, now.AddDate(-1, 0, 1))
	seedInvoice(t, db, org.ID, 3, now.AddDate(0, -1, 0))

	number, seq := next(t, db, org.ID, now)
	assert.Equal(t, "С-0004", number)
	assert.Equal(t, 2, seq)
}

func TestNext_YearRollover(t *testing.T) {
	db, org := setup(t)

	number, seq := next(t, db, org.ID, time.Date(2026, 12, 30, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "С-0001", number)
	assert.Equal(t, 1, seq)

	// Новый год: сквозной номер продолжается, годовой счетчик сбрасывается.
	number, seq = next(t, db, org.ID, time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "С-0002", number)
	assert.Equal(t, 1, seq)
}

func TestNext_PastYearDoesNotResetCounter(t *testing.T) {
	db, org := setup(t)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	next(t, db, org.ID, now)
	next(t, db, org.ID, now)

	// Дата прошлым годом не откатывает счетчики: порядковый номер
	// продолжает ряд текущего года и не выдается повторно.
	_, seq := next(t, db, org.ID, now.AddDate(-1, 0, 0))
	assert.Equal(t, 3, seq)

	number, seq := next(t, db, org.ID, now)
	assert.Equal(t, "С-0004", number)
	assert.Equal(t, 4, seq)
}

func TestNext_NumbersNeverReused(t *testing.T) {
	db, org := setup(t)
	now := time.Now()

	for i := 1; i <= 3; i++ {
		seedInvoice(t, db, org.ID, i, now)
	}
	number, _ := next(t, db, org.ID, now)
	assert.Equal(t, "С-0004", number)

	// Удаление счета не освобождает его номер.
	require.NoError(t, db.Where("sequence_number = ?", 2).Delete(&models.Invoice{}).Error)
	number, _ = next(t, db, org.ID, now)
	assert.Equal(t, "С-0005", number)
}

func TestNext_OrganizationsIndependent(t *testing.T) {
	db, org := setup(t)
	other := models.Organization{Name: "Вторая лаборатория"}
	require.NoError(t, db.Create(&other).Error)
	now := time.Now()

	number, _ := next(t, db, org.ID, now)
	assert.Equal(t, "С-0001", number)
	number, _ = next(t, db, org.ID, now)
	assert.Equal(t, "С-0002", number)

	number, _ = next(t, db, other.ID, now)
	assert.Equal(t, "С-0001", number)
}

func TestNext_RollbackReleasesIncrement(t *testing.T) {
	db, org := setup(t)
	now := time.Now()

	next(t, db, org.ID, now)

	// Откат транзакции откатывает и инкремент счетчиков.
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, _, err := Next(tx, org.ID, now); err != nil {
			return err
		}
		return gorm.ErrInvalidData
	})
	require.Error(t, err)

	number, seq := next(t, db, org.ID, now)
	assert.Equal(t, "С-0002", number)
	assert.Equal(t, 2, seq)
}
