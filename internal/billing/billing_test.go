package billing

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"zettalab-crm/internal/ledger"
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

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

type fixture struct {
	db     *gorm.DB
	org    models.Organization
	client models.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t)

	f := &fixture{db: db}
	f.org = models.Organization{Name: "Зетта Лаб"}
	require.NoError(t, db.Create(&f.org).Error)
	f.client = models.Client{OrganizationID: f.org.ID, Name: "Клиника", IsActive: true}
	require.NoError(t, db.Create(&f.client).Error)

	return f
}

func TestCreateInvoice_NumbersAndTotals(t *testing.T) {
	f := newFixture(t)

	invoice, err := CreateInvoice(f.db, f.org.ID, CreateInvoiceInput{
		ClientID:    f.client.ID,
		InvoiceDate: time.Now(),
		Items: []CreateInvoiceItemInput{
			{Description: "Коронка", Quantity: 2, Price: decPtr("150")},
			{Description: "Каркас", Quantity: 1, Price: decPtr("300")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "С-0001", invoice.Number)
	assert.Equal(t, 1, invoice.SequenceNumber)
	assert.True(t, invoice.Total.Equal(dec("600")))
	require.Len(t, invoice.Items, 2)
	assert.True(t, invoice.Items[0].Total.Equal(dec("300")))

	second, err := CreateInvoice(f.db, f.org.ID, CreateInvoiceInput{
		ClientID:    f.client.ID,
		InvoiceDate: time.Now(),
		Items:       []CreateInvoiceItemInput{{Description: "Протез", Quantity: 1, Price: decPtr("500")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "С-0002", second.Number)
}

func TestCreateInvoice_PriceFromCascade(t *testing.T) {
	f := newFixture(t)

	work := models.WorkItem{OrganizationID: f.org.ID, Name: "Коронка", BasePrice: dec("100"), IsActive: true}
	require.NoError(t, f.db.Create(&work).Error)
	override := models.ClientPriceItem{
		OrganizationID: f.org.ID,
		ClientID:       f.client.ID,
		WorkItemID:     work.ID,
		Price:          dec("80"),
	}
	require.NoError(t, f.db.Create(&override).Error)

	invoice, err := CreateInvoice(f.db, f.org.ID, CreateInvoiceInput{
		ClientID:    f.client.ID,
		InvoiceDate: time.Now(),
		Items:       []CreateInvoiceItemInput{{Description: "Коронка", Quantity: 3, WorkItemID: &work.ID}},
	})
	require.NoError(t, err)
	assert.True(t, invoice.Items[0].Price.Equal(dec("80")))
	assert.True(t, invoice.Total.Equal(dec("240")))
}

func TestCreateInvoice_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := CreateInvoice(f.db, f.org.ID, CreateInvoiceInput{ClientID: f.client.ID})
	assert.True(t, ledger.IsValidation(err))

	_, err = CreateInvoice(f.db, f.org.ID, CreateInvoiceInput{
		ClientID: 9999,
		Items:    []CreateInvoiceItemInput{{Description: "X", Quantity: 1, Price: decPtr("10")}},
	})
	assert.True(t, ledger.IsNotFound(err))

	_, err = CreateInvoice(f.db, f.org.ID, CreateInvoiceInput{
		ClientID: f.client.ID,
		Items:    []CreateInvoiceItemInput{{Description: "X", Quantity: 0, Price: decPtr("10")}},
	})
	assert.True(t, ledger.IsValidation(err))

	// Позиция без цены и без работы из каталога.
	_, err = CreateInvoice(f.db, f.org.ID, CreateInvoiceInput{
		ClientID: f.client.ID,
		Items:    []CreateInvoiceItemInput{{Description: "X", Quantity: 1}},
	})
	assert.True(t, ledger.IsValidation(err))
}

func TestCreateInvoice_RequisitesCascade(t *testing.T) {
	f := newFixture(t)

	def := models.Requisites{OrganizationID: f.org.ID, LegalName: "ООО Зетта", IsDefault: true}
	require.NoError(t, f.db.Create(&def).Error)
	special := models.Requisites{OrganizationID: f.org.ID, LegalName: "ИП Иванов"}
	require.NoError(t, f.db.Create(&special).Error)

	item := []CreateInvoiceItemInput{{Description: "Коронка", Quantity: 1, Price: decPtr("100")}}

	// Без явного параметра и реквизитов клиента берутся реквизиты по умолчанию.
	invoice, err := CreateInvoice(f.db, f.org.ID, CreateInvoiceInput{ClientID: f.client.ID, Items: item})
	require.NoError(t, err)
	require.NotNil(t, invoice.RequisitesID)
	assert.Equal(t, def.ID, *invoice.RequisitesID)

	// Реквизиты клиента приоритетнее реквизитов по умолчанию.
	require.NoError(t, f.db.Model(&models.Client{}).
		Where("id = ?", f.client.ID).
		Update("requisites_id", special.ID).Error)
	invoice, err = CreateInvoice(f.db, f.org.ID, CreateInvoiceInput{ClientID: f.client.ID, Items: item})
	require.NoError(t, err)
	assert.Equal(t, special.ID, *invoice.RequisitesID)

	// Явный параметр приоритетнее всего.
	invoice, err = CreateInvoice(f.db, f.org.ID, CreateInvoiceInput{
		ClientID:     f.client.ID,
		RequisitesID: &def.ID,
		Items:        item,
	})
	require.NoError(t, err)
	assert.Equal(t, def.ID, *invoice.RequisitesID)
}

func TestCreateInvoice_CrossOrgRequisites(t *testing.T) {
	f := newFixture(t)

	other := models.Organization{Name: "Чужая лаборатория"}
	require.NoError(t, f.db.Create(&other).Error)
	foreign := models.Requisites{OrganizationID: other.ID, LegalName: "ООО Чужое"}
	require.NoError(t, f.db.Create(&foreign).Error)

	_, err := CreateInvoice(f.db, f.org.ID, CreateInvoiceInput{
		ClientID:     f.client.ID,
		RequisitesID: &foreign.ID,
		Items:        []CreateInvoiceItemInput{{Description: "X", Quantity: 1, Price: decPtr("10")}},
	})
	assert.True(t, ledger.IsNotFound(err))
}

func TestDeleteInvoice_RemovesItems(t *testing.T) {
	f := newFixture(t)

	invoice, err := CreateInvoice(f.db, f.org.ID, CreateInvoiceInput{
		ClientID: f.client.ID,
		Items:    []CreateInvoiceItemInput{{Description: "Коронка", Quantity: 1, Price: decPtr("100")}},
	})
	require.NoError(t, err)

	require.NoError(t, DeleteInvoice(f.db, f.org.ID, invoice.ID))

	var count int64
	require.NoError(t, f.db.Model(&models.InvoiceItem{}).
		Where("invoice_id = ?", invoice.ID).
		Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteInvoice_PaidGuard(t *testing.T) {
	f := newFixture(t)

	invoice, err := CreateInvoice(f.db, f.org.ID, CreateInvoiceInput{
		ClientID: f.client.ID,
		Items:    []CreateInvoiceItemInput{{Description: "Коронка", Quantity: 1, Price: decPtr("100")}},
	})
	require.NoError(t, err)

	_, err = MarkPaid(f.db, f.org.ID, invoice.ID)
	require.NoError(t, err)

	err = DeleteInvoice(f.db, f.org.ID, invoice.ID)
	assert.True(t, ledger.IsValidation(err))

	var survived models.Invoice
	assert.NoError(t, f.db.First(&survived, invoice.ID).Error)
}

func TestMarkPaid_Idempotent(t *testing.T) {
	f := newFixture(t)

	invoice, err := CreateInvoice(f.db, f.org.ID, CreateInvoiceInput{
		ClientID: f.client.ID,
		Items:    []CreateInvoiceItemInput{{Description: "Коронка", Quantity: 1, Price: decPtr("100")}},
	})
	require.NoError(t, err)

	first, err := MarkPaid(f.db, f.org.ID, invoice.ID)
	require.NoError(t, err)
	require.NotNil(t, first.PaidAt)

	second, err := MarkPaid(f.db, f.org.ID, invoice.ID)
	require.NoError(t, err)
	assert.True(t, first.PaidAt.Equal(*second.PaidAt), "дата оплаты не перезаписывается")

	// И в базе дата оплаты осталась первоначальной.
	var stored models.Invoice
	require.NoError(t, f.db.First(&stored, invoice.ID).Error)
	require.NotNil(t, stored.PaidAt)
	assert.True(t, first.PaidAt.Equal(*stored.PaidAt))
}

func TestCreateInvoice_BackdatedDateKeepsSequence(t *testing.T) {
	f := newFixture(t)
	item := []CreateInvoiceItemInput{{Description: "Коронка", Quantity: 1, Price: decPtr("100")}}

	first, err := CreateInvoice(f.db, f.org.ID, CreateInvoiceInput{ClientID: f.client.ID, Items: item})
	require.NoError(t, err)
	assert.Equal(t, 1, first.SequenceNumber)

	// Счет задним числом (прошлый год) нумеруется по моменту создания
	// и не сбивает годовой счетчик.
	backdated, err := CreateInvoice(f.db, f.org.ID, CreateInvoiceInput{
		ClientID:    f.client.ID,
		InvoiceDate: time.Now().AddDate(-1, 0, 0),
		Items:       item,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, backdated.SequenceNumber)

	third, err := CreateInvoice(f.db, f.org.ID, CreateInvoiceInput{ClientID: f.client.ID, Items: item})
	require.NoError(t, err)
	assert.Equal(t, "С-0003", third.Number)
	assert.Equal(t, 3, third.SequenceNumber)
}

func TestNumbersContinueAfterDeletion(t *testing.T) {
	f := newFixture(t)
	item := []CreateInvoiceItemInput{{Description: "Коронка", Quantity: 1, Price: decPtr("100")}}

	_, err := CreateInvoice(f.db, f.org.ID, CreateInvoiceInput{ClientID: f.client.ID, Items: item})
	require.NoError(t, err)
	second, err := CreateInvoice(f.db, f.org.ID, CreateInvoiceInput{ClientID: f.client.ID, Items: item})
	require.NoError(t, err)

	require.NoError(t, DeleteInvoice(f.db, f.org.ID, second.ID))

	third, err := CreateInvoice(f.db, f.org.ID, CreateInvoiceInput{ClientID: f.client.ID, Items: item})
	require.NoError(t, err)
	assert.Equal(t, "С-0003", third.Number)
}

func TestAmountInWords(t *testing.T) {
	got := AmountInWords(dec("1234.50"))
	assert.True(t, strings.HasSuffix(got, "рублей 50 копеек"), got)

	got = AmountInWords(dec("100"))
	assert.True(t, strings.HasSuffix(got, "рублей 00 копеек"), got)
}
