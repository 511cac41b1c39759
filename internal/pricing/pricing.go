// Пакет pricing отвечает на вопрос "сколько клиент C платит за работу W".
//
// Каскад строгий и полный: индивидуальная цена клиента > первый подходящий
// активный привязанный прайс-лист > базовая цена из каталога. Пакет только
// читает данные, побочных эффектов нет, конкурентные вызовы безопасны.
package pricing

import (
	"errors"

	"zettalab-crm/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Source указывает, на каком уровне каскада найдена цена.
type Source string

const (
	SourceClientOverride Source = "client_override"
	SourcePriceList      Source = "price_list"
	SourceBasePrice      Source = "base_price"
)

// Resolution — результат разрешения цены. PriceListName заполнено только
// при Source == SourcePriceList.
type Resolution struct {
	Price         decimal.Decimal `json:"price"`
	Source        Source          `json:"source"`
	PriceListName string          `json:"priceListName,omitempty"`
}

// Resolve возвращает ровно одну цену работы для клиента.
//
// Прайс-листы перебираются в порядке привязки к клиенту (самая старая связь
// первой), побеждает первый активный список, содержащий работу. Если работа
// не найдена в каталоге вовсе, возвращается цена 0 с источником base_price —
// это документированный фолбэк, а не ошибка.
func Resolve(db *gorm.DB, orgID, clientID, workItemID uint) (Resolution, error) {
	// 1. Индивидуальная цена клиента — абсолютный приоритет.
	var override models.ClientPriceItem
	err := db.Where("organization_id = ? AND client_id = ? AND work_item_id = ?",
		orgID, clientID, workItemID).First(&override).Error
	if err == nil {
		return Resolution{Price: override.Price, Source: SourceClientOverride}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Resolution{}, err
	}

	// 2. Привязанные активные прайс-листы, в порядке привязки.
	var lists []models.PriceList
	err = db.
		Joins("JOIN client_price_lists ON client_price_lists.price_list_id = price_lists.id").
		Where("client_price_lists.client_id = ? AND price_lists.organization_id = ? AND price_lists.is_active = ?",
			clientID, orgID, true).
		Order("client_price_lists.created_at, client_price_lists.price_list_id").
		Find(&lists).Error
	if err != nil {
		return Resolution{}, err
	}

	for _, list := range lists {
		var item models.PriceListItem
		err := db.Where("price_list_id = ? AND work_item_id = ?", list.ID, workItemID).
			First(&item).Error
		if err == nil {
			return Resolution{Price: item.Price, Source: SourcePriceList, PriceListName: list.Name}, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return Resolution{}, err
		}
	}

	// 3. Базовая цена каталога.
	var work models.WorkItem
	err = db.Where("id = ? AND organization_id = ?", workItemID, orgID).First(&work).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Resolution{Price: decimal.Zero, Source: SourceBasePrice}, nil
		}
		return Resolution{}, err
	}

	return Resolution{Price: work.BasePrice, Source: SourceBasePrice}, nil
}
