// Пакет numbering выдает номера счетов организации.
//
// Номер ("С-0001") — сквозной за все время, SequenceNumber сбрасывается
// каждый календарный год. Счетчики хранятся в строке invoice_sequences,
// которая блокируется FOR UPDATE внутри транзакции создания счета:
// одновременное выставление счетов одной организацией сериализуется,
// дубликаты номеров невозможны. Схема "посчитать строки и вставить"
// сознательно не используется.
package numbering

import (
	"errors"
	"fmt"
	"time"

	"zettalab-crm/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Next выдает следующую пару (номер, годовой порядковый номер) для
// организации. Вызывается строго внутри транзакции, в которой создается счет:
// при откате транзакции откатывается и инкремент счетчиков.
//
// При первом обращении строка счетчиков создается и засевается количеством
// уже существующих счетов, поэтому нумерация продолжает историческую схему
// count+1 без разрывов.
func Next(tx *gorm.DB, orgID uint, now time.Time) (string, int, error) {
	q := tx
	// sqlite (тесты) не поддерживает SELECT ... FOR UPDATE, там вся БД и так
	// блокируется на запись целиком.
	if tx.Dialector.Name() != "sqlite" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var seq models.InvoiceSequence
	err := q.Where("organization_id = ?", orgID).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq, err = seedSequence(tx, orgID, now)
		if err != nil {
			return "", 0, err
		}
	} else if err != nil {
		return "", 0, err
	}

	// Счетчик года сбрасывается только при переходе года вперед. Дата из
	// прошлого не откатывает Year: иначе следующий счет текущего года
	// переиспользовал бы уже выданный порядковый номер.
	if now.Year() > seq.Year {
		seq.Year = now.Year()
		seq.LastSeq = 0
	}
	seq.LastNumber++
	seq.LastSeq++

	if err := tx.Save(&seq).Error; err != nil {
		return "", 0, err
	}

	return fmt.Sprintf("С-%04d", seq.LastNumber), seq.LastSeq, nil
}

// seedSequence создает строку счетчиков, засеянную фактическим количеством
// счетов организации (всего и за текущий год).
func seedSequence(tx *gorm.DB, orgID uint, now time.Time) (models.InvoiceSequence, error) {
	var total, yearCount int64
	if err := tx.Model(&models.Invoice{}).
		Where("organization_id = ?", orgID).
		Count(&total).Error; err != nil {
		return models.InvoiceSequence{}, err
	}

	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	if err := tx.Model(&models.Invoice{}).
		Where("organization_id = ? AND invoice_date >= ?", orgID, yearStart).
		Count(&yearCount).Error; err != nil {
		return models.InvoiceSequence{}, err
	}

	seq := models.InvoiceSequence{
		OrganizationID: orgID,
		LastNumber:     int(total),
		Year:           now.Year(),
		LastSeq:        int(yearCount),
	}
	// Гонку двух первых счетов ловит первичный ключ: проигравший откатится
	// вместе со своей транзакцией.
	if err := tx.Create(&seq).Error; err != nil {
		return models.InvoiceSequence{}, err
	}
	return seq, nil
}
