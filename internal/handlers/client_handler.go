package handlers

import (
	"net/http"
	"strconv"

	"zettalab-crm/config"
	"zettalab-crm/internal/pricing"
	"zettalab-crm/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

type ClientInput struct {
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	RequisitesID *uint  `json:"requisitesId"`
}

// ListClientsHandler возвращает пагинированный список клиентов организации.
func ListClientsHandler(c *gin.Context) {
	query := config.DB.Model(&models.Client{}).Where("organization_id = ?", orgID(c))

	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось посчитать клиентов"})
		return
	}

	var clients []models.Client
	if err := query.Scopes(Paginate(c)).Order("name").Find(&clients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список клиентов"})
		return
	}

	if clients == nil {
		clients = make([]models.Client, 0)
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, clients, totalRows))
}

// GetClientHandler возвращает клиента с привязанными прайс-листами.
func GetClientHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var client models.Client
	err := config.DB.Preload("PriceLists").
		Where("id = ? AND organization_id = ?", id, orgID(c)).First(&client).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Клиент не найден"})
		return
	}

	c.JSON(http.StatusOK, client)
}

// CreateClientHandler создает клиента.
func CreateClientHandler(c *gin.Context) {
	var input ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	client := models.Client{
		OrganizationID: orgID(c),
		Name:           input.Name,
		Phone:          input.Phone,
		Email:          input.Email,
		Address:        input.Address,
		RequisitesID:   input.RequisitesID,
		IsActive:       true,
	}

	if err := config.DB.Create(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать клиента"})
		return
	}

	c.JSON(http.StatusCreated, client)
}

// UpdateClientHandler изменяет данные клиента.
func UpdateClientHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var client models.Client
	if err := config.DB.Where("id = ? AND organization_id = ?", id, orgID(c)).First(&client).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Клиент не найден"})
		return
	}

	var input ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	client.Name = input.Name
	client.Phone = input.Phone
	client.Email = input.Email
	client.Address = input.Address
	client.RequisitesID = input.RequisitesID

	if err := config.DB.Save(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить клиента"})
		return
	}

	c.JSON(http.StatusOK, client)
}

type ClientPriceInput struct {
	WorkItemID uint            `json:"workItemId" binding:"required"`
	Price      decimal.Decimal `json:"price" binding:"required"`
}

// SetClientPriceHandler задает индивидуальную цену клиента на работу
// (upsert по паре клиент+работа).
func SetClientPriceHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input ClientPriceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}
	if input.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Цена не может быть отрицательной"})
		return
	}

	var count int64
	config.DB.Model(&models.Client{}).
		Where("id = ? AND organization_id = ?", id, orgID(c)).Count(&count)
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Клиент не найден"})
		return
	}

	item := models.ClientPriceItem{
		OrganizationID: orgID(c),
		ClientID:       id,
		WorkItemID:     input.WorkItemID,
		Price:          input.Price,
	}

	// deleted_at в списке присвоений воскрешает ранее удаленную запись:
	// без этого повторно установленная цена осталась бы помеченной удаленной
	// и каскад разрешения цен ее бы не видел.
	err := config.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "client_id"}, {Name: "work_item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "updated_at", "deleted_at"}),
	}).Create(&item).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить цену"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteClientPriceHandler убирает индивидуальную цену: для этой работы снова
// действует каскад прайс-листов и базовой цены.
func DeleteClientPriceHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workItemID, err := strconv.Atoi(c.Param("workItemId"))
	if err != nil || workItemID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID работы"})
		return
	}

	// Индивидуальная цена — не финансовый документ, удаляем запись физически:
	// мягко удаленная строка продолжала бы занимать уникальный индекс пары
	// клиент+работа.
	res := config.DB.Unscoped().Where("organization_id = ? AND client_id = ? AND work_item_id = ?",
		orgID(c), id, workItemID).Delete(&models.ClientPriceItem{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить цену"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Индивидуальная цена не найдена"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Индивидуальная цена удалена"})
}

type LinkPriceListInput struct {
	PriceListID uint `json:"priceListId" binding:"required"`
}

// LinkPriceListHandler привязывает прайс-лист к клиенту. Момент привязки
// фиксируется и определяет порядок перебора списков в каскаде цен.
func LinkPriceListHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input LinkPriceListInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	var count int64
	config.DB.Model(&models.Client{}).
		Where("id = ? AND organization_id = ?", id, orgID(c)).Count(&count)
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Клиент не найден"})
		return
	}
	config.DB.Model(&models.PriceList{}).
		Where("id = ? AND organization_id = ?", input.PriceListID, orgID(c)).Count(&count)
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Прайс-лист не найден"})
		return
	}

	link := models.ClientPriceList{ClientID: id, PriceListID: input.PriceListID}
	err := config.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось привязать прайс-лист"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Прайс-лист привязан"})
}

// UnlinkPriceListHandler отвязывает прайс-лист от клиента.
func UnlinkPriceListHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	priceListID, err := strconv.Atoi(c.Param("priceListId"))
	if err != nil || priceListID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID прайс-листа"})
		return
	}

	res := config.DB.Where("client_id = ? AND price_list_id = ?", id, priceListID).
		Delete(&models.ClientPriceList{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось отвязать прайс-лист"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Прайс-лист отвязан"})
}

// ResolvePriceHandler показывает, какую цену и из какого источника получит
// клиент за работу. Используется интерфейсом создания заказов и счетов.
func ResolvePriceHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workItemID, err := strconv.Atoi(c.Query("workItemId"))
	if err != nil || workItemID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не указан параметр workItemId"})
		return
	}

	resolution, err := pricing.Resolve(config.DB, orgID(c), id, uint(workItemID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resolution)
}
