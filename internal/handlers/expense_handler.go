package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"zettalab-crm/config"
	"zettalab-crm/internal/ledger"
	"zettalab-crm/models"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseRequest определяет структуру для входящих данных расхода.
// Используется и при создании, и при обновлении.
type ExpenseRequest struct {
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	ExpenseDate string          `json:"expenseDate" binding:"required"`
	AccountID   *uint           `json:"accountId"`
	IsRecurring bool            `json:"isRecurring"`
}

func (r *ExpenseRequest) parseDate(c *gin.Context) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", r.ExpenseDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат даты. Используйте YYYY-MM-DD."})
		return time.Time{}, false
	}
	return t, true
}

// CreateExpenseHandler регистрирует расход организации.
func CreateExpenseHandler(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}
	expenseDate, ok := req.parseDate(c)
	if !ok {
		return
	}

	expense, err := ledger.CreateExpense(config.DB, orgID(c), ledger.CreateExpenseInput{
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		ExpenseDate: expenseDate,
		AccountID:   req.AccountID,
		IsRecurring: req.IsRecurring,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// UpdateExpenseHandler изменяет расход. Пакет ledger откатывает старый эффект
// на балансе и применяет новый в одной транзакции.
func UpdateExpenseHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}
	expenseDate, ok := req.parseDate(c)
	if !ok {
		return
	}

	expense, err := ledger.UpdateExpense(config.DB, orgID(c), id, ledger.UpdateExpenseInput{
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		ExpenseDate: expenseDate,
		AccountID:   req.AccountID,
		IsRecurring: req.IsRecurring,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

// DeleteExpenseHandler удаляет расход с возвратом суммы на счет.
func DeleteExpenseHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ledger.DeleteExpense(config.DB, orgID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Расход удален"})
}

// ListExpensesHandler возвращает пагинированный список расходов с фильтрами
// по категории и периоду.
func ListExpensesHandler(c *gin.Context) {
	query := config.DB.Model(&models.Expense{}).
		Where("organization_id = ?", orgID(c))

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if from := c.Query("from"); from != "" {
		query = query.Where("expense_date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("expense_date <= ?", to)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось посчитать расходы"})
		return
	}

	var expenses []models.Expense
	err := query.Scopes(Paginate(c)).Order("expense_date DESC, id DESC").Find(&expenses).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список расходов"})
		return
	}

	if expenses == nil {
		expenses = make([]models.Expense, 0)
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, expenses, totalRows))
}

// UploadReceiptHandler прикрепляет к расходу скан чека.
func UploadReceiptHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var expense models.Expense
	if err := config.DB.Where("id = ? AND organization_id = ?", id, orgID(c)).First(&expense).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Расход не найден"})
		return
	}

	file, header, err := c.Request.FormFile("receiptFile")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Файл чека обязателен"})
		return
	}
	defer file.Close()

	uploadDir := receiptsBaseDir()
	if err := ensureDir(uploadDir); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать директорию для загрузки"})
		return
	}

	ext := filepath.Ext(header.Filename)
	fileName := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	filePath := filepath.Join(uploadDir, fileName)

	out, err := os.Create(filePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить файл"})
		return
	}
	defer out.Close()
	if _, err := io.Copy(out, file); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить файл"})
		return
	}

	expense.ReceiptFileUrl = "/" + filepath.ToSlash(filePath)
	if err := config.DB.Save(&expense).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить расход"})
		return
	}

	c.JSON(http.StatusOK, expense)
}

// RecognizeReceiptHandler распознает данные из файла чека с помощью Gemini.
func RecognizeReceiptHandler(c *gin.Context) {
	if config.GeminiClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Распознавание чеков не настроено"})
		return
	}

	file, header, err := c.Request.FormFile("receiptFile")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Файл чека обязателен"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось прочитать файл"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	prompt := []genai.Part{
		genai.Text("Ты — эксперт по обработке кассовых чеков и счетов. Проанализируй предоставленный файл и извлеки из него: категорию расхода (материалы, аренда, оборудование, прочее), описание, дату и итоговую сумму. Ответ — только JSON без пояснений, строго такой структуры:\n" +
			"{\"category\": \"\", \"description\": \"\", \"expenseDate\": \"гггг-мм-дд\", \"amount\": \"0.00\"}"),
		&genai.Blob{MIMEType: header.Header.Get("Content-Type"), Data: data},
	}

	resp, err := config.GeminiClient.GenerateContent(ctx, prompt...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка распознавания: " + err.Error()})
		return
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gemini вернул пустой результат"})
		return
	}

	jsonResponse, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось преобразовать ответ Gemini в текст"})
		return
	}

	cleanJSON := strings.Trim(string(jsonResponse), "```json \n")
	c.Data(http.StatusOK, "application/json", []byte(cleanJSON))
}
