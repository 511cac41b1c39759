package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"zettalab-crm/internal/ledger"

	"github.com/gin-gonic/gin"
)

// orgID достает организацию текущего пользователя из контекста запроса.
// AuthMiddleware гарантирует, что значение установлено.
func orgID(c *gin.Context) uint {
	v, _ := c.Get("org_id")
	id, _ := v.(uint)
	return id
}

// parseIDParam читает числовой параметр пути.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return 0, false
	}
	return uint(id), true
}

// respondError транслирует ошибки ядра в HTTP-статусы:
// валидация — 400, не найдено — 404, остальное — 500 без деталей.
func respondError(c *gin.Context, err error) {
	switch {
	case ledger.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case ledger.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error("Внутренняя ошибка при обработке запроса", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Внутренняя ошибка сервера"})
	}
}
