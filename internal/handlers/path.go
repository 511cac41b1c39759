// internal/handlers/path.go
package handlers

import (
	"errors"
	"os"
)

// receiptsBaseDir возвращает базовую директорию для хранения сканов чеков.
// Если переменная окружения RECEIPTS_DIR не задана — используется ./storage/receipts.
func receiptsBaseDir() string {
	if v := os.Getenv("RECEIPTS_DIR"); v != "" {
		return v
	}
	return "./storage/receipts"
}

// ensureDir гарантирует существование директории.
// Если путь существует и это файл — вернёт ошибку.
func ensureDir(path string) error {
	if path == "" {
		return errors.New("empty dir path")
	}
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return errors.New("path exists and is not a directory")
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(path, 0o755)
}
