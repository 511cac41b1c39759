package ledger

import "errors"

// ValidationError — нарушение бизнес-правила или некорректные входные данные.
// Обработчики транслируют ее в HTTP 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError — сущность не существует либо принадлежит другой организации.
// Оба случая неразличимы снаружи, чтобы не раскрывать чужие данные.
// Обработчики транслируют ее в HTTP 404.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " не найден" }

// IsValidation сообщает, является ли ошибка ошибкой валидации.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound сообщает, является ли ошибка ошибкой "не найдено".
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
