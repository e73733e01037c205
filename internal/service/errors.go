package service

import "fmt"

const (
	CodeNotFound           = "NOT_FOUND"
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeStoreFailure       = "STORE_FAILURE"
	CodeDecompositionEmpty = "DECOMPOSITION_EMPTY"
	CodeAIUnavailable      = "AI_UNAVAILABLE"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func NewNotFound(id string) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("задача %s не найдена", id),
		Details: map[string]any{
			"id": id,
		},
	}
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

func NewUnauthorized() *BusinessError {
	return &BusinessError{
		Code:    CodeUnauthorized,
		Message: "требуется авторизация",
	}
}

// NewStoreFailure - хранилище отклонило чтение или запись;
// диагностика хранилища пробрасывается вызывающей стороне
func NewStoreFailure(operation string, err error) *BusinessError {
	return &BusinessError{
		Code:    CodeStoreFailure,
		Message: fmt.Sprintf("ошибка хранилища на шаге '%s'", operation),
		Details: map[string]any{
			"operation": operation,
		},
		Err: err,
	}
}

func NewDecompositionEmpty() *BusinessError {
	return &BusinessError{
		Code:    CodeDecompositionEmpty,
		Message: "модель не смогла разбить задачу на шаги",
	}
}

func NewAIUnavailable(err error) *BusinessError {
	return &BusinessError{
		Code:    CodeAIUnavailable,
		Message: "AI сервис временно недоступен, попробуйте позже",
		Err:     err,
	}
}
