package handlers

import (
	"errors"
	"net/http"

	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/logger"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/service"

	"go.uber.org/zap"
)

func handleBusinessError(w http.ResponseWriter, err error, defaultMessage string) bool {
	var businessErr *service.BusinessError
	if errors.As(err, &businessErr) {
		statusCode := mapBusinessErrorToHTTP(businessErr.Code)

		logger.Warn("HTTP: Бизнес-ошибка",
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode))

		responseWithJSON(w, statusCode,
			toPayload("error", businessErr.Code),
			toPayload("message", businessErr.Message),
			toPayload("details", businessErr.Details),
		)
		return true
	}

	logger.Error("HTTP: Необработанная ошибка", err)
	responseWithError(w, http.StatusInternalServerError, defaultMessage)
	return true
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeUnauthorized:
		return http.StatusUnauthorized
	case service.CodeDecompositionEmpty:
		return http.StatusUnprocessableEntity
	case service.CodeAIUnavailable:
		return http.StatusServiceUnavailable
	case service.CodeStoreFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
