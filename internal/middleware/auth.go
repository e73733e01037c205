package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/logger"

	"go.uber.org/zap"
)

const UserIdKey contextKey = "user_id"

// TokenVerifier переводит предъявленный токен в идентификатор пользователя.
// Ошибка означает отказ в авторизации; сами логин и OAuth живут снаружи.
type TokenVerifier func(token string) (string, error)

// Auth проверяет заголовок Authorization и кладёт id пользователя в
// контекст запроса. Без валидного токена запрос не доходит до хранилища.
func Auth(verify TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				logger.Warn("HTTP: Запрос без токена",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("path", r.URL.Path),
					zap.String("client_ip", r.RemoteAddr))

				unauthorized(w, r, "требуется авторизация")
				return
			}

			userID, err := verify(token)
			if err != nil {
				logger.Warn("HTTP: Неверный токен",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("path", r.URL.Path),
					zap.String("client_ip", r.RemoteAddr))

				unauthorized(w, r, "неверный токен")
				return
			}

			ctx := context.WithValue(r.Context(), UserIdKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIdKey).(string); ok {
		return id
	}
	return ""
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	json.NewEncoder(w).Encode(map[string]any{
		"error":      "UNAUTHORIZED",
		"message":    message,
		"request_id": GetRequestID(r.Context()),
	})
}
