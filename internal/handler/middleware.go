package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"health-finance-api/internal/service"
)

type ctxKey string

const (
	ctxKeyClientID  ctxKey = "clientID"
	ctxKeyRequestID ctxKey = "requestID"

	headerRequestID = "X-Request-ID"
)

// ClientID возвращает идентификатор клиента из контекста запроса
func ClientID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKeyClientID).(string)
	return id, ok
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// AuthMiddleware проверяет наличие и валидность JWT токена в заголовке Authorization
func AuthMiddleware(tokens *service.TokenService, logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Отсутствует заголовок Authorization")
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authorization header is required"})
				return
			}

			// Проверяем формат заголовка
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Warn("Неверный формат заголовка Authorization")
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid authorization header"})
				return
			}

			clientID, err := tokens.ParseToken(parts[1])
			if err != nil {
				logger.WithError(err).Warn("Неверный токен")
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyClientID, clientID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDMiddleware присваивает запросу идентификатор (или берет из X-Request-ID)
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware пишет в лог метод, путь, статус и длительность запроса
func LoggingMiddleware(logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			logger.WithFields(logrus.Fields{
				"request_id": RequestID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     rec.status,
				"duration":   time.Since(start).String(),
			}).Info("HTTP запрос обработан")
		})
	}
}
