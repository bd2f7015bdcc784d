package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TokenService выпускает и проверяет JWT токены сервисов-клиентов
type TokenService struct {
	jwtSecret   string
	tokenExpiry time.Duration
	logger      *logrus.Logger
}

func NewTokenService(jwtSecret string, tokenExpiry time.Duration, logger *logrus.Logger) *TokenService {
	return &TokenService{
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
		logger:      logger,
	}
}

// IssueToken Генерация JWT токена для клиента
func (s *TokenService) IssueToken(clientID string) (string, error) {
	if clientID == "" {
		return "", fmt.Errorf("client id is required")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   clientID,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		s.logger.WithError(err).Error("Не удалось подписать JWT токен")
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.WithField("client_id", clientID).Info("Выпущен JWT токен")
	return signed, nil
}

// ParseToken Разбор и валидация JWT токена, возвращает идентификатор клиента
func (s *TokenService) ParseToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Проверка метода подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil || !token.Valid {
		s.logger.WithError(err).Warn("Невалидный JWT токен")
		return "", fmt.Errorf("invalid token: %w", err)
	}

	clientID := claims.Subject
	if clientID == "" {
		s.logger.Error("Не удалось извлечь идентификатор клиента из токена")
		return "", fmt.Errorf("token has no subject")
	}

	s.logger.WithField("client_id", clientID).Debug("JWT токен успешно распознан")
	return clientID, nil
}
