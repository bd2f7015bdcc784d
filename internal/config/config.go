package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config содержит настройки приложения
type Config struct {
	HTTPAddr        string        // Адрес HTTP сервера
	LogLevel        string        // Уровень логирования
	DBEnabled       bool          // Читать агрегаты займов из БД
	DBHost          string        // Хост базы данных
	DBPort          string        // Порт базы данных
	DBUser          string        // Пользователь базы данных
	DBPassword      string        // Пароль базы данных
	DBName          string        // Имя базы данных
	AuthEnabled     bool          // Требовать JWT для /api
	JWTSecret       string        // Секрет для JWT
	TokenExpiry     time.Duration // Время жизни токена
	ModelPath       string        // PMML модель; пусто - встроенная
	ScenarioTimeout time.Duration // Дедлайн на пакет сценариев; 0 - без дедлайна
	RefreshCron     string        // Расписание обновления агрегатов
}

// LoadConfig загружает конфигурацию из .env файла и окружения
func LoadConfig() (*Config, error) {
	// Загружаем переменные окружения из .env файла
	if err := godotenv.Load(); err != nil {
		logrus.Debug("Файл .env не найден")
	}

	config := &Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DBEnabled:       getBool("DB_ENABLED", false),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", "postgres"),
		DBName:          getEnv("DB_NAME", "loan_insight"),
		AuthEnabled:     getBool("AUTH_ENABLED", false),
		JWTSecret:       getEnv("JWT_SECRET", "default-secret-key"),
		TokenExpiry:     getDuration("TOKEN_EXPIRY", 24*time.Hour),
		ModelPath:       os.Getenv("MODEL_PATH"),
		ScenarioTimeout: getDuration("SCENARIO_TIMEOUT", 5*time.Second),
		RefreshCron:     getEnv("AGGREGATION_REFRESH_CRON", "0 */6 * * *"),
	}

	return config, nil
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return d
}
