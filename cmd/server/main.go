package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"health-finance-api/internal/config"
	"health-finance-api/internal/handler"
	"health-finance-api/internal/repository"
	"health-finance-api/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Загрузка конфигурации приложения
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("Неизвестный уровень логирования %q, используется info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Загрузка модели дефолта
	var scorecard *service.Scorecard
	if cfg.ModelPath != "" {
		scorecard, err = service.LoadScorecardFile(cfg.ModelPath)
	} else {
		scorecard, err = service.LoadDefaultScorecard()
	}
	if err != nil {
		logger.Fatalf("Ошибка загрузки модели: %v", err)
	}
	logger.WithFields(logrus.Fields{
		"model":   scorecard.Name,
		"version": scorecard.Version,
	}).Info("Модель дефолта загружена")

	// Агрегаты займов: из PostgreSQL, если БД включена
	var loader service.AggregationLoader
	if cfg.DBEnabled {
		db, err := sql.Open("postgres", fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
		))
		if err != nil {
			logger.Fatalf("Ошибка подключения к базе данных: %v", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			logger.Fatalf("Ошибка проверки соединения с БД: %v", err)
		}
		loader = repository.NewAggregationRepository(db, logger)
	}

	aggregates := service.NewAggregationStore(loader, logger)
	if err := aggregates.Refresh(context.Background()); err != nil {
		logger.WithError(err).Warn("Агрегаты не загружены, используются значения по умолчанию")
	}

	// Инициализация сервисов
	logger.Info("Инициализация сервисов...")
	healthAnalyzer := service.NewHealthAnalyzer(logger)
	predictor := service.NewLoanPredictor(scorecard, aggregates, logger)
	engine := service.NewInsightEngine(cfg.ScenarioTimeout, logger)
	assessment := service.NewAssessmentService(healthAnalyzer, predictor, engine, logger)

	var tokens *service.TokenService
	if cfg.AuthEnabled {
		tokens = service.NewTokenService(cfg.JWTSecret, cfg.TokenExpiry, logger)
	}

	router := handler.NewRouter(assessment, tokens, logger)

	// Планировщик обновления агрегатов
	c := cron.New()
	if loader != nil {
		_, err = c.AddFunc(cfg.RefreshCron, func() {
			logger.Info("Запуск обновления агрегатов займов")
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := aggregates.Refresh(ctx); err != nil {
				logger.WithError(err).Error("Ошибка обновления агрегатов")
			}
		})
		if err != nil {
			logger.Fatalf("Ошибка настройки планировщика: %v", err)
		}
	}
	c.Start()

	// Настройка и запуск HTTP сервера
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Запуск сервера на %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Ошибка сервера: %v", err)
		}
	}()

	// Ожидание сигналов для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Завершение работы сервера...")
	<-c.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Ошибка при завершении работы сервера: %v", err)
	}
	logger.Info("Сервер успешно остановлен")
}
