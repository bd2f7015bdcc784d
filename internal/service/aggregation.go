package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"health-finance-api/internal/model"
)

// AggregationLoader загружает агрегаты исторических займов (обычно из БД)
type AggregationLoader interface {
	LoadAggregationMaps(ctx context.Context) (*model.AggregationMaps, error)
}

// AggregationStore хранит снимок агрегатов, обновляемый по расписанию
type AggregationStore struct {
	loader AggregationLoader
	logger *logrus.Logger

	mu   sync.RWMutex
	maps model.AggregationMaps
}

func NewAggregationStore(loader AggregationLoader, logger *logrus.Logger) *AggregationStore {
	return &AggregationStore{
		loader: loader,
		logger: logger,
		maps:   model.NewAggregationMaps(),
	}
}

// Snapshot возвращает копию текущих агрегатов
func (s *AggregationStore) Snapshot() model.AggregationMaps {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := model.NewAggregationMaps()
	for k, v := range s.maps.ProvinceMeanLoan {
		out.ProvinceMeanLoan[k] = v
	}
	for k, v := range s.maps.SectorMeanInterest {
		out.SectorMeanInterest[k] = v
	}
	return out
}

// Refresh перечитывает агрегаты; при ошибке остается предыдущий снимок
func (s *AggregationStore) Refresh(ctx context.Context) error {
	if s.loader == nil {
		return nil
	}

	maps, err := s.loader.LoadAggregationMaps(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Не удалось обновить агрегаты займов")
		return fmt.Errorf("failed to refresh aggregation maps: %w", err)
	}

	s.mu.Lock()
	s.maps = *maps
	if s.maps.ProvinceMeanLoan == nil {
		s.maps.ProvinceMeanLoan = make(map[string]float64)
	}
	if s.maps.SectorMeanInterest == nil {
		s.maps.SectorMeanInterest = make(map[string]float64)
	}
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"provinces": len(maps.ProvinceMeanLoan),
		"sectors":   len(maps.SectorMeanInterest),
	}).Info("Агрегаты займов обновлены")
	return nil
}
