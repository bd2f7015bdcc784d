package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"health-finance-api/internal/model"
)

// AggregationSource отдает текущий снимок справочных агрегатов
type AggregationSource interface {
	Snapshot() model.AggregationMaps
}

// LoanPredictor прогнозирует вероятность дефолта по замороженной модели
type LoanPredictor struct {
	scorecard  *Scorecard
	aggregates AggregationSource
	now        func() time.Time
	logger     *logrus.Logger
}

func NewLoanPredictor(scorecard *Scorecard, aggregates AggregationSource, logger *logrus.Logger) *LoanPredictor {
	return &LoanPredictor{
		scorecard:  scorecard,
		aggregates: aggregates,
		now:        time.Now,
		logger:     logger,
	}
}

// Predict считает вероятность дефолта; объяснение строится по запросу
func (p *LoanPredictor) Predict(ctx context.Context, req model.LoanRequest, withExplanation bool) (*model.PredictionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		p.logger.WithError(err).Debug("Заявка не прошла валидацию")
		return nil, fmt.Errorf("loan request: %w", err)
	}

	agg := model.NewAggregationMaps()
	if p.aggregates != nil {
		agg = p.aggregates.Snapshot()
	}

	f := buildFeatures(req, agg, p.now())
	terms := p.scorecard.Terms(f)
	prob := p.scorecard.Probability(terms)
	if math.IsNaN(prob) {
		return nil, fmt.Errorf("model produced NaN probability")
	}

	result := &model.PredictionResult{
		DefaultPrediction:  prob >= p.scorecard.Threshold,
		DefaultProbability: prob,
		RiskCategory:       riskCategory(prob),
		Confidence:         predictionConfidence(prob),
		ModelInfo:          p.ModelInfo(),
	}
	if withExplanation {
		result.Explanation = p.scorecard.explain(f, terms, prob)
	}

	p.logger.WithFields(logrus.Fields{
		"probability": prob,
		"category":    result.RiskCategory,
		"amount":      req.Amount,
		"duration":    req.DurationDays,
	}).Debug("Прогноз дефолта рассчитан")

	return result, nil
}

// BatchPredict прогнозирует пакет заявок; ошибка одной заявки не прерывает остальные
func (p *LoanPredictor) BatchPredict(ctx context.Context, reqs []model.LoanRequest, withExplanation bool) ([]model.BatchPredictionItem, error) {
	items := make([]model.BatchPredictionItem, len(reqs))
	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := p.Predict(ctx, req, withExplanation)
		if err != nil {
			items[i].Error = err.Error()
			continue
		}
		items[i].Result = res
	}
	return items, nil
}

func (p *LoanPredictor) ModelInfo() model.ModelInfo {
	return model.ModelInfo{
		ModelType: p.scorecard.Name,
		Version:   p.scorecard.Version,
	}
}

func riskCategory(prob float64) model.RiskCategory {
	switch {
	case prob < 0.3:
		return model.RiskCategoryLow
	case prob < 0.6:
		return model.RiskCategoryMedium
	default:
		return model.RiskCategoryHigh
	}
}

// predictionConfidence - по удаленности вероятности от 0.5
func predictionConfidence(prob float64) model.Confidence {
	switch d := math.Abs(prob - 0.5); {
	case d > 0.3:
		return model.ConfidenceHigh
	case d > 0.15:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}
