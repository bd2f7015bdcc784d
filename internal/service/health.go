package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"health-finance-api/internal/model"
)

// HealthAnalyzer оценивает финансовое здоровье по профилю заемщика.
// Не использует меток дефолта: только метрики, пороговые правила и персоны.
type HealthAnalyzer struct {
	logger *logrus.Logger
}

func NewHealthAnalyzer(logger *logrus.Logger) *HealthAnalyzer {
	return &HealthAnalyzer{logger: logger}
}

// Evaluate рассчитывает балл здоровья, статус, флаги риска и персону
func (a *HealthAnalyzer) Evaluate(ctx context.Context, profile model.FinancialProfile) (*model.HealthResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := profile.Validate(); err != nil {
		a.logger.WithError(err).Debug("Профиль не прошел валидацию")
		return nil, err
	}

	metrics := CalculateMetrics(profile)
	assessment := assessHealth(metrics)

	score, err := roundScore(assessment.score)
	if err != nil {
		return nil, fmt.Errorf("failed to round health score: %w", err)
	}

	persona := AssignPersona(metrics)

	result := &model.HealthResult{
		Score:     score,
		Status:    StatusForScore(score),
		Metrics:   metrics,
		RiskFlags: assessment.flags,
		Persona: model.Persona{
			Name:        persona,
			Description: PersonaDescription(persona),
			Insights:    PersonaInsights(persona),
			ProfileSummary: model.ProfileSummary{
				MonthlyIncome:    profile.Income,
				TotalExpenses:    profile.TotalExpenses(),
				CurrentSavings:   profile.Savings,
				CurrentDebt:      profile.Debt,
				DisposableIncome: metrics.DisposableIncome,
			},
		},
		Explanations:    assessment.explanations,
		ComponentScores: assessment.scores,
	}

	a.logger.WithFields(logrus.Fields{
		"score":   result.Score,
		"status":  result.Status,
		"flags":   len(result.RiskFlags),
		"persona": persona,
	}).Debug("Оценка финансового здоровья рассчитана")

	return result, nil
}

// QuickCheck возвращает короткую строку статуса без полного отчета
func (a *HealthAnalyzer) QuickCheck(ctx context.Context, profile model.FinancialProfile) string {
	result, err := a.Evaluate(ctx, profile)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return fmt.Sprintf("Health Status: %s (Score: %.1f/100) - %s", result.Status, result.Score, result.Persona.Name)
}

// StatusForScore переводит балл в статус: Healthy >= 75, Warning >= 50
func StatusForScore(score float64) model.HealthStatus {
	switch {
	case score >= 75:
		return model.HealthStatusHealthy
	case score >= 50:
		return model.HealthStatusWarning
	default:
		return model.HealthStatusAtRisk
	}
}
