package service

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/sirupsen/logrus"

	"health-finance-api/internal/model"
)

// Итоговые решения (носят рекомендательный характер)
const (
	DecisionNotRecommended      = "NOT RECOMMENDED"
	DecisionNeedsRestructuring  = "NEEDS RESTRUCTURING"
	DecisionConsiderConditional = "CONSIDER WITH CONDITIONS"
	DecisionRecommended         = "RECOMMENDED"
)

// AnalyzeInput - входные данные построения аналитики.
// HealthEvaluator и Predictor нужны только для сценариев; nil (в том числе
// типизированный nil-указатель) отключает сценарии.
type AnalyzeInput struct {
	Health          *model.HealthResult
	Loan            *model.PredictionResult
	Profile         model.FinancialProfile
	Request         model.LoanRequest
	HealthEvaluator HealthEvaluator
	Predictor       DefaultPredictor
	RunScenarios    bool
	ScenarioNames   []model.ScenarioName
}

// InsightEngine сводит оценку здоровья и прогноз дефолта в единый пакет аналитики
type InsightEngine struct {
	scenarioTimeout time.Duration
	logger          *logrus.Logger
}

func NewInsightEngine(scenarioTimeout time.Duration, logger *logrus.Logger) *InsightEngine {
	return &InsightEngine{scenarioTimeout: scenarioTimeout, logger: logger}
}

// Analyze: первопричины -> сценарии (опционально) -> рекомендации -> решение и оценка риска
func (e *InsightEngine) Analyze(ctx context.Context, in AnalyzeInput) (*model.InsightPackage, error) {
	if err := validateResults(in.Health, in.Loan); err != nil {
		return nil, &StageError{Stage: StageInput, Err: err}
	}

	rootCause, err := AnalyzeRootCause(in.Health, in.Loan, in.Request)
	if err != nil {
		return nil, err
	}

	var scenarios *model.ScenarioAnalysis
	if in.RunScenarios && present(in.HealthEvaluator) && present(in.Predictor) {
		sim := NewScenarioSimulator(in.HealthEvaluator, in.Predictor, e.scenarioTimeout, e.logger)
		scenarios, err = sim.Run(ctx, in.Health, in.Loan, in.Profile, in.Request, in.ScenarioNames)
		if err != nil {
			return nil, err
		}
	}

	recs := SynthesizeRecommendations(in.Health, in.Loan, in.Request, scenarios)

	pkg := &model.InsightPackage{
		DecisionSummary:   decisionSummary(in.Health, in.Loan, rootCause, recs),
		RiskAssessment:    riskAssessment(in.Health, in.Loan, rootCause),
		RootCauseAnalysis: *rootCause,
		Recommendations:   *recs,
		ScenarioAnalysis:  scenarios,
		Metadata: model.InsightMetadata{
			HealthScore:        in.Health.Score,
			DefaultProbability: in.Loan.DefaultProbability,
			RiskCategory:       in.Loan.RiskCategory,
			ScenariosRun:       scenarios != nil,
		},
	}

	e.logger.WithFields(logrus.Fields{
		"decision":        pkg.DecisionSummary.OverallDecision,
		"risk_level":      pkg.RiskAssessment.RiskLevel,
		"causes":          rootCause.TotalRiskFactors,
		"recommendations": recs.TotalRecommendations,
		"scenarios_run":   scenarios != nil,
	}).Info("Аналитика по заявке построена")

	return pkg, nil
}

// present ловит и nil-интерфейс, и интерфейс с nil-указателем внутри
func present(v interface{}) bool {
	if v == nil {
		return false
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// validateResults отклоняет отсутствующие, пустые (нулевые) и противоречивые результаты
func validateResults(health *model.HealthResult, loan *model.PredictionResult) error {
	if health == nil || loan == nil {
		return fmt.Errorf("%w: both health and loan results are required", ErrInvalidInput)
	}
	if math.IsNaN(health.Score) || health.Score < 0 || health.Score > 100 {
		return fmt.Errorf("%w: health score %v is outside [0, 100]", ErrInvalidInput, health.Score)
	}
	switch health.Status {
	case model.HealthStatusHealthy, model.HealthStatusWarning, model.HealthStatusAtRisk:
	default:
		return fmt.Errorf("%w: unknown health status %q", ErrInvalidInput, health.Status)
	}
	if want := StatusForScore(health.Score); health.Status != want {
		return fmt.Errorf("%w: health status %q does not match score %.1f (expected %q)", ErrInvalidInput, health.Status, health.Score, want)
	}

	p := loan.DefaultProbability
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: default probability %v is outside [0, 1]", ErrInvalidInput, p)
	}
	switch loan.RiskCategory {
	case model.RiskCategoryLow, model.RiskCategoryMedium, model.RiskCategoryHigh:
	default:
		return fmt.Errorf("%w: unknown risk category %q", ErrInvalidInput, loan.RiskCategory)
	}
	return nil
}

func decisionSummary(
	health *model.HealthResult,
	loan *model.PredictionResult,
	rootCause *model.RootCauseSummary,
	recs *model.RecommendationPackage,
) model.DecisionSummary {
	score := health.Score
	prob := loan.DefaultProbability

	var decision, reasoning string
	var confidence model.Confidence
	switch {
	case prob > 0.7 || score < 40:
		decision, confidence = DecisionNotRecommended, model.ConfidenceHigh
		reasoning = "Default risk is very high and/or the financial condition is very weak"
	case prob > 0.5 || score < 50:
		decision, confidence = DecisionNeedsRestructuring, model.ConfidenceHigh
		reasoning = "Default risk is high; the loan structure or the financial condition needs improvement"
	case prob > 0.3 || score < 65:
		decision, confidence = DecisionConsiderConditional, model.ConfidenceMedium
		reasoning = "Moderate risk; some improvements are needed before approval"
	default:
		decision, confidence = DecisionRecommended, model.ConfidenceHigh
		reasoning = "Good financial profile and low default risk"
	}

	actions := make([]string, 0, len(recs.Top3Priorities))
	for _, r := range recs.Top3Priorities {
		actions = append(actions, r.Action)
	}

	return model.DecisionSummary{
		OverallDecision: decision,
		Reasoning:       reasoning,
		Confidence:      confidence,
		KeyInsights: []string{
			fmt.Sprintf("Health Score: %.1f/100 (%s)", score, health.Status),
			fmt.Sprintf("Default Probability: %.1f%% (%s risk)", prob*100, loan.RiskCategory),
			fmt.Sprintf("Total Risk Factors: %d", rootCause.TotalRiskFactors),
			fmt.Sprintf("Critical Issues: %d", rootCause.CriticalFactors),
		},
		Top3Actions:             actions,
		Summary:                 recs.Summary,
		RequiresImmediateAction: rootCause.CriticalFactors > 0,
	}
}

// riskAssessment считается независимо от risk_profile первопричин; оба поля отдаются клиенту
func riskAssessment(health *model.HealthResult, loan *model.PredictionResult, rootCause *model.RootCauseSummary) model.RiskAssessment {
	score := health.Score
	prob := loan.DefaultProbability

	var level, description string
	switch {
	case score >= 75 && prob < 0.3:
		level, description = "LOW", "Very good financial profile with low default risk"
	case score >= 60 && prob < 0.4:
		level, description = "MODERATE", "Good financial profile with moderate default risk"
	case score >= 50 && prob < 0.5:
		level, description = "MODERATE-HIGH", "Fair financial profile with fairly high default risk"
	case score >= 40 && prob < 0.6:
		level, description = "HIGH", "Weak financial profile with high default risk"
	default:
		level, description = "VERY HIGH", "Very weak financial profile with very high default risk"
	}

	drivers := make([]string, 0, len(rootCause.PrimaryCauses))
	for _, c := range rootCause.PrimaryCauses {
		drivers = append(drivers, c.Cause)
	}

	return model.RiskAssessment{
		RiskLevel:       level,
		RiskDescription: description,
		RiskComponents: model.RiskComponents{
			FinancialHealthRisk: categorizeScore(score),
			DefaultRisk:         loan.RiskCategory,
			CombinedRisk:        level,
		},
		RiskDrivers:        drivers,
		HealthScore:        score,
		DefaultProbability: prob,
		RiskProfile:        rootCause.RiskProfile,
	}
}

func categorizeScore(score float64) string {
	switch {
	case score >= 75:
		return "low"
	case score >= 60:
		return "moderate"
	case score >= 50:
		return "moderate-high"
	default:
		return "high"
	}
}

// QuickInsight - однострочная сводка без полного анализа
func QuickInsight(health *model.HealthResult, loan *model.PredictionResult) (string, error) {
	if err := validateResults(health, loan); err != nil {
		return "", &StageError{Stage: StageInput, Err: err}
	}

	prob := loan.DefaultProbability
	switch {
	case prob > 0.6:
		return fmt.Sprintf("HIGH RISK: Default probability %.1f%%, Health score %.0f/100 - Immediate action required", prob*100, health.Score), nil
	case prob > 0.4:
		return fmt.Sprintf("MODERATE RISK: Default probability %.1f%%, Health score %.0f/100 - Optimization recommended", prob*100, health.Score), nil
	default:
		return fmt.Sprintf("LOW RISK: Default probability %.1f%%, Health score %.0f/100 - Profile acceptable", prob*100, health.Score), nil
	}
}
