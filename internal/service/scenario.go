package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"health-finance-api/internal/model"
)

// HealthEvaluator - оценка финансового здоровья профиля
type HealthEvaluator interface {
	Evaluate(ctx context.Context, profile model.FinancialProfile) (*model.HealthResult, error)
}

// DefaultPredictor - прогноз вероятности дефолта по заявке
type DefaultPredictor interface {
	Predict(ctx context.Context, req model.LoanRequest, withExplanation bool) (*model.PredictionResult, error)
}

// Веса итогового impact score: снижение риска важнее роста балла
const (
	healthImpactWeight = 0.3
	riskImpactWeight   = 0.7
)

// DefaultScenarios - набор сценариев по умолчанию в каноническом порядке
var DefaultScenarios = []model.ScenarioName{
	model.ScenarioIncomeIncrease20,
	model.ScenarioDebtReduction30,
	model.ScenarioExpenseReduction15,
	model.ScenarioLoanReduction25,
	model.ScenarioDurationExtend30,
}

var scenarioOrder = map[model.ScenarioName]int{
	model.ScenarioIncomeIncrease20:   0,
	model.ScenarioDebtReduction30:    1,
	model.ScenarioExpenseReduction15: 2,
	model.ScenarioLoanReduction25:    3,
	model.ScenarioDurationExtend30:   4,
	model.ScenarioSavingsBoost3M:     5,
}

var (
	factorIncome   = decimal.RequireFromString("1.20")
	factorDebt     = decimal.RequireFromString("0.70")
	factorExpenses = decimal.RequireFromString("0.85")
	factorLoan     = decimal.RequireFromString("0.75")
	factorDuration = decimal.RequireFromString("1.30")
	savingsMonths  = decimal.NewFromInt(3)
)

// ScenarioSimulator прогоняет сценарии "что если" через оценщики
type ScenarioSimulator struct {
	health    HealthEvaluator
	predictor DefaultPredictor
	timeout   time.Duration
	logger    *logrus.Logger
}

func NewScenarioSimulator(health HealthEvaluator, predictor DefaultPredictor, timeout time.Duration, logger *logrus.Logger) *ScenarioSimulator {
	return &ScenarioSimulator{
		health:    health,
		predictor: predictor,
		timeout:   timeout,
		logger:    logger,
	}
}

// ResolveScenarios проверяет имена сценариев: nil - набор по умолчанию, дубликаты схлопываются
func ResolveScenarios(names []model.ScenarioName) ([]model.ScenarioName, error) {
	if names == nil {
		return append([]model.ScenarioName(nil), DefaultScenarios...), nil
	}

	seen := make(map[model.ScenarioName]bool, len(names))
	out := make([]model.ScenarioName, 0, len(names))
	for _, name := range names {
		if _, ok := scenarioOrder[name]; !ok {
			return nil, fmt.Errorf("%w: unknown scenario %q", ErrInvalidInput, name)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return scenarioOrder[out[i]] < scenarioOrder[out[j]]
	})
	return out, nil
}

// Run считает сценарии параллельно; ошибка любого оценщика прерывает весь набор
func (s *ScenarioSimulator) Run(
	ctx context.Context,
	current *model.HealthResult,
	currentLoan *model.PredictionResult,
	profile model.FinancialProfile,
	req model.LoanRequest,
	names []model.ScenarioName,
) (*model.ScenarioAnalysis, error) {
	if current == nil || currentLoan == nil {
		return nil, &StageError{Stage: StageScenario, Err: fmt.Errorf("%w: current results are required", ErrInvalidInput)}
	}

	resolved, err := ResolveScenarios(names)
	if err != nil {
		return nil, &StageError{Stage: StageScenario, Err: err}
	}

	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	results := make([]model.ScenarioResult, len(resolved))
	g, gctx := errgroup.WithContext(runCtx)
	for i, name := range resolved {
		i, name := i, name
		g.Go(func() error {
			res, err := s.simulate(gctx, name, current, currentLoan, profile, req)
			if err != nil {
				return &StageError{Stage: StageScenario, Scenario: name, Err: err}
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.WithError(err).Error("Сценарный анализ прерван")
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ImpactScore > results[j].ImpactScore
	})

	analysis := &model.ScenarioAnalysis{
		CurrentState: model.CurrentState{
			HealthScore:        current.Score,
			DefaultProbability: currentLoan.DefaultProbability,
		},
		Scenarios:      results,
		TotalScenarios: len(results),
	}
	if len(results) > 0 {
		best := results[0]
		analysis.BestScenario = &best

		impacts := make([]float64, len(results))
		for i, r := range results {
			impacts[i] = r.ImpactScore
		}
		if mean, err := stats.Mean(impacts); err == nil {
			analysis.AverageImpact = mean
		}
	}

	s.logger.WithFields(logrus.Fields{
		"scenarios": len(results),
		"average":   analysis.AverageImpact,
	}).Debug("Сценарный анализ завершен")

	return analysis, nil
}

func (s *ScenarioSimulator) simulate(
	ctx context.Context,
	name model.ScenarioName,
	current *model.HealthResult,
	currentLoan *model.PredictionResult,
	profile model.FinancialProfile,
	req model.LoanRequest,
) (*model.ScenarioResult, error) {
	res := &model.ScenarioResult{Name: name}
	rerunHealth, rerunLoan := false, false

	// profile и req - копии по значению; меняются только они
	switch name {
	case model.ScenarioIncomeIncrease20:
		res.Scenario, res.Change = "Income Increase", "+20%"
		res.OldValue = profile.Income
		profile.Income = scale(profile.Income, factorIncome)
		res.NewValue = profile.Income
		rerunHealth, rerunLoan = true, true
	case model.ScenarioDebtReduction30:
		res.Scenario, res.Change = "Debt Reduction", "-30%"
		res.OldValue = profile.Debt
		profile.Debt = scale(profile.Debt, factorDebt)
		res.NewValue = profile.Debt
		rerunHealth = true
	case model.ScenarioExpenseReduction15:
		res.Scenario, res.Change = "Expense Reduction", "-15%"
		res.OldValue = profile.TotalExpenses()
		profile.FixedExpenses = scale(profile.FixedExpenses, factorExpenses)
		profile.VariableExpenses = scale(profile.VariableExpenses, factorExpenses)
		res.NewValue = profile.TotalExpenses()
		rerunHealth, rerunLoan = true, true
	case model.ScenarioLoanReduction25:
		res.Scenario, res.Change = "Loan Amount Reduction", "-25%"
		res.OldValue = req.Amount
		req.Amount = scale(req.Amount, factorLoan)
		res.NewValue = req.Amount
		rerunLoan = true
	case model.ScenarioDurationExtend30:
		oldDuration := req.DurationDays
		req.DurationDays = int(decimal.NewFromInt(int64(oldDuration)).Mul(factorDuration).IntPart())
		res.Scenario = "Duration Adjustment"
		res.Change = fmt.Sprintf("%d → %d days", oldDuration, req.DurationDays)
		res.OldValue, res.NewValue = float64(oldDuration), float64(req.DurationDays)
		rerunLoan = true
	case model.ScenarioSavingsBoost3M:
		boost := decimal.NewFromFloat(profile.Income).Mul(savingsMonths)
		res.Scenario = "Savings Increase"
		res.Change = "+" + formatRupiah(boost.InexactFloat64())
		res.OldValue = profile.Savings
		profile.Savings = decimal.NewFromFloat(profile.Savings).Add(boost).InexactFloat64()
		res.NewValue = profile.Savings
		rerunHealth = true
	default:
		return nil, fmt.Errorf("%w: unknown scenario %q", ErrInvalidInput, name)
	}

	if rerunHealth {
		newHealth, err := s.health.Evaluate(ctx, profile)
		if err != nil {
			return nil, fmt.Errorf("health re-evaluation failed: %w", err)
		}
		res.NewHealth = newHealth
		res.HealthImpact = &model.HealthDelta{
			OldScore:    current.Score,
			NewScore:    newHealth.Score,
			Improvement: newHealth.Score - current.Score,
		}
	}
	if rerunLoan {
		newLoan, err := s.predictor.Predict(ctx, req, false)
		if err != nil {
			return nil, fmt.Errorf("default re-prediction failed: %w", err)
		}
		res.NewLoanResult = newLoan
		res.RiskImpact = &model.RiskDelta{
			OldProbability: currentLoan.DefaultProbability,
			NewProbability: newLoan.DefaultProbability,
			Reduction:      currentLoan.DefaultProbability - newLoan.DefaultProbability,
		}
	}

	res.ImpactScore = impactScore(res.HealthImpact, res.RiskImpact)

	s.logger.WithFields(logrus.Fields{
		"scenario": name,
		"impact":   res.ImpactScore,
	}).Debug("Сценарий рассчитан")

	return res, nil
}

func scale(v float64, factor decimal.Decimal) float64 {
	return decimal.NewFromFloat(v).Mul(factor).InexactFloat64()
}

// impactScore - отсутствующая дельта дает 0
func impactScore(health *model.HealthDelta, risk *model.RiskDelta) float64 {
	var improvement, reduction float64
	if health != nil {
		improvement = health.Improvement
	}
	if risk != nil {
		reduction = risk.Reduction
	}
	return healthImpactWeight*improvement + riskImpactWeight*100*reduction
}
