package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"health-finance-api/internal/model"
)

func scenarioFixture(t *testing.T) (*model.HealthResult, *model.PredictionResult) {
	t.Helper()

	health, err := NewHealthAnalyzer(testLogger()).Evaluate(context.Background(), warningProfile())
	require.NoError(t, err)
	require.Equal(t, 71.0, health.Score)

	loan, err := amountPredictor().Predict(context.Background(), baseLoanRequest(), true)
	require.NoError(t, err)
	return health, loan
}

func scenarioNames(results []model.ScenarioResult) []model.ScenarioName {
	out := make([]model.ScenarioName, 0, len(results))
	for _, r := range results {
		out = append(out, r.Name)
	}
	return out
}

func TestScenarioSimulator_DefaultSet(t *testing.T) {
	health, loan := scenarioFixture(t)
	sim := NewScenarioSimulator(NewHealthAnalyzer(testLogger()), amountPredictor(), time.Second, testLogger())

	analysis, err := sim.Run(context.Background(), health, loan, warningProfile(), baseLoanRequest(), nil)
	require.NoError(t, err)

	assert.Equal(t, []model.ScenarioName{
		model.ScenarioLoanReduction25,
		model.ScenarioDebtReduction30,
		model.ScenarioIncomeIncrease20,
		model.ScenarioExpenseReduction15,
		model.ScenarioDurationExtend30,
	}, scenarioNames(analysis.Scenarios))
	assert.Equal(t, 5, analysis.TotalScenarios)
	assert.Equal(t, 71.0, analysis.CurrentState.HealthScore)
	assert.InDelta(t, 0.4, analysis.CurrentState.DefaultProbability, 1e-9)

	loanCut := analysis.Scenarios[0]
	assert.InDelta(t, 7.0, loanCut.ImpactScore, 1e-9)
	assert.Equal(t, 40_000_000.0, loanCut.OldValue)
	assert.Equal(t, 30_000_000.0, loanCut.NewValue)
	assert.Nil(t, loanCut.HealthImpact)
	require.NotNil(t, loanCut.RiskImpact)
	assert.InDelta(t, 0.1, loanCut.RiskImpact.Reduction, 1e-9)

	debtCut := analysis.Scenarios[1]
	assert.InDelta(t, 2.7, debtCut.ImpactScore, 1e-9)
	require.NotNil(t, debtCut.HealthImpact)
	assert.Equal(t, 80.0, debtCut.HealthImpact.NewScore)
	assert.Nil(t, debtCut.RiskImpact)

	duration := analysis.Scenarios[4]
	assert.Equal(t, "90 → 117 days", duration.Change)
	assert.Equal(t, 117.0, duration.NewValue)

	require.NotNil(t, analysis.BestScenario)
	assert.Equal(t, model.ScenarioLoanReduction25, analysis.BestScenario.Name)
	assert.InDelta(t, 1.94, analysis.AverageImpact, 1e-9)
}

func TestScenarioSimulator_DoesNotMutateInputs(t *testing.T) {
	health, loan := scenarioFixture(t)
	sim := NewScenarioSimulator(NewHealthAnalyzer(testLogger()), amountPredictor(), 0, testLogger())

	profile := warningProfile()
	req := baseLoanRequest()
	_, err := sim.Run(context.Background(), health, loan, profile, req, nil)
	require.NoError(t, err)

	assert.Equal(t, warningProfile(), profile)
	assert.Equal(t, 40_000_000.0, req.Amount)
	assert.Equal(t, 90, req.DurationDays)
	assert.Equal(t, 71.0, health.Score)
}

func TestScenarioSimulator_EmptySelection(t *testing.T) {
	health, loan := scenarioFixture(t)
	sim := NewScenarioSimulator(NewHealthAnalyzer(testLogger()), amountPredictor(), 0, testLogger())

	analysis, err := sim.Run(context.Background(), health, loan, warningProfile(), baseLoanRequest(), []model.ScenarioName{})
	require.NoError(t, err)

	assert.Empty(t, analysis.Scenarios)
	assert.Zero(t, analysis.TotalScenarios)
	assert.Nil(t, analysis.BestScenario)
	assert.Zero(t, analysis.AverageImpact)
}

func TestScenarioSimulator_UnknownScenario(t *testing.T) {
	health, loan := scenarioFixture(t)
	sim := NewScenarioSimulator(NewHealthAnalyzer(testLogger()), amountPredictor(), 0, testLogger())

	_, err := sim.Run(context.Background(), health, loan, warningProfile(), baseLoanRequest(),
		[]model.ScenarioName{"lottery_win"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageScenario, stageErr.Stage)
}

func TestScenarioSimulator_SavingsBoost(t *testing.T) {
	health, loan := scenarioFixture(t)
	sim := NewScenarioSimulator(NewHealthAnalyzer(testLogger()), amountPredictor(), 0, testLogger())

	analysis, err := sim.Run(context.Background(), health, loan, warningProfile(), baseLoanRequest(),
		[]model.ScenarioName{model.ScenarioSavingsBoost3M})
	require.NoError(t, err)
	require.Len(t, analysis.Scenarios, 1)

	boost := analysis.Scenarios[0]
	assert.Equal(t, "Savings Increase", boost.Scenario)
	assert.Equal(t, "+Rp 30,000,000", boost.Change)
	assert.Equal(t, 50_000_000.0, boost.NewValue)
	require.NotNil(t, boost.HealthImpact)
	assert.Equal(t, 77.0, boost.HealthImpact.NewScore)
	assert.InDelta(t, 1.8, boost.ImpactScore, 1e-9)
	assert.Nil(t, boost.NewLoanResult)
}

func TestResolveScenarios(t *testing.T) {
	tests := []struct {
		name    string
		in      []model.ScenarioName
		want    []model.ScenarioName
		wantErr bool
	}{
		{name: "nil gives defaults", in: nil, want: DefaultScenarios},
		{name: "empty stays empty", in: []model.ScenarioName{}, want: []model.ScenarioName{}},
		{
			name: "duplicates and canonical order",
			in: []model.ScenarioName{
				model.ScenarioSavingsBoost3M,
				model.ScenarioDurationExtend30,
				model.ScenarioIncomeIncrease20,
				model.ScenarioDurationExtend30,
			},
			want: []model.ScenarioName{
				model.ScenarioIncomeIncrease20,
				model.ScenarioDurationExtend30,
				model.ScenarioSavingsBoost3M,
			},
		},
		{name: "unknown", in: []model.ScenarioName{"nope"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveScenarios(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScenarioSimulator_EvaluatorCalls(t *testing.T) {
	health, loan := scenarioFixture(t)

	healthMock := new(MockHealthEvaluator)
	healthMock.On("Evaluate", mock.Anything, mock.AnythingOfType("model.FinancialProfile")).
		Return(&model.HealthResult{Score: 71}, nil)
	predictorMock := new(MockDefaultPredictor)
	predictorMock.On("Predict", mock.Anything, mock.AnythingOfType("model.LoanRequest"), false).
		Return(&model.PredictionResult{DefaultProbability: 0.4}, nil)

	sim := NewScenarioSimulator(healthMock, predictorMock, time.Second, testLogger())
	analysis, err := sim.Run(context.Background(), health, loan, warningProfile(), baseLoanRequest(), nil)
	require.NoError(t, err)
	assert.Len(t, analysis.Scenarios, 5)

	healthMock.AssertNumberOfCalls(t, "Evaluate", 3)
	predictorMock.AssertNumberOfCalls(t, "Predict", 4)
	predictorMock.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything, true)
}

func TestScenarioSimulator_EvaluatorFailureAbortsSet(t *testing.T) {
	health, loan := scenarioFixture(t)
	boom := errors.New("model unavailable")

	predictorMock := new(MockDefaultPredictor)
	predictorMock.On("Predict", mock.Anything, mock.Anything, false).Return(nil, boom)

	sim := NewScenarioSimulator(NewHealthAnalyzer(testLogger()), predictorMock, time.Second, testLogger())
	analysis, err := sim.Run(context.Background(), health, loan, warningProfile(), baseLoanRequest(),
		[]model.ScenarioName{model.ScenarioLoanReduction25})

	require.Error(t, err)
	assert.Nil(t, analysis)
	assert.ErrorIs(t, err, boom)

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageScenario, stageErr.Stage)
	assert.Equal(t, model.ScenarioLoanReduction25, stageErr.Scenario)
}

func TestScenarioSimulator_Deadline(t *testing.T) {
	health, loan := scenarioFixture(t)
	blocking := predictorFunc(func(ctx context.Context, _ model.LoanRequest, _ bool) (*model.PredictionResult, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	sim := NewScenarioSimulator(NewHealthAnalyzer(testLogger()), blocking, 20*time.Millisecond, testLogger())
	_, err := sim.Run(context.Background(), health, loan, warningProfile(), baseLoanRequest(),
		[]model.ScenarioName{model.ScenarioLoanReduction25, model.ScenarioDurationExtend30})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestImpactScore(t *testing.T) {
	assert.Zero(t, impactScore(nil, nil))
	assert.InDelta(t, 3.0, impactScore(&model.HealthDelta{Improvement: 10}, nil), 1e-9)
	assert.InDelta(t, 14.0, impactScore(nil, &model.RiskDelta{Reduction: 0.2}), 1e-9)
	assert.InDelta(t, -7.0, impactScore(nil, &model.RiskDelta{Reduction: -0.1}), 1e-9)
}
