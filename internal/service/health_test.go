package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-finance-api/internal/model"
)

func TestHealthAnalyzer_Evaluate(t *testing.T) {
	analyzer := NewHealthAnalyzer(testLogger())

	tests := []struct {
		name    string
		profile model.FinancialProfile
		score   float64
		status  model.HealthStatus
		flags   []model.RiskFlag
		persona string
	}{
		{
			name:    "healthy saver",
			profile: healthyProfile(),
			score:   100,
			status:  model.HealthStatusHealthy,
			flags:   []model.RiskFlag{},
			persona: PersonaConservativeSaver,
		},
		{
			name:    "warning band",
			profile: warningProfile(),
			score:   71,
			status:  model.HealthStatusWarning,
			flags:   []model.RiskFlag{},
			persona: PersonaBuildingFoundation,
		},
		{
			name:    "distressed",
			profile: distressedProfile(),
			score:   0,
			status:  model.HealthStatusAtRisk,
			flags: []model.RiskFlag{
				model.RiskFlagHighDebtBurden,
				model.RiskFlagExcessiveExpenses,
				model.RiskFlagInsufficientSavings,
				model.RiskFlagNegativeCashflow,
			},
			persona: PersonaDebtPressured,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := analyzer.Evaluate(context.Background(), tt.profile)
			require.NoError(t, err)

			assert.InDelta(t, tt.score, result.Score, 1e-9)
			assert.Equal(t, tt.status, result.Status)
			assert.Equal(t, tt.flags, result.RiskFlags)
			assert.Equal(t, tt.persona, result.Persona.Name)
			assert.NotEmpty(t, result.Persona.Description)
			assert.NotEmpty(t, result.Persona.Insights.Strengths)
			assert.Equal(t, tt.profile.Income, result.Persona.ProfileSummary.MonthlyIncome)
		})
	}
}

func TestHealthAnalyzer_WarningComponents(t *testing.T) {
	result, err := NewHealthAnalyzer(testLogger()).Evaluate(context.Background(), warningProfile())
	require.NoError(t, err)

	assert.Equal(t, model.ComponentScores{
		DebtToIncome:      50,
		ExpenseEfficiency: 80,
		SavingsAdequacy:   50,
		CashflowHealth:    100,
	}, result.ComponentScores)
	assert.InDelta(t, 4.0, result.Metrics.DebtToIncomeRatio, 1e-9)
	assert.InDelta(t, 3_000_000, result.Metrics.DisposableIncome, 1e-6)
	assert.Equal(t, result.Metrics.DisposableIncome, result.Metrics.NetCashflow)
}

func TestHealthAnalyzer_InvalidProfile(t *testing.T) {
	analyzer := NewHealthAnalyzer(testLogger())

	profile := healthyProfile()
	profile.Income = 0
	profile.Debt = -1

	_, err := analyzer.Evaluate(context.Background(), profile)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "must be positive", verr.Fields["income"])
	assert.Equal(t, "cannot be negative", verr.Fields["debt"])
}

func TestHealthAnalyzer_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHealthAnalyzer(testLogger()).Evaluate(ctx, healthyProfile())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHealthAnalyzer_QuickCheck(t *testing.T) {
	analyzer := NewHealthAnalyzer(testLogger())

	line := analyzer.QuickCheck(context.Background(), healthyProfile())
	assert.Equal(t, "Health Status: Healthy (Score: 100.0/100) - Conservative Saver", line)

	bad := healthyProfile()
	bad.Income = 0
	assert.Contains(t, analyzer.QuickCheck(context.Background(), bad), "Error:")
}

func TestStatusForScore(t *testing.T) {
	assert.Equal(t, model.HealthStatusHealthy, StatusForScore(75))
	assert.Equal(t, model.HealthStatusWarning, StatusForScore(74.9))
	assert.Equal(t, model.HealthStatusWarning, StatusForScore(50))
	assert.Equal(t, model.HealthStatusAtRisk, StatusForScore(49.9))
}

func TestAssignPersona(t *testing.T) {
	tests := []struct {
		name    string
		metrics model.HealthMetrics
		want    string
	}{
		{"stable", model.HealthMetrics{DebtToIncomeRatio: 2, ExpenseRatio: 0.6, SavingsRatio: 4, DisposableIncomeRatio: 0.4}, PersonaStableBalanced},
		{"high spender", model.HealthMetrics{DebtToIncomeRatio: 1.5, ExpenseRatio: 0.8, SavingsRatio: 2.5, DisposableIncomeRatio: 0.2}, PersonaHighEarnerHighSpender},
		{"cashflow", model.HealthMetrics{DebtToIncomeRatio: 4, ExpenseRatio: 0.97, SavingsRatio: 1, DisposableIncomeRatio: 0.03}, PersonaCashflowChallenged},
		{"frugal", model.HealthMetrics{DebtToIncomeRatio: 4, ExpenseRatio: 0.4, SavingsRatio: 1, DisposableIncomeRatio: 0.08}, PersonaFrugalLowSavings},
		{"expense optimization", model.HealthMetrics{DebtToIncomeRatio: 4, ExpenseRatio: 0.88, SavingsRatio: 3, DisposableIncomeRatio: 0.12}, PersonaNeedsExpenseOpt},
		{"general", model.HealthMetrics{DebtToIncomeRatio: 4, ExpenseRatio: 0.8, SavingsRatio: 4, DisposableIncomeRatio: 0.2}, PersonaGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AssignPersona(tt.metrics))
		})
	}
}

func TestPersonaInsights_ReturnsCopy(t *testing.T) {
	first := PersonaInsights(PersonaDebtPressured)
	first.Strengths[0] = "changed"

	assert.NotEqual(t, "changed", PersonaInsights(PersonaDebtPressured).Strengths[0])
	assert.NotEmpty(t, PersonaInsights("Unknown Persona").FocusAreas)
}
