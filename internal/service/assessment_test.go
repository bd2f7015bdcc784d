package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-finance-api/internal/model"
)

func newTestAssessment(t *testing.T) *AssessmentService {
	t.Helper()
	logger := testLogger()
	return NewAssessmentService(
		NewHealthAnalyzer(logger),
		newTestPredictor(t, nil),
		NewInsightEngine(time.Second, logger),
		logger,
	)
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }
func boolPtr(v bool) *bool        { return &v }

func profileRequest(p model.FinancialProfile) model.FinancialProfileRequest {
	return model.FinancialProfileRequest{
		Income:           floatPtr(p.Income),
		FixedExpenses:    floatPtr(p.FixedExpenses),
		VariableExpenses: floatPtr(p.VariableExpenses),
		Savings:          floatPtr(p.Savings),
		Debt:             floatPtr(p.Debt),
	}
}

func loanInput(r model.LoanRequest) model.LoanRequestInput {
	return model.LoanRequestInput{
		Amount:         floatPtr(r.Amount),
		DurationDays:   intPtr(r.DurationDays),
		LoanType:       strPtr(r.LoanType),
		BorrowerStatus: r.BorrowerStatus,
		Education:      r.Education,
		Collateral:     r.Collateral,
	}
}

func TestAssessmentService_EvaluateHealth(t *testing.T) {
	svc := newTestAssessment(t)

	res, err := svc.EvaluateHealth(context.Background(), profileRequest(healthyProfile()))
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Score)

	req := profileRequest(healthyProfile())
	req.Savings = nil
	_, err = svc.EvaluateHealth(context.Background(), req)
	require.Error(t, err)

	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "missing required field", verr.Fields["savings"])

	// ноль допустим для необязательно положительных полей
	req = profileRequest(healthyProfile())
	req.Debt = floatPtr(0)
	_, err = svc.EvaluateHealth(context.Background(), req)
	assert.NoError(t, err)
}

func TestAssessmentService_PredictLoan(t *testing.T) {
	svc := newTestAssessment(t)

	res, err := svc.PredictLoan(context.Background(), loanInput(lowRiskRequest()), false)
	require.NoError(t, err)
	assert.Nil(t, res.Explanation)
	assert.Equal(t, model.RiskCategoryLow, res.RiskCategory)

	in := loanInput(lowRiskRequest())
	in.DurationDays = intPtr(0)
	_, err = svc.PredictLoan(context.Background(), in, true)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAssessmentService_PredictBatch(t *testing.T) {
	svc := newTestAssessment(t)

	bad := loanInput(lowRiskRequest())
	bad.Amount = nil

	items, err := svc.PredictBatch(context.Background(), []model.LoanRequestInput{
		loanInput(lowRiskRequest()),
		bad,
		loanInput(highRiskRequest()),
	}, false)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.NotNil(t, items[0].Result)
	assert.Empty(t, items[0].Error)
	assert.Nil(t, items[1].Result)
	assert.Contains(t, items[1].Error, "jumlah_pinjaman")
	assert.NotNil(t, items[2].Result)

	_, err = svc.PredictBatch(context.Background(), nil, false)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAssessmentService_Analyze(t *testing.T) {
	svc := newTestAssessment(t)

	req := model.AnalyzeRequest{
		Profile: profileRequest(warningProfile()),
		Loan:    loanInput(lowRiskRequest()),
	}
	pkg, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, pkg.ScenarioAnalysis)
	assert.Equal(t, len(DefaultScenarios), pkg.ScenarioAnalysis.TotalScenarios)
	assert.Equal(t, 71.0, pkg.Metadata.HealthScore)

	req.RunScenarios = boolPtr(false)
	pkg, err = svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, pkg.ScenarioAnalysis)

	req.RunScenarios = nil
	req.Scenarios = []model.ScenarioName{model.ScenarioSavingsBoost3M}
	pkg, err = svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, pkg.ScenarioAnalysis.Scenarios, 1)
	assert.Equal(t, model.ScenarioSavingsBoost3M, pkg.ScenarioAnalysis.Scenarios[0].Name)
}

func TestAssessmentService_AnalyzeInvalid(t *testing.T) {
	svc := newTestAssessment(t)

	req := model.AnalyzeRequest{
		Profile: profileRequest(warningProfile()),
		Loan:    loanInput(lowRiskRequest()),
	}
	req.Profile.Income = floatPtr(0)

	_, err := svc.Analyze(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = model.AnalyzeRequest{
		Profile:   profileRequest(warningProfile()),
		Loan:      loanInput(lowRiskRequest()),
		Scenarios: []model.ScenarioName{"moon_landing"},
	}
	_, err = svc.Analyze(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAssessmentService_Quick(t *testing.T) {
	svc := newTestAssessment(t)

	res, err := svc.Quick(context.Background(), model.AnalyzeRequest{
		Profile: profileRequest(healthyProfile()),
		Loan:    loanInput(lowRiskRequest()),
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.HealthScore)
	assert.Contains(t, res.Insight, "LOW RISK: Default probability")
	assert.Contains(t, res.Insight, "Health score 100/100")
}
