package service

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"health-finance-api/internal/model"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// Профиль с балансом: балл 100, Conservative Saver
func healthyProfile() model.FinancialProfile {
	return model.FinancialProfile{
		Income:           10_000_000,
		FixedExpenses:    3_000_000,
		VariableExpenses: 1_000_000,
		Savings:          70_000_000,
		Debt:             5_000_000,
	}
}

// Профиль в зоне Warning: балл 71, без флагов
func warningProfile() model.FinancialProfile {
	return model.FinancialProfile{
		Income:           10_000_000,
		FixedExpenses:    5_000_000,
		VariableExpenses: 2_000_000,
		Savings:          20_000_000,
		Debt:             40_000_000,
	}
}

// Профиль со всеми флагами риска: балл 0
func distressedProfile() model.FinancialProfile {
	return model.FinancialProfile{
		Income:           5_000_000,
		FixedExpenses:    4_000_000,
		VariableExpenses: 2_000_000,
		Savings:          0,
		Debt:             80_000_000,
	}
}

func baseLoanRequest() model.LoanRequest {
	date := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	return model.LoanRequest{
		Amount:           40_000_000,
		DurationDays:     90,
		LoanType:         "Multiguna",
		Collateral:       "Sertifikat",
		DisbursementDate: &date,
	}
}

// predictorFunc - предиктор-заглушка на функции
type predictorFunc func(ctx context.Context, req model.LoanRequest, withExplanation bool) (*model.PredictionResult, error)

func (f predictorFunc) Predict(ctx context.Context, req model.LoanRequest, withExplanation bool) (*model.PredictionResult, error) {
	return f(ctx, req, withExplanation)
}

// amountPredictor: вероятность = сумма / 100 млн
func amountPredictor() predictorFunc {
	return func(ctx context.Context, req model.LoanRequest, _ bool) (*model.PredictionResult, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := req.Amount / 100_000_000
		return &model.PredictionResult{
			DefaultProbability: p,
			RiskCategory:       riskCategory(p),
			Confidence:         predictionConfidence(p),
		}, nil
	}
}

type MockHealthEvaluator struct {
	mock.Mock
}

func (m *MockHealthEvaluator) Evaluate(ctx context.Context, profile model.FinancialProfile) (*model.HealthResult, error) {
	args := m.Called(ctx, profile)
	res, _ := args.Get(0).(*model.HealthResult)
	return res, args.Error(1)
}

type MockDefaultPredictor struct {
	mock.Mock
}

func (m *MockDefaultPredictor) Predict(ctx context.Context, req model.LoanRequest, withExplanation bool) (*model.PredictionResult, error) {
	args := m.Called(ctx, req, withExplanation)
	res, _ := args.Get(0).(*model.PredictionResult)
	return res, args.Error(1)
}
