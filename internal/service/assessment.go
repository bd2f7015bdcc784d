package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"health-finance-api/internal/model"
)

// AssessmentService - точка входа для HTTP и CLI: валидация, оценка, прогноз и аналитика
type AssessmentService struct {
	health    *HealthAnalyzer
	predictor *LoanPredictor
	engine    *InsightEngine
	logger    *logrus.Logger
}

func NewAssessmentService(health *HealthAnalyzer, predictor *LoanPredictor, engine *InsightEngine, logger *logrus.Logger) *AssessmentService {
	return &AssessmentService{
		health:    health,
		predictor: predictor,
		engine:    engine,
		logger:    logger,
	}
}

func (s *AssessmentService) EvaluateHealth(ctx context.Context, req model.FinancialProfileRequest) (*model.HealthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.health.Evaluate(ctx, req.ToProfile())
}

func (s *AssessmentService) PredictLoan(ctx context.Context, in model.LoanRequestInput, withExplanation bool) (*model.PredictionResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.predictor.Predict(ctx, in.ToRequest(), withExplanation)
}

// PredictBatch - невалидные заявки получают ошибку в своем элементе
func (s *AssessmentService) PredictBatch(ctx context.Context, inputs []model.LoanRequestInput, withExplanation bool) ([]model.BatchPredictionItem, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: batch is empty", ErrInvalidInput)
	}

	reqs := make([]model.LoanRequest, len(inputs))
	invalid := make(map[int]string)
	for i, in := range inputs {
		if err := in.Validate(); err != nil {
			invalid[i] = err.Error()
			continue
		}
		reqs[i] = in.ToRequest()
	}

	items, err := s.predictor.BatchPredict(ctx, reqs, withExplanation)
	if err != nil {
		return nil, err
	}
	for i, msg := range invalid {
		items[i] = model.BatchPredictionItem{Error: msg}
	}
	return items, nil
}

// evaluateBoth считает здоровье и прогноз параллельно
func (s *AssessmentService) evaluateBoth(ctx context.Context, req model.AnalyzeRequest) (model.FinancialProfile, model.LoanRequest, *model.HealthResult, *model.PredictionResult, error) {
	if err := model.Validate(req); err != nil {
		return model.FinancialProfile{}, model.LoanRequest{}, nil, nil, err
	}
	profile := req.Profile.ToProfile()
	loanReq := req.Loan.ToRequest()

	var health *model.HealthResult
	var loan *model.PredictionResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		health, err = s.health.Evaluate(gctx, profile)
		return err
	})
	g.Go(func() error {
		var err error
		loan, err = s.predictor.Predict(gctx, loanReq, true)
		return err
	})
	if err := g.Wait(); err != nil {
		return profile, loanReq, nil, nil, err
	}
	return profile, loanReq, health, loan, nil
}

// Analyze строит полный пакет аналитики; сценарии включены по умолчанию
func (s *AssessmentService) Analyze(ctx context.Context, req model.AnalyzeRequest) (*model.InsightPackage, error) {
	profile, loanReq, health, loan, err := s.evaluateBoth(ctx, req)
	if err != nil {
		return nil, err
	}

	runScenarios := true
	if req.RunScenarios != nil {
		runScenarios = *req.RunScenarios
	}

	return s.engine.Analyze(ctx, AnalyzeInput{
		Health:          health,
		Loan:            loan,
		Profile:         profile,
		Request:         loanReq,
		HealthEvaluator: s.health,
		Predictor:       s.predictor,
		RunScenarios:    runScenarios,
		ScenarioNames:   req.Scenarios,
	})
}

func (s *AssessmentService) Quick(ctx context.Context, req model.AnalyzeRequest) (*model.QuickInsightResponse, error) {
	_, _, health, loan, err := s.evaluateBoth(ctx, req)
	if err != nil {
		return nil, err
	}

	line, err := QuickInsight(health, loan)
	if err != nil {
		return nil, err
	}
	return &model.QuickInsightResponse{
		Insight:            line,
		HealthScore:        health.Score,
		DefaultProbability: loan.DefaultProbability,
	}, nil
}
