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

type staticAggregates model.AggregationMaps

func (s staticAggregates) Snapshot() model.AggregationMaps {
	return model.AggregationMaps(s)
}

func newTestPredictor(t *testing.T, agg AggregationSource) *LoanPredictor {
	t.Helper()
	sc, err := LoadDefaultScorecard()
	require.NoError(t, err)

	p := NewLoanPredictor(sc, agg, testLogger())
	p.now = func() time.Time { return time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC) }
	return p
}

func lowRiskRequest() model.LoanRequest {
	return model.LoanRequest{
		Amount:         10_000_000,
		DurationDays:   90,
		LoanType:       "Multiguna",
		BorrowerStatus: "Lama",
		Education:      "S1",
		Collateral:     "Sertifikat",
	}
}

func highRiskRequest() model.LoanRequest {
	total := 120_000_000.0
	saturday := time.Date(2024, time.January, 13, 0, 0, 0, 0, time.UTC)
	return model.LoanRequest{
		Amount:           80_000_000,
		DurationDays:     365,
		LoanType:         "Konsumtif",
		BorrowerStatus:   "Baru",
		Education:        "SD",
		DisbursementDate: &saturday,
		TotalRepayment:   &total,
	}
}

func TestLoanPredictor_LowRisk(t *testing.T) {
	p := newTestPredictor(t, nil)

	result, err := p.Predict(context.Background(), lowRiskRequest(), true)
	require.NoError(t, err)

	assert.InDelta(t, 0.0944, result.DefaultProbability, 0.002)
	assert.False(t, result.DefaultPrediction)
	assert.Equal(t, model.RiskCategoryLow, result.RiskCategory)
	assert.Equal(t, model.ConfidenceHigh, result.Confidence)
	assert.Equal(t, model.ModelInfo{ModelType: "loan_default", Version: "2.1.0"}, result.ModelInfo)

	require.NotNil(t, result.Explanation)
	assert.Contains(t, result.Explanation.Summary, "LOW RISK")
	require.Len(t, result.Explanation.RiskFactors, 1)
	assert.Equal(t, "High Daily Burden", result.Explanation.RiskFactors[0].Factor)
	assert.Equal(t, model.SeverityMedium, result.Explanation.RiskFactors[0].Severity)
}

func TestLoanPredictor_HighRisk(t *testing.T) {
	p := newTestPredictor(t, nil)

	result, err := p.Predict(context.Background(), highRiskRequest(), true)
	require.NoError(t, err)

	assert.Greater(t, result.DefaultProbability, 0.99)
	assert.True(t, result.DefaultPrediction)
	assert.Equal(t, model.RiskCategoryHigh, result.RiskCategory)

	exp := result.Explanation
	require.NotNil(t, exp)
	assert.Contains(t, exp.Summary, "HIGH RISK")

	factors := make([]string, 0, len(exp.RiskFactors))
	for _, f := range exp.RiskFactors {
		factors = append(factors, f.Factor)
	}
	assert.Equal(t, []string{"High Interest Rate", "Long Loan Duration", "High Debt Pressure", "High Daily Burden"}, factors)

	require.NotEmpty(t, exp.FeatureContributions)
	assert.LessOrEqual(t, len(exp.FeatureContributions), maxContributions)
	assert.Equal(t, "debt_pressure", exp.FeatureContributions[0].Feature)
	assert.Equal(t, "increases_risk", exp.FeatureContributions[0].Impact)
	assert.Equal(t, "ratio_bunga", exp.TopFeatures[0].Feature)
}

func TestLoanPredictor_WithoutExplanation(t *testing.T) {
	result, err := newTestPredictor(t, nil).Predict(context.Background(), lowRiskRequest(), false)
	require.NoError(t, err)
	assert.Nil(t, result.Explanation)
}

func TestLoanPredictor_UsesAggregates(t *testing.T) {
	req := lowRiskRequest()
	req.Province = "DKI Jakarta"

	base, err := newTestPredictor(t, nil).Predict(context.Background(), req, false)
	require.NoError(t, err)

	agg := model.NewAggregationMaps()
	agg.ProvinceMeanLoan["DKI Jakarta"] = 100_000_000
	withAgg, err := newTestPredictor(t, staticAggregates(agg)).Predict(context.Background(), req, false)
	require.NoError(t, err)

	assert.Less(t, withAgg.DefaultProbability, base.DefaultProbability)
}

func TestLoanPredictor_InvalidRequest(t *testing.T) {
	req := lowRiskRequest()
	req.Amount = 0
	req.DurationDays = -5

	_, err := newTestPredictor(t, nil).Predict(context.Background(), req, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "jumlah_pinjaman")
	assert.Contains(t, verr.Fields, "durasi_hari")
}

func TestLoanPredictor_BatchPredict(t *testing.T) {
	bad := lowRiskRequest()
	bad.LoanType = ""

	items, err := newTestPredictor(t, nil).BatchPredict(context.Background(), []model.LoanRequest{lowRiskRequest(), bad}, false)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.NotNil(t, items[0].Result)
	assert.Empty(t, items[0].Error)
	assert.Nil(t, items[1].Result)
	assert.Contains(t, items[1].Error, "jenis_pinjaman")
}

func TestBuildFeatures_Imputation(t *testing.T) {
	req := model.LoanRequest{Amount: 10_000_000, DurationDays: 99, LoanType: "Produktif"}
	sunday := time.Date(2024, time.January, 14, 0, 0, 0, 0, time.UTC)

	f := buildFeatures(req, model.NewAggregationMaps(), sunday)

	assert.InDelta(t, 11_500_000, f.Numeric["total_pengembalian"], 1e-6)
	assert.InDelta(t, 0.15, f.Numeric["ratio_bunga"], 1e-9)
	assert.InDelta(t, 0.95, f.Numeric["ratio_lender"], 1e-9)
	assert.Equal(t, 6.0, f.Numeric["dayofweek"])
	assert.Equal(t, 1.0, f.Numeric["is_weekend"])
	assert.Equal(t, defaultProvinceMeanLoan, f.Numeric["mean_loan_provinsi"])
	assert.Equal(t, defaultSectorMeanInterest, f.Numeric["mean_interest_sector"])
	assert.InDelta(t, 115_000, f.Numeric["beban_per_hari"], 1e-6)
	assert.InDelta(t, 14.85, f.Numeric["debt_pressure"], 1e-9)
	assert.Equal(t, "Unknown", f.Categorical["jenis_jaminan"])
	assert.Equal(t, "Produktif", f.Categorical["jenis_pinjaman"])
}

func TestRiskCategoryAndConfidence(t *testing.T) {
	assert.Equal(t, model.RiskCategoryLow, riskCategory(0.29))
	assert.Equal(t, model.RiskCategoryMedium, riskCategory(0.3))
	assert.Equal(t, model.RiskCategoryHigh, riskCategory(0.6))

	assert.Equal(t, model.ConfidenceHigh, predictionConfidence(0.9))
	assert.Equal(t, model.ConfidenceMedium, predictionConfidence(0.3))
	assert.Equal(t, model.ConfidenceLow, predictionConfidence(0.55))
}
