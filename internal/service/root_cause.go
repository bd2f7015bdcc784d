package service

import (
	"fmt"
	"sort"

	"health-finance-api/internal/model"
)

const (
	largeLoanAmount       = 50_000_000
	longDurationDays      = 180
	veryShortDurationDays = 30
	maxPrimaryCauses      = 5
)

// Риск-профили анализа первопричин
const (
	RiskProfileCritical   = "Critical - Both poor health and high loan risk"
	RiskProfileHighLoan   = "High - Loan structure issues despite okay health"
	RiskProfileHighHealth = "High - Poor financial health driving risk"
	RiskProfileModerate   = "Moderate - Some concerns in both areas"
	RiskProfileLow        = "Low - Acceptable health and loan risk"
)

const noRiskSummary = "No significant risk factors identified. The profile is sound in both financial health and loan structure."

type healthCauseRule struct {
	flag        model.RiskFlag
	cause       string
	severity    model.Severity
	explanation string
	impact      string
}

// Порядок правил задает порядок причин до сортировки
var healthCauseRules = []healthCauseRule{
	{
		flag:        model.RiskFlagHighDebtBurden,
		cause:       "High Debt Burden",
		severity:    model.SeverityCritical,
		explanation: "High DTI ratio indicates an excessive debt burden",
		impact:      "Significantly increases the risk of default",
	},
	{
		flag:        model.RiskFlagExcessiveExpenses,
		cause:       "Excessive Expenses",
		severity:    model.SeverityHigh,
		explanation: "Uncontrolled spending reduces repayment capacity",
		impact:      "Reduces the cashflow available for installments",
	},
	{
		flag:        model.RiskFlagInsufficientSavings,
		cause:       "Insufficient Emergency Fund",
		severity:    model.SeverityMedium,
		explanation: "Emergency fund is not adequate for financial shocks",
		impact:      "Increases default risk when unexpected events occur",
	},
	{
		flag:        model.RiskFlagNegativeCashflow,
		cause:       "Negative Cashflow",
		severity:    model.SeverityCritical,
		explanation: "Expenses exceed income",
		impact:      "Not sustainable for paying additional installments",
	},
}

// AnalyzeRootCause объединяет результат оценки здоровья и прогноз дефолта в ранжированный список причин
func AnalyzeRootCause(health *model.HealthResult, loan *model.PredictionResult, req model.LoanRequest) (*model.RootCauseSummary, error) {
	if health == nil || loan == nil {
		return nil, &StageError{Stage: StageRootCause, Err: fmt.Errorf("%w: health and loan results are required", ErrInvalidInput)}
	}

	healthImpact := healthImpactOf(health, loan)
	loanChars := loanCharacteristicsOf(loan, req)

	causes := make([]model.Cause, 0, len(healthImpact.ContributingFactors)+len(loanChars.RiskFactors))
	causes = append(causes, healthImpact.ContributingFactors...)
	causes = append(causes, loanChars.RiskFactors...)

	if err := rankCauses(causes); err != nil {
		return nil, &StageError{Stage: StageRootCause, Err: err}
	}

	summary := &model.RootCauseSummary{
		Summary:             noRiskSummary,
		RiskProfile:         classifyRiskProfile(loan.DefaultProbability, health.Score),
		DefaultProbability:  loan.DefaultProbability,
		HealthScore:         health.Score,
		PrimaryCauses:       causes,
		TotalRiskFactors:    len(causes),
		HealthImpact:        healthImpact,
		LoanCharacteristics: loanChars,
	}

	for _, c := range causes {
		switch c.Severity {
		case model.SeverityCritical:
			summary.CriticalFactors++
		case model.SeverityHigh:
			summary.HighFactors++
		}
	}

	if len(causes) > 0 {
		summary.Summary = fmt.Sprintf("Primary risk: %s. %s", causes[0].Cause, causes[0].Explanation)
	}
	if len(causes) > maxPrimaryCauses {
		summary.PrimaryCauses = causes[:maxPrimaryCauses:maxPrimaryCauses]
	}

	return summary, nil
}

func healthImpactOf(health *model.HealthResult, loan *model.PredictionResult) model.HealthImpact {
	factors := []model.Cause{}
	for _, rule := range healthCauseRules {
		if !health.HasFlag(rule.flag) {
			continue
		}
		factors = append(factors, model.Cause{
			Category:    model.CauseCategoryFinancialHealth,
			Cause:       rule.cause,
			Severity:    rule.severity,
			Explanation: rule.explanation,
			Impact:      rule.impact,
		})
	}

	level := "low"
	switch {
	case health.Score < 50:
		level = "high"
	case health.Score < 75:
		level = "medium"
	}

	return model.HealthImpact{
		HealthScore:         health.Score,
		HealthStatus:        health.Status,
		DefaultProbability:  loan.DefaultProbability,
		Correlation:         "negative",
		ImpactLevel:         level,
		ContributingFactors: factors,
	}
}

func loanCharacteristicsOf(loan *model.PredictionResult, req model.LoanRequest) model.LoanCharacteristics {
	factors := []model.Cause{}
	add := func(cause string, severity model.Severity, explanation, impact string) {
		factors = append(factors, model.Cause{
			Category:    model.CauseCategoryLoanCharacteristics,
			Cause:       cause,
			Severity:    severity,
			Explanation: explanation,
			Impact:      impact,
		})
	}

	if req.Amount > largeLoanAmount {
		add("Large Loan Amount", model.SeverityHigh,
			fmt.Sprintf("Loan amount %s is considered large", formatRupiah(req.Amount)),
			"High repayment burden")
	}
	if req.DurationDays > longDurationDays {
		add("Long Duration", model.SeverityMedium,
			fmt.Sprintf("Duration of %d days is fairly long", req.DurationDays),
			"Increases uncertainty and risk exposure")
	}
	if req.DurationDays < veryShortDurationDays {
		add("Very Short Duration", model.SeverityHigh,
			fmt.Sprintf("Duration of %d days is very short", req.DurationDays),
			"Very high repayment burden per period")
	}

	if loan.Explanation != nil {
		for _, rf := range loan.Explanation.RiskFactors {
			add(rf.Factor, rf.Severity, rf.Detail, "Identified by the model as a risk driver")
		}
	}

	return model.LoanCharacteristics{
		LoanAmount:   req.Amount,
		DurationDays: req.DurationDays,
		RiskFactors:  factors,
	}
}

// rankCauses сортирует причины по критичности с сохранением порядка обнаружения
func rankCauses(causes []model.Cause) error {
	for _, c := range causes {
		if _, ok := c.Severity.Rank(); !ok {
			return fmt.Errorf("cause %q has unknown severity %q", c.Cause, c.Severity)
		}
	}
	sort.SliceStable(causes, func(i, j int) bool {
		ri, _ := causes[i].Severity.Rank()
		rj, _ := causes[j].Severity.Rank()
		return ri < rj
	})
	return nil
}

// classifyRiskProfile - первое совпадение в фиксированном порядке
func classifyRiskProfile(prob, score float64) string {
	switch {
	case prob > 0.6 && score < 50:
		return RiskProfileCritical
	case prob > 0.6:
		return RiskProfileHighLoan
	case score < 50:
		return RiskProfileHighHealth
	case prob > 0.4:
		return RiskProfileModerate
	default:
		return RiskProfileLow
	}
}
