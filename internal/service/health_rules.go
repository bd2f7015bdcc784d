package service

import (
	"github.com/montanaflynn/stats"

	"health-finance-api/internal/model"
)

type ruleLevel string

const (
	levelExcellent ruleLevel = "excellent"
	levelGood      ruleLevel = "good"
	levelWarning   ruleLevel = "warning"
	levelAtRisk    ruleLevel = "at_risk"
	levelCritical  ruleLevel = "critical"
)

// Веса компонентов: cashflow и DTI важнее
const (
	weightDTI      = 0.30
	weightExpense  = 0.20
	weightSavings  = 0.20
	weightCashflow = 0.30
)

type ruleOutcome struct {
	score       int
	level       ruleLevel
	explanation string
}

func (o ruleOutcome) flagged() bool {
	return o.level == levelAtRisk || o.level == levelCritical
}

type healthAssessment struct {
	score        float64
	scores       model.ComponentScores
	explanations model.ComponentExplanations
	flags        []model.RiskFlag
}

func safeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// CalculateMetrics считает относительные метрики профиля (масштабонезависимые)
func CalculateMetrics(p model.FinancialProfile) model.HealthMetrics {
	total := p.TotalExpenses()
	disposable := p.Income - total

	return model.HealthMetrics{
		DebtToIncomeRatio:     safeDivide(p.Debt, p.Income),
		ExpenseRatio:          safeDivide(total, p.Income),
		SavingsRatio:          safeDivide(p.Savings, p.Income),
		DisposableIncome:      disposable,
		DisposableIncomeRatio: safeDivide(disposable, p.Income),
		TotalExpenses:         total,
		NetCashflow:           disposable,
	}
}

func assessDTI(ratio float64) ruleOutcome {
	switch {
	case ratio <= 1.0:
		return ruleOutcome{100, levelExcellent, "Very low debt burden (< 1x monthly income)"}
	case ratio <= 3.0:
		return ruleOutcome{80, levelGood, "Manageable debt burden (1-3x monthly income)"}
	case ratio <= 6.0:
		return ruleOutcome{50, levelWarning, "High debt burden (3-6x monthly income)"}
	case ratio <= 12.0:
		return ruleOutcome{25, levelAtRisk, "Very high debt burden (6-12x monthly income)"}
	default:
		return ruleOutcome{0, levelCritical, "Critical debt burden (>12x monthly income)"}
	}
}

func assessExpenseRatio(ratio float64) ruleOutcome {
	switch {
	case ratio <= 0.50:
		return ruleOutcome{100, levelExcellent, "Very efficient spending (<50% of income)"}
	case ratio <= 0.70:
		return ruleOutcome{80, levelGood, "Controlled spending (50-70% of income)"}
	case ratio <= 0.85:
		return ruleOutcome{50, levelWarning, "High spending (70-85% of income)"}
	case ratio < 1.0:
		return ruleOutcome{25, levelAtRisk, "Very high spending (85-100% of income)"}
	default:
		return ruleOutcome{0, levelCritical, "Spending exceeds income (>100%)"}
	}
}

func assessSavingsRatio(ratio float64) ruleOutcome {
	switch {
	case ratio >= 6.0:
		return ruleOutcome{100, levelExcellent, "Emergency fund is very adequate (>=6 months of income)"}
	case ratio >= 3.0:
		return ruleOutcome{80, levelGood, "Emergency fund is adequate (3-6 months of income)"}
	case ratio >= 1.0:
		return ruleOutcome{50, levelWarning, "Minimal emergency fund (1-3 months of income)"}
	case ratio > 0:
		return ruleOutcome{25, levelAtRisk, "Very limited emergency fund (<1 month of income)"}
	default:
		return ruleOutcome{0, levelCritical, "No emergency fund"}
	}
}

func assessDisposableRatio(ratio float64) ruleOutcome {
	switch {
	case ratio >= 0.30:
		return ruleOutcome{100, levelExcellent, "Very healthy cashflow (>30% of income free)"}
	case ratio >= 0.15:
		return ruleOutcome{80, levelGood, "Healthy cashflow (15-30% of income free)"}
	case ratio >= 0.05:
		return ruleOutcome{50, levelWarning, "Limited cashflow (5-15% of income free)"}
	case ratio > 0:
		return ruleOutcome{25, levelAtRisk, "Very limited cashflow (<5% of income free)"}
	default:
		return ruleOutcome{0, levelCritical, "Negative cashflow (expenses > income)"}
	}
}

func assessHealth(m model.HealthMetrics) healthAssessment {
	dti := assessDTI(m.DebtToIncomeRatio)
	expense := assessExpenseRatio(m.ExpenseRatio)
	savings := assessSavingsRatio(m.SavingsRatio)
	cashflow := assessDisposableRatio(m.DisposableIncomeRatio)

	score := float64(dti.score)*weightDTI +
		float64(expense.score)*weightExpense +
		float64(savings.score)*weightSavings +
		float64(cashflow.score)*weightCashflow

	// Порядок флагов фиксирован: долг, расходы, сбережения, cashflow
	flags := []model.RiskFlag{}
	if dti.flagged() {
		flags = append(flags, model.RiskFlagHighDebtBurden)
	}
	if expense.flagged() {
		flags = append(flags, model.RiskFlagExcessiveExpenses)
	}
	if savings.flagged() {
		flags = append(flags, model.RiskFlagInsufficientSavings)
	}
	if cashflow.flagged() {
		flags = append(flags, model.RiskFlagNegativeCashflow)
	}

	return healthAssessment{
		score: score,
		scores: model.ComponentScores{
			DebtToIncome:      dti.score,
			ExpenseEfficiency: expense.score,
			SavingsAdequacy:   savings.score,
			CashflowHealth:    cashflow.score,
		},
		explanations: model.ComponentExplanations{
			DebtToIncome:      dti.explanation,
			ExpenseEfficiency: expense.explanation,
			SavingsAdequacy:   savings.explanation,
			CashflowHealth:    cashflow.explanation,
		},
		flags: flags,
	}
}

func roundScore(score float64) (float64, error) {
	return stats.Round(score, 1)
}
