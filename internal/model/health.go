package model

type HealthStatus string

const (
	HealthStatusHealthy HealthStatus = "Healthy"
	HealthStatusWarning HealthStatus = "Warning"
	HealthStatusAtRisk  HealthStatus = "At Risk"
)

type RiskFlag string

const (
	RiskFlagHighDebtBurden      RiskFlag = "high_debt_burden"
	RiskFlagExcessiveExpenses   RiskFlag = "excessive_expenses"
	RiskFlagInsufficientSavings RiskFlag = "insufficient_savings"
	RiskFlagNegativeCashflow    RiskFlag = "negative_cashflow"
)

// HealthMetrics - рассчитанные финансовые показатели
type HealthMetrics struct {
	DebtToIncomeRatio     float64 `json:"debt_to_income_ratio"`
	ExpenseRatio          float64 `json:"expense_ratio"`
	SavingsRatio          float64 `json:"savings_ratio"`
	DisposableIncome      float64 `json:"disposable_income"`
	DisposableIncomeRatio float64 `json:"disposable_income_ratio"`
	TotalExpenses         float64 `json:"total_expenses"`
	NetCashflow           float64 `json:"net_cashflow"`
}

// ComponentScores - баллы по каждому правилу оценки
type ComponentScores struct {
	DebtToIncome      int `json:"debt_to_income"`
	ExpenseEfficiency int `json:"expense_efficiency"`
	SavingsAdequacy   int `json:"savings_adequacy"`
	CashflowHealth    int `json:"cashflow_health"`
}

// ComponentExplanations - пояснения к баллам компонентов
type ComponentExplanations struct {
	DebtToIncome      string `json:"debt_to_income"`
	ExpenseEfficiency string `json:"expense_efficiency"`
	SavingsAdequacy   string `json:"savings_adequacy"`
	CashflowHealth    string `json:"cashflow_health"`
}

type PersonaInsights struct {
	Strengths  []string `json:"strengths"`
	FocusAreas []string `json:"focus_areas"`
}

type ProfileSummary struct {
	MonthlyIncome    float64 `json:"monthly_income"`
	TotalExpenses    float64 `json:"total_expenses"`
	CurrentSavings   float64 `json:"current_savings"`
	CurrentDebt      float64 `json:"current_debt"`
	DisposableIncome float64 `json:"disposable_income"`
}

// Persona - описательный поведенческий профиль (не прогноз)
type Persona struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Insights       PersonaInsights `json:"insights"`
	ProfileSummary ProfileSummary  `json:"profile_summary"`
}

// HealthResult - результат оценки финансового здоровья
type HealthResult struct {
	Score           float64               `json:"score"`
	Status          HealthStatus          `json:"status"`
	Metrics         HealthMetrics         `json:"metrics"`
	RiskFlags       []RiskFlag            `json:"risk_flags"`
	Persona         Persona               `json:"persona"`
	Explanations    ComponentExplanations `json:"explanations"`
	ComponentScores ComponentScores       `json:"component_scores"`
}

// HasFlag проверяет наличие флага риска
func (h *HealthResult) HasFlag(flag RiskFlag) bool {
	for _, f := range h.RiskFlags {
		if f == flag {
			return true
		}
	}
	return false
}
