package model

import "encoding/json"

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank возвращает порядок критичности (0 - самый критичный)
func (s Severity) Rank() (int, bool) {
	switch s {
	case SeverityCritical:
		return 0, true
	case SeverityHigh:
		return 1, true
	case SeverityMedium:
		return 2, true
	case SeverityLow:
		return 3, true
	}
	return 0, false
}

type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	}
	return 3
}

// Phase - этап плана действий; набор этапов хранится битовой маской
type Phase uint8

const (
	PhaseImmediate Phase = 1 << iota
	PhaseShortTerm
	PhaseLongTerm
)

func (p Phase) Has(other Phase) bool {
	return p&other != 0
}

func (p Phase) MarshalJSON() ([]byte, error) {
	names := []string{}
	if p.Has(PhaseImmediate) {
		names = append(names, "immediate")
	}
	if p.Has(PhaseShortTerm) {
		names = append(names, "short_term")
	}
	if p.Has(PhaseLongTerm) {
		names = append(names, "long_term")
	}
	return json.Marshal(names)
}

type CauseCategory string

const (
	CauseCategoryFinancialHealth     CauseCategory = "Financial Health"
	CauseCategoryLoanCharacteristics CauseCategory = "Loan Characteristics"
)

// Cause - отдельная причина риска
type Cause struct {
	Category    CauseCategory `json:"category"`
	Cause       string        `json:"cause"`
	Severity    Severity      `json:"severity"`
	Explanation string        `json:"explanation"`
	Impact      string        `json:"impact"`
}

type HealthImpact struct {
	HealthScore         float64      `json:"health_score"`
	HealthStatus        HealthStatus `json:"health_status"`
	DefaultProbability  float64      `json:"default_probability"`
	Correlation         string       `json:"correlation"`
	ImpactLevel         string       `json:"impact_level"`
	ContributingFactors []Cause      `json:"contributing_factors"`
}

type LoanCharacteristics struct {
	LoanAmount   float64 `json:"loan_amount"`
	DurationDays int     `json:"duration_days"`
	RiskFactors  []Cause `json:"risk_factors"`
}

// RootCauseSummary - итог анализа первопричин
type RootCauseSummary struct {
	Summary             string              `json:"summary"`
	RiskProfile         string              `json:"risk_profile"`
	DefaultProbability  float64             `json:"default_probability"`
	HealthScore         float64             `json:"health_score"`
	PrimaryCauses       []Cause             `json:"primary_causes"`
	TotalRiskFactors    int                 `json:"total_risk_factors"`
	CriticalFactors     int                 `json:"critical_factors"`
	HighFactors         int                 `json:"high_factors"`
	HealthImpact        HealthImpact        `json:"health_impact"`
	LoanCharacteristics LoanCharacteristics `json:"loan_characteristics"`
}

type ScenarioName string

const (
	ScenarioIncomeIncrease20   ScenarioName = "income_increase_20"
	ScenarioDebtReduction30    ScenarioName = "debt_reduction_30"
	ScenarioExpenseReduction15 ScenarioName = "expense_reduction_15"
	ScenarioLoanReduction25    ScenarioName = "loan_reduction_25"
	ScenarioDurationExtend30   ScenarioName = "duration_extend_30"
	ScenarioSavingsBoost3M     ScenarioName = "savings_boost_3m"
)

type HealthDelta struct {
	OldScore    float64 `json:"old_score"`
	NewScore    float64 `json:"new_score"`
	Improvement float64 `json:"improvement"`
}

type RiskDelta struct {
	OldProbability float64 `json:"old_probability"`
	NewProbability float64 `json:"new_probability"`
	Reduction      float64 `json:"reduction"`
}

// ScenarioResult - результат одного сценария "что если"
type ScenarioResult struct {
	Name          ScenarioName      `json:"name"`
	Scenario      string            `json:"scenario"`
	Change        string            `json:"change"`
	OldValue      float64           `json:"old_value"`
	NewValue      float64           `json:"new_value"`
	HealthImpact  *HealthDelta      `json:"health_impact,omitempty"`
	RiskImpact    *RiskDelta        `json:"risk_impact,omitempty"`
	ImpactScore   float64           `json:"impact_score"`
	NewHealth     *HealthResult     `json:"new_health,omitempty"`
	NewLoanResult *PredictionResult `json:"new_loan_result,omitempty"`
}

type CurrentState struct {
	HealthScore        float64 `json:"health_score"`
	DefaultProbability float64 `json:"default_probability"`
}

type ScenarioAnalysis struct {
	CurrentState   CurrentState     `json:"current_state"`
	Scenarios      []ScenarioResult `json:"scenarios"`
	BestScenario   *ScenarioResult  `json:"best_scenario"`
	TotalScenarios int              `json:"total_scenarios"`
	AverageImpact  float64          `json:"average_impact"`
}

// Recommendation - рекомендация (носит совещательный характер)
type Recommendation struct {
	Category       string   `json:"category"`
	Priority       Priority `json:"priority"`
	Action         string   `json:"action"`
	Detail         string   `json:"detail"`
	Steps          []string `json:"steps"`
	ExpectedImpact string   `json:"expected_impact"`
	Timeframe      string   `json:"timeframe"`
	Phases         Phase    `json:"phases"`
}

type PriorityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

type ActionPlan struct {
	Phase1Immediate []Recommendation `json:"phase_1_immediate"`
	Phase2ShortTerm []Recommendation `json:"phase_2_short_term"`
	Phase3LongTerm  []Recommendation `json:"phase_3_long_term"`
}

type RecommendationPackage struct {
	Summary              string           `json:"summary"`
	TotalRecommendations int              `json:"total_recommendations"`
	ByPriority           PriorityCounts   `json:"by_priority"`
	AllRecommendations   []Recommendation `json:"all_recommendations"`
	QuickWins            []Recommendation `json:"quick_wins"`
	ActionPlan           ActionPlan       `json:"action_plan"`
	Top3Priorities       []Recommendation `json:"top_3_priorities"`
}

type DecisionSummary struct {
	OverallDecision         string     `json:"overall_decision"`
	Reasoning               string     `json:"reasoning"`
	Confidence              Confidence `json:"confidence"`
	KeyInsights             []string   `json:"key_insights"`
	Top3Actions             []string   `json:"top_3_actions"`
	Summary                 string     `json:"summary"`
	RequiresImmediateAction bool       `json:"requires_immediate_action"`
}

type RiskComponents struct {
	FinancialHealthRisk string       `json:"financial_health_risk"`
	DefaultRisk         RiskCategory `json:"default_risk"`
	CombinedRisk        string       `json:"combined_risk"`
}

type RiskAssessment struct {
	RiskLevel          string         `json:"risk_level"`
	RiskDescription    string         `json:"risk_description"`
	RiskComponents     RiskComponents `json:"risk_components"`
	RiskDrivers        []string       `json:"risk_drivers"`
	HealthScore        float64        `json:"health_score"`
	DefaultProbability float64        `json:"default_probability"`
	RiskProfile        string         `json:"risk_profile"`
}

type InsightMetadata struct {
	HealthScore        float64      `json:"health_score"`
	DefaultProbability float64      `json:"default_probability"`
	RiskCategory       RiskCategory `json:"risk_category"`
	ScenariosRun       bool         `json:"scenarios_run"`
}

// InsightPackage - итоговый пакет аналитики по заявке
type InsightPackage struct {
	DecisionSummary   DecisionSummary       `json:"decision_summary"`
	RiskAssessment    RiskAssessment        `json:"risk_assessment"`
	RootCauseAnalysis RootCauseSummary      `json:"root_cause_analysis"`
	Recommendations   RecommendationPackage `json:"recommendations"`
	ScenarioAnalysis  *ScenarioAnalysis     `json:"scenario_analysis"`
	Metadata          InsightMetadata       `json:"metadata"`
}

// AnalyzeRequest - тело запроса на построение аналитики
type AnalyzeRequest struct {
	Profile      FinancialProfileRequest `json:"financial_profile"`
	Loan         LoanRequestInput        `json:"loan_request"`
	RunScenarios *bool                   `json:"run_scenarios"`
	Scenarios    []ScenarioName          `json:"scenarios"`
}

// QuickInsightResponse - однострочная сводка
type QuickInsightResponse struct {
	Insight            string  `json:"insight"`
	HealthScore        float64 `json:"health_score"`
	DefaultProbability float64 `json:"default_probability"`
}
