package service

import (
	"fmt"
	"sort"

	"health-finance-api/internal/model"
)

const (
	maxQuickWins       = 5
	maxPhaseItems      = 3
	maxTopPriorities   = 3
	scenarioImpactGate = 5.0
)

// SynthesizeRecommendations строит рекомендации по здоровью и по займу и объединяет их в план действий.
// Рекомендации носят совещательный характер.
func SynthesizeRecommendations(
	health *model.HealthResult,
	loan *model.PredictionResult,
	req model.LoanRequest,
	scenarios *model.ScenarioAnalysis,
) *model.RecommendationPackage {
	all := healthRecommendations(health)
	all = append(all, loanRecommendations(loan, req, scenarios)...)
	sortByPriority(all)

	quickWins, plan := planActions(all)
	pkg := &model.RecommendationPackage{
		TotalRecommendations: len(all),
		AllRecommendations:   all,
		QuickWins:            quickWins,
		ActionPlan:           plan,
	}

	for _, r := range all {
		switch r.Priority {
		case model.PriorityCritical:
			pkg.ByPriority.Critical++
		case model.PriorityHigh:
			pkg.ByPriority.High++
		case model.PriorityMedium:
			pkg.ByPriority.Medium++
		default:
			pkg.ByPriority.Low++
		}
	}

	top := len(all)
	if top > maxTopPriorities {
		top = maxTopPriorities
	}
	pkg.Top3Priorities = append([]model.Recommendation{}, all[:top]...)

	switch {
	case pkg.ByPriority.Critical > 0:
		pkg.Summary = fmt.Sprintf("URGENT: %d critical actions required. Focus on fixing cashflow and debt management.", pkg.ByPriority.Critical)
	case pkg.ByPriority.High > 0:
		pkg.Summary = fmt.Sprintf("%d high-priority actions. Focus on optimizing the loan structure and expenses.", pkg.ByPriority.High)
	default:
		pkg.Summary = "Profile is relatively good. Focus on optimization and long-term growth."
	}

	return pkg
}

// planActions раскладывает отсортированные рекомендации по quick wins и этапам плана с ограничением размера
func planActions(sorted []model.Recommendation) ([]model.Recommendation, model.ActionPlan) {
	quickWins := []model.Recommendation{}
	plan := model.ActionPlan{
		Phase1Immediate: []model.Recommendation{},
		Phase2ShortTerm: []model.Recommendation{},
		Phase3LongTerm:  []model.Recommendation{},
	}

	for _, r := range sorted {
		urgent := r.Priority == model.PriorityCritical || r.Priority == model.PriorityHigh
		if urgent && r.Phases.Has(model.PhaseImmediate|model.PhaseShortTerm) && len(quickWins) < maxQuickWins {
			quickWins = append(quickWins, r)
		}
		if r.Phases.Has(model.PhaseImmediate) && len(plan.Phase1Immediate) < maxPhaseItems {
			plan.Phase1Immediate = append(plan.Phase1Immediate, r)
		}
		if r.Phases.Has(model.PhaseShortTerm) && len(plan.Phase2ShortTerm) < maxPhaseItems {
			plan.Phase2ShortTerm = append(plan.Phase2ShortTerm, r)
		}
		if r.Phases.Has(model.PhaseLongTerm) && len(plan.Phase3LongTerm) < maxPhaseItems {
			plan.Phase3LongTerm = append(plan.Phase3LongTerm, r)
		}
	}
	return quickWins, plan
}

func sortByPriority(recs []model.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Rank() < recs[j].Priority.Rank()
	})
}

func healthRecommendations(health *model.HealthResult) []model.Recommendation {
	recs := []model.Recommendation{}
	m := health.Metrics

	if health.HasFlag(model.RiskFlagHighDebtBurden) {
		recs = append(recs, model.Recommendation{
			Category: "Debt Management",
			Priority: model.PriorityHigh,
			Action:   "Focus on Paying Down Debt",
			Detail:   fmt.Sprintf("Current DTI ratio is %.2fx. Target: < 3.0x", m.DebtToIncomeRatio),
			Steps: []string{
				"Prioritize paying off the highest-interest debt",
				"Consider debt consolidation",
				"Avoid taking on new debt",
				"Target at least a 30% debt reduction",
			},
			ExpectedImpact: "Lowers the monthly burden and raises the health score by 15-25 points",
			Timeframe:      "6-12 months",
			Phases:         model.PhaseLongTerm,
		})
	}

	if health.HasFlag(model.RiskFlagExcessiveExpenses) {
		recs = append(recs, model.Recommendation{
			Category: "Expense Optimization",
			Priority: model.PriorityHigh,
			Action:   "Cut Non-Essential Spending",
			Detail:   fmt.Sprintf("Expense ratio is %.1f%%. Target: < 70%%", m.ExpenseRatio*100),
			Steps: []string{
				"Review and categorize all expenses",
				"Identify the 3 largest spending areas",
				"Target a 10-15% cut in variable expenses",
				"Apply a strict budget for the first 3 months",
			},
			ExpectedImpact: "Raises disposable income and the health score by 10-20 points",
			Timeframe:      "3-6 months",
			Phases:         model.PhaseShortTerm,
		})
	}

	if health.HasFlag(model.RiskFlagInsufficientSavings) {
		recs = append(recs, model.Recommendation{
			Category: "Savings Building",
			Priority: model.PriorityMedium,
			Action:   "Build an Emergency Fund",
			Detail:   fmt.Sprintf("Savings ratio is %.1f months. Target: at least 3-6 months", m.SavingsRatio),
			Steps: []string{
				"Set up an automatic transfer of 10-15% of income to savings",
				"Keep the emergency fund in a separate account",
				"Target: accumulate 3 months of income within 12 months",
				"Use windfalls such as bonuses to accelerate savings",
			},
			ExpectedImpact: "Improves resilience and raises the health score by 10-15 points",
			Timeframe:      "12-18 months",
			Phases:         model.PhaseLongTerm,
		})
	}

	if health.HasFlag(model.RiskFlagNegativeCashflow) {
		recs = append(recs, model.Recommendation{
			Category: "Cashflow Management",
			Priority: model.PriorityCritical,
			Action:   "URGENT: Fix Negative Cashflow",
			Detail:   "Expenses exceed income and this is not sustainable",
			Steps: []string{
				"IMMEDIATE: stop all non-essential spending",
				"Find additional income sources (side work, overtime)",
				"Renegotiate fixed costs (rent, utilities)",
				"Consider a temporary lifestyle downgrade",
			},
			ExpectedImpact: "Critical for financial survival",
			Timeframe:      "Immediate (1-3 months)",
			Phases:         model.PhaseImmediate | model.PhaseShortTerm,
		})
	}

	if health.Score >= 50 && health.Score < 75 {
		recs = append(recs, model.Recommendation{
			Category: "General Improvement",
			Priority: model.PriorityMedium,
			Action:   "Optimize Financial Profile",
			Detail:   "Health score is fair but there is room for improvement",
			Steps: []string{
				"Raise the savings rate gradually",
				"Diversify income sources",
				"Review insurance coverage",
				"Start long-term financial planning",
			},
			ExpectedImpact: `Moves the health score into the "Healthy" band (>75)`,
			Timeframe:      "6-12 months",
			Phases:         model.PhaseLongTerm,
		})
	}

	sortByPriority(recs)
	return recs
}

func loanRecommendations(loan *model.PredictionResult, req model.LoanRequest, scenarios *model.ScenarioAnalysis) []model.Recommendation {
	recs := []model.Recommendation{}
	prob := loan.DefaultProbability

	switch {
	case prob > 0.6:
		recs = append(recs, model.Recommendation{
			Category: "Loan Structure",
			Priority: model.PriorityCritical,
			Action:   "URGENT: Restructure Loan",
			Detail:   fmt.Sprintf("Default probability of %.1f%% is very high", prob*100),
			Steps: []string{
				"Consider POSTPONING the loan application",
				"Improve financial health first",
				"If urgent: reduce the loan amount by at least 25-30%",
				"Or extend the tenor to lower the burden per period",
			},
			ExpectedImpact: "Reduces default probability by 15-25%",
			Timeframe:      "Immediate",
			Phases:         model.PhaseImmediate,
		})
	case prob > 0.4:
		recs = append(recs, model.Recommendation{
			Category: "Loan Structure",
			Priority: model.PriorityHigh,
			Action:   "Optimize Loan Parameters",
			Detail:   fmt.Sprintf("Default probability of %.1f%% is fairly high", prob*100),
			Steps: []string{
				"Reduce the loan amount by 15-20% if possible",
				"Extend the duration to lower the monthly burden",
				"Increase the down payment if available",
				"Consider additional collateral",
			},
			ExpectedImpact: "Reduces default probability by 10-15%",
			Timeframe:      "1-2 months",
		})
	}

	if scenarios != nil && scenarios.BestScenario != nil && scenarios.BestScenario.ImpactScore > scenarioImpactGate {
		best := scenarios.BestScenario
		recs = append(recs, model.Recommendation{
			Category: "Scenario-Based",
			Priority: model.PriorityHigh,
			Action:   "Implement: " + best.Scenario,
			Detail:   "Change: " + best.Change,
			Steps: []string{
				fmt.Sprintf("Scenario analysis shows %s is the most effective", best.Scenario),
				fmt.Sprintf("Expected improvement: %.1f points", best.ImpactScore),
				"Follow the scenario-specific steps",
			},
			ExpectedImpact: fmt.Sprintf("Impact score: %.1f", best.ImpactScore),
			Timeframe:      "As per scenario",
		})
	}

	if req.Unsecured() {
		recs = append(recs, model.Recommendation{
			Category: "Risk Mitigation",
			Priority: model.PriorityMedium,
			Action:   "Consider Adding Collateral",
			Detail:   "Loans without collateral carry higher risk",
			Steps: []string{
				"Evaluate assets that could be pledged as collateral",
				"Collateral can lower the risk assessment",
				"Potentially better terms and lower rates",
			},
			ExpectedImpact: "Moderate risk reduction",
			Timeframe:      "1-2 months",
		})
	}

	return recs
}
