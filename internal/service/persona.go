package service

import "health-finance-api/internal/model"

const (
	PersonaConservativeSaver     = "Conservative Saver"
	PersonaStableBalanced        = "Stable & Balanced"
	PersonaHighEarnerHighSpender = "High Earner - High Spender"
	PersonaDebtPressured         = "Debt Pressured"
	PersonaCashflowChallenged    = "Cashflow Challenged"
	PersonaBuildingFoundation    = "Building Financial Foundation"
	PersonaFrugalLowSavings      = "Frugal & Low Savings"
	PersonaNeedsExpenseOpt       = "Needs Expense Optimization"
	PersonaGeneral               = "General Financial Profile"
)

// AssignPersona присваивает персону по детерминированным правилам; первое совпадение выигрывает
func AssignPersona(m model.HealthMetrics) string {
	dti := m.DebtToIncomeRatio
	expense := m.ExpenseRatio
	savings := m.SavingsRatio
	disposable := m.DisposableIncomeRatio

	switch {
	case dti < 1.0 && expense < 0.60 && savings >= 6.0:
		return PersonaConservativeSaver
	case dti < 3.0 && expense < 0.75 && savings >= 3.0 && disposable >= 0.15:
		return PersonaStableBalanced
	case dti < 2.0 && expense >= 0.70 && savings >= 2.0:
		return PersonaHighEarnerHighSpender
	case dti >= 6.0:
		return PersonaDebtPressured
	case disposable <= 0.05:
		return PersonaCashflowChallenged
	case savings < 3.0 && expense < 0.75 && disposable >= 0.10:
		return PersonaBuildingFoundation
	case expense < 0.50 && savings < 2.0:
		return PersonaFrugalLowSavings
	case expense >= 0.85 && dti < 6.0:
		return PersonaNeedsExpenseOpt
	}
	return PersonaGeneral
}

var personaDescriptions = map[string]string{
	PersonaConservativeSaver:     "Very conservative finances with low debt, efficient spending and a strong emergency fund.",
	PersonaStableBalanced:        "Balanced finances with controlled debt, moderate spending and adequate savings.",
	PersonaHighEarnerHighSpender: "High income with a high spending pattern, while still maintaining savings.",
	PersonaDebtPressured:         "Debt burden is high relative to income; paying down debt should be the focus.",
	PersonaCashflowChallenged:    "Facing cashflow challenges with very limited or negative disposable income.",
	PersonaBuildingFoundation:    "Building a financial foundation with a focus on accumulating savings.",
	PersonaFrugalLowSavings:      "Frugal lifestyle but savings are not yet adequate.",
	PersonaNeedsExpenseOpt:       "Spending needs to be optimized to improve financial health.",
	PersonaGeneral:               "General financial profile without a distinctive pattern.",
}

func PersonaDescription(persona string) string {
	if d, ok := personaDescriptions[persona]; ok {
		return d
	}
	return "Financial profile that needs further evaluation."
}

var personaInsights = map[string]model.PersonaInsights{
	PersonaConservativeSaver: {
		Strengths:  []string{"Disciplined saving", "Low debt", "Controlled spending"},
		FocusAreas: []string{"Consider investing to optimize returns", "Maintain current habits"},
	},
	PersonaStableBalanced: {
		Strengths:  []string{"Balanced finances", "Adequate savings", "Healthy cashflow"},
		FocusAreas: []string{"Raise the savings ratio gradually", "Monitor debt levels"},
	},
	PersonaHighEarnerHighSpender: {
		Strengths:  []string{"High income", "Able to maintain savings"},
		FocusAreas: []string{"Evaluate spending efficiency", "Optimize the savings rate"},
	},
	PersonaDebtPressured: {
		Strengths:  []string{"Awareness of the financial situation"},
		FocusAreas: []string{"Priority: pay down debt", "Re-evaluate new debt commitments"},
	},
	PersonaCashflowChallenged: {
		Strengths:  []string{"Awareness of the challenges"},
		FocusAreas: []string{"Urgent: raise income or cut expenses", "Review all expenses"},
	},
	PersonaBuildingFoundation: {
		Strengths:  []string{"Controlled spending", "Positive cashflow"},
		FocusAreas: []string{"Accelerate building the emergency fund", "Maintain expense discipline"},
	},
	PersonaFrugalLowSavings: {
		Strengths:  []string{"Frugal lifestyle", "Low spending"},
		FocusAreas: []string{"Look for ways to raise income", "Allocate surplus to savings"},
	},
	PersonaNeedsExpenseOpt: {
		Strengths:  []string{"Debt is still under control"},
		FocusAreas: []string{"Review and cut non-essential spending", "Set a strict budget"},
	},
	PersonaGeneral: {
		Strengths:  []string{"Neutral financial condition"},
		FocusAreas: []string{"Identify specific areas to improve", "Set clear financial goals"},
	},
}

// PersonaInsights возвращает копию сильных сторон и зон внимания персоны
func PersonaInsights(persona string) model.PersonaInsights {
	in, ok := personaInsights[persona]
	if !ok {
		return model.PersonaInsights{
			Strengths:  []string{"Needs in-depth evaluation"},
			FocusAreas: []string{"Consult a financial advisor"},
		}
	}
	return model.PersonaInsights{
		Strengths:  append([]string(nil), in.Strengths...),
		FocusAreas: append([]string(nil), in.FocusAreas...),
	}
}
