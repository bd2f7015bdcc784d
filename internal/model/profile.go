package model

// FinancialProfile - месячный финансовый профиль заемщика
type FinancialProfile struct {
	Income           float64 `json:"income" validate:"gt=0"`
	FixedExpenses    float64 `json:"fixed_expenses" validate:"gte=0"`
	VariableExpenses float64 `json:"variable_expenses" validate:"gte=0"`
	Savings          float64 `json:"savings" validate:"gte=0"`
	Debt             float64 `json:"debt" validate:"gte=0"`
}

// TotalExpenses возвращает сумму фиксированных и переменных расходов
func (p FinancialProfile) TotalExpenses() float64 {
	return p.FixedExpenses + p.VariableExpenses
}

// FinancialProfileRequest - входящий профиль; указатели позволяют отличить
// отсутствующее поле от нулевого значения
type FinancialProfileRequest struct {
	Income           *float64 `json:"income" validate:"required,gt=0"`
	FixedExpenses    *float64 `json:"fixed_expenses" validate:"required,gte=0"`
	VariableExpenses *float64 `json:"variable_expenses" validate:"required,gte=0"`
	Savings          *float64 `json:"savings" validate:"required,gte=0"`
	Debt             *float64 `json:"debt" validate:"required,gte=0"`
}

// ToProfile переводит провалидированный запрос в значение профиля
func (r FinancialProfileRequest) ToProfile() FinancialProfile {
	return FinancialProfile{
		Income:           deref(r.Income),
		FixedExpenses:    deref(r.FixedExpenses),
		VariableExpenses: deref(r.VariableExpenses),
		Savings:          deref(r.Savings),
		Debt:             deref(r.Debt),
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
