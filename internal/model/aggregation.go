package model

// AggregationMaps - справочная статистика исторических займов для признаков модели
type AggregationMaps struct {
	ProvinceMeanLoan   map[string]float64 `json:"mean_loan_provinsi"`
	SectorMeanInterest map[string]float64 `json:"mean_interest_sector"`
}

func NewAggregationMaps() AggregationMaps {
	return AggregationMaps{
		ProvinceMeanLoan:   make(map[string]float64),
		SectorMeanInterest: make(map[string]float64),
	}
}
