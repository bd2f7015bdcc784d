package service

import (
	"time"

	"health-finance-api/internal/model"
)

// Параметры импутации для заявок без данных о возврате
const (
	defaultReturnRatio        = 1.15
	defaultLenderRatio        = 0.95
	defaultProvinceMeanLoan   = 15_000_000.0
	defaultSectorMeanInterest = 0.15
)

var categoricalFeatures = []string{"status_peminjam", "jenis_jaminan", "pendidikan", "jenis_pinjaman"}

// features - собранные признаки одной заявки
type features struct {
	Numeric     map[string]float64
	Categorical map[string]string
}

func orUnknown(v string) string {
	if v == "" {
		return model.CollateralUnknown
	}
	return v
}

// buildFeatures собирает признаки модели: импутация, календарь, агрегаты по провинции и сектору
func buildFeatures(req model.LoanRequest, agg model.AggregationMaps, now time.Time) features {
	amount := req.Amount
	duration := float64(req.DurationDays)

	total := amount * defaultReturnRatio
	if req.TotalRepayment != nil {
		total = *req.TotalRepayment
	}
	lender := total * defaultLenderRatio
	if req.LenderRepaymentPortion != nil {
		lender = *req.LenderRepaymentPortion
	}

	date := now
	if req.DisbursementDate != nil {
		date = *req.DisbursementDate
	}
	// понедельник = 0
	dayOfWeek := (int(date.Weekday()) + 6) % 7
	weekend := 0.0
	if dayOfWeek >= 5 {
		weekend = 1
	}

	province := orUnknown(req.Province)
	sector := orUnknown(req.BusinessSector)

	provMean, ok := agg.ProvinceMeanLoan[province]
	if !ok {
		provMean = defaultProvinceMeanLoan
	}
	sectorInterest, ok := agg.SectorMeanInterest[sector]
	if !ok {
		sectorInterest = defaultSectorMeanInterest
	}

	interest := total - amount
	ratioInterest := safeDivide(interest, amount)

	return features{
		Numeric: map[string]float64{
			"jumlah_pinjaman":      amount,
			"durasi_hari":          duration,
			"total_pengembalian":   total,
			"bunga":                interest,
			"ratio_bunga":          ratioInterest,
			"ratio_lender":         safeDivide(lender, total),
			"month":                float64(date.Month()),
			"day":                  float64(date.Day()),
			"dayofweek":            float64(dayOfWeek),
			"is_weekend":           weekend,
			"mean_loan_provinsi":   provMean,
			"loan_vs_prov_mean":    safeDivide(amount, provMean),
			"mean_interest_sector": sectorInterest,
			"beban_per_hari":       total / (duration + 1),
			"debt_pressure":        ratioInterest * duration,
		},
		Categorical: map[string]string{
			"status_peminjam": orUnknown(req.BorrowerStatus),
			"jenis_jaminan":   orUnknown(req.Collateral),
			"pendidikan":      orUnknown(req.Education),
			"jenis_pinjaman":  orUnknown(req.LoanType),
		},
	}
}
