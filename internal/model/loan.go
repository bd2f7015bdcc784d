package model

import "time"

// Значения залога, которые означают кредит без обеспечения
const (
	CollateralNone    = "Tanpa Jaminan"
	CollateralUnknown = "Unknown"
)

// LoanRequest - заявка на кредит в формате кредитной платформы
type LoanRequest struct {
	Amount                 float64    `json:"jumlah_pinjaman" validate:"gt=0"`
	DurationDays           int        `json:"durasi_hari" validate:"gt=0"`
	LoanType               string     `json:"jenis_pinjaman" validate:"required"`
	Province               string     `json:"provinsi,omitempty"`
	BorrowerStatus         string     `json:"status_peminjam,omitempty"`
	BusinessSector         string     `json:"sektor_usaha,omitempty"`
	Education              string     `json:"pendidikan,omitempty"`
	Collateral             string     `json:"jenis_jaminan,omitempty"`
	DisbursementDate       *time.Time `json:"tanggal_pencairan,omitempty"`
	TotalRepayment         *float64   `json:"total_pengembalian,omitempty"`
	LenderRepaymentPortion *float64   `json:"porsi_pengembalian_lender,omitempty"`
}

// Unsecured сообщает, что по заявке нет залога
func (r LoanRequest) Unsecured() bool {
	switch r.Collateral {
	case "", CollateralUnknown, CollateralNone:
		return true
	}
	return false
}

// LoanRequestInput - входящая заявка с обязательными полями в виде указателей
type LoanRequestInput struct {
	Amount                 *float64   `json:"jumlah_pinjaman" validate:"required,gt=0"`
	DurationDays           *int       `json:"durasi_hari" validate:"required,gt=0"`
	LoanType               *string    `json:"jenis_pinjaman" validate:"required"`
	Province               string     `json:"provinsi"`
	BorrowerStatus         string     `json:"status_peminjam"`
	BusinessSector         string     `json:"sektor_usaha"`
	Education              string     `json:"pendidikan"`
	Collateral             string     `json:"jenis_jaminan"`
	DisbursementDate       *time.Time `json:"tanggal_pencairan"`
	TotalRepayment         *float64   `json:"total_pengembalian"`
	LenderRepaymentPortion *float64   `json:"porsi_pengembalian_lender"`
}

// ToRequest переводит провалидированный ввод в значение заявки
func (in LoanRequestInput) ToRequest() LoanRequest {
	req := LoanRequest{
		Province:               in.Province,
		BorrowerStatus:         in.BorrowerStatus,
		BusinessSector:         in.BusinessSector,
		Education:              in.Education,
		Collateral:             in.Collateral,
		DisbursementDate:       in.DisbursementDate,
		TotalRepayment:         in.TotalRepayment,
		LenderRepaymentPortion: in.LenderRepaymentPortion,
	}
	if in.Amount != nil {
		req.Amount = *in.Amount
	}
	if in.DurationDays != nil {
		req.DurationDays = *in.DurationDays
	}
	if in.LoanType != nil {
		req.LoanType = *in.LoanType
	}
	return req
}
