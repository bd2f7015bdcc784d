package service

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

// formatRupiah форматирует сумму с разделителями тысяч: "Rp 50,000,000"
func formatRupiah(amount float64) string {
	return amountPrinter.Sprintf("Rp %.0f", amount)
}
