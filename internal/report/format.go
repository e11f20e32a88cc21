package report

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatUSD renders d as whole dollars with thousands separators, e.g. "$1,240,500".
func FormatUSD(d decimal.Decimal) string {
	printer := message.NewPrinter(language.AmericanEnglish)
	dollars := d.Round(0).IntPart()
	if dollars < 0 {
		return printer.Sprintf("-$%d", -dollars)
	}
	return printer.Sprintf("$%d", dollars)
}

// FormatPct renders a percentage with one decimal place, e.g. "116.3%".
func FormatPct(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}

// FormatMultiple renders a return multiple, e.g. "1.21x".
func FormatMultiple(d decimal.Decimal) string {
	return d.StringFixed(2) + "x"
}
