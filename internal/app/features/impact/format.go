package impact

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// formatCount renders n with thousands separators: 12345 -> "12,345".
func formatCount(n int64) string {
	return printer.Sprintf("%d", n)
}

// formatAmount renders a donation total with two decimals: 1234.5 -> "1,234.50".
func formatAmount(v float64) string {
	return printer.Sprintf("%.2f", v)
}
