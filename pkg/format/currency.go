package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var rubPrinter = message.NewPrinter(language.Russian)

// Currency renders a rouble amount the way the storefront displays prices:
// grouped thousands, no fraction digits.
func Currency(amount decimal.Decimal) string {
	value, _ := amount.Round(0).Float64()
	return rubPrinter.Sprintf("%v ₽", number.Decimal(value, number.MaxFractionDigits(0)))
}
