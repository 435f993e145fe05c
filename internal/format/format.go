// Package format превращает суммы в строки для отображения.
// Результат никогда не сохраняется и не участвует в расчётах.
package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

type scale struct {
	threshold decimal.Decimal
	suffix    string
}

// от большего к меньшему
var scales = []scale{
	{decimal.New(1, 9), "B"},
	{decimal.New(1, 6), "M"},
	{decimal.New(1, 3), "K"},
}

var thousand = decimal.NewFromInt(1000)

// Abbrev сокращает число до одного знака после запятой с суффиксом K/M/B.
// Округление везде half-up. Если округление дотягивает значение до 1000 в своём
// диапазоне, число переносится в следующий (999 950 -> "1.0M", а не "1000.0K").
// Значения меньше 1000 выводятся целым числом без суффикса.
func Abbrev(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Abs()
	}

	for i, s := range scales {
		if v.LessThan(s.threshold) {
			continue
		}
		q := v.Div(s.threshold).Round(1)
		suffix := s.suffix
		if q.GreaterThanOrEqual(thousand) && i > 0 {
			q = v.Div(scales[i-1].threshold).Round(1)
			suffix = scales[i-1].suffix
		}
		return sign + q.StringFixed(1) + suffix
	}

	r := v.Round(0)
	if r.GreaterThanOrEqual(thousand) {
		return sign + "1.0K"
	}
	if r.IsZero() {
		return "0"
	}
	return sign + r.StringFixed(0)
}

var printer = message.NewPrinter(language.English)

// Grouped выводит полное значение с разделителями тысяч (до двух знаков дробной части).
func Grouped(v decimal.Decimal) string {
	return printer.Sprint(number.Decimal(v.InexactFloat64(), number.MaxFractionDigits(2)))
}
