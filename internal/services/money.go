package services

import "github.com/shopspring/decimal"

var (
	sixty = decimal.NewFromInt(60)
	Zero  = decimal.Zero
)

// RoundCents rounds half away from zero, which is half-up for the
// non-negative amounts this package deals with.
func RoundCents(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

func MinutesToHours(minutes int64) decimal.Decimal {
	return RoundCents(decimal.NewFromInt(minutes).Div(sixty))
}

// EntryAmount prices a number of minutes at an hourly rate, rounded to cents.
func EntryAmount(minutes int, rate decimal.Decimal) decimal.Decimal {
	return RoundCents(rate.Mul(decimal.NewFromInt(int64(minutes))).Div(sixty))
}

// FormatMoney renders a fixed two-decimal string.
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
