// README: Common money value object used across modules.
package types

import "math"

// Money is an amount in minor units (cents).
type Money struct {
	Amount   int64
	Currency string
}

// MoneyFromFloat rounds a major-unit amount to the nearest cent.
func MoneyFromFloat(v float64, currency string) Money {
	return Money{Amount: int64(math.Round(v * 100)), Currency: currency}
}

func (m Money) Float() float64 {
	return float64(m.Amount) / 100
}
