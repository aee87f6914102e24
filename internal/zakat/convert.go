package zakat

import "math"

// Convert turns an amount in a foreign currency into the base currency at the
// supplied rate (base-currency units per unit of the foreign currency).
// Negative or non-finite inputs are rejected; zero is allowed and yields zero.
// The result keeps full float precision: rounding happens at presentation
// time only, never at storage time, so repeated aggregation cannot compound
// rounding error.
func Convert(amount, exchangeRate float64) (float64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrAmountNotFinite
	}
	if math.IsNaN(exchangeRate) || math.IsInf(exchangeRate, 0) {
		return 0, ErrRateNotFinite
	}
	if amount < 0 {
		return 0, ErrNegativeAmount
	}
	if exchangeRate < 0 {
		return 0, ErrNegativeRate
	}
	return amount * exchangeRate, nil
}
