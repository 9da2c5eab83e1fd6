package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SizePosition returns how many spreads fit in RiskFraction of capital, never less than one.
func SizePosition(capital, width float64, r Rules) (int, error) {
	if capital < 0 {
		return 0, fmt.Errorf("%w: capital %.2f is negative", ErrInvalidInput, capital)
	}
	if width <= 0 {
		return 0, fmt.Errorf("%w: width %.2f must be positive", ErrInvalidInput, width)
	}
	return r.contracts(capital, width), nil
}

// contracts assumes validated inputs.
func (r Rules) contracts(capital, width float64) int {
	budget := decimal.NewFromFloat(capital).Mul(decimal.NewFromFloat(r.RiskFraction))
	perSpread := decimal.NewFromFloat(width).Mul(decimal.NewFromFloat(r.ContractMultiplier))
	n := budget.Div(perSpread).Floor().IntPart()
	if n < 1 {
		return 1
	}
	return int(n)
}
