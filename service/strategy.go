package service

import (
	"fmt"
	"sort"

	"gullak/domain"
)

// Strategy decides which active loan receives the extra payment each month.
type Strategy string

const (
	Avalanche Strategy = "avalanche" // highest rate first
	Snowball  Strategy = "snowball"  // smallest balance first
)

// ParseStrategy maps a request value to a Strategy. Empty means avalanche.
func ParseStrategy(value string) (Strategy, error) {
	switch Strategy(value) {
	case "", Avalanche:
		return Avalanche, nil
	case Snowball:
		return Snowball, nil
	}
	return "", fmt.Errorf("%w: unknown strategy %q", ErrInvalidInput, value)
}

// order returns loan indices in priority order. The order is fixed for the
// whole run and ties keep input order.
func (s Strategy) order(loans []domain.Loan) []int {
	idx := make([]int, len(loans))
	for i := range idx {
		idx[i] = i
	}

	var less func(a, b domain.Loan) bool
	switch s {
	case Snowball:
		less = func(a, b domain.Loan) bool { return a.OutstandingBalance < b.OutstandingBalance }
	default:
		less = func(a, b domain.Loan) bool { return a.AnnualRatePercent > b.AnnualRatePercent }
	}

	sort.SliceStable(idx, func(i, j int) bool {
		return less(loans[idx[i]], loans[idx[j]])
	})
	return idx
}
