package service

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"gullak/domain"
)

// roundCurrency rounds to the nearest whole currency unit, halves away from zero.
func roundCurrency(value float64) float64 {
	return decimal.NewFromFloat(value).Round(0).InexactFloat64()
}

func tenureMonths(tenureYears float64) (float64, error) {
	if math.IsNaN(tenureYears) || math.IsInf(tenureYears, 0) {
		return 0, ErrInvalidTenure
	}
	months := tenureYears * 12
	if months < 1 {
		return 0, ErrInvalidTenure
	}
	return months, nil
}

// MonthlyInstallment returns the fixed EMI for a loan:
//
//	r   = annualRatePercent / 12 / 100
//	EMI = P * r * (1+r)^n / ((1+r)^n - 1)
//
// rounded to the nearest whole currency unit. A zero rate splits the
// principal evenly over the tenure.
func MonthlyInstallment(principal, annualRatePercent, tenureYears float64) (float64, error) {
	n, err := tenureMonths(tenureYears)
	if err != nil {
		return 0, err
	}

	monthlyRate := annualRatePercent / 12 / 100
	if monthlyRate == 0 {
		return roundCurrency(principal / n), nil
	}

	factor := math.Pow(1+monthlyRate, n)
	return roundCurrency(principal * monthlyRate * factor / (factor - 1)), nil
}

// Totals returns the total paid over the tenure and the interest component of it.
func Totals(monthlyInstallment, principal, tenureYears float64) (totalPayment, totalInterest float64) {
	totalPayment = monthlyInstallment * tenureYears * 12
	totalInterest = totalPayment - principal
	return totalPayment, totalInterest
}

// Amortize computes the installment and totals for a single fixed-rate loan.
func Amortize(principal, annualRatePercent, tenureYears float64) (domain.AmortizationResult, error) {
	emi, err := MonthlyInstallment(principal, annualRatePercent, tenureYears)
	if err != nil {
		return domain.AmortizationResult{}, err
	}
	total, interest := Totals(emi, principal, tenureYears)
	return domain.AmortizationResult{
		MonthlyInstallment: emi,
		TotalPayment:       total,
		TotalInterest:      interest,
	}, nil
}

// Schedule splits every installment of a fixed-rate loan into interest and
// principal. Interest is rounded to two decimals per month and the last
// installment absorbs the rounding so the balance closes at exactly zero.
func Schedule(principal, annualRatePercent, tenureYears float64) ([]domain.InstallmentBreakdown, error) {
	n, err := tenureMonths(tenureYears)
	if err != nil {
		return nil, err
	}
	emi, err := MonthlyInstallment(principal, annualRatePercent, tenureYears)
	if err != nil {
		return nil, err
	}

	months := int(math.Ceil(n))
	if months > MaxTenureYears*12 {
		return nil, fmt.Errorf("%w: schedule longer than %d months", ErrInvalidInput, MaxTenureYears*12)
	}

	rate := decimal.NewFromFloat(annualRatePercent).Div(decimal.NewFromInt(1200))
	installment := decimal.NewFromFloat(emi)
	remaining := decimal.NewFromFloat(principal)

	schedule := make([]domain.InstallmentBreakdown, 0, months)
	for month := 1; month <= months && remaining.IsPositive(); month++ {
		interest := remaining.Mul(rate).Round(2)
		principalPart := installment.Sub(interest)
		if principalPart.IsNegative() {
			principalPart = decimal.Zero
		}
		if month == months || principalPart.GreaterThan(remaining) {
			principalPart = remaining
		}
		remaining = remaining.Sub(principalPart)

		schedule = append(schedule, domain.InstallmentBreakdown{
			Month:            month,
			Installment:      principalPart.Add(interest).InexactFloat64(),
			Interest:         interest.InexactFloat64(),
			Principal:        principalPart.InexactFloat64(),
			RemainingBalance: remaining.InexactFloat64(),
		})
	}
	return schedule, nil
}
