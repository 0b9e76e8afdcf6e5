package service

import (
	"fmt"
	"math"

	"gullak/domain"
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}

func validateAmortizationInput(input domain.AmortizationInput) error {
	if !finite(input.Principal) || input.Principal < 0 {
		return invalid("principal must be a non-negative number")
	}
	if input.Principal > MaxPrincipal {
		return invalid("principal exceeds the maximum of %.0f", MaxPrincipal)
	}
	if !finite(input.AnnualRatePercent) || input.AnnualRatePercent < 0 {
		return invalid("annual rate must be a non-negative number")
	}
	if input.AnnualRatePercent > MaxInterestRate {
		return invalid("annual rate exceeds the maximum of %.0f%%", MaxInterestRate)
	}
	if input.TenureYears > MaxTenureYears {
		return invalid("tenure exceeds the maximum of %d years", MaxTenureYears)
	}
	return nil
}

// validateLoans checks a portfolio. An EMI of zero is allowed as a
// placeholder for a loan that is still being entered.
func validateLoans(loans []domain.Loan) error {
	if len(loans) == 0 {
		return invalid("no loans provided")
	}
	if len(loans) > MaxLoansPerRequest {
		return invalid("number of loans exceeds the maximum of %d", MaxLoansPerRequest)
	}

	ids := make(map[string]bool, len(loans))
	for i, l := range loans {
		label := l.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		if l.ID != "" {
			if ids[l.ID] {
				return invalid("duplicate loan id %q", l.ID)
			}
			ids[l.ID] = true
		}
		if !finite(l.OutstandingBalance) || l.OutstandingBalance < 0 {
			return invalid("loan %s: balance must be a non-negative number", label)
		}
		if l.OutstandingBalance > MaxPrincipal {
			return invalid("loan %s: balance exceeds the maximum of %.0f", label, MaxPrincipal)
		}
		if !finite(l.AnnualRatePercent) || l.AnnualRatePercent < 0 || l.AnnualRatePercent > MaxInterestRate {
			return invalid("loan %s: annual rate must be between 0 and %.0f", label, MaxInterestRate)
		}
		if !finite(l.MonthlyPayment) || l.MonthlyPayment < 0 {
			return invalid("loan %s: monthly payment must be a non-negative number", label)
		}
	}
	return nil
}

func validatePayoffInput(input domain.PayoffInput) error {
	if err := validateLoans(input.Loans); err != nil {
		return err
	}
	if !finite(input.MonthlyExtraPayment) || input.MonthlyExtraPayment < 0 {
		return invalid("monthly extra payment must be a non-negative number")
	}
	if !finite(input.MonthlyIncome) || input.MonthlyIncome < 0 {
		return invalid("monthly income must be a non-negative number")
	}
	if !finite(input.LivingExpenses) || input.LivingExpenses < 0 {
		return invalid("living expenses must be a non-negative number")
	}
	return nil
}
