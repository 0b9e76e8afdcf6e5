package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"gullak/domain"
)

// LoanService backs the EMI calculator screens.
type LoanService struct {
	history *HistoryService
	log     *logrus.Logger
}

// NewLoanService creates a new LoanService recording into history.
func NewLoanService(history *HistoryService, log *logrus.Logger) *LoanService {
	return &LoanService{history: history, log: log}
}

// CalculateLoan validates the input and computes EMI, totals and, when asked,
// the month-by-month schedule.
func (s *LoanService) CalculateLoan(
	ctx context.Context,
	owner string,
	input domain.AmortizationInput,
) (domain.AmortizationResult, error) {

	if err := validateAmortizationInput(input); err != nil {
		return domain.AmortizationResult{}, err
	}

	result, err := Amortize(input.Principal, input.AnnualRatePercent, input.TenureYears)
	if err != nil {
		return domain.AmortizationResult{}, err
	}

	if input.IncludeSchedule {
		schedule, err := Schedule(input.Principal, input.AnnualRatePercent, input.TenureYears)
		if err != nil {
			return domain.AmortizationResult{}, err
		}
		result.Schedule = schedule
	}

	s.log.WithFields(logrus.Fields{
		"principal": input.Principal,
		"rate":      input.AnnualRatePercent,
		"years":     input.TenureYears,
		"emi":       result.MonthlyInstallment,
	}).Debug("emi calculated")

	s.history.Record(ctx, owner, "emi", input,
		fmt.Sprintf("EMI %.0f over %.1f years, interest %.0f",
			result.MonthlyInstallment, input.TenureYears, result.TotalInterest))

	return result, nil
}
