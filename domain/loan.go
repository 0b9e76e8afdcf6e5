package domain

// AmortizationInput describes a single fixed-rate loan for the EMI calculator.
type AmortizationInput struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	TenureYears       float64 `json:"tenureYears"`
	IncludeSchedule   bool    `json:"includeSchedule,omitempty"`
}

type AmortizationResult struct {
	MonthlyInstallment float64                `json:"monthlyInstallment"`
	TotalPayment       float64                `json:"totalPayment"`
	TotalInterest      float64                `json:"totalInterest"`
	Schedule           []InstallmentBreakdown `json:"schedule,omitempty"`
}

// InstallmentBreakdown is one month of a fixed amortization schedule.
type InstallmentBreakdown struct {
	Month            int     `json:"month"`
	Installment      float64 `json:"installment"`
	Interest         float64 `json:"interest"`
	Principal        float64 `json:"principal"`
	RemainingBalance float64 `json:"remainingBalance"`
}
