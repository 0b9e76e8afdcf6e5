package domain

// Loan is one entry of a debt portfolio as entered by the user.
type Loan struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	MonthlyPayment     float64 `json:"monthlyPayment"`
	AnnualRatePercent  float64 `json:"annualRatePercent"`
	OutstandingBalance float64 `json:"outstandingBalance"`
}

type PayoffInput struct {
	Loans               []Loan  `json:"loans"`
	MonthlyExtraPayment float64 `json:"monthlyExtraPayment"`
	MonthlyIncome       float64 `json:"monthlyIncome,omitempty"`
	LivingExpenses      float64 `json:"livingExpenses,omitempty"`
	Strategy            string  `json:"strategy,omitempty"` // "avalanche" (default) or "snowball"
}

// PayoffEvent records the month a loan was retired.
type PayoffEvent struct {
	Month          int    `json:"month"`
	LoanName       string `json:"loanName"`
	Year           int    `json:"year"`
	MonthRemainder int    `json:"monthRemainder"`
}

// MonthSnapshot summarizes one simulated month.
type MonthSnapshot struct {
	Month          int     `json:"month"`
	PriorityLoan   string  `json:"priorityLoan"`
	AvailableExtra float64 `json:"availableExtra"`
	Interest       float64 `json:"interest"`
	TotalBalance   float64 `json:"totalBalance"`
}

type ProjectionResult struct {
	Timeline             []PayoffEvent   `json:"timeline"`
	TotalInterestAccrued float64         `json:"totalInterestAccrued"`
	TotalDurationMonths  int             `json:"totalDurationMonths"`
	Amortizes            bool            `json:"amortizes"`
	Schedule             []MonthSnapshot `json:"schedule,omitempty"`
}

type DebtStats struct {
	TotalMonthlyEMI   float64 `json:"totalMonthlyEmi"`
	TotalDebt         float64 `json:"totalDebt"`
	MonthlyBalance    float64 `json:"monthlyBalance"`
	DebtToIncomeRatio float64 `json:"debtToIncomeRatio"`
}

// Suggestions are derived from the static loan list, not from a simulation.
type Suggestions struct {
	AvalancheTarget *Loan     `json:"avalancheTarget,omitempty"`
	SnowballTarget  *Loan     `json:"snowballTarget,omitempty"`
	Stats           DebtStats `json:"stats"`
}

type OptimizationSummary struct {
	Strategy      string           `json:"strategy"`
	Baseline      ProjectionResult `json:"baseline"`
	Optimized     ProjectionResult `json:"optimized"`
	InterestSaved float64          `json:"interestSaved"`
	MonthsSaved   int              `json:"monthsSaved"`
	Suggestions   Suggestions      `json:"suggestions"`
	Explanation   string           `json:"explanation,omitempty"`
}

type StrategyResult struct {
	Strategy             string        `json:"strategy"`
	TotalInterestAccrued float64       `json:"totalInterestAccrued"`
	TotalDurationMonths  int           `json:"totalDurationMonths"`
	Timeline             []PayoffEvent `json:"timeline"`
}

// StrategyComparison runs both prioritization rules on the same portfolio.
type StrategyComparison struct {
	Avalanche     StrategyResult `json:"avalanche"`
	Snowball      StrategyResult `json:"snowball"`
	Recommended   string         `json:"recommended"`
	InterestSaved float64        `json:"interestSaved"`
	MonthsSaved   int            `json:"monthsSaved"`
	Explanation   string         `json:"explanation,omitempty"`
}
