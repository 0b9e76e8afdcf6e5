package domain

import "time"

// Portfolio is the saved state of a user's debt planner screen.
type Portfolio struct {
	Owner               string    `json:"owner"`
	Loans               []Loan    `json:"loans"`
	MonthlyIncome       float64   `json:"monthlyIncome"`
	LivingExpenses      float64   `json:"livingExpenses"`
	MonthlyExtraPayment float64   `json:"monthlyExtraPayment"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// HistoryEntry is one recorded calculation.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Kind      string    `json:"kind"` // "emi", "payoff", "compare", "tenure"
	Query     string    `json:"query"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
}
