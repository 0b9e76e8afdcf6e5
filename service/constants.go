package service

import "time"

const (
	MaxPrincipal       = 1_000_000_000.0
	MaxInterestRate    = 1000.0 // percent per year
	MaxTenureYears     = 60
	MaxLoansPerRequest = 50

	// DefaultMaxMonths caps every projection at 30 years.
	DefaultMaxMonths = 360
	// PaidOffEpsilon is the balance at or below which a loan counts as retired.
	PaidOffEpsilon = 10.0

	// Tenure recommendation evaluates at most this many whole years.
	MaxTenureRangeYears = 40

	HistoryPageSize = 20
	DefaultCacheTTL = 10 * time.Minute
)
