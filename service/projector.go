package service

import "gullak/domain"

// Projector simulates a loan portfolio month by month. A zero value is not
// usable; build one with NewProjector.
type Projector struct {
	MaxMonths int
	Epsilon   float64
	Strategy  Strategy
}

func NewProjector(strategy Strategy) *Projector {
	return &Projector{
		MaxMonths: DefaultMaxMonths,
		Epsilon:   PaidOffEpsilon,
		Strategy:  strategy,
	}
}

type workingLoan struct {
	name    string
	rate    float64
	emi     float64
	balance float64
}

func (p *Projector) active(loans []workingLoan) bool {
	for _, l := range loans {
		if l.balance > p.Epsilon {
			return true
		}
	}
	return false
}

// Run projects the portfolio with a fixed monthly extra payment. Every month
// the extra pool goes to the first active loan in strategy order. A retired
// loan's EMI joins the pool from the following month. The run stops when
// every loan is retired or after MaxMonths.
func (p *Projector) Run(loans []domain.Loan, extra float64) domain.ProjectionResult {
	working := make([]workingLoan, 0, len(loans))
	for _, i := range p.Strategy.order(loans) {
		working = append(working, workingLoan{
			name:    loans[i].Name,
			rate:    loans[i].AnnualRatePercent,
			emi:     loans[i].MonthlyPayment,
			balance: loans[i].OutstandingBalance,
		})
	}

	result := domain.ProjectionResult{Timeline: []domain.PayoffEvent{}}
	available := extra
	month := 0

	for month < p.MaxMonths && p.active(working) {
		month++

		priority := -1
		for i := range working {
			if working[i].balance > p.Epsilon {
				priority = i
				break
			}
		}

		snapshot := domain.MonthSnapshot{
			Month:          month,
			PriorityLoan:   working[priority].name,
			AvailableExtra: available,
		}

		freed := 0.0
		for i := range working {
			l := &working[i]
			if l.balance <= p.Epsilon {
				continue
			}

			interest := l.balance * (l.rate / 100 / 12)
			result.TotalInterestAccrued += interest
			snapshot.Interest += interest

			pay := l.emi
			if i == priority {
				pay += available
			}

			reduction := pay - interest
			if reduction < 0 {
				reduction = 0
			}
			if reduction > l.balance {
				reduction = l.balance
			}
			l.balance -= reduction

			if l.balance <= p.Epsilon {
				l.balance = 0
				result.Timeline = append(result.Timeline, domain.PayoffEvent{
					Month:          month,
					LoanName:       l.name,
					Year:           month / 12,
					MonthRemainder: month % 12,
				})
				freed += l.emi
			}
		}
		// Freed EMIs only reach the pool once the whole month is settled.
		available += freed

		for _, l := range working {
			snapshot.TotalBalance += l.balance
		}
		result.Schedule = append(result.Schedule, snapshot)
	}

	result.TotalDurationMonths = month
	result.Amortizes = !p.active(working)
	return result
}

// Optimize runs a zero-extra baseline and the requested extra payment on
// independent copies of the portfolio and reports the savings.
func (p *Projector) Optimize(loans []domain.Loan, extra float64) domain.OptimizationSummary {
	baseline := p.Run(loans, 0)
	optimized := p.Run(loans, extra)

	interestSaved := baseline.TotalInterestAccrued - optimized.TotalInterestAccrued
	if interestSaved < 0 {
		interestSaved = 0
	}
	monthsSaved := baseline.TotalDurationMonths - optimized.TotalDurationMonths
	if monthsSaved < 0 {
		monthsSaved = 0
	}

	return domain.OptimizationSummary{
		Strategy:      string(p.Strategy),
		Baseline:      baseline,
		Optimized:     optimized,
		InterestSaved: interestSaved,
		MonthsSaved:   monthsSaved,
		Suggestions:   Suggest(loans, 0, 0),
	}
}

// ProjectDebtPayoff is the avalanche optimization with default bounds.
func ProjectDebtPayoff(loans []domain.Loan, monthlyExtraPayment float64) domain.OptimizationSummary {
	return NewProjector(Avalanche).Optimize(loans, monthlyExtraPayment)
}

// Suggest derives advisory targets and cash-flow stats from the static loan list.
func Suggest(loans []domain.Loan, income, livingExpenses float64) domain.Suggestions {
	var s domain.Suggestions
	var avalanche, snowball *domain.Loan

	for i := range loans {
		l := loans[i]
		s.Stats.TotalMonthlyEMI += l.MonthlyPayment
		s.Stats.TotalDebt += l.OutstandingBalance

		if avalanche == nil || l.AnnualRatePercent > avalanche.AnnualRatePercent {
			avalanche = &l
		}
		if snowball == nil || l.OutstandingBalance < snowball.OutstandingBalance {
			snowball = &l
		}
	}

	s.AvalancheTarget = avalanche
	s.SnowballTarget = snowball
	s.Stats.MonthlyBalance = income - livingExpenses - s.Stats.TotalMonthlyEMI
	if income > 0 {
		s.Stats.DebtToIncomeRatio = s.Stats.TotalMonthlyEMI / income * 100
	}
	return s
}

// CompareStrategies simulates avalanche and snowball on the same portfolio and
// recommends the one accruing less interest, avalanche on ties.
func CompareStrategies(loans []domain.Loan, extra float64) domain.StrategyComparison {
	avalanche := NewProjector(Avalanche).Run(loans, extra)
	snowball := NewProjector(Snowball).Run(loans, extra)

	cmp := domain.StrategyComparison{
		Avalanche: strategyResult(Avalanche, avalanche),
		Snowball:  strategyResult(Snowball, snowball),
	}

	best, other := cmp.Avalanche, cmp.Snowball
	if snowball.TotalInterestAccrued < avalanche.TotalInterestAccrued {
		best, other = cmp.Snowball, cmp.Avalanche
	}
	cmp.Recommended = best.Strategy
	cmp.InterestSaved = other.TotalInterestAccrued - best.TotalInterestAccrued
	if months := other.TotalDurationMonths - best.TotalDurationMonths; months > 0 {
		cmp.MonthsSaved = months
	}
	return cmp
}

func strategyResult(s Strategy, r domain.ProjectionResult) domain.StrategyResult {
	return domain.StrategyResult{
		Strategy:             string(s),
		TotalInterestAccrued: r.TotalInterestAccrued,
		TotalDurationMonths:  r.TotalDurationMonths,
		Timeline:             r.Timeline,
	}
}
