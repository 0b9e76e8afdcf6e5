package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"gullak/domain"
)

type TenureRecommendationService struct {
	advisor *AdvisorService
	history *HistoryService
	log     *logrus.Logger
}

func NewTenureRecommendationService(advisor *AdvisorService, history *HistoryService, log *logrus.Logger) *TenureRecommendationService {
	return &TenureRecommendationService{
		advisor: advisor,
		history: history,
		log:     log,
	}
}

var tenurePreferences = map[string]bool{
	"minimize_interest": true,
	"minimize_payment":  true,
	"balanced":          true,
}

// RecommendTenure evaluates every whole-year tenure in range, drops the ones
// whose EMI exceeds the budget and ranks the rest by preference.
func (s *TenureRecommendationService) RecommendTenure(
	ctx context.Context,
	owner string,
	input domain.TenureRecommendationInput,
) (domain.TenureRecommendationResult, error) {

	if !finite(input.Principal) || input.Principal <= 0 || input.Principal > MaxPrincipal {
		return domain.TenureRecommendationResult{}, invalid("principal must be between 0 and %.0f", MaxPrincipal)
	}
	if !finite(input.AnnualRatePercent) || input.AnnualRatePercent < 0 || input.AnnualRatePercent > MaxInterestRate {
		return domain.TenureRecommendationResult{}, invalid("annual rate must be between 0 and %.0f", MaxInterestRate)
	}
	if input.MinTenureYears <= 0 || input.MaxTenureYears <= 0 {
		return domain.TenureRecommendationResult{}, invalid("tenure range must be positive")
	}
	if input.MinTenureYears > input.MaxTenureYears {
		return domain.TenureRecommendationResult{}, invalid("minimum tenure is greater than maximum tenure")
	}
	if input.MaxTenureYears > MaxTenureYears {
		return domain.TenureRecommendationResult{}, invalid("maximum tenure exceeds the limit of %d years", MaxTenureYears)
	}
	if input.MaxTenureYears-input.MinTenureYears > MaxTenureRangeYears {
		return domain.TenureRecommendationResult{}, invalid("tenure range exceeds %d years", MaxTenureRangeYears)
	}
	if !finite(input.MaxMonthlyPayment) || input.MaxMonthlyPayment <= 0 {
		return domain.TenureRecommendationResult{}, invalid("maximum monthly payment must be positive")
	}
	if !tenurePreferences[input.Preference] {
		return domain.TenureRecommendationResult{}, invalid("unknown preference %q", input.Preference)
	}

	candidates := []domain.AmortizationResult{}
	years := []int{}
	for y := input.MinTenureYears; y <= input.MaxTenureYears; y++ {
		result, err := Amortize(input.Principal, input.AnnualRatePercent, float64(y))
		if err != nil {
			s.log.WithError(err).WithField("years", y).Warn("failed to amortize tenure candidate")
			continue
		}
		if result.MonthlyInstallment > input.MaxMonthlyPayment {
			continue
		}
		candidates = append(candidates, result)
		years = append(years, y)
	}

	if len(candidates) == 0 {
		return domain.TenureRecommendationResult{}, invalid("no tenure keeps the EMI within %.0f", input.MaxMonthlyPayment)
	}

	recommendations := scoreTenures(candidates, years, input.Preference)

	top := recommendations[0]
	recommendations[0].Reason = s.advisor.ExplainTenure(ctx, input, top)

	s.history.Record(ctx, owner, "tenure", input,
		fmt.Sprintf("%d years recommended, EMI %.0f", top.TenureYears, top.MonthlyInstallment))

	return domain.TenureRecommendationResult{
		RecommendedTenureYears: top.TenureYears,
		Recommendations:        recommendations,
	}, nil
}

// scoreTenures normalizes interest, installment and tenure to 0-10 within the
// candidate set and weights them by preference. Ties keep the shorter tenure.
func scoreTenures(candidates []domain.AmortizationResult, years []int, preference string) []domain.TenureRecommendation {
	minInterest, maxInterest := math.Inf(1), math.Inf(-1)
	minEMI, maxEMI := math.Inf(1), math.Inf(-1)
	for _, c := range candidates {
		minInterest = math.Min(minInterest, c.TotalInterest)
		maxInterest = math.Max(maxInterest, c.TotalInterest)
		minEMI = math.Min(minEMI, c.MonthlyInstallment)
		maxEMI = math.Max(maxEMI, c.MonthlyInstallment)
	}
	minYears, maxYears := years[0], years[len(years)-1]

	normalize := func(v, lo, hi float64) float64 {
		if hi-lo <= 0 {
			return 10
		}
		return 10 * (1 - (v-lo)/(hi-lo))
	}

	out := make([]domain.TenureRecommendation, len(candidates))
	for i, c := range candidates {
		interestScore := normalize(c.TotalInterest, minInterest, maxInterest)
		paymentScore := normalize(c.MonthlyInstallment, minEMI, maxEMI)
		tenureScore := normalize(float64(years[i]), float64(minYears), float64(maxYears))

		var score float64
		switch preference {
		case "minimize_interest":
			score = 0.6*interestScore + 0.2*paymentScore + 0.2*tenureScore
		case "minimize_payment":
			score = 0.2*interestScore + 0.6*paymentScore + 0.2*tenureScore
		default:
			score = 0.4*interestScore + 0.4*paymentScore + 0.2*tenureScore
		}

		out[i] = domain.TenureRecommendation{
			TenureYears:        years[i],
			MonthlyInstallment: c.MonthlyInstallment,
			TotalInterest:      c.TotalInterest,
			Score:              math.Round(score*100) / 100,
			Reason:             fallbackTenureReason(preference),
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
