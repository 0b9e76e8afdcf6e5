package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gullak/domain"
)

func newTestTenureService(repo *MockHistoryRepository) *TenureRecommendationService {
	log := testLogger()
	return NewTenureRecommendationService(NewAdvisorService("", "", "", log), NewHistoryService(repo, log), log)
}

func TestRecommendTenure_MinimizeInterestPrefersShortest(t *testing.T) {
	repo := &MockHistoryRepository{}
	svc := newTestTenureService(repo)

	result, err := svc.RecommendTenure(context.Background(), "user-1", domain.TenureRecommendationInput{
		Principal:         500_000,
		AnnualRatePercent: 10,
		MinTenureYears:    1,
		MaxTenureYears:    5,
		MaxMonthlyPayment: 100_000,
		Preference:        "minimize_interest",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.RecommendedTenureYears)
	require.Len(t, result.Recommendations, 5)
	assert.Equal(t, "Tenure chosen to keep total interest as low as possible", result.Recommendations[0].Reason)
	for i := 1; i < len(result.Recommendations); i++ {
		assert.GreaterOrEqual(t, result.Recommendations[i-1].Score, result.Recommendations[i].Score)
	}

	require.Len(t, repo.Entries, 1)
	assert.Equal(t, "tenure", repo.Entries[0].Kind)
}

func TestRecommendTenure_BudgetFiltersShortTenures(t *testing.T) {
	svc := newTestTenureService(&MockHistoryRepository{})

	// 500000 at 10%: 1 year needs ~43958 and 2 years ~23072 per month.
	result, err := svc.RecommendTenure(context.Background(), "", domain.TenureRecommendationInput{
		Principal:         500_000,
		AnnualRatePercent: 10,
		MinTenureYears:    1,
		MaxTenureYears:    5,
		MaxMonthlyPayment: 25_000,
		Preference:        "minimize_interest",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.RecommendedTenureYears)
	assert.Len(t, result.Recommendations, 4)
	for _, r := range result.Recommendations {
		assert.LessOrEqual(t, r.MonthlyInstallment, 25_000.0)
	}
}

func TestRecommendTenure_MinimizePaymentLowersEMI(t *testing.T) {
	svc := newTestTenureService(&MockHistoryRepository{})
	input := domain.TenureRecommendationInput{
		Principal:         500_000,
		AnnualRatePercent: 10,
		MinTenureYears:    1,
		MaxTenureYears:    5,
		MaxMonthlyPayment: 100_000,
	}

	input.Preference = "minimize_interest"
	interest, err := svc.RecommendTenure(context.Background(), "", input)
	require.NoError(t, err)

	input.Preference = "minimize_payment"
	payment, err := svc.RecommendTenure(context.Background(), "", input)
	require.NoError(t, err)

	assert.Less(t, payment.Recommendations[0].MonthlyInstallment, interest.Recommendations[0].MonthlyInstallment)
	assert.Greater(t, payment.RecommendedTenureYears, interest.RecommendedTenureYears)
}

func TestRecommendTenure_Validation(t *testing.T) {
	svc := newTestTenureService(&MockHistoryRepository{})
	valid := domain.TenureRecommendationInput{
		Principal:         100_000,
		AnnualRatePercent: 8,
		MinTenureYears:    1,
		MaxTenureYears:    5,
		MaxMonthlyPayment: 50_000,
		Preference:        "balanced",
	}

	_, err := svc.RecommendTenure(context.Background(), "", valid)
	require.NoError(t, err)

	mutations := []func(*domain.TenureRecommendationInput){
		func(in *domain.TenureRecommendationInput) { in.Principal = 0 },
		func(in *domain.TenureRecommendationInput) { in.AnnualRatePercent = -1 },
		func(in *domain.TenureRecommendationInput) { in.MinTenureYears = 0 },
		func(in *domain.TenureRecommendationInput) { in.MinTenureYears = 6 },
		func(in *domain.TenureRecommendationInput) { in.MaxTenureYears = 61 },
		func(in *domain.TenureRecommendationInput) { in.MaxMonthlyPayment = 0 },
		func(in *domain.TenureRecommendationInput) { in.Preference = "cheapest" },
		func(in *domain.TenureRecommendationInput) { in.MaxMonthlyPayment = 10 },
	}
	for i, mutate := range mutations {
		in := valid
		mutate(&in)
		_, err := svc.RecommendTenure(context.Background(), "", in)
		assert.ErrorIs(t, err, ErrInvalidInput, "case %d", i)
	}
}
