package domain

type TenureRecommendationInput struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	MinTenureYears    int     `json:"minTenureYears"`
	MaxTenureYears    int     `json:"maxTenureYears"`
	MaxMonthlyPayment float64 `json:"maxMonthlyPayment"`
	Preference        string  `json:"preference"` // "minimize_interest", "minimize_payment", "balanced"
}

type TenureRecommendation struct {
	TenureYears        int     `json:"tenureYears"`
	MonthlyInstallment float64 `json:"monthlyInstallment"`
	TotalInterest      float64 `json:"totalInterest"`
	Score              float64 `json:"score"`
	Reason             string  `json:"reason"`
}

type TenureRecommendationResult struct {
	RecommendedTenureYears int                    `json:"recommendedTenureYears"`
	Recommendations        []TenureRecommendation `json:"recommendations"`
}
