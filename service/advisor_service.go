package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"gullak/domain"
)

// AdvisorService writes short plain-language explanations of plans. With an
// API key it asks an OpenAI-compatible chat endpoint and falls back to a
// template on any failure.
type AdvisorService struct {
	apiKey     string
	apiURL     string
	model      string
	enabled    bool
	httpClient *http.Client
	log        *logrus.Logger
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const advisorSystemPrompt = "You are a personal finance advisor. Explain loan and debt payoff plans clearly and " +
	"accurately in at most four sentences. Quote the numbers you are given; never invent new ones."

func NewAdvisorService(apiKey, apiURL, model string, log *logrus.Logger) *AdvisorService {
	return &AdvisorService{
		apiKey:  apiKey,
		apiURL:  apiURL,
		model:   model,
		enabled: apiKey != "" && apiURL != "",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// ExplainPayoff describes an optimization summary.
func (s *AdvisorService) ExplainPayoff(ctx context.Context, summary domain.OptimizationSummary) string {
	fallback := fallbackPayoffExplanation(summary)
	if !s.enabled {
		return fallback
	}

	var timeline strings.Builder
	for _, e := range summary.Optimized.Timeline {
		fmt.Fprintf(&timeline, "- %s paid off in month %d (%s)\n", e.LoanName, e.Month, formatYearsMonths(e.Month))
	}

	prompt := fmt.Sprintf(`Explain this debt payoff plan.

Strategy: %s
Without extra payments: %d months, total interest %.0f
With extra payments: %d months, total interest %.0f
Interest saved: %.0f, months saved: %d
Total monthly EMI: %.0f, debt-to-income ratio: %.1f%%
Payoff order:
%s`,
		summary.Strategy,
		summary.Baseline.TotalDurationMonths, summary.Baseline.TotalInterestAccrued,
		summary.Optimized.TotalDurationMonths, summary.Optimized.TotalInterestAccrued,
		summary.InterestSaved, summary.MonthsSaved,
		summary.Suggestions.Stats.TotalMonthlyEMI, summary.Suggestions.Stats.DebtToIncomeRatio,
		timeline.String())

	return s.completeOr(ctx, prompt, fallback)
}

// ExplainComparison describes an avalanche/snowball comparison.
func (s *AdvisorService) ExplainComparison(ctx context.Context, cmp domain.StrategyComparison) string {
	fallback := fallbackComparisonExplanation(cmp)
	if !s.enabled {
		return fallback
	}

	prompt := fmt.Sprintf(`Compare two debt payoff strategies for the same loans.

Avalanche (highest rate first): %.0f interest, %d months
Snowball (smallest balance first): %.0f interest, %d months
Recommended: %s`,
		cmp.Avalanche.TotalInterestAccrued, cmp.Avalanche.TotalDurationMonths,
		cmp.Snowball.TotalInterestAccrued, cmp.Snowball.TotalDurationMonths,
		cmp.Recommended)

	return s.completeOr(ctx, prompt, fallback)
}

// ExplainTenure describes the recommended tenure of a loan.
func (s *AdvisorService) ExplainTenure(ctx context.Context, input domain.TenureRecommendationInput, top domain.TenureRecommendation) string {
	fallback := fallbackTenureReason(input.Preference)
	if !s.enabled {
		return fallback
	}

	prompt := fmt.Sprintf(`Explain why this loan tenure fits the borrower.

Principal: %.0f at %.2f%% per year
Recommended tenure: %d years
EMI: %.0f, total interest: %.0f
Preference: %s`,
		input.Principal, input.AnnualRatePercent, top.TenureYears,
		top.MonthlyInstallment, top.TotalInterest, input.Preference)

	return s.completeOr(ctx, prompt, fallback)
}

func (s *AdvisorService) completeOr(ctx context.Context, prompt, fallback string) string {
	text, err := s.complete(ctx, prompt)
	if err != nil {
		s.log.WithError(err).Warn("advisor request failed, using fallback explanation")
		return fallback
	}
	return text
}

func (s *AdvisorService) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: advisorSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens: 300,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("advisor API error (status %d): %s", resp.StatusCode, string(msg))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("empty advisor response")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func formatYearsMonths(months int) string {
	years, rem := months/12, months%12
	switch {
	case years == 0:
		return fmt.Sprintf("%d months", rem)
	case rem == 0:
		return fmt.Sprintf("%d years", years)
	}
	return fmt.Sprintf("%d years %d months", years, rem)
}

func fallbackPayoffExplanation(summary domain.OptimizationSummary) string {
	if !summary.Optimized.Amortizes {
		return fmt.Sprintf("At the current payments these loans are not paid off within %d months. "+
			"Raise the EMI or the extra payment on loans whose payment does not cover their monthly interest.",
			summary.Optimized.TotalDurationMonths)
	}
	if summary.MonthsSaved == 0 && summary.InterestSaved == 0 {
		return fmt.Sprintf("Paying only the EMIs clears every loan in %s with %.0f in total interest.",
			formatYearsMonths(summary.Baseline.TotalDurationMonths), summary.Baseline.TotalInterestAccrued)
	}
	return fmt.Sprintf("With the %s strategy you are debt free in %s instead of %s, "+
		"saving %.0f in interest. Each time a loan is closed its EMI is added to the extra payment.",
		summary.Strategy,
		formatYearsMonths(summary.Optimized.TotalDurationMonths),
		formatYearsMonths(summary.Baseline.TotalDurationMonths),
		summary.InterestSaved)
}

func fallbackComparisonExplanation(cmp domain.StrategyComparison) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The %s strategy accrues %.0f less interest", cmp.Recommended, cmp.InterestSaved)
	if cmp.MonthsSaved > 0 {
		fmt.Fprintf(&b, " and finishes %d months sooner", cmp.MonthsSaved)
	}
	fmt.Fprintf(&b, ". Avalanche: %.0f interest over %d months. Snowball: %.0f interest over %d months.",
		cmp.Avalanche.TotalInterestAccrued, cmp.Avalanche.TotalDurationMonths,
		cmp.Snowball.TotalInterestAccrued, cmp.Snowball.TotalDurationMonths)
	return b.String()
}

func fallbackTenureReason(preference string) string {
	switch preference {
	case "minimize_interest":
		return "Tenure chosen to keep total interest as low as possible"
	case "minimize_payment":
		return "Tenure chosen to keep the monthly installment as low as possible"
	case "balanced":
		return "Tenure balancing the monthly installment against total interest"
	}
	return "Recommendation based on the provided parameters"
}
