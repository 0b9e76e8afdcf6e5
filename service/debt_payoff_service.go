package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"gullak/domain"
	"gullak/observability"
	"gullak/repository"
)

// PlanSender delivers a computed plan to a recipient.
type PlanSender interface {
	SendPlan(ctx context.Context, to string, summary domain.OptimizationSummary) error
}

// ErrDeliveryUnavailable is returned when no PlanSender is configured.
var ErrDeliveryUnavailable = errors.New("plan delivery is not configured")

type DebtPayoffService struct {
	cache    repository.CacheRepository
	cacheTTL time.Duration
	history  *HistoryService
	advisor  *AdvisorService
	sender   PlanSender
	metrics  *observability.Metrics
	log      *logrus.Logger
}

type DebtPayoffDeps struct {
	Cache    repository.CacheRepository
	CacheTTL time.Duration
	History  *HistoryService
	Advisor  *AdvisorService
	Sender   PlanSender
	Metrics  *observability.Metrics
	Log      *logrus.Logger
}

func NewDebtPayoffService(deps DebtPayoffDeps) *DebtPayoffService {
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &DebtPayoffService{
		cache:    deps.Cache,
		cacheTTL: ttl,
		history:  deps.History,
		advisor:  deps.Advisor,
		sender:   deps.Sender,
		metrics:  deps.Metrics,
		log:      deps.Log,
	}
}

// ProjectDebtPayoff validates the portfolio, runs the baseline and the
// optimized projection and attaches suggestions and an explanation.
// Identical requests are served from the cache.
func (s *DebtPayoffService) ProjectDebtPayoff(
	ctx context.Context,
	owner string,
	input domain.PayoffInput,
) (domain.OptimizationSummary, error) {

	if err := validatePayoffInput(input); err != nil {
		return domain.OptimizationSummary{}, err
	}
	strategy, err := ParseStrategy(input.Strategy)
	if err != nil {
		return domain.OptimizationSummary{}, err
	}

	var summary domain.OptimizationSummary
	key := cacheKey("payoff", input)
	if !s.lookup(ctx, key, &summary) {
		summary = NewProjector(strategy).Optimize(input.Loans, input.MonthlyExtraPayment)
		summary.Suggestions = Suggest(input.Loans, input.MonthlyIncome, input.LivingExpenses)
		summary.Explanation = s.advisor.ExplainPayoff(ctx, summary)

		s.metrics.ObserveProjection(summary.Strategy,
			summary.Baseline.TotalDurationMonths, summary.Optimized.TotalDurationMonths,
			summary.Optimized.Amortizes)
		if !summary.Optimized.Amortizes {
			s.log.WithFields(logrus.Fields{
				"owner": owner,
				"loans": len(input.Loans),
			}).Info("portfolio does not amortize within the projection horizon")
		}
		s.store(ctx, key, summary)
	}

	s.history.Record(ctx, owner, "payoff", input,
		fmt.Sprintf("%s: %d months, interest saved %.0f, months saved %d",
			summary.Strategy, summary.Optimized.TotalDurationMonths, summary.InterestSaved, summary.MonthsSaved))

	return summary, nil
}

// CompareStrategies simulates avalanche and snowball for the same portfolio.
func (s *DebtPayoffService) CompareStrategies(
	ctx context.Context,
	owner string,
	input domain.PayoffInput,
) (domain.StrategyComparison, error) {

	if err := validatePayoffInput(input); err != nil {
		return domain.StrategyComparison{}, err
	}
	if _, err := ParseStrategy(input.Strategy); err != nil {
		return domain.StrategyComparison{}, err
	}
	// Both strategies are simulated, so the requested one does not change the result.
	input.Strategy = ""

	var cmp domain.StrategyComparison
	key := cacheKey("compare", input)
	if !s.lookup(ctx, key, &cmp) {
		cmp = CompareStrategies(input.Loans, input.MonthlyExtraPayment)
		cmp.Explanation = s.advisor.ExplainComparison(ctx, cmp)
		s.store(ctx, key, cmp)
	}

	s.history.Record(ctx, owner, "compare", input,
		fmt.Sprintf("%s recommended, interest saved %.0f", cmp.Recommended, cmp.InterestSaved))

	return cmp, nil
}

// EmailPlan projects the portfolio and sends the summary to the recipient.
func (s *DebtPayoffService) EmailPlan(
	ctx context.Context,
	owner string,
	to string,
	input domain.PayoffInput,
) (domain.OptimizationSummary, error) {

	if to == "" {
		return domain.OptimizationSummary{}, invalid("recipient is required")
	}
	if s.sender == nil {
		return domain.OptimizationSummary{}, ErrDeliveryUnavailable
	}

	summary, err := s.ProjectDebtPayoff(ctx, owner, input)
	if err != nil {
		return domain.OptimizationSummary{}, err
	}

	err = s.sender.SendPlan(ctx, to, summary)
	s.metrics.ObserveEmail(err)
	if err != nil {
		return domain.OptimizationSummary{}, fmt.Errorf("failed to send plan: %w", err)
	}
	return summary, nil
}

func (s *DebtPayoffService) lookup(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key)
	ok := err == nil
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.WithError(err).WithField("key", key).Warn("cache unavailable, computing result")
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), out); err != nil {
			s.log.WithError(err).WithField("key", key).Warn("discarding unreadable cached result")
			ok = false
		}
	}
	s.metrics.ObserveCache(ok)
	return ok
}

func (s *DebtPayoffService) store(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		s.log.WithError(err).Warn("failed to encode result for cache")
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("failed to cache result")
	}
}

// cacheKey hashes the canonical JSON of the request.
func cacheKey(kind string, input any) string {
	raw, _ := json.Marshal(input)
	sum := sha256.Sum256(raw)
	return "result:" + kind + ":" + hex.EncodeToString(sum[:])
}
