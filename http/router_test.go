package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gullak/domain"
	"gullak/observability"
	"gullak/repository"
	"gullak/service"
)

type mockSender struct {
	to string
}

func (m *mockSender) SendPlan(ctx context.Context, to string, summary domain.OptimizationSummary) error {
	m.to = to
	return nil
}

type failingStore struct {
	err error
}

func (f failingStore) Get(ctx context.Context, key string) (string, error) { return "", f.err }

func (f failingStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return f.err
}

func (f failingStore) Delete(ctx context.Context, key string) error { return f.err }

type testServer struct {
	router  http.Handler
	sender  *mockSender
	limiter *RateLimiter
}

func newTestServer(t *testing.T, capacity int) *testServer {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	cache := repository.NewMemoryCache()
	t.Cleanup(cache.Stop)
	history := service.NewHistoryService(repository.NewHistoryMemory(), log)
	advisor := service.NewAdvisorService("", "", "", log)
	metrics := observability.NewMetrics("test")
	sender := &mockSender{}
	limiter := NewRateLimiter(capacity, time.Minute)
	t.Cleanup(limiter.Stop)

	router := NewRouter(RouterDeps{
		Loans:  service.NewLoanService(history, log),
		Tenure: service.NewTenureRecommendationService(advisor, history, log),
		Payoff: service.NewDebtPayoffService(service.DebtPayoffDeps{
			Cache:   cache,
			History: history,
			Advisor: advisor,
			Sender:  sender,
			Metrics: metrics,
			Log:     log,
		}),
		Portfolios: service.NewPortfolioService(cache, log),
		History:    history,
		Limiter:    limiter,
		Metrics:    metrics,
		Log:        log,
	})
	return &testServer{router: router, sender: sender, limiter: limiter}
}

func (s *testServer) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

const twoLoans = `{
	"loans": [
		{"id": "b", "name": "B", "monthlyPayment": 12000, "annualRatePercent": 9.5, "outstandingBalance": 800000},
		{"id": "a", "name": "A", "monthlyPayment": 5000, "annualRatePercent": 36, "outstandingBalance": 150000}
	],
	"monthlyExtraPayment": 5000,
	"monthlyIncome": 60000,
	"livingExpenses": 20000
}`

func TestCalculateLoanHandler_OK(t *testing.T) {
	s := newTestServer(t, 100)

	w := s.do(http.MethodPost, "/loan/calculate", `{"principal": 100000, "annualRatePercent": 12, "tenureYears": 1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result domain.AmortizationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 8885.0, result.MonthlyInstallment)
	assert.Equal(t, 106620.0, result.TotalPayment)
}

func TestCalculateLoanHandler_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t, 100)

	w := s.do(http.MethodGet, "/loan/calculate", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCalculateLoanHandler_BadRequest(t *testing.T) {
	s := newTestServer(t, 100)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/loan/calculate", `{invalid-json}`).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/loan/calculate", `{"principal": 1000, "tenureYears": 0}`).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/loan/calculate", `{"monto": 1000}`).Code)

	w := s.do(http.MethodPost, "/loan/calculate", `{"principal": -5, "tenureYears": 1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "principal must be a non-negative number")
}

func TestCalculateLoanHandler_UnsupportedMediaType(t *testing.T) {
	s := newTestServer(t, 100)

	w := s.do(http.MethodPost, "/loan/calculate", `{"principal": 1000, "tenureYears": 1}`, "Content-Type", "text/plain")
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestRecommendTenureHandler(t *testing.T) {
	s := newTestServer(t, 100)

	w := s.do(http.MethodPost, "/loan/recommend-tenure", `{
		"principal": 500000, "annualRatePercent": 10,
		"minTenureYears": 1, "maxTenureYears": 5,
		"maxMonthlyPayment": 25000, "preference": "minimize_interest"
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result domain.TenureRecommendationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 2, result.RecommendedTenureYears)
}

func TestProjectDebtPayoffHandler(t *testing.T) {
	s := newTestServer(t, 100)

	w := s.do(http.MethodPost, "/debt/payoff", twoLoans)
	require.Equal(t, http.StatusOK, w.Code)

	var summary domain.OptimizationSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 90, summary.Baseline.TotalDurationMonths)
	assert.Equal(t, 57, summary.Optimized.TotalDurationMonths)
	assert.Equal(t, 33, summary.MonthsSaved)
	require.Len(t, summary.Optimized.Timeline, 2)
	assert.Equal(t, "A", summary.Optimized.Timeline[0].LoanName)
	assert.Equal(t, 21, summary.Optimized.Timeline[0].Month)
}

func TestProjectDebtPayoffHandler_XML(t *testing.T) {
	s := newTestServer(t, 100)

	w := s.do(http.MethodPost, "/debt/payoff?format=xml", twoLoans)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `<payoffPlan strategy="avalanche">`)
	assert.Contains(t, w.Body.String(), `<optimized months="57"`)
}

func TestProjectDebtPayoffHandler_Invalid(t *testing.T) {
	s := newTestServer(t, 100)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/debt/payoff", `{"loans": []}`).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/debt/payoff",
		`{"loans": [{"id": "x", "outstandingBalance": 100}], "strategy": "random"}`).Code)
}

func TestCompareStrategiesHandler(t *testing.T) {
	s := newTestServer(t, 100)

	w := s.do(http.MethodPost, "/debt/compare", `{
		"loans": [
			{"id": "big", "name": "Big", "monthlyPayment": 4000, "annualRatePercent": 30, "outstandingBalance": 200000},
			{"id": "small", "name": "Small", "monthlyPayment": 1000, "annualRatePercent": 8, "outstandingBalance": 20000}
		],
		"monthlyExtraPayment": 3000
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var cmp domain.StrategyComparison
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cmp))
	assert.Equal(t, "avalanche", cmp.Recommended)
	assert.Equal(t, "Small", cmp.Snowball.Timeline[0].LoanName)
}

func TestEmailPlanHandler(t *testing.T) {
	s := newTestServer(t, 100)

	body := strings.Replace(twoLoans, `"loans"`, `"to": "me@example.com", "loans"`, 1)
	w := s.do(http.MethodPost, "/debt/payoff/email", body)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "me@example.com", s.sender.to)

	w = s.do(http.MethodPost, "/debt/payoff/email", twoLoans)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPortfolioHandlers(t *testing.T) {
	s := newTestServer(t, 100)

	w := s.do(http.MethodGet, "/portfolios/user-1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPut, "/portfolios/user-1", `{
		"loans": [{"name": "Car", "monthlyPayment": 9000, "annualRatePercent": 9, "outstandingBalance": 300000}],
		"monthlyIncome": 80000, "livingExpenses": 30000, "monthlyExtraPayment": 4000
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var saved domain.Portfolio
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.Equal(t, "user-1", saved.Owner)
	require.Len(t, saved.Loans, 1)
	assert.NotEmpty(t, saved.Loans[0].ID)

	w = s.do(http.MethodGet, "/portfolios/user-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/portfolios/user-1/payoff?strategy=snowball", "")
	require.Equal(t, http.StatusOK, w.Code)
	var summary domain.OptimizationSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, "snowball", summary.Strategy)
	assert.True(t, summary.Optimized.Amortizes)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/portfolios/user-1", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/portfolios/user-1", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/portfolios/user-1/payoff", "").Code)
}

func TestHistoryHandler(t *testing.T) {
	s := newTestServer(t, 100)

	s.do(http.MethodPost, "/loan/calculate", `{"principal": 100000, "annualRatePercent": 12, "tenureYears": 1}`, ownerHeader, "user-1")
	s.do(http.MethodPost, "/debt/payoff", twoLoans, ownerHeader, "user-1")
	s.do(http.MethodPost, "/loan/calculate", `{"principal": 1000, "annualRatePercent": 12, "tenureYears": 1}`)

	w := s.do(http.MethodGet, "/history/user-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var entries []domain.HistoryEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	kinds := []string{entries[0].Kind, entries[1].Kind}
	assert.ElementsMatch(t, []string{"emi", "payoff"}, kinds)

	w = s.do(http.MethodGet, "/history/nobody", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/history/user-1?limit=abc", "").Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	s := newTestServer(t, 2)
	body := `{"principal": 1000, "annualRatePercent": 12, "tenureYears": 1}`

	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/loan/calculate", body).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/loan/calculate", body).Code)

	w := s.do(http.MethodPost, "/loan/calculate", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/healthz", "").Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, 100)

	w := s.do(http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	s.do(http.MethodPost, "/debt/payoff", twoLoans)
	w = s.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `test_projections_total{strategy="avalanche"} 1`)
	assert.Contains(t, w.Body.String(), `route="/debt/payoff"`)
}

func TestPortfolioHandlers_StoreUnavailable(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	store := failingStore{err: errors.New("redis get portfolio:alice: connection refused")}
	history := service.NewHistoryService(repository.NewHistoryMemory(), log)
	advisor := service.NewAdvisorService("", "", "", log)

	router := NewRouter(RouterDeps{
		Loans:      service.NewLoanService(history, log),
		Tenure:     service.NewTenureRecommendationService(advisor, history, log),
		Payoff:     service.NewDebtPayoffService(service.DebtPayoffDeps{History: history, Advisor: advisor, Log: log}),
		Portfolios: service.NewPortfolioService(store, log),
		History:    history,
		Log:        log,
	})

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/portfolios/alice"},
		{http.MethodGet, "/portfolios/alice/payoff"},
		{http.MethodDelete, "/portfolios/alice"},
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code, "%s %s", tc.method, tc.path)
		assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	}
}
