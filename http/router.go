package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"gullak/observability"
	"gullak/service"
)

type RouterDeps struct {
	Loans      *service.LoanService
	Tenure     *service.TenureRecommendationService
	Payoff     *service.DebtPayoffService
	Portfolios *service.PortfolioService
	History    *service.HistoryService
	Limiter    *RateLimiter
	Metrics    *observability.Metrics
	Log        *logrus.Logger
}

// NewRouter registers every API route. Health and metrics bypass the rate
// limiter.
func NewRouter(deps RouterDeps) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware(deps.Log, deps.Metrics))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, deps.Log, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/").Subrouter()
	if deps.Limiter != nil {
		api.Use(RateLimitMiddleware(deps.Limiter))
	}

	loans := NewLoanHandler(deps.Loans, deps.Log)
	api.HandleFunc("/loan/calculate", loans.CalculateLoan).Methods(http.MethodPost)

	tenure := NewTenureHandler(deps.Tenure, deps.Log)
	api.HandleFunc("/loan/recommend-tenure", tenure.RecommendTenure).Methods(http.MethodPost)

	payoff := NewDebtPayoffHandler(deps.Payoff, deps.Portfolios, deps.Log)
	api.HandleFunc("/debt/payoff", payoff.ProjectDebtPayoff).Methods(http.MethodPost)
	api.HandleFunc("/debt/compare", payoff.CompareStrategies).Methods(http.MethodPost)
	api.HandleFunc("/debt/payoff/email", payoff.EmailPlan).Methods(http.MethodPost)

	portfolios := NewPortfolioHandler(deps.Portfolios, deps.History, deps.Log)
	api.HandleFunc("/portfolios/{owner}", portfolios.Save).Methods(http.MethodPut)
	api.HandleFunc("/portfolios/{owner}", portfolios.Get).Methods(http.MethodGet)
	api.HandleFunc("/portfolios/{owner}", portfolios.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/portfolios/{owner}/payoff", payoff.ProjectSavedPortfolio).Methods(http.MethodGet)
	api.HandleFunc("/history/{owner}", portfolios.History).Methods(http.MethodGet)

	return r
}
