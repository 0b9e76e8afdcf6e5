package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"gullak/domain"
	"gullak/repository"
)

// PortfolioService saves and loads a user's loan list with income and
// expenses as one JSON blob in the key-value store.
type PortfolioService struct {
	store repository.CacheRepository
	log   *logrus.Logger
	now   func() time.Time
}

func NewPortfolioService(store repository.CacheRepository, log *logrus.Logger) *PortfolioService {
	return &PortfolioService{store: store, log: log, now: time.Now}
}

func portfolioKey(owner string) string {
	return "portfolio:" + owner
}

// Save replaces the owner's portfolio. Loans without an ID get a new one.
func (s *PortfolioService) Save(ctx context.Context, p domain.Portfolio) (domain.Portfolio, error) {
	if p.Owner == "" {
		return domain.Portfolio{}, invalid("owner is required")
	}
	if len(p.Loans) > 0 {
		if err := validateLoans(p.Loans); err != nil {
			return domain.Portfolio{}, err
		}
	}
	if !finite(p.MonthlyIncome) || p.MonthlyIncome < 0 ||
		!finite(p.LivingExpenses) || p.LivingExpenses < 0 ||
		!finite(p.MonthlyExtraPayment) || p.MonthlyExtraPayment < 0 {
		return domain.Portfolio{}, invalid("income, expenses and extra payment must be non-negative numbers")
	}

	loans := make([]domain.Loan, len(p.Loans))
	copy(loans, p.Loans)
	for i := range loans {
		if loans[i].ID == "" {
			loans[i].ID = uuid.NewString()
		}
	}
	p.Loans = loans
	p.UpdatedAt = s.now().UTC()

	raw, err := json.Marshal(p)
	if err != nil {
		return domain.Portfolio{}, fmt.Errorf("failed to encode portfolio: %w", err)
	}
	if err := s.store.Set(ctx, portfolioKey(p.Owner), string(raw), 0); err != nil {
		return domain.Portfolio{}, fmt.Errorf("failed to save portfolio: %w", err)
	}

	s.log.WithFields(logrus.Fields{"owner": p.Owner, "loans": len(p.Loans)}).Info("portfolio saved")
	return p, nil
}

func (s *PortfolioService) Load(ctx context.Context, owner string) (domain.Portfolio, error) {
	raw, err := s.store.Get(ctx, portfolioKey(owner))
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Portfolio{}, fmt.Errorf("portfolio %q: %w", owner, repository.ErrNotFound)
	}
	if err != nil {
		return domain.Portfolio{}, fmt.Errorf("failed to load portfolio: %w", err)
	}
	var p domain.Portfolio
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return domain.Portfolio{}, fmt.Errorf("failed to decode portfolio: %w", err)
	}
	return p, nil
}

func (s *PortfolioService) Delete(ctx context.Context, owner string) error {
	_, err := s.store.Get(ctx, portfolioKey(owner))
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("portfolio %q: %w", owner, repository.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to load portfolio: %w", err)
	}
	if err := s.store.Delete(ctx, portfolioKey(owner)); err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}
	return nil
}

// PayoffInput turns a saved portfolio into a projection request.
func (s *PortfolioService) PayoffInput(ctx context.Context, owner, strategy string) (domain.PayoffInput, error) {
	saved, err := s.Load(ctx, owner)
	if err != nil {
		return domain.PayoffInput{}, err
	}
	return domain.PayoffInput{
		Loans:               saved.Loans,
		MonthlyExtraPayment: saved.MonthlyExtraPayment,
		MonthlyIncome:       saved.MonthlyIncome,
		LivingExpenses:      saved.LivingExpenses,
		Strategy:            strategy,
	}, nil
}
