package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"gullak/domain"
	"gullak/repository"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type MockHistoryRepository struct {
	Entries    []domain.HistoryEntry
	ForceError bool
}

func (m *MockHistoryRepository) Save(ctx context.Context, entry domain.HistoryEntry) error {
	if m.ForceError {
		return errors.New("save error")
	}
	m.Entries = append(m.Entries, entry)
	return nil
}

func (m *MockHistoryRepository) Recent(ctx context.Context, owner string, limit int) ([]domain.HistoryEntry, error) {
	return m.Entries, nil
}

func (m *MockHistoryRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type MockCache struct {
	Data     map[string]string
	SetCalls int
	Gets     int
	GetErr   error
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string]string)}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	m.Gets++
	if m.GetErr != nil {
		return "", m.GetErr
	}
	val, ok := m.Data[key]
	if !ok {
		return "", repository.ErrNotFound
	}
	return val, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.SetCalls++
	m.Data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	delete(m.Data, key)
	return nil
}

type MockPlanSender struct {
	To        string
	Summary   domain.OptimizationSummary
	ForceErr  error
	SendCalls int
}

func (m *MockPlanSender) SendPlan(ctx context.Context, to string, summary domain.OptimizationSummary) error {
	m.SendCalls++
	m.To = to
	m.Summary = summary
	return m.ForceErr
}
