package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"gullak/domain"
	"gullak/repository"
)

// HistoryService records calculations so users can revisit them.
type HistoryService struct {
	repo repository.HistoryRepository
	log  *logrus.Logger
	now  func() time.Time
}

func NewHistoryService(repo repository.HistoryRepository, log *logrus.Logger) *HistoryService {
	return &HistoryService{repo: repo, log: log, now: time.Now}
}

// Record saves a calculation for owner. Anonymous requests are not recorded
// and failures are only logged.
func (s *HistoryService) Record(ctx context.Context, owner, kind string, query any, summary string) {
	if s == nil || owner == "" {
		return
	}

	raw, err := json.Marshal(query)
	if err != nil {
		s.log.WithError(err).Warn("failed to encode history query")
		return
	}

	entry := domain.HistoryEntry{
		ID:        uuid.NewString(),
		Owner:     owner,
		Kind:      kind,
		Query:     string(raw),
		Summary:   summary,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Save(ctx, entry); err != nil {
		s.log.WithError(err).WithField("owner", owner).Warn("failed to save calculation history")
	}
}

// Recent returns the newest history entries for owner.
func (s *HistoryService) Recent(ctx context.Context, owner string, limit int) ([]domain.HistoryEntry, error) {
	if owner == "" {
		return nil, invalid("owner is required")
	}
	if limit <= 0 || limit > HistoryPageSize {
		limit = HistoryPageSize
	}
	return s.repo.Recent(ctx, owner, limit)
}

// Purge removes entries older than retention.
func (s *HistoryService) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	return s.repo.PurgeOlderThan(ctx, s.now().Add(-retention))
}
