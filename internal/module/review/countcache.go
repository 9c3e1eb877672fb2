package review

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/confhub/server/internal/model"
	"github.com/confhub/server/internal/port/outbound"
	"github.com/confhub/server/internal/utils/metrics"
)

const (
	countCacheName   = "reviewer_count"
	countCachePrefix = "confhub:review:count:"
)

// CachedAssignmentStore decorates an assignment store with a Redis-backed
// reviewer-count cache. Redis failures fail open to the underlying store;
// a stale or missing cache entry never blocks a count.
type CachedAssignmentStore struct {
	next    outbound.AssignmentDatabasePort
	rdb     redis.UniversalClient
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewCachedAssignmentStore creates a new cached assignment store.
func NewCachedAssignmentStore(
	next outbound.AssignmentDatabasePort,
	rdb redis.UniversalClient,
	ttl time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *CachedAssignmentStore {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedAssignmentStore{next: next, rdb: rdb, ttl: ttl, metrics: m, logger: logger}
}

// Create creates a new assignment and invalidates the paper's cached count.
func (s *CachedAssignmentStore) Create(ctx context.Context, assignment *model.ReviewAssignment) error {
	if err := s.next.Create(ctx, assignment); err != nil {
		return err
	}
	if err := s.rdb.Del(ctx, s.key(assignment.PaperID)).Err(); err != nil {
		s.logger.Warn("count cache invalidation failed",
			zap.String("paper_id", assignment.PaperID.String()),
			zap.Error(err),
		)
	}
	return nil
}

// FindByPaper lists assignments for a paper.
func (s *CachedAssignmentStore) FindByPaper(ctx context.Context, paperID uuid.UUID) ([]*model.ReviewAssignment, error) {
	return s.next.FindByPaper(ctx, paperID)
}

// CountByPaper counts assignment records for a paper, consulting the cache
// first.
func (s *CachedAssignmentStore) CountByPaper(ctx context.Context, paperID uuid.UUID) (int, error) {
	key := s.key(paperID)

	if val, err := s.rdb.Get(ctx, key).Result(); err == nil {
		if count, convErr := strconv.Atoi(val); convErr == nil {
			if s.metrics != nil {
				s.metrics.RecordCacheHit(countCacheName)
			}
			return count, nil
		}
	}
	if s.metrics != nil {
		s.metrics.RecordCacheMiss(countCacheName)
	}

	count, err := s.next.CountByPaper(ctx, paperID)
	if err != nil {
		return 0, err
	}

	if err := s.rdb.Set(ctx, key, strconv.Itoa(count), s.ttl).Err(); err != nil {
		s.logger.Warn("count cache write failed",
			zap.String("paper_id", paperID.String()),
			zap.Error(err),
		)
	}

	return count, nil
}

func (s *CachedAssignmentStore) key(paperID uuid.UUID) string {
	return fmt.Sprintf("%s%s", countCachePrefix, paperID)
}

// Compile-time interface check
var _ outbound.AssignmentDatabasePort = (*CachedAssignmentStore)(nil)
