package review

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/confhub/server/internal/port/inbound"
	"github.com/confhub/server/internal/port/outbound"
)

// Guard derives per-paper reviewer counts and flags overassignment.
type Guard struct {
	assignmentDB outbound.AssignmentDatabasePort
	threshold    int
	logger       *zap.Logger
}

// NewGuard creates a new overassignment guard.
func NewGuard(assignmentDB outbound.AssignmentDatabasePort, threshold int, logger *zap.Logger) *Guard {
	if threshold <= 0 {
		threshold = DefaultConfig().MaxReviewersPerPaper
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{assignmentDB: assignmentDB, threshold: threshold, logger: logger}
}

// CountForPaper counts assignment records for the paper. All statuses count,
// including declined and withdrawn: the guard tracks assignment history, not
// active reviewers.
func (g *Guard) CountForPaper(ctx context.Context, paperID uuid.UUID) (int, error) {
	return g.assignmentDB.CountByPaper(ctx, paperID)
}

// Evaluate reports the paper's assignment load. A count-lookup failure is
// logged and converted to ErrCountUnavailable; the raw store error never
// reaches the caller.
func (g *Guard) Evaluate(ctx context.Context, paperID uuid.UUID) (*inbound.OverassignmentOutput, error) {
	count, err := g.CountForPaper(ctx, paperID)
	if err != nil {
		g.logger.Error("assignment count lookup failed",
			zap.String("paper_id", paperID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrCountUnavailable, err)
	}

	return &inbound.OverassignmentOutput{
		PaperID:      paperID,
		Count:        count,
		Overassigned: count > g.threshold,
	}, nil
}
