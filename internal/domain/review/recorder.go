package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/confhub/server/internal/model"
	"github.com/confhub/server/internal/port/inbound"
	"github.com/confhub/server/internal/port/outbound"
)

// Decision values a reviewer may submit.
const (
	DecisionAccept = "accept"
	DecisionReject = "reject"
)

// Recorder orchestrates a reviewer's response: it validates the link,
// transitions the invitation, and creates the matching assignment record.
// The invitation write and the assignment write hit independent stores, so
// a failed assignment write triggers a best-effort compensation that resets
// the invitation to pending.
type Recorder struct {
	validator    *LinkValidator
	invitationDB outbound.InvitationDatabasePort
	assignmentDB outbound.AssignmentDatabasePort
	logger       *zap.Logger
}

// NewRecorder creates a new response recorder.
func NewRecorder(
	validator *LinkValidator,
	invitationDB outbound.InvitationDatabasePort,
	assignmentDB outbound.AssignmentDatabasePort,
	logger *zap.Logger,
) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		validator:    validator,
		invitationDB: invitationDB,
		assignmentDB: assignmentDB,
		logger:       logger,
	}
}

// RecordResponse records an accept or reject response for an invitation.
// The decision is checked before any store access. Only a pending invitation
// passes validation, so a second response for the same invitation is always
// rejected as a duplicate and never creates a second assignment.
func (r *Recorder) RecordResponse(ctx context.Context, input *inbound.RecordResponseInput) (*inbound.RecordResponseOutput, error) {
	if input == nil {
		return nil, ErrInvalidDecision
	}
	if input.Decision != DecisionAccept && input.Decision != DecisionReject {
		return nil, ErrInvalidDecision
	}

	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}

	invitation, err := r.validator.Validate(ctx, input.InvitationID, now)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvitationNotFound),
			errors.Is(err, ErrDuplicateResponse),
			errors.Is(err, ErrInvitationExpired):
			return nil, err
		default:
			// Validator infrastructure errors never leak past this boundary.
			return nil, fmt.Errorf("%w: %v", ErrRecordFailed, err)
		}
	}

	prevStatus := invitation.Status
	prevRespondedAt := invitation.RespondedAt

	respondedAt := now
	invitation.Status = invitationStatusFor(input.Decision)
	invitation.RespondedAt = &respondedAt

	if err := r.invitationDB.Update(ctx, invitation); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordFailed, err)
	}

	assignment := &model.ReviewAssignment{
		ID:            uuid.New(),
		PaperID:       invitation.PaperID,
		ReviewerEmail: invitation.ReviewerEmail,
		Status:        assignmentStatusFor(input.Decision),
		AssignedAt:    now,
	}

	if err := r.assignmentDB.Create(ctx, assignment); err != nil {
		r.logger.Error("assignment creation failed",
			zap.String("invitation_id", invitation.ID.String()),
			zap.String("paper_id", invitation.PaperID.String()),
			zap.Error(err),
		)

		// Compensate so the reviewer can retry. The compensation's own
		// failure is logged separately and never masks the original error.
		invitation.Status = prevStatus
		invitation.RespondedAt = prevRespondedAt
		if rbErr := r.invitationDB.Update(ctx, invitation); rbErr != nil {
			r.logger.Error("invitation compensation failed",
				zap.String("invitation_id", invitation.ID.String()),
				zap.Error(rbErr),
			)
		}

		return nil, fmt.Errorf("%w: %v", ErrRecordFailed, err)
	}

	return &inbound.RecordResponseOutput{
		Invitation: invitation,
		Assignment: assignment,
	}, nil
}

func invitationStatusFor(decision string) model.InvitationStatus {
	if decision == DecisionAccept {
		return model.InvitationStatusAccepted
	}
	return model.InvitationStatusRejected
}

func assignmentStatusFor(decision string) model.AssignmentStatus {
	if decision == DecisionAccept {
		return model.AssignmentStatusAccepted
	}
	return model.AssignmentStatusRejected
}
