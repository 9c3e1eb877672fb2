package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/confhub/server/internal/model"
	"github.com/confhub/server/internal/port/inbound"
	"github.com/confhub/server/internal/port/outbound"
)

// Service implements the review invitation domain logic.
type Service struct {
	invitationDB outbound.InvitationDatabasePort
	mailer       outbound.InvitationMailerPort
	validator    *LinkValidator
	recorder     *Recorder
	guard        *Guard
	cfg          *Config
	logger       *zap.Logger
}

// NewService creates a new review service.
func NewService(
	invitationDB outbound.InvitationDatabasePort,
	assignmentDB outbound.AssignmentDatabasePort,
	mailer outbound.InvitationMailerPort,
	cfg *Config,
	logger *zap.Logger,
) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	_ = cfg.Validate()
	if logger == nil {
		logger = zap.NewNop()
	}

	validator := NewLinkValidator(invitationDB, logger)

	return &Service{
		invitationDB: invitationDB,
		mailer:       mailer,
		validator:    validator,
		recorder:     NewRecorder(validator, invitationDB, assignmentDB, logger),
		guard:        NewGuard(assignmentDB, cfg.MaxReviewersPerPaper, logger),
		cfg:          cfg,
		logger:       logger,
	}
}

// SendInvitation creates and persists a pending invitation, then composes
// and dispatches the invitation email. A store failure means the invitation
// was not sent (ErrInvitationStoreFailed). A dispatch failure leaves the
// invitation pending, so it stays recoverable by resend: the persisted
// invitation is returned alongside ErrEmailSendFailed.
func (s *Service) SendInvitation(ctx context.Context, input *inbound.SendInvitationInput) (*inbound.SendInvitationOutput, error) {
	if input == nil || strings.TrimSpace(input.ReviewerEmail) == "" || strings.TrimSpace(input.PaperTitle) == "" {
		return nil, ErrInvalidRequest
	}

	now := time.Now()
	invitation := &model.ReviewInvitation{
		ID:            uuid.New(),
		PaperID:       input.PaperID,
		PaperTitle:    input.PaperTitle,
		ReviewerEmail: strings.ToLower(strings.TrimSpace(input.ReviewerEmail)),
		Status:        model.InvitationStatusPending,
		SentAt:        now,
		ExpiresAt:     now.Add(s.cfg.InvitationExpiry),
	}

	if err := s.invitationDB.Create(ctx, invitation); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvitationStoreFailed, err)
	}

	return s.dispatch(ctx, invitation)
}

// ResendInvitation resets an existing invitation to pending with fresh
// timestamps and re-dispatches the email, with the same failure semantics
// as SendInvitation.
func (s *Service) ResendInvitation(ctx context.Context, invitationID uuid.UUID) (*inbound.SendInvitationOutput, error) {
	invitation, err := s.invitationDB.FindByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, ErrInvitationNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrInvitationStoreFailed, err)
	}

	now := time.Now()
	invitation.Status = model.InvitationStatusPending
	invitation.SentAt = now
	invitation.ExpiresAt = now.Add(s.cfg.InvitationExpiry)
	invitation.RespondedAt = nil

	if err := s.invitationDB.Update(ctx, invitation); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvitationStoreFailed, err)
	}

	return s.dispatch(ctx, invitation)
}

func (s *Service) dispatch(ctx context.Context, invitation *model.ReviewInvitation) (*inbound.SendInvitationOutput, error) {
	mail := composeInvitationMail(invitation, s.cfg.BaseURL)

	if err := s.mailer.Send(ctx, mail); err != nil {
		s.logger.Warn("invitation email dispatch failed",
			zap.String("invitation_id", invitation.ID.String()),
			zap.String("reviewer_email", invitation.ReviewerEmail),
			zap.Error(err),
		)
		return &inbound.SendInvitationOutput{Invitation: invitation},
			fmt.Errorf("%w: %v", ErrEmailSendFailed, err)
	}

	s.logger.Info("invitation sent",
		zap.String("invitation_id", invitation.ID.String()),
		zap.String("paper_id", invitation.PaperID.String()),
		zap.String("reviewer_email", invitation.ReviewerEmail),
		zap.Time("expires_at", invitation.ExpiresAt),
	)

	return &inbound.SendInvitationOutput{Invitation: invitation, Email: mail}, nil
}

// RecordResponse records a reviewer's response to an invitation.
func (s *Service) RecordResponse(ctx context.Context, input *inbound.RecordResponseInput) (*inbound.RecordResponseOutput, error) {
	output, err := s.recorder.RecordResponse(ctx, input)
	if err != nil {
		if errors.Is(err, ErrRecordFailed) {
			s.logger.Error("response recording failed",
				zap.String("invitation_id", input.InvitationID.String()),
				zap.Error(err),
			)
		}
		return nil, err
	}

	s.logger.Info("response recorded",
		zap.String("invitation_id", output.Invitation.ID.String()),
		zap.String("decision", input.Decision),
	)

	return output, nil
}

// EvaluateOverassignment reports the assignment load of a paper.
func (s *Service) EvaluateOverassignment(ctx context.Context, paperID uuid.UUID) (*inbound.OverassignmentOutput, error) {
	return s.guard.Evaluate(ctx, paperID)
}

// Compile-time interface check
var _ inbound.ReviewDomain = (*Service)(nil)
