package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/confhub/server/internal/model"
	"github.com/confhub/server/internal/port/outbound"
)

// LinkValidator checks whether a response link may still be acted on.
// It owns the lazy expiry transition: a pending invitation whose expiry has
// passed is persisted as expired before the rejection is reported.
type LinkValidator struct {
	invitationDB outbound.InvitationDatabasePort
	logger       *zap.Logger
}

// NewLinkValidator creates a new link validator.
func NewLinkValidator(invitationDB outbound.InvitationDatabasePort, logger *zap.Logger) *LinkValidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LinkValidator{invitationDB: invitationDB, logger: logger}
}

// Validate checks the invitation's eligibility for a response at the given
// time. Business rejections (ErrInvitationNotFound, ErrDuplicateResponse,
// ErrInvitationExpired) are returned together with the invitation when it
// exists. Store failures wrap ErrLookupFailed or ErrExpiryWriteFailed and
// must not be silently continued past: they signal an integrity problem.
func (v *LinkValidator) Validate(ctx context.Context, invitationID uuid.UUID, now time.Time) (*model.ReviewInvitation, error) {
	invitation, err := v.invitationDB.FindByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, ErrInvitationNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	if !invitation.IsPending() {
		// An already-expired invitation keeps reporting expired so repeated
		// validation is idempotent; any responded status is a duplicate.
		if invitation.Status == model.InvitationStatusExpired {
			return invitation, ErrInvitationExpired
		}
		return invitation, ErrDuplicateResponse
	}

	if invitation.IsExpiredAt(now) {
		invitation.Status = model.InvitationStatusExpired
		if err := v.invitationDB.Update(ctx, invitation); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExpiryWriteFailed, err)
		}

		v.logger.Info("invitation expired",
			zap.String("invitation_id", invitation.ID.String()),
			zap.Time("expires_at", invitation.ExpiresAt),
		)

		return invitation, ErrInvitationExpired
	}

	return invitation, nil
}
