package outbound

import (
	"context"

	"github.com/google/uuid"

	"github.com/confhub/server/internal/model"
)

// InvitationDatabasePort defines review invitation persistence operations.
type InvitationDatabasePort interface {
	// Create creates a new invitation.
	Create(ctx context.Context, invitation *model.ReviewInvitation) error

	// FindByID retrieves an invitation by ID.
	FindByID(ctx context.Context, id uuid.UUID) (*model.ReviewInvitation, error)

	// FindByPaper lists invitations for a paper.
	FindByPaper(ctx context.Context, paperID uuid.UUID) ([]*model.ReviewInvitation, error)

	// Update saves the full invitation record. Returns
	// review.ErrInvitationNotFound when the target row is absent.
	Update(ctx context.Context, invitation *model.ReviewInvitation) error
}

// AssignmentDatabasePort defines reviewer assignment persistence operations.
type AssignmentDatabasePort interface {
	// Create creates a new assignment.
	Create(ctx context.Context, assignment *model.ReviewAssignment) error

	// FindByPaper lists assignments for a paper.
	FindByPaper(ctx context.Context, paperID uuid.UUID) ([]*model.ReviewAssignment, error)

	// CountByPaper counts assignment records for a paper, all statuses.
	CountByPaper(ctx context.Context, paperID uuid.UUID) (int, error)
}

// InvitationMail is a composed invitation email ready for dispatch.
type InvitationMail struct {
	To         string
	Subject    string
	Body       string
	AcceptLink string
	RejectLink string
}

// InvitationMailerPort dispatches invitation emails.
type InvitationMailerPort interface {
	// Send dispatches the composed invitation email.
	Send(ctx context.Context, mail *InvitationMail) error
}
