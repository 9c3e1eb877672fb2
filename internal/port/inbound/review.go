package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/confhub/server/internal/model"
	"github.com/confhub/server/internal/port/outbound"
)

// --- Request/Response Types ---

// SendInvitationInput represents a request to invite a reviewer.
type SendInvitationInput struct {
	PaperID       uuid.UUID `json:"paper_id" binding:"required"`
	PaperTitle    string    `json:"paper_title" binding:"required,min=1,max=300"`
	ReviewerEmail string    `json:"reviewer_email" binding:"required,email"`
}

// SendInvitationOutput represents a sent invitation in API responses.
type SendInvitationOutput struct {
	Invitation *model.ReviewInvitation  `json:"invitation"`
	Email      *outbound.InvitationMail `json:"email,omitempty"`
}

// RecordResponseInput represents a reviewer's response to an invitation.
type RecordResponseInput struct {
	InvitationID uuid.UUID
	Decision     string
	Now          time.Time
}

// RecordResponseOutput represents a recorded response.
type RecordResponseOutput struct {
	Invitation *model.ReviewInvitation `json:"invitation"`
	Assignment *model.ReviewAssignment `json:"assignment"`
}

// OverassignmentOutput reports the assignment load of a paper.
type OverassignmentOutput struct {
	PaperID      uuid.UUID `json:"paper_id"`
	Count        int       `json:"count"`
	Overassigned bool      `json:"overassigned"`
}

// --- Domain Interface ---

// ReviewDomain defines the referee invitation domain service interface.
type ReviewDomain interface {
	// SendInvitation issues and dispatches a new review invitation.
	SendInvitation(ctx context.Context, input *SendInvitationInput) (*SendInvitationOutput, error)

	// ResendInvitation resets an existing invitation to pending and
	// re-dispatches the invitation email.
	ResendInvitation(ctx context.Context, invitationID uuid.UUID) (*SendInvitationOutput, error)

	// RecordResponse records an accept/reject response for an invitation.
	RecordResponse(ctx context.Context, input *RecordResponseInput) (*RecordResponseOutput, error)

	// EvaluateOverassignment reports the assignment load of a paper.
	EvaluateOverassignment(ctx context.Context, paperID uuid.UUID) (*OverassignmentOutput, error)
}
