package model

import (
	"time"

	"github.com/google/uuid"
)

// InvitationStatus represents the status of a review invitation.
type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusRejected InvitationStatus = "rejected"
	InvitationStatusExpired  InvitationStatus = "expired"
)

// AssignmentStatus represents the status of a reviewer assignment.
type AssignmentStatus string

const (
	AssignmentStatusPending   AssignmentStatus = "pending"
	AssignmentStatusAccepted  AssignmentStatus = "accepted"
	AssignmentStatusRejected  AssignmentStatus = "rejected"
	AssignmentStatusDeclined  AssignmentStatus = "declined"
	AssignmentStatusWithdrawn AssignmentStatus = "withdrawn"
)

// ReviewInvitation represents an invitation for a reviewer to referee a paper.
type ReviewInvitation struct {
	ID            uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PaperID       uuid.UUID        `json:"paper_id" gorm:"type:uuid;not null"`
	PaperTitle    string           `json:"paper_title" gorm:"not null"`
	ReviewerEmail string           `json:"reviewer_email" gorm:"not null"`
	Status        InvitationStatus `json:"status" gorm:"not null;default:pending"`
	SentAt        time.Time        `json:"sent_at" gorm:"not null"`
	ExpiresAt     time.Time        `json:"expires_at" gorm:"not null"`
	RespondedAt   *time.Time       `json:"responded_at,omitempty"`
}

// TableName returns the database table name.
func (ReviewInvitation) TableName() string {
	return "review_invitations"
}

// IsPending returns true if the invitation is still pending.
func (i *ReviewInvitation) IsPending() bool {
	return i.Status == InvitationStatusPending
}

// IsExpiredAt returns true if the invitation has expired at the given time.
// The expiry boundary itself counts as expired.
func (i *ReviewInvitation) IsExpiredAt(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// ReviewAssignment represents a recorded reviewer-to-paper relationship.
// One invitation yields at most one assignment, created when the reviewer
// responds.
type ReviewAssignment struct {
	ID            uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PaperID       uuid.UUID        `json:"paper_id" gorm:"type:uuid;not null"`
	ReviewerEmail string           `json:"reviewer_email" gorm:"not null"`
	Status        AssignmentStatus `json:"status" gorm:"not null;default:pending"`
	AssignedAt    time.Time        `json:"assigned_at" gorm:"not null"`
}

// TableName returns the database table name.
func (ReviewAssignment) TableName() string {
	return "review_assignments"
}
