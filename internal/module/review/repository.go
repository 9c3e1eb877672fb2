package review

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/confhub/server/internal/domain/review"
	"github.com/confhub/server/internal/model"
	"github.com/confhub/server/internal/port/outbound"
)

// InvitationRepository implements the invitation database port using GORM.
type InvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new invitation repository.
func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// Create creates a new invitation.
func (r *InvitationRepository) Create(ctx context.Context, invitation *model.ReviewInvitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

// FindByID retrieves an invitation by ID.
func (r *InvitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ReviewInvitation, error) {
	var invitation model.ReviewInvitation
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

// FindByPaper lists invitations for a paper, most recent first.
func (r *InvitationRepository) FindByPaper(ctx context.Context, paperID uuid.UUID) ([]*model.ReviewInvitation, error) {
	var invitations []*model.ReviewInvitation
	err := r.db.WithContext(ctx).
		Where("paper_id = ?", paperID).
		Order("sent_at DESC").
		Find(&invitations).Error
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

// Update saves the full invitation record. A nil responded_at must be
// written through, so the update uses an explicit column map.
func (r *InvitationRepository) Update(ctx context.Context, invitation *model.ReviewInvitation) error {
	res := r.db.WithContext(ctx).
		Model(&model.ReviewInvitation{}).
		Where("id = ?", invitation.ID).
		Updates(map[string]any{
			"status":       invitation.Status,
			"sent_at":      invitation.SentAt,
			"expires_at":   invitation.ExpiresAt,
			"responded_at": invitation.RespondedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvitationNotFound
	}
	return nil
}

// AssignmentRepository implements the assignment database port using GORM.
type AssignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new assignment repository.
func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create creates a new assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *model.ReviewAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

// FindByPaper lists assignments for a paper.
func (r *AssignmentRepository) FindByPaper(ctx context.Context, paperID uuid.UUID) ([]*model.ReviewAssignment, error) {
	var assignments []*model.ReviewAssignment
	err := r.db.WithContext(ctx).
		Where("paper_id = ?", paperID).
		Order("assigned_at ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// CountByPaper counts assignment records for a paper, all statuses.
func (r *AssignmentRepository) CountByPaper(ctx context.Context, paperID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ReviewAssignment{}).
		Where("paper_id = ?", paperID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// Compile-time interface checks
var (
	_ outbound.InvitationDatabasePort = (*InvitationRepository)(nil)
	_ outbound.AssignmentDatabasePort = (*AssignmentRepository)(nil)
)
