package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/confhub/server/internal/model"
	"github.com/confhub/server/internal/port/inbound"
	"github.com/confhub/server/internal/port/outbound"
)

// Mock implementations

type mockInvitationDB struct {
	mock.Mock
}

func (m *mockInvitationDB) Create(ctx context.Context, invitation *model.ReviewInvitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

func (m *mockInvitationDB) FindByID(ctx context.Context, id uuid.UUID) (*model.ReviewInvitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReviewInvitation), args.Error(1)
}

func (m *mockInvitationDB) FindByPaper(ctx context.Context, paperID uuid.UUID) ([]*model.ReviewInvitation, error) {
	args := m.Called(ctx, paperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ReviewInvitation), args.Error(1)
}

func (m *mockInvitationDB) Update(ctx context.Context, invitation *model.ReviewInvitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

type mockAssignmentDB struct {
	mock.Mock
}

func (m *mockAssignmentDB) Create(ctx context.Context, assignment *model.ReviewAssignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *mockAssignmentDB) FindByPaper(ctx context.Context, paperID uuid.UUID) ([]*model.ReviewAssignment, error) {
	args := m.Called(ctx, paperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ReviewAssignment), args.Error(1)
}

func (m *mockAssignmentDB) CountByPaper(ctx context.Context, paperID uuid.UUID) (int, error) {
	args := m.Called(ctx, paperID)
	return args.Int(0), args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, mail *outbound.InvitationMail) error {
	args := m.Called(ctx, mail)
	return args.Error(0)
}

// Stateful in-memory stores for sequential flows where per-call mock
// expectations would hide the store state between calls.

type fakeInvitationStore struct {
	invitations map[uuid.UUID]model.ReviewInvitation
}

func newFakeInvitationStore() *fakeInvitationStore {
	return &fakeInvitationStore{invitations: make(map[uuid.UUID]model.ReviewInvitation)}
}

func (s *fakeInvitationStore) Create(_ context.Context, invitation *model.ReviewInvitation) error {
	s.invitations[invitation.ID] = *invitation
	return nil
}

func (s *fakeInvitationStore) FindByID(_ context.Context, id uuid.UUID) (*model.ReviewInvitation, error) {
	invitation, ok := s.invitations[id]
	if !ok {
		return nil, ErrInvitationNotFound
	}
	return &invitation, nil
}

func (s *fakeInvitationStore) FindByPaper(_ context.Context, paperID uuid.UUID) ([]*model.ReviewInvitation, error) {
	var found []*model.ReviewInvitation
	for id := range s.invitations {
		invitation := s.invitations[id]
		if invitation.PaperID == paperID {
			found = append(found, &invitation)
		}
	}
	return found, nil
}

func (s *fakeInvitationStore) Update(_ context.Context, invitation *model.ReviewInvitation) error {
	if _, ok := s.invitations[invitation.ID]; !ok {
		return ErrInvitationNotFound
	}
	s.invitations[invitation.ID] = *invitation
	return nil
}

type fakeAssignmentStore struct {
	assignments []model.ReviewAssignment
}

func (s *fakeAssignmentStore) Create(_ context.Context, assignment *model.ReviewAssignment) error {
	s.assignments = append(s.assignments, *assignment)
	return nil
}

func (s *fakeAssignmentStore) FindByPaper(_ context.Context, paperID uuid.UUID) ([]*model.ReviewAssignment, error) {
	var found []*model.ReviewAssignment
	for i := range s.assignments {
		if s.assignments[i].PaperID == paperID {
			found = append(found, &s.assignments[i])
		}
	}
	return found, nil
}

func (s *fakeAssignmentStore) CountByPaper(_ context.Context, paperID uuid.UUID) (int, error) {
	count := 0
	for i := range s.assignments {
		if s.assignments[i].PaperID == paperID {
			count++
		}
	}
	return count, nil
}

func setupService() (*Service, *mockInvitationDB, *mockAssignmentDB, *mockMailer) {
	invitationDB := new(mockInvitationDB)
	assignmentDB := new(mockAssignmentDB)
	mailer := new(mockMailer)

	cfg := DefaultConfig()
	cfg.BaseURL = "https://conf.example.org/invitations"

	service := NewService(invitationDB, assignmentDB, mailer, cfg, zap.NewNop())

	return service, invitationDB, assignmentDB, mailer
}

func pendingInvitation(now time.Time) *model.ReviewInvitation {
	return &model.ReviewInvitation{
		ID:            uuid.New(),
		PaperID:       uuid.New(),
		PaperTitle:    "Quantum Routing at Scale",
		ReviewerEmail: "reviewer@example.org",
		Status:        model.InvitationStatusPending,
		SentAt:        now,
		ExpiresAt:     now.Add(7 * 24 * time.Hour),
	}
}

// Tests

func TestService_SendInvitation(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service, invitationDB, _, mailer := setupService()
		ctx := context.Background()
		paperID := uuid.New()

		invitationDB.On("Create", ctx, mock.AnythingOfType("*model.ReviewInvitation")).Return(nil)
		mailer.On("Send", ctx, mock.AnythingOfType("*outbound.InvitationMail")).Return(nil)

		output, err := service.SendInvitation(ctx, &inbound.SendInvitationInput{
			PaperID:       paperID,
			PaperTitle:    "Quantum Routing at Scale",
			ReviewerEmail: "  Reviewer@Example.ORG ",
		})

		require.NoError(t, err)
		require.NotNil(t, output)
		assert.Equal(t, model.InvitationStatusPending, output.Invitation.Status)
		assert.Equal(t, "reviewer@example.org", output.Invitation.ReviewerEmail)
		assert.Equal(t, paperID, output.Invitation.PaperID)
		assert.Equal(t, 7*24*time.Hour, output.Invitation.ExpiresAt.Sub(output.Invitation.SentAt))
		require.NotNil(t, output.Email)
		assert.Equal(t, "reviewer@example.org", output.Email.To)
		assert.Contains(t, output.Email.AcceptLink, output.Invitation.ID.String())
		assert.Contains(t, output.Email.AcceptLink, "/respond?decision=accept")
		assert.Contains(t, output.Email.RejectLink, "/respond?decision=reject")
		assert.Contains(t, output.Email.Subject, "Quantum Routing at Scale")

		invitationDB.AssertExpectations(t)
		mailer.AssertExpectations(t)
	})

	t.Run("invalid_input", func(t *testing.T) {
		service, invitationDB, _, mailer := setupService()
		ctx := context.Background()

		output, err := service.SendInvitation(ctx, &inbound.SendInvitationInput{
			PaperID:       uuid.New(),
			PaperTitle:    "Quantum Routing at Scale",
			ReviewerEmail: "   ",
		})

		assert.Nil(t, output)
		assert.ErrorIs(t, err, ErrInvalidRequest)
		invitationDB.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("store_failure", func(t *testing.T) {
		service, invitationDB, _, mailer := setupService()
		ctx := context.Background()

		invitationDB.On("Create", ctx, mock.AnythingOfType("*model.ReviewInvitation")).
			Return(errors.New("connection refused"))

		output, err := service.SendInvitation(ctx, &inbound.SendInvitationInput{
			PaperID:       uuid.New(),
			PaperTitle:    "Quantum Routing at Scale",
			ReviewerEmail: "reviewer@example.org",
		})

		assert.Nil(t, output)
		assert.ErrorIs(t, err, ErrInvitationStoreFailed)
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("email_failure_keeps_invitation", func(t *testing.T) {
		service, invitationDB, _, mailer := setupService()
		ctx := context.Background()

		invitationDB.On("Create", ctx, mock.AnythingOfType("*model.ReviewInvitation")).Return(nil)
		mailer.On("Send", ctx, mock.AnythingOfType("*outbound.InvitationMail")).
			Return(errors.New("relay down"))

		output, err := service.SendInvitation(ctx, &inbound.SendInvitationInput{
			PaperID:       uuid.New(),
			PaperTitle:    "Quantum Routing at Scale",
			ReviewerEmail: "reviewer@example.org",
		})

		assert.ErrorIs(t, err, ErrEmailSendFailed)
		require.NotNil(t, output)
		require.NotNil(t, output.Invitation)
		assert.Equal(t, model.InvitationStatusPending, output.Invitation.Status)
	})
}

func TestService_ResendInvitation(t *testing.T) {
	t.Run("resets_to_pending", func(t *testing.T) {
		service, invitationDB, _, mailer := setupService()
		ctx := context.Background()

		respondedAt := time.Now().Add(-48 * time.Hour)
		invitation := pendingInvitation(time.Now().Add(-30 * 24 * time.Hour))
		invitation.Status = model.InvitationStatusExpired
		invitation.RespondedAt = &respondedAt

		invitationDB.On("FindByID", ctx, invitation.ID).Return(invitation, nil)
		invitationDB.On("Update", ctx, invitation).Return(nil)
		mailer.On("Send", ctx, mock.AnythingOfType("*outbound.InvitationMail")).Return(nil)

		output, err := service.ResendInvitation(ctx, invitation.ID)

		require.NoError(t, err)
		assert.Equal(t, model.InvitationStatusPending, output.Invitation.Status)
		assert.Nil(t, output.Invitation.RespondedAt)
		assert.True(t, output.Invitation.ExpiresAt.After(time.Now()))

		invitationDB.AssertExpectations(t)
		mailer.AssertExpectations(t)
	})

	t.Run("not_found", func(t *testing.T) {
		service, invitationDB, _, _ := setupService()
		ctx := context.Background()
		id := uuid.New()

		invitationDB.On("FindByID", ctx, id).Return(nil, ErrInvitationNotFound)

		output, err := service.ResendInvitation(ctx, id)

		assert.Nil(t, output)
		assert.ErrorIs(t, err, ErrInvitationNotFound)
	})
}

func TestService_RecordResponse(t *testing.T) {
	t.Run("accept_success", func(t *testing.T) {
		service, invitationDB, assignmentDB, _ := setupService()
		ctx := context.Background()
		now := time.Now()
		invitation := pendingInvitation(now.Add(-time.Hour))

		invitationDB.On("FindByID", ctx, invitation.ID).Return(invitation, nil)
		invitationDB.On("Update", ctx, invitation).Return(nil).Once()
		assignmentDB.On("Create", ctx, mock.AnythingOfType("*model.ReviewAssignment")).Return(nil).Once()

		output, err := service.RecordResponse(ctx, &inbound.RecordResponseInput{
			InvitationID: invitation.ID,
			Decision:     DecisionAccept,
			Now:          now,
		})

		require.NoError(t, err)
		assert.Equal(t, model.InvitationStatusAccepted, output.Invitation.Status)
		require.NotNil(t, output.Invitation.RespondedAt)
		assert.Equal(t, now, *output.Invitation.RespondedAt)
		require.NotNil(t, output.Assignment)
		assert.Equal(t, model.AssignmentStatusAccepted, output.Assignment.Status)
		assert.Equal(t, invitation.PaperID, output.Assignment.PaperID)
		assert.Equal(t, invitation.ReviewerEmail, output.Assignment.ReviewerEmail)
		assert.Equal(t, now, output.Assignment.AssignedAt)

		invitationDB.AssertExpectations(t)
		assignmentDB.AssertExpectations(t)
	})

	t.Run("reject_success", func(t *testing.T) {
		service, invitationDB, assignmentDB, _ := setupService()
		ctx := context.Background()
		now := time.Now()
		invitation := pendingInvitation(now.Add(-time.Hour))

		invitationDB.On("FindByID", ctx, invitation.ID).Return(invitation, nil)
		invitationDB.On("Update", ctx, invitation).Return(nil).Once()
		assignmentDB.On("Create", ctx, mock.AnythingOfType("*model.ReviewAssignment")).Return(nil).Once()

		output, err := service.RecordResponse(ctx, &inbound.RecordResponseInput{
			InvitationID: invitation.ID,
			Decision:     DecisionReject,
			Now:          now,
		})

		require.NoError(t, err)
		assert.Equal(t, model.InvitationStatusRejected, output.Invitation.Status)
		assert.Equal(t, model.AssignmentStatusRejected, output.Assignment.Status)
	})

	t.Run("invalid_decision_touches_no_store", func(t *testing.T) {
		service, invitationDB, assignmentDB, _ := setupService()
		ctx := context.Background()

		output, err := service.RecordResponse(ctx, &inbound.RecordResponseInput{
			InvitationID: uuid.New(),
			Decision:     "maybe",
			Now:          time.Now(),
		})

		assert.Nil(t, output)
		assert.ErrorIs(t, err, ErrInvalidDecision)
		invitationDB.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		invitationDB.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		assignmentDB.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate_response", func(t *testing.T) {
		service, invitationDB, assignmentDB, _ := setupService()
		ctx := context.Background()
		now := time.Now()
		invitation := pendingInvitation(now.Add(-time.Hour))
		invitation.Status = model.InvitationStatusAccepted
		respondedAt := now.Add(-30 * time.Minute)
		invitation.RespondedAt = &respondedAt

		invitationDB.On("FindByID", ctx, invitation.ID).Return(invitation, nil)

		output, err := service.RecordResponse(ctx, &inbound.RecordResponseInput{
			InvitationID: invitation.ID,
			Decision:     DecisionReject,
			Now:          now,
		})

		assert.Nil(t, output)
		assert.ErrorIs(t, err, ErrDuplicateResponse)
		invitationDB.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		assignmentDB.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("not_found", func(t *testing.T) {
		service, invitationDB, _, _ := setupService()
		ctx := context.Background()
		id := uuid.New()

		invitationDB.On("FindByID", ctx, id).Return(nil, ErrInvitationNotFound)

		output, err := service.RecordResponse(ctx, &inbound.RecordResponseInput{
			InvitationID: id,
			Decision:     DecisionAccept,
			Now:          time.Now(),
		})

		assert.Nil(t, output)
		assert.ErrorIs(t, err, ErrInvitationNotFound)
	})

	t.Run("second_response_rejected_end_to_end", func(t *testing.T) {
		invitationStore := newFakeInvitationStore()
		assignmentStore := new(fakeAssignmentStore)
		cfg := DefaultConfig()
		cfg.BaseURL = "https://conf.example.org/invitations"
		service := NewService(invitationStore, assignmentStore, new(mockMailer), cfg, zap.NewNop())

		ctx := context.Background()
		now := time.Now()
		invitation := pendingInvitation(now.Add(-time.Hour))
		require.NoError(t, invitationStore.Create(ctx, invitation))

		first, firstErr := service.RecordResponse(ctx, &inbound.RecordResponseInput{
			InvitationID: invitation.ID,
			Decision:     DecisionAccept,
			Now:          now,
		})
		second, secondErr := service.RecordResponse(ctx, &inbound.RecordResponseInput{
			InvitationID: invitation.ID,
			Decision:     DecisionReject,
			Now:          now.Add(time.Minute),
		})

		require.NoError(t, firstErr)
		require.NotNil(t, first.Assignment)
		assert.Nil(t, second)
		assert.ErrorIs(t, secondErr, ErrDuplicateResponse)

		// Exactly one assignment exists and the stored invitation kept the
		// first decision.
		count, err := assignmentStore.CountByPaper(ctx, invitation.PaperID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		stored, err := invitationStore.FindByID(ctx, invitation.ID)
		require.NoError(t, err)
		assert.Equal(t, model.InvitationStatusAccepted, stored.Status)
		require.NotNil(t, stored.RespondedAt)
		assert.Equal(t, now, *stored.RespondedAt)
	})

	t.Run("expired_writes_status_once", func(t *testing.T) {
		service, invitationDB, assignmentDB, _ := setupService()
		ctx := context.Background()
		sentAt := time.Now().Add(-8 * 24 * time.Hour)
		invitation := pendingInvitation(sentAt)

		invitationDB.On("FindByID", ctx, invitation.ID).Return(invitation, nil)
		invitationDB.On("Update", ctx, invitation).Return(nil).Once()

		output, err := service.RecordResponse(ctx, &inbound.RecordResponseInput{
			InvitationID: invitation.ID,
			Decision:     DecisionAccept,
			Now:          time.Now(),
		})

		assert.Nil(t, output)
		assert.ErrorIs(t, err, ErrInvitationExpired)
		assert.Equal(t, model.InvitationStatusExpired, invitation.Status)
		assignmentDB.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		invitationDB.AssertExpectations(t)

		// A second response attempt reports expired again without another
		// status write.
		output, err = service.RecordResponse(ctx, &inbound.RecordResponseInput{
			InvitationID: invitation.ID,
			Decision:     DecisionAccept,
			Now:          time.Now(),
		})

		assert.Nil(t, output)
		assert.ErrorIs(t, err, ErrInvitationExpired)
		invitationDB.AssertNumberOfCalls(t, "Update", 1)
	})

	t.Run("expiry_boundary", func(t *testing.T) {
		service, invitationDB, assignmentDB, _ := setupService()
		ctx := context.Background()
		sentAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		invitation := pendingInvitation(sentAt)

		invitationDB.On("FindByID", ctx, invitation.ID).Return(invitation, nil)
		invitationDB.On("Update", ctx, invitation).Return(nil)

		// One millisecond past the seven-day expiry is rejected.
		output, err := service.RecordResponse(ctx, &inbound.RecordResponseInput{
			InvitationID: invitation.ID,
			Decision:     DecisionAccept,
			Now:          sentAt.Add(7*24*time.Hour + time.Millisecond),
		})

		assert.Nil(t, output)
		assert.ErrorIs(t, err, ErrInvitationExpired)
		assignmentDB.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("just_before_expiry_accepted", func(t *testing.T) {
		service, invitationDB, assignmentDB, _ := setupService()
		ctx := context.Background()
		sentAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		invitation := pendingInvitation(sentAt)

		invitationDB.On("FindByID", ctx, invitation.ID).Return(invitation, nil)
		invitationDB.On("Update", ctx, invitation).Return(nil).Once()
		assignmentDB.On("Create", ctx, mock.AnythingOfType("*model.ReviewAssignment")).Return(nil).Once()

		output, err := service.RecordResponse(ctx, &inbound.RecordResponseInput{
			InvitationID: invitation.ID,
			Decision:     DecisionAccept,
			Now:          sentAt.Add(7*24*time.Hour - time.Second),
		})

		require.NoError(t, err)
		assert.Equal(t, model.InvitationStatusAccepted, output.Invitation.Status)
	})

	t.Run("assignment_failure_restores_invitation", func(t *testing.T) {
		service, invitationDB, assignmentDB, _ := setupService()
		ctx := context.Background()
		now := time.Now()
		invitation := pendingInvitation(now.Add(-time.Hour))

		invitationDB.On("FindByID", ctx, invitation.ID).Return(invitation, nil)
		invitationDB.On("Update", ctx, invitation).Return(nil)
		assignmentDB.On("Create", ctx, mock.AnythingOfType("*model.ReviewAssignment")).
			Return(errors.New("disk full"))

		output, err := service.RecordResponse(ctx, &inbound.RecordResponseInput{
			InvitationID: invitation.ID,
			Decision:     DecisionAccept,
			Now:          now,
		})

		assert.Nil(t, output)
		assert.ErrorIs(t, err, ErrRecordFailed)

		// Transition then compensation.
		invitationDB.AssertNumberOfCalls(t, "Update", 2)
		assert.Equal(t, model.InvitationStatusPending, invitation.Status)
		assert.Nil(t, invitation.RespondedAt)
	})

	t.Run("update_failure", func(t *testing.T) {
		service, invitationDB, assignmentDB, _ := setupService()
		ctx := context.Background()
		now := time.Now()
		invitation := pendingInvitation(now.Add(-time.Hour))

		invitationDB.On("FindByID", ctx, invitation.ID).Return(invitation, nil)
		invitationDB.On("Update", ctx, invitation).Return(errors.New("connection reset"))

		output, err := service.RecordResponse(ctx, &inbound.RecordResponseInput{
			InvitationID: invitation.ID,
			Decision:     DecisionAccept,
			Now:          now,
		})

		assert.Nil(t, output)
		assert.ErrorIs(t, err, ErrRecordFailed)
		assignmentDB.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestService_EvaluateOverassignment(t *testing.T) {
	t.Run("over_threshold", func(t *testing.T) {
		service, _, assignmentDB, _ := setupService()
		ctx := context.Background()
		paperID := uuid.New()

		assignmentDB.On("CountByPaper", ctx, paperID).Return(4, nil)

		output, err := service.EvaluateOverassignment(ctx, paperID)

		require.NoError(t, err)
		assert.Equal(t, 4, output.Count)
		assert.True(t, output.Overassigned)
	})

	t.Run("at_threshold", func(t *testing.T) {
		service, _, assignmentDB, _ := setupService()
		ctx := context.Background()
		paperID := uuid.New()

		assignmentDB.On("CountByPaper", ctx, paperID).Return(3, nil)

		output, err := service.EvaluateOverassignment(ctx, paperID)

		require.NoError(t, err)
		assert.Equal(t, 3, output.Count)
		assert.False(t, output.Overassigned)
	})

	t.Run("count_unavailable", func(t *testing.T) {
		service, _, assignmentDB, _ := setupService()
		ctx := context.Background()
		paperID := uuid.New()

		assignmentDB.On("CountByPaper", ctx, paperID).Return(0, errors.New("timeout"))

		output, err := service.EvaluateOverassignment(ctx, paperID)

		assert.Nil(t, output)
		assert.ErrorIs(t, err, ErrCountUnavailable)
	})
}
