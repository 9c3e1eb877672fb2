package schedule

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "github.com/confhub/server/internal/domain/schedule"
	"github.com/confhub/server/internal/model"
	"github.com/confhub/server/internal/port/inbound"
	apperrors "github.com/confhub/server/internal/shared/errors"
)

type mockScheduleService struct {
	mock.Mock
}

func (m *mockScheduleService) ValidateEdit(ctx context.Context, entryID uuid.UUID, updates *inbound.ScheduleEntryUpdate) (*model.ScheduleEntry, error) {
	args := m.Called(ctx, entryID, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScheduleEntry), args.Error(1)
}

func (m *mockScheduleService) Agenda(ctx context.Context, conferenceID uuid.UUID) (*inbound.AgendaOutput, error) {
	args := m.Called(ctx, conferenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.AgendaOutput), args.Error(1)
}

func setupTestRouter(service inbound.ScheduleDomain) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(service, nil)
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func putEntry(router *gin.Engine, entryID uuid.UUID) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut,
		"/api/v1/schedule/entries/"+entryID.String(),
		strings.NewReader(`{"room_id":"r1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_UpdateEntry(t *testing.T) {
	t.Run("error_statuses", func(t *testing.T) {
		cases := []struct {
			name   string
			err    error
			status int
			code   string
		}{
			{"entry_not_found", domain.ErrEntryNotFound, http.StatusNotFound, "NOT_FOUND"},
			{"unscheduled", domain.ErrUnscheduled, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
			{"invalid_time", domain.ErrInvalidTime, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
			{"duplicate_paper", domain.ErrDuplicatePaper, http.StatusConflict, "CONFLICT"},
			{"store_failure", domain.ErrScheduleStoreFailed, http.StatusInternalServerError, "INTERNAL_ERROR"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				service := new(mockScheduleService)
				service.On("ValidateEdit", mock.Anything, mock.AnythingOfType("uuid.UUID"),
					mock.AnythingOfType("*inbound.ScheduleEntryUpdate")).Return(nil, tc.err)
				router := setupTestRouter(service)

				w := putEntry(router, uuid.New())

				assert.Equal(t, tc.status, w.Code)
				var resp apperrors.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tc.code, resp.Error.Code)
			})
		}
	})

	t.Run("room_conflict_carries_details", func(t *testing.T) {
		conflicting := &model.ScheduleEntry{ID: uuid.New(), PaperID: uuid.New()}
		service := new(mockScheduleService)
		service.On("ValidateEdit", mock.Anything, mock.AnythingOfType("uuid.UUID"),
			mock.AnythingOfType("*inbound.ScheduleEntryUpdate")).
			Return(nil, &domain.RoomConflictError{Entry: conflicting})
		router := setupTestRouter(service)

		w := putEntry(router, uuid.New())

		assert.Equal(t, http.StatusConflict, w.Code)
		var resp struct {
			Error   string         `json:"error"`
			Details map[string]any `json:"details"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "room_conflict", resp.Error)
		assert.Equal(t, conflicting.ID.String(), resp.Details["conflicting_entry_id"])
		assert.Equal(t, conflicting.PaperID.String(), resp.Details["conflicting_paper_id"])
	})
}

func TestHandler_Agenda(t *testing.T) {
	t.Run("conference_not_found", func(t *testing.T) {
		service := new(mockScheduleService)
		service.On("Agenda", mock.Anything, mock.AnythingOfType("uuid.UUID")).
			Return(nil, domain.ErrConferenceNotFound)
		router := setupTestRouter(service)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/api/v1/conferences/"+uuid.NewString()+"/agenda", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		var resp apperrors.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	})
}
