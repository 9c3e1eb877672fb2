package schedule

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/confhub/server/internal/domain/schedule"
	"github.com/confhub/server/internal/port/inbound"
	apperrors "github.com/confhub/server/internal/shared/errors"
	"github.com/confhub/server/internal/shared/response"
	"github.com/confhub/server/internal/utils/metrics"
)

// Handler handles HTTP requests for schedule editing and the agenda view.
type Handler struct {
	service inbound.ScheduleDomain
	metrics *metrics.Metrics
}

// NewHandler creates a new schedule handler.
func NewHandler(service inbound.ScheduleDomain, m *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		metrics: m,
	}
}

// RegisterRoutes registers the schedule routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	sched := r.Group("/schedule")
	{
		sched.PUT("/entries/:id", h.UpdateEntry)
	}

	conferences := r.Group("/conferences")
	{
		conferences.GET("/:id/agenda", h.Agenda)
	}
}

// UpdateEntry handles a proposed schedule entry edit. The edit is persisted
// only when it passes window, conflict and duplicate checks.
func (h *Handler) UpdateEntry(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid entry id")
		return
	}

	var updates inbound.ScheduleEntryUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entry, err := h.service.ValidateEdit(c.Request.Context(), entryID, &updates)
	if err != nil {
		h.recordValidation(validationResult(err))
		h.handleEditError(c, err)
		return
	}

	h.recordValidation("valid")
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// Agenda handles the room-grouped agenda projection for a conference.
func (h *Handler) Agenda(c *gin.Context) {
	conferenceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid conference id")
		return
	}

	agenda, err := h.service.Agenda(c.Request.Context(), conferenceID)
	if err != nil {
		response.AppError(c, scheduleAppError(err))
		return
	}

	c.JSON(http.StatusOK, agenda)
}

func (h *Handler) handleEditError(c *gin.Context, err error) {
	// Conflict and window rejections carry details worth surfacing.
	var conflictErr *domain.RoomConflictError
	if errors.As(err, &conflictErr) {
		response.ErrorWithDetails(c, http.StatusConflict, "room_conflict", gin.H{
			"conflicting_entry_id": conflictErr.Entry.ID,
			"conflicting_paper_id": conflictErr.Entry.PaperID,
		})
		return
	}
	var windowErr *domain.WindowError
	if errors.As(err, &windowErr) {
		response.ErrorWithDetails(c, http.StatusConflict, "outside_window", gin.H{
			"window_start": windowErr.Start,
			"window_end":   windowErr.End,
		})
		return
	}

	response.AppError(c, scheduleAppError(err))
}

// scheduleAppError maps domain errors onto application errors with HTTP
// statuses.
func scheduleAppError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, domain.ErrEntryNotFound):
		return apperrors.NotFound("schedule entry")
	case errors.Is(err, domain.ErrConferenceNotFound):
		return apperrors.NotFound("conference")
	case errors.Is(err, domain.ErrUnscheduled):
		return apperrors.ValidationError(domain.ErrUnscheduled.Error())
	case errors.Is(err, domain.ErrInvalidTime):
		return apperrors.ValidationError(domain.ErrInvalidTime.Error())
	case errors.Is(err, domain.ErrDuplicatePaper):
		return apperrors.Conflict(domain.ErrDuplicatePaper.Error())
	case errors.Is(err, domain.ErrOutsideWindow):
		return apperrors.Conflict(domain.ErrOutsideWindow.Error())
	case errors.Is(err, domain.ErrRoomConflict):
		return apperrors.Conflict(domain.ErrRoomConflict.Error())
	default:
		return apperrors.Internal("internal error", err)
	}
}

func (h *Handler) recordValidation(result string) {
	if h.metrics != nil {
		h.metrics.ScheduleValidationsTotal.WithLabelValues(result).Inc()
	}
}

// validationResult classifies a validation error for metrics.
func validationResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrRoomConflict):
		return "room_conflict"
	case errors.Is(err, domain.ErrOutsideWindow):
		return "outside_window"
	case errors.Is(err, domain.ErrDuplicatePaper):
		return "duplicate_paper"
	case errors.Is(err, domain.ErrUnscheduled):
		return "unscheduled"
	case errors.Is(err, domain.ErrInvalidTime):
		return "invalid_time"
	case errors.Is(err, domain.ErrEntryNotFound):
		return "not_found"
	default:
		return "error"
	}
}
