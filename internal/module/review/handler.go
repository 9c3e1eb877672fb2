package review

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/confhub/server/internal/domain/review"
	"github.com/confhub/server/internal/model"
	"github.com/confhub/server/internal/port/inbound"
	apperrors "github.com/confhub/server/internal/shared/errors"
	"github.com/confhub/server/internal/shared/response"
	"github.com/confhub/server/internal/utils/metrics"
)

// Handler handles HTTP requests for the review workflow.
type Handler struct {
	service inbound.ReviewDomain
	metrics *metrics.Metrics
}

// NewHandler creates a new review handler.
func NewHandler(service inbound.ReviewDomain, m *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		metrics: m,
	}
}

// RegisterRoutes registers the authenticated review routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	invitations := r.Group("/invitations")
	{
		invitations.POST("", h.SendInvitation)
		invitations.POST("/:id/resend", h.ResendInvitation)
	}

	papers := r.Group("/papers")
	{
		papers.GET("/:id/reviewers", h.ReviewerReport)
	}
}

// RegisterPublicRoutes registers the routes reachable from invitation
// emails without authentication.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/invitations/:id/respond", h.RespondToInvitation)
}

// invitationResponse is the wire representation of an invitation.
type invitationResponse struct {
	ID            uuid.UUID  `json:"id"`
	PaperID       uuid.UUID  `json:"paper_id"`
	PaperTitle    string     `json:"paper_title"`
	ReviewerEmail string     `json:"reviewer_email"`
	Status        string     `json:"status"`
	SentAt        time.Time  `json:"sent_at"`
	ExpiresAt     time.Time  `json:"expires_at"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`
}

func toInvitationResponse(inv *model.ReviewInvitation) invitationResponse {
	return invitationResponse{
		ID:            inv.ID,
		PaperID:       inv.PaperID,
		PaperTitle:    inv.PaperTitle,
		ReviewerEmail: inv.ReviewerEmail,
		Status:        string(inv.Status),
		SentAt:        inv.SentAt,
		ExpiresAt:     inv.ExpiresAt,
		RespondedAt:   inv.RespondedAt,
	}
}

// SendInvitation handles creating and dispatching a review invitation.
func (h *Handler) SendInvitation(c *gin.Context) {
	var input inbound.SendInvitationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	out, err := h.service.SendInvitation(c.Request.Context(), &input)
	if err != nil {
		// The invitation is persisted even when the relay rejects the
		// email; it stays pending and can be resent.
		if errors.Is(err, domain.ErrEmailSendFailed) && out != nil && out.Invitation != nil {
			h.recordSend("email_failed")
			c.JSON(http.StatusAccepted, gin.H{
				"invitation":     toInvitationResponse(out.Invitation),
				"email_delivery": "failed",
			})
			return
		}
		h.recordSend("error")
		h.handleError(c, err)
		return
	}

	h.recordSend("sent")
	c.JSON(http.StatusCreated, gin.H{"invitation": toInvitationResponse(out.Invitation)})
}

// ResendInvitation handles re-dispatching an existing invitation.
func (h *Handler) ResendInvitation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid invitation id")
		return
	}

	out, err := h.service.ResendInvitation(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrEmailSendFailed) && out != nil && out.Invitation != nil {
			h.recordSend("email_failed")
			c.JSON(http.StatusAccepted, gin.H{
				"invitation":     toInvitationResponse(out.Invitation),
				"email_delivery": "failed",
			})
			return
		}
		h.recordSend("error")
		h.handleError(c, err)
		return
	}

	h.recordSend("resent")
	c.JSON(http.StatusOK, gin.H{"invitation": toInvitationResponse(out.Invitation)})
}

// RespondToInvitation handles the accept/reject link from the invitation
// email.
func (h *Handler) RespondToInvitation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid invitation id")
		return
	}
	decision := c.Query("decision")

	out, err := h.service.RecordResponse(c.Request.Context(), &inbound.RecordResponseInput{
		InvitationID: id,
		Decision:     decision,
		Now:          time.Now().UTC(),
	})
	if err != nil {
		h.recordResponse(decision, responseResult(err))
		h.handleError(c, err)
		return
	}

	h.recordResponse(decision, "recorded")
	c.JSON(http.StatusOK, gin.H{
		"invitation": toInvitationResponse(out.Invitation),
	})
}

// ReviewerReport handles the per-paper reviewer load report.
func (h *Handler) ReviewerReport(c *gin.Context) {
	paperID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid paper id")
		return
	}

	out, err := h.service.EvaluateOverassignment(c.Request.Context(), paperID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *Handler) recordSend(result string) {
	if h.metrics != nil {
		h.metrics.InvitationsSentTotal.WithLabelValues(result).Inc()
	}
}

func (h *Handler) recordResponse(decision, result string) {
	if h.metrics != nil {
		h.metrics.ResponsesTotal.WithLabelValues(decision, result).Inc()
	}
}

// responseResult classifies a response error for metrics.
func responseResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateResponse),
		errors.Is(err, domain.ErrInvitationExpired),
		errors.Is(err, domain.ErrInvalidDecision),
		errors.Is(err, domain.ErrInvitationNotFound):
		return "rejected"
	default:
		return "error"
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	response.AppError(c, appError(err))
}

// appError maps domain errors onto application errors with HTTP statuses.
func appError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return apperrors.BadRequest(domain.ErrInvalidRequest.Error())
	case errors.Is(err, domain.ErrInvalidDecision):
		return apperrors.BadRequest(domain.ErrInvalidDecision.Error())
	case errors.Is(err, domain.ErrInvitationNotFound):
		return apperrors.NotFound("invitation")
	case errors.Is(err, domain.ErrDuplicateResponse):
		return apperrors.Conflict(domain.ErrDuplicateResponse.Error())
	case errors.Is(err, domain.ErrInvitationExpired):
		return apperrors.Gone(domain.ErrInvitationExpired.Error())
	case errors.Is(err, domain.ErrEmailSendFailed):
		return apperrors.NewAppError("EMAIL_SEND_FAILED",
			domain.ErrEmailSendFailed.Error(), http.StatusBadGateway, err)
	case errors.Is(err, domain.ErrCountUnavailable):
		return apperrors.Unavailable(domain.ErrCountUnavailable.Error())
	default:
		return apperrors.Internal("internal error", err)
	}
}
