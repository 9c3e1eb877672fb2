package review

import (
	"fmt"
	"strings"

	"github.com/confhub/server/internal/model"
	"github.com/confhub/server/internal/port/outbound"
)

// composeInvitationMail builds the invitation email artifact. Response links
// have the form {baseURL}/{invitationID}/respond?decision={accept|reject}.
func composeInvitationMail(invitation *model.ReviewInvitation, baseURL string) *outbound.InvitationMail {
	base := strings.TrimRight(baseURL, "/")
	acceptLink := fmt.Sprintf("%s/%s/respond?decision=%s", base, invitation.ID, DecisionAccept)
	rejectLink := fmt.Sprintf("%s/%s/respond?decision=%s", base, invitation.ID, DecisionReject)

	subject := fmt.Sprintf("Review invitation: %s", invitation.PaperTitle)
	body := fmt.Sprintf(
		"You have been invited to review the paper %q (paper %s).\n\n"+
			"Accept: %s\nDecline: %s\n\n"+
			"This invitation expires on %s.\n",
		invitation.PaperTitle,
		invitation.PaperID,
		acceptLink,
		rejectLink,
		invitation.ExpiresAt.UTC().Format("2006-01-02 15:04 MST"),
	)

	return &outbound.InvitationMail{
		To:         invitation.ReviewerEmail,
		Subject:    subject,
		Body:       body,
		AcceptLink: acceptLink,
		RejectLink: rejectLink,
	}
}
