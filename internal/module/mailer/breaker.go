package mailer

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/confhub/server/internal/port/outbound"
)

// Breaker wraps a mail dispatcher with a circuit breaker so a flapping SMTP
// relay fails fast instead of stalling every invitation send. Invitations
// stay pending on failure and can be resent once the relay recovers.
type Breaker struct {
	next outbound.InvitationMailerPort
	cb   *gobreaker.CircuitBreaker[any]
}

// NewBreaker creates a new circuit-breaking mail dispatcher.
func NewBreaker(next outbound.InvitationMailerPort, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}

	settings := gobreaker.Settings{
		Name:        "invitation-mailer",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("mailer circuit state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &Breaker{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[any](settings),
	}
}

// Send dispatches the email through the circuit breaker.
func (b *Breaker) Send(ctx context.Context, mail *outbound.InvitationMail) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.next.Send(ctx, mail)
	})
	return err
}

// Compile-time interface check
var _ outbound.InvitationMailerPort = (*Breaker)(nil)
