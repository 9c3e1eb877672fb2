package review

import "time"

// Config holds review domain configuration.
type Config struct {
	// InvitationExpiry is how long an invitation is valid.
	InvitationExpiry time.Duration

	// MaxReviewersPerPaper is the assignment count above which a paper is
	// flagged as overassigned.
	MaxReviewersPerPaper int

	// BaseURL is the base URL for invitation response links.
	BaseURL string

	// MailFrom is the sender address on invitation emails.
	MailFrom string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		InvitationExpiry:     7 * 24 * time.Hour, // 7 days
		MaxReviewersPerPaper: 3,
		BaseURL:              "",
		MailFrom:             "review@confhub.local",
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.InvitationExpiry <= 0 {
		c.InvitationExpiry = 7 * 24 * time.Hour
	}
	if c.MaxReviewersPerPaper <= 0 {
		c.MaxReviewersPerPaper = 3
	}
	if c.MailFrom == "" {
		c.MailFrom = "review@confhub.local"
	}
	return nil
}
