package review

import "errors"

// Domain errors for the review module.
var (
	// Business rejections
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrDuplicateResponse  = errors.New("invitation has already been responded to")
	ErrInvitationExpired  = errors.New("invitation has expired")

	// Input validation
	ErrInvalidRequest  = errors.New("invalid request")
	ErrInvalidDecision = errors.New("decision must be accept or reject")

	// Infrastructure failures
	ErrLookupFailed          = errors.New("invitation lookup failed")
	ErrExpiryWriteFailed     = errors.New("invitation expiry write failed")
	ErrRecordFailed          = errors.New("response recording failed")
	ErrInvitationStoreFailed = errors.New("invitation store write failed")
	ErrEmailSendFailed       = errors.New("invitation email dispatch failed")
	ErrCountUnavailable      = errors.New("assignment count unavailable")
)
