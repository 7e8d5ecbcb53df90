package audit

import "time"

// Entry records one codec operation (issue, verify, refresh, exchange).
type Entry struct {
	// ID is the unique request ID (X-Correlation-ID).
	ID string `json:"id"`

	// Time is the timestamp of the event.
	Time time.Time `json:"time"`

	// Action describes what happened (e.g. "token.issue", "token.verify").
	Action string `json:"action"`

	// Kind is the token variant prefix involved, if known.
	Kind string `json:"kind,omitempty"`

	// Issuer is the issuer URL the operation ran against.
	Issuer string `json:"issuer,omitempty"`

	// Subject identifies the principal, where the operation got far enough
	// to know it.
	Subject string `json:"subject,omitempty"`

	// Fingerprint is the non-reversible fingerprint of the token involved.
	Fingerprint string `json:"fingerprint,omitempty"`

	// Success indicates whether the operation succeeded.
	Success bool `json:"success"`

	// Error holds a short failure description for rejected operations.
	Error string `json:"error,omitempty"`
}

// Auditor records codec operations for later inspection.
type Auditor interface {
	Log(entry Entry) error
	Close() error
}
