package models

import "time"

// Severity classifies an audit event.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// AuditEvent is an append-only record of a security-relevant action.
// AccountID is nil for events that could not be tied to an account (for
// example a failed login against an unknown email).
type AuditEvent struct {
	ID           int64          `json:"id"`
	AccountID    *string        `json:"user_id,omitempty"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	Details      map[string]any `json:"details,omitempty"`
	Severity     Severity       `json:"severity"`
	CreatedAt    time.Time      `json:"created_at"`
}
