// Package audit records security events in the durable audit trail.
// Recording is best-effort: a failed write is logged locally and swallowed,
// so it can never mask or fail the primary operation.
package audit

import (
	"context"

	"github.com/arcadia-platform/arcadia-auth/internal/dbx"
	"github.com/arcadia-platform/arcadia-auth/internal/logging"
	"github.com/arcadia-platform/arcadia-auth/internal/server/models"
	auditrepo "github.com/arcadia-platform/arcadia-auth/internal/server/repositories/audit"
)

// Actions recorded by the authentication workflows.
const (
	ActionUserRegistered          = "USER_REGISTERED"
	ActionRegistrationFailed      = "REGISTRATION_FAILED"
	ActionRegistrationRateLimited = "REGISTRATION_RATE_LIMITED"
	ActionRegistrationError       = "REGISTRATION_ERROR"
	ActionLoginSuccess            = "LOGIN_SUCCESS"
	ActionLoginFailed             = "LOGIN_FAILED"
	ActionLoginRateLimited        = "LOGIN_RATE_LIMITED"
	ActionLoginError              = "LOGIN_ERROR"
	ActionLogout                  = "LOGOUT"
	ActionPasswordChanged         = "PASSWORD_CHANGED"
	ActionPasswordChangeFailed    = "PASSWORD_CHANGE_FAILED"
)

const resourceAuthentication = "authentication"

// Recorder appends audit events through the audit repository.
type Recorder struct {
	repos  func(db dbx.DBTX) auditrepo.Repository
	logger logging.Logger
}

// NewRecorder wires the recorder to a repository factory. The factory
// indirection lets events join the caller's open transaction.
func NewRecorder(repos func(db dbx.DBTX) auditrepo.Repository, logger logging.Logger) *Recorder {
	return &Recorder{
		repos:  repos,
		logger: logger.With("module", "audit"),
	}
}

// Record appends an authentication audit event on the given handle. When db
// is a transaction the event is flushed into it and committed or rolled
// back by the caller. Failures are logged as warnings, never returned.
// Details must not contain password material.
func (r *Recorder) Record(ctx context.Context, db dbx.DBTX, action string, accountID *string, details map[string]any, severity models.Severity) {
	event := &models.AuditEvent{
		AccountID:    accountID,
		Action:       action,
		ResourceType: resourceAuthentication,
		Details:      details,
		Severity:     severity,
	}

	if err := r.repos(db).Create(ctx, event); err != nil {
		r.logger.Warn(ctx, "failed to record audit event", "action", action, "error", err.Error())
	}
}
