package audit

import (
	"context"

	"github.com/arcadia-platform/arcadia-auth/internal/server/models"
)

// Repository appends audit events. The log is append-only; there is no
// update or delete surface.
type Repository interface {
	Create(ctx context.Context, event *models.AuditEvent) error
}
