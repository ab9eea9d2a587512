package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/arcadia-platform/arcadia-auth/internal/dbx"
	"github.com/arcadia-platform/arcadia-auth/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, event *models.AuditEvent) error {

	details := event.Details
	if details == nil {
		details = map[string]any{}
	}
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshaling details: %w", err)
	}

	query :=
		`INSERT INTO audit_log (user_id, action, resource_type, details, severity)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	if _, err := r.db.ExecContext(ctx, query,
		event.AccountID, event.Action, event.ResourceType, payload, string(event.Severity)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
