package users

import (
	"context"
	"time"

	"github.com/arcadia-platform/arcadia-auth/internal/server/models"
)

// Repository persists accounts. Lookups marked "active" exclude deactivated
// accounts.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetActiveByEmail(ctx context.Context, email string) (*models.Account, error)
	GetActiveByID(ctx context.Context, id string) (*models.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}
