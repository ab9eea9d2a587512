package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arcadia-platform/arcadia-auth/internal/common"
	"github.com/arcadia-platform/arcadia-auth/internal/dbx"
	"github.com/arcadia-platform/arcadia-auth/internal/server/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `id, email, username, password_hash, tokens, subscription_active,
	subscription_expires_at, created_at, updated_at, last_login, is_active`

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {

	query :=
		`INSERT INTO users (email, username, password_hash, tokens)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.Email, account.Username, account.PasswordHash, account.Tokens).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		// A concurrent registration can slip past the uniqueness probe;
		// the unique index is the source of truth.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			switch {
			case strings.Contains(pgErr.ConstraintName, "email"):
				return nil, fmt.Errorf("email %w", common.ErrConflict)
			case strings.Contains(pgErr.ConstraintName, "username"):
				return nil, fmt.Errorf("username %w", common.ErrConflict)
			default:
				return nil, common.ErrConflict
			}
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	account.IsActive = true
	return account, nil
}

func (r *PostgresRepository) GetActiveByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + `
		 FROM users
		 WHERE email = $1 AND is_active = TRUE
		 `
	return r.scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetActiveByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + `
		 FROM users
		 WHERE id = $1 AND is_active = TRUE
		 `
	return r.scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *PostgresRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
}

func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	query :=
		`UPDATE users SET last_login = $2, updated_at = now()
		 WHERE id = $1
		 `
	if _, err := r.db.ExecContext(ctx, query, id, at); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	query :=
		`UPDATE users SET password_hash = $2, updated_at = now()
		 WHERE id = $1
		 `
	if _, err := r.db.ExecContext(ctx, query, id, hash); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) exists(ctx context.Context, query, arg string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) scanAccount(row *sql.Row) (*models.Account, error) {
	account := &models.Account{}
	var subscriptionExpires, lastLogin sql.NullTime

	err := row.Scan(
		&account.ID, &account.Email, &account.Username, &account.PasswordHash,
		&account.Tokens, &account.SubscriptionActive, &subscriptionExpires,
		&account.CreatedAt, &account.UpdatedAt, &lastLogin, &account.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if subscriptionExpires.Valid {
		account.SubscriptionExpiresAt = &subscriptionExpires.Time
	}
	if lastLogin.Valid {
		account.LastLogin = &lastLogin.Time
	}

	return account, nil
}
