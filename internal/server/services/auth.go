// Package services implements the authentication workflows: registration,
// login, session validation, password change and logout. Each workflow that
// writes runs inside a single transaction, so audit events commit or roll
// back together with the data they describe.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arcadia-platform/arcadia-auth/internal/common"
	"github.com/arcadia-platform/arcadia-auth/internal/dbx"
	"github.com/arcadia-platform/arcadia-auth/internal/logging"
	"github.com/arcadia-platform/arcadia-auth/internal/server/audit"
	"github.com/arcadia-platform/arcadia-auth/internal/server/auth"
	"github.com/arcadia-platform/arcadia-auth/internal/server/models"
	"github.com/arcadia-platform/arcadia-auth/internal/server/ratelimit"
	"github.com/arcadia-platform/arcadia-auth/internal/server/repositories/repomanager"
	"github.com/arcadia-platform/arcadia-auth/internal/server/security"
	"github.com/arcadia-platform/arcadia-auth/internal/server/validation"
)

// AuthService orchestrates account authentication. All returned accounts are
// sanitized copies without the password hash.
type AuthService struct {
	db            *sql.DB
	repos         repomanager.RepositoryManager
	hasher        *security.Hasher
	limiter       *ratelimit.Limiter
	tokens        *auth.Manager
	recorder      *audit.Recorder
	logger        logging.Logger
	defaultTokens int
}

func NewAuthService(db *sql.DB, repos repomanager.RepositoryManager, hasher *security.Hasher,
	limiter *ratelimit.Limiter, tokens *auth.Manager, recorder *audit.Recorder,
	logger logging.Logger, defaultTokens int) *AuthService {
	return &AuthService{
		db:            db,
		repos:         repos,
		hasher:        hasher,
		limiter:       limiter,
		tokens:        tokens,
		recorder:      recorder,
		logger:        logger.With("module", "auth_service"),
		defaultTokens: defaultTokens,
	}
}

// canonicalEmail normalizes an email before any lookup or limiter check, so
// "Demo@X.com" and "demo@x.com" are the same identity everywhere.
func canonicalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account with the default token balance. It returns
// common.ErrValidation for malformed input, common.ErrConflict when the
// email or username is taken and common.ErrRateLimited when the email has
// accumulated too many recent failures.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*models.Account, error) {
	email = canonicalEmail(email)

	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}

	if !s.limiter.Allow(email) {
		s.recorder.Record(ctx, s.db, audit.ActionRegistrationRateLimited, nil,
			map[string]any{"email": email}, models.SeverityWarning)
		return nil, common.ErrRateLimited
	}

	// Hashing is the expensive part; keep it out of the transaction.
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err.Error())
		return nil, common.ErrInternal
	}

	var account *models.Account
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Users(tx)

		if taken, err := repo.ExistsByEmail(ctx, email); err != nil {
			return err
		} else if taken {
			return fmt.Errorf("email %w", common.ErrConflict)
		}
		if taken, err := repo.ExistsByUsername(ctx, username); err != nil {
			return err
		} else if taken {
			return fmt.Errorf("username %w", common.ErrConflict)
		}

		created, err := repo.Create(ctx, &models.Account{
			Email:        email,
			Username:     username,
			PasswordHash: hash,
			Tokens:       s.defaultTokens,
			IsActive:     true,
		})
		if err != nil {
			// includes a conflict from losing a race against a concurrent
			// registration, which the probes above cannot rule out
			return err
		}

		s.recorder.Record(ctx, tx, audit.ActionUserRegistered, &created.ID,
			map[string]any{"email": email, "username": created.Username}, models.SeverityInfo)

		account = created
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			s.limiter.RecordFailure(email)
			s.recorder.Record(ctx, s.db, audit.ActionRegistrationFailed, nil,
				map[string]any{"email": email, "reason": err.Error()}, models.SeverityWarning)
			return nil, err
		}
		s.logger.Error(ctx, "registration failed", "error", err.Error())
		s.recorder.Record(ctx, s.db, audit.ActionRegistrationError, nil,
			map[string]any{"email": email}, models.SeverityError)
		return nil, common.ErrInternal
	}

	s.limiter.Clear(email)
	return account.Sanitized(), nil
}

// Authenticate verifies the credentials and issues a session token. Unknown
// emails and wrong passwords both return common.ErrAuthentication with the
// same message, so a caller cannot probe which accounts exist. Failed
// attempts count toward the per-email rate limit; a success clears it.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (string, *models.Account, error) {
	email = canonicalEmail(email)

	if err := validation.ValidateEmail(email); err != nil {
		return "", nil, err
	}

	if !s.limiter.Allow(email) {
		s.recorder.Record(ctx, s.db, audit.ActionLoginRateLimited, nil,
			map[string]any{"email": email}, models.SeverityWarning)
		return "", nil, common.ErrRateLimited
	}

	var (
		token   string
		account *models.Account
		failErr error
	)
	// Expected failures return nil from the transaction body so their
	// WARNING audit events commit; failErr carries the outcome to the
	// caller.
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Users(tx)

		acc, err := repo.GetActiveByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				s.limiter.RecordFailure(email)
				s.recorder.Record(ctx, tx, audit.ActionLoginFailed, nil,
					map[string]any{"email": email}, models.SeverityWarning)
				failErr = common.ErrAuthentication
				return nil
			}
			return err
		}

		if !s.hasher.Verify(password, acc.PasswordHash) {
			s.limiter.RecordFailure(email)
			s.recorder.Record(ctx, tx, audit.ActionLoginFailed, &acc.ID,
				map[string]any{"email": email}, models.SeverityWarning)
			failErr = common.ErrAuthentication
			return nil
		}

		signed, err := s.tokens.Issue(acc.ID, acc.Username)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := repo.UpdateLastLogin(ctx, acc.ID, now); err != nil {
			return err
		}
		acc.LastLogin = &now

		s.recorder.Record(ctx, tx, audit.ActionLoginSuccess, &acc.ID,
			map[string]any{"email": email, "username": acc.Username}, models.SeverityInfo)

		token = signed
		account = acc
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "login failed", "error", err.Error())
		s.recorder.Record(ctx, s.db, audit.ActionLoginError, nil,
			map[string]any{"email": email}, models.SeverityError)
		return "", nil, common.ErrInternal
	}
	if failErr != nil {
		return "", nil, failErr
	}

	s.limiter.Clear(email)
	return token, account.Sanitized(), nil
}

// ValidateSession verifies the session token and loads its account. A valid
// token over a deleted or deactivated account is rejected the same way as a
// bad token.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*models.Account, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, common.ErrAuthentication
	}

	acc, err := s.repos.Users(s.db).GetActiveByID(ctx, claims.Subject)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Error(ctx, "session account lookup failed", "error", err.Error())
		}
		return nil, common.ErrAuthentication
	}

	return acc.Sanitized(), nil
}

// ChangePassword replaces the account password after re-verifying the
// current one. The new password must satisfy the same policy as at
// registration.
func (s *AuthService) ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) error {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	var failErr error
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Users(tx)

		acc, err := repo.GetActiveByID(ctx, accountID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				failErr = common.ErrAuthentication
				return nil
			}
			return err
		}

		if !s.hasher.Verify(oldPassword, acc.PasswordHash) {
			s.recorder.Record(ctx, tx, audit.ActionPasswordChangeFailed, &acc.ID,
				map[string]any{"reason": "current password mismatch"}, models.SeverityWarning)
			failErr = common.ErrAuthentication
			return nil
		}

		hash, err := s.hasher.Hash(newPassword)
		if err != nil {
			return err
		}
		if err := repo.UpdatePasswordHash(ctx, acc.ID, hash); err != nil {
			return err
		}

		s.recorder.Record(ctx, tx, audit.ActionPasswordChanged, &acc.ID, nil, models.SeverityInfo)
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "password change failed", "error", err.Error())
		return common.ErrInternal
	}

	return failErr
}

// Logout records the end of a session. Tokens stay cryptographically valid
// until expiry; revocation by jti is a possible extension on top of the
// recorded claims.ID.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return common.ErrAuthentication
	}

	s.recorder.Record(ctx, s.db, audit.ActionLogout, &claims.Subject,
		map[string]any{"username": claims.Username}, models.SeverityInfo)

	return nil
}
