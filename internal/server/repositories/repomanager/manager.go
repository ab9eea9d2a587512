// Package repomanager builds repositories over a shared database handle and
// owns schema migrations. Factories accept a dbx.DBTX so the same
// repository code runs on the pool or inside a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/arcadia-platform/arcadia-auth/internal/dbx"
	auditrepo "github.com/arcadia-platform/arcadia-auth/internal/server/repositories/audit"
	"github.com/arcadia-platform/arcadia-auth/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Audit(db dbx.DBTX) auditrepo.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
