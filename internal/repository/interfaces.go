package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// PgxPool is the pgx surface the repositories need. Satisfied by
// *pgxpool.Pool and by pgxmock.PgxPoolIface in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// IdentityRepositoryInterface defines operations for identity data access.
// The embedding store is the single owner of identity records; everything
// else works from read-only snapshots.
type IdentityRepositoryInterface interface {
	GetAll(ctx context.Context) ([]domain.Identity, error)
	Get(ctx context.Context, name string) (*domain.Identity, error)
	List(ctx context.Context) ([]domain.Identity, error)
	Put(ctx context.Context, identity *domain.Identity) error
	Delete(ctx context.Context, name string) error
	Rename(ctx context.Context, oldName, newName string) error
	UpdateAccessWindow(ctx context.Context, name string, window domain.AccessWindow) error
	GetThumbnail(ctx context.Context, name string) ([]byte, error)
}
