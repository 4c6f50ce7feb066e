package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// IdentityRepository stores identity records in Postgres with the
// embedding held in a pgvector column.
type IdentityRepository struct {
	pool PgxPool
}

func NewIdentityRepository(pool PgxPool) *IdentityRepository {
	return &IdentityRepository{pool: pool}
}

// GetAll returns every identity without thumbnails. This is the query
// behind the in-memory gallery snapshot, so it stays lean.
func (r *IdentityRepository) GetAll(ctx context.Context) ([]domain.Identity, error) {
	query := `
		SELECT name, embedding, access_start, access_end, created_at, updated_at
		FROM identities
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all identities: %w", err)
	}
	defer rows.Close()

	var identities []domain.Identity
	for rows.Next() {
		var identity domain.Identity
		var embedding pgvector.Vector

		err := rows.Scan(
			&identity.Name,
			&embedding,
			&identity.AccessStart,
			&identity.AccessEnd,
			&identity.CreatedAt,
			&identity.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}

		identity.Embedding = vectorToFloat64(embedding)
		identities = append(identities, identity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identities: %w", err)
	}

	return identities, nil
}

// Get returns one identity without its thumbnail
func (r *IdentityRepository) Get(ctx context.Context, name string) (*domain.Identity, error) {
	query := `
		SELECT name, embedding, access_start, access_end, created_at, updated_at
		FROM identities
		WHERE name = $1
	`

	var identity domain.Identity
	var embedding pgvector.Vector

	err := r.pool.QueryRow(ctx, query, name).Scan(
		&identity.Name,
		&embedding,
		&identity.AccessStart,
		&identity.AccessEnd,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrIdentityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get identity: %w", err)
	}

	identity.Embedding = vectorToFloat64(embedding)
	return &identity, nil
}

// List returns every identity including thumbnails, for the management API
func (r *IdentityRepository) List(ctx context.Context) ([]domain.Identity, error) {
	query := `
		SELECT name, thumbnail, access_start, access_end, created_at, updated_at
		FROM identities
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	defer rows.Close()

	var identities []domain.Identity
	for rows.Next() {
		var identity domain.Identity

		err := rows.Scan(
			&identity.Name,
			&identity.Thumbnail,
			&identity.AccessStart,
			&identity.AccessEnd,
			&identity.CreatedAt,
			&identity.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}

		identities = append(identities, identity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identities: %w", err)
	}

	return identities, nil
}

// Put upserts an identity record. On re-save of an existing name the
// stored access window is preserved; the embedding and thumbnail are
// replaced. New records get the window carried on the identity (the
// caller defaults it to full-day).
func (r *IdentityRepository) Put(ctx context.Context, identity *domain.Identity) error {
	query := `
		INSERT INTO identities (name, embedding, thumbnail, access_start, access_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (name) DO UPDATE
		SET embedding = EXCLUDED.embedding,
		    thumbnail = EXCLUDED.thumbnail,
		    updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		identity.Name,
		float64ToVector(identity.Embedding),
		identity.Thumbnail,
		identity.AccessStart,
		identity.AccessEnd,
	)
	if err != nil {
		return domain.ErrStoreWrite.WithError(err)
	}

	return nil
}

// Delete removes an identity by name
func (r *IdentityRepository) Delete(ctx context.Context, name string) error {
	query := `
		DELETE FROM identities
		WHERE name = $1
	`

	result, err := r.pool.Exec(ctx, query, name)
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrIdentityNotFound
	}

	return nil
}

// Rename changes an identity's key. Fails with ErrIdentityExists when
// the new name is already taken.
func (r *IdentityRepository) Rename(ctx context.Context, oldName, newName string) error {
	query := `
		UPDATE identities
		SET name = $2, updated_at = NOW()
		WHERE name = $1
	`

	result, err := r.pool.Exec(ctx, query, oldName, newName)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrIdentityExists
		}
		return fmt.Errorf("rename identity: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrIdentityNotFound
	}

	return nil
}

// UpdateAccessWindow replaces an identity's daily access window
func (r *IdentityRepository) UpdateAccessWindow(ctx context.Context, name string, window domain.AccessWindow) error {
	query := `
		UPDATE identities
		SET access_start = $2, access_end = $3, updated_at = NOW()
		WHERE name = $1
	`

	result, err := r.pool.Exec(ctx, query, name, window.Start, window.End)
	if err != nil {
		return fmt.Errorf("update access window: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrIdentityNotFound
	}

	return nil
}

// GetThumbnail returns the stored thumbnail JPEG for an identity
func (r *IdentityRepository) GetThumbnail(ctx context.Context, name string) ([]byte, error) {
	query := `
		SELECT thumbnail
		FROM identities
		WHERE name = $1
	`

	var thumbnail []byte
	err := r.pool.QueryRow(ctx, query, name).Scan(&thumbnail)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrIdentityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get thumbnail: %w", err)
	}

	return thumbnail, nil
}

func float64ToVector(embedding []float64) pgvector.Vector {
	floats := make([]float32, len(embedding))
	for i, v := range embedding {
		floats[i] = float32(v)
	}
	return pgvector.NewVector(floats)
}

func vectorToFloat64(vec pgvector.Vector) []float64 {
	slice := vec.Slice()
	if slice == nil {
		return nil
	}
	embedding := make([]float64, len(slice))
	for i, v := range slice {
		embedding[i] = float64(v)
	}
	return embedding
}

var _ IdentityRepositoryInterface = (*IdentityRepository)(nil)
