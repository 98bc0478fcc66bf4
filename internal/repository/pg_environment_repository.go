package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"queuay-worker/internal/models"
)

type pgEnvironmentRepository struct {
	db *pgxpool.Pool
}

// NewPgEnvironmentRepository creates a PostgreSQL-backed EnvironmentRepository.
func NewPgEnvironmentRepository(db *pgxpool.Pool) EnvironmentRepository {
	return &pgEnvironmentRepository{db: db}
}

func (r *pgEnvironmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Environment, error) {
	query := `
        SELECT id, app_id, name, base_url, is_default, created_at
        FROM environments
        WHERE id = $1`

	var env models.Environment
	if err := pgxscan.Get(ctx, r.db, &env, query, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("environment %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get environment %s: %w", id, err)
	}
	return &env, nil
}
