package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RotationStore implements port.RotationStore with one durable counter row
// per (tenant, rule). The upsert advances the counter atomically, so
// concurrent callers always observe distinct positions.
type RotationStore struct {
	pool *pgxpool.Pool
}

// NewRotationStore creates a new PostgreSQL-backed rotation store.
func NewRotationStore(pool *pgxpool.Pool) *RotationStore {
	return &RotationStore{pool: pool}
}

// Next advances the rotation pointer for the rule and returns the pool index
// to assign. The first call for a rule returns index 0.
func (r *RotationStore) Next(ctx context.Context, tenantID, ruleID string, poolSize int) (int, error) {
	if poolSize <= 0 {
		return 0, fmt.Errorf("rotation pool size must be positive, got %d", poolSize)
	}

	query := `
		INSERT INTO routing_rotations (tenant_id, rule_id, position)
		VALUES ($1, $2, 0)
		ON CONFLICT (tenant_id, rule_id) DO UPDATE SET position = routing_rotations.position + 1
		RETURNING position
	`
	var position int64
	if err := r.pool.QueryRow(ctx, query, tenantID, ruleID).Scan(&position); err != nil {
		return 0, fmt.Errorf("advance rotation for rule %s: %w", ruleID, err)
	}
	return int(position % int64(poolSize)), nil
}
