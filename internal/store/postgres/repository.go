package postgres

import (
	"context"
	"fmt"
	"log"

	"github.com/pgvector/pgvector-go"

	"github.com/kozaktomas/faceid/internal/store"
)

// Repository provides pgvector-backed embedding storage. It implements
// store.Store with the same contract as the directory store: upsert on
// label, snapshot on load, corrupt rows skipped.
type Repository struct {
	pool *Pool
	dim  int
}

// NewRepository creates a new PostgreSQL embedding repository.
func NewRepository(pool *Pool, dim int) *Repository {
	return &Repository{pool: pool, dim: dim}
}

// Save upserts the vector under label. The row swap is transactional, so a
// concurrent LoadAll sees the old vector or the new one, never a mix.
func (r *Repository) Save(ctx context.Context, label string, vec []float32) error {
	if err := store.ValidateLabel(label); err != nil {
		return err
	}
	if len(vec) != r.dim {
		return fmt.Errorf("vector has %d values, store expects %d", len(vec), r.dim)
	}

	query := `
		INSERT INTO embeddings (label, embedding, dim)
		VALUES ($1, $2, $3)
		ON CONFLICT (label) DO UPDATE
		SET embedding = EXCLUDED.embedding, dim = EXCLUDED.dim, updated_at = NOW()
	`

	if _, err := r.pool.Exec(ctx, query, label, pgvector.NewVector(vec), r.dim); err != nil {
		return fmt.Errorf("save embedding: %w", err)
	}
	return nil
}

// LoadAll returns a snapshot of every enrolled embedding. Rows whose stored
// dimension does not match the configured one are logged and skipped.
func (r *Repository) LoadAll(ctx context.Context) (store.Snapshot, error) {
	rows, err := r.pool.Query(ctx, "SELECT label, embedding, dim FROM embeddings")
	if err != nil {
		return nil, fmt.Errorf("query embeddings: %w", err)
	}
	defer rows.Close()

	snapshot := make(store.Snapshot)
	for rows.Next() {
		var label string
		var vec pgvector.Vector
		var dim int
		if err := rows.Scan(&label, &vec, &dim); err != nil {
			log.Printf("Warning: skipping unreadable embedding row: %v", err)
			continue
		}
		values := vec.Slice()
		if len(values) != r.dim {
			log.Printf("Warning: skipping embedding %q with dim %d, store expects %d", label, len(values), r.dim)
			continue
		}
		snapshot[label] = values
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate embeddings: %w", err)
	}
	return snapshot, nil
}

// Count returns the number of enrolled labels.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM embeddings").Scan(&count); err != nil {
		return 0, fmt.Errorf("count embeddings: %w", err)
	}
	return count, nil
}
