package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/leggyong/berkeley-expense2/internal/application/port"
	"github.com/leggyong/berkeley-expense2/internal/infrastructure/persistence/sqlite"
)

// SequenceRepository implements port.SequenceRepository with a per-year
// counter row. The upsert makes the counter monotonic under concurrent
// submissions, unlike deriving the number from the claim count.
type SequenceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSequenceRepository creates a new sequence repository.
func NewSequenceRepository(db *sql.DB, logger *zap.Logger) port.SequenceRepository {
	return &SequenceRepository{db: db, logger: logger}
}

// Next increments and returns the claim number for the given year.
func (r *SequenceRepository) Next(ctx context.Context, year int) (int64, error) {
	query := `
		INSERT INTO claim_sequences (year, value) VALUES (?, 1)
		ON CONFLICT(year) DO UPDATE SET value = value + 1
		RETURNING value
	`

	var value int64
	if err := r.getExecutor(ctx).QueryRowContext(ctx, query, year).Scan(&value); err != nil {
		r.logger.Error("Failed to advance claim sequence", zap.Int("year", year), zap.Error(err))
		return 0, fmt.Errorf("failed to advance claim sequence: %w", err)
	}
	return value, nil
}

// getExecutor returns the in-flight transaction when one is on the context.
func (r *SequenceRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.SequenceRepository = (*SequenceRepository)(nil)
