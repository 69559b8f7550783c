package repository

import (
	"context"
	"fmt"

	"lab-booking/pkg/database"

	"go.uber.org/zap"
)

// SequenceRepository allocates per-day booking sequence numbers. The upsert
// returns the incremented value in one statement, so two concurrent callers
// can never observe the same number.
type SequenceRepository interface {
	Next(ctx context.Context, day string) (int64, error)
}

type sequenceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSequenceRepository(db database.PgxIface, log *zap.Logger) SequenceRepository {
	return &sequenceRepository{
		db:  db,
		log: log.With(zap.String("repository", "sequence")),
	}
}

func (r *sequenceRepository) Next(ctx context.Context, day string) (int64, error) {
	query := `
		INSERT INTO booking_sequences (day, last_seq)
		VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET last_seq = booking_sequences.last_seq + 1
		RETURNING last_seq
	`

	var seq int64
	if err := r.db.QueryRow(ctx, query, day).Scan(&seq); err != nil {
		r.log.Error("Failed to allocate booking sequence",
			zap.Error(err),
			zap.String("day", day),
		)
		return 0, fmt.Errorf("allocate booking sequence for %s: %w", day, err)
	}

	return seq, nil
}
