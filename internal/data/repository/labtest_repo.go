package repository

import (
	"context"
	"fmt"

	"lab-booking/internal/data/entity"
	"lab-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type LabTestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.LabTest, error)
	FindActive(ctx context.Context, limit, offset int) ([]*entity.LabTest, error)
	CountActive(ctx context.Context) (int64, error)
	IncrementBookings(ctx context.Context, id uuid.UUID) error
}

type labTestRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewLabTestRepository(db database.PgxIface, log *zap.Logger) LabTestRepository {
	return &labTestRepository{
		db:  db,
		log: log.With(zap.String("repository", "lab_test")),
	}
}

const labTestColumns = `id, code, name, category, description, price, discounted_price,
	home_collection_fee, sample_type, report_hours, is_active, bookings_count, created_at, updated_at`

func scanLabTest(row pgx.Row) (*entity.LabTest, error) {
	var t entity.LabTest
	err := row.Scan(
		&t.ID,
		&t.Code,
		&t.Name,
		&t.Category,
		&t.Description,
		&t.Price,
		&t.DiscountedPrice,
		&t.HomeCollectionFee,
		&t.SampleType,
		&t.ReportHours,
		&t.IsActive,
		&t.BookingsCount,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *labTestRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.LabTest, error) {
	query := fmt.Sprintf(`SELECT %s FROM lab_tests WHERE id = $1`, labTestColumns)

	test, err := scanLabTest(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find lab test by ID",
			zap.Error(err),
			zap.String("test_id", id.String()),
		)
		return nil, fmt.Errorf("find lab test by ID %s: %w", id.String(), err)
	}

	return test, nil
}

func (r *labTestRepository) FindActive(ctx context.Context, limit, offset int) ([]*entity.LabTest, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM lab_tests
		WHERE is_active = true
		ORDER BY name
		LIMIT $1 OFFSET $2
	`, labTestColumns)

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list active lab tests", zap.Error(err))
		return nil, fmt.Errorf("list active lab tests: %w", err)
	}
	defer rows.Close()

	var tests []*entity.LabTest
	for rows.Next() {
		test, err := scanLabTest(rows)
		if err != nil {
			r.log.Error("Failed to scan lab test row", zap.Error(err))
			return nil, fmt.Errorf("scan lab test row: %w", err)
		}
		tests = append(tests, test)
	}

	return tests, nil
}

func (r *labTestRepository) CountActive(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM lab_tests WHERE is_active = true`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count active lab tests", zap.Error(err))
		return 0, fmt.Errorf("count active lab tests: %w", err)
	}

	return count, nil
}

// IncrementBookings bumps the bookings counter with a relative update so
// concurrent creations never lose increments.
func (r *labTestRepository) IncrementBookings(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE lab_tests SET bookings_count = bookings_count + 1, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to increment lab test bookings count",
			zap.Error(err),
			zap.String("test_id", id.String()),
		)
		return fmt.Errorf("increment bookings count for lab test %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("lab test %s not found", id.String())
	}

	return nil
}
