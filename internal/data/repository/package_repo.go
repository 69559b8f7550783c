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

type TestPackageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.TestPackage, error)
	FindActive(ctx context.Context, limit, offset int) ([]*entity.TestPackage, error)
	CountActive(ctx context.Context) (int64, error)
	IncrementBookings(ctx context.Context, id uuid.UUID) error
}

type testPackageRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTestPackageRepository(db database.PgxIface, log *zap.Logger) TestPackageRepository {
	return &testPackageRepository{
		db:  db,
		log: log.With(zap.String("repository", "test_package")),
	}
}

const testPackageColumns = `id, code, name, description, price, discounted_price,
	home_collection_fee, test_ids, is_active, bookings_count, created_at, updated_at`

func scanTestPackage(row pgx.Row) (*entity.TestPackage, error) {
	var p entity.TestPackage
	err := row.Scan(
		&p.ID,
		&p.Code,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.DiscountedPrice,
		&p.HomeCollectionFee,
		&p.TestIDs,
		&p.IsActive,
		&p.BookingsCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *testPackageRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.TestPackage, error) {
	query := fmt.Sprintf(`SELECT %s FROM test_packages WHERE id = $1`, testPackageColumns)

	pkg, err := scanTestPackage(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find test package by ID",
			zap.Error(err),
			zap.String("package_id", id.String()),
		)
		return nil, fmt.Errorf("find test package by ID %s: %w", id.String(), err)
	}

	return pkg, nil
}

func (r *testPackageRepository) FindActive(ctx context.Context, limit, offset int) ([]*entity.TestPackage, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM test_packages
		WHERE is_active = true
		ORDER BY name
		LIMIT $1 OFFSET $2
	`, testPackageColumns)

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list active test packages", zap.Error(err))
		return nil, fmt.Errorf("list active test packages: %w", err)
	}
	defer rows.Close()

	var packages []*entity.TestPackage
	for rows.Next() {
		pkg, err := scanTestPackage(rows)
		if err != nil {
			r.log.Error("Failed to scan test package row", zap.Error(err))
			return nil, fmt.Errorf("scan test package row: %w", err)
		}
		packages = append(packages, pkg)
	}

	return packages, nil
}

func (r *testPackageRepository) CountActive(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM test_packages WHERE is_active = true`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count active test packages", zap.Error(err))
		return 0, fmt.Errorf("count active test packages: %w", err)
	}

	return count, nil
}

func (r *testPackageRepository) IncrementBookings(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE test_packages SET bookings_count = bookings_count + 1, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to increment test package bookings count",
			zap.Error(err),
			zap.String("package_id", id.String()),
		)
		return fmt.Errorf("increment bookings count for test package %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("test package %s not found", id.String())
	}

	return nil
}
