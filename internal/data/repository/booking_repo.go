package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lab-booking/internal/data/entity"
	"lab-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrDuplicateBookingNumber signals a booking-number collision; the caller
// re-allocates a number and retries instead of failing the whole create.
var ErrDuplicateBookingNumber = errors.New("booking number already exists")

// BookingFilter narrows Search and Count. Nil/zero fields are ignored.
type BookingFilter struct {
	UserID         *uuid.UUID
	TestID         *uuid.UUID
	PackageID      *uuid.UUID
	BookingNumber  string
	SubjectType    string // "test" or "package"
	CollectionMode entity.CollectionMode
	Status         entity.BookingStatus
	PaymentStatus  entity.PaymentStatus
	ReportStatus   entity.ReportStatus
	CollectionFrom *time.Time
	CollectionTo   *time.Time
}

// BookingStats aggregates counts per status plus revenue over paid bookings.
type BookingStats struct {
	Total          int64
	CountsByStatus map[entity.BookingStatus]int64
	TotalRevenue   float64
	AverageRevenue float64
}

// SampleUpdate carries the sample sub-record attached together with the
// SAMPLE_COLLECTED transition.
type SampleUpdate struct {
	SampleID    string
	Barcode     string
	SampleType  string
	CollectedBy string
	Notes       string
	CollectedAt time.Time
}

// ReportUpdate carries the report sub-record attached together with the
// REPORT_READY transition.
type ReportUpdate struct {
	URLs        []string
	GeneratedBy string
	Notes       string
	GeneratedAt time.Time
	DeliveredAt time.Time
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByNumber(ctx context.Context, bookingNumber string) (*entity.Booking, error)
	Search(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, error)
	Count(ctx context.Context, filter BookingFilter) (int64, error)
	Update(ctx context.Context, booking *entity.Booking) error

	// Lifecycle mutations. Each is a single conditional statement guarded by
	// the expected prior status, so concurrent transitions cannot both win.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) (bool, error)
	AttachSample(ctx context.Context, id uuid.UUID, from entity.BookingStatus, sample SampleUpdate) (bool, error)
	AttachReport(ctx context.Context, id uuid.UUID, from entity.BookingStatus, report ReportUpdate) (bool, error)
	Cancel(ctx context.Context, id uuid.UUID, by entity.ActorRole, reason string, refundAmount float64, refundStatus entity.RefundStatus, at time.Time) (bool, error)
	Rate(ctx context.Context, id uuid.UUID, rating int, feedback string, at time.Time) (bool, error)

	Statistics(ctx context.Context) (*BookingStats, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, booking_number, user_id, test_id, package_id, subject_name,
	patient_name, patient_age, patient_gender, patient_phone, patient_email,
	collection_mode, collection_date, collection_slot,
	address_street, address_city, address_state, address_pincode, address_landmark,
	test_price, home_collection_fee, total_amount, discount_amount, final_amount, payment_status,
	lab_id, lab_name, lab_address, status,
	sample_id, sample_barcode, sample_type, sample_collected_by, sample_notes, sample_collected_at, sample_received_at,
	report_urls, report_generated_by, report_notes, report_status, report_generated_at, report_delivered_at,
	prescription_required, prescription_ref, prescription_verified,
	cancelled_at, cancelled_by, cancellation_reason, refund_amount, refund_status,
	rating, feedback, rated_at, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	var addrStreet, addrCity, addrState, addrPincode, addrLandmark *string
	var cancelledBy *string

	err := row.Scan(
		&b.ID, &b.BookingNumber, &b.UserID, &b.TestID, &b.PackageID, &b.SubjectName,
		&b.PatientName, &b.PatientAge, &b.PatientGender, &b.PatientPhone, &b.PatientEmail,
		&b.CollectionMode, &b.CollectionDate, &b.CollectionSlot,
		&addrStreet, &addrCity, &addrState, &addrPincode, &addrLandmark,
		&b.TestPrice, &b.HomeCollectionFee, &b.TotalAmount, &b.DiscountAmount, &b.FinalAmount, &b.PaymentStatus,
		&b.LabID, &b.LabName, &b.LabAddress, &b.Status,
		&b.SampleID, &b.SampleBarcode, &b.SampleType, &b.SampleCollectedBy, &b.SampleNotes, &b.SampleCollectedAt, &b.SampleReceivedAt,
		&b.ReportURLs, &b.ReportGeneratedBy, &b.ReportNotes, &b.ReportStatus, &b.ReportGeneratedAt, &b.ReportDeliveredAt,
		&b.PrescriptionRequired, &b.PrescriptionRef, &b.PrescriptionVerified,
		&b.CancelledAt, &cancelledBy, &b.CancellationReason, &b.RefundAmount, &b.RefundStatus,
		&b.Rating, &b.Feedback, &b.RatedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if addrStreet != nil {
		b.Address = &entity.Address{
			Street:  *addrStreet,
			City:    strVal(addrCity),
			State:   strVal(addrState),
			Pincode: strVal(addrPincode),
		}
		if addrLandmark != nil {
			b.Address.Landmark = *addrLandmark
		}
	}
	if cancelledBy != nil {
		role := entity.ActorRole(*cancelledBy)
		b.CancelledBy = &role
	}

	return &b, nil
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (
			id, booking_number, user_id, test_id, package_id, subject_name,
			patient_name, patient_age, patient_gender, patient_phone, patient_email,
			collection_mode, collection_date, collection_slot,
			address_street, address_city, address_state, address_pincode, address_landmark,
			test_price, home_collection_fee, total_amount, discount_amount, final_amount, payment_status,
			lab_id, lab_name, lab_address, status,
			report_status, prescription_required, prescription_ref, prescription_verified,
			refund_amount, refund_status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
		        $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32,
		        $33, $34, $35, $36, $37)
	`

	var addrStreet, addrCity, addrState, addrPincode, addrLandmark *string
	if booking.Address != nil {
		addrStreet = &booking.Address.Street
		addrCity = &booking.Address.City
		addrState = &booking.Address.State
		addrPincode = &booking.Address.Pincode
		if booking.Address.Landmark != "" {
			addrLandmark = &booking.Address.Landmark
		}
	}

	_, err := r.db.Exec(ctx, query,
		booking.ID, booking.BookingNumber, booking.UserID, booking.TestID, booking.PackageID, booking.SubjectName,
		booking.PatientName, booking.PatientAge, booking.PatientGender, booking.PatientPhone, booking.PatientEmail,
		booking.CollectionMode, booking.CollectionDate, booking.CollectionSlot,
		addrStreet, addrCity, addrState, addrPincode, addrLandmark,
		booking.TestPrice, booking.HomeCollectionFee, booking.TotalAmount, booking.DiscountAmount, booking.FinalAmount, booking.PaymentStatus,
		booking.LabID, booking.LabName, booking.LabAddress, booking.Status,
		booking.ReportStatus, booking.PrescriptionRequired, booking.PrescriptionRef, booking.PrescriptionVerified,
		booking.RefundAmount, booking.RefundStatus, booking.CreatedAt, booking.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "booking_number") {
			return ErrDuplicateBookingNumber
		}
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_number", booking.BookingNumber),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.BookingNumber, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingColumns)

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByNumber(ctx context.Context, bookingNumber string) (*entity.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE booking_number = $1`, bookingColumns)

	booking, err := scanBooking(r.db.QueryRow(ctx, query, bookingNumber))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by number",
			zap.Error(err),
			zap.String("booking_number", bookingNumber),
		)
		return nil, fmt.Errorf("find booking by number %s: %w", bookingNumber, err)
	}

	return booking, nil
}

func buildFilterClauses(filter BookingFilter) ([]string, []any) {
	var clauses []string
	var args []any

	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.UserID != nil {
		add("user_id = $%d", *filter.UserID)
	}
	if filter.TestID != nil {
		add("test_id = $%d", *filter.TestID)
	}
	if filter.PackageID != nil {
		add("package_id = $%d", *filter.PackageID)
	}
	if filter.BookingNumber != "" {
		add("booking_number = $%d", filter.BookingNumber)
	}
	switch filter.SubjectType {
	case "test":
		clauses = append(clauses, "test_id IS NOT NULL")
	case "package":
		clauses = append(clauses, "package_id IS NOT NULL")
	}
	if filter.CollectionMode != "" {
		add("collection_mode = $%d", filter.CollectionMode)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.PaymentStatus != "" {
		add("payment_status = $%d", filter.PaymentStatus)
	}
	if filter.ReportStatus != "" {
		add("report_status = $%d", filter.ReportStatus)
	}
	if filter.CollectionFrom != nil {
		add("collection_date >= $%d", *filter.CollectionFrom)
	}
	if filter.CollectionTo != nil {
		add("collection_date <= $%d", *filter.CollectionTo)
	}

	return clauses, args
}

func (r *bookingRepository) Search(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	clauses, args := buildFilterClauses(filter)

	query := fmt.Sprintf(`SELECT %s FROM bookings`, bookingColumns)
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to search bookings", zap.Error(err))
		return nil, fmt.Errorf("search bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (r *bookingRepository) Count(ctx context.Context, filter BookingFilter) (int64, error) {
	clauses, args := buildFilterClauses(filter)

	query := `SELECT COUNT(*) FROM bookings`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

// Update corrects non-lifecycle fields. Status is deliberately absent from the
// SET list; status changes only go through the conditional lifecycle methods.
func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET patient_name = $2, patient_age = $3, patient_gender = $4, patient_phone = $5, patient_email = $6,
		    collection_date = $7, collection_slot = $8,
		    address_street = $9, address_city = $10, address_state = $11, address_pincode = $12, address_landmark = $13,
		    lab_id = $14, lab_name = $15, lab_address = $16, payment_status = $17,
		    prescription_required = $18, prescription_ref = $19, prescription_verified = $20,
		    refund_status = $21, updated_at = $22
		WHERE id = $1
	`

	var addrStreet, addrCity, addrState, addrPincode, addrLandmark *string
	if booking.Address != nil {
		addrStreet = &booking.Address.Street
		addrCity = &booking.Address.City
		addrState = &booking.Address.State
		addrPincode = &booking.Address.Pincode
		if booking.Address.Landmark != "" {
			addrLandmark = &booking.Address.Landmark
		}
	}

	result, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.PatientName, booking.PatientAge, booking.PatientGender, booking.PatientPhone, booking.PatientEmail,
		booking.CollectionDate, booking.CollectionSlot,
		addrStreet, addrCity, addrState, addrPincode, addrLandmark,
		booking.LabID, booking.LabName, booking.LabAddress, booking.PaymentStatus,
		booking.PrescriptionRequired, booking.PrescriptionRef, booking.PrescriptionVerified,
		booking.RefundStatus, booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", booking.ID.String())
	}

	return nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) (bool, error) {
	// Sample receipt has an explicit timestamp but no dedicated sub-record, so
	// it is stamped here as part of the same statement.
	query := `
		UPDATE bookings
		SET status = $3,
		    sample_received_at = CASE WHEN $3 = 'SAMPLE_RECEIVED' THEN NOW() ELSE sample_received_at END,
		    updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		return false, fmt.Errorf("update booking %s status %s -> %s: %w", id.String(), from, to, err)
	}

	return result.RowsAffected() > 0, nil
}

// AttachSample writes the sample sub-record and the SAMPLE_COLLECTED status in
// one statement: either both land or neither does.
func (r *bookingRepository) AttachSample(ctx context.Context, id uuid.UUID, from entity.BookingStatus, sample SampleUpdate) (bool, error) {
	query := `
		UPDATE bookings
		SET sample_id = $3, sample_barcode = $4, sample_type = $5, sample_collected_by = $6,
		    sample_notes = $7, sample_collected_at = $8, status = $9, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.Exec(ctx, query,
		id, from,
		sample.SampleID, sample.Barcode, sample.SampleType, sample.CollectedBy,
		sample.Notes, sample.CollectedAt, entity.BookingStatusSampleCollected,
	)
	if err != nil {
		r.log.Error("Failed to attach sample details",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("attach sample to booking %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

// AttachReport writes the report sub-record and the REPORT_READY status in one
// statement, mirroring AttachSample.
func (r *bookingRepository) AttachReport(ctx context.Context, id uuid.UUID, from entity.BookingStatus, report ReportUpdate) (bool, error) {
	query := `
		UPDATE bookings
		SET report_urls = $3, report_generated_by = $4, report_notes = $5, report_status = $6,
		    report_generated_at = $7, report_delivered_at = $8, status = $9, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.Exec(ctx, query,
		id, from,
		report.URLs, report.GeneratedBy, report.Notes, entity.ReportStatusDelivered,
		report.GeneratedAt, report.DeliveredAt, entity.BookingStatusReportReady,
	)
	if err != nil {
		r.log.Error("Failed to attach report",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("attach report to booking %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *bookingRepository) Cancel(ctx context.Context, id uuid.UUID, by entity.ActorRole, reason string, refundAmount float64, refundStatus entity.RefundStatus, at time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $2, cancelled_at = $3, cancelled_by = $4, cancellation_reason = $5,
		    refund_amount = $6, refund_status = $7, updated_at = NOW()
		WHERE id = $1 AND status NOT IN ($8, $9, $10)
	`

	result, err := r.db.Exec(ctx, query,
		id, entity.BookingStatusCancelled, at, by, reason, refundAmount, refundStatus,
		entity.BookingStatusCancelled, entity.BookingStatusCompleted, entity.BookingStatusRefunded,
	)
	if err != nil {
		r.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("cancel booking %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *bookingRepository) Rate(ctx context.Context, id uuid.UUID, rating int, feedback string, at time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET rating = $2, feedback = $3, rated_at = $4, updated_at = NOW()
		WHERE id = $1 AND status = $5 AND rating IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, rating, feedback, at, entity.BookingStatusCompleted)
	if err != nil {
		r.log.Error("Failed to rate booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("rate booking %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

// Statistics excludes cancelled and unpaid bookings from revenue aggregates.
func (r *bookingRepository) Statistics(ctx context.Context) (*BookingStats, error) {
	stats := &BookingStats{CountsByStatus: make(map[entity.BookingStatus]int64)}

	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		r.log.Error("Failed to aggregate booking counts", zap.Error(err))
		return nil, fmt.Errorf("aggregate booking counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status entity.BookingStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan booking count row: %w", err)
		}
		stats.CountsByStatus[status] = count
		stats.Total += count
	}

	revenueQuery := `
		SELECT COALESCE(SUM(final_amount), 0), COALESCE(AVG(final_amount), 0)
		FROM bookings
		WHERE payment_status = $1 AND status <> $2
	`
	err = r.db.QueryRow(ctx, revenueQuery, entity.PaymentStatusPaid, entity.BookingStatusCancelled).
		Scan(&stats.TotalRevenue, &stats.AverageRevenue)
	if err != nil {
		r.log.Error("Failed to aggregate booking revenue", zap.Error(err))
		return nil, fmt.Errorf("aggregate booking revenue: %w", err)
	}

	return stats, nil
}
