package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lab-booking/internal/data/entity"
	"lab-booking/internal/data/repository"
	"lab-booking/internal/dto/request"
	"lab-booking/internal/dto/response"
	"lab-booking/internal/notify"
	"lab-booking/pkg/apperr"
	"lab-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// createAttempts bounds the retry loop around booking-number allocation. A
// collision only happens when another creator raced the same number, so a
// couple of retries is plenty.
const createAttempts = 3

// NumberGenerator issues day-scoped, globally unique booking references.
type NumberGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// Notifier publishes notification trigger records. Failures are logged and
// never fail the surrounding booking operation.
type Notifier interface {
	Publish(ctx context.Context, event notify.Event) error
}

type BookingService interface {
	CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	GetBookingByNumber(ctx context.Context, bookingNumber string) (*response.BookingResponse, error)
	ConfirmBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	AddSampleDetails(ctx context.Context, bookingID string, req *request.AddSampleRequest) (*response.BookingResponse, error)
	AddReport(ctx context.Context, bookingID string, req *request.AddReportRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID, actorID string, role entity.ActorRole, req *request.CancelBookingRequest) (*response.BookingResponse, error)
	RateBooking(ctx context.Context, bookingID, actorID string, req *request.RateBookingRequest) (*response.BookingResponse, error)
	UpdateBooking(ctx context.Context, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error)
}

type bookingService struct {
	repo     *repository.Repository
	numbers  NumberGenerator
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewBookingService(repo *repository.Repository, numbers NumberGenerator, notifier Notifier, log *zap.Logger) BookingService {
	return &bookingService{
		repo:     repo,
		numbers:  numbers,
		notifier: notifier,
		log:      log.With(zap.String("service", "booking")),
		now:      time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, apperr.InvalidRequest("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperr.InvalidRequest("invalid user ID format %s", userID)
	}

	if (req.TestID == nil) == (req.PackageID == nil) {
		return nil, apperr.InvalidRequest("exactly one of test_id or package_id is required")
	}

	mode := entity.CollectionMode(req.CollectionMode)
	if mode == entity.CollectionModeHome && req.Address == nil {
		return nil, apperr.InvalidRequest("address is required for home collection")
	}

	collectionDate, err := time.Parse(time.RFC3339, req.CollectionDate)
	if err != nil {
		return nil, apperr.InvalidRequest("invalid collection_date %s, expected RFC3339", req.CollectionDate)
	}

	subjectName, price, fee, err := s.resolveSubject(ctx, req.TestID, req.PackageID)
	if err != nil {
		return nil, err
	}

	pricing := CalculatePricing(price, fee, mode)

	now := s.now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:      userUUID,
		SubjectName: subjectName,

		PatientName:   req.Patient.Name,
		PatientAge:    req.Patient.Age,
		PatientGender: req.Patient.Gender,
		PatientPhone:  req.Patient.Phone,
		PatientEmail:  req.Patient.Email,

		CollectionMode: mode,
		CollectionDate: collectionDate,
		CollectionSlot: req.CollectionSlot,

		TestPrice:         pricing.TestPrice,
		HomeCollectionFee: pricing.HomeCollectionFee,
		TotalAmount:       pricing.TotalAmount,
		DiscountAmount:    pricing.DiscountAmount,
		FinalAmount:       pricing.FinalAmount,
		PaymentStatus:     entity.PaymentStatusPending,

		LabName:    req.LabName,
		LabAddress: req.LabAddress,

		Status:       entity.BookingStatusScheduled,
		ReportStatus: entity.ReportStatusPending,

		PrescriptionRequired: req.PrescriptionRequired,
		PrescriptionRef:      req.PrescriptionRef,

		RefundStatus: entity.RefundStatusNotApplicable,
	}

	if req.TestID != nil {
		id := uuid.MustParse(*req.TestID)
		booking.TestID = &id
	}
	if req.PackageID != nil {
		id := uuid.MustParse(*req.PackageID)
		booking.PackageID = &id
	}
	if req.LabID != nil {
		id, err := uuid.Parse(*req.LabID)
		if err != nil {
			return nil, apperr.InvalidRequest("invalid lab ID format %s", *req.LabID)
		}
		booking.LabID = &id
	}
	if req.Address != nil {
		booking.Address = &entity.Address{
			Street:   req.Address.Street,
			City:     req.Address.City,
			State:    req.Address.State,
			Pincode:  req.Address.Pincode,
			Landmark: req.Address.Landmark,
		}
	}

	if err := s.createWithNumber(ctx, booking); err != nil {
		return nil, err
	}

	s.incrementSubjectCounter(ctx, booking)

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_number", booking.BookingNumber),
		zap.String("user_id", userID),
		zap.String("subject", subjectName),
		zap.Float64("final_amount", booking.FinalAmount),
	)

	s.publish(ctx, notify.KindBookingCreated, booking)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// createWithNumber allocates a booking number and persists the booking,
// re-allocating on a uniqueness collision instead of reusing the number.
func (s *bookingService) createWithNumber(ctx context.Context, booking *entity.Booking) error {
	for attempt := 1; attempt <= createAttempts; attempt++ {
		number, err := s.numbers.Generate(ctx)
		if err != nil {
			return fmt.Errorf("generate booking number: %w", err)
		}
		booking.BookingNumber = number

		err = s.repo.Booking.Create(ctx, booking)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicateBookingNumber) {
			return fmt.Errorf("create booking: %w", err)
		}

		s.log.Warn("Booking number collision, retrying",
			zap.String("booking_number", number),
			zap.Int("attempt", attempt),
		)
	}

	return apperr.Conflict("could not allocate a unique booking number after %d attempts", createAttempts)
}

// resolveSubject checks the referenced test or package exists and is active
// and returns its display name, effective price and home-collection fee.
func (s *bookingService) resolveSubject(ctx context.Context, testID, packageID *string) (string, float64, float64, error) {
	if testID != nil {
		id, err := uuid.Parse(*testID)
		if err != nil {
			return "", 0, 0, apperr.InvalidRequest("invalid test ID format %s", *testID)
		}
		test, err := s.repo.LabTest.FindByID(ctx, id)
		if err != nil {
			return "", 0, 0, fmt.Errorf("look up lab test: %w", err)
		}
		if test == nil {
			return "", 0, 0, apperr.NotFound("lab test %s not found", *testID)
		}
		if !test.IsActive {
			return "", 0, 0, apperr.InactiveSubject("lab test %s is not bookable", test.Name)
		}
		return test.Name, test.EffectivePrice(), test.HomeCollectionFee, nil
	}

	id, err := uuid.Parse(*packageID)
	if err != nil {
		return "", 0, 0, apperr.InvalidRequest("invalid package ID format %s", *packageID)
	}
	pkg, err := s.repo.TestPackage.FindByID(ctx, id)
	if err != nil {
		return "", 0, 0, fmt.Errorf("look up test package: %w", err)
	}
	if pkg == nil {
		return "", 0, 0, apperr.NotFound("test package %s not found", *packageID)
	}
	if !pkg.IsActive {
		return "", 0, 0, apperr.InactiveSubject("test package %s is not bookable", pkg.Name)
	}
	return pkg.Name, pkg.EffectivePrice(), pkg.HomeCollectionFee, nil
}

func (s *bookingService) incrementSubjectCounter(ctx context.Context, booking *entity.Booking) {
	var err error
	if booking.TestID != nil {
		err = s.repo.LabTest.IncrementBookings(ctx, *booking.TestID)
	} else if booking.PackageID != nil {
		err = s.repo.TestPackage.IncrementBookings(ctx, *booking.PackageID)
	}
	if err != nil {
		// Counter drift is tolerable; the booking itself is already persisted.
		s.log.Warn("Failed to increment subject bookings counter",
			zap.Error(err),
			zap.String("booking_number", booking.BookingNumber),
		)
	}
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetBookingByNumber(ctx context.Context, bookingNumber string) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByNumber(ctx, bookingNumber)
	if err != nil {
		return nil, fmt.Errorf("get booking by number: %w", err)
	}
	if booking == nil {
		return nil, apperr.NotFound("booking %s not found", bookingNumber)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) ConfirmBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := ValidateTransition(booking.Status, entity.BookingStatusConfirmed); err != nil {
		return nil, err
	}

	updated, err := s.repo.Booking.UpdateStatus(ctx, booking.ID, booking.Status, entity.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, s.concurrentTransition(ctx, booking.ID, entity.BookingStatusConfirmed)
	}

	booking.Status = entity.BookingStatusConfirmed

	s.log.Info("Booking confirmed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_number", booking.BookingNumber),
	)

	s.publish(ctx, notify.KindBookingConfirmed, booking)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) AddSampleDetails(ctx context.Context, bookingID string, req *request.AddSampleRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.InvalidRequest("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := ValidateTransition(booking.Status, entity.BookingStatusSampleCollected); err != nil {
		return nil, err
	}

	now := s.now()
	sample := repository.SampleUpdate{
		SampleID:    req.SampleID,
		Barcode:     req.Barcode,
		SampleType:  req.SampleType,
		CollectedBy: req.CollectedBy,
		Notes:       req.Notes,
		CollectedAt: now,
	}

	updated, err := s.repo.Booking.AttachSample(ctx, booking.ID, booking.Status, sample)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, s.concurrentTransition(ctx, booking.ID, entity.BookingStatusSampleCollected)
	}

	booking.Status = entity.BookingStatusSampleCollected
	booking.SampleID = &req.SampleID
	booking.SampleBarcode = &req.Barcode
	booking.SampleType = &req.SampleType
	booking.SampleCollectedBy = &req.CollectedBy
	if req.Notes != "" {
		booking.SampleNotes = &req.Notes
	}
	booking.SampleCollectedAt = &now

	s.log.Info("Sample details recorded",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_number", booking.BookingNumber),
		zap.String("sample_id", req.SampleID),
	)

	s.publish(ctx, notify.KindSampleCollected, booking)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) AddReport(ctx context.Context, bookingID string, req *request.AddReportRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.InvalidRequest("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := ValidateTransition(booking.Status, entity.BookingStatusReportReady); err != nil {
		return nil, err
	}

	// Generation and delivery are stamped at the same instant; the source
	// system does not model a delivery lag.
	now := s.now()
	report := repository.ReportUpdate{
		URLs:        req.ReportURLs,
		GeneratedBy: req.GeneratedBy,
		Notes:       req.Notes,
		GeneratedAt: now,
		DeliveredAt: now,
	}

	updated, err := s.repo.Booking.AttachReport(ctx, booking.ID, booking.Status, report)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, s.concurrentTransition(ctx, booking.ID, entity.BookingStatusReportReady)
	}

	booking.Status = entity.BookingStatusReportReady
	booking.ReportURLs = req.ReportURLs
	booking.ReportGeneratedBy = &req.GeneratedBy
	if req.Notes != "" {
		booking.ReportNotes = &req.Notes
	}
	booking.ReportStatus = entity.ReportStatusDelivered
	booking.ReportGeneratedAt = &now
	booking.ReportDeliveredAt = &now

	s.log.Info("Report attached",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_number", booking.BookingNumber),
		zap.Int("report_urls", len(req.ReportURLs)),
	)

	s.publish(ctx, notify.KindReportReady, booking)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID, actorID string, role entity.ActorRole, req *request.CancelBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.InvalidRequest("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if role == entity.ActorRoleCustomer && booking.UserID.String() != actorID {
		return nil, apperr.Forbidden("only the booking owner may cancel it")
	}

	if !booking.IsCancellable() {
		return nil, apperr.InvalidTransition(string(booking.Status), string(entity.BookingStatusCancelled))
	}

	now := s.now()
	refundAmount := RefundAmount(booking, now)
	refundStatus := RefundStatusFor(refundAmount)

	updated, err := s.repo.Booking.Cancel(ctx, booking.ID, role, req.Reason, refundAmount, refundStatus, now)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, s.concurrentTransition(ctx, booking.ID, entity.BookingStatusCancelled)
	}

	booking.Status = entity.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.CancelledBy = &role
	booking.CancellationReason = &req.Reason
	booking.RefundAmount = refundAmount
	booking.RefundStatus = refundStatus

	s.log.Info("Booking cancelled",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_number", booking.BookingNumber),
		zap.String("cancelled_by", string(role)),
		zap.Float64("refund_amount", refundAmount),
	)

	s.publish(ctx, notify.KindBookingCancelled, booking)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) RateBooking(ctx context.Context, bookingID, actorID string, req *request.RateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.InvalidRequest("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID.String() != actorID {
		return nil, apperr.Forbidden("only the booking owner may rate it")
	}
	if booking.Status != entity.BookingStatusCompleted {
		return nil, apperr.InvalidRequest("only completed bookings can be rated, current status is %s", booking.Status)
	}
	if booking.IsRated() {
		return nil, apperr.InvalidRequest("booking %s has already been rated", booking.BookingNumber)
	}

	now := s.now()
	updated, err := s.repo.Booking.Rate(ctx, booking.ID, req.Rating, req.Feedback, now)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperr.InvalidRequest("booking %s can no longer be rated", booking.BookingNumber)
	}

	booking.Rating = &req.Rating
	if req.Feedback != "" {
		booking.Feedback = &req.Feedback
	}
	booking.RatedAt = &now

	s.log.Info("Booking rated",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_number", booking.BookingNumber),
		zap.Int("rating", req.Rating),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// UpdateBooking corrects non-lifecycle fields; a requested status change goes
// through the same transition validation as the dedicated operations, so there
// is no back door around the table. Statuses whose transition carries side
// effects (cancel, sample, report, confirm) are rejected here and must use
// their dedicated operation.
func (s *bookingService) UpdateBooking(ctx context.Context, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.InvalidRequest("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	var targetStatus *entity.BookingStatus
	if req.Status != nil {
		status := entity.BookingStatus(*req.Status)
		if status != booking.Status {
			if err := ValidateTransition(booking.Status, status); err != nil {
				return nil, err
			}
			if !plainUpdateTargets[status] {
				return nil, apperr.InvalidRequest("status %s must be set through its dedicated operation", status)
			}
			targetStatus = &status
		}
	}

	applyBookingUpdate(booking, req)
	booking.UpdatedAt = s.now()

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, err
	}

	if targetStatus != nil {
		updated, err := s.repo.Booking.UpdateStatus(ctx, booking.ID, booking.Status, *targetStatus)
		if err != nil {
			return nil, err
		}
		if !updated {
			return nil, s.concurrentTransition(ctx, booking.ID, *targetStatus)
		}
		booking.Status = *targetStatus
	}

	s.log.Info("Booking updated",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_number", booking.BookingNumber),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func applyBookingUpdate(b *entity.Booking, req *request.UpdateBookingRequest) {
	if req.PatientName != nil {
		b.PatientName = *req.PatientName
	}
	if req.PatientAge != nil {
		b.PatientAge = *req.PatientAge
	}
	if req.PatientPhone != nil {
		b.PatientPhone = *req.PatientPhone
	}
	if req.PatientEmail != nil {
		b.PatientEmail = *req.PatientEmail
	}
	if req.CollectionDate != nil {
		if date, err := time.Parse(time.RFC3339, *req.CollectionDate); err == nil {
			b.CollectionDate = date
		}
	}
	if req.CollectionSlot != nil {
		b.CollectionSlot = *req.CollectionSlot
	}
	if req.Address != nil {
		b.Address = &entity.Address{
			Street:   req.Address.Street,
			City:     req.Address.City,
			State:    req.Address.State,
			Pincode:  req.Address.Pincode,
			Landmark: req.Address.Landmark,
		}
	}
	if req.LabID != nil {
		if id, err := uuid.Parse(*req.LabID); err == nil {
			b.LabID = &id
		}
	}
	if req.LabName != nil {
		b.LabName = *req.LabName
	}
	if req.LabAddress != nil {
		b.LabAddress = *req.LabAddress
	}
	if req.PaymentStatus != nil {
		b.PaymentStatus = entity.PaymentStatus(*req.PaymentStatus)
	}
	if req.RefundStatus != nil {
		b.RefundStatus = entity.RefundStatus(*req.RefundStatus)
	}
	if req.PrescriptionVerified != nil {
		b.PrescriptionVerified = *req.PrescriptionVerified
	}
}

func (s *bookingService) loadBooking(ctx context.Context, bookingID string) (*entity.Booking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperr.InvalidRequest("invalid booking ID format %s", bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.NotFound("booking %s not found", bookingID)
	}

	return booking, nil
}

// concurrentTransition is returned when the conditional update lost a race:
// the booking is re-read so the error names the status that actually won.
func (s *bookingService) concurrentTransition(ctx context.Context, id uuid.UUID, requested entity.BookingStatus) error {
	current, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil || current == nil {
		return apperr.InvalidTransition("unknown", string(requested))
	}
	return apperr.InvalidTransition(string(current.Status), string(requested))
}

func (s *bookingService) publish(ctx context.Context, kind notify.Kind, booking *entity.Booking) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, notify.NewEvent(kind, booking)); err != nil {
		s.log.Warn("Failed to publish notification trigger",
			zap.Error(err),
			zap.String("kind", string(kind)),
			zap.String("booking_number", booking.BookingNumber),
		)
	}
}
