package usecase

import (
	"context"
	"fmt"
	"time"

	"lab-booking/internal/data/entity"
	"lab-booking/internal/data/repository"
	"lab-booking/internal/dto/request"
	"lab-booking/internal/dto/response"
	"lab-booking/pkg/apperr"
	"lab-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

type QueryService interface {
	SearchBookings(ctx context.Context, req *request.SearchBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	ListUserBookings(ctx context.Context, userID string, page, perPage int) (*response.PaginatedResponse[response.BookingResponse], error)
	BookingStatistics(ctx context.Context) (*response.BookingStatsResponse, error)
}

type queryService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewQueryService(repo *repository.Repository, log *zap.Logger) QueryService {
	return &queryService{
		repo: repo,
		log:  log.With(zap.String("service", "query")),
	}
}

func (s *queryService) SearchBookings(ctx context.Context, req *request.SearchBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	filter, err := buildBookingFilter(req)
	if err != nil {
		return nil, err
	}

	return s.paginate(ctx, filter, req.Page, req.PerPage)
}

func (s *queryService) ListUserBookings(ctx context.Context, userID string, page, perPage int) (*response.PaginatedResponse[response.BookingResponse], error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperr.InvalidRequest("invalid user ID format %s", userID)
	}

	return s.paginate(ctx, repository.BookingFilter{UserID: &id}, page, perPage)
}

func (s *queryService) paginate(ctx context.Context, filter repository.BookingFilter, page, perPage int) (*response.PaginatedResponse[response.BookingResponse], error) {
	page, perPage = normalizePage(page, perPage)

	total, err := s.repo.Booking.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	bookings, err := s.repo.Booking.Search(ctx, filter, perPage, utils.CalculateOffset(page, perPage))
	if err != nil {
		return nil, fmt.Errorf("search bookings: %w", err)
	}

	items := make([]response.BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		items = append(items, response.BookingToResponse(booking))
	}

	return response.NewPaginatedResponse(items, page, perPage, total), nil
}

func (s *queryService) BookingStatistics(ctx context.Context) (*response.BookingStatsResponse, error) {
	stats, err := s.repo.Booking.Statistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("booking statistics: %w", err)
	}

	return &response.BookingStatsResponse{
		Total:          stats.Total,
		CountsByStatus: stats.CountsByStatus,
		TotalRevenue:   stats.TotalRevenue,
		AverageRevenue: stats.AverageRevenue,
	}, nil
}

// buildBookingFilter turns the raw search parameters into a typed filter,
// rejecting malformed IDs, enum values and date bounds up front.
func buildBookingFilter(req *request.SearchBookingsRequest) (repository.BookingFilter, error) {
	var filter repository.BookingFilter

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return filter, apperr.InvalidRequest("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	if req.UserID != "" {
		id, err := uuid.Parse(req.UserID)
		if err != nil {
			return filter, apperr.InvalidRequest("invalid user_id %s", req.UserID)
		}
		filter.UserID = &id
	}
	if req.TestID != "" {
		id, err := uuid.Parse(req.TestID)
		if err != nil {
			return filter, apperr.InvalidRequest("invalid test_id %s", req.TestID)
		}
		filter.TestID = &id
	}
	if req.PackageID != "" {
		id, err := uuid.Parse(req.PackageID)
		if err != nil {
			return filter, apperr.InvalidRequest("invalid package_id %s", req.PackageID)
		}
		filter.PackageID = &id
	}

	filter.BookingNumber = req.BookingNumber
	filter.SubjectType = req.SubjectType
	filter.CollectionMode = entity.CollectionMode(req.CollectionMode)
	filter.Status = entity.BookingStatus(req.Status)
	filter.PaymentStatus = entity.PaymentStatus(req.PaymentStatus)
	filter.ReportStatus = entity.ReportStatus(req.ReportStatus)

	if req.CollectionFrom != "" {
		from, err := time.Parse(time.RFC3339, req.CollectionFrom)
		if err != nil {
			return filter, apperr.InvalidRequest("invalid collection_from %s, expected RFC3339", req.CollectionFrom)
		}
		filter.CollectionFrom = &from
	}
	if req.CollectionTo != "" {
		to, err := time.Parse(time.RFC3339, req.CollectionTo)
		if err != nil {
			return filter, apperr.InvalidRequest("invalid collection_to %s, expected RFC3339", req.CollectionTo)
		}
		filter.CollectionTo = &to
	}
	if filter.CollectionFrom != nil && filter.CollectionTo != nil && filter.CollectionTo.Before(*filter.CollectionFrom) {
		return filter, apperr.InvalidRequest("collection_to is before collection_from")
	}

	return filter, nil
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}
