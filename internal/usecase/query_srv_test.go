package usecase

import (
	"context"
	"testing"
	"time"

	"lab-booking/internal/data/entity"
	"lab-booking/internal/data/repository"
	"lab-booking/internal/dto/request"
	"lab-booking/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildBookingFilter(t *testing.T) {
	userID := uuid.New()

	req := &request.SearchBookingsRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 20},
		UserID:           userID.String(),
		SubjectType:      "test",
		CollectionMode:   "HOME_COLLECTION",
		Status:           "CONFIRMED",
		CollectionFrom:   "2025-01-01T00:00:00Z",
		CollectionTo:     "2025-01-31T00:00:00Z",
	}

	filter, err := buildBookingFilter(req)

	require.NoError(t, err)
	require.NotNil(t, filter.UserID)
	assert.Equal(t, userID, *filter.UserID)
	assert.Equal(t, "test", filter.SubjectType)
	assert.Equal(t, entity.CollectionModeHome, filter.CollectionMode)
	assert.Equal(t, entity.BookingStatusConfirmed, filter.Status)
	require.NotNil(t, filter.CollectionFrom)
	require.NotNil(t, filter.CollectionTo)
	assert.True(t, filter.CollectionFrom.Before(*filter.CollectionTo))
}

func TestBuildBookingFilter_Rejections(t *testing.T) {
	cases := []struct {
		name string
		req  *request.SearchBookingsRequest
	}{
		{
			name: "malformed user id",
			req: &request.SearchBookingsRequest{
				PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 20},
				UserID:           "nope",
			},
		},
		{
			name: "unknown subject type",
			req: &request.SearchBookingsRequest{
				PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 20},
				SubjectType:      "bundle",
			},
		},
		{
			name: "unknown status",
			req: &request.SearchBookingsRequest{
				PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 20},
				Status:           "LOST",
			},
		},
		{
			name: "bad date",
			req: &request.SearchBookingsRequest{
				PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 20},
				CollectionFrom:   "yesterday",
			},
		},
		{
			name: "inverted range",
			req: &request.SearchBookingsRequest{
				PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 20},
				CollectionFrom:   "2025-02-01T00:00:00Z",
				CollectionTo:     "2025-01-01T00:00:00Z",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := buildBookingFilter(tc.req)
			require.Error(t, err)

			var appErr *apperr.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperr.KindInvalidRequest, appErr.Kind)
		})
	}
}

func TestListUserBookings_PaginatesAndMaps(t *testing.T) {
	bookings := &MockBookingRepository{}
	service := &queryService{
		repo: &repository.Repository{Booking: bookings},
		log:  zap.NewNop(),
	}

	ctx := context.Background()
	userID := uuid.New()

	stored := scheduledBooking(userID)
	stored.CollectionDate = time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC)

	bookings.On("Count", ctx, mock.AnythingOfType("repository.BookingFilter")).
		Return(int64(41), nil).Once()
	bookings.On("Search", ctx, mock.AnythingOfType("repository.BookingFilter"), 20, 20).
		Return([]*entity.Booking{stored}, nil).Once()

	resp, err := service.ListUserBookings(ctx, userID.String(), 2, 20)

	require.NoError(t, err)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, stored.BookingNumber, resp.Data[0].BookingNumber)
	assert.Equal(t, int64(41), resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, 3, resp.Pagination.TotalPages)

	bookings.AssertExpectations(t)
}

func TestBookingStatistics(t *testing.T) {
	bookings := &MockBookingRepository{}
	service := &queryService{
		repo: &repository.Repository{Booking: bookings},
		log:  zap.NewNop(),
	}

	ctx := context.Background()

	bookings.On("Statistics", ctx).Return(&repository.BookingStats{
		Total: 10,
		CountsByStatus: map[entity.BookingStatus]int64{
			entity.BookingStatusScheduled: 4,
			entity.BookingStatusCompleted: 6,
		},
		TotalRevenue:   5500,
		AverageRevenue: 550,
	}, nil).Once()

	resp, err := service.BookingStatistics(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.Total)
	assert.Equal(t, int64(6), resp.CountsByStatus[entity.BookingStatusCompleted])
	assert.Equal(t, 5500.0, resp.TotalRevenue)
	assert.Equal(t, 550.0, resp.AverageRevenue)
}
