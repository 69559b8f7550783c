package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"lab-booking/internal/dto/response"
	"lab-booking/pkg/apperr"
	"lab-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListLabTests(ctx context.Context, page, perPage int) (*response.PaginatedResponse[response.LabTestResponse], error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.PaginatedResponse[response.LabTestResponse]), args.Error(1)
}

func (m *MockCatalogService) ListTestPackages(ctx context.Context, page, perPage int) (*response.PaginatedResponse[response.TestPackageResponse], error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.PaginatedResponse[response.TestPackageResponse]), args.Error(1)
}

func (m *MockCatalogService) GetLabTest(ctx context.Context, testID string) (*response.LabTestResponse, error) {
	args := m.Called(ctx, testID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.LabTestResponse), args.Error(1)
}

func (m *MockCatalogService) GetTestPackage(ctx context.Context, packageID string) (*response.TestPackageResponse, error) {
	args := m.Called(ctx, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.TestPackageResponse), args.Error(1)
}

func newCatalogRouter(service *MockCatalogService) *chi.Mux {
	handler := NewCatalogHandler(service, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/api/lab-tests", handler.ListLabTests)
	r.Get("/api/lab-tests/{id}", handler.GetLabTest)
	r.Get("/api/test-packages", handler.ListTestPackages)
	r.Get("/api/test-packages/{id}", handler.GetTestPackage)
	return r
}

func TestGetLabTest_OK(t *testing.T) {
	service := &MockCatalogService{}
	router := newCatalogRouter(service)

	testID := uuid.New().String()
	service.On("GetLabTest", mock.Anything, testID).Return(&response.LabTestResponse{
		ID:   testID,
		Code: "CBC",
		Name: "Complete Blood Count",
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/lab-tests/"+testID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Status)

	service.AssertExpectations(t)
}

func TestGetLabTest_NotFoundMapsTo404(t *testing.T) {
	service := &MockCatalogService{}
	router := newCatalogRouter(service)

	testID := uuid.New().String()
	service.On("GetLabTest", mock.Anything, testID).
		Return(nil, apperr.NotFound("lab test %s not found", testID)).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/lab-tests/"+testID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListLabTests_PassesPagination(t *testing.T) {
	service := &MockCatalogService{}
	router := newCatalogRouter(service)

	service.On("ListLabTests", mock.Anything, 3, 5).
		Return(response.NewPaginatedResponse([]response.LabTestResponse{}, 3, 5, 0), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/lab-tests?page=3&per_page=5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	service.AssertExpectations(t)
}

func TestWriteServiceError_KindMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", apperr.NotFound("gone"), http.StatusNotFound},
		{"inactive subject", apperr.InactiveSubject("disabled"), http.StatusBadRequest},
		{"invalid request", apperr.InvalidRequest("bad"), http.StatusBadRequest},
		{"invalid transition", apperr.InvalidTransition("SCHEDULED", "REPORT_READY"), http.StatusUnprocessableEntity},
		{"forbidden", apperr.Forbidden("no"), http.StatusForbidden},
		{"conflict", apperr.Conflict("taken"), http.StatusConflict},
		{"plain error", errors.New("pg down"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, zap.NewNop(), tc.err, "test op")
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestWriteServiceError_WrappedErrorKeepsKind(t *testing.T) {
	wrapped := fmt.Errorf("cancel booking: %w", apperr.Forbidden("only the booking owner may cancel it"))

	rec := httptest.NewRecorder()
	writeServiceError(rec, zap.NewNop(), wrapped, "cancel booking")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
