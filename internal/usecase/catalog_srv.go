package usecase

import (
	"context"
	"fmt"

	"lab-booking/internal/data/repository"
	"lab-booking/internal/dto/response"
	"lab-booking/pkg/apperr"
	"lab-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogService interface {
	ListLabTests(ctx context.Context, page, perPage int) (*response.PaginatedResponse[response.LabTestResponse], error)
	ListTestPackages(ctx context.Context, page, perPage int) (*response.PaginatedResponse[response.TestPackageResponse], error)
	GetLabTest(ctx context.Context, testID string) (*response.LabTestResponse, error)
	GetTestPackage(ctx context.Context, packageID string) (*response.TestPackageResponse, error)
}

type catalogService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		log:  log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) ListLabTests(ctx context.Context, page, perPage int) (*response.PaginatedResponse[response.LabTestResponse], error) {
	page, perPage = normalizePage(page, perPage)

	total, err := s.repo.LabTest.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("count lab tests: %w", err)
	}

	tests, err := s.repo.LabTest.FindActive(ctx, perPage, utils.CalculateOffset(page, perPage))
	if err != nil {
		return nil, fmt.Errorf("list lab tests: %w", err)
	}

	items := make([]response.LabTestResponse, 0, len(tests))
	for _, test := range tests {
		items = append(items, response.LabTestToResponse(test))
	}

	return response.NewPaginatedResponse(items, page, perPage, total), nil
}

func (s *catalogService) ListTestPackages(ctx context.Context, page, perPage int) (*response.PaginatedResponse[response.TestPackageResponse], error) {
	page, perPage = normalizePage(page, perPage)

	total, err := s.repo.TestPackage.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("count test packages: %w", err)
	}

	packages, err := s.repo.TestPackage.FindActive(ctx, perPage, utils.CalculateOffset(page, perPage))
	if err != nil {
		return nil, fmt.Errorf("list test packages: %w", err)
	}

	items := make([]response.TestPackageResponse, 0, len(packages))
	for _, pkg := range packages {
		items = append(items, response.TestPackageToResponse(pkg))
	}

	return response.NewPaginatedResponse(items, page, perPage, total), nil
}

func (s *catalogService) GetLabTest(ctx context.Context, testID string) (*response.LabTestResponse, error) {
	id, err := uuid.Parse(testID)
	if err != nil {
		return nil, apperr.InvalidRequest("invalid test ID format %s", testID)
	}

	test, err := s.repo.LabTest.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get lab test: %w", err)
	}
	if test == nil {
		return nil, apperr.NotFound("lab test %s not found", testID)
	}

	resp := response.LabTestToResponse(test)
	return &resp, nil
}

func (s *catalogService) GetTestPackage(ctx context.Context, packageID string) (*response.TestPackageResponse, error) {
	id, err := uuid.Parse(packageID)
	if err != nil {
		return nil, apperr.InvalidRequest("invalid package ID format %s", packageID)
	}

	pkg, err := s.repo.TestPackage.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get test package: %w", err)
	}
	if pkg == nil {
		return nil, apperr.NotFound("test package %s not found", packageID)
	}

	resp := response.TestPackageToResponse(pkg)
	return &resp, nil
}
