package usecase

import (
	"lab-booking/internal/data/repository"

	"go.uber.org/zap"
)

type Service struct {
	Booking BookingService
	Query   QueryService
	Catalog CatalogService
}

func NewService(repo *repository.Repository, numbers NumberGenerator, notifier Notifier, log *zap.Logger) *Service {
	return &Service{
		Booking: NewBookingService(repo, numbers, notifier, log),
		Query:   NewQueryService(repo, log),
		Catalog: NewCatalogService(repo, log),
	}
}
