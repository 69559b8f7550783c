package repository

import (
	"lab-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	LabTest     LabTestRepository
	TestPackage TestPackageRepository
	Booking     BookingRepository
	Sequence    SequenceRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		LabTest:     NewLabTestRepository(db, log),
		TestPackage: NewTestPackageRepository(db, log),
		Booking:     NewBookingRepository(db, log),
		Sequence:    NewSequenceRepository(db, log),
	}
}
