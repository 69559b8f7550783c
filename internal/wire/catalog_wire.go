package wire

import (
	"lab-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCatalog(r chi.Router, catalogHandler *adaptor.CatalogHandler) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/lab-tests - Browse active lab tests
	r.Get("/api/lab-tests", catalogHandler.ListLabTests)

	// GET /api/lab-tests/{id} - Lab test details
	r.Get("/api/lab-tests/{id}", catalogHandler.GetLabTest)

	// GET /api/test-packages - Browse active test packages
	r.Get("/api/test-packages", catalogHandler.ListTestPackages)

	// GET /api/test-packages/{id} - Test package details
	r.Get("/api/test-packages/{id}", catalogHandler.GetTestPackage)
}
