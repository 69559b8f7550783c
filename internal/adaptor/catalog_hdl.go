package adaptor

import (
	"net/http"

	"lab-booking/internal/usecase"
	"lab-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log.With(zap.String("handler", "catalog")),
	}
}

// ListLabTests handles GET /api/lab-tests (public)
func (h *CatalogHandler) ListLabTests(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := utils.ParseInt(query.Get("page"), 1)
	perPage := utils.ParseInt(query.Get("per_page"), 20)

	tests, err := h.service.ListLabTests(r.Context(), page, perPage)
	if err != nil {
		writeServiceError(w, h.log, err, "list lab tests")
		return
	}

	utils.ResponseSuccess(w, "success", tests)
}

// GetLabTest handles GET /api/lab-tests/{id} (public)
func (h *CatalogHandler) GetLabTest(w http.ResponseWriter, r *http.Request) {
	testID := chi.URLParam(r, "id")
	if testID == "" {
		utils.ResponseBadRequest(w, "Test ID is required", nil)
		return
	}

	test, err := h.service.GetLabTest(r.Context(), testID)
	if err != nil {
		writeServiceError(w, h.log, err, "get lab test")
		return
	}

	utils.ResponseSuccess(w, "success", test)
}

// ListTestPackages handles GET /api/test-packages (public)
func (h *CatalogHandler) ListTestPackages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := utils.ParseInt(query.Get("page"), 1)
	perPage := utils.ParseInt(query.Get("per_page"), 20)

	packages, err := h.service.ListTestPackages(r.Context(), page, perPage)
	if err != nil {
		writeServiceError(w, h.log, err, "list test packages")
		return
	}

	utils.ResponseSuccess(w, "success", packages)
}

// GetTestPackage handles GET /api/test-packages/{id} (public)
func (h *CatalogHandler) GetTestPackage(w http.ResponseWriter, r *http.Request) {
	packageID := chi.URLParam(r, "id")
	if packageID == "" {
		utils.ResponseBadRequest(w, "Package ID is required", nil)
		return
	}

	pkg, err := h.service.GetTestPackage(r.Context(), packageID)
	if err != nil {
		writeServiceError(w, h.log, err, "get test package")
		return
	}

	utils.ResponseSuccess(w, "success", pkg)
}
