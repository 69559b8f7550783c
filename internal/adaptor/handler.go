package adaptor

import (
	"errors"
	"net/http"

	"lab-booking/internal/usecase"
	"lab-booking/pkg/apperr"
	"lab-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Booking *BookingHandler
	Catalog *CatalogHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking: NewBookingHandler(service.Booking, service.Query, log),
		Catalog: NewCatalogHandler(service.Catalog, log),
	}
}

// writeServiceError maps a typed business error onto an HTTP response.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	log.Warn(operation+" rejected",
		zap.Error(err),
		zap.String("operation", operation))

	switch appErr.Kind {
	case apperr.KindNotFound:
		utils.ResponseNotFound(w, appErr.Message)
	case apperr.KindInactiveSubject, apperr.KindInvalidRequest:
		utils.ResponseBadRequest(w, appErr.Message, nil)
	case apperr.KindInvalidTransition:
		utils.ResponseUnprocessable(w, appErr.Message)
	case apperr.KindForbidden:
		utils.ResponseForbidden(w, appErr.Message)
	case apperr.KindConflict:
		utils.ResponseConflict(w, appErr.Message)
	default:
		utils.ResponseInternalError(w, "Internal server error")
	}
}
