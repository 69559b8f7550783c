package adaptor

import (
	"encoding/json"
	"net/http"

	"lab-booking/internal/data/entity"
	"lab-booking/internal/dto/request"
	"lab-booking/internal/usecase"
	"lab-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	query   usecase.QueryService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, query usecase.QueryService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		query:   query,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(&req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), userID.String(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// GetUserBookings handles GET /api/user/bookings (protected)
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	page := utils.ParseInt(query.Get("page"), 1)
	perPage := utils.ParseInt(query.Get("per_page"), 10)

	bookings, err := h.query.ListUserBookings(r.Context(), userID.String(), page, perPage)
	if err != nil {
		writeServiceError(w, h.log, err, "list user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBookingByID handles GET /api/bookings/{id} (protected)
func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.GetBookingByID(r.Context(), bookingID)
	if err != nil {
		writeServiceError(w, h.log, err, "get booking by ID")
		return
	}

	// Customers may only read their own bookings.
	if role, _ := utils.GetRoleFromContext(r.Context()); role == string(entity.ActorRoleCustomer) {
		userID, _ := utils.GetUserIDFromContext(r.Context())
		if booking.UserID != userID.String() {
			utils.ResponseForbidden(w, "Access denied")
			return
		}
	}

	utils.ResponseSuccess(w, "success", booking)
}

// GetBookingByNumber handles GET /api/bookings/number/{number} (protected)
func (h *BookingHandler) GetBookingByNumber(w http.ResponseWriter, r *http.Request) {
	bookingNumber := chi.URLParam(r, "number")
	if bookingNumber == "" {
		utils.ResponseBadRequest(w, "Booking number is required", nil)
		return
	}

	booking, err := h.service.GetBookingByNumber(r.Context(), bookingNumber)
	if err != nil {
		writeServiceError(w, h.log, err, "get booking by number")
		return
	}

	if role, _ := utils.GetRoleFromContext(r.Context()); role == string(entity.ActorRoleCustomer) {
		userID, _ := utils.GetUserIDFromContext(r.Context())
		if booking.UserID != userID.String() {
			utils.ResponseForbidden(w, "Access denied")
			return
		}
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CancelBooking handles PUT /api/bookings/{id}/cancel (protected)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	var req request.CancelBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	role := actorRole(r)
	booking, err := h.service.CancelBooking(r.Context(), bookingID, userID.String(), role, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// RateBooking handles POST /api/bookings/{id}/rating (protected)
func (h *BookingHandler) RateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	var req request.RateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.RateBooking(r.Context(), bookingID, userID.String(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "rate booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// ==================== ADMIN METHODS ====================

// SearchBookings handles GET /api/admin/bookings (admin only)
func (h *BookingHandler) SearchBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &request.SearchBookingsRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 20),
		},
		UserID:         query.Get("user_id"),
		TestID:         query.Get("test_id"),
		PackageID:      query.Get("package_id"),
		BookingNumber:  query.Get("booking_number"),
		SubjectType:    query.Get("subject_type"),
		CollectionMode: query.Get("collection_mode"),
		Status:         query.Get("status"),
		PaymentStatus:  query.Get("payment_status"),
		ReportStatus:   query.Get("report_status"),
		CollectionFrom: query.Get("collection_from"),
		CollectionTo:   query.Get("collection_to"),
	}

	bookings, err := h.query.SearchBookings(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err, "search bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// UpdateBooking handles PUT /api/admin/bookings/{id} (admin only)
func (h *BookingHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	var req request.UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.UpdateBooking(r.Context(), bookingID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// ConfirmBooking handles PUT /api/admin/bookings/{id}/confirm (admin only)
func (h *BookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.ConfirmBooking(r.Context(), bookingID)
	if err != nil {
		writeServiceError(w, h.log, err, "confirm booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// AddSampleDetails handles PUT /api/admin/bookings/{id}/sample (admin/lab only)
func (h *BookingHandler) AddSampleDetails(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	var req request.AddSampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.AddSampleDetails(r.Context(), bookingID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "add sample details")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// AddReport handles PUT /api/admin/bookings/{id}/report (admin/lab only)
func (h *BookingHandler) AddReport(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	var req request.AddReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.AddReport(r.Context(), bookingID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "add report")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// GetStatistics handles GET /api/admin/bookings/statistics (admin only)
func (h *BookingHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.query.BookingStatistics(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "booking statistics")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}

func actorRole(r *http.Request) entity.ActorRole {
	role, ok := utils.GetRoleFromContext(r.Context())
	if !ok {
		return entity.ActorRoleCustomer
	}
	switch entity.ActorRole(role) {
	case entity.ActorRoleAdmin:
		return entity.ActorRoleAdmin
	case entity.ActorRoleLab:
		return entity.ActorRoleLab
	default:
		return entity.ActorRoleCustomer
	}
}
