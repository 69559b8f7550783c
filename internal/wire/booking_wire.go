package wire

import (
	"lab-booking/internal/adaptor"
	"lab-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, log *zap.Logger) {
	// ==================== PROTECTED ROUTES (gateway identity required) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity(log))

		// POST /api/bookings - Create new booking
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// GET /api/user/bookings - View own booking history
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)

		// GET /api/bookings/{id} - View booking details (own bookings only for customers)
		r.Get("/api/bookings/{id}", bookingHandler.GetBookingByID)

		// GET /api/bookings/number/{number} - Look up a booking by its number
		r.Get("/api/bookings/number/{number}", bookingHandler.GetBookingByNumber)

		// PUT /api/bookings/{id}/cancel - Cancel a booking (owner, admin or lab)
		r.Put("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)

		// POST /api/bookings/{id}/rating - Rate a completed booking (owner only)
		r.Post("/api/bookings/{id}/rating", bookingHandler.RateBooking)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.Identity(log))
		r.Use(middleware.RequireRole(log, "ADMIN", "LAB"))

		// GET /api/admin/bookings - Search bookings with filters
		r.Get("/", bookingHandler.SearchBookings)

		// GET /api/admin/bookings/statistics - Aggregate counts and revenue
		r.Get("/statistics", bookingHandler.GetStatistics)

		// PUT /api/admin/bookings/{id} - Correct booking fields
		r.Put("/{id}", bookingHandler.UpdateBooking)

		// PUT /api/admin/bookings/{id}/confirm - Confirm a scheduled booking
		r.Put("/{id}/confirm", bookingHandler.ConfirmBooking)

		// PUT /api/admin/bookings/{id}/sample - Record sample collection
		r.Put("/{id}/sample", bookingHandler.AddSampleDetails)

		// PUT /api/admin/bookings/{id}/report - Attach the generated report
		r.Put("/{id}/report", bookingHandler.AddReport)
	})
}
