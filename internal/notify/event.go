package notify

import (
	"time"

	"lab-booking/internal/data/entity"
)

type Kind string

const (
	KindBookingCreated   Kind = "booking_created"
	KindBookingConfirmed Kind = "booking_confirmed"
	KindSampleCollected  Kind = "sample_collected"
	KindReportReady      Kind = "report_ready"
	KindBookingCancelled Kind = "booking_cancelled"
)

// Event is the trigger record the booking engine emits for every lifecycle
// transition. Delivery (email/SMS) happens elsewhere; the engine never waits
// for it.
type Event struct {
	Kind           Kind                 `json:"kind"`
	BookingID      string               `json:"booking_id"`
	BookingNumber  string               `json:"booking_number"`
	Status         entity.BookingStatus `json:"status"`
	PatientName    string               `json:"patient_name"`
	PatientEmail   string               `json:"patient_email,omitempty"`
	PatientPhone   string               `json:"patient_phone"`
	SubjectName    string               `json:"subject_name"`
	CollectionDate time.Time            `json:"collection_date"`
	CollectionSlot string               `json:"collection_slot"`
	FinalAmount    float64              `json:"final_amount"`
	RefundAmount   float64              `json:"refund_amount,omitempty"`
	ReportURLs     []string             `json:"report_urls,omitempty"`
	OccurredAt     time.Time            `json:"occurred_at"`
}

// NewEvent snapshots the fields notification templates need.
func NewEvent(kind Kind, b *entity.Booking) Event {
	return Event{
		Kind:           kind,
		BookingID:      b.ID.String(),
		BookingNumber:  b.BookingNumber,
		Status:         b.Status,
		PatientName:    b.PatientName,
		PatientEmail:   b.PatientEmail,
		PatientPhone:   b.PatientPhone,
		SubjectName:    b.SubjectName,
		CollectionDate: b.CollectionDate,
		CollectionSlot: b.CollectionSlot,
		FinalAmount:    b.FinalAmount,
		RefundAmount:   b.RefundAmount,
		ReportURLs:     b.ReportURLs,
		OccurredAt:     time.Now(),
	}
}
