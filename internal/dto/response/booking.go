package response

import (
	"time"

	"lab-booking/internal/data/entity"
)

type AddressResponse struct {
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
	Landmark string `json:"landmark,omitempty"`
}

type SampleResponse struct {
	SampleID    string     `json:"sample_id"`
	Barcode     string     `json:"barcode"`
	SampleType  string     `json:"sample_type"`
	CollectedBy string     `json:"collected_by"`
	Notes       string     `json:"notes,omitempty"`
	CollectedAt *time.Time `json:"collected_at,omitempty"`
	ReceivedAt  *time.Time `json:"received_at,omitempty"`
}

type ReportResponse struct {
	URLs        []string            `json:"urls"`
	GeneratedBy string              `json:"generated_by"`
	Notes       string              `json:"notes,omitempty"`
	Status      entity.ReportStatus `json:"status"`
	GeneratedAt *time.Time          `json:"generated_at,omitempty"`
	DeliveredAt *time.Time          `json:"delivered_at,omitempty"`
}

type CancellationResponse struct {
	CancelledAt  time.Time           `json:"cancelled_at"`
	CancelledBy  entity.ActorRole    `json:"cancelled_by"`
	Reason       string              `json:"reason"`
	RefundAmount float64             `json:"refund_amount"`
	RefundStatus entity.RefundStatus `json:"refund_status"`
}

type BookingResponse struct {
	ID            string  `json:"id"`
	BookingNumber string  `json:"booking_number"`
	UserID        string  `json:"user_id"`
	TestID        *string `json:"test_id,omitempty"`
	PackageID     *string `json:"package_id,omitempty"`
	SubjectName   string  `json:"subject_name"`

	PatientName   string `json:"patient_name"`
	PatientAge    int    `json:"patient_age"`
	PatientGender string `json:"patient_gender"`
	PatientPhone  string `json:"patient_phone"`
	PatientEmail  string `json:"patient_email,omitempty"`

	CollectionMode entity.CollectionMode `json:"collection_mode"`
	CollectionDate string                `json:"collection_date"`
	CollectionSlot string                `json:"collection_slot"`
	Address        *AddressResponse      `json:"address,omitempty"`

	TestPrice         float64              `json:"test_price"`
	HomeCollectionFee float64              `json:"home_collection_fee"`
	TotalAmount       float64              `json:"total_amount"`
	DiscountAmount    float64              `json:"discount_amount"`
	FinalAmount       float64              `json:"final_amount"`
	PaymentStatus     entity.PaymentStatus `json:"payment_status"`

	LabID      *string `json:"lab_id,omitempty"`
	LabName    string  `json:"lab_name,omitempty"`
	LabAddress string  `json:"lab_address,omitempty"`

	Status entity.BookingStatus `json:"status"`

	Sample       *SampleResponse       `json:"sample,omitempty"`
	Report       *ReportResponse       `json:"report,omitempty"`
	Cancellation *CancellationResponse `json:"cancellation,omitempty"`

	PrescriptionRequired bool    `json:"prescription_required"`
	PrescriptionRef      *string `json:"prescription_ref,omitempty"`
	PrescriptionVerified bool    `json:"prescription_verified"`

	Rating   *int       `json:"rating,omitempty"`
	Feedback *string    `json:"feedback,omitempty"`
	RatedAt  *time.Time `json:"rated_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BookingStatsResponse struct {
	Total          int64                          `json:"total"`
	CountsByStatus map[entity.BookingStatus]int64 `json:"counts_by_status"`
	TotalRevenue   float64                        `json:"total_revenue"`
	AverageRevenue float64                        `json:"average_revenue"`
}

// BookingToResponse maps the entity onto the transport shape, folding the
// nullable column groups back into sub-objects.
func BookingToResponse(b *entity.Booking) BookingResponse {
	resp := BookingResponse{
		ID:            b.ID.String(),
		BookingNumber: b.BookingNumber,
		UserID:        b.UserID.String(),
		SubjectName:   b.SubjectName,

		PatientName:   b.PatientName,
		PatientAge:    b.PatientAge,
		PatientGender: b.PatientGender,
		PatientPhone:  b.PatientPhone,
		PatientEmail:  b.PatientEmail,

		CollectionMode: b.CollectionMode,
		CollectionDate: b.CollectionDate.Format(time.RFC3339),
		CollectionSlot: b.CollectionSlot,

		TestPrice:         b.TestPrice,
		HomeCollectionFee: b.HomeCollectionFee,
		TotalAmount:       b.TotalAmount,
		DiscountAmount:    b.DiscountAmount,
		FinalAmount:       b.FinalAmount,
		PaymentStatus:     b.PaymentStatus,

		LabName:    b.LabName,
		LabAddress: b.LabAddress,

		Status: b.Status,

		PrescriptionRequired: b.PrescriptionRequired,
		PrescriptionRef:      b.PrescriptionRef,
		PrescriptionVerified: b.PrescriptionVerified,

		Rating:   b.Rating,
		Feedback: b.Feedback,
		RatedAt:  b.RatedAt,

		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}

	if b.TestID != nil {
		id := b.TestID.String()
		resp.TestID = &id
	}
	if b.PackageID != nil {
		id := b.PackageID.String()
		resp.PackageID = &id
	}
	if b.LabID != nil {
		id := b.LabID.String()
		resp.LabID = &id
	}
	if b.Address != nil {
		resp.Address = &AddressResponse{
			Street:   b.Address.Street,
			City:     b.Address.City,
			State:    b.Address.State,
			Pincode:  b.Address.Pincode,
			Landmark: b.Address.Landmark,
		}
	}
	if b.SampleID != nil {
		resp.Sample = &SampleResponse{
			SampleID:    *b.SampleID,
			Barcode:     derefStr(b.SampleBarcode),
			SampleType:  derefStr(b.SampleType),
			CollectedBy: derefStr(b.SampleCollectedBy),
			Notes:       derefStr(b.SampleNotes),
			CollectedAt: b.SampleCollectedAt,
			ReceivedAt:  b.SampleReceivedAt,
		}
	}
	if len(b.ReportURLs) > 0 {
		resp.Report = &ReportResponse{
			URLs:        b.ReportURLs,
			GeneratedBy: derefStr(b.ReportGeneratedBy),
			Notes:       derefStr(b.ReportNotes),
			Status:      b.ReportStatus,
			GeneratedAt: b.ReportGeneratedAt,
			DeliveredAt: b.ReportDeliveredAt,
		}
	}
	if b.CancelledAt != nil {
		cancellation := &CancellationResponse{
			CancelledAt:  *b.CancelledAt,
			Reason:       derefStr(b.CancellationReason),
			RefundAmount: b.RefundAmount,
			RefundStatus: b.RefundStatus,
		}
		if b.CancelledBy != nil {
			cancellation.CancelledBy = *b.CancelledBy
		}
		resp.Cancellation = cancellation
	}

	return resp
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
