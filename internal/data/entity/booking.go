package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusScheduled       BookingStatus = "SCHEDULED"
	BookingStatusConfirmed       BookingStatus = "CONFIRMED"
	BookingStatusSampleCollected BookingStatus = "SAMPLE_COLLECTED"
	BookingStatusSampleReceived  BookingStatus = "SAMPLE_RECEIVED"
	BookingStatusProcessing      BookingStatus = "PROCESSING"
	BookingStatusReportReady     BookingStatus = "REPORT_READY"
	BookingStatusCompleted       BookingStatus = "COMPLETED"
	BookingStatusCancelled       BookingStatus = "CANCELLED"
	BookingStatusRefunded        BookingStatus = "REFUNDED"
)

// IsTerminal reports whether the status has no outgoing transitions.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled || s == BookingStatusRefunded
}

type CollectionMode string

const (
	CollectionModeHome CollectionMode = "HOME_COLLECTION"
	CollectionModeLab  CollectionMode = "LAB_VISIT"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

type RefundStatus string

const (
	RefundStatusNotApplicable RefundStatus = "NOT_APPLICABLE"
	RefundStatusPending       RefundStatus = "PENDING"
	RefundStatusProcessed     RefundStatus = "PROCESSED"
)

type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "PENDING"
	ReportStatusGenerated ReportStatus = "GENERATED"
	ReportStatusDelivered ReportStatus = "DELIVERED"
)

type ActorRole string

const (
	ActorRoleCustomer ActorRole = "CUSTOMER"
	ActorRoleAdmin    ActorRole = "ADMIN"
	ActorRoleLab      ActorRole = "LAB"
)

// Address is the structured collection address, mandatory for home collection.
type Address struct {
	Street   string `db:"address_street" json:"street"`
	City     string `db:"address_city" json:"city"`
	State    string `db:"address_state" json:"state"`
	Pincode  string `db:"address_pincode" json:"pincode"`
	Landmark string `db:"address_landmark" json:"landmark,omitempty"`
}

// Booking is the central record of the lab-test booking lifecycle. The patient
// block is a snapshot taken at creation so later profile edits never change it.
type Booking struct {
	Base
	BookingNumber string     `db:"booking_number"`
	UserID        uuid.UUID  `db:"user_id"`
	TestID        *uuid.UUID `db:"test_id"`
	PackageID     *uuid.UUID `db:"package_id"`
	SubjectName   string     `db:"subject_name"`

	// Patient snapshot
	PatientName   string `db:"patient_name"`
	PatientAge    int    `db:"patient_age"`
	PatientGender string `db:"patient_gender"`
	PatientPhone  string `db:"patient_phone"`
	PatientEmail  string `db:"patient_email"`

	// Collection
	CollectionMode CollectionMode `db:"collection_mode"`
	CollectionDate time.Time      `db:"collection_date"`
	CollectionSlot string         `db:"collection_slot"`
	Address        *Address

	// Money, fixed at creation
	TestPrice         float64       `db:"test_price"`
	HomeCollectionFee float64       `db:"home_collection_fee"`
	TotalAmount       float64       `db:"total_amount"`
	DiscountAmount    float64       `db:"discount_amount"`
	FinalAmount       float64       `db:"final_amount"`
	PaymentStatus     PaymentStatus `db:"payment_status"`

	// Lab assignment
	LabID      *uuid.UUID `db:"lab_id"`
	LabName    string     `db:"lab_name"`
	LabAddress string     `db:"lab_address"`

	Status BookingStatus `db:"status"`

	// Sample sub-record, populated by the sample-collected transition
	SampleID          *string    `db:"sample_id"`
	SampleBarcode     *string    `db:"sample_barcode"`
	SampleType        *string    `db:"sample_type"`
	SampleCollectedBy *string    `db:"sample_collected_by"`
	SampleNotes       *string    `db:"sample_notes"`
	SampleCollectedAt *time.Time `db:"sample_collected_at"`
	SampleReceivedAt  *time.Time `db:"sample_received_at"`

	// Report sub-record, populated by the report-ready transition
	ReportURLs        []string     `db:"report_urls"`
	ReportGeneratedBy *string      `db:"report_generated_by"`
	ReportNotes       *string      `db:"report_notes"`
	ReportStatus      ReportStatus `db:"report_status"`
	ReportGeneratedAt *time.Time   `db:"report_generated_at"`
	ReportDeliveredAt *time.Time   `db:"report_delivered_at"`

	// Prescription linkage
	PrescriptionRequired bool    `db:"prescription_required"`
	PrescriptionRef      *string `db:"prescription_ref"`
	PrescriptionVerified bool    `db:"prescription_verified"`

	// Cancellation sub-record
	CancelledAt        *time.Time   `db:"cancelled_at"`
	CancelledBy        *ActorRole   `db:"cancelled_by"`
	CancellationReason *string      `db:"cancellation_reason"`
	RefundAmount       float64      `db:"refund_amount"`
	RefundStatus       RefundStatus `db:"refund_status"`

	// Feedback, settable once after completion
	Rating   *int       `db:"rating"`
	Feedback *string    `db:"feedback"`
	RatedAt  *time.Time `db:"rated_at"`
}

// IsCancellable reports whether the booking may still be cancelled.
func (b *Booking) IsCancellable() bool {
	return b.Status != BookingStatusCancelled &&
		b.Status != BookingStatusCompleted &&
		b.Status != BookingStatusRefunded
}

// IsRated reports whether feedback has already been recorded.
func (b *Booking) IsRated() bool {
	return b.Rating != nil
}
