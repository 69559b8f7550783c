package request

type PatientRequest struct {
	Name   string `json:"name" validate:"required,min=2,max=100"`
	Age    int    `json:"age" validate:"required,gte=1,lte=120"`
	Gender string `json:"gender" validate:"required,oneof=MALE FEMALE OTHER"`
	Phone  string `json:"phone" validate:"required,min=10,max=15"`
	Email  string `json:"email" validate:"omitempty,email"`
}

type AddressRequest struct {
	Street   string `json:"street" validate:"required"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required"`
	Pincode  string `json:"pincode" validate:"required,len=6"`
	Landmark string `json:"landmark"`
}

// CreateBookingRequest carries exactly one of TestID / PackageID; the service
// rejects anything else. Address is mandatory for home collection.
type CreateBookingRequest struct {
	TestID               *string         `json:"test_id" validate:"omitempty,uuid4"`
	PackageID            *string         `json:"package_id" validate:"omitempty,uuid4"`
	Patient              PatientRequest  `json:"patient" validate:"required"`
	CollectionMode       string          `json:"collection_mode" validate:"required,oneof=HOME_COLLECTION LAB_VISIT"`
	CollectionDate       string          `json:"collection_date" validate:"required"`
	CollectionSlot       string          `json:"collection_slot" validate:"required"`
	Address              *AddressRequest `json:"address"`
	LabID                *string         `json:"lab_id" validate:"omitempty,uuid4"`
	LabName              string          `json:"lab_name"`
	LabAddress           string          `json:"lab_address"`
	PrescriptionRequired bool            `json:"prescription_required"`
	PrescriptionRef      *string         `json:"prescription_ref"`
}

type AddSampleRequest struct {
	SampleID    string `json:"sample_id" validate:"required"`
	Barcode     string `json:"barcode" validate:"required"`
	SampleType  string `json:"sample_type" validate:"required"`
	CollectedBy string `json:"collected_by" validate:"required"`
	Notes       string `json:"notes"`
}

type AddReportRequest struct {
	ReportURLs  []string `json:"report_urls" validate:"required,min=1,dive,url"`
	GeneratedBy string   `json:"generated_by" validate:"required"`
	Notes       string   `json:"notes"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

type RateBookingRequest struct {
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
	Feedback string `json:"feedback" validate:"max=1000"`
}

// UpdateBookingRequest corrects non-lifecycle fields; a Status value is routed
// through the same transition validation as the dedicated operations.
type UpdateBookingRequest struct {
	PatientName          *string         `json:"patient_name" validate:"omitempty,min=2,max=100"`
	PatientAge           *int            `json:"patient_age" validate:"omitempty,gte=1,lte=120"`
	PatientPhone         *string         `json:"patient_phone" validate:"omitempty,min=10,max=15"`
	PatientEmail         *string         `json:"patient_email" validate:"omitempty,email"`
	CollectionDate       *string         `json:"collection_date"`
	CollectionSlot       *string         `json:"collection_slot"`
	Address              *AddressRequest `json:"address"`
	LabID                *string         `json:"lab_id" validate:"omitempty,uuid4"`
	LabName              *string         `json:"lab_name"`
	LabAddress           *string         `json:"lab_address"`
	PaymentStatus        *string         `json:"payment_status" validate:"omitempty,oneof=PENDING PAID FAILED REFUNDED"`
	RefundStatus         *string         `json:"refund_status" validate:"omitempty,oneof=NOT_APPLICABLE PENDING PROCESSED"`
	PrescriptionVerified *bool           `json:"prescription_verified"`
	Status               *string         `json:"status" validate:"omitempty,oneof=SCHEDULED CONFIRMED SAMPLE_COLLECTED SAMPLE_RECEIVED PROCESSING REPORT_READY COMPLETED CANCELLED REFUNDED"`
}

// SearchBookingsRequest mirrors the query-service filters; all optional.
type SearchBookingsRequest struct {
	PaginatedRequest
	UserID         string `json:"user_id" validate:"omitempty,uuid4"`
	TestID         string `json:"test_id" validate:"omitempty,uuid4"`
	PackageID      string `json:"package_id" validate:"omitempty,uuid4"`
	BookingNumber  string `json:"booking_number"`
	SubjectType    string `json:"subject_type" validate:"omitempty,oneof=test package"`
	CollectionMode string `json:"collection_mode" validate:"omitempty,oneof=HOME_COLLECTION LAB_VISIT"`
	Status         string `json:"status" validate:"omitempty,oneof=SCHEDULED CONFIRMED SAMPLE_COLLECTED SAMPLE_RECEIVED PROCESSING REPORT_READY COMPLETED CANCELLED REFUNDED"`
	PaymentStatus  string `json:"payment_status" validate:"omitempty,oneof=PENDING PAID FAILED REFUNDED"`
	ReportStatus   string `json:"report_status" validate:"omitempty,oneof=PENDING GENERATED DELIVERED"`
	CollectionFrom string `json:"collection_from"`
	CollectionTo   string `json:"collection_to"`
}
