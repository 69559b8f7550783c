package response

import (
	"lab-booking/internal/data/entity"
)

type LabTestResponse struct {
	ID                string   `json:"id"`
	Code              string   `json:"code"`
	Name              string   `json:"name"`
	Category          string   `json:"category"`
	Description       string   `json:"description,omitempty"`
	Price             float64  `json:"price"`
	DiscountedPrice   *float64 `json:"discounted_price,omitempty"`
	HomeCollectionFee float64  `json:"home_collection_fee"`
	SampleType        string   `json:"sample_type"`
	ReportHours       int      `json:"report_hours"`
	BookingsCount     int64    `json:"bookings_count"`
}

type TestPackageResponse struct {
	ID                string   `json:"id"`
	Code              string   `json:"code"`
	Name              string   `json:"name"`
	Description       string   `json:"description,omitempty"`
	Price             float64  `json:"price"`
	DiscountedPrice   *float64 `json:"discounted_price,omitempty"`
	HomeCollectionFee float64  `json:"home_collection_fee"`
	TestIDs           []string `json:"test_ids"`
	BookingsCount     int64    `json:"bookings_count"`
}

func LabTestToResponse(t *entity.LabTest) LabTestResponse {
	return LabTestResponse{
		ID:                t.ID.String(),
		Code:              t.Code,
		Name:              t.Name,
		Category:          t.Category,
		Description:       t.Description,
		Price:             t.Price,
		DiscountedPrice:   t.DiscountedPrice,
		HomeCollectionFee: t.HomeCollectionFee,
		SampleType:        t.SampleType,
		ReportHours:       t.ReportHours,
		BookingsCount:     t.BookingsCount,
	}
}

func TestPackageToResponse(p *entity.TestPackage) TestPackageResponse {
	testIDs := make([]string, len(p.TestIDs))
	for i, id := range p.TestIDs {
		testIDs[i] = id.String()
	}

	return TestPackageResponse{
		ID:                p.ID.String(),
		Code:              p.Code,
		Name:              p.Name,
		Description:       p.Description,
		Price:             p.Price,
		DiscountedPrice:   p.DiscountedPrice,
		HomeCollectionFee: p.HomeCollectionFee,
		TestIDs:           testIDs,
		BookingsCount:     p.BookingsCount,
	}
}
