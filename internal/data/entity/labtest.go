package entity

import "github.com/google/uuid"

// LabTest is a single bookable diagnostic test from the catalog.
type LabTest struct {
	Base
	Code              string   `db:"code"`
	Name              string   `db:"name"`
	Category          string   `db:"category"`
	Description       string   `db:"description"`
	Price             float64  `db:"price"`
	DiscountedPrice   *float64 `db:"discounted_price"`
	HomeCollectionFee float64  `db:"home_collection_fee"`
	SampleType        string   `db:"sample_type"`
	ReportHours       int      `db:"report_hours"`
	IsActive          bool     `db:"is_active"`
	BookingsCount     int64    `db:"bookings_count"`
}

// EffectivePrice is the discounted price when one is set, else the list price.
func (t *LabTest) EffectivePrice() float64 {
	if t.DiscountedPrice != nil {
		return *t.DiscountedPrice
	}
	return t.Price
}

// TestPackage bundles several lab tests under a single price.
type TestPackage struct {
	Base
	Code              string      `db:"code"`
	Name              string      `db:"name"`
	Description       string      `db:"description"`
	Price             float64     `db:"price"`
	DiscountedPrice   *float64    `db:"discounted_price"`
	HomeCollectionFee float64     `db:"home_collection_fee"`
	TestIDs           []uuid.UUID `db:"test_ids"`
	IsActive          bool        `db:"is_active"`
	BookingsCount     int64       `db:"bookings_count"`
}

func (p *TestPackage) EffectivePrice() float64 {
	if p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}
	return p.Price
}
