package usecase

import (
	"lab-booking/internal/data/entity"
)

// Pricing is the money block written onto a booking at creation. FinalAmount
// is never negative: a discount larger than the total is clamped.
type Pricing struct {
	TestPrice         float64
	HomeCollectionFee float64
	TotalAmount       float64
	DiscountAmount    float64
	FinalAmount       float64
}

// CalculatePricing derives the booking amounts from the subject's effective
// price and the collection mode. The discount policy is an extension point;
// the base policy applies no discount beyond the subject's own discounted
// price.
func CalculatePricing(price, homeCollectionFee float64, mode entity.CollectionMode) Pricing {
	fee := 0.0
	if mode == entity.CollectionModeHome {
		fee = homeCollectionFee
	}

	total := price + fee
	discount := 0.0

	final := total - discount
	if final < 0 {
		final = 0
	}

	return Pricing{
		TestPrice:         price,
		HomeCollectionFee: fee,
		TotalAmount:       total,
		DiscountAmount:    discount,
		FinalAmount:       final,
	}
}
