package usecase

import (
	"testing"

	"lab-booking/internal/data/entity"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePricing_HomeCollection(t *testing.T) {
	pricing := CalculatePricing(500, 50, entity.CollectionModeHome)

	assert.Equal(t, 500.0, pricing.TestPrice)
	assert.Equal(t, 50.0, pricing.HomeCollectionFee)
	assert.Equal(t, 550.0, pricing.TotalAmount)
	assert.Equal(t, 0.0, pricing.DiscountAmount)
	assert.Equal(t, 550.0, pricing.FinalAmount)
}

func TestCalculatePricing_LabVisitSkipsFee(t *testing.T) {
	pricing := CalculatePricing(500, 50, entity.CollectionModeLab)

	assert.Equal(t, 500.0, pricing.TestPrice)
	assert.Equal(t, 0.0, pricing.HomeCollectionFee)
	assert.Equal(t, 500.0, pricing.TotalAmount)
	assert.Equal(t, 500.0, pricing.FinalAmount)
}

func TestCalculatePricing_ZeroPrice(t *testing.T) {
	pricing := CalculatePricing(0, 0, entity.CollectionModeLab)

	assert.Equal(t, 0.0, pricing.TotalAmount)
	assert.Equal(t, 0.0, pricing.FinalAmount)
	assert.GreaterOrEqual(t, pricing.FinalAmount, 0.0)
}

func TestEffectivePrice_PrefersDiscountedPrice(t *testing.T) {
	discounted := 399.0
	test := &entity.LabTest{Price: 500, DiscountedPrice: &discounted}
	assert.Equal(t, 399.0, test.EffectivePrice())

	test.DiscountedPrice = nil
	assert.Equal(t, 500.0, test.EffectivePrice())
}
