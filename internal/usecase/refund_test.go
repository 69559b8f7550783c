package usecase

import (
	"testing"
	"time"

	"lab-booking/internal/data/entity"

	"github.com/stretchr/testify/assert"
)

func TestRefundAmount_FullRefundOutsideWindow(t *testing.T) {
	now := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	booking := &entity.Booking{
		CollectionDate: now.Add(25 * time.Hour),
		FinalAmount:    550,
	}

	assert.Equal(t, 550.0, RefundAmount(booking, now))
}

func TestRefundAmount_NoRefundInsideWindow(t *testing.T) {
	now := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		collection time.Time
	}{
		{"23 hours before", now.Add(23 * time.Hour)},
		{"exactly 24 hours before", now.Add(24 * time.Hour)},
		{"one hour before", now.Add(time.Hour)},
		{"already past", now.Add(-time.Hour)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			booking := &entity.Booking{
				CollectionDate: tc.collection,
				FinalAmount:    550,
			}
			assert.Equal(t, 0.0, RefundAmount(booking, now))
		})
	}
}

func TestRefundAmount_JustOverWindow(t *testing.T) {
	now := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	booking := &entity.Booking{
		CollectionDate: now.Add(24*time.Hour + time.Second),
		FinalAmount:    120,
	}

	assert.Equal(t, 120.0, RefundAmount(booking, now))
}

func TestRefundStatusFor(t *testing.T) {
	assert.Equal(t, entity.RefundStatusPending, RefundStatusFor(550))
	assert.Equal(t, entity.RefundStatusNotApplicable, RefundStatusFor(0))
}
