package usecase

import (
	"time"

	"lab-booking/internal/data/entity"
)

// refundWindow is the cutoff before the scheduled collection time: cancelling
// earlier than this refunds the full final amount, later refunds nothing.
const refundWindow = 24 * time.Hour

// RefundAmount decides the refund for a cancellation happening at 'now'. The
// decision is made once, at cancellation time, and is not revisited later.
// The cancelling actor does not influence the amount.
func RefundAmount(b *entity.Booking, now time.Time) float64 {
	if b.CollectionDate.Sub(now) > refundWindow {
		return b.FinalAmount
	}
	return 0
}

// RefundStatusFor pairs the initial refund status with the decided amount.
func RefundStatusFor(amount float64) entity.RefundStatus {
	if amount > 0 {
		return entity.RefundStatusPending
	}
	return entity.RefundStatusNotApplicable
}
