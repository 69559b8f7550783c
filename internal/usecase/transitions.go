package usecase

import (
	"lab-booking/internal/data/entity"
	"lab-booking/pkg/apperr"
)

// bookingTransitions is the authoritative edge set of the booking state
// machine. COMPLETED, CANCELLED and REFUNDED are terminal.
var bookingTransitions = map[entity.BookingStatus][]entity.BookingStatus{
	entity.BookingStatusScheduled:       {entity.BookingStatusConfirmed, entity.BookingStatusCancelled},
	entity.BookingStatusConfirmed:       {entity.BookingStatusSampleCollected, entity.BookingStatusCancelled},
	entity.BookingStatusSampleCollected: {entity.BookingStatusSampleReceived},
	entity.BookingStatusSampleReceived:  {entity.BookingStatusProcessing},
	entity.BookingStatusProcessing:      {entity.BookingStatusReportReady},
	entity.BookingStatusReportReady:     {entity.BookingStatusCompleted},
	entity.BookingStatusCompleted:       {},
	entity.BookingStatusCancelled:       {},
	entity.BookingStatusRefunded:        {},
}

// plainUpdateTargets are the statuses the administrative update may move a
// booking into. The other reachable statuses carry side effects owned by a
// dedicated operation (refund decision and cancellation record, sample
// attach, report attach) and must go through it.
var plainUpdateTargets = map[entity.BookingStatus]bool{
	entity.BookingStatusSampleReceived: true,
	entity.BookingStatusProcessing:     true,
	entity.BookingStatusCompleted:      true,
}

// ValidateTransition checks the requested edge against the transition table.
func ValidateTransition(from, to entity.BookingStatus) error {
	allowed, ok := bookingTransitions[from]
	if !ok {
		return apperr.InvalidRequest("unknown booking status %s", from)
	}
	for _, s := range allowed {
		if s == to {
			return nil
		}
	}
	return apperr.InvalidTransition(string(from), string(to))
}
