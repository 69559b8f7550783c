package usecase

import (
	"errors"
	"testing"

	"lab-booking/internal/data/entity"
	"lab-booking/pkg/apperr"

	"github.com/stretchr/testify/assert"
)

func TestValidateTransition_AllowedEdges(t *testing.T) {
	allowed := []struct {
		from entity.BookingStatus
		to   entity.BookingStatus
	}{
		{entity.BookingStatusScheduled, entity.BookingStatusConfirmed},
		{entity.BookingStatusScheduled, entity.BookingStatusCancelled},
		{entity.BookingStatusConfirmed, entity.BookingStatusSampleCollected},
		{entity.BookingStatusConfirmed, entity.BookingStatusCancelled},
		{entity.BookingStatusSampleCollected, entity.BookingStatusSampleReceived},
		{entity.BookingStatusSampleReceived, entity.BookingStatusProcessing},
		{entity.BookingStatusProcessing, entity.BookingStatusReportReady},
		{entity.BookingStatusReportReady, entity.BookingStatusCompleted},
	}

	for _, tc := range allowed {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			assert.NoError(t, ValidateTransition(tc.from, tc.to))
		})
	}
}

func TestValidateTransition_RejectedEdges(t *testing.T) {
	rejected := []struct {
		from entity.BookingStatus
		to   entity.BookingStatus
	}{
		// skipping steps
		{entity.BookingStatusScheduled, entity.BookingStatusSampleCollected},
		{entity.BookingStatusScheduled, entity.BookingStatusReportReady},
		{entity.BookingStatusConfirmed, entity.BookingStatusProcessing},
		// moving backwards
		{entity.BookingStatusProcessing, entity.BookingStatusConfirmed},
		{entity.BookingStatusCompleted, entity.BookingStatusReportReady},
		// late cancellation
		{entity.BookingStatusSampleCollected, entity.BookingStatusCancelled},
		{entity.BookingStatusProcessing, entity.BookingStatusCancelled},
	}

	for _, tc := range rejected {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			err := ValidateTransition(tc.from, tc.to)
			assert.Error(t, err)

			var appErr *apperr.Error
			assert.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperr.KindInvalidTransition, appErr.Kind)
		})
	}
}

func TestValidateTransition_TerminalStatesHaveNoExits(t *testing.T) {
	terminals := []entity.BookingStatus{
		entity.BookingStatusCompleted,
		entity.BookingStatusCancelled,
		entity.BookingStatusRefunded,
	}

	all := []entity.BookingStatus{
		entity.BookingStatusScheduled,
		entity.BookingStatusConfirmed,
		entity.BookingStatusSampleCollected,
		entity.BookingStatusSampleReceived,
		entity.BookingStatusProcessing,
		entity.BookingStatusReportReady,
		entity.BookingStatusCompleted,
		entity.BookingStatusCancelled,
		entity.BookingStatusRefunded,
	}

	for _, terminal := range terminals {
		assert.True(t, terminal.IsTerminal())
		for _, to := range all {
			assert.Error(t, ValidateTransition(terminal, to),
				"expected no exit from %s to %s", terminal, to)
		}
	}
}

func TestValidateTransition_UnknownStatus(t *testing.T) {
	err := ValidateTransition(entity.BookingStatus("LOST"), entity.BookingStatusConfirmed)
	assert.Error(t, err)

	var appErr *apperr.Error
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.KindInvalidRequest, appErr.Kind)
}
