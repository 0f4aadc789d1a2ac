package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("out_for_delivery")
	require.NoError(t, err)
	assert.Equal(t, StatusOutForDelivery, s)

	_, err = ParseStatus("shipped")
	assert.ErrorIs(t, err, ErrUnknownStatus)

	_, err = ParseStatus("")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending skips to delivered", StatusPending, StatusDelivered, true},
		{"confirmed to preparing", StatusConfirmed, StatusPreparing, true},
		{"preparing to out_for_delivery", StatusPreparing, StatusOutForDelivery, true},
		{"no going backwards", StatusPreparing, StatusConfirmed, false},
		{"no self transition", StatusConfirmed, StatusConfirmed, false},
		{"cancel from pending", StatusPending, StatusCancelled, true},
		{"cancel from out_for_delivery", StatusOutForDelivery, StatusCancelled, true},
		{"delivered is frozen", StatusDelivered, StatusCancelled, false},
		{"cancelled is frozen", StatusCancelled, StatusConfirmed, false},
		{"cancelled cannot be cancelled again", StatusCancelled, StatusCancelled, false},
		{"cancelled is not a source", StatusCancelled, StatusDelivered, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusOutForDelivery.IsTerminal())
}
