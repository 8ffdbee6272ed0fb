package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creser-psicologia/creser-api/internal/httperr"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"scheduled", "confirmed", "completed", "cancelled", "no_show"} {
		got, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, Status(s), got)
	}

	_, err := ParseStatus("pending")
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}

func TestParseModality(t *testing.T) {
	for _, m := range []string{"presencial", "virtual"} {
		got, err := ParseModality(m)
		require.NoError(t, err)
		assert.Equal(t, Modality(m), got)
	}

	_, err := ParseModality("remoto")
	assert.True(t, httperr.IsBusiness(err, "invalid_modality"))
}

func TestActive(t *testing.T) {
	assert.True(t, StatusScheduled.Active())
	assert.True(t, StatusConfirmed.Active())
	assert.False(t, StatusCompleted.Active())
	assert.False(t, StatusCancelled.Active())
	assert.False(t, StatusNoShow.Active())
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		name    string
		check   func(Status) error
		from    Status
		allowed bool
	}{
		{"confirm scheduled", CanConfirm, StatusScheduled, true},
		{"confirm confirmed", CanConfirm, StatusConfirmed, false},
		{"confirm cancelled", CanConfirm, StatusCancelled, false},

		{"complete scheduled", CanComplete, StatusScheduled, true},
		{"complete confirmed", CanComplete, StatusConfirmed, true},
		{"complete completed", CanComplete, StatusCompleted, false},

		{"cancel scheduled", CanCancel, StatusScheduled, true},
		{"cancel confirmed", CanCancel, StatusConfirmed, true},
		{"cancel completed", CanCancel, StatusCompleted, false},
		{"cancel cancelled", CanCancel, StatusCancelled, false},

		{"no-show confirmed", CanMarkNoShow, StatusConfirmed, true},
		{"no-show no-show", CanMarkNoShow, StatusNoShow, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check(tt.from)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, httperr.IsBusiness(err, "invalid_state"))
			}
		})
	}
}
