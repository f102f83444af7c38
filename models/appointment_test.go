package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidStatus(t *testing.T) {
	for _, s := range []AppointmentStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusRescheduled} {
		assert.True(t, IsValidStatus(s), string(s))
	}
	// "rejected" is an input alias handled by the lifecycle engine, never
	// a stored status.
	assert.False(t, IsValidStatus("rejected"))
	assert.False(t, IsValidStatus(""))
	assert.False(t, IsValidStatus("canceled"))
}

func TestCancellableByClient(t *testing.T) {
	assert.True(t, CancellableByClient(StatusPending))
	assert.True(t, CancellableByClient(StatusConfirmed))
	assert.False(t, CancellableByClient(StatusCompleted))
	assert.False(t, CancellableByClient(StatusCancelled))
	assert.False(t, CancellableByClient(StatusRescheduled))
}

func TestLocationScanRoundTrip(t *testing.T) {
	loc := Location{
		Address:    "12 MG Road",
		City:       "Pune",
		PostalCode: "411001",
		Coordinates: &GeoPoint{
			Longitude: 73.8567,
			Latitude:  18.5204,
		},
	}

	value, err := loc.Value()
	require.NoError(t, err)

	var got Location
	require.NoError(t, got.Scan(value))
	assert.Equal(t, loc, got)
}

func TestPaymentDetailsScanFromBytes(t *testing.T) {
	var got PaymentDetails
	require.NoError(t, got.Scan([]byte(`{"payment_status":"paid","amount":2500}`)))
	assert.Equal(t, PaymentPaid, got.PaymentStatus)
	assert.Equal(t, 2500.0, got.Amount)
}

func TestUserDisplayName(t *testing.T) {
	u := User{FirstName: "Priya"}
	assert.Equal(t, "Priya", u.DisplayName())
	assert.Equal(t, "A user", (&User{}).DisplayName())
}
