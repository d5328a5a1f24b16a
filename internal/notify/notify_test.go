package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xlizer1/janah-server-sub000/internal/models"
)

func TestStatusMessage(t *testing.T) {
	tests := []struct {
		status   string
		contains string
	}{
		{models.StatusPending, "awaiting confirmation"},
		{models.StatusConfirmed, "confirmed"},
		{models.StatusPreparing, "being prepared"},
		{models.StatusReadyToShip, "ready to ship"},
		{models.StatusShipped, "shipped"},
		{models.StatusDelivered, "delivered"},
		{models.StatusCancelled, "cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			msg := StatusMessage("ORD240115003", tt.status)
			assert.Contains(t, msg, "ORD240115003")
			assert.Contains(t, msg, tt.contains)
		})
	}
}

func TestNewEvent(t *testing.T) {
	e := NewEvent("+100000001", "ORD240115003", models.StatusShipped)

	require.NotEmpty(t, e.EventID)
	assert.Equal(t, "+100000001", e.Phone)
	assert.Equal(t, "ORD240115003", e.OrderNumber)
	assert.Equal(t, models.StatusShipped, e.Status)
	assert.Contains(t, e.Message, "shipped")
	assert.False(t, e.SentAt.IsZero())

	other := NewEvent("+100000001", "ORD240115003", models.StatusShipped)
	assert.NotEqual(t, e.EventID, other.EventID)
}
