package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanAdvanceTo(t *testing.T) {
	t.Run("Forward transitions allowed", func(t *testing.T) {
		assert.True(t, CanAdvanceTo(StatusOrderPlaced, StatusProcessing))
		assert.True(t, CanAdvanceTo(StatusOrderPlaced, StatusShipped))
		assert.True(t, CanAdvanceTo(StatusProcessing, StatusDelivered))
		assert.True(t, CanAdvanceTo(StatusShipped, StatusDelivered))
	})

	t.Run("Backward transitions rejected", func(t *testing.T) {
		assert.False(t, CanAdvanceTo(StatusShipped, StatusProcessing))
		assert.False(t, CanAdvanceTo(StatusDelivered, StatusOrderPlaced))
		assert.False(t, CanAdvanceTo(StatusProcessing, StatusProcessing))
	})

	t.Run("Cancelled is outside the progression", func(t *testing.T) {
		assert.False(t, CanAdvanceTo(StatusOrderPlaced, StatusCancelled))
		assert.False(t, CanAdvanceTo(StatusCancelled, StatusProcessing))
	})

	t.Run("Unknown statuses rejected", func(t *testing.T) {
		assert.False(t, CanAdvanceTo("GARBAGE", StatusShipped))
		assert.False(t, CanAdvanceTo(StatusOrderPlaced, "GARBAGE"))
	})
}

func TestIsValidCancelReason(t *testing.T) {
	t.Run("Buyer vocabulary", func(t *testing.T) {
		assert.True(t, IsValidCancelReason(CancelledByBuyer, "CHANGED_MIND"))
		assert.True(t, IsValidCancelReason(CancelledByBuyer, "DELIVERY_LATE"))
		assert.False(t, IsValidCancelReason(CancelledByBuyer, "OUT_OF_STOCK"))
	})

	t.Run("Seller vocabulary", func(t *testing.T) {
		assert.True(t, IsValidCancelReason(CancelledBySeller, "OUT_OF_STOCK"))
		assert.True(t, IsValidCancelReason(CancelledBySeller, "SELLER_REQUEST"))
		assert.False(t, IsValidCancelReason(CancelledBySeller, "CHANGED_MIND"))
	})

	t.Run("Unknown actor rejected", func(t *testing.T) {
		assert.False(t, IsValidCancelReason("admin", "CHANGED_MIND"))
	})
}
