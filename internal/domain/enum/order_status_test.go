package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	// One forward step at a time
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusProcessing))
	assert.True(t, OrderStatusProcessing.CanTransitionTo(OrderStatusShipped))
	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusDelivered))
	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusShipped))
	assert.False(t, OrderStatusProcessing.CanTransitionTo(OrderStatusPending))

	// Cancellation is allowed from any non-terminal state
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusCancelled))
	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusCancelled))

	// Terminal states allow nothing
	assert.False(t, OrderStatusDelivered.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusPending))
	assert.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusCancelled))
}

func TestParseOrderStatus(t *testing.T) {
	status, ok := ParseOrderStatus("processing")
	assert.True(t, ok)
	assert.Equal(t, OrderStatusProcessing, status)

	status, ok = ParseOrderStatus("Shipped")
	assert.True(t, ok)
	assert.Equal(t, OrderStatusShipped, status)

	_, ok = ParseOrderStatus("returned")
	assert.False(t, ok)
}
