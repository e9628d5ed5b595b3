package service

import (
	"testing"

	"delicias-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestMapGatewayStatus(t *testing.T) {
	tests := []struct {
		gatewayStatus string
		want          string
	}{
		{"approved", models.OrderStatusCompleted},
		{"pending", models.OrderStatusPending},
		{"rejected", models.OrderStatusCancelled},
		{"cancelled", models.OrderStatusCancelled},
		{"in_process", models.OrderStatusPending},
		{"charged_back", models.OrderStatusPending},
		{"", models.OrderStatusPending},
		{"garbage", models.OrderStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.gatewayStatus, func(t *testing.T) {
			assert.Equal(t, tt.want, MapGatewayStatus(tt.gatewayStatus))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(models.OrderStatusCompleted))
	assert.True(t, IsTerminal(models.OrderStatusCancelled))
	assert.False(t, IsTerminal(models.OrderStatusPending))
	assert.False(t, IsTerminal(models.OrderStatusInitiating))
}

func TestNextStatusMonotonic(t *testing.T) {
	statuses := []string{
		models.OrderStatusInitiating,
		models.OrderStatusPending,
		models.OrderStatusCompleted,
		models.OrderStatusCancelled,
	}

	for _, current := range statuses {
		for _, incoming := range statuses {
			next := NextStatus(current, incoming)

			if IsTerminal(current) {
				assert.Equal(t, current, next,
					"terminal status %s must not change on %s", current, incoming)
			} else {
				assert.Equal(t, incoming, next)
			}

			// applying the same webhook again must not move the order
			assert.Equal(t, next, NextStatus(next, incoming))
		}
	}
}
