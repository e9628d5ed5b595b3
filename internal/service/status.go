package service

import "delicias-backend/internal/models"

// MapGatewayStatus maps the gateway's payment status vocabulary to an order
// status. The mapping is total: anything unrecognized stays pending.
func MapGatewayStatus(gatewayStatus string) string {
	switch gatewayStatus {
	case "approved":
		return models.OrderStatusCompleted
	case "pending":
		return models.OrderStatusPending
	case "rejected", "cancelled":
		return models.OrderStatusCancelled
	default:
		return models.OrderStatusPending
	}
}

// IsTerminal reports whether no further transition is expected from status
func IsTerminal(status string) bool {
	return status == models.OrderStatusCompleted || status == models.OrderStatusCancelled
}

// NextStatus computes the order status after a webhook reports incoming.
// Transitions are monotonic: once an order reached a terminal status, a late
// or duplicate webhook carrying an older gateway status never regresses it.
func NextStatus(current, incoming string) string {
	if IsTerminal(current) {
		return current
	}
	return incoming
}
