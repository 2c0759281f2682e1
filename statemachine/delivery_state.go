package statemachine

import (
	"fmt"

	"restaurant-admin-api/models"
)

var deliveryNext = map[models.DeliveryStatus]models.DeliveryStatus{
	models.DeliveryAssigned: models.DeliveryPickedUp,
	models.DeliveryPickedUp: models.DeliveryDelivered,
}

// ValidDeliveryStatus reports whether s is a known delivery status.
func ValidDeliveryStatus(s models.DeliveryStatus) bool {
	switch s {
	case models.DeliveryAssigned, models.DeliveryPickedUp, models.DeliveryDelivered:
		return true
	}
	return false
}

// CanAdvanceDelivery allows staying put or moving one step forward.
func CanAdvanceDelivery(from, to models.DeliveryStatus) error {
	if from == to || deliveryNext[from] == to {
		return nil
	}
	return fmt.Errorf("invalid delivery transition: %s → %s", from, to)
}
