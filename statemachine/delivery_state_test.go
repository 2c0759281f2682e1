package statemachine

import (
	"testing"

	"restaurant-admin-api/models"

	"github.com/stretchr/testify/assert"
)

func TestCanAdvanceDelivery(t *testing.T) {
	assert.NoError(t, CanAdvanceDelivery(models.DeliveryAssigned, models.DeliveryPickedUp))
	assert.NoError(t, CanAdvanceDelivery(models.DeliveryPickedUp, models.DeliveryDelivered))
	assert.NoError(t, CanAdvanceDelivery(models.DeliveryPickedUp, models.DeliveryPickedUp))

	assert.Error(t, CanAdvanceDelivery(models.DeliveryAssigned, models.DeliveryDelivered))
	assert.Error(t, CanAdvanceDelivery(models.DeliveryDelivered, models.DeliveryAssigned))
	assert.Error(t, CanAdvanceDelivery(models.DeliveryPickedUp, models.DeliveryAssigned))
}

func TestValidDeliveryStatus(t *testing.T) {
	assert.True(t, ValidDeliveryStatus(models.DeliveryDelivered))
	assert.False(t, ValidDeliveryStatus("lost"))
}
