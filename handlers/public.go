package handlers

import (
	"net/http"

	"restaurant-admin-api/models"
	"restaurant-admin-api/statemachine"

	"github.com/gin-gonic/gin"
)

// GetStateMachineInfo returns the order lifecycle for informational purposes
func GetStateMachineInfo(c *gin.Context) {
	statuses := []models.OrderStatus{
		models.StatusPending,
		models.StatusPreparing,
		models.StatusDelivering,
		models.StatusCompleted,
		models.StatusCancelled,
	}
	c.JSON(http.StatusOK, gin.H{
		"statuses":        statuses,
		"state_machine":   statemachine.GetAllTransitions(),
		"terminal_states": statemachine.TerminalStates(),
		"description":     "Restaurant Order Lifecycle State Machine",
	})
}

// Health reports liveness
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Restaurant Administration API",
		"version": "1.0.0",
	})
}
