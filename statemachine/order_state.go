package statemachine

import (
	"fmt"
	"strings"

	"restaurant-admin-api/models"
)

// Actor is who performs a transition
type Actor string

const (
	ActorStaff    Actor = "staff"
	ActorCustomer Actor = "customer"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus `json:"from"`
	To    models.OrderStatus `json:"to"`
	Actor Actor              `json:"actor"`
}

// validTransitions is the authoritative order lifecycle definition
var validTransitions = []Transition{
	// Kitchen starts on the order
	{From: models.StatusPending, To: models.StatusPreparing, Actor: ActorStaff},
	// Order handed to a driver
	{From: models.StatusPreparing, To: models.StatusDelivering, Actor: ActorStaff},
	{From: models.StatusDelivering, To: models.StatusCompleted, Actor: ActorStaff},
	// Cancellation before the order leaves the restaurant
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorStaff},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusPreparing, To: models.StatusCancelled, Actor: ActorStaff},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ActorFor maps a caller to the actor used for transition checks.
func ActorFor(p models.Principal) Actor {
	if p.IsStaff() {
		return ActorStaff
	}
	return ActorCustomer
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another.
// Staying in the same state is always allowed.
func CanTransition(from, to models.OrderStatus, actor Actor) error {
	if from == to {
		return nil
	}
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return fmt.Errorf("invalid transition: %s → %s is not allowed for %s; valid transitions from %s: %s",
		from, to, actor, from, describeValidFrom(from))
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	parts := make([]string, len(nexts))
	for i, s := range nexts {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}

// TerminalStates lists statuses with no outgoing transitions
func TerminalStates() []models.OrderStatus {
	return []models.OrderStatus{models.StatusCompleted, models.StatusCancelled}
}
