package statemachine

import (
	"errors"
	"fmt"
	"strings"

	"dinedash-server/models"
)

// ErrInvalidTransition is the precondition-failed error kind.
var ErrInvalidTransition = errors.New("invalid transition")

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.LineStatus `json:"from"`
	To    models.LineStatus `json:"to"`
	Actor models.UserRole   `json:"actor"`
}

// validTransitions applies to regular and custom burger items alike.
var validTransitions = []Transition{
	// Restaurant accepts and starts cooking
	{From: models.StatusPlaced, To: models.StatusCooking, Actor: models.RoleRestaurantHandler},
	// Restaurant rejects a placed item
	{From: models.StatusPlaced, To: models.StatusCancelled, Actor: models.RoleRestaurantHandler},
	// Restaurant hands the food to the rider
	{From: models.StatusCooking, To: models.StatusOutForDelivery, Actor: models.RoleRestaurantHandler},
	// Rider delivers
	{From: models.StatusOutForDelivery, To: models.StatusCompleted, Actor: models.RoleRider},
}

type transitionKey struct {
	From  models.LineStatus
	To    models.LineStatus
	Actor models.UserRole
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.LineStatus) []models.LineStatus {
	var nexts []models.LineStatus
	seen := map[models.LineStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// SourcesFor lists the states from which actor may move an item to `to`.
// The store uses it as the precondition of its conditional update.
func SourcesFor(to models.LineStatus, actor models.UserRole) []models.LineStatus {
	var froms []models.LineStatus
	for _, t := range validTransitions {
		if t.To == to && t.Actor == actor {
			froms = append(froms, t.From)
		}
	}
	return froms
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.LineStatus, actor models.UserRole) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return fmt.Errorf("%w: %q → %q is not allowed for actor %q; valid transitions from %q are: %s",
		ErrInvalidTransition, from, to, actor, from, describeValidFrom(from))
}

// IsTerminal reports whether no transition leaves status.
func IsTerminal(status models.LineStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

func describeValidFrom(status models.LineStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
