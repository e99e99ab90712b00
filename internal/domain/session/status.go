package session

import "fmt"

// Status is the render state of a session.
type Status string

const (
	StatusNoRoute    Status = "no_route"
	StatusRouteShown Status = "route_shown"
)

var validTransitions = map[Status][]Status{
	StatusNoRoute:    {StatusRouteShown},
	StatusRouteShown: {},
}

// IsValid returns true if the status is recognized.
func (s Status) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransitionTo returns true if moving to target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// ParseStatus converts a string to a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid session status: %s", s)
	}
	return status, nil
}
