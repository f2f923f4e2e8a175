// Package fsm defines the turn phase machine shared by the controller and its tests.
package fsm

import "fmt"

type Phase string

type Event string

const (
	PhaseIdle       Phase = "idle"
	PhaseProcessing Phase = "processing"
)

const (
	EventAccept   Event = "accept"
	EventComplete Event = "complete"
	EventFail     Event = "fail"
)

// Transition returns the phase reached by applying event to current.
func Transition(current Phase, event Event) (Phase, error) {
	switch current {
	case PhaseIdle:
		switch event {
		case EventAccept:
			return PhaseProcessing, nil
		default:
			return current, invalidTransition(current, event)
		}
	case PhaseProcessing:
		switch event {
		case EventComplete, EventFail:
			return PhaseIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	default:
		return current, fmt.Errorf("unknown phase %q", current)
	}
}

func invalidTransition(phase Phase, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", phase, event)
}
