package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitionHappyPath(t *testing.T) {
	next, err := Transition(PhaseIdle, EventAccept)
	require.NoError(t, err)
	require.Equal(t, PhaseProcessing, next)

	next, err = Transition(next, EventComplete)
	require.NoError(t, err)
	require.Equal(t, PhaseIdle, next)
}

func TestTransitionFailReturnsToIdle(t *testing.T) {
	next, err := Transition(PhaseProcessing, EventFail)
	require.NoError(t, err)
	require.Equal(t, PhaseIdle, next)
}

func TestTransitionMatrixInvalidTransitions(t *testing.T) {
	tests := []struct {
		name  string
		phase Phase
		event Event
	}{
		{name: "idle complete invalid", phase: PhaseIdle, event: EventComplete},
		{name: "idle fail invalid", phase: PhaseIdle, event: EventFail},
		{name: "processing accept invalid", phase: PhaseProcessing, event: EventAccept},
		{name: "processing unknown event", phase: PhaseProcessing, event: Event("mystery")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, err := Transition(tc.phase, tc.event)
			require.Error(t, err)
			require.Contains(t, err.Error(), "invalid transition")
			require.Equal(t, tc.phase, next)
		})
	}
}

func TestTransitionUnknownPhase(t *testing.T) {
	next, err := Transition(Phase("mystery"), EventAccept)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown phase")
	require.Equal(t, Phase("mystery"), next)
}
