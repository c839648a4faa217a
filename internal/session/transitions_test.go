package session

import "testing"

func TestIsTransitionAllowed(t *testing.T) {
	testCases := []struct {
		name     string
		from     State
		to       State
		expected bool
	}{
		{name: "idle to awaiting model", from: StateIdle, to: StateAwaitingModel, expected: true},
		{name: "model to specs", from: StateAwaitingModel, to: StateAwaitingSpecs, expected: true},
		{name: "specs to budget", from: StateAwaitingSpecs, to: StateAwaitingBudget, expected: true},
		{name: "budget to timeframe", from: StateAwaitingBudget, to: StateAwaitingTimeframe, expected: true},
		{name: "timeframe to name", from: StateAwaitingTimeframe, to: StateAwaitingName, expected: true},
		{name: "name to phone", from: StateAwaitingName, to: StateAwaitingPhone, expected: true},
		{name: "phone to idle on completion", from: StateAwaitingPhone, to: StateIdle, expected: true},
		{name: "timeframe to idle retention branch", from: StateAwaitingTimeframe, to: StateIdle, expected: true},
		{name: "cancel from any state", from: StateAwaitingSpecs, to: StateIdle, expected: true},
		{name: "restart mid dialog", from: StateAwaitingPhone, to: StateAwaitingModel, expected: true},
		{name: "skipping a step invalid", from: StateAwaitingModel, to: StateAwaitingBudget, expected: false},
		{name: "going backwards invalid", from: StateAwaitingName, to: StateAwaitingSpecs, expected: false},
		{name: "unknown state forward invalid", from: State("unknown"), to: StateAwaitingPhone, expected: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if actual := IsTransitionAllowed(tc.from, tc.to); actual != tc.expected {
				t.Errorf("IsTransitionAllowed(%s -> %s) = %t, expected %t", tc.from, tc.to, actual, tc.expected)
			}
		})
	}
}
