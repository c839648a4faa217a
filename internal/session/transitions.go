package session

// validTransitions contains the permitted forward transitions of the
// intake dialog. Returning to StateIdle is always allowed: cancel,
// session reset, and the retention branch all end there.
var validTransitions = map[State][]State{
	StateIdle: {
		StateAwaitingModel,
	},
	StateAwaitingModel: {
		StateAwaitingSpecs,
	},
	StateAwaitingSpecs: {
		StateAwaitingBudget,
	},
	StateAwaitingBudget: {
		StateAwaitingTimeframe,
	},
	StateAwaitingTimeframe: {
		StateAwaitingName,
	},
	StateAwaitingName: {
		StateAwaitingPhone,
	},
}

// IsTransitionAllowed reports whether moving from one state to another
// is valid.
func IsTransitionAllowed(from, to State) bool {
	if to == StateIdle || to == StateAwaitingModel {
		// Reset paths: cancel and a fresh /start override any state.
		return true
	}

	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}

	for _, st := range allowed {
		if st == to {
			return true
		}
	}

	return false
}
