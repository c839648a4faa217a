package session

import "time"

// State identifies the dialog step a user is currently in.
type State string

const (
	// StateIdle means no session exists for the user.
	StateIdle State = "idle"
	// StateAwaitingModel waits for the desired makes/models as free text.
	StateAwaitingModel State = "awaiting_model"
	// StateAwaitingSpecs waits for the desired vehicle specs as free text.
	StateAwaitingSpecs State = "awaiting_specs"
	// StateAwaitingBudget waits for a budget choice selection.
	StateAwaitingBudget State = "awaiting_budget"
	// StateAwaitingTimeframe waits for a purchase timeframe selection.
	StateAwaitingTimeframe State = "awaiting_timeframe"
	// StateAwaitingName waits for the contact name as free text.
	StateAwaitingName State = "awaiting_name"
	// StateAwaitingPhone waits for a valid phone number as free text.
	StateAwaitingPhone State = "awaiting_phone"
)

// Session holds the in-flight dialog state and the partially collected
// lead fields for one user. A session is stored iff its state is not
// StateIdle.
type Session struct {
	UserID       int64 `json:"user_id"`
	CurrentState State `json:"current_state"`

	Model     string `json:"model,omitempty"`
	Specs     string `json:"specs,omitempty"`
	Budget    string `json:"budget,omitempty"`
	Timeframe string `json:"timeframe,omitempty"`
	Name      string `json:"name,omitempty"`

	// PromptChatID/PromptMessageID reference the last choice prompt so
	// its buttons can be retracted on the next event.
	PromptChatID    int64 `json:"prompt_chat_id,omitempty"`
	PromptMessageID int   `json:"prompt_message_id,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

var transitionRecorder = func(from, to string) {}

// RegisterTransitionRecorder allows external packages to observe dialog
// state transitions.
func RegisterTransitionRecorder(recorder func(from, to string)) {
	if recorder == nil {
		transitionRecorder = func(string, string) {}
		return
	}

	transitionRecorder = recorder
}

// RecordTransition reports a state change to the registered recorder.
func RecordTransition(from, to State) {
	transitionRecorder(string(from), string(to))
}
