package dialog

// EventKind discriminates inbound dialog events.
type EventKind string

const (
	// EventStart begins a new dialog, discarding any active session.
	EventStart EventKind = "start"
	// EventCancel aborts the active dialog.
	EventCancel EventKind = "cancel"
	// EventText carries a free-text answer.
	EventText EventKind = "text"
	// EventChoice carries a selected choice token.
	EventChoice EventKind = "choice"
)

// Event is one inbound update for a single user. Text is set for
// EventText, Token for EventChoice; both are empty otherwise.
type Event struct {
	Kind  EventKind
	Text  string
	Token string
}
