package bot

// Command constants for Telegram bot commands.
const (
	CommandStart  = "/start"
	CommandCancel = "/cancel"
)

// Callback prefix constants for inline button interactions.
const (
	CallbackBudgetPrefix    = "budget_"
	CallbackTimeframePrefix = "time_"
)
