package dialog

// Choice pairs a wire-level callback token with its human-readable
// label. Tokens travel in callback data; labels are what gets stored in
// the lead record.
type Choice struct {
	Token string
	Label string
}

// Budget choice tokens.
const (
	BudgetTokenUnder1M = "budget_1"
	BudgetToken1to15M  = "budget_1.5"
	BudgetToken15to2M  = "budget_2"
	BudgetToken2to3M   = "budget_3"
	BudgetToken3to5M   = "budget_5"
	BudgetTokenOver5M  = "budget_5plus"
)

// Timeframe choice tokens.
const (
	TimeframeTokenNow     = "time_now"
	TimeframeTokenWeek    = "time_week"
	TimeframeTokenMonth   = "time_month"
	TimeframeToken1to3    = "time_1-3"
	TimeframeTokenLooking = "time_looking"
)

var budgetChoices = []Choice{
	{Token: BudgetTokenUnder1M, Label: "До 1 млн руб"},
	{Token: BudgetToken1to15M, Label: "1-1.5 млн руб"},
	{Token: BudgetToken15to2M, Label: "1.5-2 млн руб"},
	{Token: BudgetToken2to3M, Label: "2-3 млн руб"},
	{Token: BudgetToken3to5M, Label: "3-5 млн руб"},
	{Token: BudgetTokenOver5M, Label: "5+ млн руб"},
}

var timeframeChoices = []Choice{
	{Token: TimeframeTokenNow, Label: "Срочно (готов купить сейчас)"},
	{Token: TimeframeTokenWeek, Label: "В ближайшую неделю"},
	{Token: TimeframeTokenMonth, Label: "В этом месяце"},
	{Token: TimeframeToken1to3, Label: "Через 1-3 месяца"},
	{Token: TimeframeTokenLooking, Label: "Пока смотрю варианты"},
}

// BudgetChoices returns the budget options in presentation order.
func BudgetChoices() []Choice {
	return append([]Choice(nil), budgetChoices...)
}

// TimeframeChoices returns the timeframe options in presentation order.
func TimeframeChoices() []Choice {
	return append([]Choice(nil), timeframeChoices...)
}

// BudgetLabel maps a budget token to its display label.
func BudgetLabel(token string) (string, bool) {
	return lookupLabel(budgetChoices, token)
}

// TimeframeLabel maps a timeframe token to its display label.
func TimeframeLabel(token string) (string, bool) {
	return lookupLabel(timeframeChoices, token)
}

// IsActionableTimeframe reports whether the selected timeframe makes
// the lead worth a manager's attention. Leads further than a month out
// take the retention branch instead.
func IsActionableTimeframe(token string) bool {
	switch token {
	case TimeframeTokenNow, TimeframeTokenWeek, TimeframeTokenMonth:
		return true
	}
	return false
}

func lookupLabel(choices []Choice, token string) (string, bool) {
	for _, c := range choices {
		if c.Token == token {
			return c.Label, true
		}
	}
	return "", false
}
