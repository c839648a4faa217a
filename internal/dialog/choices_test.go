package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBudgetLabel(t *testing.T) {
	label, ok := BudgetLabel(BudgetToken2to3M)
	assert.True(t, ok)
	assert.Equal(t, "2-3 млн руб", label)

	_, ok = BudgetLabel("budget_unknown")
	assert.False(t, ok)
}

func TestTimeframeLabel(t *testing.T) {
	label, ok := TimeframeLabel(TimeframeTokenLooking)
	assert.True(t, ok)
	assert.Equal(t, "Пока смотрю варианты", label)

	_, ok = TimeframeLabel("time_unknown")
	assert.False(t, ok)
}

func TestIsActionableTimeframe(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{TimeframeTokenNow, true},
		{TimeframeTokenWeek, true},
		{TimeframeTokenMonth, true},
		{TimeframeToken1to3, false},
		{TimeframeTokenLooking, false},
		{"time_unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, IsActionableTimeframe(tt.token))
		})
	}
}

func TestChoicesReturnCopies(t *testing.T) {
	first := BudgetChoices()
	first[0].Label = "mutated"

	fresh := BudgetChoices()
	assert.Equal(t, "До 1 млн руб", fresh[0].Label)
}
