package keyboard_test

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auto-zakaz/intake-bot/internal/bot/keyboard"
	"github.com/auto-zakaz/intake-bot/internal/dialog"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuilderChoicesOneButtonPerRow(t *testing.T) {
	builder := keyboard.NewBuilder(testLogger())
	choices := dialog.BudgetChoices()

	markup := builder.Choices(choices)

	require.Len(t, markup.InlineKeyboard, len(choices))
	for i, row := range markup.InlineKeyboard {
		require.Len(t, row, 1)
		assert.Equal(t, choices[i].Label, row[0].Text)
		assert.Equal(t, choices[i].Token, row[0].Data)
	}
}

func TestBuilderChoicesSkipsOversizedTokens(t *testing.T) {
	builder := keyboard.NewBuilder(testLogger())
	choices := []dialog.Choice{
		{Token: "time_now", Label: "Срочно"},
		{Token: strings.Repeat("x", keyboard.CallbackDataLimitBytes+1), Label: "broken"},
	}

	markup := builder.Choices(choices)

	require.Len(t, markup.InlineKeyboard, 1)
	assert.Equal(t, "time_now", markup.InlineKeyboard[0][0].Data)
}
