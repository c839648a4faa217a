package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	telebot "gopkg.in/telebot.v3"

	"github.com/auto-zakaz/intake-bot/internal/bot/handlers"
)

func TestCommandOnly(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/start", "/start"},
		{"/start@auto_zakaz_intake_bot", "/start"},
		{"/start hello", "/start"},
		{"/cancel@bot extra", "/cancel"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, commandOnly(tt.input))
		})
	}
}

func TestRouterFindCallbackHandlerByPrefix(t *testing.T) {
	r := NewRouter(nil)
	r.RegisterCallback(CallbackBudgetPrefix, func(c telebot.Context) error { return nil })

	assert.NotNil(t, r.findCallbackHandler("budget_3"))
	assert.Nil(t, r.findCallbackHandler("unrelated"))
}

func TestRouterMiddlewareOrder(t *testing.T) {
	r := NewRouter(nil)

	var order []string
	mw := func(name string) handlers.Middleware {
		return func(next handlers.Handler) handlers.Handler {
			return func(c telebot.Context) error {
				order = append(order, name)
				return next(c)
			}
		}
	}

	r.Use(mw("outer"))
	r.Use(mw("inner"))

	handler := r.applyMiddlewares(func(c telebot.Context) error {
		order = append(order, "handler")
		return nil
	})

	assert.NoError(t, handler(nil))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}
