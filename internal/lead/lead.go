// Package lead defines the finished lead record handed to the delivery sink.
package lead

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NotProvided substitutes a missing field so the manager message always
// carries all six positions.
const NotProvided = "Не указано"

// Record is the immutable snapshot of a completed dialog.
type Record struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Model     string    `json:"model"`
	Specs     string    `json:"specs"`
	Budget    string    `json:"budget"`
	Timeframe string    `json:"timeframe"`
	CreatedAt time.Time `json:"created_at"`
}

// New builds a Record with a fresh identifier, substituting NotProvided
// for every empty field.
func New(userID int64, name, phoneNumber, model, specs, budget, timeframe string) Record {
	return Record{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      orPlaceholder(name),
		Phone:     orPlaceholder(phoneNumber),
		Model:     orPlaceholder(model),
		Specs:     orPlaceholder(specs),
		Budget:    orPlaceholder(budget),
		Timeframe: orPlaceholder(timeframe),
		CreatedAt: time.Now().UTC(),
	}
}

// ManagerMessage renders the fixed notification template for the
// manager group.
func (r Record) ManagerMessage() string {
	return fmt.Sprintf(
		"🚨 НОВАЯ ЗАЯВКА\n\n"+
			"👤 Имя: %s\n"+
			"📞 Телефон: %s\n"+
			"🚘 Модели: %s\n"+
			"📋 Характеристики: %s\n"+
			"💰 Бюджет: %s\n"+
			"⏱ Срочность: %s\n\n"+
			"#заявка",
		r.Name,
		r.Phone,
		r.Model,
		r.Specs,
		r.Budget,
		r.Timeframe,
	)
}

func orPlaceholder(s string) string {
	if s == "" {
		return NotProvided
	}
	return s
}
