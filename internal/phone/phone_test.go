package phone_test

import (
	"testing"

	"github.com/auto-zakaz/intake-bot/internal/phone"
)

func TestIsValid(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "eleven digits with country code", input: "89991234567", expected: true},
		{name: "ten digits", input: "9991234567", expected: true},
		{name: "formatted with separators", input: "+7 (999) 123-45-67", expected: true},
		{name: "letters between digits", input: "8999a123b4567", expected: true},
		{name: "too short", input: "999123456", expected: false},
		{name: "too long", input: "899912345678", expected: false},
		{name: "empty", input: "", expected: false},
		{name: "no digits at all", input: "call me maybe", expected: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if actual := phone.IsValid(tc.input); actual != tc.expected {
				t.Errorf("IsValid(%q) = %t, expected %t", tc.input, actual, tc.expected)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "leading eight", input: "89991234567", expected: "+79991234567"},
		{name: "leading seven", input: "79991234567", expected: "+79991234567"},
		{name: "ten digits leading nine", input: "9991234567", expected: "+79991234567"},
		{name: "formatted leading eight", input: "8 (999) 123-45-67", expected: "+79991234567"},
		{name: "no rule matches", input: "1234567890", expected: "1234567890"},
		{name: "eleven digits leading one", input: "19991234567", expected: "19991234567"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if actual := phone.Normalize(tc.input); actual != tc.expected {
				t.Errorf("Normalize(%q) = %q, expected %q", tc.input, actual, tc.expected)
			}
		})
	}
}
