package i18n

import (
	"strings"
	"testing"
)

func TestLoad_EmbeddedCatalog(t *testing.T) {
	m, err := Load("ru")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tr := m.Translator("ru")
	if tr.Lang() != "ru" {
		t.Errorf("Lang() = %q, expected ru", tr.Lang())
	}

	if got := tr.T("dialog.ask_model"); !strings.Contains(got, "марки/модели") {
		t.Errorf("dialog.ask_model resolved to %q", got)
	}

	if got := tr.T("dialog.retention"); !strings.Contains(got, "%s") {
		t.Errorf("dialog.retention must keep the channel link placeholder, got %q", got)
	}
}

func TestTranslator_FallbackBehavior(t *testing.T) {
	m, err := Load("ru")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Unknown language falls back to the default catalog.
	tr := m.Translator("en")
	if tr.Lang() != "ru" {
		t.Errorf("Lang() = %q, expected fallback to ru", tr.Lang())
	}

	// Unknown key resolves to itself.
	if got := tr.T("dialog.no_such_key"); got != "dialog.no_such_key" {
		t.Errorf("unknown key resolved to %q", got)
	}

	if got := tr.T(""); got != "" {
		t.Errorf("empty key resolved to %q", got)
	}
}

func TestLoad_MissingDefaultLanguage(t *testing.T) {
	if _, err := Load("de"); err == nil {
		t.Fatal("expected error for missing default language")
	}
}
