package i18n

import (
	"net/http/httptest"
	"testing"

	"golang.org/x/text/language"
)

func TestResolveTagPrefersQueryParam(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/users/view?lang=fr", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if got := ResolveTag(req, Default()); got != language.French {
		t.Fatalf("expected French, got %s", got)
	}
}

func TestResolveTagFallsBackToAcceptLanguage(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept-Language", "fr-CA,fr;q=0.8")
	if got := ResolveTag(req, Default()); got != language.French {
		t.Fatalf("expected French, got %s", got)
	}

	req = httptest.NewRequest("GET", "/", nil)
	if got := ResolveTag(req, language.French); got != language.French {
		t.Fatalf("expected fallback, got %s", got)
	}

	if got := ResolveTag(nil, Default()); got != language.English {
		t.Fatalf("expected default for nil request, got %s", got)
	}
}

func TestTranslate(t *testing.T) {
	if got := Translate(language.French, "Incorrect email or password"); got != "Email ou mot de passe incorrect" {
		t.Fatalf("unexpected translation %q", got)
	}
	if got := Translate(language.French, "The user is already a %s", "manager"); got != "L'utilisateur est déjà manager" {
		t.Fatalf("unexpected formatted translation %q", got)
	}
	if got := Translate(language.English, "The user is already a %s", "manager"); got != "The user is already a manager" {
		t.Fatalf("unexpected english rendering %q", got)
	}
	if got := Translate(language.French, "untranslated key"); got != "untranslated key" {
		t.Fatalf("expected key passthrough, got %q", got)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, ok := Parse("!!"); ok {
		t.Fatal("expected parse failure")
	}
	if tag, ok := Parse("fr-FR"); !ok || tag != language.French {
		t.Fatalf("expected French match, got %s", tag)
	}
}
