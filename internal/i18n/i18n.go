// Package i18n resolves the request language and renders message keys.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LangParam is the query parameter used to select a language.
const LangParam = "lang"

var (
	supported = []language.Tag{language.English, language.French}
	matcher   = language.NewMatcher(supported)
)

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// Default returns the default language tag.
func Default() language.Tag {
	return language.English
}

// Parse maps value onto a supported tag.
func Parse(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Default(), false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return Default(), false
	}
	return match(tag), true
}

func match(tags ...language.Tag) language.Tag {
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Default()
	}
	return supported[idx]
}

// ResolveTag determines the best language for the request: ?lang first, then
// Accept-Language, then fallback.
func ResolveTag(r *http.Request, fallback language.Tag) language.Tag {
	if r == nil {
		return fallback
	}
	if tag, ok := Parse(r.URL.Query().Get(LangParam)); ok {
		return tag
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			return match(tags...)
		}
	}
	return fallback
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// Translate renders key in tag's language. Unknown keys render as themselves.
func Translate(tag language.Tag, key string, args ...any) string {
	return Printer(tag).Sprintf(key, args...)
}
