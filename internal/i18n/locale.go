// Package i18n holds the locales the storefront is translated into and the
// fallback rules used when a translation is missing.
package i18n

import (
	"golang.org/x/text/language"
)

type Locale string

const (
	French  Locale = "fr"
	English Locale = "en"
	Hebrew  Locale = "he"
)

// Default is the locale of a new session and the first fallback of every lookup.
const Default = French

// Supported lists the locales in fallback order after the requested one.
var Supported = []Locale{French, English, Hebrew}

var matcher = language.NewMatcher([]language.Tag{language.French, language.English, language.Hebrew})

func (l Locale) Valid() bool {
	switch l {
	case French, English, Hebrew:
		return true
	}
	return false
}

// RTL reports whether the locale is written right to left.
func (l Locale) RTL() bool {
	return l == Hebrew
}

// Parse returns the locale for code, or Default when code is not supported.
func Parse(code string) Locale {
	l := Locale(code)
	if l.Valid() {
		return l
	}
	return Default
}

// Chain returns the lookup order for l: l itself, then the remaining supported
// locales in their fallback order.
func Chain(l Locale) []Locale {
	chain := make([]Locale, 0, len(Supported))
	if l.Valid() {
		chain = append(chain, l)
	}
	for _, s := range Supported {
		if s != l {
			chain = append(chain, s)
		}
	}
	return chain
}

// Negotiate picks the best supported locale for an Accept-Language header value.
func Negotiate(acceptLanguage string) Locale {
	if acceptLanguage == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return Supported[idx]
}

// Text is a value translated into several locales.
type Text map[Locale]string

// In returns the translation for l, falling back along Chain(l) to the first
// non-empty value.
func (t Text) In(l Locale) string {
	for _, c := range Chain(l) {
		if v := t[c]; v != "" {
			return v
		}
	}
	return ""
}
