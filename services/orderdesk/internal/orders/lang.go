package orders

import (
	"strings"

	"golang.org/x/text/language"
)

// Lang is the viewer's display language. Arabic is primary; English is secondary.
type Lang string

const (
	Arabic  Lang = "ar"
	English Lang = "en"
)

var supported = language.NewMatcher([]language.Tag{language.Arabic, language.English})

// ParseLang resolves a locale string or Accept-Language value to a supported language.
// Anything unparseable falls back to Arabic.
func ParseLang(locale string) Lang {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return Arabic
	}
	tags, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(tags) == 0 {
		return Arabic
	}
	_, idx, conf := supported.Match(tags...)
	if conf == language.No {
		return Arabic
	}
	if idx == 1 {
		return English
	}
	return Arabic
}

func (l Lang) IsPrimary() bool {
	return l != English
}

// Pick returns the primary text for Arabic viewers and the secondary for English viewers.
func (l Lang) Pick(ar, en string) string {
	if l.IsPrimary() {
		return ar
	}
	return en
}

// Placeholders used when a display field has no usable value.
const (
	unknownAr = "غير معروف"
	unknownEn = "Unknown"
	unitAr    = "وحدة"
	unitEn    = "unit"
)

func (l Lang) unknown() string {
	return l.Pick(unknownAr, unknownEn)
}

// Display resolves a localized name: the viewer's language first, then the
// other language, then the Unknown placeholder.
func (l Lang) Display(name, nameEn string) string {
	first, second := name, nameEn
	if !l.IsPrimary() {
		first, second = nameEn, name
	}
	if s := strings.TrimSpace(first); s != "" {
		return s
	}
	if s := strings.TrimSpace(second); s != "" {
		return s
	}
	return l.unknown()
}
