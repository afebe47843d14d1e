package config

import (
	"golang.org/x/text/language"
)

// CEFR proficiency level used to tune vocabulary extraction.
// ENUM(A1, A2, B1, B2, C1, C2)
type Level int

// What extraction puts into "output" field of every word.
// ENUM(translation, definition)
type TranslationMode int

// Label returns short human readable name of the mode.
func (m TranslationMode) Label() string {
	if m == TranslationModeDefinition {
		return "Definition"
	}
	return "Translation"
}

// Book languages accepted by the API.
// ENUM(fr, en, es, de, it)
type BookLanguage string

// Tag returns language tag for the book language.
func (l BookLanguage) Tag() language.Tag {
	return language.Make(string(l))
}
