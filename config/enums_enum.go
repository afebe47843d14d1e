// String, parse and text marshaling methods for enums declared in enums.go,
// in the shape go-enum produces. Maintained by hand, names must follow ENUM
// comments there.

package config

import (
	"errors"
	"fmt"
)

const (
	// BookLanguageFr is a BookLanguage of type fr.
	BookLanguageFr BookLanguage = "fr"
	// BookLanguageEn is a BookLanguage of type en.
	BookLanguageEn BookLanguage = "en"
	// BookLanguageEs is a BookLanguage of type es.
	BookLanguageEs BookLanguage = "es"
	// BookLanguageDe is a BookLanguage of type de.
	BookLanguageDe BookLanguage = "de"
	// BookLanguageIt is a BookLanguage of type it.
	BookLanguageIt BookLanguage = "it"
)

var ErrInvalidBookLanguage = errors.New("not a valid BookLanguage")

var _BookLanguageNames = []string{
	string(BookLanguageFr),
	string(BookLanguageEn),
	string(BookLanguageEs),
	string(BookLanguageDe),
	string(BookLanguageIt),
}

// BookLanguageNames returns a list of possible string values of BookLanguage.
func BookLanguageNames() []string {
	tmp := make([]string, len(_BookLanguageNames))
	copy(tmp, _BookLanguageNames)
	return tmp
}

// String implements the Stringer interface.
func (x BookLanguage) String() string {
	return string(x)
}

// IsValid provides a quick way to determine if the typed value is
// part of the allowed enumerated values
func (x BookLanguage) IsValid() bool {
	_, err := ParseBookLanguage(string(x))
	return err == nil
}

var _BookLanguageValue = map[string]BookLanguage{
	"fr": BookLanguageFr,
	"en": BookLanguageEn,
	"es": BookLanguageEs,
	"de": BookLanguageDe,
	"it": BookLanguageIt,
}

// ParseBookLanguage attempts to convert a string to a BookLanguage.
func ParseBookLanguage(name string) (BookLanguage, error) {
	if x, ok := _BookLanguageValue[name]; ok {
		return x, nil
	}
	return BookLanguage(""), fmt.Errorf("%s is %w", name, ErrInvalidBookLanguage)
}

// MarshalText implements the text marshaller method.
func (x BookLanguage) MarshalText() ([]byte, error) {
	return []byte(string(x)), nil
}

// UnmarshalText implements the text unmarshaller method.
func (x *BookLanguage) UnmarshalText(text []byte) error {
	tmp, err := ParseBookLanguage(string(text))
	if err != nil {
		return err
	}
	*x = tmp
	return nil
}

const (
	// LevelA1 is a Level of type A1.
	LevelA1 Level = iota
	// LevelA2 is a Level of type A2.
	LevelA2
	// LevelB1 is a Level of type B1.
	LevelB1
	// LevelB2 is a Level of type B2.
	LevelB2
	// LevelC1 is a Level of type C1.
	LevelC1
	// LevelC2 is a Level of type C2.
	LevelC2
)

var ErrInvalidLevel = errors.New("not a valid Level")

const _LevelName = "A1A2B1B2C1C2"

var _LevelNames = []string{
	_LevelName[0:2],
	_LevelName[2:4],
	_LevelName[4:6],
	_LevelName[6:8],
	_LevelName[8:10],
	_LevelName[10:12],
}

// LevelNames returns a list of possible string values of Level.
func LevelNames() []string {
	tmp := make([]string, len(_LevelNames))
	copy(tmp, _LevelNames)
	return tmp
}

var _LevelMap = map[Level]string{
	LevelA1: _LevelName[0:2],
	LevelA2: _LevelName[2:4],
	LevelB1: _LevelName[4:6],
	LevelB2: _LevelName[6:8],
	LevelC1: _LevelName[8:10],
	LevelC2: _LevelName[10:12],
}

// String implements the Stringer interface.
func (x Level) String() string {
	if str, ok := _LevelMap[x]; ok {
		return str
	}
	return fmt.Sprintf("Level(%d)", x)
}

// IsValid provides a quick way to determine if the typed value is
// part of the allowed enumerated values
func (x Level) IsValid() bool {
	_, ok := _LevelMap[x]
	return ok
}

var _LevelValue = map[string]Level{
	_LevelName[0:2]:   LevelA1,
	_LevelName[2:4]:   LevelA2,
	_LevelName[4:6]:   LevelB1,
	_LevelName[6:8]:   LevelB2,
	_LevelName[8:10]:  LevelC1,
	_LevelName[10:12]: LevelC2,
}

// ParseLevel attempts to convert a string to a Level.
func ParseLevel(name string) (Level, error) {
	if x, ok := _LevelValue[name]; ok {
		return x, nil
	}
	return Level(0), fmt.Errorf("%s is %w", name, ErrInvalidLevel)
}

// MarshalText implements the text marshaller method.
func (x Level) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

// UnmarshalText implements the text unmarshaller method.
func (x *Level) UnmarshalText(text []byte) error {
	name := string(text)
	tmp, err := ParseLevel(name)
	if err != nil {
		return err
	}
	*x = tmp
	return nil
}

const (
	// TranslationModeTranslation is a TranslationMode of type Translation.
	TranslationModeTranslation TranslationMode = iota
	// TranslationModeDefinition is a TranslationMode of type Definition.
	TranslationModeDefinition
)

var ErrInvalidTranslationMode = errors.New("not a valid TranslationMode")

const _TranslationModeName = "translationdefinition"

var _TranslationModeNames = []string{
	_TranslationModeName[0:11],
	_TranslationModeName[11:21],
}

// TranslationModeNames returns a list of possible string values of TranslationMode.
func TranslationModeNames() []string {
	tmp := make([]string, len(_TranslationModeNames))
	copy(tmp, _TranslationModeNames)
	return tmp
}

var _TranslationModeMap = map[TranslationMode]string{
	TranslationModeTranslation: _TranslationModeName[0:11],
	TranslationModeDefinition:  _TranslationModeName[11:21],
}

// String implements the Stringer interface.
func (x TranslationMode) String() string {
	if str, ok := _TranslationModeMap[x]; ok {
		return str
	}
	return fmt.Sprintf("TranslationMode(%d)", x)
}

// IsValid provides a quick way to determine if the typed value is
// part of the allowed enumerated values
func (x TranslationMode) IsValid() bool {
	_, ok := _TranslationModeMap[x]
	return ok
}

var _TranslationModeValue = map[string]TranslationMode{
	_TranslationModeName[0:11]:  TranslationModeTranslation,
	_TranslationModeName[11:21]: TranslationModeDefinition,
}

// ParseTranslationMode attempts to convert a string to a TranslationMode.
func ParseTranslationMode(name string) (TranslationMode, error) {
	if x, ok := _TranslationModeValue[name]; ok {
		return x, nil
	}
	return TranslationMode(0), fmt.Errorf("%s is %w", name, ErrInvalidTranslationMode)
}

// MarshalText implements the text marshaller method.
func (x TranslationMode) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

// UnmarshalText implements the text unmarshaller method.
func (x *TranslationMode) UnmarshalText(text []byte) error {
	name := string(text)
	tmp, err := ParseTranslationMode(name)
	if err != nil {
		return err
	}
	*x = tmp
	return nil
}
