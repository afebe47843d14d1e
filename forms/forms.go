// Package forms validates user input before anything is sent to the server.
// Failed validation never results in a request.
package forms

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"chapterprep/api"
	"chapterprep/config"
)

const (
	MinPasswordLength = 8
	MaxWordsToExtract = 200
)

// \s is ASCII only, vertical tab, unicode separators and BOM are whitespace too
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{feff}@]+@[^\s\v\p{Z}\x{feff}@]+\.[^\s\v\p{Z}\x{feff}@]+$`)

// ValidationError reports rejected input for a particular field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

type LoginForm struct {
	Username string
	Password string
}

func (f LoginForm) Validate() error {
	if len(strings.TrimSpace(f.Username)) == 0 || len(f.Password) == 0 {
		return invalid("username", "all fields are required")
	}
	return nil
}

type RegisterForm struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

// Validate checks fields in the same order user sees them reported: missing
// values, password length, confirmation, email.
func (f RegisterForm) Validate() error {
	if len(strings.TrimSpace(f.Username)) == 0 || len(strings.TrimSpace(f.Email)) == 0 ||
		len(f.Password) == 0 || len(f.PasswordConfirm) == 0 {
		return invalid("username", "all fields are required")
	}
	if utf8.RuneCountInString(f.Password) < MinPasswordLength {
		return invalid("password", "password must be at least 8 characters long")
	}
	if f.Password != f.PasswordConfirm {
		return invalid("password_confirm", "passwords do not match")
	}
	if !emailPattern.MatchString(strings.TrimSpace(f.Email)) {
		return invalid("email", "email address is not valid")
	}
	return nil
}

// Request returns trimmed registration request, form must be valid.
func (f RegisterForm) Request() api.RegisterRequest {
	return api.RegisterRequest{
		Username: strings.TrimSpace(f.Username),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
	}
}

type BookForm struct {
	Title    string
	Author   string
	Language string
}

func (f BookForm) Request() (api.BookCreate, error) {
	title := strings.TrimSpace(f.Title)
	if len(title) == 0 {
		return api.BookCreate{}, invalid("title", "title is required")
	}
	lang := strings.ToLower(strings.TrimSpace(f.Language))
	if len(lang) == 0 {
		lang = config.BookLanguageFr.String()
	}
	if _, err := config.ParseBookLanguage(lang); err != nil {
		return api.BookCreate{}, invalid("language", "unsupported language, use one of: "+strings.Join(config.BookLanguageNames(), ", "))
	}
	return api.BookCreate{Title: title, Author: strings.TrimSpace(f.Author), Language: lang}, nil
}

// ChapterForm is what user fills in to create a chapter. Chapters are linked
// to the book by its title.
type ChapterForm struct {
	BookTitle       string
	ChapterNumber   int
	TargetLanguage  string
	Level           string
	TranslationMode string
	Text            string
	// zero means "use recommended value"
	WordsToExtract int
}

// Request validates the form and builds chapter creation request.
func (f ChapterForm) Request() (api.ChapterCreate, error) {
	if f.ChapterNumber < 1 {
		return api.ChapterCreate{}, invalid("chapter_number", "chapter number is required")
	}
	target := strings.TrimSpace(f.TargetLanguage)
	if len(target) == 0 {
		return api.ChapterCreate{}, invalid("target_language", "book language is required")
	}
	level, err := config.ParseLevel(strings.ToUpper(strings.TrimSpace(f.Level)))
	if err != nil {
		return api.ChapterCreate{}, invalid("level", "level is required, use one of: "+strings.Join(config.LevelNames(), ", "))
	}
	mode, err := config.ParseTranslationMode(strings.ToLower(strings.TrimSpace(f.TranslationMode)))
	if err != nil {
		return api.ChapterCreate{}, invalid("translation_mode", "translation mode is required, use one of: "+strings.Join(config.TranslationModeNames(), ", "))
	}
	text := strings.TrimSpace(f.Text)
	if len(text) == 0 {
		return api.ChapterCreate{}, invalid("text", "content is required")
	}
	title := strings.TrimSpace(f.BookTitle)
	if len(title) == 0 {
		return api.ChapterCreate{}, invalid("title", "unable to determine book title")
	}

	words := f.WordsToExtract
	if words == 0 {
		words = RecommendWords(CountWords(text))
	}
	if words < 1 || words > MaxWordsToExtract {
		return api.ChapterCreate{}, invalid("words_to_extract", "number of words to extract must be between 1 and 200")
	}

	return api.ChapterCreate{
		Title:           title,
		ChapterNumber:   f.ChapterNumber,
		Text:            text,
		TargetLanguage:  target,
		WordsToExtract:  words,
		Level:           level.String(),
		TranslationMode: mode.String(),
	}, nil
}
