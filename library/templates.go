package library

import (
	"bytes"
	"fmt"
	"io"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"chapterprep/api"
)

// BookValues is what book --format template sees.
type BookValues struct {
	ID           int64
	Title        string
	Author       string
	Language     string
	LanguageName string
}

// ChapterValues is what chapter --format template sees.
type ChapterValues struct {
	Index          int
	ID             int64
	Number         int
	Book           string
	TargetLanguage string
	Level          string
	Mode           string
	ModeLabel      string
}

func parseTemplate(name, field string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s format: %w", name, err)
	}
	return tmpl, nil
}

func writeExpanded(w io.Writer, tmpl *template.Template, values any) error {
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

// RenderBooksFormat writes every book expanded with user supplied template.
// Nothing is written for empty list.
func RenderBooksFormat(w io.Writer, books []api.Book, format string) error {
	tmpl, err := parseTemplate("book", format)
	if err != nil {
		return err
	}
	for _, b := range books {
		values := BookValues{
			ID:           b.ID,
			Title:        b.Title,
			Author:       b.Author,
			Language:     b.Language,
			LanguageName: LanguageLabel(b.Language),
		}
		if err := writeExpanded(w, tmpl, values); err != nil {
			return err
		}
	}
	return nil
}

// RenderFormat writes every chapter card expanded with user supplied
// template. Nothing is written for empty list.
func (l *ChapterList) RenderFormat(w io.Writer, format string) error {
	tmpl, err := parseTemplate("chapter", format)
	if err != nil {
		return err
	}
	for _, c := range l.cards {
		values := ChapterValues{
			Index:          c.Index,
			ID:             c.Chapter.ID,
			Number:         c.Chapter.ChapterNumber,
			Book:           c.Chapter.Title,
			TargetLanguage: c.Chapter.TargetLanguage,
			Level:          c.Chapter.Level,
			Mode:           c.Chapter.TranslationMode,
			ModeLabel:      ModeLabel(c.Chapter.TranslationMode),
		}
		if err := writeExpanded(w, tmpl, values); err != nil {
			return err
		}
	}
	return nil
}
