// Package library renders user books and chapters for terminal output.
package library

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/maruel/natural"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"chapterprep/api"
	"chapterprep/config"
)

const (
	unknownAuthor    = "Unknown author"
	noBooksMessage   = "No books yet. Add one with \"books add\"."
	noChapterMessage = "No chapters in this book yet. Add one with \"chapters add\"."
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

// LanguageLabel returns English name of the language code, or code itself
// when it is not recognized. Codes outside of book languages API accepts are
// still named if they are valid tags.
func LanguageLabel(code string) string {
	var tag language.Tag
	if bl, err := config.ParseBookLanguage(code); err == nil {
		tag = bl.Tag()
	} else if tag, err = language.Parse(code); err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); len(name) > 0 {
		return name
	}
	return code
}

// SortBooks orders books by title the way humans expect ("Vol 2" before "Vol 10").
func SortBooks(books []api.Book) {
	slices.SortStableFunc(books, func(a, b api.Book) int {
		switch {
		case natural.Less(a.Title, b.Title):
			return -1
		case natural.Less(b.Title, a.Title):
			return 1
		}
		return 0
	})
}

// BookLine formats single book.
func BookLine(b api.Book) string {
	author := strings.TrimSpace(b.Author)
	if len(author) == 0 {
		author = unknownAuthor
	}
	return fmt.Sprintf("%s %s, %s %s",
		dimStyle.Render(fmt.Sprintf("[%d]", b.ID)), titleStyle.Render(b.Title), author, dimStyle.Render("("+LanguageLabel(b.Language)+")"))
}

// RenderBooks writes book list or empty state message.
func RenderBooks(w io.Writer, books []api.Book) error {
	if len(books) == 0 {
		_, err := fmt.Fprintln(w, noBooksMessage)
		return err
	}
	for _, b := range books {
		if _, err := fmt.Fprintln(w, BookLine(b)); err != nil {
			return err
		}
	}
	return nil
}

// Card is a chapter as presented to the user. Index is position in the list
// starting from 1, it is not related to chapter number.
type Card struct {
	Index   int
	Chapter api.Chapter
}

// ChapterList is ordered set of chapter cards of a single book.
type ChapterList struct {
	cards []Card
}

// NewChapterList keeps only chapters belonging to the book with given title,
// in the order server returned them.
func NewChapterList(chapters []api.Chapter, bookTitle string) *ChapterList {
	l := &ChapterList{}
	for _, ch := range chapters {
		if ch.Title != bookTitle {
			continue
		}
		l.cards = append(l.cards, Card{Chapter: ch})
	}
	l.renumber()
	return l
}

func (l *ChapterList) renumber() {
	for i := range l.cards {
		l.cards[i].Index = i + 1
	}
}

func (l *ChapterList) Len() int {
	return len(l.cards)
}

func (l *ChapterList) Cards() []Card {
	return slices.Clone(l.cards)
}

// Find returns card of the chapter with given id.
func (l *ChapterList) Find(id int64) (Card, bool) {
	for _, c := range l.cards {
		if c.Chapter.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// Remove drops exactly one card and renumbers the rest. Reports if chapter
// was found.
func (l *ChapterList) Remove(id int64) bool {
	i := slices.IndexFunc(l.cards, func(c Card) bool { return c.Chapter.ID == id })
	if i < 0 {
		return false
	}
	l.cards = slices.Delete(l.cards, i, i+1)
	l.renumber()
	return true
}

// ModeLabel returns human readable translation mode of the chapter.
func ModeLabel(mode string) string {
	m, err := config.ParseTranslationMode(mode)
	if err != nil {
		return config.TranslationModeTranslation.Label()
	}
	return m.Label()
}

// CardLine formats single chapter card.
func CardLine(c Card) string {
	return fmt.Sprintf("%3d. %s  %s  level %s  %s  %s",
		c.Index, titleStyle.Render(fmt.Sprintf("Chapter %d", c.Chapter.ChapterNumber)),
		c.Chapter.TargetLanguage, c.Chapter.Level, ModeLabel(c.Chapter.TranslationMode),
		dimStyle.Render(fmt.Sprintf("[id %d]", c.Chapter.ID)))
}

// Render writes chapter cards or empty state message.
func (l *ChapterList) Render(w io.Writer) error {
	if len(l.cards) == 0 {
		_, err := fmt.Fprintln(w, noChapterMessage)
		return err
	}
	for _, c := range l.cards {
		if _, err := fmt.Fprintln(w, CardLine(c)); err != nil {
			return err
		}
	}
	return nil
}
