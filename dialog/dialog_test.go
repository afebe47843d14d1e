package dialog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chapterprep/api"
	"chapterprep/draft"
	"chapterprep/forms"
)

type fakeChapters struct {
	words      []api.Word
	createErr  error
	confirmErr error

	created   int
	confirmed []api.Word
	deleted   []int64
}

func (f *fakeChapters) CreateChapter(_ context.Context, ch api.ChapterCreate) (*api.ChapterDraft, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created++
	return &api.ChapterDraft{Chapter: api.Chapter{ID: int64(100 + f.created), Title: ch.Title}, Words: f.words}, nil
}

func (f *fakeChapters) ConfirmWords(_ context.Context, _ int64, words []api.Word) error {
	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.confirmed = words
	return nil
}

func (f *fakeChapters) DeleteChapter(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

var words = []api.Word{
	{Word: "chevaux", BaseForm: "cheval", Output: "horse"},
	{Word: "venait", BaseForm: "venir", Output: "to come"},
}

func newModel(t *testing.T, fake *fakeChapters) Model {
	t.Helper()
	wf := draft.New(fake, nil)
	require.NoError(t, wf.Open())
	return New(context.Background(), wf, forms.ChapterForm{
		BookTitle:       "Germinal",
		ChapterNumber:   3,
		TargetLanguage:  "en",
		Level:           "B2",
		TranslationMode: "translation",
		Text:            "Dans la plaine rase, sous la nuit sans étoiles. Un homme suivait seul la grande route.",
	})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends key and runs resulting commands synchronously, feeding their
// messages back into the model. Reports whether program asked to quit.
func press(t *testing.T, m Model, k string) (Model, bool) {
	t.Helper()
	next, cmd := m.Update(key(k))
	m = next.(Model)

	quit := false
	for queue := []tea.Cmd{cmd}; len(queue) > 0; {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, spinner.TickMsg:
		case tea.QuitMsg:
			quit = true
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			next, cmd := m.Update(msg)
			m = next.(Model)
			queue = append(queue, cmd)
		}
	}
	return m, quit
}

func TestDialog_ConfirmSubset(t *testing.T) {
	fake := &fakeChapters{words: words}
	m := newModel(t, fake)

	m, quit := press(t, m, "enter")
	require.False(t, quit)
	require.Equal(t, draft.WordSelection, m.view)
	require.Len(t, m.candidates, 2)
	assert.Contains(t, m.View(), "2 of 2 selected")

	m, _ = press(t, m, "j")
	m, _ = press(t, m, "space")
	assert.Contains(t, m.View(), "1 of 2 selected")

	m, quit = press(t, m, "enter")
	require.True(t, quit)
	assert.Equal(t, []api.Word{words[0]}, fake.confirmed)
	assert.Equal(t, Result{Confirmed: true, ChapterID: 101, Words: 1}, m.Result())
	assert.Empty(t, fake.deleted)
}

func TestDialog_NothingSelected(t *testing.T) {
	fake := &fakeChapters{words: words}
	m := newModel(t, fake)

	m, _ = press(t, m, "enter")
	m, _ = press(t, m, "a")
	assert.Contains(t, m.View(), "0 of 2 selected")

	m, quit := press(t, m, "enter")
	require.False(t, quit)
	assert.ErrorIs(t, m.err, draft.ErrNoWordsSelected)
	assert.Nil(t, fake.confirmed)

	m, _ = press(t, m, "a")
	assert.Contains(t, m.View(), "2 of 2 selected")
}

func TestDialog_BackDiscardsDraft(t *testing.T) {
	fake := &fakeChapters{words: words}
	m := newModel(t, fake)

	m, _ = press(t, m, "enter")
	m, quit := press(t, m, "b")
	require.False(t, quit)
	assert.Equal(t, draft.FormOpen, m.view)
	assert.Equal(t, []int64{101}, fake.deleted)
	assert.Contains(t, m.View(), "Chapter number")

	m, _ = press(t, m, "enter")
	assert.Equal(t, draft.WordSelection, m.view)
	assert.Equal(t, 2, fake.created)
}

func TestDialog_CloseDiscardsDraft(t *testing.T) {
	for _, k := range []string{"esc", "q"} {
		t.Run(k, func(t *testing.T) {
			fake := &fakeChapters{words: words}
			m := newModel(t, fake)

			m, _ = press(t, m, "enter")
			m, quit := press(t, m, k)
			require.True(t, quit)
			assert.Equal(t, []int64{101}, fake.deleted)
			assert.False(t, m.Result().Confirmed)
		})
	}
}

func TestDialog_CloseFormWithoutDraft(t *testing.T) {
	fake := &fakeChapters{words: words}
	m := newModel(t, fake)

	m, quit := press(t, m, "esc")
	require.True(t, quit)
	assert.Empty(t, fake.deleted)
	assert.Zero(t, fake.created)
}

func TestDialog_ValidationFocusesField(t *testing.T) {
	fake := &fakeChapters{words: words}
	m := newModel(t, fake)

	m, _ = press(t, m, "tab")
	m, _ = press(t, m, "tab")
	require.Equal(t, fieldLevel, m.focus)
	m, _ = press(t, m, "backspace")
	m, _ = press(t, m, "backspace")
	m, _ = press(t, m, "tab")
	require.Equal(t, fieldMode, m.focus)

	m, _ = press(t, m, "enter")
	var verr *forms.ValidationError
	require.ErrorAs(t, m.err, &verr)
	assert.Equal(t, "level", verr.Field)
	assert.Equal(t, fieldLevel, m.focus)
	assert.Zero(t, fake.created)
	assert.Equal(t, draft.FormOpen, m.view)
}

func TestDialog_ServerErrorStaysOnForm(t *testing.T) {
	fake := &fakeChapters{createErr: errors.New("extraction failed")}
	m := newModel(t, fake)

	m, quit := press(t, m, "enter")
	require.False(t, quit)
	assert.Equal(t, draft.FormOpen, m.view)
	assert.Contains(t, m.View(), "extraction failed")
}

func TestDialog_SessionLossEndsDialog(t *testing.T) {
	t.Run("submit", func(t *testing.T) {
		fake := &fakeChapters{createErr: api.ErrUnauthorized}
		m := newModel(t, fake)

		m, quit := press(t, m, "enter")
		require.True(t, quit)
		assert.ErrorIs(t, m.Err(), api.ErrUnauthorized)
		assert.False(t, m.Result().Confirmed)
	})
	t.Run("confirm", func(t *testing.T) {
		fake := &fakeChapters{words: words, confirmErr: fmt.Errorf("confirm words: %w", api.ErrUnauthorized)}
		m := newModel(t, fake)

		m, _ = press(t, m, "enter")
		require.Equal(t, draft.WordSelection, m.view)
		m, quit := press(t, m, "enter")
		require.True(t, quit)
		assert.ErrorIs(t, m.Err(), api.ErrUnauthorized)
		assert.False(t, m.Result().Confirmed)
	})
}

func TestDialog_KeysIgnoredWhileBusy(t *testing.T) {
	fake := &fakeChapters{words: words}
	m := newModel(t, fake)

	next, cmd := m.Update(key("enter"))
	m = next.(Model)
	require.True(t, m.Busy())
	require.NotNil(t, cmd)

	next, cmd = m.Update(key("esc"))
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.True(t, m.Busy())
	assert.Contains(t, m.View(), "Extracting words")
	assert.Zero(t, fake.created)
}

func TestDialog_NoWordsReturned(t *testing.T) {
	fake := &fakeChapters{}
	m := newModel(t, fake)

	m, _ = press(t, m, "enter")
	assert.Contains(t, m.View(), "Server returned no words.")
	m, quit := press(t, m, "enter")
	assert.False(t, quit)
	assert.ErrorIs(t, m.err, draft.ErrNoWordsSelected)
}

func TestCollect(t *testing.T) {
	m := newModel(t, &fakeChapters{})
	form := m.collect()
	assert.Equal(t, 3, form.ChapterNumber)
	assert.Equal(t, 0, form.WordsToExtract)
	assert.Equal(t, "Germinal", form.BookTitle)

	m.inputs[fieldWords].SetValue("abc")
	assert.Equal(t, -1, m.collect().WordsToExtract)
	m.inputs[fieldWords].SetValue("25")
	assert.Equal(t, 25, m.collect().WordsToExtract)
}
