// Package dialog is interactive terminal dialog for adding a chapter: user
// fills in chapter form, waits for word extraction and picks words to keep.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"chapterprep/api"
	"chapterprep/draft"
	"chapterprep/forms"
)

// Result describes how dialog ended.
type Result struct {
	Confirmed bool
	ChapterID int64
	Words     int
}

const (
	fieldNumber = iota
	fieldLanguage
	fieldLevel
	fieldMode
	fieldWords
	fieldCount
)

var fieldLabels = [fieldCount]string{"Chapter number", "Target language", "Level", "Mode", "Words to extract"}

// form field names reported by validation
var fieldIndex = map[string]int{
	"chapter_number":   fieldNumber,
	"target_language":  fieldLanguage,
	"level":            fieldLevel,
	"translation_mode": fieldMode,
	"words_to_extract": fieldWords,
}

type (
	submittedMsg struct{ err error }
	confirmedMsg struct{ err error }
	backMsg      struct{}
	closedMsg    struct{}
)

// Model is bubbletea model driving draft workflow. While request is in flight
// model does not touch workflow and ignores keyboard.
type Model struct {
	ctx context.Context
	wf  *draft.Workflow

	form   forms.ChapterForm
	stats  forms.Stats
	inputs [fieldCount]textinput.Model
	focus  int

	spinner spinner.Model
	busy    bool
	busyMsg string

	view       draft.State
	candidates []draft.Candidate
	cursor     int
	pendingID  int64

	err    error
	fatal  error
	result Result
}

// New creates model for workflow which must be already open. Form provides
// initial field values, chapter text and book title.
func New(ctx context.Context, wf *draft.Workflow, form forms.ChapterForm) Model {
	m := Model{
		ctx:   ctx,
		wf:    wf,
		form:  form,
		stats: forms.TextStats(form.Text),
		view:  wf.State(),
	}

	values := [fieldCount]string{
		fieldLanguage: form.TargetLanguage,
		fieldLevel:    form.Level,
		fieldMode:     form.TranslationMode,
	}
	if form.ChapterNumber > 0 {
		values[fieldNumber] = strconv.Itoa(form.ChapterNumber)
	}
	if form.WordsToExtract > 0 {
		values[fieldWords] = strconv.Itoa(form.WordsToExtract)
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 16
		ti.Width = 20
		ti.Cursor.SetMode(cursor.CursorStatic)
		ti.SetValue(values[i])
		m.inputs[i] = ti
	}
	m.inputs[fieldWords].Placeholder = fmt.Sprintf("%d (recommended)", m.stats.Recommended)
	m.inputs[fieldMode].Placeholder = "translation or definition"
	m.inputs[m.focus].Focus()

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = focusedStyle
	return m
}

// Result returns outcome, meaningful after program exits.
func (m Model) Result() Result {
	return m.result
}

// Err returns error which ended the dialog, session loss is the only one.
func (m Model) Err() error {
	return m.fatal
}

// Busy reports if workflow request is in flight.
func (m Model) Busy() bool {
	return m.busy
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case submittedMsg:
		m.busy = false
		m.view = m.wf.State()
		if errors.Is(msg.err, api.ErrUnauthorized) {
			m.fatal = msg.err
			return m, tea.Quit
		}
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.err = nil
		m.candidates = m.wf.Candidates()
		m.pendingID, _ = m.wf.PendingID()
		m.cursor = 0
		return m, nil

	case confirmedMsg:
		m.busy = false
		m.view = m.wf.State()
		if errors.Is(msg.err, api.ErrUnauthorized) {
			m.fatal = msg.err
			return m, tea.Quit
		}
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.result.Confirmed = true
		m.result.ChapterID = m.pendingID
		m.result.Words = countSelected(m.candidates)
		return m, tea.Quit

	case backMsg:
		m.busy = false
		m.view = m.wf.State()
		m.candidates = nil
		m.err = nil
		return m, m.focusField(m.focus)

	case closedMsg:
		m.busy = false
		m.view = m.wf.State()
		return m, tea.Quit

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		if m.view == draft.WordSelection {
			return m.updateSelection(msg)
		}
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		return m.startBusy("Closing", func(ctx context.Context) tea.Msg {
			m.wf.Close(ctx)
			return closedMsg{}
		})
	case "tab", "down":
		return m, m.focusField((m.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return m, m.focusField((m.focus + fieldCount - 1) % fieldCount)
	case "enter":
		form := m.collect()
		m.err = nil
		return m.startBusy("Extracting words", func(ctx context.Context) tea.Msg {
			return submittedMsg{err: m.wf.Submit(ctx, form)}
		})
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) updateSelection(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "ctrl+c":
		return m.startBusy("Discarding chapter", func(ctx context.Context) tea.Msg {
			m.wf.Close(ctx)
			return closedMsg{}
		})
	case "b":
		return m.startBusy("Discarding chapter", func(ctx context.Context) tea.Msg {
			m.wf.Back(ctx)
			return backMsg{}
		})
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.candidates)-1 {
			m.cursor++
		}
	case " ", "x":
		if err := m.wf.Toggle(m.cursor); err == nil {
			m.candidates = m.wf.Candidates()
			m.err = nil
		}
	case "a":
		if len(m.candidates) > 0 {
			m.wf.SetAll(countSelected(m.candidates) != len(m.candidates))
			m.candidates = m.wf.Candidates()
			m.err = nil
		}
	case "enter":
		m.err = nil
		return m.startBusy("Saving words", func(ctx context.Context) tea.Msg {
			return confirmedMsg{err: m.wf.Confirm(ctx)}
		})
	}
	return m, nil
}

func (m Model) startBusy(what string, fn func(ctx context.Context) tea.Msg) (tea.Model, tea.Cmd) {
	m.busy = true
	m.busyMsg = what
	ctx := m.ctx
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg { return fn(ctx) })
}

func (m *Model) focusField(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[m.focus].Focus()
}

func (m *Model) setError(err error) {
	m.err = err
	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		if i, ok := fieldIndex[verr.Field]; ok {
			m.focusField(i)
		}
	}
}

// collect builds chapter form from current field values. Values which are not
// numbers are left as zero for validation to complain about.
func (m Model) collect() forms.ChapterForm {
	form := m.form
	form.ChapterNumber, _ = strconv.Atoi(strings.TrimSpace(m.inputs[fieldNumber].Value()))
	form.TargetLanguage = m.inputs[fieldLanguage].Value()
	form.Level = m.inputs[fieldLevel].Value()
	form.TranslationMode = m.inputs[fieldMode].Value()
	form.WordsToExtract = 0
	if v := strings.TrimSpace(m.inputs[fieldWords].Value()); len(v) > 0 {
		n, err := strconv.Atoi(v)
		if err != nil || n == 0 {
			n = -1
		}
		form.WordsToExtract = n
	}
	return form
}

func countSelected(cs []draft.Candidate) int {
	n := 0
	for _, c := range cs {
		if c.Selected {
			n++
		}
	}
	return n
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("New chapter of \"" + m.form.BookTitle + "\""))
	b.WriteString("\n\n")

	switch {
	case m.busy:
		b.WriteString(m.spinner.View() + " " + m.busyMsg + "...\n")
	case m.view == draft.WordSelection:
		m.viewSelection(&b)
	default:
		m.viewForm(&b)
	}

	if m.err != nil && !m.busy {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

func (m Model) viewForm(b *strings.Builder) {
	fmt.Fprintf(b, "%s\n\n", dimStyle.Render(fmt.Sprintf("%d words, %d sentences, %d words recommended",
		m.stats.Words, m.stats.Sentences, m.stats.Recommended)))
	for i := range m.inputs {
		label := labelStyle.Render(fieldLabels[i])
		if i == m.focus {
			label = focusedStyle.Render(label)
		}
		b.WriteString(label + m.inputs[i].View() + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("tab: next field, enter: extract words, esc: cancel") + "\n")
}

func (m Model) viewSelection(b *strings.Builder) {
	if len(m.candidates) == 0 {
		b.WriteString("Server returned no words.\n")
	}
	for i, c := range m.candidates {
		mark := "[ ]"
		if c.Selected {
			mark = selectedStyle.Render("[x]")
		}
		pointer := "  "
		if i == m.cursor {
			pointer = focusedStyle.Render("> ")
		}
		line := c.Word.Word
		if len(c.BaseForm) > 0 && c.BaseForm != c.Word.Word {
			line += dimStyle.Render(" (" + c.BaseForm + ")")
		}
		fmt.Fprintf(b, "%s%s %s  %s\n", pointer, mark, line, c.Output)
	}
	fmt.Fprintf(b, "\n%s\n", dimStyle.Render(fmt.Sprintf("%d of %d selected. space: toggle, a: all, enter: confirm, b: back, q: discard",
		countSelected(m.candidates), len(m.candidates))))
}

// Run opens workflow and runs dialog until user confirms or abandons chapter.
// Server rejecting session ends dialog with api.ErrUnauthorized.
func Run(ctx context.Context, wf *draft.Workflow, form forms.ChapterForm, opts ...tea.ProgramOption) (Result, error) {
	if err := wf.Open(); err != nil {
		return Result{}, err
	}
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	final, err := tea.NewProgram(New(ctx, wf, form), opts...).Run()
	if err != nil {
		if m, ok := final.(Model); ok && !m.Busy() {
			// program was killed, do not leave provisional chapter behind
			wf.Close(context.WithoutCancel(ctx))
		}
		return Result{}, fmt.Errorf("chapter dialog: %w", err)
	}
	m := final.(Model)
	if err := m.Err(); err != nil {
		return Result{}, err
	}
	return m.Result(), nil
}
