// Package draft implements chapter draft lifecycle. Creating a chapter is a
// two phase process: server creates provisional chapter and extracts candidate
// words, user then either confirms a subset of the words or abandons the
// draft, in which case provisional chapter is deleted.
//
//	Closed -> FormOpen -> AwaitingExtraction -> WordSelection -> Confirmed
//	                ^            |                    |
//	                +------------+ (failure)          +-> Abandoned (back/close)
//
// At most one provisional chapter exists per workflow. Nothing is persisted:
// if program exits while chapter is provisional it stays orphaned on server.
package draft

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"chapterprep/api"
	"chapterprep/forms"
)

// State of the chapter dialog.
type State int

const (
	Closed State = iota
	FormOpen
	AwaitingExtraction
	WordSelection
	Confirmed
	Abandoned
)

var stateNames = [...]string{"closed", "form", "awaiting-extraction", "word-selection", "confirmed", "abandoned"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	// ErrNoWordsSelected is returned on confirmation with nothing checked.
	ErrNoWordsSelected = errors.New("select at least one word")
	// ErrWrongState is returned when operation is not possible in current state.
	ErrWrongState = errors.New("operation is not allowed now")
)

// Chapters is the part of API workflow needs.
type Chapters interface {
	CreateChapter(ctx context.Context, ch api.ChapterCreate) (*api.ChapterDraft, error)
	ConfirmWords(ctx context.Context, chapterID int64, words []api.Word) error
	DeleteChapter(ctx context.Context, chapterID int64) error
}

// Candidate is a suggested word and whether user keeps it.
type Candidate struct {
	api.Word
	Selected bool
}

// Workflow is not safe for concurrent use, dialog serializes calls.
type Workflow struct {
	chapters Chapters
	log      *zap.Logger

	state      State
	pending    *int64
	candidates []Candidate
	lastErr    error
}

func New(chapters Chapters, log *zap.Logger) *Workflow {
	if log == nil {
		log = zap.NewNop()
	}
	return &Workflow{chapters: chapters, log: log}
}

func (w *Workflow) State() State {
	return w.state
}

// PendingID returns id of provisional chapter if there is one.
func (w *Workflow) PendingID() (int64, bool) {
	if w.pending == nil {
		return 0, false
	}
	return *w.pending, true
}

// Candidates returns copy of current candidate list.
func (w *Workflow) Candidates() []Candidate {
	out := make([]Candidate, len(w.candidates))
	copy(out, w.candidates)
	return out
}

// Err returns error reported by the last operation, it is what user sees
// next to the form or word list.
func (w *Workflow) Err() error {
	return w.lastErr
}

// Open starts a fresh dialog. Nothing survives from previous one.
func (w *Workflow) Open() error {
	switch w.state {
	case Closed, Confirmed, Abandoned:
	default:
		return fmt.Errorf("%w: dialog is already open (%s)", ErrWrongState, w.state)
	}
	w.reset()
	w.state = FormOpen
	return nil
}

func (w *Workflow) reset() {
	w.pending = nil
	w.candidates = nil
	w.lastErr = nil
}

// Submit validates the form and requests chapter creation. Validation
// failures are reported without any request. On server failure the dialog
// returns to the form with no draft state.
func (w *Workflow) Submit(ctx context.Context, form forms.ChapterForm) error {
	if w.state != FormOpen {
		return fmt.Errorf("%w: submit in %s", ErrWrongState, w.state)
	}
	w.lastErr = nil

	req, err := form.Request()
	if err != nil {
		w.lastErr = err
		return err
	}

	w.state = AwaitingExtraction
	w.log.Debug("Creating chapter", zap.String("title", req.Title), zap.Int("number", req.ChapterNumber),
		zap.Int("words", req.WordsToExtract), zap.String("level", req.Level))

	draft, err := w.chapters.CreateChapter(ctx, req)
	if err != nil {
		w.state = FormOpen
		w.lastErr = err
		return err
	}

	id := draft.Chapter.ID
	w.pending = &id
	w.candidates = make([]Candidate, 0, len(draft.Words))
	for _, word := range draft.Words {
		w.candidates = append(w.candidates, Candidate{Word: word, Selected: true})
	}
	w.state = WordSelection
	w.log.Debug("Chapter is provisional", zap.Int64("id", id), zap.Int("candidates", len(w.candidates)))
	return nil
}

// Toggle flips selection of the candidate at index i.
func (w *Workflow) Toggle(i int) error {
	if w.state != WordSelection {
		return fmt.Errorf("%w: toggle in %s", ErrWrongState, w.state)
	}
	if i < 0 || i >= len(w.candidates) {
		return fmt.Errorf("no candidate word at %d", i)
	}
	w.candidates[i].Selected = !w.candidates[i].Selected
	return nil
}

// SetSelected sets selection of the candidate at index i.
func (w *Workflow) SetSelected(i int, selected bool) error {
	if w.state != WordSelection {
		return fmt.Errorf("%w: select in %s", ErrWrongState, w.state)
	}
	if i < 0 || i >= len(w.candidates) {
		return fmt.Errorf("no candidate word at %d", i)
	}
	w.candidates[i].Selected = selected
	return nil
}

// SetAll selects or deselects all candidates.
func (w *Workflow) SetAll(selected bool) error {
	if w.state != WordSelection {
		return fmt.Errorf("%w: select in %s", ErrWrongState, w.state)
	}
	for i := range w.candidates {
		w.candidates[i].Selected = selected
	}
	return nil
}

// Selected returns words user keeps, in suggested order.
func (w *Workflow) Selected() []api.Word {
	var out []api.Word
	for _, c := range w.candidates {
		if c.Selected {
			out = append(out, c.Word)
		}
	}
	return out
}

// Confirm persists selected words for provisional chapter. With nothing
// selected no request is made. On failure user stays on word selection and
// may retry or abandon.
func (w *Workflow) Confirm(ctx context.Context) error {
	if w.state != WordSelection || w.pending == nil {
		return fmt.Errorf("%w: confirm in %s", ErrWrongState, w.state)
	}
	w.lastErr = nil

	words := w.Selected()
	if len(words) == 0 {
		w.lastErr = ErrNoWordsSelected
		return ErrNoWordsSelected
	}

	if err := w.chapters.ConfirmWords(ctx, *w.pending, words); err != nil {
		w.lastErr = err
		return err
	}
	w.log.Debug("Chapter confirmed", zap.Int64("id", *w.pending), zap.Int("words", len(words)))
	w.reset()
	w.state = Confirmed
	return nil
}

// Back abandons provisional chapter and returns to the form.
func (w *Workflow) Back(ctx context.Context) error {
	if w.state != WordSelection {
		return fmt.Errorf("%w: back in %s", ErrWrongState, w.state)
	}
	w.abandon(ctx)
	w.state = FormOpen
	return nil
}

// Close closes the dialog. Provisional chapter, if any, is abandoned.
// Closing while creation request is in flight is not possible - draft id is
// not known yet.
func (w *Workflow) Close(ctx context.Context) error {
	switch w.state {
	case AwaitingExtraction:
		return fmt.Errorf("%w: request in flight", ErrWrongState)
	case FormOpen, WordSelection:
		if w.abandon(ctx) {
			w.state = Abandoned
			return nil
		}
		w.reset()
		w.state = Closed
	}
	return nil
}

// abandon deletes provisional chapter. Deletion is best effort: failure is
// only logged, draft is gone from user perspective either way. Reports if
// there was anything to abandon.
func (w *Workflow) abandon(ctx context.Context) bool {
	id, ok := w.PendingID()
	w.reset()
	if !ok {
		return false
	}
	if err := w.chapters.DeleteChapter(ctx, id); err != nil {
		w.log.Debug("Unable to delete abandoned chapter", zap.Int64("id", id), zap.Error(err))
	}
	return true
}
