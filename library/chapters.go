package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"chapterprep/api"
	"chapterprep/config"
	"chapterprep/dialog"
	"chapterprep/draft"
	"chapterprep/forms"
	"chapterprep/state"
)

// chaptersOf loads book and its chapter list.
func chaptersOf(ctx context.Context, env *state.LocalEnv, bookID int64) (*api.Book, *ChapterList, error) {
	book, err := env.API.GetBook(ctx, bookID)
	if err != nil {
		return nil, nil, err
	}
	chapters, err := env.API.ListChapters(ctx)
	if err != nil {
		return nil, nil, err
	}
	return book, NewChapterList(chapters, book.Title), nil
}

func ListChapters(ctx context.Context, cmd *cli.Command) error {
	env, err := connect(ctx)
	if err != nil {
		return err
	}
	bookID, err := argID(cmd, 0, "book id")
	if err != nil {
		return err
	}
	_, list, err := chaptersOf(ctx, env, bookID)
	if err != nil {
		return err
	}
	if format := cmd.String("format"); len(format) > 0 {
		return list.RenderFormat(cmd.Root().Writer, format)
	}
	return list.Render(cmd.Root().Writer)
}

// DeleteChapter removes chapter after user agrees and prints what is left of
// the book.
func DeleteChapter(ctx context.Context, cmd *cli.Command) error {
	env, err := connect(ctx)
	if err != nil {
		return err
	}
	bookID, err := argID(cmd, 0, "book id")
	if err != nil {
		return err
	}
	chapterID, err := argID(cmd, 1, "chapter id")
	if err != nil {
		return err
	}
	book, list, err := chaptersOf(ctx, env, bookID)
	if err != nil {
		return err
	}
	card, ok := list.Find(chapterID)
	if !ok {
		return fmt.Errorf("chapter %d does not belong to book '%s'", chapterID, book.Title)
	}
	log := env.Log.Named("chapters")
	if ok, err := confirmDelete(cmd, fmt.Sprintf("Delete chapter %d of '%s'?", card.Chapter.ChapterNumber, book.Title)); err != nil {
		return err
	} else if !ok {
		log.Info("Chapter kept", zap.Int64("id", chapterID))
		return nil
	}
	if err := env.API.DeleteChapter(ctx, chapterID); err != nil {
		return err
	}
	list.Remove(chapterID)
	log.Info("Chapter deleted", zap.Int64("id", chapterID), zap.Int("number", card.Chapter.ChapterNumber))
	return list.Render(cmd.Root().Writer)
}

func readText(cmd *cli.Command) (string, error) {
	src := cmd.String("text")
	switch src {
	case "":
		return "", errors.New("no chapter text has been specified")
	case "-":
		data, err := io.ReadAll(cmd.Root().Reader)
		if err != nil {
			return "", fmt.Errorf("unable to read chapter text from standard input: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("unable to read chapter text: %w", err)
	}
	return string(data), nil
}

// replaced in tests which have no terminal
var (
	canPrompt = func() bool { return config.CanPrompt(os.Stdout) }
	runDialog = func(ctx context.Context, wf *draft.Workflow, form forms.ChapterForm) (dialog.Result, error) {
		return dialog.Run(ctx, wf, form)
	}
)

// AddChapter creates chapter of the book. Interactively user reviews words
// server suggests, otherwise all suggested words are accepted.
func AddChapter(ctx context.Context, cmd *cli.Command) error {
	env, err := connect(ctx)
	if err != nil {
		return err
	}
	log := env.Log.Named("chapters")

	bookID, err := argID(cmd, 0, "book id")
	if err != nil {
		return err
	}
	text, err := readText(cmd)
	if err != nil {
		return err
	}
	book, err := env.API.GetBook(ctx, bookID)
	if err != nil {
		return err
	}

	form := forms.ChapterForm{
		BookTitle:       book.Title,
		ChapterNumber:   int(cmd.Int("number")),
		TargetLanguage:  cmd.String("language"),
		Level:           cmd.String("level"),
		TranslationMode: cmd.String("mode"),
		Text:            text,
		WordsToExtract:  int(cmd.Int("words")),
	}
	if len(form.Level) == 0 {
		form.Level = env.Cfg.Chapters.Level.String()
	}
	if len(form.TranslationMode) == 0 {
		form.TranslationMode = env.Cfg.Chapters.TranslationMode.String()
	}

	wf := draft.New(env.API, log)
	interactive := env.Cfg.Chapters.Interactive && !cmd.Bool("yes")

	var res dialog.Result
	if interactive {
		if !canPrompt() {
			return errors.New("standard output is not a terminal, use --yes to accept all suggested words")
		}
		env.Console.Mute()
		res, err = runDialog(ctx, wf, form)
		env.Console.Unmute()
	} else {
		res, err = AcceptAll(ctx, wf, form)
	}
	if err != nil {
		return err
	}
	if !res.Confirmed {
		log.Info("Chapter discarded")
		return nil
	}
	log.Info("Chapter added", zap.Int64("id", res.ChapterID), zap.Int("words", res.Words))

	_, list, err := chaptersOf(ctx, env, bookID)
	if err != nil {
		return err
	}
	return list.Render(cmd.Root().Writer)
}

// AcceptAll runs chapter workflow without user: every suggested word is kept.
// If chapter could not be confirmed it is discarded.
func AcceptAll(ctx context.Context, wf *draft.Workflow, form forms.ChapterForm) (dialog.Result, error) {
	if err := wf.Open(); err != nil {
		return dialog.Result{}, err
	}
	if err := wf.Submit(ctx, form); err != nil {
		return dialog.Result{}, multierr.Append(err, wf.Close(ctx))
	}
	id, _ := wf.PendingID()
	words := len(wf.Selected())
	if err := wf.Confirm(ctx); err != nil {
		if errors.Is(err, draft.ErrNoWordsSelected) {
			err = errors.New("server returned no words, chapter discarded")
		}
		return dialog.Result{}, multierr.Append(err, wf.Close(context.WithoutCancel(ctx)))
	}
	return dialog.Result{Confirmed: true, ChapterID: id, Words: words}, nil
}
