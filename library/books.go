package library

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"chapterprep/config"
	"chapterprep/forms"
	"chapterprep/state"
)

// connect makes sure there is a session before talking to the server.
func connect(ctx context.Context) (*state.LocalEnv, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)
	if err := env.Connect(); err != nil {
		return nil, err
	}
	if _, err := env.RequireSession(); err != nil {
		return nil, err
	}
	return env, nil
}

// replaced in tests which have no terminal
var canAsk = func() bool { return config.CanPrompt(os.Stdin) }

// confirmDelete asks user before irreversible deletion unless --yes is given.
// Anything but explicit "y" or "yes" is a refusal.
func confirmDelete(cmd *cli.Command, question string) (bool, error) {
	if cmd.Bool("yes") {
		return true, nil
	}
	if !canAsk() {
		return false, errors.New("standard input is not a terminal, use --yes to delete without confirmation")
	}
	fmt.Fprintf(cmd.Root().Writer, "%s This cannot be undone. [y/N] ", question)
	line, err := bufio.NewReader(cmd.Root().Reader).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("unable to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func argID(cmd *cli.Command, n int, what string) (int64, error) {
	arg := cmd.Args().Get(n)
	if len(arg) == 0 {
		return 0, fmt.Errorf("no %s has been specified", what)
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("bad %s '%s'", what, arg)
	}
	return id, nil
}

func ListBooks(ctx context.Context, cmd *cli.Command) error {
	env, err := connect(ctx)
	if err != nil {
		return err
	}
	books, err := env.API.ListBooks(ctx)
	if err != nil {
		return err
	}
	switch cmd.String("sort") {
	case "title":
		SortBooks(books)
	case "", "none":
	default:
		env.Log.Warn("Unknown sort order, ignoring", zap.String("sort", cmd.String("sort")))
	}
	if format := cmd.String("format"); len(format) > 0 {
		return RenderBooksFormat(cmd.Root().Writer, books, format)
	}
	return RenderBooks(cmd.Root().Writer, books)
}

func AddBook(ctx context.Context, cmd *cli.Command) error {
	env, err := connect(ctx)
	if err != nil {
		return err
	}
	req, err := forms.BookForm{
		Title:    cmd.String("title"),
		Author:   cmd.String("author"),
		Language: cmd.String("language"),
	}.Request()
	if err != nil {
		return err
	}
	book, err := env.API.CreateBook(ctx, req)
	if err != nil {
		return err
	}
	env.Log.Named("books").Info("Book created", zap.Int64("id", book.ID), zap.String("title", book.Title))
	_, err = fmt.Fprintln(cmd.Root().Writer, BookLine(*book))
	return err
}

// ShowBook prints book and its chapters.
func ShowBook(ctx context.Context, cmd *cli.Command) error {
	env, err := connect(ctx)
	if err != nil {
		return err
	}
	id, err := argID(cmd, 0, "book id")
	if err != nil {
		return err
	}
	book, err := env.API.GetBook(ctx, id)
	if err != nil {
		return err
	}
	chapters, err := env.API.ListChapters(ctx)
	if err != nil {
		return err
	}
	out := cmd.Root().Writer
	if _, err := fmt.Fprintf(out, "%s\n\n", BookLine(*book)); err != nil {
		return err
	}
	return NewChapterList(chapters, book.Title).Render(out)
}

func DeleteBook(ctx context.Context, cmd *cli.Command) error {
	env, err := connect(ctx)
	if err != nil {
		return err
	}
	id, err := argID(cmd, 0, "book id")
	if err != nil {
		return err
	}
	book, err := env.API.GetBook(ctx, id)
	if err != nil {
		return err
	}
	log := env.Log.Named("books")
	if ok, err := confirmDelete(cmd, fmt.Sprintf("Delete book '%s' with all its chapters?", book.Title)); err != nil {
		return err
	} else if !ok {
		log.Info("Book kept", zap.Int64("id", id))
		return nil
	}
	if err := env.API.DeleteBook(ctx, id); err != nil {
		return err
	}
	log.Info("Book deleted", zap.Int64("id", id))
	return nil
}
