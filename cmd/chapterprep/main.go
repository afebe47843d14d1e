package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"chapterprep/account"
	"chapterprep/api"
	"chapterprep/config"
	"chapterprep/library"
	"chapterprep/misc"
	"chapterprep/state"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		// save complete processed configuration if external configuration was provided
		if len(configFile) > 0 {
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData(fmt.Sprintf("config/%s", filepath.Base(configFile)), data)
			}
		}
	}
	if env.Log, env.Console, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))

	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)", zap.String("api", env.Cfg.API.URL))
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if er := env.Disconnect(); er != nil {
		err = multierr.Append(err, fmt.Errorf("unable to close session storage: %w", er))
	}

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	// close logging
	env.RestoreStdLog()

	// log is synced now and result can be used in report if necessary, errors
	// must be reported directly to stderr from now on
	if env.Rpt != nil {
		if er := env.Rpt.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
		}
	}
	// reporting is closed now - remove empty panic file if any
	if env.Cfg != nil && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		debug.SetCrashOutput(nil, debug.CrashOptions{})
		fname := filepath.Join(filepath.Dir(env.Cfg.Logging.FileLogger.Destination), misc.GetAppName()+"-panic.log")
		if fi, er := os.Stat(fname); er == nil && fi.Size() == 0 {
			if er := os.Remove(fname); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, er))
			}
		}
	}
	return
}

// explain adds a hint to errors user can do something about. Session loss
// already tells user to log in again.
func explain(err error) error {
	if errors.Is(err, api.ErrUnreachable) {
		return fmt.Errorf("%w, check api.url in configuration or CHAPTERPREP_API_URL", err)
	}
	return err
}

// Ignore urfave/cli default error handling - for me cli.Exit() looks
// non-transparent and unnesessary. I will return regular errors from
// subcommands.
var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {

	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(explain(err)))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// do nothing special, error is reported either by exitErrHandler or on
	// exit directly to stderr.
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

func passwordStdinFlag() cli.Flag {
	return &cli.BoolFlag{Name: "password-stdin", Usage: "read password from standard input (single line) instead of prompting"}
}

func yesDeleteFlag() cli.Flag {
	return &cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "delete without asking for confirmation"}
}

func main() {

	// allow graceful shutdown on interrupt, in-flight requests are cancelled
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "terminal client of ChapterPrep - turn foreign language texts into vocabulary lists",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:         "register",
				Usage:        "Creates new account",
				OnUsageError: usageErrorHandler,
				Action:       account.Register,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true, Usage: "account `NAME`"},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true, Usage: "email `ADDRESS`"},
					passwordStdinFlag(),
				},
			},
			{
				Name:         "login",
				Usage:        "Logs in and remembers session",
				OnUsageError: usageErrorHandler,
				Action:       account.Login,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true, Usage: "account `NAME`"},
					passwordStdinFlag(),
				},
			},
			{
				Name:         "logout",
				Usage:        "Forgets remembered session",
				OnUsageError: usageErrorHandler,
				Action:       account.Logout,
			},
			{
				Name:         "whoami",
				Usage:        "Shows user of remembered session",
				OnUsageError: usageErrorHandler,
				Action:       account.Whoami,
			},
			{
				Name:  "books",
				Usage: "Manages books",
				Commands: []*cli.Command{
					{
						Name:         "list",
						Usage:        "Lists your books",
						OnUsageError: usageErrorHandler,
						Action:       library.ListBooks,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "sort", Usage: "book order `ORDER` (none, title)"},
							&cli.StringFlag{Name: "format", Usage: "print every book using Go `TEMPLATE` (fields: ID, Title, Author, Language, LanguageName)"},
						},
					},
					{
						Name:         "add",
						Usage:        "Adds a book",
						OnUsageError: usageErrorHandler,
						Action:       library.AddBook,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true, Usage: "book `TITLE`"},
							&cli.StringFlag{Name: "author", Aliases: []string{"a"}, Usage: "book `AUTHOR`"},
							&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Value: config.BookLanguageFr.String(),
								Usage: "book `LANGUAGE` (supported: " + strings.Join(config.BookLanguageNames(), ", ") + ")"},
						},
					},
					{
						Name:         "show",
						Usage:        "Shows book and its chapters",
						OnUsageError: usageErrorHandler,
						Action:       library.ShowBook,
						ArgsUsage:    "BOOK_ID",
					},
					{
						Name:         "delete",
						Usage:        "Deletes book",
						OnUsageError: usageErrorHandler,
						Action:       library.DeleteBook,
						ArgsUsage:    "BOOK_ID",
						Flags:        []cli.Flag{yesDeleteFlag()},
					},
				},
			},
			{
				Name:  "chapters",
				Usage: "Manages chapters of a book",
				Commands: []*cli.Command{
					{
						Name:         "list",
						Usage:        "Lists chapters of the book",
						OnUsageError: usageErrorHandler,
						Action:       library.ListChapters,
						ArgsUsage:    "BOOK_ID",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "format", Usage: "print every chapter using Go `TEMPLATE` (fields: Index, ID, Number, Book, TargetLanguage, Level, Mode, ModeLabel)"},
						},
					},
					{
						Name:         "add",
						Usage:        "Adds chapter to the book, server suggests words to learn",
						OnUsageError: usageErrorHandler,
						Action:       library.AddChapter,
						ArgsUsage:    "BOOK_ID",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "number", Aliases: []string{"n"}, Usage: "chapter `NUMBER`"},
							&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Usage: "`LANGUAGE` of translations or definitions"},
							&cli.StringFlag{Name: "level", Usage: "`LEVEL` of the reader (" + strings.Join(config.LevelNames(), ", ") + "), default from configuration"},
							&cli.StringFlag{Name: "mode", Usage: "translation `MODE` (" + strings.Join(config.TranslationModeNames(), ", ") + "), default from configuration"},
							&cli.IntFlag{Name: "words", Aliases: []string{"w"}, Usage: "`NUMBER` of words to extract, recommended value is used when absent"},
							&cli.StringFlag{Name: "text", Required: true, Usage: "chapter text `FILE`, \"-\" for standard input"},
							&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "accept all suggested words without asking"},
						},
						CustomHelpTemplate: fmt.Sprintf(`%s
Chapter is created in two steps. Server extracts words from the text first,
then you select which of them to keep. Until selection is confirmed chapter is
provisional - it is discarded if you go back to the form or close the dialog.
`, cli.CommandHelpTemplate),
					},
					{
						Name:         "delete",
						Usage:        "Deletes chapter",
						OnUsageError: usageErrorHandler,
						Action:       library.DeleteChapter,
						ArgsUsage:    "BOOK_ID CHAPTER_ID",
						Flags:        []cli.Flag{yesDeleteFlag()},
					},
				},
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values wich is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			// It may happen that log is either not set yet (argument parsing) or already closed,
			// report errors to stderr directly
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", explain(err))
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}

	if cmd.Bool("default") {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputing configuration", zap.String("state", state), zap.String("file", fname))

	_, err = out.Write(data)
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
