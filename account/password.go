package account

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	cli "github.com/urfave/cli/v3"
	"golang.org/x/term"

	"chapterprep/config"
)

// readPasswords returns password (and its confirmation when confirm is set).
// With --password-stdin single line is read from standard input and used for
// both, otherwise user is prompted on terminal without echo.
func readPasswords(cmd *cli.Command, confirm bool) (password, confirmation string, err error) {
	root := cmd.Root()
	if cmd.Bool("password-stdin") {
		password, err = readLine(root.Reader)
		return password, password, err
	}

	in, ok := root.Reader.(*os.File)
	if !ok || !config.CanPrompt(in) {
		return "", "", errors.New("standard input is not a terminal, use --password-stdin")
	}
	if password, err = prompt(in, root.ErrWriter, "Password: "); err != nil {
		return "", "", err
	}
	if !confirm {
		return password, password, nil
	}
	if confirmation, err = prompt(in, root.ErrWriter, "Confirm password: "); err != nil {
		return "", "", err
	}
	return password, confirmation, nil
}

func prompt(in *os.File, out io.Writer, what string) (string, error) {
	fmt.Fprint(out, what)
	data, err := term.ReadPassword(int(in.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("unable to read password: %w", err)
	}
	return string(data), nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", fmt.Errorf("unable to read password from standard input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
