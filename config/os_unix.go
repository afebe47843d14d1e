//go:build !windows

package config

import (
	"os"

	"golang.org/x/term"
)

// EnableColorOutput checks if colorized output is possible.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}

// CanPrompt checks if interactive input may be read from the stream.
func CanPrompt(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
