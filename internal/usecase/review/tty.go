package review

import (
	"os"

	"golang.org/x/term"
)

// IsTTY checks if the given file descriptor is a terminal.
func IsTTY(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// IsOutputTerminal reports whether stdout goes to a user's terminal
// rather than a pipe or a CI log. Used to pick the human log format
// over JSON.
func IsOutputTerminal() bool {
	return IsTTY(os.Stdout.Fd())
}
