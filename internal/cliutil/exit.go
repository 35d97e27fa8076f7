package cliutil

import (
	"fmt"
	"io"

	"github.com/nonibytes/contactrank/contactrank"
)

// Exit codes shared by every command.
const (
	ExitOK        = 0
	ExitError     = 1
	ExitUsage     = 2
	ExitNoMatches = 3
)

// NoEntriesMessage is printed when a search finds nothing.
const NoEntriesMessage = "no entries found"

// Fail reports err on w and returns the matching exit code.
func Fail(w io.Writer, err error) int {
	switch {
	case contactrank.IsKind(err, contactrank.ErrNoMatches):
		fmt.Fprintln(w, NoEntriesMessage)
		return ExitNoMatches
	case contactrank.IsKind(err, contactrank.ErrConfig):
		fmt.Fprintln(w, err)
		return ExitUsage
	default:
		fmt.Fprintln(w, err)
		return ExitError
	}
}
