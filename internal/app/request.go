package app

import (
	"os"

	"golang.org/x/term"

	"idx-go/internal/seo"
)

// RequestAuto resolves the request kind from the terminal state.
const RequestAuto = "auto"

// ResolveRequestKind maps the --request flag to a request kind. "auto" means
// navigational when a person is at the terminal and REST when idx is scripted.
func ResolveRequestKind(flag string, interactive bool) (seo.RequestKind, error) {
	if flag == "" || flag == RequestAuto {
		if interactive {
			return seo.RequestNavigational, nil
		}
		return seo.RequestREST, nil
	}
	return seo.ParseRequestKind(flag)
}

// StdoutIsTerminal reports whether stdout is attached to a terminal.
func StdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
