package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrMissingArgument = errors.New("missing argument")
	ErrInvalidIndex    = errors.New("invalid index")
)

type commandName string

const (
	cmdSearch    commandName = "search"
	cmdMore      commandName = "more"
	cmdOpen      commandName = "open"
	cmdToggle    commandName = "toggle"
	cmdBookmarks commandName = "bookmarks"
	cmdDelete    commandName = "delete"
	cmdClear     commandName = "clear"
	cmdRecent    commandName = "recent"
	cmdHelp      commandName = "help"
	cmdQuit      commandName = "quit"
)

var aliases = map[string]commandName{
	"s":    cmdSearch,
	"m":    cmdMore,
	"o":    cmdOpen,
	"t":    cmdToggle,
	"b":    cmdBookmarks,
	"d":    cmdDelete,
	"r":    cmdRecent,
	"?":    cmdHelp,
	"q":    cmdQuit,
	"exit": cmdQuit,
}

type command struct {
	name  commandName
	query string // search text, may be empty to clear results
	index int    // zero-based position for open and delete
}

const helpText = `Commands:
  search <query>   search the catalog by title (empty query clears results)
  more             load the next page of results
  open <n>         open book n from the last list shown
  toggle           bookmark or unbookmark the open book
  bookmarks        show bookmarks
  delete <n>       delete bookmark n
  clear            delete every bookmark
  recent           show recently viewed books
  help             show this help
  quit             leave the shell`

// parseCommand turns one input line into a command. Indices are 1-based on
// input and 0-based in the result.
func parseCommand(line string) (command, error) {
	line = strings.TrimSpace(line)
	word, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	name := commandName(strings.ToLower(word))
	if alias, ok := aliases[string(name)]; ok {
		name = alias
	}

	switch name {
	case cmdSearch:
		return command{name: name, query: rest}, nil
	case cmdOpen, cmdDelete:
		if rest == "" {
			return command{}, fmt.Errorf("%w: %s <n>", ErrMissingArgument, name)
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			return command{}, fmt.Errorf("%w: %q", ErrInvalidIndex, rest)
		}
		return command{name: name, index: n - 1}, nil
	case cmdMore, cmdToggle, cmdBookmarks, cmdClear, cmdRecent, cmdHelp, cmdQuit:
		return command{name: name}, nil
	}
	return command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, word)
}

// completions lists command names starting with prefix.
func completions(prefix string) []string {
	var out []string
	for _, name := range []commandName{cmdSearch, cmdMore, cmdOpen, cmdToggle, cmdBookmarks, cmdDelete, cmdClear, cmdRecent, cmdHelp, cmdQuit} {
		if strings.HasPrefix(string(name), strings.ToLower(prefix)) {
			out = append(out, string(name)+" ")
		}
	}
	return out
}
