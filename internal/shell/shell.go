// Package shell is an interactive terminal front end for one screen session.
// It renders screen state and forwards commands as actions; all behavior
// lives in the screens package.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/logger"
	"github.com/mrlokans/bookshelf/internal/screens"
)

const (
	prompt = "bookshelf> "

	defaultSettleTimeout = 15 * time.Second
)

// listing is the list the user last saw; open <n> indexes into it.
type listing int

const (
	listingNone listing = iota
	listingResults
	listingRecent
	listingBookmarks
)

type Shell struct {
	session       *screens.Session
	out           io.Writer
	historyPath   string
	settleTimeout time.Duration

	shown listing
}

type Options struct {
	// HistoryPath is where input history is persisted. Empty disables it.
	HistoryPath   string
	SettleTimeout time.Duration
}

func New(session *screens.Session, out io.Writer, opts Options) *Shell {
	timeout := opts.SettleTimeout
	if timeout <= 0 {
		timeout = defaultSettleTimeout
	}
	return &Shell{
		session:       session,
		out:           out,
		historyPath:   opts.HistoryPath,
		settleTimeout: timeout,
	}
}

// Run reads commands until quit, EOF, Ctrl-C or ctx cancellation.
func (s *Shell) Run(ctx context.Context) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(completions)
	s.loadHistory(line)
	defer s.saveHistory(line)

	fmt.Fprintln(s.out, "Bookshelf shell. Type 'help' for commands.")
	if err := s.settle(ctx, s.session.Search()); err == nil {
		s.renderRecent(s.session.Search().State())
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		input, err := line.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		quit, err := s.Execute(ctx, input)
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// Execute runs one command line and renders the resulting screen.
func (s *Shell) Execute(ctx context.Context, input string) (quit bool, err error) {
	cmd, err := parseCommand(input)
	if err != nil {
		return false, err
	}
	logger.For(ctx).WithField("command", cmd.name).Debug("shell command")

	switch cmd.name {
	case cmdQuit:
		return true, nil
	case cmdHelp:
		fmt.Fprintln(s.out, helpText)
		return false, nil

	case cmdSearch:
		s.session.SubmitSearch(cmd.query)
		return false, s.showSearch(ctx)

	case cmdMore:
		s.session.Search().Dispatch(screens.LoadMore{})
		return false, s.showSearch(ctx)

	case cmdRecent:
		s.session.ActivateSearch()
		search := s.session.Search()
		if err := s.settle(ctx, search); err != nil {
			return false, err
		}
		s.renderRecent(search.State())
		return false, nil

	case cmdOpen:
		book, err := s.pick(cmd.index)
		if err != nil {
			return false, err
		}
		detail := s.session.OpenDetail(book)
		if err := s.settle(ctx, detail); err != nil {
			return false, err
		}
		s.renderDetail(detail.State())
		return false, nil

	case cmdToggle:
		detail, err := s.session.Detail()
		if err != nil {
			return false, err
		}
		detail.Dispatch(screens.ToggleBookmark{})
		if err := s.settle(ctx, detail); err != nil {
			return false, err
		}
		s.renderDetail(detail.State())
		return false, nil

	case cmdBookmarks:
		s.session.ActivateBookmarks()
		return false, s.showBookmarks(ctx)

	case cmdDelete:
		bookmarks := s.session.Bookmarks().State().Bookmarks
		if cmd.index >= len(bookmarks) {
			return false, fmt.Errorf("%w: %d", ErrInvalidIndex, cmd.index+1)
		}
		s.session.Bookmarks().Dispatch(screens.DeleteBookmark{Book: bookmarks[cmd.index]})
		return false, s.showBookmarks(ctx)

	case cmdClear:
		s.session.Bookmarks().Dispatch(screens.ClearBookmarks{})
		return false, s.showBookmarks(ctx)
	}
	return false, nil
}

// showSearch follows the search screen until it settles, announcing the
// request once a loading snapshot comes through, then renders the result.
func (s *Shell) showSearch(ctx context.Context) error {
	search := s.session.Search()
	updates, stop := search.Subscribe()
	defer stop()

	done := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, s.settleTimeout)
		defer cancel()
		done <- s.session.SettleSearch(ctx)
	}()

	announced := false
	for {
		select {
		case state, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			if state.IsLoading && !announced {
				fmt.Fprintln(s.out, "Searching...")
				announced = true
			}
		case err := <-done:
			if err != nil {
				return err
			}
			s.renderSearch(search.State())
			return nil
		}
	}
}

func (s *Shell) showBookmarks(ctx context.Context) error {
	bookmarks := s.session.Bookmarks()
	if err := s.settle(ctx, bookmarks); err != nil {
		return err
	}
	s.renderBookmarks(bookmarks.State())
	return nil
}

// pick resolves an index against the list shown last.
func (s *Shell) pick(i int) (entities.Book, error) {
	var books []entities.Book
	switch s.shown {
	case listingResults:
		books = s.session.Search().State().SearchResults
	case listingRecent:
		books = s.session.Search().State().RecentBooks
	case listingBookmarks:
		books = s.session.Bookmarks().State().Bookmarks
	default:
		return entities.Book{}, fmt.Errorf("%w: nothing listed yet", ErrInvalidIndex)
	}
	if i >= len(books) {
		return entities.Book{}, fmt.Errorf("%w: %d", ErrInvalidIndex, i+1)
	}
	return books[i], nil
}

type settler interface {
	Settle(ctx context.Context) error
}

func (s *Shell) settle(ctx context.Context, target settler) error {
	ctx, cancel := context.WithTimeout(ctx, s.settleTimeout)
	defer cancel()
	return target.Settle(ctx)
}

func (s *Shell) loadHistory(line *liner.State) {
	if s.historyPath == "" {
		return
	}
	f, err := os.Open(s.historyPath)
	if err != nil {
		return
	}
	defer f.Close()
	if _, err := line.ReadHistory(f); err != nil {
		logger.For(context.Background()).WithError(err).Debug("could not read shell history")
	}
}

func (s *Shell) saveHistory(line *liner.State) {
	if s.historyPath == "" {
		return
	}
	f, err := os.Create(s.historyPath)
	if err != nil {
		logger.For(context.Background()).WithError(err).Warn("could not write shell history")
		return
	}
	defer f.Close()
	if _, err := line.WriteHistory(f); err != nil {
		logger.For(context.Background()).WithError(err).Warn("could not write shell history")
	}
}
