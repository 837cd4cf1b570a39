package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
	"github.com/mrlokans/bookshelf/internal/usecases"
)

// ListCommand prints the bookmark list or the recently viewed list.
type ListCommand struct {
	commonFlags

	name        string
	description string
	lister      func(set *usecases.Set) bookLister

	cfg *config.Config
	out io.Writer
}

func NewBookmarksCommand(cfg *config.Config, out io.Writer) *ListCommand {
	return &ListCommand{
		name:        "bookmarks",
		description: "List bookmarked books, newest first.",
		lister:      func(set *usecases.Set) bookLister { return set.FetchBookmarks },
		cfg:         cfg,
		out:         out,
	}
}

func NewRecentsCommand(cfg *config.Config, out io.Writer) *ListCommand {
	return &ListCommand{
		name:        "recents",
		description: "List recently viewed books, most recent first.",
		lister:      func(set *usecases.Set) bookLister { return set.FetchRecentBooks },
		cfg:         cfg,
		out:         out,
	}
}

func (cmd *ListCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	cmd.register(fs, cmd.cfg)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s %s [options]\n\n", os.Args[0], cmd.name)
		fmt.Fprintf(os.Stderr, "%s\n\n", cmd.description)
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%s takes no arguments", cmd.name)
	}
	return nil
}

func (cmd *ListCommand) Run(ctx context.Context) error {
	cmd.apply(cmd.cfg)

	app, err := entrypoint.Build(cmd.cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	books, err := cmd.lister(app.UseCases).Execute(ctx)
	if err != nil {
		return fmt.Errorf("list %s: %w", cmd.name, err)
	}
	return printBooks(cmd.out, books, cmd.JSON)
}
