package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
)

// SearchCommand runs one catalog search and prints a page of results.
type SearchCommand struct {
	Query string
	Page  int
	commonFlags

	cfg *config.Config
	out io.Writer
}

func NewSearchCommand(cfg *config.Config, out io.Writer) *SearchCommand {
	return &SearchCommand{cfg: cfg, out: out, Page: 1}
}

func (cmd *SearchCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	cmd.register(fs, cmd.cfg)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s search [options] <query> [page]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Search the book catalog by title.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s search 사피엔스\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s search -offline \"clean code\" 2\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("query is required")
	}
	// A trailing number is the page; everything before it is the query.
	if len(rest) > 1 {
		if page, err := strconv.Atoi(rest[len(rest)-1]); err == nil {
			if page < 1 {
				return fmt.Errorf("page must be at least 1, got %d", page)
			}
			cmd.Page = page
			rest = rest[:len(rest)-1]
		}
	}
	cmd.Query = strings.TrimSpace(strings.Join(rest, " "))
	if cmd.Query == "" {
		return fmt.Errorf("query is required")
	}
	return nil
}

func (cmd *SearchCommand) Run(ctx context.Context) error {
	cmd.apply(cmd.cfg)

	app, err := entrypoint.Build(cmd.cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.UseCases.SearchBook.Execute(ctx, cmd.Query, cmd.Page)
	if err != nil {
		return fmt.Errorf("search %q: %w", cmd.Query, err)
	}

	if !cmd.JSON {
		fmt.Fprintf(cmd.out, "Results for %q, page %d:\n", cmd.Query, cmd.Page)
	}
	if err := printBooks(cmd.out, result.Books, cmd.JSON); err != nil {
		return err
	}
	if !cmd.JSON && !result.IsEnd {
		fmt.Fprintf(cmd.out, "\nMore results on page %d.\n", cmd.Page+1)
	}
	return nil
}
