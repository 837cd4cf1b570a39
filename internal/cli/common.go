// Package cli implements the one-shot subcommands: catalog search, bookmark
// and recent listings, recent-view pruning and the interactive shell.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// commonFlags are shared by every subcommand that reads books.
type commonFlags struct {
	DatabasePath string
	Offline      bool
	JSON         bool
}

func (f *commonFlags) register(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&f.DatabasePath, "db", cfg.Database.Path, "Path to the local database file")
	fs.BoolVar(&f.Offline, "offline", cfg.Catalog.Offline, "Use the embedded catalog and in-memory stores")
	fs.BoolVar(&f.JSON, "json", false, "Print books as JSON")
}

// apply copies flag overrides into cfg. One-shot commands never start the
// task queue, so it is disabled here.
func (f *commonFlags) apply(cfg *config.Config) {
	cfg.Database.Path = f.DatabasePath
	cfg.Catalog.Offline = f.Offline
	cfg.Tasks.Enabled = false
}

func printBooks(out io.Writer, books []entities.Book, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(books)
	}
	if len(books) == 0 {
		fmt.Fprintln(out, "No books.")
		return nil
	}
	for i, book := range books {
		authors := strings.Join(book.Authors, ", ")
		if authors == "" {
			authors = "(no author)"
		}
		fmt.Fprintf(out, "%d. \"%s\" by %s, %s, %.0f원\n", i+1, book.Title, authors, book.Publisher, book.EffectivePrice())
	}
	return nil
}

// bookLister is the shape shared by the list use cases.
type bookLister interface {
	Execute(ctx context.Context) ([]entities.Book, error)
}
