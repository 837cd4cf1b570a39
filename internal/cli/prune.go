package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
)

var errPruneOffline = errors.New("prune needs the local database; offline mode keeps recents in memory")

// PruneCommand runs the recent-view retention job once, or empties the
// recent list with -all.
type PruneCommand struct {
	DatabasePath string
	MaxAge       time.Duration
	All          bool

	cfg *config.Config
	out io.Writer
}

func NewPruneCommand(cfg *config.Config, out io.Writer) *PruneCommand {
	return &PruneCommand{cfg: cfg, out: out}
}

func (cmd *PruneCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("prune", flag.ContinueOnError)
	fs.StringVar(&cmd.DatabasePath, "db", cmd.cfg.Database.Path, "Path to the local database file")
	fs.DurationVar(&cmd.MaxAge, "max-age", cmd.cfg.Recents.MaxAge, "Remove recent views older than this")
	fs.BoolVar(&cmd.All, "all", false, "Remove every recent view")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s prune [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Remove old entries from the recently viewed list.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("prune takes no arguments")
	}
	if !cmd.All && cmd.MaxAge <= 0 {
		return fmt.Errorf("max age must be positive, got %s", cmd.MaxAge)
	}
	return nil
}

func (cmd *PruneCommand) Run(ctx context.Context) error {
	if cmd.cfg.Catalog.Offline {
		return errPruneOffline
	}
	cmd.cfg.Database.Path = cmd.DatabasePath
	cmd.cfg.Recents.MaxAge = cmd.MaxAge
	cmd.cfg.Tasks.Enabled = false

	app, err := entrypoint.Build(cmd.cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	store := app.Recents
	before, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count recent views: %w", err)
	}

	if cmd.All {
		err = store.Clear(ctx)
	} else {
		err = app.Pruner().RunNow(ctx)
	}
	if err != nil {
		return fmt.Errorf("prune recent views: %w", err)
	}

	after, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count recent views: %w", err)
	}
	fmt.Fprintf(cmd.out, "Removed %d recent views, %d remain (limit %d).\n", before-after, after, store.Limit())
	return nil
}
