package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
)

const historyFile = ".bookshelf_history"

// ShellCommand starts the interactive terminal shell.
type ShellCommand struct {
	DatabasePath string
	Offline      bool
	HistoryPath  string

	cfg *config.Config
}

func NewShellCommand(cfg *config.Config) *ShellCommand {
	return &ShellCommand{cfg: cfg}
}

func (cmd *ShellCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("shell", flag.ContinueOnError)
	fs.StringVar(&cmd.DatabasePath, "db", cmd.cfg.Database.Path, "Path to the local database file")
	fs.BoolVar(&cmd.Offline, "offline", cmd.cfg.Catalog.Offline, "Use the embedded catalog and in-memory stores")
	fs.StringVar(&cmd.HistoryPath, "history", defaultHistoryPath(), "Shell history file (empty disables history)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s shell [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Browse the catalog, bookmarks and recent views interactively.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ShellCommand) Run() error {
	cmd.cfg.Database.Path = cmd.DatabasePath
	cmd.cfg.Catalog.Offline = cmd.Offline
	return entrypoint.RunShell(cmd.cfg, cmd.HistoryPath)
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}
