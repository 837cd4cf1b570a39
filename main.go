package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/mrlokans/bookshelf/internal/cli"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
	"github.com/mrlokans/bookshelf/internal/logger"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	config.LoadEnvFiles(".env", ".env.local")
	cfg := config.NewConfig()
	logger.SetLevel(cfg.Log.Level)

	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		if err := entrypoint.Run(cfg, Version); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch command {
	case "shell":
		cmd := cli.NewShellCommand(cfg)
		if err = cmd.ParseFlags(args); err == nil {
			err = cmd.Run()
		}

	case "search":
		cmd := cli.NewSearchCommand(cfg, os.Stdout)
		if err = cmd.ParseFlags(args); err == nil {
			err = cmd.Run(ctx)
		}

	case "bookmarks":
		cmd := cli.NewBookmarksCommand(cfg, os.Stdout)
		if err = cmd.ParseFlags(args); err == nil {
			err = cmd.Run(ctx)
		}

	case "recents":
		cmd := cli.NewRecentsCommand(cfg, os.Stdout)
		if err = cmd.ParseFlags(args); err == nil {
			err = cmd.Run(ctx)
		}

	case "prune":
		cmd := cli.NewPruneCommand(cfg, os.Stdout)
		if err = cmd.ParseFlags(args); err == nil {
			err = cmd.Run(ctx)
		}

	case "version":
		fmt.Printf("bookshelf %s (%s)\n", Version, Commit)

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve               Start the HTTP API (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  shell               Browse books interactively in the terminal\n")
	fmt.Fprintf(os.Stderr, "  search <q> [page]   Search the catalog by title\n")
	fmt.Fprintf(os.Stderr, "  bookmarks           List bookmarked books\n")
	fmt.Fprintf(os.Stderr, "  recents             List recently viewed books\n")
	fmt.Fprintf(os.Stderr, "  prune               Remove old recently viewed entries\n")
	fmt.Fprintf(os.Stderr, "  version             Print version information\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
