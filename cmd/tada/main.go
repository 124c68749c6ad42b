package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/Makepad-fr/tada/internal/cli"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Root flags (apply to every subcommand)
	fs := flag.NewFlagSet("tada", flag.ContinueOnError)
	fs.Usage = func() { cli.PrintHelp(os.Stderr) }
	groupPending := fs.Bool("group", false, "group output by pending/done")
	plain := fs.Bool("plain", false, "no colour, ASCII symbols")

	cfg, err := config.Load(fs, os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "tada:", err)
		return 2
	}

	logger, closer, err := logging.New(cfg.LogOptions(), os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tada:", err)
		return 1
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fd := os.Stdout.Fd()
	interactive := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	// Hand the remaining args to the CLI runner.
	code := cli.Run(ctx, fs.Args(), cli.Options{
		Config:      cfg,
		Logger:      logger,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Group:       *groupPending,
		Plain:       *plain,
		Interactive: interactive,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	return code
}
