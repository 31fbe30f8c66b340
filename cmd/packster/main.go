// Packster collects the packages installed on a Linux machine and
// renders a migration bundle for setting up an equivalent macOS
// environment with Homebrew.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/quay/zlog"
	"github.com/rs/zerolog"
)

type commonConfig struct {
	Registry string
}

type subcmd func(context.Context, *commonConfig, []string) error

func main() {
	var exit int
	defer func() {
		if exit != 0 {
			os.Exit(exit)
		}
	}()
	ctx, done := context.WithCancel(context.Background())
	defer done()
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		<-ch
		done()
	}()

	var cfg commonConfig
	fs := flag.NewFlagSet("packster", flag.ExitOnError)
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "Usage of %s:\n", os.Args[0])
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nSubcommands\n\n")
		fmt.Fprintln(out, "generate")
		fmt.Fprintln(out, "\tcollect installed packages and write the migration bundle")
		fmt.Fprintln(out, "doctor")
		fmt.Fprintln(out, "\treport on the environment and exit")
		fmt.Fprintln(out, "stats")
		fmt.Fprintln(out, "\tsummarize a previously written report.json")
		fmt.Fprintln(out)
	}
	fs.StringVar(&cfg.Registry, "registry", "", "path to a mapping registry file (empty for heuristics only)")
	quiet := fs.Bool("q", false, "only log warnings and errors")
	debug := fs.Bool("D", false, "print debug logging")
	fs.Parse(os.Args[1:])

	level := zerolog.InfoLevel
	switch {
	case *debug:
		level = zerolog.DebugLevel
	case *quiet:
		level = zerolog.WarnLevel
	}
	l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
	zlog.Set(&l)

	var cmd subcmd
	switch n := fs.Arg(0); n {
	case "generate":
		cmd = Generate
	case "doctor":
		cmd = Doctor
	case "stats":
		cmd = Stats
	case "":
		fs.Usage()
		exit = 99
		return
	default:
		fs.Usage()
		fmt.Fprintf(os.Stderr, "\nunknown subcommand %q\n", n)
		exit = 99
		return
	}

	if err := cmd(ctx, &cfg, fs.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exit = 2
	}
}
