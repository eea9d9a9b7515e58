package main

import (
	"log/slog"
	"os"

	"iconsplit/extract"
	"iconsplit/parallel"

	"github.com/alecthomas/kong"
)

var cli struct {
	Extract extract.CLICmd `cmd:"" default:"withargs" help:"Split a 1-bpp bitmap icon grid into individual bitmap files"`
	Jobs    int            `help:"Number of parallel icon writers, 0 for one per CPU" default:"1"`
	Verbose bool           `short:"v" help:"Log progress details"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("iconsplit"),
		kong.Description("Finds every icon in a monochrome Windows bitmap grid and writes each one to its own bitmap file."),
		kong.UsageOnError(),
	)

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	pool := parallel.Start(cli.Jobs)
	err := kctx.Run(pool)
	kctx.FatalIfErrorf(err)
}
