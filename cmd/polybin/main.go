// Command polybin builds polyglot binary files that are simultaneously
// valid under two or more of: Windows ICO, ISO-BMFF MP4, and ZIP.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/viodoescyber/polybin/internal/polybin"
)

type zipFlags []string

func (z *zipFlags) String() string {
	return fmt.Sprint([]string(*z))
}

func (z *zipFlags) Set(value string) error {
	*z = append(*z, value)
	return nil
}

func main() {
	icoPath := flag.String("ico", "", "Path to an icon file (ICO format)")
	mp4Path := flag.String("mp4", "", "Path to an MP4 file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	var zips zipFlags
	flag.Var(&zips, "zip", "Path to a ZIP-like archive (repeatable)")

	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: polybin <output> [--ico PATH] [--mp4 PATH] [--zip PATH]*")
		flag.PrintDefaults()
	}
	flag.Parse()

	// flag stops at the first non-flag argument; the output path may come
	// before the flags, as in the usage line, so parse what follows it too.
	var positional []string
	for flag.NArg() > 0 {
		positional = append(positional, flag.Arg(0))
		flag.CommandLine.Parse(flag.Args()[1:])
	}

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	args := positional
	if len(args) != 1 {
		flag.Usage()
		os.Exit(1)
	}
	output := args[0]

	slog.Debug("building polyglot artifact",
		"output", output, "ico", *icoPath, "mp4", *mp4Path, "zips", []string(zips))

	if err := polybin.Build(output, *icoPath, *mp4Path, zips); err != nil {
		fmt.Fprintf(os.Stderr, "polybin: %v\n", err)
		os.Exit(1)
	}

	slog.Info("wrote polyglot artifact", "output", output)
}
