// Package main is the entry point for the glideshow server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/glideshow/internal/app"
	"github.com/dshills/glideshow/internal/config"
	"github.com/dshills/glideshow/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, logLevel := parseFlags()

	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(logLevel),
		Prefix: "glideshow",
	})
	opts.Logger = logger

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() (app.Options, string) {
	var opts app.Options
	var showVersion bool
	var showHelp bool
	var writeConfig string
	var logLevel string

	var host string
	var port int
	var speed float64
	var recursive, shuffle, repeat, paused bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&host, "host", "", "Listen address")
	flag.IntVar(&port, "port", 0, "Listen port")
	flag.IntVar(&port, "p", 0, "Listen port (shorthand)")
	flag.Float64Var(&speed, "speed", 0, "Seconds between auto-advances")
	flag.Float64Var(&speed, "s", 0, "Seconds between auto-advances (shorthand)")
	flag.BoolVar(&recursive, "recursive", false, "Scan directories recursively")
	flag.BoolVar(&recursive, "r", false, "Scan directories recursively (shorthand)")
	flag.BoolVar(&shuffle, "shuffle", false, "Start sessions shuffled")
	flag.BoolVar(&repeat, "repeat", false, "Wrap around at the ends of the list")
	flag.BoolVar(&paused, "paused", false, "Start sessions paused")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&writeConfig, "write-config", "", "Write the default configuration to a file and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Glideshow - multi-client slideshow control server\n\n")
		fmt.Fprintf(os.Stderr, "Usage: glideshow [options] <paths...>\n\n")
		fmt.Fprintf(os.Stderr, "Paths may be directories, image files, or @files listing one path per line.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  glideshow ./photos              Serve a directory\n")
		fmt.Fprintf(os.Stderr, "  glideshow -r -s 5 ./photos     Recursive scan, 5s per image\n")
		fmt.Fprintf(os.Stderr, "  glideshow @playlist.txt         Serve paths listed in a file\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Glideshow %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if writeConfig != "" {
		if err := config.WriteDefaultConfig(writeConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote default configuration to %s\n", writeConfig)
		os.Exit(0)
	}

	switch logLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", logLevel)
		os.Exit(1)
	}

	// Only flags the user actually set become configuration overrides,
	// so flag defaults never shadow file settings.
	overrides := map[string]any{}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			overrides["web.host"] = host
		case "port", "p":
			overrides["web.port"] = port
		case "speed", "s":
			overrides["slideshow.speed"] = speed
		case "recursive", "r":
			overrides["images.recursive"] = recursive
		case "shuffle":
			overrides["slideshow.shuffle"] = shuffle
		case "repeat":
			overrides["slideshow.repeat"] = repeat
		case "paused":
			overrides["slideshow.paused_on_start"] = paused
		}
	})
	opts.Overrides = overrides

	opts.Paths = flag.Args()
	if len(opts.Paths) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no paths given")
		flag.Usage()
		os.Exit(1)
	}

	return opts, logLevel
}
