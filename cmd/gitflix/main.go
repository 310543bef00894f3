// Package main provides the CLI entry point for GitFlix.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/five82/gitflix/internal/chain"
	"github.com/five82/gitflix/internal/config"
	"github.com/five82/gitflix/internal/discovery"
	"github.com/five82/gitflix/internal/frame"
	"github.com/five82/gitflix/internal/framesource"
	"github.com/five82/gitflix/internal/logging"
	"github.com/five82/gitflix/internal/objectstore"
	"github.com/five82/gitflix/internal/pipeline"
	"github.com/five82/gitflix/internal/presenter"
	"github.com/five82/gitflix/internal/reporter"
	"github.com/five82/gitflix/internal/util"
)

const (
	appName    = "gitflix"
	appVersion = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "encode":
		err = runEncode(os.Args[2:])
	case "play":
		err = runPlay(os.Args[2:])
	case "inspect":
		err = runInspect(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("%s version %s\n", appName, appVersion)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - store video as a chain of git commits

Usage:
  %s <command> [options]

Commands:
  encode    Encode a directory of raw frames into a chain
  play      Play back a chain to the terminal
  inspect   Report a repository's frame count, RAW/DELTA mix, and payload size
  version   Print version information
  help      Show this help message

Run '%s encode --help' for a command's options.
`, appName, appName, appName)
}

func contextWithSignals() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}

func runEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Encode a directory of raw frames into a GitFlix chain.

Usage:
  %s encode [options] <frames-dir> <repo-path>

Options:
`, appName)
		fs.PrintDefaults()
	}

	width := fs.Uint("width", uint(config.DefaultFrameWidth), "frame width")
	height := fs.Uint("height", uint(config.DefaultFrameHeight), "frame height")
	channels := fs.Uint("channels", uint(config.DefaultFrameChannels), "frame channels")
	cacheSize := fs.Int("blob-cache", config.DefaultBlobCacheSize, "blob cache capacity")
	queueSize := fs.Int("frame-queue", config.DefaultFrameQueueSize, "inter-stage frame queue depth")
	verbose := fs.Bool("verbose", false, "enable verbose logging")
	logDir := fs.String("log-dir", "", "directory for the run log (default: XDG state dir)")
	noLog := fs.Bool("no-log", false, "disable file logging")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("encode requires exactly two arguments: <frames-dir> <repo-path>")
	}
	framesDir, repoPath := fs.Arg(0), fs.Arg(1)

	dir := *logDir
	if dir == "" {
		dir = logging.DefaultLogDir()
	}
	logger, err := logging.Setup(dir, *verbose, *noLog, os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to set up logging: %v\n", err)
	} else if logger != nil {
		defer logger.Close()
	}

	dims := frame.Dimensions{Width: uint32(*width), Height: uint32(*height), Channels: uint32(*channels)}

	cfg := config.NewConfig()
	cfg.FrameWidth, cfg.FrameHeight, cfg.FrameChannels = dims.Width, dims.Height, dims.Channels
	cfg.BlobCacheSize = *cacheSize
	cfg.FrameQueueSize = *queueSize
	cfg.Verbose = *verbose
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	termRep := reporter.NewTerminalReporterVerbose(*verbose)
	var rep reporter.Reporter = termRep
	if logger != nil {
		rep = reporter.NewCompositeReporter(termRep, reporter.NewLogReporter(logger.Writer()))
	}

	src, err := framesource.NewDirectoryFrameSource(framesDir, dims)
	if err != nil {
		return err
	}

	repoParent := filepath.Dir(repoPath)
	if _, statErr := os.Stat(repoPath); os.IsNotExist(statErr) {
		if err := util.EnsureDirectoryWritable(repoParent); err != nil {
			return fmt.Errorf("cannot create repository at %s: %w", repoPath, err)
		}
	}
	util.CheckDiskSpace(repoParent, func(format string, args ...any) {
		rep.Warning(fmt.Sprintf(format, args...))
	})

	session, err := objectstore.Open(repoPath, cfg.BlobCacheSize)
	if err != nil {
		return err
	}
	defer session.Close()

	ctx, cancel := contextWithSignals()
	defer cancel()

	_, err = pipeline.EncodePipeline(ctx, cfg, session, src, rep)
	return err
}

func runPlay(args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Play back a GitFlix chain to the terminal.

Usage:
  %s play [options] <repo-path>

Options:
`, appName)
		fs.PrintDefaults()
	}

	width := fs.Uint("width", uint(config.DefaultFrameWidth), "frame width")
	height := fs.Uint("height", uint(config.DefaultFrameHeight), "frame height")
	channels := fs.Uint("channels", uint(config.DefaultFrameChannels), "frame channels")
	fps := fs.Uint("fps", uint(config.DefaultTargetFPS), "playback frame rate")
	cacheSize := fs.Int("blob-cache", config.DefaultBlobCacheSize, "blob cache capacity")
	queueSize := fs.Int("frame-queue", config.DefaultFrameQueueSize, "inter-stage frame queue depth")
	columns := fs.Int("columns", 80, "terminal render width in characters")
	rows := fs.Int("rows", 24, "terminal render height in characters")
	unpaced := fs.Bool("unpaced", false, "disable frame-rate pacing")
	verbose := fs.Bool("verbose", false, "enable verbose logging")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("play requires exactly one argument: <repo-path>")
	}
	repoPath := fs.Arg(0)

	cfg := config.NewConfig()
	cfg.FrameWidth, cfg.FrameHeight, cfg.FrameChannels = uint32(*width), uint32(*height), uint32(*channels)
	cfg.TargetFPS = uint32(*fps)
	cfg.BlobCacheSize = *cacheSize
	cfg.FrameQueueSize = *queueSize
	cfg.PresentPaced = !*unpaced
	cfg.Verbose = *verbose
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	dims := frame.Dimensions{Width: cfg.FrameWidth, Height: cfg.FrameHeight, Channels: cfg.FrameChannels}

	session, err := objectstore.Open(repoPath, cfg.BlobCacheSize)
	if err != nil {
		return err
	}
	defer session.Close()

	rep := reporter.NewTerminalReporterVerbose(*verbose)
	pres := presenter.NewTerminalPresenter(*columns, *rows)

	ctx, cancel := contextWithSignals()
	defer cancel()

	_, err = pipeline.DecodePipeline(ctx, cfg, session, dims, pres, rep)
	return err
}

func runInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Report a GitFlix repository's frame count, RAW/DELTA mix, and total
payload bytes, without decoding any frame's pixel data.

Usage:
  %s inspect [options] <repo-path>

Options:
`, appName)
		fs.PrintDefaults()
	}

	width := fs.Uint("width", uint(config.DefaultFrameWidth), "frame width")
	height := fs.Uint("height", uint(config.DefaultFrameHeight), "frame height")
	channels := fs.Uint("channels", uint(config.DefaultFrameChannels), "frame channels")
	cacheSize := fs.Int("blob-cache", config.DefaultBlobCacheSize, "blob cache capacity")
	list := fs.Bool("list", false, "list GitFlix repositories under <repo-path> instead of inspecting one")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("inspect requires exactly one argument: <repo-path>")
	}
	repoPath := fs.Arg(0)

	if *list {
		return listRepositories(repoPath)
	}

	dims := frame.Dimensions{Width: uint32(*width), Height: uint32(*height), Channels: uint32(*channels)}

	session, err := objectstore.Open(repoPath, *cacheSize)
	if err != nil {
		return err
	}
	defer session.Close()

	stats, err := chain.Inspect(session, dims)
	if err != nil {
		return err
	}

	fmt.Printf("Repository:  %s\n", repoPath)
	fmt.Printf("Frames:      %d (%d raw, %d delta)\n", stats.FrameCount, stats.RawFrames, stats.DeltaFrames)
	fmt.Printf("Payload:     %s\n", util.FormatBytes(stats.TotalBytes))
	return nil
}

// listRepositories implements inspect --list: a plain directory
// listing of entries that look like GitFlix repositories, for finding
// a <repo-path> to pass to a plain inspect call.
func listRepositories(root string) error {
	repos, err := discovery.FindRepositories(root)
	if err != nil {
		return err
	}
	if len(repos) == 0 {
		fmt.Println("No GitFlix repositories found.")
		return nil
	}
	for _, r := range repos {
		fmt.Println(r)
	}
	return nil
}
