// Package logging provides file logging for the gitflix CLI.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultLogDir returns the default log directory following XDG Base Directory Spec.
// Uses $XDG_STATE_HOME/gitflix/logs, defaulting to ~/.local/state/gitflix/logs.
func DefaultLogDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "gitflix", "logs")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return filepath.Join(".", "gitflix", "logs")
	}
	return filepath.Join(home, ".local", "state", "gitflix", "logs")
}

// level represents the logging level.
type level int

const (
	levelInfo level = iota
	levelDebug
)

// logFilePrefix is the common prefix every gitflix run log carries,
// regardless of which subcommand wrote it; pruneOldLogs and
// retainedLogCount below only ever touch files matching it, so a
// user's other files in the same directory are left alone.
const logFilePrefix = "gitflix_"

// maxRetainedLogs bounds how many run logs Setup keeps per log
// directory. gitflix encode logs into the same long-lived XDG state
// directory across many repositories, and nothing else ever prunes
// it; Setup does, each time it opens a new log file.
const maxRetainedLogs = 50

// Logger wraps the standard logger with level filtering and file output.
type Logger struct {
	level    level
	logger   *log.Logger
	file     *os.File
	filePath string
}

// Setup creates a new logger that writes to a timestamped log file
// named after the gitflix subcommand being run (cmdArgs[1], if
// present), and prunes the log directory down to maxRetainedLogs
// entries first. Returns nil if logging is disabled (noLog=true).
// cmdArgs should be os.Args, both to name the log file and to record
// the full invocation in its first line.
func Setup(logDir string, verbose, noLog bool, cmdArgs []string) (*Logger, error) {
	if noLog {
		return nil, nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
	}

	// Best effort: a pruning failure should never block the run it
	// would have made room for.
	pruned, _ := pruneOldLogs(logDir, maxRetainedLogs)

	subcommand := "run"
	if len(cmdArgs) > 1 {
		subcommand = cmdArgs[1]
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s%s_%s.log", logFilePrefix, subcommand, timestamp)
	filePath := filepath.Join(logDir, filename)

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file %s: %w", filePath, err)
	}

	level := levelInfo
	if verbose {
		level = levelDebug
	}

	logger := log.New(file, "", 0) // No flags - we add timestamps manually for consistent format

	l := &Logger{
		level:    level,
		logger:   logger,
		file:     file,
		filePath: filePath,
	}

	l.Info("Command: %s", strings.Join(cmdArgs, " "))
	l.Info("GitFlix %s starting", subcommand)
	if verbose {
		l.Info("Debug level logging enabled")
	}
	if pruned > 0 {
		l.Info("Pruned %d old run log(s) from %s", pruned, logDir)
	}
	l.Info("Log file: %s", filePath)

	return l, nil
}

// pruneOldLogs removes the oldest gitflix run logs in dir until at
// most keep-1 remain, making room for the one Setup is about to
// create. Log filenames embed a sortable timestamp
// (YYYYMMDD_HHMMSS), so lexicographic order is chronological order.
func pruneOldLogs(dir string, keep int) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read log directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), logFilePrefix) && strings.HasSuffix(e.Name(), ".log") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	if len(names) < keep {
		return 0, nil
	}

	removed := 0
	for _, name := range names[:len(names)-keep+1] {
		if err := os.Remove(filepath.Join(dir, name)); err == nil {
			removed++
		}
	}
	return removed, nil
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Info logs an info-level message.
func (l *Logger) Info(format string, args ...any) {
	if l == nil {
		return
	}
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	l.logger.Printf("%s [INFO] "+format, append([]any{timestamp}, args...)...)
}

// Debug logs a debug-level message (only if verbose mode is enabled).
func (l *Logger) Debug(format string, args ...any) {
	if l == nil || l.level < levelDebug {
		return
	}
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	l.logger.Printf("%s [DEBUG] "+format, append([]any{timestamp}, args...)...)
}

// Writer returns an io.Writer that writes to the log file.
// Useful for redirecting other loggers or capturing output.
func (l *Logger) Writer() io.Writer {
	if l == nil || l.file == nil {
		return io.Discard
	}
	return l.file
}
