package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the rotating log file written inside the log directory.
const FileName = "rtt-forecast.log"

// Options controls where the global logger writes.
type Options struct {
	Verbose bool
	// Dir overrides LOGS_FOLDER and the binary-relative default.
	Dir string
	// Console defaults to os.Stderr; stdout is reserved for the MCP transport.
	Console io.Writer
}

// Init sets up the global logger with a console sink and a rotating file, exiting
// when the log directory cannot be written.
func Init(verbose bool) {
	if err := Setup(Options{Verbose: verbose}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Setup configures the global logger. It fails when the log directory cannot be created or written.
func Setup(opts Options) error {
	// 1. Level
	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	// 2. Console, coloured only on a terminal
	console := opts.Console
	colour := false
	if console == nil {
		console = os.Stderr
		colour = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	}
	consoleWriter := zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339, NoColor: !colour}

	// 3. Rotating file
	dir, err := ResolveDir(opts.Dir)
	if err != nil {
		return err
	}
	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(dir, FileName),
		MaxSize:    16, // megabytes
		MaxBackups: 8,
		MaxAge:     90, // days
		Compress:   true,
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(consoleWriter, fileWriter)).
		With().
		Timestamp().
		Logger()
	return nil
}

// ResolveDir picks the log directory (explicit, LOGS_FOLDER, then <binary>/logs) and
// checks it is writable. Init runs before config.Load, so the binary-relative .env is
// read here for LOGS_FOLDER.
func ResolveDir(dir string) (string, error) {
	exePath, exeErr := os.Executable()
	if dir == "" {
		if exeErr == nil {
			_ = godotenv.Load(filepath.Join(filepath.Dir(exePath), ".env"))
		}
		dir = os.Getenv("LOGS_FOLDER")
	}
	if dir == "" {
		dir = "logs"
		if exeErr == nil {
			dir = filepath.Join(filepath.Dir(exePath), "logs")
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory %q: %w", dir, err)
	}
	probe := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(probe, []byte("test"), 0644); err != nil {
		return "", fmt.Errorf("log directory %q is not writable: %w", dir, err)
	}
	_ = os.Remove(probe)
	return dir, nil
}
