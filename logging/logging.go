// Package logging provides the shared component loggers for movie-tickets-cli.
//
// Loggers are built on charmbracelet/log and tagged with the component that
// created them:
//
//	log := logging.New("service")
//	log.Debug("fetched catalog", "movies", len(movies))
//
// The level comes from MOVIE_TICKETS_LOG_LEVEL (debug, info, warn, error) and
// defaults to warn. Output goes to stderr until SetOutput redirects it, which
// the CLI does while the terminal UI owns the screen.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// LevelEnv names the environment variable read for the initial level.
const LevelEnv = "MOVIE_TICKETS_LOG_LEVEL"

var (
	mu      sync.Mutex
	output  io.Writer = os.Stderr
	level             = parseLevel(os.Getenv(LevelEnv))
	loggers []*log.Logger
)

// New returns a logger whose entries carry the given component as prefix.
// Every logger returned follows later SetOutput and SetLevel calls.
func New(component string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()

	logger := log.NewWithOptions(output, log.Options{
		Prefix:          component,
		Level:           level,
		ReportTimestamp: true,
	})
	loggers = append(loggers, logger)
	return logger
}

// SetOutput redirects all component loggers to w.
func SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	mu.Lock()
	defer mu.Unlock()

	output = w
	for _, logger := range loggers {
		logger.SetOutput(w)
	}
}

// SetLevel changes the level of all component loggers. Unknown names fall
// back to warn.
func SetLevel(name string) {
	mu.Lock()
	defer mu.Unlock()

	level = parseLevel(name)
	for _, logger := range loggers {
		logger.SetLevel(level)
	}
}

// parseLevel maps a level name to a log.Level. Unknown and empty names
// fall back to warn.
func parseLevel(value string) log.Level {
	level, err := log.ParseLevel(strings.TrimSpace(value))
	if err != nil {
		return log.WarnLevel
	}
	return level
}
