// Package logging wires up hclog the way every other papers-modkit
// component expects to receive it: constructed once in main and passed
// down explicitly, never reached for as a global.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// New creates an hclog.Logger for the named component at the given level.
// If output is nil it defaults to stderr, prefixed with "[papers-modkit] "
// unless JSON output was requested via PAPERSMOD_JSON_LOG=1.
func New(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	jsonFormat := os.Getenv("PAPERSMOD_JSON_LOG") == "1"
	if !jsonFormat {
		output = NewPrefixWriter("[papers-modkit] ", output)
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// Level resolves the active log level from, in order: the explicit CLI
// flag value (if non-empty), PAPERSMOD_LOG_LEVEL, then a "warn" default.
func Level(cliFlag string) string {
	if cliFlag != "" {
		return cliFlag
	}
	if env := os.Getenv("PAPERSMOD_LOG_LEVEL"); env != "" {
		return env
	}
	return "warn"
}
