// Package ccerrors implements the front end's diagnostic surface: a fatal
// compile error that exits the process, a non-fatal warning, and a
// fuzzy-matched "did you mean" suggestion for misspelled keywords/identifiers.
package ccerrors

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pkg/errors"

	"github.com/sameerakhatoon/ccfront/pkgs/token"
)

// Logger is the package-level structured logger. Setting CCFRONT_DEBUG
// enables debug-level diagnostics.
var Logger = newLogger()

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("CCFRONT_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// CompileError is a positioned, fatal-by-default diagnostic.
type CompileError struct {
	Pos     token.Position
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("Error: %s on %s", e.Message, e.Pos)
}

// Fatalf formats a positioned fatal error, logs it, and terminates the
// process with exit status 1; the front end has no recovery path once a
// compile error is raised.
func Fatalf(pos token.Position, format string, args ...interface{}) {
	ce := &CompileError{Pos: pos, Message: fmt.Sprintf(format, args...)}
	Logger.Error(ce.Message, "line", pos.Line, "column", pos.Column, "file", pos.File)
	fmt.Fprintln(os.Stderr, ce.Error())
	os.Exit(1)
}

// warningsAreErrors escalates every Warnf to Fatalf (--warn-as-error).
var warningsAreErrors bool

// SetWarningsAreErrors toggles warning escalation for the process.
func SetWarningsAreErrors(on bool) { warningsAreErrors = on }

// Warnf formats a positioned warning. Warnings never terminate the process
// unless SetWarningsAreErrors escalated them.
func Warnf(pos token.Position, format string, args ...interface{}) {
	if warningsAreErrors {
		Fatalf(pos, format, args...)
	}
	msg := fmt.Sprintf(format, args...)
	Logger.Warn(msg, "line", pos.Line, "column", pos.Column, "file", pos.File)
	fmt.Fprintf(os.Stderr, "Warning: %s on %s\n", msg, pos)
}

// Wrap attaches message context to an underlying I/O or system error using
// github.com/pkg/errors, preserving a stack trace for non-positioned
// failures such as a missing input file.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Suggest returns the closest match to name among candidates by Levenshtein
// distance, or "" if none is within three edits; further than that a
// suggestion is more confusing than helpful.
func Suggest(name string, candidates []string) string {
	best := ""
	bestDist := 4
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
