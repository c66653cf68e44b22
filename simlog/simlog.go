// Package simlog wraps logrus the way Orange-ke-TemperatureFieldCalculation_Go's
// solver loop does: a package logger with structured fields for rank,
// block, and iteration, used by the outer driver to report progress and by
// the fatal-error path (spec 7) just before the process aborts.
package simlog

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// SetLevel adjusts verbosity (e.g. "debug" during development).
func SetLevel(level logrus.Level) { log.SetLevel(level) }

// Fields is a shorthand alias for logrus.Fields.
type Fields = logrus.Fields

// Iteration logs one nonlinear-iteration progress line.
func Iteration(rank, iter int, l2 float64) {
	log.WithFields(Fields{"rank": rank, "iter": iter, "residualL2": l2}).Info("iteration complete")
}

// Fatal logs err with the given structured context and terminates the
// process with exit code 1, matching spec 6's "non-zero on any
// NonphysicalState, IOFailure, DomainDecompMismatch, or UnknownBC".
func Fatal(err error, fields Fields) {
	log.WithFields(fields).WithError(err).Error("fatal error, aborting")
	os.Exit(1)
}

// Warn logs a recoverable condition, e.g. ConvergenceDivergence (spec 7:
// "reported at top-level; simulation may continue").
func Warn(err error, fields Fields) {
	log.WithFields(fields).WithError(err).Warn("recoverable condition")
}

// Debugf logs a free-form debug-level message.
func Debugf(format string, args ...interface{}) { log.Debugf(format, args...) }
