package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Output is discarded until InitDebugLog
// enables it, so call sites never need a nil check.
var Log = newDiscardLogger()

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.InfoLevel)
	return l
}

func CheckDebug() bool {
	debug := os.Getenv("NOTEBOOK_AGENT_DEBUG")
	return debug == "true" || debug == "1"
}

// InitDebugLog routes Log to <dataDir>/debug.log at debug level when force
// is set or NOTEBOOK_AGENT_DEBUG is enabled. The returned closer must be
// called on exit.
func InitDebugLog(dataDir string, force bool) (io.Closer, error) {
	if !force && !CheckDebug() {
		return io.NopCloser(nil), nil
	}

	logPath := filepath.Join(dataDir, "debug.log")
	// 0600: the log may contain prompt and document excerpts
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("could not open debug log at %s: %w", logPath, err)
	}

	Log.SetOutput(f)
	Log.SetLevel(logrus.DebugLevel)
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	Log.WithField("path", logPath).Debug("debug logging started")
	return f, nil
}
