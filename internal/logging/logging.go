// Package logging configures the process-wide logrus logger: a
// timestamped log file under the configured directory plus optional
// console output.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger and returns the log file
// path. The file gets the full formatted output; console output can be
// disabled for non-interactive runs.
func Setup(logDir, level string, console bool) (string, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return "", fmt.Errorf("create log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "verve_"+time.Now().Format("20060102_150405")+".log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("open log file: %w", err)
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if console {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	} else {
		log.SetOutput(f)
	}

	log.Infof("Logging initialized. Log file: %s", logPath)
	return logPath, nil
}
