package utils

import (
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// init sets the defaults used until Configure runs.
func init() {
	//set log formatter to JSON with ISO 8601 timestamps
	log.SetFormatter(&log.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})

	// The CLI prints results on stdout, logs go to stderr
	log.SetOutput(os.Stderr)

	log.SetLevel(log.WarnLevel)
}

// Configure applies the level and format from config. Unknown levels keep the current one.
func Configure(level, format string, out io.Writer) {
	if out != nil {
		log.SetOutput(out)
	}

	if lvl, err := log.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	} else if level != "" {
		log.WithField("level", level).Warn("unknown log level, keeping default")
	}

	if strings.EqualFold(format, "text") {
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
		})
	}
}

// Debug logs a message at debug level with optional fields
func Debug(message string, fields map[string]any) {
	log.WithFields(fields).Debug(message)
}

// Info logs a message at info level with optional fields
func Info(message string, fields map[string]any) {
	log.WithFields(fields).Info(message)
}

// Warn logs a message at warning level with optional fields
func Warn(message string, fields map[string]any) {
	log.WithFields(fields).Warn(message)
}

// Error logs a message at error level with optional fields
func Error(message string, fields map[string]any) {
	log.WithFields(fields).Error(message)
}

// Fatal logs a message at fatal level and exits the application
func Fatal(message string, fields map[string]any) {
	log.WithFields(fields).Fatal(message)
}
