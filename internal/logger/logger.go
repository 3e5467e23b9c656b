package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

func init() {
	Logger = logrus.New()
	Logger.SetOutput(os.Stdout)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	Logger.SetLevel(logrus.InfoLevel)

	// LOG_LEVEL=debug wins over the default until configuration is loaded
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		_ = SetLevel(level)
	}
}

// SetLevel parses a level name (case-insensitive) and applies it to Logger.
// On parse failure the current level is kept and the error is returned.
func SetLevel(level string) error {
	parsed, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return err
	}
	Logger.SetLevel(parsed)
	return nil
}

// WithComponent adds a component field to the logger
func WithComponent(component string) *logrus.Entry {
	return Logger.WithField("component", component)
}

// WithNote tags an entry with both the component and the note id it concerns.
func WithNote(component, id string) *logrus.Entry {
	return Logger.WithFields(logrus.Fields{
		"component": component,
		"note_id":   id,
	})
}
