package utils

import (
	"os"
	"strings"

	logger "github.com/sirupsen/logrus"
)

// SetupLogger configures the global logrus logger from LOG_LEVEL and LOG_FORMAT.
func SetupLogger() {
	ConfigureLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// ConfigureLogger falls back to debug level and the text formatter.
func ConfigureLogger(levelStr, format string) {
	level, err := logger.ParseLevel(strings.ToLower(strings.TrimSpace(levelStr)))
	if err != nil {
		level = logger.DebugLevel
	}
	logger.SetLevel(level)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		logger.SetFormatter(&logger.JSONFormatter{})
	default:
		logger.SetFormatter(&logger.TextFormatter{
			FullTimestamp: true,
		})
	}
}
