// Package logger builds the shared logrus logger.
package logger

import (
	"github.com/sirupsen/logrus"
)

// New creates a configured logger. Unknown levels fall back to info; format
// "json" switches to the JSON formatter for production log shippers.
func New(level, format string) *logrus.Logger {
	log := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log
}
