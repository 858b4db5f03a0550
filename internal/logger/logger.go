// Package logger configures the shared structured logger.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logger configured for the given environment. Production
// emits JSON at info level; everything else is human-readable debug output.
func New(production bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	if production {
		l.SetFormatter(&logrus.JSONFormatter{})
		l.SetLevel(logrus.InfoLevel)
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// WithComponent tags every entry with the emitting component.
func WithComponent(l *logrus.Logger, component string) *logrus.Entry {
	return l.WithField("component", component)
}
