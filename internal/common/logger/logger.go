// Package logger wraps logrus with the action-oriented call shape used
// across the service: every entry carries a service name and an action.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	entry *logrus.Entry
}

func New(service string) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "timestamp",
			logrus.FieldKeyMsg:  "action",
		},
	})
	return &Logger{entry: l.WithField("service", service)}
}

// SetLevel applies a textual level; unknown values fall back to info.
func (l *Logger) SetLevel(level string) {
	parsed, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.entry.Logger.SetLevel(parsed)
}

func (l *Logger) Info(action string, fields map[string]any) {
	l.entry.WithFields(logrus.Fields(fields)).Info(action)
}

func (l *Logger) Debug(action string, fields map[string]any) {
	l.entry.WithFields(logrus.Fields(fields)).Debug(action)
}

func (l *Logger) Error(action string, err error, fields map[string]any) {
	e := l.entry.WithFields(logrus.Fields(fields))
	if err != nil {
		e = e.WithError(err)
	}
	e.Error(action)
}
