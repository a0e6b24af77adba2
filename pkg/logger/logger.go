package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger оборачивает logrus и сохраняет API вида Info(msg, key, value, ...)
type Logger struct {
	entry *logrus.Entry
}

func New(level string) *Logger {
	return NewWithOptions(level, "text", os.Stdout)
}

// NewWithOptions создает logger с заданным форматом ("text" или "json") и выводом
func NewWithOptions(level, format string, out io.Writer) *Logger {
	base := logrus.New()
	base.SetOutput(out)
	base.SetLevel(parseLevel(level))

	if format == "json" {
		base.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05Z07:00"})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return &Logger{entry: logrus.NewEntry(base)}
}

func parseLevel(level string) logrus.Level {
	switch level {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// With возвращает logger с постоянными полями
func (l *Logger) With(args ...interface{}) *Logger {
	return &Logger{entry: l.entry.WithFields(fields(args))}
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.entry.WithFields(fields(args)).Debug(msg)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.entry.WithFields(fields(args)).Info(msg)
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.entry.WithFields(fields(args)).Warn(msg)
}

func (l *Logger) Error(msg string, err error, args ...interface{}) {
	entry := l.entry.WithFields(fields(args))
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(msg)
}

func fields(args []interface{}) logrus.Fields {
	result := make(logrus.Fields, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		result[fmt.Sprint(args[i])] = args[i+1]
	}
	if len(args)%2 == 1 {
		result["extra"] = args[len(args)-1]
	}
	return result
}
