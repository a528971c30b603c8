// Package logger exposes the process-wide structured loggers. Call
// InitLoggers once at startup before using them.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

// InitLoggers wires both loggers to stdout/stderr plus a size-rotated file
// under dir. An empty dir keeps logging console-only.
func InitLoggers(dir string) {
	InfoLogger = newLogger(os.Stdout, dir, "info.log", logrus.InfoLevel)
	ErrorLogger = newLogger(os.Stderr, dir, "error.log", logrus.ErrorLevel)
}

func newLogger(console io.Writer, dir, file string, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	out := console
	if dir != "" {
		rotated := &lumberjack.Logger{
			Filename:   filepath.Join(dir, file),
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		out = io.MultiWriter(console, rotated)
	}
	l.SetOutput(out)
	return l
}
