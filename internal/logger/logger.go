package logger

import (
	"strings"
	"sync"
)

// Log levels accepted by the log.level config key.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	processLogger *Logger
	once          sync.Once
)

// Get returns the process-wide logger. Only the first call's level is honoured.
func Get(level string) *Logger {
	once.Do(func() {
		processLogger = New(level)
	})
	return processLogger
}

// New builds a standalone logger writing to stdout at the given level.
func New(level string) *Logger {
	return newZapLogger(normalizeLevel(level))
}

// normalizeLevel lowercases and trims the level, mapping "warning" to "warn".
func normalizeLevel(level string) string {
	l := strings.ToLower(strings.TrimSpace(level))
	if l == "warning" {
		return WarnLevel
	}
	return l
}
