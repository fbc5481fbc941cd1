package diag

import (
	"log"
	"os"
)

// Level is the verbosity gate for pass-internal debug logging, mirroring
// the --verbose flag on the teacher's cmd/dwscript driver.
type Level int

const (
	LevelSilent Level = iota
	LevelInfo
	LevelDebug
)

// Logger is a thin leveled wrapper over the standard library logger; no
// pack repo carries a structured logging library, so this matches the
// one logging shape actually observed in the corpus (see DESIGN.md).
type Logger struct {
	level Level
	std   *log.Logger
}

func NewLogger(level Level) *Logger {
	return &Logger{level: level, std: log.New(os.Stderr, "", 0)}
}

func (l *Logger) Infof(format string, args ...any) {
	if l.level >= LevelInfo {
		l.std.Printf("[info] "+format, args...)
	}
}

func (l *Logger) Debugf(format string, args ...any) {
	if l.level >= LevelDebug {
		l.std.Printf("[debug] "+format, args...)
	}
}
