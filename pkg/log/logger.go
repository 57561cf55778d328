package log

import "strings"

type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	SilentLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	case SilentLevel:
		return "silent"
	}
	return "unknown"
}

// ParseLevel resolves a level name, anything unrecognised falls back to warn.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "error":
		return ErrorLevel
	case "silent":
		return SilentLevel
	default:
		return WarnLevel
	}
}

// Logger gates the package level log funcs behind its own level, so
// verbosity travels with whoever owns the Logger instead of process state.
type Logger struct {
	level Level
}

func New(level Level) Logger {
	return Logger{level: level}
}

func (l Logger) Level() Level { return l.level }

func (l Logger) Enabled(level Level) bool {
	return l.level != SilentLevel && level >= l.level
}

func (l Logger) Debug(format string, a ...interface{}) {
	if l.Enabled(DebugLevel) {
		Debug(format, a...)
	}
}

func (l Logger) Info(format string, a ...interface{}) {
	if l.Enabled(InfoLevel) {
		Info(format, a...)
	}
}

func (l Logger) Warn(format string, a ...interface{}) {
	if l.Enabled(WarnLevel) {
		Warn(format, a...)
	}
}

func (l Logger) Error(format string, a ...interface{}) {
	if l.Enabled(ErrorLevel) {
		Error(format, a...)
	}
}
