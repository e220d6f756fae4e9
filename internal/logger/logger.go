package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/muesli/termenv"
)

// LogFilePath is the default log file, relative to the working directory (project root when run via go run ./cmd/editor).
const LogFilePath = "logs/editor.txt"

// Level orders log entries by severity.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Entry is one stored log line.
type Entry struct {
	Level Level
	Text  string // stamped line, e.g. "[2006-01-02 15:04:05] INFO group created: Group1"
}

// Logger stores diagnostics in memory (for the console panel), appends them to a file on disk
// and echoes them to stderr coloured by level. Safe for use from parser goroutines.
type Logger struct {
	mu      sync.Mutex
	path    string
	entries []Entry
	out     *termenv.Output
	echo    bool
}

// New returns a Logger writing to path. An empty path keeps entries in memory only and
// disables the stderr echo, which is what tests want.
func New(path string) *Logger {
	l := &Logger{path: path}
	if path != "" {
		_ = os.MkdirAll(filepath.Dir(path), 0755)
		l.out = termenv.NewOutput(os.Stderr)
		l.echo = true
	}
	return l
}

// Info logs a routine notice (selection, import done, group created).
func (l *Logger) Info(format string, args ...any) { l.log(LevelInfo, format, args...) }

// Warn logs a recoverable problem such as an unsupported file or a failed parse.
func (l *Logger) Warn(format string, args ...any) { l.log(LevelWarn, format, args...) }

// Error logs a failure the user should look at.
func (l *Logger) Error(format string, args ...any) { l.log(LevelError, format, args...) }

// Log appends a plain info line. Used by the console to echo typed input.
func (l *Logger) Log(line string) { l.log(LevelInfo, "%s", line) }

func (l *Logger) log(level Level, format string, args ...any) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	stamped := "[" + ts + "] " + level.String() + " " + fmt.Sprintf(format, args...)

	l.mu.Lock()
	l.entries = append(l.entries, Entry{Level: level, Text: stamped})
	path, echo, out := l.path, l.echo, l.out
	l.mu.Unlock()

	if echo {
		_, _ = fmt.Fprintln(out, out.String(stamped).Foreground(levelColor(level)))
	}
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	_, _ = f.WriteString(stamped + "\n")
	_ = f.Close()
}

func levelColor(level Level) termenv.Color {
	switch level {
	case LevelWarn:
		return termenv.ANSIYellow
	case LevelError:
		return termenv.ANSIRed
	default:
		return termenv.ANSIBlue
	}
}

// Lines returns a copy of all stored lines.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Text
	}
	return out
}

// Entries returns a copy of all stored entries with their levels.
func (l *Logger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}
