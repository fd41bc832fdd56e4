// Package oplog writes the operational log of Cloud-Pulse.
//
// The log is line oriented; one entry per line, with tab separated columns of time, level, scope, and message.
package oplog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Level is the severity of an entry.
type Level int8

const (
	LevelInfo Level = iota
	LevelAlert
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelAlert:
		return "ALERT"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Entry is a line in the operational log.
type Entry struct {
	Time    time.Time
	Level   Level
	Scope   string
	Message string
}

func escapeMessage(s string) string {
	for _, x := range []struct {
		From string
		To   string
	}{
		{`\`, `\\`},
		{"\t", `\t`},
		{"\n", `\n`},
		{"\r", `\r`},
	} {
		s = strings.ReplaceAll(s, x.From, x.To)
	}
	return s
}

func (e Entry) columns() []string {
	return []string{
		e.Time.Format(time.RFC3339),
		e.Level.String(),
		escapeMessage(e.Scope),
		escapeMessage(e.Message),
	}
}

// String makes a log line without the trailing newline.
func (e Entry) String() string {
	return strings.Join(e.columns(), "\t")
}

// Logger writes entries to a console stream.
// It is safe for concurrent use.
type Logger struct {
	sync.Mutex

	w io.Writer

	// Now is the clock for entries. It is replaceable for testing.
	Now func() time.Time

	colors map[Level]*color.Color
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// New makes a Logger.
// The level column is colored only if w is a terminal.
func New(w io.Writer) *Logger {
	l := &Logger{
		w:   w,
		Now: time.Now,
		colors: map[Level]*color.Color{
			LevelInfo:  color.New(color.FgGreen),
			LevelAlert: color.New(color.FgYellow, color.Bold),
			LevelError: color.New(color.FgRed, color.Bold),
		},
	}
	l.SetColor(IsTerminal(w))
	return l
}

// Discard makes a Logger that writes nothing.
func Discard() *Logger {
	return New(io.Discard)
}

// SetColor enables or disables coloring of the level column.
func (l *Logger) SetColor(enable bool) {
	for _, c := range l.colors {
		if enable {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// Print writes an entry.
// A zero Time is replaced by the current time.
func (l *Logger) Print(e Entry) error {
	if e.Time.IsZero() {
		e.Time = l.Now()
	}

	cols := e.columns()
	if c, ok := l.colors[e.Level]; ok {
		cols[1] = c.Sprint(cols[1])
	}

	l.Lock()
	defer l.Unlock()

	_, err := io.WriteString(l.w, strings.Join(cols, "\t")+"\n")
	return err
}

func (l *Logger) printf(level Level, scope, format string, args []interface{}) {
	_ = l.Print(Entry{
		Level:   level,
		Scope:   scope,
		Message: fmt.Sprintf(format, args...),
	})
}

// Info writes a routine entry.
func (l *Logger) Info(scope, format string, args ...interface{}) {
	l.printf(LevelInfo, scope, format, args)
}

// Alert writes a status change notification.
func (l *Logger) Alert(scope, format string, args ...interface{}) {
	l.printf(LevelAlert, scope, format, args)
}

// Error writes an internal error.
func (l *Logger) Error(scope, format string, args ...interface{}) {
	l.printf(LevelError, scope, format, args)
}
