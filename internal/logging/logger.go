package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
)

// Logger writes component-tagged lines to a per-session file under
// $XDG_STATE_HOME/moodlog/logs/. A nil *Logger discards everything, so
// components may be constructed without one.
type Logger struct {
	sessionID string
	component string
	out       *output
}

// output is shared by every Logger derived from the same root
type output struct {
	mu        sync.Mutex
	logger    *log.Logger
	file      *os.File
	path      string
	closeOnce sync.Once
}

var (
	sessionID     string
	sessionIDOnce sync.Once
)

func getSessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

// Dir returns the default log directory
func Dir() string {
	return filepath.Join(xdg.StateHome, "moodlog", "logs")
}

// New creates a logger for component writing into Dir().
//
// If the file cannot be opened it returns a stderr logger along with the
// error, so callers can warn and carry on.
func New(component string) (*Logger, error) {
	return NewInDir(Dir(), component)
}

// NewInDir is New with an explicit log directory
func NewInDir(dir, component string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return newFallback(component, fmt.Errorf("create log directory: %w", err)), err
	}

	sessID := getSessionID()
	path := filepath.Join(dir, fmt.Sprintf("%s-moodlog.log", sessID))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return newFallback(component, fmt.Errorf("open log file: %w", err)), err
	}

	return &Logger{
		sessionID: sessID,
		component: component,
		out: &output{
			logger: log.New(file, "", 0),
			file:   file,
			path:   path,
		},
	}, nil
}

func newFallback(component string, err error) *Logger {
	l := &Logger{
		sessionID: getSessionID(),
		component: component,
		out:       &output{logger: log.New(os.Stderr, "", 0)},
	}
	l.Warnf("file logging unavailable, using stderr: %v", err)
	return l
}

// NewWriter logs to w; used by tests and --verbose runs
func NewWriter(w io.Writer, component string) *Logger {
	return &Logger{
		sessionID: getSessionID(),
		component: component,
		out:       &output{logger: log.New(w, "", 0)},
	}
}

// Discard returns a logger that drops every line
func Discard() *Logger {
	return NewWriter(io.Discard, "")
}

// With returns a logger for another component sharing the same output
func (l *Logger) With(component string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{sessionID: l.sessionID, component: component, out: l.out}
}

func (l *Logger) write(level, format string, v ...interface{}) {
	if l == nil || l.out == nil {
		return
	}
	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	l.out.logger.Printf("[%s] [%s] [%s] %s", timestamp, l.component, level, fmt.Sprintf(format, v...))
}

func (l *Logger) Debugf(format string, v ...interface{}) { l.write("DEBUG", format, v...) }
func (l *Logger) Infof(format string, v ...interface{})  { l.write("INFO", format, v...) }
func (l *Logger) Warnf(format string, v ...interface{})  { l.write("WARN", format, v...) }
func (l *Logger) Errorf(format string, v ...interface{}) { l.write("ERROR", format, v...) }

// SessionID returns the id shared by all loggers of this process
func (l *Logger) SessionID() string {
	if l == nil {
		return ""
	}
	return l.sessionID
}

// Path returns the log file path, or "" when not logging to a file
func (l *Logger) Path() string {
	if l == nil || l.out == nil {
		return ""
	}
	return l.out.path
}

// Close closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	if l == nil || l.out == nil {
		return nil
	}
	var err error
	l.out.closeOnce.Do(func() {
		if l.out.file != nil {
			err = l.out.file.Close()
		}
	})
	return err
}
