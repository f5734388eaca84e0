package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type Logger interface {
	Info(action, message, requestID string, details map[string]interface{})
	Debug(action, message, requestID string, details map[string]interface{})
	Warn(action, message, requestID string, details map[string]interface{})
	Error(action, message, requestID string, details map[string]interface{}, err error)
}

type jsonLogger struct {
	service  string
	hostname string
	debug    bool
	out      io.Writer
	mu       sync.Mutex
}

// New returns a logger writing one JSON object per line to stdout.
func New(service string, debug bool) Logger {
	return NewWithWriter(service, debug, os.Stdout)
}

func NewWithWriter(service string, debug bool, out io.Writer) Logger {
	hostname, _ := os.Hostname()
	return &jsonLogger{
		service:  service,
		hostname: hostname,
		debug:    debug,
		out:      out,
	}
}

// Discard drops everything. Used by tests.
func Discard() Logger {
	return NewWithWriter("test", false, io.Discard)
}

var (
	defaultMu sync.RWMutex
	defaultL  = New("adisyo", false)
)

// L returns the process-wide logger.
func L() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultL
}

func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultL = l
}

func (l *jsonLogger) Info(action, message, requestID string, details map[string]interface{}) {
	l.log("INFO", action, message, requestID, details, nil)
}

func (l *jsonLogger) Debug(action, message, requestID string, details map[string]interface{}) {
	if !l.debug {
		return
	}
	l.log("DEBUG", action, message, requestID, details, nil)
}

func (l *jsonLogger) Warn(action, message, requestID string, details map[string]interface{}) {
	l.log("WARN", action, message, requestID, details, nil)
}

func (l *jsonLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
	l.log("ERROR", action, message, requestID, details, err)
}

func (l *jsonLogger) log(level, action, message, requestID string, details map[string]interface{}, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Service:   l.service,
		Hostname:  l.hostname,
		RequestID: requestID,
		Action:    action,
		Message:   message,
		Details:   details,
	}

	if err != nil {
		entry.Error = &ErrorInfo{
			Msg:  err.Error(),
			Type: fmt.Sprintf("%T", err),
		}
	}

	_ = json.NewEncoder(l.out).Encode(entry)
}
