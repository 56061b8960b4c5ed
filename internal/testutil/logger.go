package testutil

import (
	"fmt"
	"sync"
)

// LogEntry is one call recorded by RecordingLogger.
type LogEntry struct {
	Level string
	Msg   string
	Args  []any
}

// RecordingLogger implements seo.Logger and keeps every entry in memory.
type RecordingLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

func (l *RecordingLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Msg: msg, Args: args})
}

func (l *RecordingLogger) Debug(msg string, args ...any) { l.record("DEBUG", msg, args) }
func (l *RecordingLogger) Info(msg string, args ...any)  { l.record("INFO", msg, args) }
func (l *RecordingLogger) Warn(msg string, args ...any)  { l.record("WARN", msg, args) }
func (l *RecordingLogger) Error(msg string, args ...any) { l.record("ERROR", msg, args) }

// Entries returns a copy of the recorded entries.
func (l *RecordingLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LogEntry(nil), l.entries...)
}

// Has reports whether an entry with level and msg was recorded.
func (l *RecordingLogger) Has(level, msg string) bool {
	for _, e := range l.Entries() {
		if e.Level == level && e.Msg == msg {
			return true
		}
	}
	return false
}

func (e LogEntry) String() string {
	return fmt.Sprintf("%s %s %v", e.Level, e.Msg, e.Args)
}
