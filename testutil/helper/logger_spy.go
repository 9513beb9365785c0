package helper

import (
	"strings"
	"sync"
)

// LogLevel identifies the level a spy entry was recorded at.
type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

// LogEntry is one captured log call.
type LogEntry struct {
	Level LogLevel
	Msg   string
	Args  []any
}

// LoggerSpy captures log calls for testing. It satisfies the dependency-free
// Logger interfaces declared across the packages of this module.
type LoggerSpy struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewLoggerSpy creates a new LoggerSpy.
func NewLoggerSpy() *LoggerSpy {
	return &LoggerSpy{entries: make([]LogEntry, 0)}
}

func (s *LoggerSpy) Debug(msg string, args ...any) {
	s.record(LogLevelDebug, msg, args)
}

func (s *LoggerSpy) Info(msg string, args ...any) {
	s.record(LogLevelInfo, msg, args)
}

func (s *LoggerSpy) Warn(msg string, args ...any) {
	s.record(LogLevelWarn, msg, args)
}

func (s *LoggerSpy) Error(msg string, args ...any) {
	s.record(LogLevelError, msg, args)
}

func (s *LoggerSpy) record(level LogLevel, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, LogEntry{Level: level, Msg: msg, Args: args})
}

// Entries returns a copy of all captured log entries.
func (s *LoggerSpy) Entries() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]LogEntry, len(s.entries))
	copy(entries, s.entries)

	return entries
}

// EntryCount returns the number of captured log entries.
func (s *LoggerSpy) EntryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// Reset clears all captured log entries.
func (s *LoggerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = s.entries[:0]
}

// HasEntryContaining checks if an entry at the given level contains the
// given message fragment.
func (s *LoggerSpy) HasEntryContaining(level LogLevel, fragment string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.entries {
		if entry.Level == level && strings.Contains(entry.Msg, fragment) {
			return true
		}
	}

	return false
}
