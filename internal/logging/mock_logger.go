package logging

import "sync"

// RecordingLogger captures log calls for assertions in tests.
type RecordingLogger struct {
	mu      sync.Mutex
	level   LogLevel
	Entries []LogEntry
}

type LogEntry struct {
	Level   string
	Message string
	Fields  []any
}

func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{level: LogLevelDebug}
}

func (l *RecordingLogger) record(level, msg string, keysAndValues []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, LogEntry{Level: level, Message: msg, Fields: keysAndValues})
}

func (l *RecordingLogger) Debug(msg string, keysAndValues ...any) {
	l.record("DEBUG", msg, keysAndValues)
}

func (l *RecordingLogger) Info(msg string, keysAndValues ...any) {
	l.record("INFO", msg, keysAndValues)
}

func (l *RecordingLogger) Warn(msg string, keysAndValues ...any) {
	l.record("WARN", msg, keysAndValues)
}

func (l *RecordingLogger) Error(msg string, keysAndValues ...any) {
	l.record("ERROR", msg, keysAndValues)
}

func (l *RecordingLogger) SetLevel(level LogLevel) {
	l.level = level
}

// MessagesAt returns the messages recorded at the given level, in order.
func (l *RecordingLogger) MessagesAt(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var msgs []string
	for _, e := range l.Entries {
		if e.Level == level {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}
