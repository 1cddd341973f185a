package logging

import "sync"

// LogEntry is one record captured by MockLogger. Level is upper case ("WARN").
type LogEntry struct {
	Level   string
	Message string
	Fields  []Field
	Error   error
}

type journal struct {
	mu      sync.Mutex
	entries []LogEntry
}

// MockLogger records entries in memory. Derived loggers write to the same journal.
type MockLogger struct {
	j      *journal
	err    error
	fields []Field
}

// NewMockLogger returns a MockLogger with an empty journal.
func NewMockLogger() *MockLogger {
	return &MockLogger{j: &journal{}}
}

func (m *MockLogger) sink() *journal {
	if m.j == nil {
		m.j = &journal{}
	}
	return m.j
}

func joinFields(a, b []Field) []Field {
	out := make([]Field, 0, len(a)+len(b))
	return append(append(out, a...), b...)
}

func (m *MockLogger) add(level, msg string, fields []Field) {
	j := m.sink()
	j.mu.Lock()
	j.entries = append(j.entries, LogEntry{Level: level, Message: msg, Fields: joinFields(m.fields, fields), Error: m.err})
	j.mu.Unlock()
}

func (m *MockLogger) Debug(msg string, fields ...Field) { m.add("DEBUG", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...Field)  { m.add("INFO", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...Field)  { m.add("WARN", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...Field) { m.add("ERROR", msg, fields) }

func (m *MockLogger) WithError(err error) Logger {
	return &MockLogger{j: m.sink(), err: err, fields: m.fields}
}

func (m *MockLogger) WithField(key string, value interface{}) Logger {
	return m.WithFields(F(key, value))
}

func (m *MockLogger) WithFields(fields ...Field) Logger {
	return &MockLogger{j: m.sink(), err: m.err, fields: joinFields(m.fields, fields)}
}

// GetEntries returns a snapshot of the journal.
func (m *MockLogger) GetEntries() []LogEntry {
	j := m.sink()
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]LogEntry(nil), j.entries...)
}

func (m *MockLogger) filter(keep func(LogEntry) bool) []LogEntry {
	var out []LogEntry
	for _, e := range m.GetEntries() {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// GetEntriesByLevel returns the entries recorded at level.
func (m *MockLogger) GetEntriesByLevel(level string) []LogEntry {
	return m.filter(func(e LogEntry) bool { return e.Level == level })
}

// HasEntry reports whether msg was logged at level.
func (m *MockLogger) HasEntry(level, msg string) bool {
	return len(m.filter(func(e LogEntry) bool { return e.Level == level && e.Message == msg })) > 0
}

// Clear empties the journal shared with derived loggers.
func (m *MockLogger) Clear() {
	j := m.sink()
	j.mu.Lock()
	j.entries = nil
	j.mu.Unlock()
}
