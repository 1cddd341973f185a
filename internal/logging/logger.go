// Package logging provides a logging abstraction layer that decouples the import engine
// from a specific logging framework, so components can be tested with a mock logger.
package logging

// Logger is the structured logger every component receives through its constructor.
// Derived loggers (WithError, WithField, WithFields) carry their fields into every entry.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	WithError(err error) Logger
	WithField(key string, value interface{}) Logger
	WithFields(fields ...Field) Logger
}

// Field is one structured key/value pair.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}
