package core

// Logger defines the interface for logging operations
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, err error, keysAndValues ...interface{})
}

// NopLogger discards everything. Useful as a default and in tests.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{})        {}
func (NopLogger) Info(string, ...interface{})         {}
func (NopLogger) Warn(string, ...interface{})         {}
func (NopLogger) Error(string, error, ...interface{}) {}
