package logger

// Fields carries structured context attached to a single log event.
type Fields map[string]interface{}

// Logger provides structured logging with a component tag.
type Logger interface {
	Debug(component, message string, fields Fields)
	Info(component, message string, fields Fields)
	Warning(component, message string, fields Fields)
	Error(component string, err error, fields Fields)
}
