package core

// Logger is implemented by the logging services (console, Rollbar).
// args may contain a user.Identity to attach the acting user to the entry.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
