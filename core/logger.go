package core

// Logger is any service that can log messages and report errors.
//
// Error/Fatal accept optional args: an error, a map[string]interface{} of
// extra context and/or the current user.
type Logger interface {
	Enable(enabled bool)
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
