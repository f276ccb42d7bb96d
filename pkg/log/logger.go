package log

// Logger defines a standard interface for logging.
// This allows decoupling from specific logging libraries.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})

	// WithField returns a logger that tags every line with key=value.
	// Used to attribute output to a pipeline component (touch, gamepad, ...).
	WithField(key string, value interface{}) Logger
}
