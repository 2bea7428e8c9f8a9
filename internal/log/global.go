package log

import "sync"

var (
	defaultLogger *Logger
	loggerMu      sync.RWMutex
)

// SetDefaultLogger sets the process-wide default logger.
func SetDefaultLogger(logger *Logger) {
	loggerMu.Lock()
	defaultLogger = logger
	loggerMu.Unlock()
}

// DefaultLogger returns the process-wide default logger, initializing
// one with standard defaults on first use.
func DefaultLogger() *Logger {
	loggerMu.RLock()
	logger := defaultLogger
	loggerMu.RUnlock()

	if logger == nil {
		logger = Default()
		SetDefaultLogger(logger)
	}
	return logger
}
