package jxc

import (
	"sync"

	"go.uber.org/zap"
)

// Version is the package version string, reported for debug purposes only.
const Version = "0.1.0"

// InvalidIdx marks an absent byte offset on a Token or Element span.
const InvalidIdx = -1

type jxcOptions struct {
	mu    sync.RWMutex
	debug bool
}

var options = jxcOptions{}

var (
	loggerOnce sync.Once
	logger     *zap.SugaredLogger
	noopLogger *zap.SugaredLogger
)

func initLoggers() {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stdout"}
	l, err := cfg.Build()
	if err != nil {
		// Fall back to a logger that writes directly, never fail package init.
		l = zap.NewExample()
	}
	logger = l.Sugar().Named("jxc")
	noopLogger = zap.NewNop().Sugar()
}

// SetDebug toggles debug tracing: the value constructor's start-of-load
// trace and the Value accessors' wrong-type messages. The lexer and
// element parser do not log. Disabled by default, matching the teacher's
// zero-logging-unless-asked behavior.
func SetDebug(b bool) {
	options.mu.Lock()
	options.debug = b
	options.mu.Unlock()
}

func debugEnabled() bool {
	options.mu.RLock()
	defer options.mu.RUnlock()
	return options.debug
}

// activeLogger returns the shared debug logger, or a no-op sink when
// debug tracing is disabled.
func activeLogger() *zap.SugaredLogger {
	loggerOnce.Do(initLoggers)
	if debugEnabled() {
		return logger
	}
	return noopLogger
}

func logf(format string, args ...any) {
	activeLogger().Debugf(format, args...)
}

// Logf logs a debug-level trace message tagged with the given sender
// (e.g. "lexer", "elemparser", "construct"), mirroring the teacher's
// sender-tagged logging convention used throughout its error type.
func Logf(sender string, format string, args ...any) {
	activeLogger().With("sender", sender).Debugf(format, args...)
}
