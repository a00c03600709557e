package png

import (
	"sync"

	"github.com/rs/zerolog"
)

// pkgLogger backs every soft-error log call in the codec. It defaults to
// a disabled logger so importing this package is silent unless a caller
// opts in with SetLogger.
var (
	pkgLoggerMu sync.RWMutex
	pkgLogger   = zerolog.Nop()
)

// SetLogger replaces the package logger used for recoverable soft errors.
// Decode logs one such condition, at debug level: a non-IDAT chunk other
// than IEND seen after the first IDAT. The logger is never invoked from
// the per-row pixel loops.
func SetLogger(l zerolog.Logger) {
	pkgLoggerMu.Lock()
	defer pkgLoggerMu.Unlock()
	pkgLogger = l
}

func logger() *zerolog.Logger {
	pkgLoggerMu.RLock()
	defer pkgLoggerMu.RUnlock()
	l := pkgLogger
	return &l
}
