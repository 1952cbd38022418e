//go:build palloc_debug

package alloc

import (
	"sync"

	"go.uber.org/zap"
)

// debugLogger is built lazily so that importing this file doesn't pay
// for a zap.NewProduction() call (and its stderr encoder setup) unless
// an assertion actually trips.
var (
	debugLoggerOnce sync.Once
	debugLogger     *zap.SugaredLogger
)

func getDebugLogger() *zap.SugaredLogger {
	debugLoggerOnce.Do(func() {
		l, err := zap.NewProduction()
		if err != nil {
			l = zap.NewNop()
		}
		debugLogger = l.Sugar()
	})
	return debugLogger
}

// debugAssert logs msg at DPanicLevel (panics in development builds,
// logs in production ones — zap's own debug/production split) when
// cond is false. This is the palloc_debug build's check for spec.md
// §7's count-count/list-membership invariant: a violation here means
// a superblock's free count and its sizebases/complete_pages/free_pages
// membership have drifted apart, which double-free tolerance alone
// does not catch.
func debugAssert(cond bool, msg string, keysAndValues ...interface{}) {
	if cond {
		return
	}
	getDebugLogger().DPanicw(msg, keysAndValues...)
}
