//go:build !palloc_debug

package alloc

// debugAssert is a no-op in the default build: the count/list
// membership invariant it checks is enforced by construction
// (spec.md §7's "programming error, not a runtime condition"), so the
// production hot path pays nothing to check it. Build with
// -tags palloc_debug to get the zap.DPanicLevel logging variant in
// debug_on.go instead.
func debugAssert(cond bool, msg string, keysAndValues ...interface{}) {}
