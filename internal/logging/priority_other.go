//go:build !linux

package logging

// lowerDispatchPriority is a no-op where per-thread niceness is unavailable.
func lowerDispatchPriority() {}
