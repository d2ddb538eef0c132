//go:build !linux

package logging

// debuggerAttached always reports false on platforms without a procfs
// TracerPid field; use Settings.ForceDebugStream to exercise the fast path.
func debuggerAttached() bool { return false }
