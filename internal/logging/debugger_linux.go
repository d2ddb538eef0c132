//go:build linux

package logging

import (
	"os"
	"strings"
)

// debuggerAttached reports whether a tracer (debugger, strace, ...) is
// attached to the process, by way of the TracerPid field in procfs.
func debuggerAttached() bool {
	data, err := os.ReadFile("/proc/self/status")
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(data), "\n") {
		if rest, ok := strings.CutPrefix(line, "TracerPid:"); ok {
			return strings.TrimSpace(rest) != "0"
		}
	}
	return false
}
