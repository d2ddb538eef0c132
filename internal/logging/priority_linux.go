//go:build linux

package logging

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// dispatchNice is the niceness applied to the dispatch thread. Rendering and
// sink I/O should never compete with the work being logged about.
const dispatchNice = 10

// lowerDispatchPriority pins the dispatch goroutine to its OS thread and
// lowers that thread's scheduling priority. Best effort; the thread stays
// pinned for the life of the goroutine so the niceness keeps applying to it.
func lowerDispatchPriority() {
	runtime.LockOSThread()
	_ = unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), dispatchNice)
}
