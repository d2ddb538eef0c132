package logging

import "time"

// queuedRecord is a log record while it sits in the work queue. The queue
// owns it exclusively from enqueue until dispatch.
//
// A record with a non-nil flush channel is a Flush sentinel: it is never
// rendered, the dispatcher only closes the channel to release the waiting
// caller.
type queuedRecord struct {
	subsystem string
	level     Level
	text      string
	when      time.Time
	flush     chan struct{}
}
