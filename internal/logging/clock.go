package logging

import "time"

// Clock supplies wall-clock time to the worker and the repeated-message
// manager. Injecting a fake clock makes the aggregation windows testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the Clock used when none is supplied.
var SystemClock Clock = systemClock{}

const millisPerDay = 24 * 60 * 60 * 1000

// timeToMillis reduces a wall-clock time to milliseconds since local
// midnight. Repeat detection only ever compares nearby times, so a
// day-relative value with explicit rollover handling in millisDiff is enough.
func timeToMillis(t time.Time) int64 {
	h, m, s := t.Clock()
	return int64(h)*3600000 + int64(m)*60000 + int64(s)*1000 + int64(t.Nanosecond()/1e6)
}

// millisDiff returns end-begin for day-relative millisecond times. A negative
// raw difference means midnight passed between the two samples; assume exactly
// one day rolled over.
func millisDiff(begin, end int64) int64 {
	if end >= begin {
		return end - begin
	}
	return millisPerDay + (end - begin)
}
