package logging

import (
	"strings"
	"time"
)

// timestampLayout renders day/month followed by a millisecond wall time,
// e.g. "26/10 14:03:07.512".
const timestampLayout = "02/01 15:04:05.000"

// formatTimestamp returns the rendered timestamp field. A zero time (a clock
// that failed to produce one) yields an empty field; the record is still
// dispatched with header and body intact.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timestampLayout)
}

// renderHeader builds the full record header:
//
//	<timestamp> {LEVEL}   [<Subsystem>]
func renderHeader(t time.Time, level Level, subsystem string) string {
	var b strings.Builder
	b.Grow(len(timestampLayout) + 12 + len(subsystem) + 2)
	b.WriteString(formatTimestamp(t))
	b.WriteString(level.headerLabel())
	b.WriteString(subsystem)
	b.WriteString("] ")
	return b.String()
}
