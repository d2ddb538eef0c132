// Package logging implements sawmill's asynchronous logging core: a bounded
// work queue drained by a single background dispatch goroutine that fans
// rendered records out to registered sinks.
//
// Producers submit records through Channel instances (named, independently
// leveled gates registered with a Configurator) or directly through
// OutputWorker.Write. Before a record is queued it passes the repeated-message
// manager, which suppresses log storms by aggregating messages whose content
// hash recurs within a time window and later re-emitting one summary line
// carrying the occurrence count.
//
// The worker guarantees FIFO dispatch, bounded memory (overruns are counted
// and surfaced as a synthetic error record rather than blocking producers),
// a Flush barrier covering everything enqueued before it, and a Stop that
// drains every record accepted before shutdown.
package logging
