package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// WriteOption tunes a single Write call.
type WriteOption int

const (
	// WriteDefault subjects the record to the queue limit.
	WriteDefault WriteOption = iota
	// WriteIgnoreQueueLimit bypasses the queue bound. Reserved for aggregate
	// summaries and other records that must never be dropped; runaway use
	// defeats the memory bound.
	WriteIgnoreQueueLimit
)

// ErrNotRunning is returned by Flush when the worker has not been started or
// has been stopped.
var ErrNotRunning = errors.New("logging: output worker is not running")

// loggingSubsystem labels records the worker generates about itself
// (overrun reports, flush sentinels).
const loggingSubsystem = "Logging"

// Sink renders dispatched records. Implementations are external
// collaborators; the worker only requires a stable identity string and a
// write capability. Write may block on slow I/O, so it is never called while
// the queue lock is held.
type Sink interface {
	UniqueName() string
	Write(level Level, subsystem string, header string, body string)
}

// Settings holds the worker's fixed configuration. The zero value yields the
// defaults below.
type Settings struct {
	// QueueLimit bounds the work queue; records beyond it are dropped and
	// counted. Default 1000.
	QueueLimit int
	// AggregationWindow is how long a repeated message keeps its repeat
	// status without a new occurrence. Default 5s.
	AggregationWindow time.Duration
	// PrintedRepeats is how many occurrences of a repeat are still printed
	// individually before aggregation starts. Default 3.
	PrintedRepeats int
	// AggregatedCap forces a mid-window summary flush once this many
	// occurrences have been deferred. Default 100.
	AggregatedCap int
	// RecentCapacity is the target size of the seen-once map. Default 100.
	RecentCapacity int
	// HashPrefixLength bounds how many leading bytes of a message are
	// hashed. Default 32.
	HashPrefixLength int

	// Clock supplies timestamps; nil selects the system clock.
	Clock Clock
	// DebugStream receives the synchronous fast-path copy of first-time
	// records when a debugger is attached; nil selects os.Stderr.
	DebugStream io.Writer
	// ForceDebugStream treats the process as traced regardless of detection.
	ForceDebugStream bool
	// OnViolation receives unrecoverable precondition violations (the
	// debug-break equivalent); nil reports to os.Stderr.
	OnViolation func(msg string)
}

func (s Settings) withDefaults() Settings {
	if s.QueueLimit <= 0 {
		s.QueueLimit = 1000
	}
	if s.AggregationWindow <= 0 {
		s.AggregationWindow = 5 * time.Second
	}
	if s.PrintedRepeats <= 0 {
		s.PrintedRepeats = 3
	}
	if s.AggregatedCap <= 0 {
		s.AggregatedCap = 100
	}
	if s.RecentCapacity <= 0 {
		s.RecentCapacity = 100
	}
	if s.HashPrefixLength <= 0 {
		s.HashPrefixLength = 32
	}
	if s.Clock == nil {
		s.Clock = SystemClock
	}
	if s.DebugStream == nil {
		s.DebugStream = os.Stderr
	}
	if s.OnViolation == nil {
		s.OnViolation = func(msg string) {
			fmt.Fprintln(os.Stderr, "sawmill: "+msg)
		}
	}
	return s
}

// OutputWorker is the only mutable bottleneck between producers and sinks:
// it owns the bounded work queue, the single dispatch goroutine, and the sink
// registry. Any number of producers may call Write and Flush concurrently.
type OutputWorker struct {
	configurator *Configurator
	clock        Clock
	repeats      *repeatedMessageManager

	inDebugger  bool
	debugStream io.Writer
	violation   func(msg string)

	sinksMu sync.Mutex
	sinks   []Sink

	queueMu    sync.Mutex
	queue      []*queuedRecord
	queueLimit int
	overrun    int
	wake       chan struct{} // buffered; a pending token means the dispatcher has work

	startStopMu sync.Mutex
	running     bool
	terminate   chan struct{}
	stopped     chan struct{}
	sessionID   string
}

// NewOutputWorker constructs a stopped worker bound to the given
// configurator. Call Start to begin dispatching.
func NewOutputWorker(configurator *Configurator, settings Settings) *OutputWorker {
	settings = settings.withDefaults()
	return &OutputWorker{
		configurator: configurator,
		clock:        settings.Clock,
		repeats: newRepeatedMessageManager(settings.Clock, repeatSettings{
			windowMs:       settings.AggregationWindow.Milliseconds(),
			printedRepeats: settings.PrintedRepeats,
			aggregatedCap:  settings.AggregatedCap,
			recentCapacity: settings.RecentCapacity,
			prefixLength:   settings.HashPrefixLength,
		}),
		inDebugger:  settings.ForceDebugStream || debuggerAttached(),
		debugStream: settings.DebugStream,
		violation:   settings.OnViolation,
		queueLimit:  settings.QueueLimit,
		wake:        make(chan struct{}, 1),
	}
}

// DebuggerAttached reports whether the worker considers the process traced.
func (w *OutputWorker) DebuggerAttached() bool { return w.inDebugger }

// SessionID identifies the current dispatch session; it changes on every
// Start and is empty before the first one.
func (w *OutputWorker) SessionID() string {
	w.startStopMu.Lock()
	defer w.startStopMu.Unlock()
	return w.sessionID
}

// Write classifies and enqueues one record. Aggregated records return
// immediately without enqueueing. With WriteDefault, a full queue drops the
// record and counts the overrun instead of blocking. First-time records
// (relogged false) are additionally written synchronously to the debug
// stream when a debugger is attached, bypassing the queue.
func (w *OutputWorker) Write(subsystem string, level Level, text string, relogged bool, option WriteOption) {
	if w.repeats.handleMessage(subsystem, level, text) == classificationAggregated {
		return
	}
	w.enqueueClassified(subsystem, level, text, relogged, option)
}

// enqueueClassified is the already-classified entry point: aggregate
// summaries re-emitted by the dispatcher come through here so they are never
// fed back into the classifier.
func (w *OutputWorker) enqueueClassified(subsystem string, level Level, text string, relogged bool, option WriteOption) {
	dropped := false
	wakeNeeded := false

	w.queueMu.Lock()
	if option != WriteIgnoreQueueLimit && len(w.queue) >= w.queueLimit {
		w.overrun++
		dropped = true
	} else {
		w.queue = append(w.queue, &queuedRecord{
			subsystem: subsystem,
			level:     level,
			text:      text,
			when:      w.clock.Now(),
		})
		// Only the transition from empty needs a wake-up.
		wakeNeeded = len(w.queue) == 1
	}
	w.queueMu.Unlock()

	if !dropped && wakeNeeded {
		w.wakeDispatcher()
	}

	if !relogged && w.inDebugger {
		w.writeDebugStream(subsystem, level, text)
	}
}

func (w *OutputWorker) wakeDispatcher() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Start spawns the dispatch goroutine. It is idempotent and serialized
// against Stop. Channel levels are restored before dispatching begins.
func (w *OutputWorker) Start() {
	w.startStopMu.Lock()
	defer w.startStopMu.Unlock()

	if w.running {
		return
	}

	w.configurator.RestoreAllChannelLevels()

	if w.wake == nil {
		// Worker was not built through NewOutputWorker; the wake primitive
		// is unrecoverable and the worker stays inert.
		w.violation("output worker wake primitive missing; worker not started")
		return
	}

	w.terminate = make(chan struct{})
	w.stopped = make(chan struct{})
	w.sessionID = uuid.NewString()
	w.running = true

	go w.dispatchLoop(w.terminate, w.stopped)
}

// Stop signals termination, waits for the dispatch goroutine to exit, and
// performs one final synchronous drain so no record enqueued before Stop is
// lost. It is idempotent; a second call in a row drains an empty queue.
func (w *OutputWorker) Stop() {
	w.startStopMu.Lock()
	defer w.startStopMu.Unlock()

	if w.running {
		close(w.terminate)
		<-w.stopped
		w.running = false
	}

	// The goroutine is gone; this drain cannot race with it.
	w.processQueuedMessages()
}

// Flush enqueues a sentinel and blocks until every record enqueued strictly
// before it has been dispatched to all sinks. It is a precondition violation
// to call Flush while the worker is not running; the violation is reported
// and ErrNotRunning returned.
func (w *OutputWorker) Flush() error {
	done := make(chan struct{})

	// The sentinel is enqueued under startStopMu so Stop cannot slip between
	// the running check and the enqueue. Any sentinel present when Stop runs
	// is fired by its final drain, so this wait cannot hang across shutdown.
	w.startStopMu.Lock()
	if !w.running {
		w.startStopMu.Unlock()
		w.violation("flush called while the output worker is stopped")
		return ErrNotRunning
	}
	w.queueMu.Lock()
	w.queue = append(w.queue, &queuedRecord{
		subsystem: loggingSubsystem,
		level:     LevelInfo,
		when:      w.clock.Now(),
		flush:     done,
	})
	w.queueMu.Unlock()
	w.startStopMu.Unlock()

	w.wakeDispatcher()
	<-done
	return nil
}

// AddSink registers a sink. Adding a sink whose unique name matches an
// existing one replaces it.
func (w *OutputWorker) AddSink(sink Sink) {
	if sink == nil {
		return
	}
	w.sinksMu.Lock()
	defer w.sinksMu.Unlock()

	w.removeSinkLocked(sink.UniqueName())
	w.sinks = append(w.sinks, sink)
}

// RemoveSink unregisters the sink with the same unique name, if present.
func (w *OutputWorker) RemoveSink(sink Sink) {
	if sink == nil {
		return
	}
	w.sinksMu.Lock()
	defer w.sinksMu.Unlock()
	w.removeSinkLocked(sink.UniqueName())
}

// LookupSink returns the registered sink with the given unique name, or nil.
func (w *OutputWorker) LookupSink(name string) Sink {
	w.sinksMu.Lock()
	defer w.sinksMu.Unlock()

	for _, sink := range w.sinks {
		if sink.UniqueName() == name {
			return sink
		}
	}
	return nil
}

// DisableAllSinks unregisters every sink.
func (w *OutputWorker) DisableAllSinks() {
	w.sinksMu.Lock()
	defer w.sinksMu.Unlock()
	w.sinks = nil
}

func (w *OutputWorker) removeSinkLocked(name string) {
	for i, existing := range w.sinks {
		if existing.UniqueName() == name {
			w.sinks = append(w.sinks[:i], w.sinks[i+1:]...)
			return
		}
	}
}

// AddRepeatedMessageException exempts messages with the given prefix from
// aggregation permanently.
func (w *OutputWorker) AddRepeatedMessageException(prefix string) {
	w.repeats.addMessageException(prefix)
}

// RemoveRepeatedMessageException lifts a message exemption.
func (w *OutputWorker) RemoveRepeatedMessageException(prefix string) {
	w.repeats.removeMessageException(prefix)
}

// AddRepeatedMessageSubsystemException exempts a whole subsystem from
// aggregation permanently.
func (w *OutputWorker) AddRepeatedMessageSubsystemException(subsystem string) {
	w.repeats.addSubsystemException(subsystem)
}

// RemoveRepeatedMessageSubsystemException lifts a subsystem exemption.
func (w *OutputWorker) RemoveRepeatedMessageSubsystemException(subsystem string) {
	w.repeats.removeSubsystemException(subsystem)
}

func (w *OutputWorker) dispatchLoop(terminate <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	// Logging is background work; drop the dispatch thread's scheduling
	// priority where the platform allows it.
	lowerDispatchPriority()

	for {
		select {
		case <-terminate:
			return
		case <-w.wake:
			w.processQueuedMessages()
		}
	}
}

// processQueuedMessages drains the entire queue in one batch and fans every
// record out to all sinks. Called from the dispatch goroutine, and once more
// from Stop after the goroutine has exited.
func (w *OutputWorker) processQueuedMessages() {
	// Expired or capped aggregates are re-emitted first, through the
	// already-classified path, with the queue limit ignored: summaries must
	// never be dropped. Summary text has never been seen before, so it takes
	// the debug-stream fast path like any first-time record.
	for _, summary := range w.repeats.poll() {
		w.enqueueClassified(summary.subsystem, summary.level, summary.text, false, WriteIgnoreQueueLimit)
	}

	w.queueMu.Lock()
	batch := w.queue
	w.queue = nil
	lost := w.overrun
	w.overrun = 0
	w.queueMu.Unlock()

	if len(batch) == 0 {
		return
	}

	if lost > 0 {
		report := &queuedRecord{
			subsystem: loggingSubsystem,
			level:     LevelError,
			text:      fmt.Sprintf("Lost %d log messages due to queue overrun; try to reduce the amount of logging", lost),
			when:      w.clock.Now(),
		}
		batch = append([]*queuedRecord{report}, batch...)
	}

	w.sinksMu.Lock()
	defer w.sinksMu.Unlock()

	for _, record := range batch {
		if record.flush != nil {
			close(record.flush)
			continue
		}
		header := renderHeader(record.when, record.level, record.subsystem)
		for _, sink := range w.sinks {
			sink.Write(record.level, record.subsystem, header, record.text)
		}
	}
}

// writeDebugStream is the low-latency path: the formatted line goes to the
// debug stream immediately and synchronously, bypassing the queue, so the
// message is visible at breakpoints.
func (w *OutputWorker) writeDebugStream(subsystem string, level Level, text string) {
	header := renderHeader(w.clock.Now(), level, subsystem)
	fmt.Fprintf(w.debugStream, "%s%s\n", header, text)
}
