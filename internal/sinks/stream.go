package sinks

import (
	"context"
	"sync"

	"sawmill/internal/logging"
)

// StreamName is the unique name the stream sink registers under.
const StreamName = "stream"

// Event is one dispatched record held by the stream sink's buffer.
type Event struct {
	Sequence  uint64
	Level     logging.Level
	Subsystem string
	Header    string
	Body      string
}

// Stream keeps the most recent records in a bounded buffer and wakes waiters
// when new records arrive, so callers can tail or follow the log without
// touching the dispatch path's latency.
type Stream struct {
	mu       sync.Mutex
	cond     *sync.Cond
	capacity int
	buffer   []Event
	nextSeq  uint64
}

// NewStream returns a stream sink holding up to capacity records.
func NewStream(capacity int) *Stream {
	if capacity <= 0 {
		capacity = 512
	}
	s := &Stream{capacity: capacity}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *Stream) UniqueName() string { return StreamName }

func (s *Stream) Write(level logging.Level, subsystem, header, body string) {
	s.mu.Lock()
	s.nextSeq++
	evt := Event{
		Sequence:  s.nextSeq,
		Level:     level,
		Subsystem: subsystem,
		Header:    header,
		Body:      body,
	}
	if len(s.buffer) == s.capacity {
		copy(s.buffer, s.buffer[1:])
		s.buffer = s.buffer[:s.capacity-1]
	}
	s.buffer = append(s.buffer, evt)
	s.cond.Broadcast()
	s.mu.Unlock()
}

// Tail returns the most recent limit events without blocking, plus the
// sequence number a follow-up Fetch should resume from.
func (s *Stream) Tail(limit int) ([]Event, uint64) {
	if limit <= 0 || limit > s.capacity {
		limit = s.capacity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.buffer) == 0 {
		return nil, s.nextSeq
	}
	start := len(s.buffer) - limit
	if start < 0 {
		start = 0
	}
	out := make([]Event, len(s.buffer)-start)
	copy(out, s.buffer[start:])
	return out, s.nextSeq
}

// Fetch returns buffered events with sequence greater than since. When wait is
// true and nothing is available, Fetch blocks until a record arrives or ctx
// ends.
func (s *Stream) Fetch(ctx context.Context, since uint64, limit int, wait bool) ([]Event, uint64, error) {
	if limit <= 0 || limit > s.capacity {
		limit = s.capacity
	}

	cancelWait := make(chan struct{})
	if wait && ctx != nil && ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				s.cond.Broadcast()
			case <-cancelWait:
			}
		}()
	}
	defer close(cancelWait)

	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		events, next := s.snapshotLocked(since, limit)
		if len(events) > 0 || !wait {
			return events, next, ctxErr(ctx)
		}
		if err := ctxErr(ctx); err != nil {
			return nil, next, err
		}
		s.cond.Wait()
		if err := ctxErr(ctx); err != nil {
			return nil, next, err
		}
	}
}

// FirstSequence reports the smallest sequence number still buffered; events
// before it have been evicted.
func (s *Stream) FirstSequence() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.buffer) == 0 {
		return s.nextSeq
	}
	return s.buffer[0].Sequence
}

func (s *Stream) snapshotLocked(since uint64, limit int) ([]Event, uint64) {
	if len(s.buffer) == 0 {
		return nil, s.nextSeq
	}
	startIdx := -1
	for i, evt := range s.buffer {
		if evt.Sequence > since {
			startIdx = i
			break
		}
	}
	if startIdx < 0 {
		return nil, s.nextSeq
	}
	end := startIdx + limit
	if end > len(s.buffer) {
		end = len(s.buffer)
	}
	out := make([]Event, end-startIdx)
	copy(out, s.buffer[startIdx:end])
	return out, s.nextSeq
}

func ctxErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}
