package logging

import (
	"sync"
	"time"
)

// fakeClock is a manually advanced Clock for deterministic window tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// dispatched is one record as a sink received it.
type dispatched struct {
	level     Level
	subsystem string
	header    string
	body      string
}

// captureSink records everything dispatched to it.
type captureSink struct {
	name string

	mu      sync.Mutex
	records []dispatched
}

func newCaptureSink(name string) *captureSink {
	return &captureSink{name: name}
}

func (s *captureSink) UniqueName() string { return s.name }

func (s *captureSink) Write(level Level, subsystem, header, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, dispatched{level: level, subsystem: subsystem, header: header, body: body})
}

func (s *captureSink) all() []dispatched {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dispatched, len(s.records))
	copy(out, s.records)
	return out
}

func (s *captureSink) bodies() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.records))
	for i, record := range s.records {
		out[i] = record.body
	}
	return out
}

// recordingPlugin is a ConfiguratorPlugin stub backed by a map.
type recordingPlugin struct {
	mu       sync.Mutex
	levels   map[string]Level
	saved    []string
	restored []string
}

func newRecordingPlugin() *recordingPlugin {
	return &recordingPlugin{levels: make(map[string]Level)}
}

func (p *recordingPlugin) RestoreChannelLevel(name string) (Level, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.restored = append(p.restored, name)
	level, ok := p.levels[name]
	return level, ok
}

func (p *recordingPlugin) SaveChannelLevel(name string, level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.levels[name] = level
	p.saved = append(p.saved, name)
}

// writeCall is one submission seen by recordingWriter.
type writeCall struct {
	subsystem string
	level     Level
	text      string
	relogged  bool
	option    WriteOption
}

// recordingWriter is a RecordWriter stub for channel tests.
type recordingWriter struct {
	mu    sync.Mutex
	calls []writeCall
}

func (w *recordingWriter) Write(subsystem string, level Level, text string, relogged bool, option WriteOption) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, writeCall{subsystem, level, text, relogged, option})
}

func (w *recordingWriter) all() []writeCall {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]writeCall, len(w.calls))
	copy(out, w.calls)
	return out
}
