package logging

import (
	"fmt"
	"sort"
	"sync"
)

type classification int

const (
	// classificationPassed records are dispatched normally.
	classificationPassed classification = iota
	// classificationAggregated records are suppressed now and represented by
	// a later summary line.
	classificationAggregated
)

// recentMessage marks a content hash seen once and not yet classified as
// repeating.
type recentMessage struct {
	timeMs int64
}

// repeatedMessage tracks an actively repeating content hash. The subsystem
// and level captured at promotion label the eventual summary; later
// occurrences under the same hash are assumed to share them.
type repeatedMessage struct {
	subsystem       string
	level           Level
	text            string
	lastTimeMs      int64
	printedCount    int
	aggregatedCount int
}

// aggregateSummary is a deferred re-emission collected by poll. The text
// already carries the "[Aggregated N times] " prefix so no other record can
// interleave between prefix and body.
type aggregateSummary struct {
	subsystem string
	level     Level
	text      string
}

// repeatSettings are the classification knobs, fixed at construction.
type repeatSettings struct {
	windowMs       int64
	printedRepeats int
	aggregatedCap  int
	recentCapacity int
	prefixLength   int
}

// repeatedMessageManager classifies incoming records as pass-through or
// aggregated. A hash lives in at most one of the recent and repeated maps at
// any instant; promotion moves it.
type repeatedMessageManager struct {
	mu       sync.Mutex
	clock    Clock
	settings repeatSettings

	recent   map[uint32]recentMessage
	repeated map[uint32]*repeatedMessage

	messageExceptions   map[uint32]struct{}
	subsystemExceptions map[uint32]struct{}
}

func newRepeatedMessageManager(clock Clock, settings repeatSettings) *repeatedMessageManager {
	return &repeatedMessageManager{
		clock:               clock,
		settings:            settings,
		recent:              make(map[uint32]recentMessage),
		repeated:            make(map[uint32]*repeatedMessage),
		messageExceptions:   make(map[uint32]struct{}),
		subsystemExceptions: make(map[uint32]struct{}),
	}
}

// handleMessage classifies one incoming record.
func (m *repeatedMessageManager) handleMessage(subsystem string, level Level, text string) classification {
	m.mu.Lock()
	defer m.mu.Unlock()

	hash := prefixHash(text, m.settings.prefixLength)
	if _, ok := m.messageExceptions[hash]; ok {
		return classificationPassed
	}
	if _, ok := m.subsystemExceptions[prefixHash(subsystem, m.settings.prefixLength)]; ok {
		return classificationPassed
	}

	nowMs := timeToMillis(m.clock.Now())

	if rep, ok := m.repeated[hash]; ok {
		if millisDiff(rep.lastTimeMs, nowMs) < m.settings.windowMs {
			rep.lastTimeMs = nowMs

			// The first few occurrences of a repeat are still shown.
			if rep.printedCount < m.settings.printedRepeats {
				rep.printedCount++
				return classificationPassed
			}

			rep.aggregatedCount++
			if rep.aggregatedCount >= m.settings.aggregatedCap {
				// Keep the most recent variation for the summary line.
				rep.text = text
			}
			return classificationAggregated
		}

		// The entry went stale. Leave it for poll to finalize (it may still
		// owe a summary); this occurrence reads as a fresh, non-repeating
		// message.
		return classificationPassed
	}

	if _, ok := m.recent[hash]; ok {
		// Second sighting within the recent map's lifetime: promote.
		m.repeated[hash] = &repeatedMessage{
			subsystem:  subsystem,
			level:      level,
			text:       text,
			lastTimeMs: nowMs,
		}
		delete(m.recent, hash)
		return classificationPassed
	}

	m.recent[hash] = recentMessage{timeMs: nowMs}
	return classificationPassed
}

// poll prunes the recent map, expires repeat windows, and flushes capped
// entries mid-window. Summaries are collected under the lock and returned for
// the caller to emit after it is released; emitting reaches back into the
// dispatch path, which takes other locks.
func (m *repeatedMessageManager) poll() []aggregateSummary {
	m.mu.Lock()

	if len(m.recent) > m.settings.recentCapacity*2 {
		m.pruneRecentLocked()
	}

	nowMs := timeToMillis(m.clock.Now())
	var summaries []aggregateSummary

	for hash, rep := range m.repeated {
		if millisDiff(rep.lastTimeMs, nowMs) > m.settings.windowMs {
			// Window expired. The first printedRepeats occurrences were shown
			// individually, so a summary is owed only if any were deferred.
			if rep.aggregatedCount > 0 {
				summaries = append(summaries, rep.summary())
			}
			delete(m.repeated, hash)
			continue
		}
		if rep.aggregatedCount >= m.settings.aggregatedCap {
			// Forced mid-window flush; start a new aggregation round.
			summaries = append(summaries, rep.summary())
			rep.printedCount += rep.aggregatedCount
			rep.aggregatedCount = 0
		}
	}

	m.mu.Unlock()
	return summaries
}

// pruneRecentLocked evicts oldest-first until the recent map is back at its
// target capacity. The full scan and sort are tolerated; this path only runs
// when the map has doubled, and the map is small.
func (m *repeatedMessageManager) pruneRecentLocked() {
	type aged struct {
		hash   uint32
		timeMs int64
	}
	entries := make([]aged, 0, len(m.recent))
	for hash, msg := range m.recent {
		entries = append(entries, aged{hash: hash, timeMs: msg.timeMs})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].timeMs < entries[j].timeMs
	})
	for _, entry := range entries[:len(entries)-m.settings.recentCapacity] {
		delete(m.recent, entry.hash)
	}
}

func (r *repeatedMessage) summary() aggregateSummary {
	return aggregateSummary{
		subsystem: r.subsystem,
		level:     r.level,
		text:      fmt.Sprintf("[Aggregated %d times] %s", r.aggregatedCount, r.text),
	}
}

func (m *repeatedMessageManager) addMessageException(prefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messageExceptions[prefixHash(prefix, m.settings.prefixLength)] = struct{}{}
}

func (m *repeatedMessageManager) removeMessageException(prefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.messageExceptions, prefixHash(prefix, m.settings.prefixLength))
}

func (m *repeatedMessageManager) addSubsystemException(subsystem string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subsystemExceptions[prefixHash(subsystem, m.settings.prefixLength)] = struct{}{}
}

func (m *repeatedMessageManager) removeSubsystemException(subsystem string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subsystemExceptions, prefixHash(subsystem, m.settings.prefixLength))
}
