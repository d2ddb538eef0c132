package logging

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// RecordWriter is the capability a Channel uses to submit records. It is
// satisfied by *OutputWorker and received at construction; channels never
// look a worker up through shared state.
type RecordWriter interface {
	Write(subsystem string, level Level, text string, relogged bool, option WriteOption)
}

// Channel is a named logging gate owned by a subsystem. Constructing one
// registers it with the configurator, which immediately restores its level;
// Remove unregisters it. A channel's lifetime matches its owning subsystem.
type Channel struct {
	configurator *Configurator
	writer       RecordWriter
	name         string

	minimum      atomic.Int32 // Level; read on every write, set by the configurator
	userOverride atomic.Bool

	prefixMu sync.Mutex
	prefix   string

	prev, next *Channel // registry links, guarded by the configurator's lock
}

// NewChannel registers a channel under name with the given configurator and
// record writer.
func NewChannel(configurator *Configurator, writer RecordWriter, name string) *Channel {
	ch := &Channel{
		configurator: configurator,
		writer:       writer,
		name:         name,
	}
	ch.minimum.Store(int32(DefaultMinimumLevel))
	configurator.register(ch)
	return ch
}

// Remove unregisters the channel. The channel must not be used afterwards.
func (ch *Channel) Remove() {
	ch.configurator.unregister(ch)
}

// Name returns the subsystem name the channel logs under.
func (ch *Channel) Name() string { return ch.name }

// MinimumLevel returns the channel's current minimum output level.
func (ch *Channel) MinimumLevel() Level {
	return Level(ch.minimum.Load())
}

// SetMinimumLevel sets the channel's minimum output level, marks it as
// user-overridden, and notifies the configurator so the change can be
// persisted.
func (ch *Channel) SetMinimumLevel(level Level) {
	ch.SetMinimumLevelNoSave(level)
	ch.configurator.onChannelLevelChange(ch.name, level)
}

// SetMinimumLevelNoSave sets the minimum output level and marks the channel
// user-overridden without notifying the persistence plugin.
func (ch *Channel) SetMinimumLevelNoSave(level Level) {
	ch.minimum.Store(int32(level))
	ch.userOverride.Store(true)
}

// Active reports whether a record at level would be emitted by this channel.
func (ch *Channel) Active(level Level) bool {
	minimum := Level(ch.minimum.Load())
	return minimum != LevelDisabled && level >= minimum && level != LevelDisabled
}

// Prefix returns the string prepended to every message body.
func (ch *Channel) Prefix() string {
	ch.prefixMu.Lock()
	defer ch.prefixMu.Unlock()
	return ch.prefix
}

// SetPrefix sets the string prepended to every message body.
func (ch *Channel) SetPrefix(prefix string) {
	ch.prefixMu.Lock()
	defer ch.prefixMu.Unlock()
	ch.prefix = prefix
}

// Log submits msg at level, honoring the channel gate and any suppression
// scope carried by ctx.
func (ch *Channel) Log(ctx context.Context, level Level, msg string) {
	if !ch.Active(level) || suppressed(ctx, level) {
		return
	}
	ch.emit(level, msg)
}

// Logf is Log with fmt.Sprintf formatting. Formatting is skipped entirely
// when the record would not be emitted.
func (ch *Channel) Logf(ctx context.Context, level Level, format string, args ...any) {
	if !ch.Active(level) || suppressed(ctx, level) {
		return
	}
	ch.emit(level, fmt.Sprintf(format, args...))
}

// Trace logs msg at trace level.
func (ch *Channel) Trace(msg string) { ch.log(LevelTrace, msg) }

// Tracef logs a formatted message at trace level.
func (ch *Channel) Tracef(format string, args ...any) { ch.logf(LevelTrace, format, args...) }

// Debug logs msg at debug level.
func (ch *Channel) Debug(msg string) { ch.log(LevelDebug, msg) }

// Debugf logs a formatted message at debug level.
func (ch *Channel) Debugf(format string, args ...any) { ch.logf(LevelDebug, format, args...) }

// Info logs msg at info level.
func (ch *Channel) Info(msg string) { ch.log(LevelInfo, msg) }

// Infof logs a formatted message at info level.
func (ch *Channel) Infof(format string, args ...any) { ch.logf(LevelInfo, format, args...) }

// Warning logs msg at warning level.
func (ch *Channel) Warning(msg string) { ch.log(LevelWarning, msg) }

// Warningf logs a formatted message at warning level.
func (ch *Channel) Warningf(format string, args ...any) { ch.logf(LevelWarning, format, args...) }

// Error logs msg at error level.
func (ch *Channel) Error(msg string) { ch.log(LevelError, msg) }

// Errorf logs a formatted message at error level.
func (ch *Channel) Errorf(format string, args ...any) { ch.logf(LevelError, format, args...) }

func (ch *Channel) log(level Level, msg string) {
	if !ch.Active(level) {
		return
	}
	ch.emit(level, msg)
}

func (ch *Channel) logf(level Level, format string, args ...any) {
	if !ch.Active(level) {
		return
	}
	ch.emit(level, fmt.Sprintf(format, args...))
}

func (ch *Channel) emit(level Level, msg string) {
	if prefix := ch.Prefix(); prefix != "" {
		msg = prefix + msg
	}
	ch.writer.Write(ch.name, level, msg, false, WriteDefault)
}
