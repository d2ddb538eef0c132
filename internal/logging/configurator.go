package logging

import "sync"

// ConfiguratorPlugin persists channel levels across runs. The configurator
// consults it on every channel registration and notifies it on every explicit
// level change.
type ConfiguratorPlugin interface {
	// RestoreChannelLevel reports the persisted level for a channel name.
	RestoreChannelLevel(name string) (Level, bool)
	// SaveChannelLevel records an explicit level change. Persistence is
	// best-effort; there is nothing the logging core could do with a failure.
	SaveChannelLevel(name string, level Level)
}

// ChannelInfo is a snapshot row from Configurator.Channels.
type ChannelInfo struct {
	Name  string
	Level Level
}

// Configurator owns the channel registry and the level policy: a global
// default plus per-channel overrides, optionally persisted through a plugin.
// It is injected into Channel and OutputWorker constructors; there is no
// process-wide instance.
type Configurator struct {
	mu sync.Mutex // registry lock; guards head, globalMinimum, plugin

	head          *Channel // intrusive doubly-linked list, head insertion
	globalMinimum Level
	plugin        ConfiguratorPlugin
}

// NewConfigurator returns a configurator with the global default minimum set
// to DefaultMinimumLevel and no persistence plugin.
func NewConfigurator() *Configurator {
	return &Configurator{globalMinimum: DefaultMinimumLevel}
}

// register links ch at the head of the registry and restores its level from
// the global default or the persistence plugin.
func (c *Configurator) register(ch *Channel) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.head != nil {
		c.head.prev = ch
		ch.next = c.head
	}
	ch.prev = nil
	c.head = ch

	c.restoreChannelLocked(ch)
}

// unregister unlinks ch from the registry.
func (c *Configurator) unregister(ch *Channel) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ch == c.head {
		c.head = ch.next
		if c.head != nil {
			c.head.prev = nil
		}
	} else if ch.prev != nil {
		ch.prev.next = ch.next
		if ch.next != nil {
			ch.next.prev = ch.prev
		}
	}
	ch.prev = nil
	ch.next = nil
}

// restoreChannelLocked seeds one channel's level from the plugin or the
// global default, without undoing an owner's explicit override.
func (c *Configurator) restoreChannelLocked(ch *Channel) {
	level := c.globalMinimum
	if c.plugin != nil {
		if persisted, ok := c.plugin.RestoreChannelLevel(ch.name); ok {
			level = persisted
		}
	}
	if !ch.userOverride.Load() {
		ch.minimum.Store(int32(level))
	}
}

// SetGlobalMinimumLogLevel updates the global default and overwrites the
// level of every registered channel that has not been explicitly overridden
// by its owner.
func (c *Configurator) SetGlobalMinimumLogLevel(level Level) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.globalMinimum = level
	for ch := c.head; ch != nil; ch = ch.next {
		if !ch.userOverride.Load() {
			ch.minimum.Store(int32(level))
		}
	}
}

// GlobalMinimumLogLevel returns the current global default.
func (c *Configurator) GlobalMinimumLogLevel() Level {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.globalMinimum
}

// SetChannel overwrites the level of every channel matching name and marks
// them user-overridden so later global-level changes do not clobber them.
// Duplicate registrations under one name are all updated. The persistence
// plugin is notified of the explicit change.
func (c *Configurator) SetChannel(name string, level Level) {
	c.mu.Lock()
	for ch := c.head; ch != nil; ch = ch.next {
		if ch.name == name {
			ch.minimum.Store(int32(level))
			ch.userOverride.Store(true)
			// Purposely no break: channels may share a name.
		}
	}
	plugin := c.plugin
	c.mu.Unlock()

	if plugin != nil {
		plugin.SaveChannelLevel(name, level)
	}
}

// SetPlugin attaches (or detaches, with nil) the persistence plugin and
// immediately restores every registered channel's level from it.
func (c *Configurator) SetPlugin(plugin ConfiguratorPlugin) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.plugin = plugin
	for ch := c.head; ch != nil; ch = ch.next {
		c.restoreChannelLocked(ch)
	}
}

// RestoreAllChannelLevels re-seeds every registered channel from the plugin
// or the global default. The worker calls this on Start.
func (c *Configurator) RestoreAllChannelLevels() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for ch := c.head; ch != nil; ch = ch.next {
		c.restoreChannelLocked(ch)
	}
}

// Channels returns a snapshot of the registry in registration order (newest
// first, matching head insertion).
func (c *Configurator) Channels() []ChannelInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	var infos []ChannelInfo
	for ch := c.head; ch != nil; ch = ch.next {
		infos = append(infos, ChannelInfo{Name: ch.name, Level: Level(ch.minimum.Load())})
	}
	return infos
}

// onChannelLevelChange saves an explicit per-channel change through the
// plugin, if one is attached.
func (c *Configurator) onChannelLevelChange(name string, level Level) {
	c.mu.Lock()
	plugin := c.plugin
	c.mu.Unlock()

	if plugin != nil {
		plugin.SaveChannelLevel(name, level)
	}
}
