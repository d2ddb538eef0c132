package config

const (
	defaultQueueLimit           = 1000
	defaultWindowMillis         = 5000
	defaultPrintedRepeats       = 3
	defaultAggregatedCap        = 100
	defaultRecentCapacity       = 100
	defaultPrefixLength         = 32
	defaultLevel                = "debug"
	defaultStreamCapacity       = 512
	defaultPersistencePath      = "~/.local/share/sawmill/levels.db"
	defaultPersistenceEnabled   = false
	defaultConsoleSinkInstalled = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Queue: Queue{
			Limit: defaultQueueLimit,
		},
		Aggregation: Aggregation{
			WindowMillis:   defaultWindowMillis,
			PrintedRepeats: defaultPrintedRepeats,
			AggregatedCap:  defaultAggregatedCap,
			RecentCapacity: defaultRecentCapacity,
			PrefixLength:   defaultPrefixLength,
		},
		Levels: Levels{
			Default: defaultLevel,
		},
		Sinks: Sinks{
			Console:        defaultConsoleSinkInstalled,
			Stream:         true,
			StreamCapacity: defaultStreamCapacity,
		},
		Persistence: Persistence{
			Enabled: defaultPersistenceEnabled,
			Path:    defaultPersistencePath,
		},
	}
}
