// Package persist stores explicit channel-level changes in a SQLite database
// so they survive restarts. The Store implements the logging configurator's
// plugin contract and holds a flock-based file lock to keep concurrent
// processes from writing the database at the same time.
package persist
