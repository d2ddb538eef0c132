// Command sawmill exercises the logging core from the command line: it runs
// configurable producer workloads through the dispatch queue, inspects and
// edits persisted channel levels, and manages the configuration file.
package main
