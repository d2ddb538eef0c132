// Package sinks provides concrete output destinations for the logging core:
// an ANSI-colored console sink, a plain io.Writer sink, and a bounded
// in-memory stream sink that supports tailing and follow-style fetches.
package sinks
