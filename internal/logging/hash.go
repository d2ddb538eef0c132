package logging

import "github.com/cespare/xxhash/v2"

// prefixHash hashes at most prefixLength leading bytes of s. Hashing a
// bounded prefix rather than the whole message keeps classification cheap for
// long records; messages differing only past the prefix merge into one repeat
// group, which is an accepted trade-off. The same function is applied to
// subsystem names for the subsystem exception set.
func prefixHash(s string, prefixLength int) uint32 {
	if prefixLength > 0 && len(s) > prefixLength {
		s = s[:prefixLength]
	}
	return uint32(xxhash.Sum64String(s))
}
