// Package hash computes stable 64-bit fingerprints of schema sources.
//
// Fingerprints are stamped into generated file headers and used by the watch
// loop to skip recompiling schemas whose content has not changed.
package hash

import "github.com/cespare/xxhash/v2"

// Fingerprint computes the xxHash64 of the given bytes.
func Fingerprint(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// FingerprintString computes the xxHash64 of the given string.
func FingerprintString(data string) uint64 {
	return xxhash.Sum64String(data)
}
