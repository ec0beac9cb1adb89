package gen

import (
	"bytes"
	"strconv"
)

var fingerprintMarker = []byte("// Source fingerprint: xxhash64:")

// HeaderFingerprint extracts the schema fingerprint stamped into a generated
// file. It reports false when the input does not carry a fingerprint header,
// which callers treat as "always regenerate".
func HeaderFingerprint(src []byte) (uint64, bool) {
	idx := bytes.Index(src, fingerprintMarker)
	if idx < 0 {
		return 0, false
	}

	rest := src[idx+len(fingerprintMarker):]
	end := bytes.IndexByte(rest, '\n')
	if end < 0 {
		end = len(rest)
	}

	v, err := strconv.ParseUint(string(bytes.TrimSpace(rest[:end])), 16, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}
