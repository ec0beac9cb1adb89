// Package endian provides byte order utilities for the zeroproto wire format.
//
// The wire format is little-endian everywhere, so nearly all callers use
// GetLittleEndianEngine(). The package combines encoding/binary's ByteOrder
// and AppendByteOrder interfaces into a single EndianEngine so encoders can
// append multi-byte values without a temporary buffer:
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, length)
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines the ByteOrder and AppendByteOrder interfaces from
// encoding/binary into a single interface for byte order operations.
//
// binary.LittleEndian and binary.BigEndian both satisfy it, so the engine is
// fully compatible with standard library code while also supporting the
// allocation-free append operations the builders rely on.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	// For a big-endian system, the MSB (0x01) is first.
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))

	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// IsNativeBigEndian reports whether the host is big-endian.
func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}

// GetLittleEndianEngine returns the little-endian engine. This is the wire
// byte order for all zeroproto images.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine. It exists for host
// introspection and tests; zeroproto images are never big-endian.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
