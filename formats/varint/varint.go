// Package varint packs and unpacks unsigned integers using the uvarint
// encoding, with width checks on the unpacking side.
package varint

import (
	"encoding/binary"
	"errors"
	"math"
)

// Common errors.
var (
	errEmptyBuf = errors.New("buffer empty")
	errTooSmall = errors.New("buffer too small")
)

type valueExceededError struct {
	max string
}

func (e *valueExceededError) Error() string {
	return "varint: encoded integer greater than " + e.max
}

// Pack8 packs a uint8 into a VarInt.
func Pack8(n uint8) []byte {
	return Pack64(uint64(n))
}

// Pack16 packs a uint16 into a VarInt.
func Pack16(n uint16) []byte {
	return Pack64(uint64(n))
}

// Pack32 packs a uint32 into a VarInt.
func Pack32(n uint32) []byte {
	return Pack64(uint64(n))
}

// Pack64 packs a uint64 into a VarInt.
func Pack64(n uint64) []byte {
	buf := make([]byte, 10)
	w := binary.PutUvarint(buf, n)
	return buf[:w]
}

// Unpack8 unpacks a VarInt into a uint8. It returns the extracted int,
// how many bytes were used and an error.
func Unpack8(blob []byte) (uint8, int, error) {
	n, r, err := Unpack64(blob)
	if err != nil {
		return 0, 0, err
	}
	if n > math.MaxUint8 {
		return 0, 0, &valueExceededError{max: "uint8"}
	}
	return uint8(n), r, nil
}

// Unpack16 unpacks a VarInt into a uint16. It returns the extracted int,
// how many bytes were used and an error.
func Unpack16(blob []byte) (uint16, int, error) {
	n, r, err := Unpack64(blob)
	if err != nil {
		return 0, 0, err
	}
	if n > math.MaxUint16 {
		return 0, 0, &valueExceededError{max: "uint16"}
	}
	return uint16(n), r, nil
}

// Unpack32 unpacks a VarInt into a uint32. It returns the extracted int,
// how many bytes were used and an error.
func Unpack32(blob []byte) (uint32, int, error) {
	n, r, err := Unpack64(blob)
	if err != nil {
		return 0, 0, err
	}
	if n > math.MaxUint32 {
		return 0, 0, &valueExceededError{max: "uint32"}
	}
	return uint32(n), r, nil
}

// Unpack64 unpacks a VarInt into a uint64. It returns the extracted int,
// how many bytes were used and an error.
func Unpack64(blob []byte) (uint64, int, error) {
	if len(blob) == 0 {
		return 0, 0, errEmptyBuf
	}
	n, r := binary.Uvarint(blob)
	if r == 0 {
		return 0, 0, errTooSmall
	}
	if r < 0 {
		return 0, 0, &valueExceededError{max: "uint64"}
	}
	return n, r, nil
}
