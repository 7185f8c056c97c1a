package utils

import (
	"encoding/hex"
	"strings"
)

// SafeFirst16Bytes returns the first sixteen bytes of data as a hex dump
// line, so that untrusted input can be put into error messages and logs.
func SafeFirst16Bytes(data []byte) string {
	if len(data) == 0 {
		return "<empty>"
	}

	return strings.TrimPrefix(
		strings.SplitN(hex.Dump(data), "\n", 2)[0],
		"00000000  ",
	)
}

// SafeFirst16Chars returns the first sixteen characters of s as a hex dump
// line, so that untrusted input can be put into error messages and logs.
func SafeFirst16Chars(s string) string {
	return SafeFirst16Bytes([]byte(s))
}
