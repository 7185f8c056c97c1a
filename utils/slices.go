package utils

// DuplicateBytes returns a new copy of the given byte slice.
func DuplicateBytes(a []byte) []byte {
	b := make([]byte, len(a))
	copy(b, a)
	return b
}
