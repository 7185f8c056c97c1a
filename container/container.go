// Package container provides a chunked byte buffer that defers copying until
// the data is actually needed. Chunks are appended as-is, concatenation only
// happens once when the full data is compiled. The entropy feeder uses it to
// collect many small entropy chunks cheaply before reseeding.
package container

// Container holds a sequence of byte slices that together form one blob.
type Container struct {
	compartments [][]byte
}

// New creates a new container with optional initial chunks. Data will NOT
// be copied.
func New(data ...[]byte) *Container {
	return &Container{
		compartments: data,
	}
}

// Append adds the given chunk to the end of the container. Data will NOT
// be copied.
func (c *Container) Append(data []byte) {
	c.compartments = append(c.compartments, data)
}

// Length returns the full length of all bytes held by the container.
func (c *Container) Length() (length int) {
	for _, compartment := range c.compartments {
		length += len(compartment)
	}
	return
}

// CompileData concatenates all chunks and returns them as a single byte
// slice. The container keeps the compiled form, repeated calls do not copy
// again.
func (c *Container) CompileData() []byte {
	if len(c.compartments) != 1 {
		compiled := make([]byte, c.Length())
		buf := compiled
		for _, compartment := range c.compartments {
			copy(buf, compartment)
			buf = buf[len(compartment):]
		}
		c.compartments = [][]byte{compiled}
	}
	return c.compartments[0]
}
