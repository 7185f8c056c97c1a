package container

import (
	"bytes"
	"testing"
)

var (
	testData         = []byte("The quick brown fox jumps over the lazy dog")
	testDataSplitted = [][]byte{
		[]byte("T"),
		[]byte("he"),
		[]byte(" qu"),
		[]byte("ick "),
		[]byte("brown"),
		[]byte(" fox j"),
		[]byte("umps ov"),
		[]byte("er the l"),
		[]byte("azy dog"),
	}
)

func TestContainerDataHandling(t *testing.T) {
	// chunked appends compile to the original data
	c1 := New()
	for _, chunk := range testDataSplitted {
		c1.Append(chunk)
	}
	if c1.Length() != len(testData) {
		t.Errorf("unexpected length: %d", c1.Length())
	}
	if !bytes.Equal(c1.CompileData(), testData) {
		t.Errorf("compiled data mismatch: %q", c1.CompileData())
	}
	// compiling again returns the same data without copying
	if !bytes.Equal(c1.CompileData(), testData) {
		t.Errorf("recompiled data mismatch: %q", c1.CompileData())
	}

	// initial chunks mixed with appends
	c2 := New(testData[:10], testData[10:20])
	c2.Append(testData[20:])
	if !bytes.Equal(c2.CompileData(), testData) {
		t.Errorf("compiled data mismatch: %q", c2.CompileData())
	}

	// a single chunk is passed through as is
	c3 := New(testData)
	if !bytes.Equal(c3.CompileData(), testData) {
		t.Errorf("compiled data mismatch: %q", c3.CompileData())
	}

	// empty container compiles to empty data
	c4 := New()
	if c4.Length() != 0 {
		t.Errorf("unexpected length: %d", c4.Length())
	}
	if len(c4.CompileData()) != 0 {
		t.Errorf("expected empty data, got %q", c4.CompileData())
	}

	// appending after compiling extends the data
	c5 := New(testDataSplitted[0])
	_ = c5.CompileData()
	for _, chunk := range testDataSplitted[1:] {
		c5.Append(chunk)
	}
	if !bytes.Equal(c5.CompileData(), testData) {
		t.Errorf("compiled data mismatch: %q", c5.CompileData())
	}
}
