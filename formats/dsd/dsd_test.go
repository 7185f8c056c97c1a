package dsd

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

type SimpleTestStruct struct {
	S string
	B byte
}

type ComplexTestStruct struct {
	I    int
	I8   int8
	I16  int16
	I32  int32
	I64  int64
	Ui   uint
	Ui8  uint8
	Ui16 uint16
	Ui32 uint32
	Ui64 uint64
	S    string
	Sp   *string
	Sa   []string
	Sap  *[]string
	B    byte
	Bp   *byte
	Ba   []byte
	Bap  *[]byte
	M    map[string]string
	Mp   *map[string]string
}

var (
	simpleSubject = SimpleTestStruct{
		S: "a",
		B: 0x01,
	}

	bString = "b"
	bBytes  byte = 0x02

	complexSubject = ComplexTestStruct{
		I:    -1,
		I8:   -2,
		I16:  -3,
		I32:  -4,
		I64:  -5,
		Ui:   1,
		Ui8:  2,
		Ui16: 3,
		Ui32: 4,
		Ui64: 5,
		S:    "a",
		Sp:   &bString,
		Sa:   []string{"c", "d", "e"},
		Sap:  &[]string{"f", "g", "h"},
		B:    0x01,
		Bp:   &bBytes,
		Ba:   []byte{0x03, 0x04, 0x05},
		Bap:  &[]byte{0x05, 0x06, 0x07},
		M: map[string]string{
			"a": "b",
			"c": "d",
			"e": "f",
		},
		Mp: &map[string]string{
			"g": "h",
			"i": "j",
			"k": "l",
		},
	}
)

func TestConversion(t *testing.T) {
	t.Parallel()

	formats := []SerializationFormat{JSON, CBOR, MsgPack}

	for _, format := range formats {
		// simple
		d, err := Dump(&simpleSubject, format)
		if err != nil {
			t.Fatalf("Dump error (simple struct, format %d): %s", format, err)
		}

		loadedSimple := &SimpleTestStruct{}
		loadedFormat, err := Load(d, loadedSimple)
		if err != nil {
			t.Fatalf("Load error (simple struct, format %d): %s", format, err)
		}
		if loadedFormat != format {
			t.Errorf("Load (simple struct): format mismatch, expected %d, got %d", format, loadedFormat)
		}
		if !reflect.DeepEqual(&simpleSubject, loadedSimple) {
			t.Errorf("Load (simple struct, format %d): subject does not match loaded object", format)
			t.Errorf("Compared: %v == %v", &simpleSubject, loadedSimple)
		}

		// complex
		d, err = Dump(&complexSubject, format)
		if err != nil {
			t.Fatalf("Dump error (complex struct, format %d): %s", format, err)
		}

		loadedComplex := &ComplexTestStruct{}
		_, err = Load(d, loadedComplex)
		if err != nil {
			t.Fatalf("Load error (complex struct, format %d): %s", format, err)
		}
		if !reflect.DeepEqual(&complexSubject, loadedComplex) {
			t.Errorf("Load (complex struct, format %d): subject does not match loaded object", format)
			t.Errorf("Compared: %v == %v", &complexSubject, loadedComplex)
		}
	}

	// raw
	raw := []byte{0x01, 0x02, 0x03}
	d, err := Dump(raw, RAW)
	if err != nil {
		t.Fatalf("Dump error (raw): %s", err)
	}
	if !bytes.Equal(d[1:], raw) {
		t.Errorf("Dump (raw): unexpected payload: %v", d)
	}
	if _, err := Load(d, nil); !errors.Is(err, ErrIsRaw) {
		t.Errorf("Load (raw): expected ErrIsRaw, got %v", err)
	}

	// invalid
	if _, err := Dump(&simpleSubject, 42); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Dump: expected ErrUnknownFormat, got %v", err)
	}
	if _, err := Load([]byte{42, 42}, &SimpleTestStruct{}); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Load: expected ErrUnknownFormat, got %v", err)
	}
	if _, err := Load(nil, &SimpleTestStruct{}); err == nil {
		t.Error("Load: should fail with empty data")
	}
}

func TestCompression(t *testing.T) {
	t.Parallel()

	d, err := DumpAndCompress(&complexSubject, JSON, AutoCompress)
	if err != nil {
		t.Fatalf("DumpAndCompress error: %s", err)
	}
	if d[0] != uint8(GZIP) {
		t.Errorf("expected gzip format identifier, got %d", d[0])
	}

	loaded := &ComplexTestStruct{}
	if _, err := Load(d, loaded); err != nil {
		t.Fatalf("Load error (compressed): %s", err)
	}
	if !reflect.DeepEqual(&complexSubject, loaded) {
		t.Errorf("Load (compressed): subject does not match loaded object")
		t.Errorf("Compared: %v == %v", &complexSubject, loaded)
	}

	if _, err := DumpAndCompress(&complexSubject, JSON, 42); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("DumpAndCompress: expected ErrUnknownFormat, got %v", err)
	}
}
