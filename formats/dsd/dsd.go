package dsd

// dynamic structured data
// check here for some benchmarks: https://github.com/alecthomas/go_serialization_benchmarks

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/saradhi4688/qrngenv/formats/varint"
	"github.com/saradhi4688/qrngenv/utils"
)

// Load loads a dsd structured data blob into the given interface.
func Load(data []byte, t interface{}) (format SerializationFormat, err error) {
	format, read, err := loadFormat(data)
	if err != nil {
		return 0, err
	}

	if _, ok := format.ValidateSerializationFormat(); ok {
		return format, LoadAsFormat(data[read:], format, t)
	}

	if compression, ok := CompressionFormat(format).ValidateCompressionFormat(); ok {
		return format, DecompressAndLoad(data[read:], compression, t)
	}

	return 0, ErrUnknownFormat
}

func loadFormat(data []byte) (format SerializationFormat, read int, err error) {
	f, read, err := varint.Unpack8(data)
	if err != nil {
		return 0, 0, err
	}
	if len(data) <= read {
		return 0, 0, ErrNoMoreSpace
	}

	return SerializationFormat(f), read, nil
}

// LoadAsFormat loads a data blob into the interface using the specified format.
func LoadAsFormat(data []byte, format SerializationFormat, t interface{}) (err error) {
	switch format {
	case RAW:
		return ErrIsRaw
	case JSON:
		err = json.Unmarshal(data, t)
		if err != nil {
			return fmt.Errorf("dsd: failed to unpack json: %w, data: %s", err, utils.SafeFirst16Bytes(data))
		}
		return nil
	case CBOR:
		err = cbor.Unmarshal(data, t)
		if err != nil {
			return fmt.Errorf("dsd: failed to unpack cbor: %w, data: %s", err, utils.SafeFirst16Bytes(data))
		}
		return nil
	case MsgPack:
		err = msgpack.Unmarshal(data, t)
		if err != nil {
			return fmt.Errorf("dsd: failed to unpack msgpack: %w, data: %s", err, utils.SafeFirst16Bytes(data))
		}
		return nil
	case GenCode:
		genCodeStruct, ok := t.(GenCodeCompatible)
		if !ok {
			return errors.New("dsd: gencode is not supported by the given data structure")
		}
		_, err = genCodeStruct.GenCodeUnmarshal(data)
		if err != nil {
			return fmt.Errorf("dsd: failed to unpack gencode: %w, data: %s", err, utils.SafeFirst16Bytes(data))
		}
		return nil
	default:
		return ErrUnknownFormat
	}
}

// Dump stores the interface as a dsd formatted data structure.
func Dump(t interface{}, format SerializationFormat) ([]byte, error) {
	return DumpIndent(t, format, "")
}

// DumpIndent stores the interface as a dsd formatted data structure with indentation, if available.
func DumpIndent(t interface{}, format SerializationFormat, indent string) ([]byte, error) {
	format, ok := format.ValidateSerializationFormat()
	if !ok {
		return nil, ErrUnknownFormat
	}

	f := varint.Pack8(uint8(format))
	var data []byte
	var err error
	switch format {
	case RAW:
		var ok bool
		data, ok = t.([]byte)
		if !ok {
			return nil, ErrIncompatibleFormat
		}
	case JSON:
		// TODO: use SetEscapeHTML(false)
		if indent != "" {
			data, err = json.MarshalIndent(t, "", indent)
		} else {
			data, err = json.Marshal(t)
		}
		if err != nil {
			return nil, err
		}
	case CBOR:
		data, err = cbor.Marshal(t)
		if err != nil {
			return nil, err
		}
	case MsgPack:
		data, err = msgpack.Marshal(t)
		if err != nil {
			return nil, err
		}
	case GenCode:
		genCodeStruct, ok := t.(GenCodeCompatible)
		if !ok {
			return nil, errors.New("dsd: gencode is not supported by the given data structure")
		}
		data, err = genCodeStruct.GenCodeMarshal(nil)
		if err != nil {
			return nil, fmt.Errorf("dsd: failed to pack gencode struct: %w", err)
		}
	default:
		return nil, ErrUnknownFormat
	}

	return append(f, data...), nil
}

// GenCodeCompatible is an interface to identify and use gencode compatible structs.
type GenCodeCompatible interface {
	// GenCodeMarshal gencode marshalls the struct into the given byte array, or a new one if its too small.
	GenCodeMarshal(buf []byte) ([]byte, error)
	// GenCodeUnmarshal gencode unmarshalls the struct and returns the bytes read.
	GenCodeUnmarshal(buf []byte) (uint64, error)
}
