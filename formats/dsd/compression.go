package dsd

import (
	"bytes"
	"compress/gzip"
	"errors"

	"github.com/saradhi4688/qrngenv/formats/varint"
)

// DumpAndCompress stores the interface as a dsd formatted data structure and compresses the resulting data.
func DumpAndCompress(t interface{}, format SerializationFormat, compression CompressionFormat) ([]byte, error) {
	// validate compression format
	compression, ok := compression.ValidateCompressionFormat()
	if !ok {
		return nil, ErrUnknownFormat
	}

	data, err := Dump(t, format)
	if err != nil {
		return nil, err
	}

	// prepare writer
	buf := bytes.NewBuffer(nil)
	buf.Write(varint.Pack8(uint8(compression)))

	// compress
	switch compression {
	case GZIP:
		// create gzip writer
		gzipWriter, err := gzip.NewWriterLevel(buf, gzip.BestCompression)
		if err != nil {
			return nil, err
		}

		// write data
		n, err := gzipWriter.Write(data)
		if err != nil {
			return nil, err
		}
		if n != len(data) {
			return nil, errors.New("dsd: failed to fully write to gzip compressor")
		}

		// flush and write gzip footer
		err = gzipWriter.Close()
		if err != nil {
			return nil, err
		}
	default:
		return nil, ErrUnknownFormat
	}

	return buf.Bytes(), nil
}

// DecompressAndLoad decompresses the data using the specified compression format and then loads the resulting data blob into the interface.
func DecompressAndLoad(data []byte, compression CompressionFormat, t interface{}) error {
	// decompress
	buf := bytes.NewBuffer(nil)
	switch compression {
	case GZIP:
		// create gzip reader
		gzipReader, err := gzip.NewReader(bytes.NewBuffer(data))
		if err != nil {
			return err
		}

		// read uncompressed data
		_, err = buf.ReadFrom(gzipReader)
		if err != nil {
			return err
		}

		// flush and verify gzip footer
		err = gzipReader.Close()
		if err != nil {
			return err
		}
	default:
		return ErrUnknownFormat
	}

	// load embedded data blob
	_, err := Load(buf.Bytes(), t)
	return err
}
