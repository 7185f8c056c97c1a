package rng

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"time"
)

var (
	lastFeed  time.Time
	bytesRead int64
)

// reader provides an io.Reader interface to the RNG.
type reader struct{}

// Reader provides an io.Reader interface to the RNG.
var Reader io.Reader = reader{}

// checkEntropy reseeds the RNG with fresh entropy if it served enough
// bytes or ran long enough since the last reseed. Must be called while
// holding rngLock.
func checkEntropy() (err error) {
	if !rngReady {
		return errors.New("rng is not ready yet")
	}

	if bytesRead > reseedAfterBytes() ||
		int64(time.Since(lastFeed).Seconds()) > reseedAfterSeconds() {
		select {
		case data := <-rngFeeder:
			rng.Reseed(data)
			bytesRead = 0
			lastFeed = time.Now()
		default:
			// continue without fresh entropy, the full feeder will
			// reseed as soon as the sources gathered enough
		}
	}

	return nil
}

// Read reads random data into the supplied buffer.
func (r reader) Read(b []byte) (n int, err error) {
	return Read(b)
}

// Read reads random data into the supplied buffer.
func Read(b []byte) (n int, err error) {
	rngLock.Lock()
	defer rngLock.Unlock()

	if err := checkEntropy(); err != nil {
		return 0, err
	}

	bytesRead += int64(len(b))
	return copy(b, rng.PseudoRandomData(uint(len(b)))), nil
}

// Bytes returns random data as a byte slice with the specified length.
func Bytes(n int) ([]byte, error) {
	rngLock.Lock()
	defer rngLock.Unlock()

	if err := checkEntropy(); err != nil {
		return nil, err
	}

	bytesRead += int64(n)
	return rng.PseudoRandomData(uint(n)), nil
}

// Number returns a uniform random number between 0 and (incl.) max. It
// corrects for the modulo bias by discarding candidates at and above the
// highest multiple of the range size that fits into an uint64.
func Number(max uint64) (uint64, error) {
	if max == math.MaxUint64 {
		randomBytes, err := Bytes(8)
		if err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint64(randomBytes), nil
	}

	rangeSize := max + 1
	secureLimit := math.MaxUint64 - (math.MaxUint64 % rangeSize)

	for {
		randomBytes, err := Bytes(8)
		if err != nil {
			return 0, err
		}

		candidate := binary.LittleEndian.Uint64(randomBytes)
		if candidate < secureLimit {
			return candidate % rangeSize, nil
		}
	}
}
