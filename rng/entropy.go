package rng

import (
	"context"
	"encoding/binary"

	"github.com/tevino/abool"

	"github.com/saradhi4688/qrngenv/container"
)

var rngFeeder = make(chan []byte)

// The Feeder is used to feed entropy to the RNG.
type Feeder struct {
	input        chan *entropyData
	entropy      int64
	needsEntropy *abool.AtomicBool
	buffer       *container.Container
}

type entropyData struct {
	data    []byte
	entropy int
}

// NewFeeder returns a new entropy Feeder.
func NewFeeder() *Feeder {
	feeder := &Feeder{
		input:        make(chan *entropyData),
		needsEntropy: abool.NewBool(true),
		buffer:       container.New(),
	}
	module.StartServiceWorker("rng feeder", 0, feeder.run)
	return feeder
}

// NeedsEntropy returns whether the feeder is currently gathering entropy.
func (f *Feeder) NeedsEntropy() bool {
	return f.needsEntropy.IsSet()
}

// SupplyEntropy supplies entropy to the Feeder, it will block until the
// Feeder has consumed the entropy.
func (f *Feeder) SupplyEntropy(data []byte, entropy int) {
	f.input <- &entropyData{
		data:    data,
		entropy: entropy,
	}
}

// SupplyEntropyAsInt supplies entropy to the Feeder, it will block until
// the Feeder has consumed the entropy.
func (f *Feeder) SupplyEntropyAsInt(n int64, entropy int) {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(n))
	f.SupplyEntropy(b, entropy)
}

// SupplyEntropyIfNeeded supplies entropy to the Feeder, but will not
// block if no entropy is currently needed.
func (f *Feeder) SupplyEntropyIfNeeded(data []byte, entropy int) {
	if !f.needsEntropy.IsSet() {
		return
	}

	select {
	case f.input <- &entropyData{data: data, entropy: entropy}:
	default:
	}
}

// SupplyEntropyAsIntIfNeeded supplies entropy to the Feeder, but will
// not block if no entropy is currently needed.
func (f *Feeder) SupplyEntropyAsIntIfNeeded(n int64, entropy int) {
	if !f.needsEntropy.IsSet() {
		return
	}

	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(n))
	select {
	case f.input <- &entropyData{data: b, entropy: entropy}:
	default:
	}
}

func (f *Feeder) run(ctx context.Context) error {
	defer f.needsEntropy.UnSet()

	for {
		// gather
		f.needsEntropy.Set()
	gather:
		for {
			select {
			case newEntropy := <-f.input:
				if newEntropy != nil {
					f.buffer.Append(newEntropy.data)
					f.entropy += int64(newEntropy.entropy)
					if f.entropy >= minFeedEntropy() {
						break gather
					}
				}
			case <-ctx.Done():
				return nil
			}
		}

		// feed
		f.needsEntropy.UnSet()
		select {
		case rngFeeder <- f.buffer.CompileData():
		case <-ctx.Done():
			return nil
		}
		f.buffer = container.New()
		f.entropy = 0
	}
}

// fullFeeder directly feeds the RNG with gathered entropy.
func fullFeeder(ctx context.Context) error {
	for {
		select {
		case data := <-rngFeeder:
			rngLock.Lock()
			rng.Reseed(data)
			rngLock.Unlock()
		case <-ctx.Done():
			return nil
		}
	}
}
