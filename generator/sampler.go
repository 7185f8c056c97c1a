package generator

import (
	"context"
	"errors"
	"math"

	vm "github.com/VictoriaMetrics/metrics"

	"github.com/saradhi4688/qrngenv/provider"
	"github.com/saradhi4688/qrngenv/rng"
)

// Batch sizing bounds for remote fetches.
const (
	minBatchSize = 256
	maxBatchSize = 5000
)

var (
	// fetchEntropy indirects the provider fetch so tests can swap it out.
	fetchEntropy = provider.Fetch

	errNoUsableUnits = errors.New("provider returned no acceptable units")

	unitsRejected = vm.GetOrCreateCounter("qrngenv_sampler_units_rejected_total")
)

// sampleSpec holds the derived parameters of one sampling run.
type sampleSpec struct {
	numBits    int
	numSamples int
	unitBits   int    // width of one raw provider unit
	rangeSize  uint32 // m, size of the target range
	limit      uint32 // accept only raw values below this
}

func newSampleSpec(numBits, numSamples int) sampleSpec {
	unitBits := 8
	if numBits > 8 {
		unitBits = 16
	}
	unitRange := uint32(1) << uint(unitBits) // M
	rangeSize := uint32(1) << uint(numBits)  // m

	return sampleSpec{
		numBits:    numBits,
		numSamples: numSamples,
		unitBits:   unitBits,
		rangeSize:  rangeSize,
		limit:      unitRange - unitRange%rangeSize,
	}
}

// accept rejection-samples raw units into dst: values at or above the
// acceptance limit are discarded, never wrapped. Raw order is preserved and
// dst never grows beyond numSamples entries.
func (spec sampleSpec) accept(dst, raw []uint16) []uint16 {
	for _, r := range raw {
		if len(dst) == spec.numSamples {
			break
		}
		if uint32(r) >= spec.limit {
			unitsRejected.Inc()
			continue
		}
		dst = append(dst, uint16(uint32(r)%spec.rangeSize))
	}
	return dst
}

// firstBatchSize is the initial fetch size: the expected number of raw units
// needed to survive rejection, with some headroom.
func (spec sampleSpec) firstBatchSize() int {
	unitRange := uint32(1) << uint(spec.unitBits)
	expand := float64(unitRange) / float64(spec.rangeSize)

	size := int(math.Ceil(float64(spec.numSamples) * expand * 1.1))
	if size < minBatchSize {
		size = minBatchSize
	}
	return clampBatchSize(size)
}

func clampBatchSize(size int) int {
	switch {
	case size < 1:
		return 1
	case size > maxBatchSize:
		return maxBatchSize
	default:
		return size
	}
}

// sampleRemote draws numSamples values from the remote provider, fetching
// raw units in growing batches until rejection sampling has accepted enough.
// Any fetch error aborts the whole run.
func sampleRemote(ctx context.Context, spec sampleSpec) ([]uint16, error) {
	samples := make([]uint16, 0, spec.numSamples)
	batchSize := spec.firstBatchSize()

	for len(samples) < spec.numSamples {
		raw, err := fetchEntropy(ctx, batchSize, spec.unitBits)
		if err != nil {
			return nil, err
		}

		accepted := len(samples)
		samples = spec.accept(samples, raw)
		if len(samples) == accepted {
			// The acceptance chance is above one half for every valid bit
			// width. A whole batch without a single accepted unit means the
			// provider is not delivering usable entropy.
			return nil, errNoUsableUnits
		}

		// Rejections may leave a shortfall, grow the next batch.
		if len(samples) < spec.numSamples {
			batchSize = clampBatchSize(batchSize * 2)
		}
	}

	return samples, nil
}

// sampleLocal simulates numBits fair coin flips per sample, one flip per
// simulated qubit measurement, with all bits drawn from the local rng in a
// single read.
func sampleLocal(_ context.Context, spec sampleSpec) ([]uint16, error) {
	totalBits := spec.numBits * spec.numSamples
	buf := make([]byte, (totalBits+7)/8)
	if _, err := rng.Read(buf); err != nil {
		return nil, err
	}

	samples := make([]uint16, spec.numSamples)
	for i := 0; i < totalBits; i++ {
		if buf[i/8]&(1<<uint(i%8)) != 0 {
			samples[i/spec.numBits] |= 1 << uint(i%spec.numBits)
		}
	}

	return samples, nil
}
