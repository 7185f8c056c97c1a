package generator

import (
	"context"
	"errors"
	"testing"
)

func TestNewSampleSpec(t *testing.T) {
	for _, tc := range []struct {
		numBits      int
		wantUnitBits int
		wantRange    uint32
		wantLimit    uint32
	}{
		{1, 8, 2, 256},
		{3, 8, 8, 256},
		{5, 8, 32, 256},
		{8, 8, 256, 256},
		{9, 16, 512, 65536},
		{12, 16, 4096, 65536},
		{16, 16, 65536, 65536},
	} {
		spec := newSampleSpec(tc.numBits, 10)
		if spec.unitBits != tc.wantUnitBits {
			t.Errorf("bits=%d: expected unit width %d, got %d", tc.numBits, tc.wantUnitBits, spec.unitBits)
		}
		if spec.rangeSize != tc.wantRange {
			t.Errorf("bits=%d: expected range size %d, got %d", tc.numBits, tc.wantRange, spec.rangeSize)
		}
		if spec.limit != tc.wantLimit {
			t.Errorf("bits=%d: expected limit %d, got %d", tc.numBits, tc.wantLimit, spec.limit)
		}
		// Power-of-two ranges divide the unit range evenly, so the
		// acceptance window always spans all raw values.
		if unitRange := uint32(1) << uint(spec.unitBits); spec.limit != unitRange {
			t.Errorf("bits=%d: acceptance window %d does not span the unit range %d", tc.numBits, spec.limit, unitRange)
		}
	}
}

func TestAcceptSyntheticWindow(t *testing.T) {
	// A synthetic non-power-of-two window: only raw values below 250 are
	// acceptable, mapped into a range of 10.
	spec := sampleSpec{numBits: 4, numSamples: 8, unitBits: 8, rangeSize: 10, limit: 250}

	got := spec.accept(nil, []uint16{249, 250, 255, 0, 7, 128})
	want := []uint16{9, 0, 7, 8}

	if len(got) != len(want) {
		t.Fatalf("expected %d accepted values, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		// A wrapped 250 or 255 would show up as 0 or 5 in the wrong spot.
		if got[i] != want[i] {
			t.Errorf("accepted value %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestAcceptTruncates(t *testing.T) {
	spec := sampleSpec{numBits: 8, numSamples: 3, unitBits: 8, rangeSize: 256, limit: 256}

	got := spec.accept(nil, []uint16{1, 2, 3, 4, 5})
	if len(got) != 3 {
		t.Fatalf("expected 3 values, got %d", len(got))
	}
	for i, want := range []uint16{1, 2, 3} {
		if got[i] != want {
			t.Errorf("value %d: expected %d, got %d", i, want, got[i])
		}
	}
}

func TestFirstBatchSize(t *testing.T) {
	for _, tc := range []struct {
		numBits    int
		numSamples int
		want       int
	}{
		{8, 10, 256},     // tiny requests are padded to the minimum
		{1, 100, 5000},   // high expansion hits the cap
		{16, 3000, 3300}, // plain headroom
		{9, 40, 5000},
		{8, 5000, 5000},
	} {
		spec := newSampleSpec(tc.numBits, tc.numSamples)
		if got := spec.firstBatchSize(); got != tc.want {
			t.Errorf("bits=%d samples=%d: expected batch size %d, got %d", tc.numBits, tc.numSamples, tc.want, got)
		}
	}
}

func TestClampBatchSize(t *testing.T) {
	for _, tc := range []struct{ in, want int }{
		{-5, 1},
		{0, 1},
		{1, 1},
		{3000, 3000},
		{5000, 5000},
		{9000, 5000},
	} {
		if got := clampBatchSize(tc.in); got != tc.want {
			t.Errorf("clamp(%d): expected %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestSampleRemoteSingleBatch(t *testing.T) {
	var calls int
	swapFetcher(t, func(ctx context.Context, count, unitBits int) ([]uint16, error) {
		calls++
		return cyclingFetcher(ctx, count, unitBits)
	})

	rejectedBefore := unitsRejected.Get()

	spec := newSampleSpec(3, 50)
	samples, err := sampleRemote(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}

	if calls != 1 {
		t.Errorf("expected a single batch, got %d calls", calls)
	}
	if unitsRejected.Get() != rejectedBefore {
		t.Error("expected no rejections for a power-of-two range")
	}
	if len(samples) != 50 {
		t.Fatalf("expected 50 samples, got %d", len(samples))
	}
	// With the full acceptance window every raw unit maps 1:1 via modulo.
	for i, sample := range samples {
		if want := uint16(i % 8); sample != want {
			t.Errorf("sample %d: expected %d, got %d", i, want, sample)
		}
	}
}

func TestSampleRemoteBatchGrowth(t *testing.T) {
	// Synthetic low acceptance: only one unit per batch is acceptable, so
	// every round falls short and the batch size must double up to the cap.
	spec := sampleSpec{numBits: 3, numSamples: 10, unitBits: 8, rangeSize: 8, limit: 8}

	var sizes []int
	swapFetcher(t, func(_ context.Context, count, _ int) ([]uint16, error) {
		sizes = append(sizes, count)
		units := make([]uint16, count)
		for i := range units {
			units[i] = 255
		}
		units[0] = 3
		return units, nil
	})

	samples, err := sampleRemote(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 10 {
		t.Fatalf("expected 10 samples, got %d", len(samples))
	}
	for i, sample := range samples {
		if sample != 3 {
			t.Errorf("sample %d: expected 3, got %d", i, sample)
		}
	}

	want := []int{352, 704, 1408, 2816, 5000, 5000, 5000, 5000, 5000, 5000}
	if len(sizes) != len(want) {
		t.Fatalf("expected %d batches, got %d: %v", len(want), len(sizes), sizes)
	}
	for i, size := range sizes {
		if size != want[i] {
			t.Errorf("batch %d: expected size %d, got %d", i, want[i], size)
		}
	}
}

func TestSampleRemoteStall(t *testing.T) {
	spec := sampleSpec{numBits: 3, numSamples: 10, unitBits: 8, rangeSize: 8, limit: 8}

	swapFetcher(t, func(_ context.Context, count, _ int) ([]uint16, error) {
		units := make([]uint16, count)
		for i := range units {
			units[i] = 255
		}
		return units, nil
	})

	if _, err := sampleRemote(context.Background(), spec); !errors.Is(err, errNoUsableUnits) {
		t.Fatalf("expected stall error, got %v", err)
	}
}

func TestSampleRemoteError(t *testing.T) {
	fetchFailed := errors.New("fetch failed")
	swapFetcher(t, func(_ context.Context, _, _ int) ([]uint16, error) {
		return nil, fetchFailed
	})

	spec := newSampleSpec(8, 10)
	samples, err := sampleRemote(context.Background(), spec)
	if !errors.Is(err, fetchFailed) {
		t.Fatalf("expected fetch error to propagate, got %v", err)
	}
	if samples != nil {
		t.Errorf("expected no samples on failure, got %d", len(samples))
	}
}

func TestSampleLocalDistribution(t *testing.T) {
	spec := newSampleSpec(1, 10000)
	samples, err := sampleLocal(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 10000 {
		t.Fatalf("expected 10000 samples, got %d", len(samples))
	}

	var ones int
	for i, sample := range samples {
		switch sample {
		case 0:
		case 1:
			ones++
		default:
			t.Fatalf("sample %d out of range: %d", i, sample)
		}
	}
	// Wide empirical margins, failing this by chance is practically
	// impossible with a working rng.
	if ones < 4500 || ones > 5500 {
		t.Errorf("coin flips look biased: %d ones out of 10000", ones)
	}
}

func TestSampleLocalWidth(t *testing.T) {
	spec := newSampleSpec(4, 4000)
	samples, err := sampleLocal(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}

	var seen [16]bool
	for i, sample := range samples {
		if sample >= 16 {
			t.Fatalf("sample %d out of range: %d", i, sample)
		}
		seen[sample] = true
	}
	for value, ok := range seen {
		if !ok {
			t.Errorf("value %d never generated in 4000 samples", value)
		}
	}
}

func TestSampleLocalShapes(t *testing.T) {
	for _, tc := range []struct{ bits, samples int }{
		{1, 1},
		{3, 3},
		{7, 13},
		{15, 17},
		{16, 1},
	} {
		spec := newSampleSpec(tc.bits, tc.samples)
		samples, err := sampleLocal(context.Background(), spec)
		if err != nil {
			t.Fatal(err)
		}
		if len(samples) != tc.samples {
			t.Fatalf("bits=%d samples=%d: got %d samples", tc.bits, tc.samples, len(samples))
		}
		bound := uint32(1) << uint(tc.bits)
		for i, sample := range samples {
			if uint32(sample) >= bound {
				t.Errorf("bits=%d: sample %d out of range: %d", tc.bits, i, sample)
			}
		}
	}
}
