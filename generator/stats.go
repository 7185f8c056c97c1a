package generator

import "math"

// computeStats summarizes generated numbers. Empty input yields a zero Count
// with all other fields nil.
func computeStats(numbers []uint16) Statistics {
	stats := Statistics{Count: len(numbers)}
	if len(numbers) == 0 {
		return stats
	}

	lowest, highest := numbers[0], numbers[0]
	var sum float64
	for _, n := range numbers {
		if n < lowest {
			lowest = n
		}
		if n > highest {
			highest = n
		}
		sum += float64(n)
	}
	mean := sum / float64(len(numbers))

	// population standard deviation
	var sqDiff float64
	for _, n := range numbers {
		diff := float64(n) - mean
		sqDiff += diff * diff
	}
	std := math.Sqrt(sqDiff / float64(len(numbers)))

	stats.Mean = &mean
	stats.Std = &std
	stats.Min = &lowest
	stats.Max = &highest
	return stats
}

// computeEntropy returns the empirical Shannon entropy of the observed value
// distribution, in bits.
func computeEntropy(numbers []uint16) float64 {
	if len(numbers) == 0 {
		return 0
	}

	counts := make(map[uint16]int, len(numbers))
	for _, n := range numbers {
		counts[n]++
	}

	total := float64(len(numbers))
	var entropy float64
	for _, count := range counts {
		p := float64(count) / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}
